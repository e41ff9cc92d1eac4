package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/storage"
	"github.com/mixroom/mixroom-backend/utils"
)

// Các định dạng audio cho phép upload.
var allowedFormats = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"ogg":  true,
	"m4a":  true,
	"flac": true,
}

// SongService chứa nghiệp vụ bài hát: upload, cập nhật metadata, xoá và
// ghi lượt nghe.
type SongService struct {
	db          *gorm.DB
	blob        storage.BlobStore
	log         *logrus.Logger
	maxFileSize int64
}

func NewSongService(db *gorm.DB, blob storage.BlobStore, log *logrus.Logger, maxFileSize int64) *SongService {
	return &SongService{db: db, blob: blob, log: log, maxFileSize: maxFileSize}
}

type UploadSongInput struct {
	FileName    string
	Data        []byte
	ContentType string

	Title    string
	Artist   string
	Genre    string
	Explicit bool

	// Metadata do client gửi lên, không tự trích xuất từ file
	DurationSeconds int
	Bitrate         int
	SampleRate      int
}

// Upload validate file, lưu blob rồi tạo dòng Song. Nếu ghi DB thất bại
// sau khi blob đã ghi thì blob bị xoá để không rác storage.
func (s *SongService) Upload(input UploadSongInput, userID uuid.UUID) (*models.Song, error) {
	if input.FileName == "" || len(input.Data) == 0 {
		return nil, apperrors.Validation("no file selected")
	}

	format := utils.FileExt(input.FileName)
	if !allowedFormats[format] {
		return nil, apperrors.Validation("file type not allowed. Allowed types: mp3, wav, ogg, m4a, flac")
	}

	size := int64(len(input.Data))
	if size > s.maxFileSize {
		return nil, apperrors.Validation("file size too large. Maximum size: %dMB", s.maxFileSize/(1024*1024))
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		// Không có title thì lấy tên file bỏ phần mở rộng
		title = strings.TrimSuffix(filepath.Base(input.FileName), filepath.Ext(input.FileName))
	}
	if title == "" {
		return nil, apperrors.Validation("song title is required")
	}

	objectPath := fmt.Sprintf("audio/%s/%s", userID, utils.UniqueFilename(input.FileName))
	ref, err := s.blob.Save(input.Data, objectPath, input.ContentType)
	if err != nil {
		return nil, apperrors.Storage("failed to save audio file", err)
	}

	song := &models.Song{
		Title:           title,
		Artist:          strings.TrimSpace(input.Artist),
		Genre:           strings.TrimSpace(input.Genre),
		FileRef:         ref,
		FileName:        filepath.Base(input.FileName),
		FileSize:        size,
		FileFormat:      format,
		DurationSeconds: input.DurationSeconds,
		Bitrate:         input.Bitrate,
		SampleRate:      input.SampleRate,
		Explicit:        input.Explicit,
		UploadedByID:    userID,
	}

	if err := s.db.Create(song).Error; err != nil {
		// Blob đã ghi mà row hỏng thì dọn blob
		if delErr := s.blob.Delete(ref); delErr != nil {
			s.log.WithError(delErr).WithField("ref", ref).Error("không dọn được file audio mồ côi")
		}
		return nil, apperrors.Wrap("failed to create song", err)
	}

	s.log.WithFields(logrus.Fields{"song_id": song.ID, "user_id": userID, "size": size}).Info("song uploaded")
	return song, nil
}

// GetByID trả về bài hát theo id, nil nếu không có.
func (s *SongService) GetByID(id uuid.UUID) (*models.Song, error) {
	var song models.Song
	err := s.db.First(&song, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query song", err)
	}
	return &song, nil
}

// UserSongs trả về các bài một user đã upload, mới sửa trước.
func (s *SongService) UserSongs(userID uuid.UUID) ([]models.Song, error) {
	var songs []models.Song
	err := s.db.Where("uploaded_by_id = ?", userID).
		Order("updated_at DESC").
		Find(&songs).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list songs", err)
	}
	return songs, nil
}

type UpdateSongInput struct {
	Title    *string
	Artist   *string
	Genre    *string
	Explicit *bool
}

// UpdateSong cập nhật metadata từng phần, chỉ chủ sở hữu được sửa.
func (s *SongService) UpdateSong(id uuid.UUID, input UpdateSongInput, userID uuid.UUID) (*models.Song, error) {
	song, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, apperrors.NotFound("song not found")
	}
	if song.UploadedByID != userID {
		return nil, apperrors.Authorization("you can only edit your own songs")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.Validation("song title is required")
		}
		song.Title = title
	}
	if input.Artist != nil {
		song.Artist = strings.TrimSpace(*input.Artist)
	}
	if input.Genre != nil {
		song.Genre = strings.TrimSpace(*input.Genre)
	}
	if input.Explicit != nil {
		song.Explicit = *input.Explicit
	}

	if err := s.db.Save(song).Error; err != nil {
		return nil, apperrors.Wrap("failed to update song", err)
	}
	return song, nil
}

// DeleteSong xoá bài hát: gỡ khỏi mọi mix và playlist, xoá play history,
// xoá dòng Song trong một transaction, rồi xoá blob sau khi commit.
func (s *SongService) DeleteSong(id uuid.UUID, userID uuid.UUID) error {
	song, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if song == nil {
		return apperrors.NotFound("song not found")
	}
	if song.UploadedByID != userID {
		return apperrors.Authorization("you can only delete your own songs")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", id).Delete(&models.MixSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", id).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", id).Delete(&models.PlayHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Song{}, "id = ?", id).Error
	})
	if err != nil {
		return apperrors.Wrap("failed to delete song", err)
	}

	if song.FileRef != "" {
		if err := s.blob.Delete(song.FileRef); err != nil {
			s.log.WithError(err).WithField("ref", song.FileRef).Warn("không xoá được file audio")
		}
	}

	s.log.WithFields(logrus.Fields{"song_id": id, "user_id": userID}).Info("song deleted")
	return nil
}

// Download đọc nội dung file audio từ blob store.
func (s *SongService) Download(id uuid.UUID) (*models.Song, []byte, error) {
	song, err := s.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if song == nil {
		return nil, nil, apperrors.NotFound("song not found")
	}

	data, err := s.blob.Read(song.FileRef)
	if err != nil {
		return nil, nil, apperrors.Storage("failed to read audio file", err)
	}
	return song, data, nil
}

// RecordPlay ghi một dòng play history và tăng play_count của bài trong
// cùng transaction.
func (s *SongService) RecordPlay(songID, userID uuid.UUID, playDuration *int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var song models.Song
		if err := tx.First(&song, "id = ?", songID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("song not found")
			}
			return apperrors.Wrap("failed to query song", err)
		}

		record := &models.PlayHistory{
			UserID:       userID,
			SongID:       &songID,
			PlayDuration: playDuration,
		}
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap("failed to record play", err)
		}

		return tx.Model(&models.Song{}).Where("id = ?", songID).
			UpdateColumn("play_count", gorm.Expr("play_count + ?", 1)).Error
	})
}

// UserHistory trả về các lượt nghe gần nhất của một user.
func (s *SongService) UserHistory(userID uuid.UUID, limit int) ([]models.PlayHistory, error) {
	query := s.db.Where("user_id = ?", userID).Order("played_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var history []models.PlayHistory
	if err := query.Find(&history).Error; err != nil {
		return nil, apperrors.Wrap("failed to list play history", err)
	}
	return history, nil
}
