package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/storage"
	"github.com/mixroom/mixroom-backend/utils"
)

// MixService chứa nghiệp vụ mix: CRUD, thành viên bài hát, like và lượt nghe.
// Mọi thao tác ghi nhiều dòng đều chạy trong một transaction.
type MixService struct {
	db   *gorm.DB
	blob storage.BlobStore
	log  *logrus.Logger
}

func NewMixService(db *gorm.DB, blob storage.BlobStore, log *logrus.Logger) *MixService {
	return &MixService{db: db, blob: blob, log: log}
}

type CreateMixInput struct {
	Title       string
	Description string
	Genre       string
	Visibility  models.Visibility
}

// CreateMix tạo mix mới: title >= 3 ký tự sau khi trim, visibility thuộc
// enum (mặc định private).
func (s *MixService) CreateMix(input CreateMixInput, userID uuid.UUID) (*models.Mix, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("mix title is required")
	}
	// Đếm theo ký tự, không phải byte
	if utf8.RuneCountInString(title) < 3 {
		return nil, apperrors.Validation("mix title must be at least 3 characters long")
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, apperrors.Validation("visibility must be one of: private, class, public")
	}

	mix := &models.Mix{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Genre:       strings.TrimSpace(input.Genre),
		Visibility:  visibility,
		CreatedByID: userID,
	}
	if err := s.db.Create(mix).Error; err != nil {
		return nil, apperrors.Wrap("failed to create mix", err)
	}

	s.log.WithFields(logrus.Fields{"mix_id": mix.ID, "user_id": userID}).Info("mix created")
	return mix, nil
}

// GetByID trả về mix theo id, nil nếu không có.
func (s *MixService) GetByID(id uuid.UUID) (*models.Mix, error) {
	var mix models.Mix
	err := s.db.First(&mix, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query mix", err)
	}
	return &mix, nil
}

// GetViewable trả về mix nếu user được phép xem: mix private chỉ chủ sở
// hữu thấy, class và public thì user đăng nhập nào cũng xem được.
func (s *MixService) GetViewable(id uuid.UUID, actingUser uuid.UUID) (*models.Mix, error) {
	mix, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mix == nil {
		return nil, nil
	}
	if mix.Visibility == models.VisibilityPrivate && mix.CreatedByID != actingUser {
		return nil, apperrors.Authorization("you do not have access to this mix")
	}
	return mix, nil
}

// UserMixes trả về các mix của một user, lọc thêm theo visibility nếu có.
func (s *MixService) UserMixes(userID uuid.UUID, visibility models.Visibility) ([]models.Mix, error) {
	query := s.db.Where("created_by_id = ?", userID)
	if visibility != "" {
		query = query.Where("visibility = ?", visibility)
	}

	var mixes []models.Mix
	if err := query.Order("updated_at DESC").Find(&mixes).Error; err != nil {
		return nil, apperrors.Wrap("failed to list mixes", err)
	}
	return mixes, nil
}

// PublicMixes trả về các mix công khai, sắp theo lượt nghe giảm dần.
func (s *MixService) PublicMixes(limit int) ([]models.Mix, error) {
	query := s.db.Where("visibility = ?", models.VisibilityPublic).
		Order("play_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var mixes []models.Mix
	if err := query.Find(&mixes).Error; err != nil {
		return nil, apperrors.Wrap("failed to list public mixes", err)
	}
	return mixes, nil
}

type UpdateMixInput struct {
	Title       *string
	Description *string
	Genre       *string
	Visibility  *models.Visibility
}

// UpdateMix cập nhật từng phần: chỉ field được gửi lên mới bị đụng tới,
// mỗi field validate như lúc tạo. Chỉ chủ sở hữu được sửa.
func (s *MixService) UpdateMix(id uuid.UUID, input UpdateMixInput, userID uuid.UUID) (*models.Mix, error) {
	mix, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mix == nil {
		return nil, apperrors.NotFound("mix not found")
	}
	if mix.CreatedByID != userID {
		return nil, apperrors.Authorization("you can only edit your own mixes")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if utf8.RuneCountInString(title) < 3 {
			return nil, apperrors.Validation("mix title must be at least 3 characters long")
		}
		mix.Title = title
	}
	if input.Visibility != nil {
		if !input.Visibility.Valid() {
			return nil, apperrors.Validation("visibility must be one of: private, class, public")
		}
		mix.Visibility = *input.Visibility
	}
	if input.Description != nil {
		mix.Description = strings.TrimSpace(*input.Description)
	}
	if input.Genre != nil {
		mix.Genre = strings.TrimSpace(*input.Genre)
	}

	if err := s.db.Save(mix).Error; err != nil {
		return nil, apperrors.Wrap("failed to update mix", err)
	}
	return mix, nil
}

// UpdateCover lưu ảnh bìa mới lên blob store và gắn vào mix; ảnh cũ bị xoá.
func (s *MixService) UpdateCover(id uuid.UUID, data []byte, filename, contentType string, userID uuid.UUID) (*models.Mix, error) {
	mix, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mix == nil {
		return nil, apperrors.NotFound("mix not found")
	}
	if mix.CreatedByID != userID {
		return nil, apperrors.Authorization("you can only edit your own mixes")
	}

	objectPath := fmt.Sprintf("images/%s/%s", userID, utils.UniqueFilename(filename))
	ref, err := s.blob.Save(data, objectPath, contentType)
	if err != nil {
		return nil, apperrors.Storage("failed to upload cover image", err)
	}

	oldCover := mix.CoverImage
	mix.CoverImage = ref
	if err := s.db.Save(mix).Error; err != nil {
		// DB hỏng thì dọn luôn blob vừa ghi
		if delErr := s.blob.Delete(ref); delErr != nil {
			s.log.WithError(delErr).WithField("ref", ref).Error("không dọn được cover image mồ côi")
		}
		return nil, apperrors.Wrap("failed to update mix", err)
	}

	if oldCover != "" {
		if err := s.blob.Delete(oldCover); err != nil {
			s.log.WithError(err).WithField("ref", oldCover).Warn("không xoá được cover image cũ")
		}
	}
	return mix, nil
}

// DeleteMix xoá mix cùng toàn bộ dữ liệu phụ thuộc: dòng mix_songs, like,
// play history, rồi tới dòng mix, tất cả trong một transaction. Cover
// image trên blob store xoá sau khi commit.
func (s *MixService) DeleteMix(id uuid.UUID, userID uuid.UUID) error {
	mix, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if mix == nil {
		return apperrors.NotFound("mix not found")
	}
	if mix.CreatedByID != userID {
		return apperrors.Authorization("you can only delete your own mixes")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mix_id = ?", id).Delete(&models.MixSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mix_id = ?", id).Delete(&models.MixLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mix_id = ?", id).Delete(&models.PlayHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Mix{}, "id = ?", id).Error
	})
	if err != nil {
		return apperrors.Wrap("failed to delete mix", err)
	}

	if mix.CoverImage != "" {
		if err := s.blob.Delete(mix.CoverImage); err != nil {
			s.log.WithError(err).WithField("ref", mix.CoverImage).Warn("không xoá được cover image")
		}
	}

	s.log.WithFields(logrus.Fields{"mix_id": id, "user_id": userID}).Info("mix deleted")
	return nil
}

// AddSongToMix thêm bài vào mix, kèm track number nếu có. Ownership chỉ
// kiểm tra khi truyền actingUser (call nội bộ có thể bỏ qua).
func (s *MixService) AddSongToMix(mixID, songID uuid.UUID, trackNumber *int, actingUser *uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		mix, err := s.findMixInTx(tx, mixID)
		if err != nil {
			return err
		}
		if actingUser != nil && mix.CreatedByID != *actingUser {
			return apperrors.Authorization("you can only modify your own mixes")
		}

		var song models.Song
		if err := tx.First(&song, "id = ?", songID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("song not found")
			}
			return apperrors.Wrap("failed to query song", err)
		}

		var count int64
		if err := tx.Model(&models.MixSong{}).
			Where("mix_id = ? AND song_id = ?", mixID, songID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap("failed to check mix membership", err)
		}
		if count > 0 {
			return apperrors.Conflict("song is already in this mix")
		}

		entry := &models.MixSong{MixID: mixID, SongID: songID, TrackNumber: trackNumber}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap("failed to add song to mix", err)
		}
		return touchMix(tx, mixID)
	})
}

// RemoveSongFromMix gỡ bài khỏi mix, lỗi nếu bài không nằm trong mix.
func (s *MixService) RemoveSongFromMix(mixID, songID uuid.UUID, actingUser *uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		mix, err := s.findMixInTx(tx, mixID)
		if err != nil {
			return err
		}
		if actingUser != nil && mix.CreatedByID != *actingUser {
			return apperrors.Authorization("you can only modify your own mixes")
		}

		result := tx.Where("mix_id = ? AND song_id = ?", mixID, songID).
			Delete(&models.MixSong{})
		if result.Error != nil {
			return apperrors.Wrap("failed to remove song from mix", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Validation("song is not in this mix")
		}
		return touchMix(tx, mixID)
	})
}

// SongsOrdered trả về các bài trong mix theo track_number tăng dần (null
// xếp cuối), hoà bằng title.
func (s *MixService) SongsOrdered(mixID uuid.UUID) ([]models.Song, error) {
	var songs []models.Song
	err := s.db.Model(&models.Song{}).
		Joins("JOIN mix_songs ms ON ms.song_id = songs.id").
		Where("ms.mix_id = ?", mixID).
		Order("ms.track_number IS NULL, ms.track_number ASC, songs.title ASC").
		Find(&songs).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list mix songs", err)
	}
	return songs, nil
}

// LikeMix thêm like cho mix. Like trùng trả ConflictError; like_count tăng
// trong cùng transaction với dòng MixLike nên không bao giờ lệch nhau.
func (s *MixService) LikeMix(mixID, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.findMixInTx(tx, mixID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.MixLike{}).
			Where("mix_id = ? AND user_id = ?", mixID, userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap("failed to check like", err)
		}
		if count > 0 {
			return apperrors.Conflict("you have already liked this mix")
		}

		if err := tx.Create(&models.MixLike{MixID: mixID, UserID: userID}).Error; err != nil {
			return apperrors.Wrap("failed to like mix", err)
		}

		return tx.Model(&models.Mix{}).Where("id = ?", mixID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
}

// UnlikeMix bỏ like. Chưa like trả NotFoundError; like_count giảm nhưng
// không xuống dưới 0.
func (s *MixService) UnlikeMix(mixID, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.findMixInTx(tx, mixID); err != nil {
			return err
		}

		result := tx.Where("mix_id = ? AND user_id = ?", mixID, userID).
			Delete(&models.MixLike{})
		if result.Error != nil {
			return apperrors.Wrap("failed to unlike mix", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("you have not liked this mix")
		}

		return tx.Model(&models.Mix{}).Where("id = ? AND like_count > 0", mixID).
			UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error
	})
}

// RecordPlay ghi một dòng play history và tăng play_count của mix trong
// cùng transaction.
func (s *MixService) RecordPlay(mixID, userID uuid.UUID, playDuration *int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.findMixInTx(tx, mixID); err != nil {
			return err
		}

		record := &models.PlayHistory{
			UserID:       userID,
			MixID:        &mixID,
			PlayDuration: playDuration,
		}
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap("failed to record play", err)
		}

		return tx.Model(&models.Mix{}).Where("id = ?", mixID).
			UpdateColumn("play_count", gorm.Expr("play_count + ?", 1)).Error
	})
}

// TrackNumber trả về track number của một bài trong mix, nil nếu chưa đặt.
func (s *MixService) TrackNumber(mixID, songID uuid.UUID) (*int, error) {
	var entry models.MixSong
	err := s.db.Where("mix_id = ? AND song_id = ?", mixID, songID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("song is not in this mix")
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query mix membership", err)
	}
	return entry.TrackNumber, nil
}

// SetTrackNumber cập nhật track number của một bài đã nằm trong mix.
func (s *MixService) SetTrackNumber(mixID, songID uuid.UUID, trackNumber *int, actingUser *uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		mix, err := s.findMixInTx(tx, mixID)
		if err != nil {
			return err
		}
		if actingUser != nil && mix.CreatedByID != *actingUser {
			return apperrors.Authorization("you can only modify your own mixes")
		}

		result := tx.Model(&models.MixSong{}).
			Where("mix_id = ? AND song_id = ?", mixID, songID).
			Update("track_number", trackNumber)
		if result.Error != nil {
			return apperrors.Wrap("failed to set track number", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Validation("song is not in this mix")
		}
		return touchMix(tx, mixID)
	})
}

func (s *MixService) findMixInTx(tx *gorm.DB, mixID uuid.UUID) (*models.Mix, error) {
	var mix models.Mix
	if err := tx.First(&mix, "id = ?", mixID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("mix not found")
		}
		return nil, apperrors.Wrap("failed to query mix", err)
	}
	return &mix, nil
}

func touchMix(tx *gorm.DB, mixID uuid.UUID) error {
	return tx.Model(&models.Mix{}).Where("id = ?", mixID).
		UpdateColumn("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
