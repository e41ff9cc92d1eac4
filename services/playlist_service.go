package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
)

// PlaylistService chứa nghiệp vụ playlist cá nhân: CRUD và quản lý thứ tự
// bài hát qua cột position.
type PlaylistService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewPlaylistService(db *gorm.DB, log *logrus.Logger) *PlaylistService {
	return &PlaylistService{db: db, log: log}
}

type CreatePlaylistInput struct {
	Name        string
	Description string
	IsPublic    bool
}

func (s *PlaylistService) Create(input CreatePlaylistInput, userID uuid.UUID) (*models.Playlist, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("playlist name is required")
	}

	playlist := &models.Playlist{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsPublic:    input.IsPublic,
		UserID:      userID,
	}
	if err := s.db.Create(playlist).Error; err != nil {
		return nil, apperrors.Wrap("failed to create playlist", err)
	}
	return playlist, nil
}

// GetByID trả về playlist theo id, nil nếu không có.
func (s *PlaylistService) GetByID(id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := s.db.First(&playlist, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap("failed to query playlist", err)
	}
	return &playlist, nil
}

// GetViewable trả về playlist nếu user được phép xem. Playlist không công
// khai của người khác coi như không tồn tại.
func (s *PlaylistService) GetViewable(id uuid.UUID, userID uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, nil
	}
	if !playlist.IsPublic && playlist.UserID != userID {
		return nil, nil
	}
	return playlist, nil
}

func (s *PlaylistService) UserPlaylists(userID uuid.UUID) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&playlists).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list playlists", err)
	}
	return playlists, nil
}

func (s *PlaylistService) PublicPlaylists() ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := s.db.Where("is_public = ?", true).Order("updated_at DESC").Find(&playlists).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list public playlists", err)
	}
	return playlists, nil
}

type UpdatePlaylistInput struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

func (s *PlaylistService) Update(id uuid.UUID, input UpdatePlaylistInput, userID uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.ownedPlaylist(id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validation("playlist name is required")
		}
		playlist.Name = name
	}
	if input.Description != nil {
		playlist.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsPublic != nil {
		playlist.IsPublic = *input.IsPublic
	}

	if err := s.db.Save(playlist).Error; err != nil {
		return nil, apperrors.Wrap("failed to update playlist", err)
	}
	return playlist, nil
}

// Delete xoá playlist và các dòng playlist_songs của nó trong một transaction.
func (s *PlaylistService) Delete(id uuid.UUID, userID uuid.UUID) error {
	if _, err := s.ownedPlaylist(id, userID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, "id = ?", id).Error
	})
	if err != nil {
		return apperrors.Wrap("failed to delete playlist", err)
	}
	return nil
}

// AddSong nối bài vào cuối playlist: position = max hiện tại + 1.
func (s *PlaylistService) AddSong(playlistID, songID uuid.UUID, userID uuid.UUID) error {
	if _, err := s.ownedPlaylist(playlistID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var song models.Song
		if err := tx.First(&song, "id = ?", songID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("song not found")
			}
			return apperrors.Wrap("failed to query song", err)
		}

		var count int64
		if err := tx.Model(&models.PlaylistSong{}).
			Where("playlist_id = ? AND song_id = ?", playlistID, songID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap("failed to check playlist membership", err)
		}
		if count > 0 {
			return apperrors.Conflict("song is already in this playlist")
		}

		var maxPos *int
		if err := tx.Model(&models.PlaylistSong{}).
			Where("playlist_id = ?", playlistID).
			Select("MAX(position)").Scan(&maxPos).Error; err != nil {
			return apperrors.Wrap("failed to compute position", err)
		}
		next := 0
		if maxPos != nil {
			next = *maxPos + 1
		}

		entry := &models.PlaylistSong{PlaylistID: playlistID, SongID: songID, Position: next}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap("failed to add song to playlist", err)
		}
		return nil
	})
}

// RemoveSong gỡ bài khỏi playlist, lỗi nếu bài không nằm trong playlist.
func (s *PlaylistService) RemoveSong(playlistID, songID uuid.UUID, userID uuid.UUID) error {
	if _, err := s.ownedPlaylist(playlistID, userID); err != nil {
		return err
	}

	result := s.db.Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&models.PlaylistSong{})
	if result.Error != nil {
		return apperrors.Wrap("failed to remove song from playlist", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Validation("song is not in this playlist")
	}
	return nil
}

// SongsOrdered trả về các bài trong playlist theo position tăng dần.
func (s *PlaylistService) SongsOrdered(playlistID uuid.UUID) ([]models.Song, error) {
	var songs []models.Song
	err := s.db.Model(&models.Song{}).
		Joins("JOIN playlist_songs ps ON ps.song_id = songs.id").
		Where("ps.playlist_id = ?", playlistID).
		Order("ps.position ASC").
		Find(&songs).Error
	if err != nil {
		return nil, apperrors.Wrap("failed to list playlist songs", err)
	}
	return songs, nil
}

// Reorder gán position = vị trí trong songIDs cho đúng các id được gửi
// lên; id không có trong danh sách giữ nguyên position cũ.
func (s *PlaylistService) Reorder(playlistID uuid.UUID, songIDs []uuid.UUID, userID uuid.UUID) error {
	if _, err := s.ownedPlaylist(playlistID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for position, songID := range songIDs {
			err := tx.Model(&models.PlaylistSong{}).
				Where("playlist_id = ? AND song_id = ?", playlistID, songID).
				Update("position", position).Error
			if err != nil {
				return apperrors.Wrap("failed to reorder playlist", err)
			}
		}
		return nil
	})
}

func (s *PlaylistService) ownedPlaylist(id uuid.UUID, userID uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, apperrors.NotFound("playlist not found")
	}
	if playlist.UserID != userID {
		return nil, apperrors.Authorization("you can only modify your own playlists")
	}
	return playlist, nil
}
