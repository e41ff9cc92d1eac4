package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Playlist struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	IsPublic    bool      `gorm:"default:false;not null" json:"is_public"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Nạp qua PlaylistService.SongsOrdered
	Songs []Song `gorm:"-" json:"songs,omitempty"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Playlist) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"is_public":   p.IsPublic,
		"user_id":     p.UserID,
		"song_count":  len(p.Songs),
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

func (p *Playlist) ToDictWithSongs() map[string]interface{} {
	out := p.ToDict()
	songs := make([]map[string]interface{}, 0, len(p.Songs))
	for i := range p.Songs {
		songs = append(songs, p.Songs[i].ToDict())
	}
	out["songs"] = songs
	return out
}

// PlaylistSong là bảng nối playlists - songs với cột position quyết định
// thứ tự phát.
type PlaylistSong struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"playlist_id"`
	SongID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
	Position   int       `gorm:"default:0;not null" json:"position"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (PlaylistSong) TableName() string {
	return "playlist_songs"
}
