package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private" // Chỉ chủ sở hữu
	VisibilityClass   Visibility = "class"   // Trong lớp
	VisibilityPublic  Visibility = "public"  // Công khai
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityClass, VisibilityPublic:
		return true
	}
	return false
}

type Mix struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null;index" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Genre       string     `gorm:"size:50;index" json:"genre"`
	CoverImage  string     `gorm:"size:500" json:"cover_image"`
	Visibility  Visibility `gorm:"type:varchar(20);not null;default:'private'" json:"visibility"`

	PlayCount int `gorm:"default:0;not null" json:"play_count"`
	LikeCount int `gorm:"default:0;not null" json:"like_count"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Nạp qua MixService.SongsOrdered, không preload tự động
	Songs []Song `gorm:"-" json:"songs,omitempty"`
}

func (m *Mix) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SongCount đếm số bài trong mix (theo slice đã nạp).
func (m *Mix) SongCount() int {
	return len(m.Songs)
}

// TotalDuration cộng thời lượng các bài, "0:00" khi rỗng.
func (m *Mix) TotalDuration() string {
	total := 0
	for _, s := range m.Songs {
		total += s.DurationSeconds
	}
	return FormatDuration(total)
}

func (m *Mix) ToDict() map[string]interface{} {
	out := map[string]interface{}{
		"id":             m.ID,
		"title":          m.Title,
		"description":    m.Description,
		"genre":          m.Genre,
		"cover_image":    m.CoverImage,
		"visibility":     m.Visibility,
		"play_count":     m.PlayCount,
		"like_count":     m.LikeCount,
		"song_count":     m.SongCount(),
		"total_duration": m.TotalDuration(),
		"created_by_id":  m.CreatedByID,
		"created_at":     m.CreatedAt,
		"updated_at":     m.UpdatedAt,
	}
	if m.CreatedBy != nil {
		out["created_by_name"] = m.CreatedBy.FullName()
	}
	return out
}

func (m *Mix) ToDictWithSongs() map[string]interface{} {
	out := m.ToDict()
	songs := make([]map[string]interface{}, 0, len(m.Songs))
	for i := range m.Songs {
		songs = append(songs, m.Songs[i].ToDict())
	}
	out["songs"] = songs
	return out
}

// MixSong là bảng nối mixes - songs, mang thêm track_number nên được
// khai báo như một entity riêng.
type MixSong struct {
	MixID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"mix_id"`
	SongID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
	TrackNumber *int      `json:"track_number"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (MixSong) TableName() string {
	return "mix_songs"
}

// MixLike ghi nhận một user thích một mix, mỗi cặp tối đa một dòng.
type MixLike struct {
	MixID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"mix_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MixLike) TableName() string {
	return "mix_likes"
}

// PlayHistory lưu mỗi lượt nghe của bài hát hoặc mix; mỗi dòng chỉ gắn
// với đúng một trong hai.
type PlayHistory struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SongID       *uuid.UUID `gorm:"type:uuid;index" json:"song_id"`
	MixID        *uuid.UUID `gorm:"type:uuid;index" json:"mix_id"`
	PlayedAt     time.Time  `gorm:"autoCreateTime" json:"played_at"`
	PlayDuration *int       `json:"play_duration"`
}

func (PlayHistory) TableName() string {
	return "play_history"
}

func (p *PlayHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
