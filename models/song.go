package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Song struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null;index" json:"title"`
	Artist    string    `gorm:"size:200;index" json:"artist"`
	Genre     string    `gorm:"size:50;index" json:"genre"`

	// Thông tin file trên blob store
	FileRef    string `gorm:"size:500;not null" json:"-"`
	FileName   string `gorm:"size:255;not null" json:"file_name"`
	FileSize   int64  `json:"file_size"`
	FileFormat string `gorm:"size:10" json:"file_format"`

	// Metadata âm thanh (client gửi lên, không tự trích xuất)
	DurationSeconds int `json:"duration_seconds"`
	Bitrate         int `json:"bitrate"`
	SampleRate      int `json:"sample_rate"`

	Explicit  bool `gorm:"default:false;not null" json:"explicit"`
	PlayCount int  `gorm:"default:0;not null" json:"play_count"`

	UploadedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Duration trả về dạng "M:SS", "0:00" khi chưa có thời lượng.
func (s *Song) Duration() string {
	return FormatDuration(s.DurationSeconds)
}

// FileSizeMB trả về dung lượng theo MB, làm tròn 2 chữ số.
func (s *Song) FileSizeMB() float64 {
	if s.FileSize == 0 {
		return 0
	}
	return math.Round(float64(s.FileSize)/(1024*1024)*100) / 100
}

func (s *Song) ToDict() map[string]interface{} {
	out := map[string]interface{}{
		"id":               s.ID,
		"title":            s.Title,
		"artist":           s.Artist,
		"genre":            s.Genre,
		"file_name":        s.FileName,
		"file_format":      s.FileFormat,
		"file_size_mb":     s.FileSizeMB(),
		"duration":         s.Duration(),
		"duration_seconds": s.DurationSeconds,
		"bitrate":          s.Bitrate,
		"sample_rate":      s.SampleRate,
		"explicit":         s.Explicit,
		"play_count":       s.PlayCount,
		"uploaded_by_id":   s.UploadedByID,
		"created_at":       s.CreatedAt,
		"updated_at":       s.UpdatedAt,
	}
	if s.UploadedBy != nil {
		out["uploaded_by_name"] = s.UploadedBy.FullName()
	}
	return out
}

// FormatDuration đổi số giây thành "M:SS".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
