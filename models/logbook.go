package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Các loại entry trong logbook.
const (
	LogTypeLogin    = "login"
	LogTypeSecurity = "security"
)

// Logbook lưu dấu vết đăng nhập và sự kiện bảo mật.
type Logbook struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Entry         string    `gorm:"type:text;not null" json:"entry"`
	Type          string    `gorm:"size:50;not null;index" json:"type"`
	ReferenceCode string    `gorm:"size:100" json:"reference_code"`
	Severity      string    `gorm:"size:20" json:"severity"`

	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Logbook) TableName() string {
	return "logbook"
}

func (l *Logbook) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
