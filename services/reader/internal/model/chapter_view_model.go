package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterViewModel struct {
	ID          string    `gorm:"type:uuid;primary_key"`
	IdentityKey string    `gorm:"type:varchar(100);not null;index:idx_chapter_views_identity_day,priority:1"`
	StoryID     string    `gorm:"type:uuid;not null"`
	ChapterID   string    `gorm:"type:uuid;not null"`
	ViewedAt    time.Time `gorm:"not null;index:idx_chapter_views_identity_day,priority:2"`
}

func (ChapterViewModel) TableName() string {
	return "chapter_views"
}

func (m *ChapterViewModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
