package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Story and Chapter are owned by the authoring service; the economy only reads them.
type Story struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID  *string        `gorm:"type:uuid;index" json:"author_id"`
	Title     string         `gorm:"not null" json:"title"`
	Synopsis  string         `json:"synopsis"`
	CoverURL  string         `gorm:"type:varchar(500)" json:"cover_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Story) TableName() string {
	return "stories"
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

type Chapter struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	StoryID   string         `gorm:"type:uuid;not null;index" json:"story_id"`
	Number    int            `gorm:"not null" json:"number"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Chapter) TableName() string {
	return "chapters"
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
