package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationModel struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID   string    `gorm:"type:uuid;not null;index" json:"donor_id"`
	StoryID   string    `gorm:"type:uuid;not null;index" json:"story_id"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	Coins     int       `gorm:"not null" json:"coins"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (DonationModel) TableName() string {
	return "donations"
}

func (d *DonationModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
