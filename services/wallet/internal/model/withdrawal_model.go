package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WithdrawalModel struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Coins       int        `gorm:"not null" json:"coins"`
	Method      string     `gorm:"type:varchar(50);not null" json:"method"`
	Details     string     `gorm:"type:text" json:"details"`
	Status      string     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	AdminID     *string    `gorm:"type:uuid" json:"admin_id,omitempty"`
	AdminNote   string     `gorm:"type:text" json:"admin_note"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (WithdrawalModel) TableName() string {
	return "withdrawals"
}

func (w *WithdrawalModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
