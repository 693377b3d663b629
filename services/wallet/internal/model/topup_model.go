package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TopupRequestModel struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Coins       int        `gorm:"not null" json:"coins"`
	Amount      float64    `gorm:"type:numeric(12,2);default:0" json:"amount"`
	Method      string     `gorm:"type:varchar(50)" json:"method"`
	Note        string     `gorm:"type:text" json:"note"`
	ReceiptURL  string     `gorm:"type:text" json:"receipt_url"`
	Status      string     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	AdminID     *string    `gorm:"type:uuid" json:"admin_id,omitempty"`
	AdminNote   string     `gorm:"type:text" json:"admin_note"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (TopupRequestModel) TableName() string {
	return "topup_requests"
}

func (t *TopupRequestModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
