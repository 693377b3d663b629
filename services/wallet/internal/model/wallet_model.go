package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletModel struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Balance   int       `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

type PaymentModel struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind          string    `gorm:"type:varchar(32);not null" json:"kind"`
	Coins         int       `gorm:"not null" json:"coins"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
	ReferenceID   *string   `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	StoryID       *string   `gorm:"type:uuid" json:"story_id,omitempty"`
	Note          string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
