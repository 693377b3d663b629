package entity

import "time"

type TopupStatus string

const (
	TopupStatusPending  TopupStatus = "pending"
	TopupStatusApproved TopupStatus = "approved"
	TopupStatusRejected TopupStatus = "rejected"
)

type TopupRequest struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Coins       int         `json:"coins"`
	Amount      float64     `json:"amount,omitempty"`
	Method      string      `json:"method,omitempty"`
	Note        string      `json:"note,omitempty"`
	ReceiptURL  string      `json:"receipt_url,omitempty"`
	Status      TopupStatus `json:"status"`
	AdminID     string      `json:"admin_id,omitempty"`
	AdminNote   string      `json:"admin_note,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
}

type TopupFilter struct {
	UserID string
	Status TopupStatus
}
