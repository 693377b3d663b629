package entity

import "time"

type Donation struct {
	ID        string    `json:"id"`
	DonorID   string    `json:"donor_id"`
	StoryID   string    `json:"story_id"`
	AuthorID  string    `json:"author_id"`
	Coins     int       `json:"coins"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DonationResult struct {
	Donation     *Donation `json:"donation"`
	DonorWallet  *Wallet   `json:"donor_wallet"`
	AuthorWallet *Wallet   `json:"author_wallet"`
}
