package entity

import "time"

type Chapter struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChapterView is one ledger entry. IdentityKey is a user id or a visitor key.
type ChapterView struct {
	IdentityKey string    `json:"identity_key"`
	StoryID     string    `json:"story_id"`
	ChapterID   string    `json:"chapter_id"`
	ViewedAt    time.Time `json:"viewed_at"`
}

// AccessDecision is what the gate hands back when a chapter may be served.
type AccessDecision struct {
	Chapter    *Chapter `json:"chapter"`
	AdRequired bool     `json:"ad_required"`
	// Reread is set when the chapter had already been counted today.
	Reread bool `json:"-"`
}

type Quota struct {
	Role      string `json:"role"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
}

func (q Quota) Remaining() int {
	if q.Unlimited || q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}
