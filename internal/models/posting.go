package models

import "time"

// PostingStatus controls whether a posting accepts applications.
type PostingStatus string

const (
	PostingActive   PostingStatus = "active"
	PostingInactive PostingStatus = "inactive"
	PostingClosed   PostingStatus = "closed"
)

// PostingStatuses lists every known posting status.
var PostingStatuses = []PostingStatus{PostingActive, PostingInactive, PostingClosed}

func (s PostingStatus) Valid() bool {
	for _, st := range PostingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParsePostingStatus converts free text into a PostingStatus.
func ParsePostingStatus(s string) (PostingStatus, bool) {
	st := PostingStatus(s)
	return st, st.Valid()
}

// Posting is a job opening. Token is the public identifier used in the
// application link.
type Posting struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	Title        string        `gorm:"size:200;not null" json:"title"`
	Description  string        `gorm:"type:text;not null" json:"description"`
	Requirements string        `gorm:"type:text" json:"requirements,omitempty"`
	Location     string        `gorm:"size:100" json:"location,omitempty"`
	Status       PostingStatus `gorm:"size:20;not null;index" json:"status"`
	Token        string        `gorm:"uniqueIndex;size:8;not null" json:"token"`
}

// AcceptsApplications reports whether candidates may apply.
func (p *Posting) AcceptsApplications() bool { return p.Status == PostingActive }

// ApplyPath is the public path candidates use to apply.
func (p *Posting) ApplyPath() string { return "/inscrever/" + p.Token }
