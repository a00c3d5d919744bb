package models

import "time"

// ApplicationStatus is the review state of an application. Any status may
// follow any other.
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationInReview   ApplicationStatus = "in_review"
	ApplicationApproved   ApplicationStatus = "approved"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationTalentPool ApplicationStatus = "talent_pool"
)

// ApplicationStatuses lists every review status in display order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationInReview,
	ApplicationApproved,
	ApplicationRejected,
	ApplicationTalentPool,
}

func (s ApplicationStatus) Valid() bool {
	for _, st := range ApplicationStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseApplicationStatus converts free text into an ApplicationStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	st := ApplicationStatus(s)
	return st, st.Valid()
}

// Application is a candidate's submission to a posting. CreatedAt is the
// submission time; UpdatedAt is touched on every mutation.
type Application struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time         `json:"submitted_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	PostingID         uint              `gorm:"index;not null" json:"posting_id"`
	Name              string            `gorm:"size:100;not null" json:"name"`
	Email             string            `gorm:"size:120;not null" json:"email"`
	Phone             string            `gorm:"size:20" json:"phone,omitempty"`
	ProfileURL        string            `gorm:"size:200" json:"profile_url,omitempty"`
	ResumeFile        string            `gorm:"size:255;index" json:"resume_file,omitempty"`
	SalaryExpectation string            `gorm:"size:50" json:"salary_expectation,omitempty"`
	Status            ApplicationStatus `gorm:"size:20;not null;index" json:"status"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
}
