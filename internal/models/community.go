package models

import "time"

// Community target audiences. Student communities require language
// requirement child records on their opportunities.
const (
	AudienceFederal = 1
	AudienceStudent = 2
)

// ProcessInternship is the only application process the application
// flow knows how to drive.
const ProcessInternship = "internship"

type Community struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	TargetAudience     int       `json:"target_audience"`
	ApplicationProcess string    `json:"application_process"`
	CycleID            *int64    `json:"cycle_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CommunityUser is the membership row; managers moderate the
// community's opportunities.
type CommunityUser struct {
	ID          int64 `json:"id"`
	CommunityID int64 `json:"community_id"`
	UserID      int64 `json:"user_id"`
	IsManager   bool  `json:"is_manager"`
}

func (c *Community) IsStudent() bool {
	return c != nil && c.TargetAudience == AudienceStudent
}
