package models

import "time"

// MaxTaskSelections caps how many opportunities one application may
// select; sort orders are unique per application within {1,2,3}.
const MaxTaskSelections = 3

// Application is one per (user, community, cycle), enforced by
// find-or-create at the service layer.
type Application struct {
	ID          int64     `json:"application_id"`
	UserID      int64     `json:"user_id"`
	CommunityID int64     `json:"community_id"`
	CycleID     int64     `json:"cycle_id"`
	CurrentStep int       `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tasks  []ApplicationTask `json:"tasks,omitempty"`
	Skills []Tag             `json:"skills,omitempty"`
}

// ApplicationTask is a selected opportunity within an application.
type ApplicationTask struct {
	ID            int64     `json:"application_task_id"`
	ApplicationID int64     `json:"application_id"`
	UserID        int64     `json:"user_id"`
	TaskID        int64     `json:"task_id"`
	SortOrder     int       `json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
