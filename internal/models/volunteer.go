package models

import "time"

// Volunteer associates a user with an opportunity. Rows are created on
// application and only removed when the opportunity itself is deleted.
// The order of rows is the assignment order.
type Volunteer struct {
	ID            int64     `json:"id"`
	OpportunityID int64     `json:"opportunity_id"`
	UserID        int64     `json:"user_id"`
	Assigned      bool      `json:"assigned"`
	TaskComplete  bool      `json:"task_complete"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Recipient fields joined from users for notification fan-out.
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Bounced        bool   `json:"bounced,omitempty"`
	TelegramChatID *int64 `json:"-"`
}
