package models

import "time"

// OpportunityState defines the lifecycle states of an opportunity.
type OpportunityState string

const (
	StateDraft      OpportunityState = "draft"
	StateSubmitted  OpportunityState = "submitted"
	StateOpen       OpportunityState = "open"
	StateAssigned   OpportunityState = "assigned"
	StateInProgress OpportunityState = "in progress"
	StateCompleted  OpportunityState = "completed"
	StateCanceled   OpportunityState = "canceled"
)

// Restrict is the visibility policy blob stored on each opportunity.
// An empty blob means the opportunity is visible to everyone.
type Restrict struct {
	Name           string `json:"name"`
	Abbr           string `json:"abbr"`
	ParentAbbr     string `json:"parentAbbr"`
	Slug           string `json:"slug"`
	Domain         string `json:"domain"`
	ProjectNetwork bool   `json:"projectNetwork"`
}

// Opportunity represents a postable volunteering/internship listing.
type Opportunity struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Details     string           `json:"details"`
	Outcome     string           `json:"outcome"`
	About       string           `json:"about"`
	State       OpportunityState `json:"state"`
	OwnerID     int64            `json:"owner_id"`
	AgencyID    *int64           `json:"agency_id,omitempty"`
	CommunityID *int64           `json:"community_id,omitempty"`
	Restrict    Restrict         `json:"restrict"`
	CompleteBy  *time.Time       `json:"complete_by,omitempty"`

	// One nullable timestamp per state-entry event. Once set, a
	// timestamp is never cleared or re-stamped by a later transition
	// into the same state.
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Hydrated associations, populated by the service layer.
	Owner      *User           `json:"owner,omitempty"`
	Tags       []Tag           `json:"tags,omitempty"`
	Volunteers []Volunteer     `json:"volunteers,omitempty"`
	Language   []LanguageSkill `json:"language,omitempty"`
}

// OpportunityAttributes is the attribute set accepted by create/update.
// Tags replaces the association set wholesale. Language is a three-way
// field: nil leaves the child rows untouched, an empty slice clears
// them, a non-empty slice replaces them.
type OpportunityAttributes struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Details     string           `json:"details"`
	Outcome     string           `json:"outcome"`
	About       string           `json:"about"`
	State       OpportunityState `json:"state"`
	OwnerID     int64            `json:"owner_id"`
	AgencyID    *int64           `json:"agency_id"`
	CommunityID *int64           `json:"community_id"`
	Restrict    Restrict         `json:"restrict"`
	CompleteBy  *time.Time       `json:"complete_by"`
	Tags        []TagInput       `json:"tags"`
	Language    []LanguageSkill  `json:"language"`
}

// LanguageSkill is a language requirement child record, present only
// on opportunities owned by a student-audience community.
type LanguageSkill struct {
	ID                  int64     `json:"id"`
	OpportunityID       int64     `json:"opportunity_id"`
	LanguageID          int64     `json:"language_id"`
	SpeakingProficiency string    `json:"speaking_proficiency"`
	ReadingProficiency  string    `json:"reading_proficiency"`
	WritingProficiency  string    `json:"writing_proficiency"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
