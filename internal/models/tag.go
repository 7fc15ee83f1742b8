package models

import "time"

// Tag is a canonical label (skill, location, agency, ...) attachable
// to opportunities and applications through association tables.
// Within a type, a trimmed name resolves to at most one tag.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagInput is a single reconciliation input: either an existing tag id
// or a free-text name plus type to be resolved to a canonical tag.
type TagInput struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
