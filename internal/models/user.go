package models

import "time"

type Agency struct {
	Name       string `json:"name"`
	Abbr       string `json:"abbr"`
	ParentAbbr string `json:"parentAbbr"`
	Slug       string `json:"slug"`
	Domain     string `json:"domain"`
}

// User is an account in the marketplace. Bounced marks an address that
// hard-bounced; no notification is ever sent to a bounced user.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	RoleID         int       `json:"role_id"`
	Bounced        bool      `json:"bounced"`
	Disabled       bool      `json:"disabled"`
	Agency         *Agency   `json:"agency,omitempty"`
	TelegramChatID *int64    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
