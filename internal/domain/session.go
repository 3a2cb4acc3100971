package domain

import "time"

// Session is a short-lived OAuth state record used for CSRF protection
// during the install flow.
type Session struct {
	ID        string    `json:"id,omitempty"`
	Shop      string    `json:"shop"`
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
