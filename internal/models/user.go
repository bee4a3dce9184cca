package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the authenticated identity attached to a request. It is
// constructed once per request by the session middleware and never
// mutated afterwards.
type Principal struct {
	ID       string
	Username string
	Email    string
}
