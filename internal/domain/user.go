package domain

import (
	"regexp"
	"time"
)

// emailPattern is intentionally loose: something@something.something with no
// whitespace and a single @ on each side of the split.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a registered account.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // Never expose password hash in JSON
	FirstName      string     `json:"fName"`
	LastName       string     `json:"lName"`
	Deleted        bool       `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `json:"-"`
}

// Identity returns the token-facing view of the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

// ValidEmail reports whether email has the local@domain.tld shape
// accepted at registration.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Identity is the authenticated principal. It is derived from a User at
// login, embedded in tokens, and attached to requests by the auth gate.
// It is never persisted on its own.
type Identity struct {
	ID       int64
	Username string
	Email    string
}
