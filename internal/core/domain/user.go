package domain

import (
	"strings"
	"time"
)

// User models an account managed by the identity store.
type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	NormalizedUsername string    `json:"-"`
	Email              string    `json:"email"`
	NormalizedEmail    string    `json:"-"`
	PasswordHash       string    `json:"-"`
	SecurityStamp      string    `json:"-"`
	Roles              []string  `json:"roles"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Normalize returns the lookup form of a username or email. Uniqueness and
// lookups are case-insensitive.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// HasRole reports whether the user belongs to role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
