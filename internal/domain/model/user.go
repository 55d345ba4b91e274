package model

import (
	"time"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	DateJoined     time.Time `json:"-"`
}

// AuthToken is the server-side record of an issued bearer token.
// Deleting it revokes the token even before it expires.
type AuthToken struct {
	Key       string // jti claim
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t *AuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type UserProfile struct {
	ID                string  `json:"id"`
	UserID            string  `json:"-"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Bio               *string `json:"bio"`
	PreferredLanguage string  `json:"preferred_language"`
	PreferredTopics   *string `json:"preferred_topics"`
}
