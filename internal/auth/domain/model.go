// Package domain contains core types for the session/identity gateway.
package domain

import "time"

// User is a local account of a workspace.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

func (u User) RecordID() string { return u.ID }

// Touched returns u unchanged; users carry no update timestamp.
func (u User) Touched(time.Time) User { return u }

// Session is the single signed-in user of a workspace. ExpiresAt is in Unix
// milliseconds.
type Session struct {
	User      User  `json:"user"`
	ExpiresAt int64 `json:"expiresAt"`
}

func NewSession(user User, now time.Time, ttl time.Duration) Session {
	return Session{User: user, ExpiresAt: now.Add(ttl).UnixMilli()}
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return now.UnixMilli() > s.ExpiresAt
}

func (s Session) ExpiresTime() time.Time {
	return time.UnixMilli(s.ExpiresAt).UTC()
}
