package domain

import "time"

// Session represents a persisted login session keyed by user and token.
type Session struct {
	UserID    int64
	IP        string
	Token     string
	ExpiresAt time.Time
}

// IsActive reports whether the session has not yet expired at the supplied moment.
func (s Session) IsActive(at time.Time) bool {
	return s.ExpiresAt.After(at)
}

// RememberCookie is a single-use credential substitute persisted between
// visits. The value is composed as username:token and the record is deleted
// the moment it is redeemed.
type RememberCookie struct {
	UserID int64
	Value  string
}
