package domain

// AuthContext carries authenticated state back to the caller after a login
// flow. The transport layer owns the value and threads it explicitly; nothing
// in this package stores it as ambient per-request state.
type AuthContext struct {
	UserID        int64
	Name          string
	Username      string
	Email         string
	Token         string
	Authenticated bool
}
