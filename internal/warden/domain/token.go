package domain

import "time"

// Token is a stored access token record. The ID is supplied by the issuer
// (it doubles as the JWT jti claim), never generated by storage. After
// creation only Revoked ever changes; records are never hard-deleted so the
// audit trail stays intact.
type Token struct {
	ID        string
	UserID    string // empty for client-credential-only tokens
	ClientID  string
	Scopes    []string
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}
