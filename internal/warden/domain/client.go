package domain

import "time"

// Client is an OAuth2 client registration. Secrets are stored and returned
// verbatim so client owners can read them back from the management API.
// An empty UserID marks a machine-only client with no owning user.
type Client struct {
	ID                   string
	UserID               string
	Name                 string
	Secret               string
	Redirect             string
	PersonalAccessClient bool
	PasswordClient       bool
	Revoked              bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PersonalAccessClientRecord marks a client as the installation's personal
// access client. The newest record wins when several exist; the history is
// kept so earlier designations remain auditable.
type PersonalAccessClientRecord struct {
	ID        string
	ClientID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
