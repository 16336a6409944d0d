package domain

// TokenCreated is published once a token descriptor has been persisted.
// Listeners register directly on the issuer service; there is no global bus.
type TokenCreated struct {
	TokenID  string
	UserID   string
	ClientID string
}
