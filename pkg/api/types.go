// Package api holds the JSON request/response types of the warden HTTP
// surface. They live in pkg so external consumers can decode responses
// without importing internal packages.
package api

// ErrorResponse is the uniform error payload. Error codes follow the OAuth2
// convention (invalid_request, invalid_token, insufficient_scope, ...).
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Scopes           []string `json:"scopes,omitempty"` // scopes that would have satisfied the check
}

// ClientInfo is the public representation of an OAuth2 client. The secret is
// included: client owners need it to configure their integrations.
type ClientInfo struct {
	ID                   string `json:"id"`
	UserID               string `json:"user_id,omitempty"`
	Name                 string `json:"name"`
	Secret               string `json:"secret"`
	Redirect             string `json:"redirect"`
	PersonalAccessClient bool   `json:"personal_access_client"`
	PasswordClient       bool   `json:"password_client"`
	Revoked              bool   `json:"revoked"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

type ListClientsResponse struct {
	Clients []ClientInfo `json:"clients"`
}

type CreateClientRequest struct {
	Name     string `json:"name"`
	Redirect string `json:"redirect"`
}

type UpdateClientRequest struct {
	Name     string `json:"name"`
	Redirect string `json:"redirect"`
}

// TokenInfo is the public representation of an issued access token record.
type TokenInfo struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id,omitempty"`
	ClientID  string   `json:"client_id"`
	Scopes    []string `json:"scopes"`
	Revoked   bool     `json:"revoked"`
	CreatedAt string   `json:"created_at"`
	ExpiresAt string   `json:"expires_at"`
}

type ListTokensResponse struct {
	Tokens []TokenInfo `json:"tokens"`
}

type CreateTokenRequest struct {
	Name   string   `json:"name,omitempty"`
	Scopes []string `json:"scopes"`
}

// CreateTokenResponse returns the stored token record plus the signed JWT.
// The JWT is only returned once, at mint time.
type CreateTokenResponse struct {
	Token       TokenInfo `json:"token"`
	AccessToken string    `json:"access_token"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
