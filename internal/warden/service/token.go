package service

import (
	"context"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
	"github.com/wardenauth/warden/internal/warden/store"
)

// TokenService is the storage-facing half of the token lifecycle. Minting
// and signing live on IssuerService; this type covers lookups, persistence
// and revocation.
type TokenService struct {
	store store.Store
}

func NewTokenService(st store.Store) *TokenService {
	return &TokenService{store: st}
}

// Create persists a token record exactly as supplied.
func (s *TokenService) Create(ctx context.Context, t domain.Token) error {
	return s.store.Tokens().CreateToken(ctx, t)
}

// Find fetches a token by ID.
func (s *TokenService) Find(ctx context.Context, id string) (domain.Token, error) {
	return s.store.Tokens().GetTokenByID(ctx, id)
}

// FindForUser fetches a token only if the given user owns it.
func (s *TokenService) FindForUser(ctx context.Context, id, userID string) (domain.Token, error) {
	return s.store.Tokens().GetTokenForUser(ctx, id, userID)
}

// ForUser lists every token a user owns, newest first.
func (s *TokenService) ForUser(ctx context.Context, userID string) ([]domain.Token, error) {
	return s.store.Tokens().ListTokensForUser(ctx, userID)
}

// FindValidToken returns the freshest usable token for a (user, client)
// pair, or store.ErrNotFound when none survives the revocation and expiry
// filters.
func (s *TokenService) FindValidToken(ctx context.Context, userID, clientID string) (domain.Token, error) {
	return s.store.Tokens().GetLatestValidToken(ctx, userID, clientID, time.Now().UTC())
}

// Save upserts the full token aggregate.
func (s *TokenService) Save(ctx context.Context, t domain.Token) error {
	return s.store.Tokens().SaveToken(ctx, t)
}

// Revoke marks a token revoked. Absent or already-revoked tokens are a
// no-op.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	return s.store.Tokens().RevokeToken(ctx, id)
}

// IsRevoked reports whether a token is revoked. Unknown tokens count as
// revoked, as do lookup failures, so auth decisions built on this fail
// closed.
func (s *TokenService) IsRevoked(ctx context.Context, id string) bool {
	t, err := s.store.Tokens().GetTokenByID(ctx, id)
	if err != nil {
		return true
	}
	return t.Revoked
}
