package store

import (
	"context"
	"errors"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and carries the transaction entry points so multi-step operations
// like cascade revocation stay atomic.
type Store interface {
	Clients() Clients
	Tokens() Tokens
	PersonalAccessClients() PersonalAccessClients

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// GetClientByID fetches a client regardless of ownership or revocation.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// GetClientForUser fetches a client only if it belongs to the given user.
	GetClientForUser(ctx context.Context, id, userID string) (domain.Client, error)

	// ListClientsForUser returns all of a user's clients ordered by name
	// ascending, revoked ones included.
	ListClientsForUser(ctx context.Context, userID string) ([]domain.Client, error)

	// CreateClient inserts a new client (id and secret provided by the app).
	CreateClient(ctx context.Context, c domain.Client) error

	// UpdateClient mutates name and redirect, bumping updated_at.
	UpdateClient(ctx context.Context, clientID, name, redirect string) error

	// UpdateClientSecret replaces the secret, bumping updated_at.
	UpdateClientSecret(ctx context.Context, clientID, secret string) error

	// RevokeClient flips revoked=1. There is no way back; revocation is
	// monotonic. Revoking an absent or revoked client is a no-op.
	RevokeClient(ctx context.Context, clientID string) error
}

type Tokens interface {
	// CreateToken stores a token record exactly as supplied. The store never
	// generates token IDs.
	CreateToken(ctx context.Context, t domain.Token) error

	// GetTokenByID fetches a token by its ID.
	GetTokenByID(ctx context.Context, id string) (domain.Token, error)

	// GetTokenForUser fetches a token only if it belongs to the given user.
	GetTokenForUser(ctx context.Context, id, userID string) (domain.Token, error)

	// ListTokensForUser returns all of a user's tokens.
	ListTokensForUser(ctx context.Context, userID string) ([]domain.Token, error)

	// GetLatestValidToken returns the non-revoked, unexpired token for the
	// (user, client) pair with the latest expiry. When several tokens share
	// that expiry the choice between them is arbitrary.
	GetLatestValidToken(ctx context.Context, userID, clientID string, now time.Time) (domain.Token, error)

	// SaveToken upserts the full token aggregate keyed by ID.
	SaveToken(ctx context.Context, t domain.Token) error

	// RevokeToken flips revoked=1. Revoking an absent or already-revoked
	// token is a no-op, not an error.
	RevokeToken(ctx context.Context, id string) error

	// RevokeAllClientTokens bulk-revokes every token owned by a client.
	RevokeAllClientTokens(ctx context.Context, clientID string) error
}

type PersonalAccessClients interface {
	// CreatePersonalAccessClient writes a designation record pointing at a
	// client.
	CreatePersonalAccessClient(ctx context.Context, rec domain.PersonalAccessClientRecord) error

	// GetLatestPersonalAccessClient returns the most recent designation.
	GetLatestPersonalAccessClient(ctx context.Context) (domain.PersonalAccessClientRecord, error)
}
