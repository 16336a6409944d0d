package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/cryptox"
	"github.com/wardenauth/warden/pkg/idx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// ErrPersonalAccessClientNotFound is returned when no client is designated
// for minting personal access tokens.
var ErrPersonalAccessClientNotFound = errors.New("service: personal access client not found")

// ClientService owns the OAuth2 client lifecycle: registration, updates,
// secret rotation, and revocation with token cascade. Deleting a client is
// soft; records stay behind with revoked=1.
type ClientService struct {
	store store.Store

	// PersonalAccessClientID, when set, pins the personal access client and
	// short-circuits the lookup of designation records.
	PersonalAccessClientID string
}

func NewClientService(st store.Store) *ClientService {
	return &ClientService{store: st}
}

// Find fetches a client by ID regardless of ownership or revocation state.
func (s *ClientService) Find(ctx context.Context, id string) (domain.Client, error) {
	return s.store.Clients().GetClientByID(ctx, id)
}

// FindActive fetches a client by ID, treating revoked clients as absent.
func (s *ClientService) FindActive(ctx context.Context, id string) (domain.Client, error) {
	c, err := s.store.Clients().GetClientByID(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	if c.Revoked {
		return domain.Client{}, store.ErrNotFound
	}
	return c, nil
}

// FindForUser fetches a client only if the given user owns it.
func (s *ClientService) FindForUser(ctx context.Context, id, userID string) (domain.Client, error) {
	return s.store.Clients().GetClientForUser(ctx, id, userID)
}

// ForUser lists every client a user owns, revoked ones included, ordered by
// name.
func (s *ClientService) ForUser(ctx context.Context, userID string) ([]domain.Client, error) {
	return s.store.Clients().ListClientsForUser(ctx, userID)
}

// ActiveForUser lists a user's non-revoked clients, ordered by name.
func (s *ClientService) ActiveForUser(ctx context.Context, userID string) ([]domain.Client, error) {
	all, err := s.store.Clients().ListClientsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := all[:0]
	for _, c := range all {
		if !c.Revoked {
			active = append(active, c)
		}
	}
	return active, nil
}

// PersonalAccessClient resolves the client used to mint personal access
// tokens. A configured ID wins; otherwise the newest designation record
// decides. No designation at all yields ErrPersonalAccessClientNotFound.
func (s *ClientService) PersonalAccessClient(ctx context.Context) (domain.Client, error) {
	if s.PersonalAccessClientID != "" {
		return s.Find(ctx, s.PersonalAccessClientID)
	}

	rec, err := s.store.PersonalAccessClients().GetLatestPersonalAccessClient(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrPersonalAccessClientNotFound
	}
	if err != nil {
		return domain.Client{}, err
	}

	return s.Find(ctx, rec.ClientID)
}

// Create registers a new client with a fresh ID and generated secret. The
// secret is returned on the struct and never derivable again, so callers
// must surface it immediately.
func (s *ClientService) Create(
	ctx context.Context,
	userID, name, redirect string,
	personalAccess, password bool,
) (domain.Client, error) {
	secret, err := cryptox.GenerateSecret(cryptox.SecretLength)
	if err != nil {
		return domain.Client{}, fmt.Errorf("generate client secret: %w", err)
	}

	now := time.Now().UTC()
	c := domain.Client{
		ID:                   idx.New().String(),
		UserID:               userID,
		Name:                 name,
		Secret:               secret,
		Redirect:             redirect,
		PersonalAccessClient: personalAccess,
		PasswordClient:       password,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.store.Clients().CreateClient(ctx, c); err != nil {
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client created",
		"client_id", c.ID,
		"user_id", c.UserID,
		"personal_access", personalAccess,
		"password", password,
	)
	return c, nil
}

// CreatePersonalAccessClient registers a client and designates it as the
// personal access client in one transaction. An empty userID creates a
// machine-only client.
func (s *ClientService) CreatePersonalAccessClient(
	ctx context.Context,
	userID, name, redirect string,
) (domain.Client, error) {
	secret, err := cryptox.GenerateSecret(cryptox.SecretLength)
	if err != nil {
		return domain.Client{}, fmt.Errorf("generate client secret: %w", err)
	}

	now := time.Now().UTC()
	c := domain.Client{
		ID:                   idx.New().String(),
		UserID:               userID,
		Name:                 name,
		Secret:               secret,
		Redirect:             redirect,
		PersonalAccessClient: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Clients().CreateClient(ctx, c); err != nil {
			return err
		}
		return tx.PersonalAccessClients().CreatePersonalAccessClient(ctx,
			domain.PersonalAccessClientRecord{
				ID:        idx.New().String(),
				ClientID:  c.ID,
				CreatedAt: now,
				UpdatedAt: now,
			})
	})
	if err != nil {
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("personal access client created", "client_id", c.ID)
	return c, nil
}

// CreatePasswordGrantClient registers a password-grant client.
func (s *ClientService) CreatePasswordGrantClient(
	ctx context.Context,
	name, redirect string,
) (domain.Client, error) {
	return s.Create(ctx, "", name, redirect, false, true)
}

// Update renames a client and changes its redirect. The lookup is scoped to
// the owning user, so foreign clients come back as store.ErrNotFound.
func (s *ClientService) Update(
	ctx context.Context,
	id, userID, name, redirect string,
) (domain.Client, error) {
	c, err := s.store.Clients().GetClientForUser(ctx, id, userID)
	if err != nil {
		return domain.Client{}, err
	}

	if err := s.store.Clients().UpdateClient(ctx, c.ID, name, redirect); err != nil {
		return domain.Client{}, err
	}

	return s.store.Clients().GetClientByID(ctx, c.ID)
}

// RegenerateSecret replaces a client's secret with a fresh one. The old
// secret stops working immediately.
func (s *ClientService) RegenerateSecret(ctx context.Context, id, userID string) (domain.Client, error) {
	c, err := s.store.Clients().GetClientForUser(ctx, id, userID)
	if err != nil {
		return domain.Client{}, err
	}

	secret, err := cryptox.GenerateSecret(cryptox.SecretLength)
	if err != nil {
		return domain.Client{}, fmt.Errorf("generate client secret: %w", err)
	}

	if err := s.store.Clients().UpdateClientSecret(ctx, c.ID, secret); err != nil {
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client secret rotated", "client_id", c.ID)
	return s.store.Clients().GetClientByID(ctx, c.ID)
}

// IsRevoked reports whether a client is revoked. Absent clients count as
// revoked so callers fail closed.
func (s *ClientService) IsRevoked(ctx context.Context, id string) bool {
	c, err := s.store.Clients().GetClientByID(ctx, id)
	if err != nil {
		return true
	}
	return c.Revoked
}

// Delete revokes a client and cascades revocation over every token it ever
// issued, atomically. Nothing is physically deleted. Clients the user does
// not own come back as store.ErrNotFound; deleting an already-revoked
// client is a no-op, so repeated deletes leave state unchanged.
func (s *ClientService) Delete(ctx context.Context, id, userID string) error {
	c, err := s.store.Clients().GetClientForUser(ctx, id, userID)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Clients().RevokeClient(ctx, c.ID); err != nil {
			return err
		}
		return tx.Tokens().RevokeAllClientTokens(ctx, c.ID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("client revoked", "client_id", c.ID, "user_id", userID)
	return nil
}
