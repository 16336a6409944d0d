package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wardenauth/warden/internal/warden/domain"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/jwtx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// TokenCreatedListener receives a notification after a token record has
// been persisted. Listener failures are logged and swallowed; issuance
// never rolls back because a listener misbehaved.
type TokenCreatedListener func(ctx context.Context, ev domain.TokenCreated)

// IssuerService mints access tokens. Building a descriptor and persisting
// it are separate steps so callers can inspect or adjust a token before it
// is committed; IssuePersonalAccessToken composes both with JWT signing.
type IssuerService struct {
	store   store.Store
	clients *ClientService
	signer  jwtx.Signer

	issuer    string
	accessTTL time.Duration

	listeners []TokenCreatedListener
}

func NewIssuerService(
	st store.Store,
	clients *ClientService,
	signer jwtx.Signer,
	issuer string,
	accessTTL time.Duration,
) *IssuerService {
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	return &IssuerService{
		store:     st,
		clients:   clients,
		signer:    signer,
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// OnTokenCreated registers a listener for the TokenCreated event. Not safe
// to call once the service is handling requests; register everything during
// startup.
func (s *IssuerService) OnTokenCreated(fn TokenCreatedListener) {
	s.listeners = append(s.listeners, fn)
}

// NewToken builds a token descriptor without touching storage. The ID is a
// fresh UUID and doubles as the JWT jti claim.
func (s *IssuerService) NewToken(userID, clientID string, scopes []string) domain.Token {
	now := time.Now().UTC()
	return domain.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClientID:  clientID,
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.accessTTL),
	}
}

// Persist writes a token descriptor to storage and notifies registered
// listeners.
func (s *IssuerService) Persist(ctx context.Context, t domain.Token) error {
	if err := s.store.Tokens().CreateToken(ctx, t); err != nil {
		return err
	}

	s.notify(ctx, domain.TokenCreated{
		TokenID:  t.ID,
		UserID:   t.UserID,
		ClientID: t.ClientID,
	})
	return nil
}

// PersonalAccessToken is a freshly minted personal access token: the stored
// record plus the signed JWT that carries it.
type PersonalAccessToken struct {
	Token       domain.Token
	AccessToken string
}

// IssuePersonalAccessToken mints a personal access token for a user: builds
// the descriptor against the installation's personal access client, signs
// the JWT, and persists the record.
func (s *IssuerService) IssuePersonalAccessToken(
	ctx context.Context,
	userID string,
	scopes []string,
) (PersonalAccessToken, error) {
	client, err := s.clients.PersonalAccessClient(ctx)
	if err != nil {
		return PersonalAccessToken{}, err
	}

	t := s.NewToken(userID, client.ID, scopes)

	claims := jwtx.NewAccessClaims(userID, t.ID, s.issuer, scopes, s.accessTTL, t.CreatedAt)
	signed, err := s.signer.Sign(claims)
	if err != nil {
		return PersonalAccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	if err := s.Persist(ctx, t); err != nil {
		return PersonalAccessToken{}, err
	}

	slogx.FromContext(ctx).Info("personal access token issued",
		"token_id", t.ID,
		"user_id", userID,
		"client_id", client.ID,
	)
	return PersonalAccessToken{Token: t, AccessToken: signed}, nil
}

// Revoke marks a token revoked.
func (s *IssuerService) Revoke(ctx context.Context, id string) error {
	return s.store.Tokens().RevokeToken(ctx, id)
}

// IsRevoked reports whether a token is revoked, failing closed on unknown
// IDs.
func (s *IssuerService) IsRevoked(ctx context.Context, id string) bool {
	t, err := s.store.Tokens().GetTokenByID(ctx, id)
	if err != nil {
		return true
	}
	return t.Revoked
}

func (s *IssuerService) notify(ctx context.Context, ev domain.TokenCreated) {
	for _, fn := range s.listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slogx.FromContext(ctx).Error("token created listener panicked",
						"token_id", ev.TokenID, "panic", r)
				}
			}()
			fn(ctx, ev)
		}()
	}
}
