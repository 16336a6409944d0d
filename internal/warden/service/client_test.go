package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/cryptox"
)

func TestClientServiceCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewClientService(newTestStore(t))

	c, err := svc.Create(ctx, "user-1", "My App", "https://example.com/cb", false, false)
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Len(t, c.Secret, cryptox.SecretLength)
	require.False(t, c.PersonalAccessClient)
	require.False(t, c.PasswordClient)

	got, err := svc.Find(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Secret, got.Secret)

	// Every client gets its own secret.
	other, err := svc.Create(ctx, "user-1", "Other App", "https://example.com/cb", false, false)
	require.NoError(t, err)
	require.NotEqual(t, c.Secret, other.Secret)
}

func TestClientServiceActiveFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewClientService(newTestStore(t))

	alive, err := svc.Create(ctx, "user-1", "Alive", "https://example.com/cb", false, false)
	require.NoError(t, err)
	dead, err := svc.Create(ctx, "user-1", "Dead", "https://example.com/cb", false, false)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, dead.ID, "user-1"))

	t.Run("FindActive hides revoked", func(t *testing.T) {
		_, err := svc.FindActive(ctx, alive.ID)
		require.NoError(t, err)

		_, err = svc.FindActive(ctx, dead.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ForUser keeps revoked, ActiveForUser drops them", func(t *testing.T) {
		all, err := svc.ForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, all, 2)

		active, err := svc.ActiveForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, active, 1)
		require.Equal(t, alive.ID, active[0].ID)
	})
}

func TestClientServiceUpdateScopedToOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewClientService(newTestStore(t))

	c, err := svc.Create(ctx, "user-1", "App", "https://example.com/cb", false, false)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, "user-1", "Renamed", "https://example.com/new")
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "https://example.com/new", updated.Redirect)

	_, err = svc.Update(ctx, c.ID, "intruder", "Stolen", "https://evil.example")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientServiceRegenerateSecret(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewClientService(newTestStore(t))

	c, err := svc.Create(ctx, "user-1", "App", "https://example.com/cb", false, false)
	require.NoError(t, err)

	rotated, err := svc.RegenerateSecret(ctx, c.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, rotated.Secret, cryptox.SecretLength)
	require.NotEqual(t, c.Secret, rotated.Secret)

	_, err = svc.RegenerateSecret(ctx, c.ID, "intruder")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientServiceDeleteCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	clients := NewClientService(st)
	tokens := NewTokenService(st)
	issuer := NewIssuerService(st, clients, newTestSigner(t), "https://warden.test", 0)

	c, err := clients.Create(ctx, "user-1", "App", "https://example.com/cb", false, false)
	require.NoError(t, err)

	tok := issuer.NewToken("user-1", c.ID, []string{"read"})
	require.NoError(t, issuer.Persist(ctx, tok))

	require.NoError(t, clients.Delete(ctx, c.ID, "user-1"))

	require.True(t, clients.IsRevoked(ctx, c.ID))
	require.True(t, tokens.IsRevoked(ctx, tok.ID))
}

func TestClientServiceDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	clients := NewClientService(st)
	tokens := NewTokenService(st)
	issuer := NewIssuerService(st, clients, newTestSigner(t), "https://warden.test", 0)

	c, err := clients.Create(ctx, "user-1", "App", "https://example.com/cb", false, false)
	require.NoError(t, err)

	tok := issuer.NewToken("user-1", c.ID, []string{"read"})
	require.NoError(t, issuer.Persist(ctx, tok))

	require.NoError(t, clients.Delete(ctx, c.ID, "user-1"))
	clientAfterFirst, err := clients.Find(ctx, c.ID)
	require.NoError(t, err)
	tokenAfterFirst, err := tokens.Find(ctx, tok.ID)
	require.NoError(t, err)

	// A second delete succeeds and leaves every field untouched, including
	// updated_at on both the client and its tokens.
	require.NoError(t, clients.Delete(ctx, c.ID, "user-1"))

	clientAfterSecond, err := clients.Find(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, clientAfterFirst, clientAfterSecond)

	tokenAfterSecond, err := tokens.Find(ctx, tok.ID)
	require.NoError(t, err)
	require.Equal(t, tokenAfterFirst, tokenAfterSecond)
}

func TestClientServiceIsRevokedFailsClosed(t *testing.T) {
	t.Parallel()

	svc := NewClientService(newTestStore(t))
	require.True(t, svc.IsRevoked(context.Background(), "no-such-client"))
}

func TestClientServicePersonalAccessClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no designation", func(t *testing.T) {
		svc := NewClientService(newTestStore(t))
		_, err := svc.PersonalAccessClient(ctx)
		require.ErrorIs(t, err, ErrPersonalAccessClientNotFound)
	})

	t.Run("newest designation wins", func(t *testing.T) {
		svc := NewClientService(newTestStore(t))

		_, err := svc.CreatePersonalAccessClient(ctx, "", "First PAC", "https://example.com/cb")
		require.NoError(t, err)
		second, err := svc.CreatePersonalAccessClient(ctx, "user-1", "Second PAC", "https://example.com/cb")
		require.NoError(t, err)
		require.Equal(t, "user-1", second.UserID)

		got, err := svc.PersonalAccessClient(ctx)
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)
	})

	t.Run("configured id short-circuits designations", func(t *testing.T) {
		svc := NewClientService(newTestStore(t))

		_, err := svc.CreatePersonalAccessClient(ctx, "", "Designated", "https://example.com/cb")
		require.NoError(t, err)
		pinned, err := svc.Create(ctx, "", "Pinned", "https://example.com/cb", true, false)
		require.NoError(t, err)

		svc.PersonalAccessClientID = pinned.ID
		got, err := svc.PersonalAccessClient(ctx)
		require.NoError(t, err)
		require.Equal(t, pinned.ID, got.ID)
	})
}
