package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardenauth/warden/internal/warden/domain"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/idx"
)

func seedClient(t *testing.T, st *Store, userID, name string) domain.Client {
	t.Helper()

	c := domain.Client{
		ID:       idx.New().String(),
		UserID:   userID,
		Name:     name,
		Secret:   "secret-" + name,
		Redirect: "https://example.com/callback",
	}
	require.NoError(t, st.Clients().CreateClient(context.Background(), c))
	return c
}

func TestClientsRepoCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)

	created := seedClient(t, st, "user-1", "App")

	t.Run("get by id", func(t *testing.T) {
		got, err := st.Clients().GetClientByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, "user-1", got.UserID)
		require.Equal(t, "App", got.Name)
		require.False(t, got.Revoked)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("unknown id maps to ErrNotFound", func(t *testing.T) {
		_, err := st.Clients().GetClientByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ownership scoped lookup", func(t *testing.T) {
		_, err := st.Clients().GetClientForUser(ctx, created.ID, "user-1")
		require.NoError(t, err)

		_, err = st.Clients().GetClientForUser(ctx, created.ID, "someone-else")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update name and redirect", func(t *testing.T) {
		require.NoError(t, st.Clients().UpdateClient(ctx, created.ID, "Renamed", "https://example.com/new"))

		got, err := st.Clients().GetClientByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, "Renamed", got.Name)
		require.Equal(t, "https://example.com/new", got.Redirect)
	})

	t.Run("update secret", func(t *testing.T) {
		require.NoError(t, st.Clients().UpdateClientSecret(ctx, created.ID, "rotated"))

		got, err := st.Clients().GetClientByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, "rotated", got.Secret)
	})
}

func TestClientsRepoListOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)

	seedClient(t, st, "user-1", "Zebra")
	seedClient(t, st, "user-1", "Alpha")
	seedClient(t, st, "user-1", "Mango")
	seedClient(t, st, "user-2", "Other")

	clients, err := st.Clients().ListClientsForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, clients, 3)
	require.Equal(t, "Alpha", clients[0].Name)
	require.Equal(t, "Mango", clients[1].Name)
	require.Equal(t, "Zebra", clients[2].Name)
}

func TestClientsRepoRevoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)

	c := seedClient(t, st, "user-1", "App")

	require.NoError(t, st.Clients().RevokeClient(ctx, c.ID))

	got, err := st.Clients().GetClientByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.Revoked)

	// Revoking again or revoking a missing client is a no-op.
	require.NoError(t, st.Clients().RevokeClient(ctx, c.ID))
	require.NoError(t, st.Clients().RevokeClient(ctx, "missing"))
}

func TestClientsRepoNullUserID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)

	machine := seedClient(t, st, "", "Machine")

	got, err := st.Clients().GetClientByID(ctx, machine.ID)
	require.NoError(t, err)
	require.Empty(t, got.UserID)

	// Machine clients never show up in per-user listings.
	clients, err := st.Clients().ListClientsForUser(ctx, "")
	require.NoError(t, err)
	require.Empty(t, clients)
}
