package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestSplitScopes(t *testing.T) {
	t.Parallel()

	require.Nil(t, splitScopes(""))
	require.Nil(t, splitScopes("   "))
	require.Equal(t, []string{"read", "write"}, splitScopes("read write"))
	require.Equal(t, []string{"read", "write"}, splitScopes(" read  write read "))
}

func TestTimeFormatSortsLexicographically(t *testing.T) {
	t.Parallel()

	// The stored format must sort as strings in chronological order; trimmed
	// fractional seconds (RFC 3339 style) would violate this.
	base := time.Date(2025, 1, 2, 3, 4, 5, 100_000_000, time.UTC)
	later := base.Add(20 * time.Millisecond)
	require.Less(t, fmtTime(base), fmtTime(later))

	require.Equal(t, base, parseTime(fmtTime(base)))
}
