package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wardenauth/warden/pkg/api"
	"github.com/wardenauth/warden/pkg/jwtx"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithScopes(scopes []string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(r.Context(), CtxKeyScopes, scopes)
	return r.WithContext(ctx)
}

func TestRequireAnyScope(t *testing.T) {
	t.Parallel()

	t.Run("wildcard allows any required set", func(t *testing.T) {
		h := RequireAnyScope("clients:read", "clients:write")(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScopes([]string{"*"}))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wildcard allows empty required set", func(t *testing.T) {
		h := RequireAnyScope()(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScopes([]string{"*"}))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("one matching scope suffices", func(t *testing.T) {
		h := RequireAnyScope("read", "write")(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScopes([]string{"read"}))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no matching scope carries the required list", func(t *testing.T) {
		h := RequireAnyScope("write")(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScopes([]string{"read"}))

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `insufficient_scope`)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `scope="write"`)

		var body api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "insufficient_scope", body.Error)
		require.Equal(t, []string{"write"}, body.Scopes)
	})

	t.Run("no required scopes only needs authentication", func(t *testing.T) {
		h := RequireAnyScope()(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithScopes(nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

type staticVerifier struct {
	claims jwtx.Claims
	err    error
}

func (v staticVerifier) Verify(string) (jwtx.Claims, error) { return v.claims, v.err }

type revokedSet map[string]bool

func (s revokedSet) IsRevoked(_ context.Context, id string) bool { return s[id] }

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	claims := jwtx.Claims{Scopes: []string{"clients:read"}}
	claims.Subject = "user-1"
	claims.ID = "tok-1"

	t.Run("missing bearer token", func(t *testing.T) {
		h := AuthnMiddleware(staticVerifier{claims: claims}, nil)(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verification failure is a generic invalid_token", func(t *testing.T) {
		h := AuthnMiddleware(staticVerifier{err: jwtx.ErrExpired}, nil)(okHandler())
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer whatever")
		h.ServeHTTP(rec, r)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

		var body api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "invalid_token", body.Error)
		require.Empty(t, body.Scopes)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		h := AuthnMiddleware(staticVerifier{claims: claims}, revokedSet{"tok-1": true})(okHandler())
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer whatever")
		h.ServeHTTP(rec, r)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token attaches identity and scopes", func(t *testing.T) {
		var gotUser, gotToken string
		var gotScopes []string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser = UserIDFromContext(r.Context())
			gotToken = TokenIDFromContext(r.Context())
			gotScopes = scopesFromCtx(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		h := AuthnMiddleware(staticVerifier{claims: claims}, revokedSet{})(inner)
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer whatever")
		h.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", gotUser)
		require.Equal(t, "tok-1", gotToken)
		require.Equal(t, []string{"clients:read"}, gotScopes)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}

	h := RateLimitMiddleware(cfg, IPKeyExtractor)(okHandler())

	request := func() int {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, request())
	require.Equal(t, http.StatusOK, request())
	require.Equal(t, http.StatusTooManyRequests, request())

	// A different IP gets its own bucket.
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)
}
