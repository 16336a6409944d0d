package httpx

import (
	"net/http"
	"slices"
	"strings"

	"github.com/wardenauth/warden/pkg/api"
)

// WildcardScope grants access to everything regardless of required scopes.
const WildcardScope = "*"

// RequireAnyScope allows the request through when the caller's token carries
// the wildcard scope or at least one of the required scopes. With no required
// scopes, only authentication is enforced.
//
// A failed check produces a distinct insufficient_scope response carrying the
// scopes that would have satisfied it, so callers can request elevated
// consent. This is deliberately different from the generic invalid_token
// response the authn layer produces.
func RequireAnyScope(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := scopesFromCtx(r.Context())

			if slices.Contains(have, WildcardScope) {
				next.ServeHTTP(w, r)
				return
			}

			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			for _, s := range have {
				if slices.Contains(required, s) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeBearerScopeError(w, required...)
		})
	}
}

// RFC 6750-compliant error response for bearer insufficient_scope.
func writeBearerScopeError(w http.ResponseWriter, required ...string) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteJSON(w, http.StatusForbidden, api.ErrorResponse{
		Error:            "insufficient_scope",
		ErrorDescription: "The token does not grant any of the required scopes",
		Scopes:           required,
	})
}
