package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeyTokenID ctxKey = "token_id"
	CtxKeyScopes  ctxKey = "scopes"
)

// UserIDFromContext returns the authenticated user's ID, or "" when the
// request carried a user-less (client credentials style) token.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// TokenIDFromContext returns the jti of the bearer token on the request.
func TokenIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyTokenID).(string); ok {
		return v
	}
	return ""
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
