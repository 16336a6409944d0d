package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
	"github.com/wardenauth/warden/internal/warden/service"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/api"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// TokensHandler handles the personal access token endpoints.
type TokensHandler struct {
	TokenService  *service.TokenService
	IssuerService *service.IssuerService
}

// HandleCreate handles POST /v1/tokens. Mints a personal access token for
// the caller; the signed JWT is only returned here, never again.
func (h *TokensHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	var req api.CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	if len(req.Scopes) == 0 {
		httpx.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "At least one scope is required",
		})
		return
	}

	issued, err := h.IssuerService.IssuePersonalAccessToken(ctx, userID, req.Scopes)
	if err != nil {
		log.Error("failed to issue personal access token", "error", err, "user_id", userID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to issue token",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, api.CreateTokenResponse{
		Token:       tokenInfo(issued.Token),
		AccessToken: issued.AccessToken,
	})
}

// HandleList handles GET /v1/tokens, returning the caller's tokens newest
// first, revoked ones included.
func (h *TokensHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	tokens, err := h.TokenService.ForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list tokens", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list tokens",
		})
		return
	}

	infos := make([]api.TokenInfo, len(tokens))
	for i, t := range tokens {
		infos[i] = tokenInfo(t)
	}

	httpx.WriteJSON(w, http.StatusOK, api.ListTokensResponse{Tokens: infos})
}

// HandleDelete handles DELETE /v1/tokens/{id}. Revokes the caller's token;
// tokens owned by someone else come back 404.
func (h *TokensHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	tokenID := r.PathValue("id")

	if _, err := h.TokenService.FindForUser(ctx, tokenID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, api.ErrorResponse{
				Error:            "token_not_found",
				ErrorDescription: "Token not found",
			})
			return
		}
		log.Error("failed to look up token", "error", err, "token_id", tokenID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to revoke token",
		})
		return
	}

	if err := h.TokenService.Revoke(ctx, tokenID); err != nil {
		log.Error("failed to revoke token", "error", err, "token_id", tokenID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to revoke token",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func tokenInfo(t domain.Token) api.TokenInfo {
	return api.TokenInfo{
		ID:        t.ID,
		UserID:    t.UserID,
		ClientID:  t.ClientID,
		Scopes:    t.Scopes,
		Revoked:   t.Revoked,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		ExpiresAt: t.ExpiresAt.Format(time.RFC3339),
	}
}
