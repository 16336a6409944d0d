package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
	"github.com/wardenauth/warden/internal/warden/service"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/api"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/slogx"
)

const maxClientNameLength = 255

// ClientsHandler handles all client management endpoints. Every operation
// is scoped to the authenticated user; clients owned by someone else look
// exactly like clients that don't exist.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleList handles GET /v1/clients. Revoked clients are omitted; secrets
// are included so owners can read them back.
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	clients, err := h.ClientService.ActiveForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list clients", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list clients",
		})
		return
	}

	infos := make([]api.ClientInfo, len(clients))
	for i, c := range clients {
		infos[i] = clientInfo(c)
	}

	httpx.WriteJSON(w, http.StatusOK, api.ListClientsResponse{Clients: infos})
}

// HandleCreate handles POST /v1/clients.
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	var req api.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	if msg := validateClientRequest(req.Name, req.Redirect); msg != "" {
		httpx.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: msg,
		})
		return
	}

	client, err := h.ClientService.Create(ctx, userID, req.Name, req.Redirect, false, false)
	if err != nil {
		log.Error("failed to create client", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to create client",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, clientInfo(client))
}

// HandleUpdate handles PUT /v1/clients/{id}.
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	clientID := r.PathValue("id")

	var req api.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON in request body",
		})
		return
	}

	// Ownership decides 404 before the payload is judged; a foreign client
	// must look identical whether or not the body would have validated.
	if _, err := h.ClientService.FindForUser(ctx, clientID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeClientNotFound(w)
			return
		}
		log.Error("failed to look up client", "error", err, "client_id", clientID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to update client",
		})
		return
	}

	if msg := validateClientRequest(req.Name, req.Redirect); msg != "" {
		httpx.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: msg,
		})
		return
	}

	client, err := h.ClientService.Update(ctx, clientID, userID, req.Name, req.Redirect)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeClientNotFound(w)
			return
		}
		log.Error("failed to update client", "error", err, "client_id", clientID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to update client",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientInfo(client))
}

// HandleDelete handles DELETE /v1/clients/{id}. The client and every token
// it issued are revoked; nothing is physically removed.
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	clientID := r.PathValue("id")

	if err := h.ClientService.Delete(ctx, clientID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeClientNotFound(w)
			return
		}
		log.Error("failed to delete client", "error", err, "client_id", clientID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to delete client",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRotateSecret handles POST /v1/clients/{id}/secret. The old secret
// stops working immediately; the new one is only returned here.
func (h *ClientsHandler) HandleRotateSecret(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)
	clientID := r.PathValue("id")

	client, err := h.ClientService.RegenerateSecret(ctx, clientID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeClientNotFound(w)
			return
		}
		log.Error("failed to rotate client secret", "error", err, "client_id", clientID)
		httpx.WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to rotate client secret",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientInfo(client))
}

// validateClientRequest checks the shared create/update payload. Returns an
// empty string when valid, otherwise a human-readable reason.
func validateClientRequest(name, redirect string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Client name is required"
	}
	if len(name) > maxClientNameLength {
		return "Client name must be at most 255 characters"
	}

	if redirect == "" {
		return "Redirect URL is required"
	}
	u, err := url.Parse(redirect)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "Redirect must be an absolute URL"
	}
	if u.Fragment != "" {
		return "Redirect URL must not contain a fragment"
	}

	return ""
}

func writeClientNotFound(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusNotFound, api.ErrorResponse{
		Error:            "client_not_found",
		ErrorDescription: "Client not found",
	})
}

func clientInfo(c domain.Client) api.ClientInfo {
	return api.ClientInfo{
		ID:                   c.ID,
		UserID:               c.UserID,
		Name:                 c.Name,
		Secret:               c.Secret,
		Redirect:             c.Redirect,
		PersonalAccessClient: c.PersonalAccessClient,
		PasswordClient:       c.PasswordClient,
		Revoked:              c.Revoked,
		CreatedAt:            c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            c.UpdatedAt.Format(time.RFC3339),
	}
}
