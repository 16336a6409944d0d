package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wardenauth/warden/internal/warden/service"
	"github.com/wardenauth/warden/internal/warden/store"
	"github.com/wardenauth/warden/pkg/httpx"
	"github.com/wardenauth/warden/pkg/jwtx"
	"github.com/wardenauth/warden/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	ClientService *service.ClientService
	TokenService  *service.TokenService
	IssuerService *service.IssuerService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerTokens()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn builds the bearer verification middleware. Revocation is checked
// against storage on every request so revoked tokens die immediately, not
// at expiry.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, r.TokenService)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		r.authn(),
		httpx.RequireAnyScope("clients:read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		r.authn(),
		httpx.RequireAnyScope("clients:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		r.authn(),
		httpx.RequireAnyScope("clients:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		r.authn(),
		httpx.RequireAnyScope("clients:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedRotate := httpx.Chain(http.HandlerFunc(h.HandleRotateSecret),
		r.authn(),
		httpx.RequireAnyScope("clients:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/clients", securedList)
	r.Mux.Handle("POST /v1/clients", securedCreate)
	r.Mux.Handle("PUT /v1/clients/{id}", securedUpdate)
	r.Mux.Handle("DELETE /v1/clients/{id}", securedDelete)
	r.Mux.Handle("POST /v1/clients/{id}/secret", securedRotate)
}

func (r *Router) registerTokens() {
	h := &TokensHandler{
		TokenService:  r.TokenService,
		IssuerService: r.IssuerService,
	}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		r.authn(),
		httpx.RequireAnyScope("tokens:read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		r.authn(),
		httpx.RequireAnyScope("tokens:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDelete),
		r.authn(),
		httpx.RequireAnyScope("tokens:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/tokens", securedList)
	r.Mux.Handle("POST /v1/tokens", securedCreate)
	r.Mux.Handle("DELETE /v1/tokens/{id}", securedDelete)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Public key discovery for downstream verifiers.
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
