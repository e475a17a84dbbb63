package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hongminglow/learnhub-be/internal/cache"
	"github.com/hongminglow/learnhub-be/internal/config"
	"github.com/hongminglow/learnhub-be/internal/http/handlers"
	"github.com/hongminglow/learnhub-be/internal/logging"
	"github.com/hongminglow/learnhub-be/internal/middleware"
	"github.com/hongminglow/learnhub-be/internal/service"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

const serviceName = "learnhub-backend"

// Deps are the collaborators the routes are built from.
type Deps struct {
	Store     storage.Store
	Cache     *cache.Client
	Auth      *service.AuthService
	Content   *service.ContentService
	Log       logging.Logger
	StartedAt time.Time
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewHandler builds the full API handler without binding a listener.
func NewHandler(cfg config.Config, deps Deps) http.Handler {
	session := middleware.NewSession(deps.Auth, deps.Log)
	limiter := middleware.NewRateLimiter(cfg.RatePerMinute, cfg.RateBurst)

	health := handlers.NewHealthHandler(deps.Store, deps.Cache, handlers.HealthInfo{
		Environment: cfg.Env,
		Version:     cfg.ServiceVersion,
		Production:  cfg.IsProduction(),
		StartedAt:   deps.StartedAt,
	}, deps.Log)
	authHandler := handlers.NewAuthHandler(deps.Auth, session, deps.Log)
	content := handlers.NewContentHandler(deps.Content, deps.Log)
	community := handlers.NewCommunityHandler(deps.Content, session, deps.Log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.Logging(deps.Log))
	r.Use(chimw.Recoverer)
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Route("/api", func(api chi.Router) {
		health.Register(api)
		api.Group(func(g chi.Router) {
			g.Use(limiter.Middleware)
			authHandler.Register(g)
		})
		content.Register(api)
		community.Register(api)
	})

	return otelhttp.NewHandler(middleware.CORS(cfg.CORSOrigins, r), serviceName)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
