package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/config"
	"github.com/hongminglow/agro-market-be/internal/http/handlers"
	"github.com/hongminglow/agro-market-be/internal/middleware"
	"github.com/hongminglow/agro-market-be/internal/profile"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up services, middleware and routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger zerolog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}
	authSvc := auth.NewService(store, auth.NewHasher(cfg.SaltRounds), tokens, logger)
	profileSvc := profile.NewService(store, logger)

	errs := handlers.NewErrorResponder(logger)
	requireUser := middleware.NewAuthenticator(tokens, authSvc, errs.Write).Handler

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimid.Recoverer)
	r.Use(chimid.StripSlashes)
	r.Use(middleware.Metrics)
	r.Use(middleware.Secure(middleware.SecureOptions(cfg.Development())))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now(), store).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	handlers.NewAuthHandler(authSvc, errs).Register(r, requireUser)
	handlers.NewProfileHandler(profileSvc, errs).Register(r, requireUser)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Handler exposes the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
