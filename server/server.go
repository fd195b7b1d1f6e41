// ABOUTME: HTTP server assembly and lifecycle for callbridge
// ABOUTME: Builds the chi router with per-route guards and runs it until shutdown

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/markalston/callbridge/config"
	"github.com/markalston/callbridge/handlers"
	"github.com/markalston/callbridge/middleware"
	"github.com/markalston/callbridge/services"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server owns the router and its dependencies.
type Server struct {
	cfg    *config.Config
	router chi.Router
}

// New builds the router for cfg and store.
func New(cfg *config.Config, store services.MemoryStore) *Server {
	s := &Server{cfg: cfg}
	s.router = s.buildRouter(handlers.NewHandler(cfg, store))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter(h *handlers.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	// CORS sits on the router so preflights for any path are answered
	// before route matching.
	r.Use(middleware.Handler(middleware.CORSWithConfig(s.cfg.AllowedOrigins)))

	adminAuth := middleware.AdminAuth(s.cfg.AdminAPIKey)

	var limiter *middleware.RateLimiter
	if s.cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(s.cfg.RateLimitWebhook, time.Minute)
	}

	// Only assign a non-nil verifier so the interface stays nil when
	// verification is disabled.
	var verifier middleware.BodyVerifier
	if v := services.NewSignatureVerifier(s.cfg.WebhookSecret, s.cfg.WebhookTolerance()); v != nil {
		verifier = v
	}

	for _, route := range h.Routes() {
		var handler http.HandlerFunc
		switch route.Access {
		case handlers.Admin:
			handler = middleware.Chain(route.Handler, middleware.LogRequest, adminAuth)
		case handlers.Webhook:
			handler = middleware.Chain(route.Handler,
				middleware.LogRequest,
				middleware.RateLimit(limiter, middleware.ClientIP),
				middleware.WebhookSignature(verifier, services.SignatureHeader),
			)
		default:
			handler = middleware.Chain(route.Handler, middleware.LogRequest)
		}
		r.Method(route.Method, route.Path, handler)
	}

	return r
}

// LogStartup reports which optional protections are active.
func LogStartup(logger *slog.Logger, cfg *config.Config) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.WebhookSecret == "" {
		logger.Warn("WEBHOOK_SECRET is not configured; webhook signature verification is disabled")
	} else {
		logger.Info("Webhook signature verification is enabled", "tolerance", cfg.WebhookTolerance())
	}

	if cfg.AdminConfigured() {
		logger.Info("Admin API enabled")
	} else {
		logger.Warn("ADMIN_API_KEY is not configured; admin API is disabled")
	}

	if len(cfg.AllowedOrigins) == 0 {
		logger.Info("CORS disabled, no allowed origins configured")
	} else {
		logger.Info("CORS enabled", "allowed_origins", cfg.AllowedOrigins)
	}

	if cfg.RateLimitEnabled {
		logger.Info("Webhook rate limiting enabled", "requests_per_minute", cfg.RateLimitWebhook)
	} else {
		logger.Warn("Webhook rate limiting disabled")
	}
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
