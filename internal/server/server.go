// Package server implements the HTTP API and MCP server for colorname serve.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wethinkt/go-colorname/internal/applog"
	"github.com/wethinkt/go-colorname/internal/config"
	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/palette"
)

// healthPath is served without authentication.
const healthPath = "/v1/health"

// Config holds server configuration.
type Config struct {
	Host          string
	Port          int
	Token         string // bearer token; empty disables auth
	NeighborCount int    // default window for neighbors requests
	Quiet         bool   // disable request logging
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:          config.DefaultHost,
		Port:          config.DefaultPort,
		NeighborCount: config.DefaultNeighborCount,
	}
}

// Server serves the palette REST API.
type Server struct {
	matcher *palette.Matcher
	router  chi.Router
	config  Config
}

// New creates an API server over matcher.
func New(matcher *palette.Matcher, cfg Config) *Server {
	if cfg.NeighborCount <= 0 {
		cfg.NeighborCount = config.DefaultNeighborCount
	}
	s := &Server{
		matcher: matcher,
		config:  cfg,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	if !s.config.Quiet {
		r.Use(middleware.RequestLogger(&redactingLogFormatter{
			base: &middleware.DefaultLogFormatter{Logger: log.New(os.Stderr, "", log.LstdFlags), NoColor: true},
		}))
	}

	if s.config.Token != "" {
		applog.Log.Info("API authentication enabled")
		r.Use(bearerAuth(s.config.Token))
	} else {
		applog.Log.Warn("API running without authentication - use --token to secure")
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/palette", s.handleGetPalette)
		r.Get("/palette/colors", s.handleListColors)
		r.Post("/palette/reload", s.handleReload)
		r.Get("/nearest", s.handleNearest)
		r.Get("/colors/{name}", s.handleGetColor)
		r.Get("/colors/{name}/neighbors", s.handleGetNeighbors)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the server address string.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// ListenAndServe starts the HTTP server and blocks until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if existing := config.FindInstanceByPort(s.config.Port); existing != nil {
		return fmt.Errorf("port %d is already in use by colorname %s (PID %d, started %s)",
			s.config.Port, existing.Type, existing.PID, existing.StartedAt.Format(time.RFC3339))
	}

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Update port if auto-assigned
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	inst := config.Instance{
		Type:      config.InstanceServe,
		PID:       os.Getpid(),
		Host:      s.config.Host,
		Port:      s.config.Port,
		Palette:   s.matcher.Source().String(),
		StartedAt: time.Now(),
	}
	if err := config.RegisterInstance(inst); err != nil {
		applog.Log.Warn("Failed to register server instance", "error", err)
	}

	go func() {
		<-ctx.Done()
		config.UnregisterInstance(os.Getpid())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Println(i18n.Tf("cli.serve.running", "colorname API running at http://%s", s.Addr()))
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// bearerAuth returns middleware that validates a static bearer token.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == healthPath {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="colorname"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
				return
			}

			const prefix = "Bearer "
			if len(auth) < len(prefix) || auth[:len(prefix)] != prefix {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format")
				return
			}

			if subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				applog.Log.Info("API authentication failed: invalid token", "remote", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware adds CORS headers for browser clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code string, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
