// Package server provides the HTTP control API for the auto-apply engine:
// operator login, remote fill/apply/submit on the shared browser session, and
// memory and run-state management.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prathamesh/auto-apply/internal/config"
	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/queue"
	"github.com/prathamesh/auto-apply/internal/types"
)

// PageOps is the slice of engine operations the control server drives on the
// shared browser session. The session is single-threaded; the server
// serializes calls and rejects overlapping ones.
type PageOps interface {
	Open(ctx context.Context, url string) error
	Fill(ctx context.Context, answers map[string]string) (*types.FillResult, error)
	Apply(ctx context.Context) (*types.ClickResult, error)
	Submit(ctx context.Context) (*types.SubmitResult, error)
}

// Config holds server configuration
type Config struct {
	Addr         string
	PasswordHash string // bcrypt hash of the operator password
}

// Deps are the stores and session the server exposes.
type Deps struct {
	Memory memory.Store
	State  *queue.StateFile
	Ops    PageOps
}

// Server represents the HTTP control server
type Server struct {
	httpServer   *http.Server
	memory       memory.Store
	state        *queue.StateFile
	ops          PageOps
	passwordCfg  *config.PasswordConfig
	passwordHash string
	jwtService   *JWTService
	loginLimiter *loginLimiter

	// opMu serializes page operations; the underlying browser session is
	// strictly sequential.
	opMu sync.Mutex
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if cfg.PasswordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if deps.Memory == nil {
		return nil, fmt.Errorf("memory store is required")
	}

	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		memory:       deps.Memory,
		state:        deps.State,
		ops:          deps.Ops,
		passwordCfg:  passwordCfg,
		passwordHash: cfg.PasswordHash,
		jwtService:   NewJWTService(jwtConfig),
		loginLimiter: newLoginLimiter(maxLoginAttempts, loginWindow),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Authenticated endpoints
	authed := s.withAuth(http.HandlerFunc(s.routeAPI))
	mux.Handle("/api/", authed)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // fill passes can block on slow pages
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routeAPI dispatches the authenticated API surface.
func (s *Server) routeAPI(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/open":
		s.handleOpen(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/fill":
		s.handleFill(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/apply":
		s.handleApply(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/submit":
		s.handleSubmit(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/memory":
		s.handleExportMemory(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/memory":
		s.handleImportMemory(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/state":
		s.handleGetState(w, r)
	case r.Method == http.MethodPut && r.URL.Path == "/api/state":
		s.handlePutState(w, r)
	default:
		s.errorResponse(w, http.StatusNotFound, "not found")
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Control server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
