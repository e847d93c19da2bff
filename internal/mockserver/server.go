// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options configures a Server.
type Options struct {
	// Store holds sessions. Defaults to a MemoryStore.
	Store Store

	// TOTPSecret verifies login codes. Without it no code is accepted.
	TOTPSecret string

	// RatePerSec limits requests across all clients. Zero disables limiting.
	RatePerSec float64

	// Burst is the limiter burst size.
	Burst int

	// Logger receives one line per request.
	Logger zerolog.Logger

	// Now overrides the clock.
	Now func() time.Time
}

// Server is the mock chat service.
type Server struct {
	store   Store
	script  *script
	limiter *rate.Limiter
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// New creates a mock server.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		store:  opts.Store,
		script: newScript(opts.TOTPSecret, opts.Now),
		logger: opts.Logger.With().Str("component", "mockserver").Logger(),
		now:    opts.Now,
		newID:  func() string { return uuid.NewString() },
	}
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}
	return s
}

// =============================================================================
// ROUTING
// =============================================================================

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the chat service routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/chat", s.handleChat)
	r.Get("/chat/history/{sessionID}", s.handleHistory)
	r.Delete("/chat/session/{sessionID}", s.handleClear)
	r.Get("/tools", s.handleTools)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("mock chat service listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown failed")
		}
		<-errCh
		s.logger.Info().Msg("mock chat service stopped")
		return nil
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("client_request_id", r.Header.Get("X-Request-ID")).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "Too many requests, please slow down", "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Could you please send me a message?",
			"status":  "error",
		})
		return
	}

	ctx := r.Context()
	first := req.SessionID == ""
	id := req.SessionID
	if first {
		id = s.newID()
	}

	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		now := s.now()
		sess = &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	} else if err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("failed to load session")
		respondError(w, http.StatusInternalServerError, "internal", "store_error")
		return
	}

	if req.Token != "" && req.Token != sess.Token {
		s.logger.Warn().Str("session_id", id).Msg("client token does not match session")
	}

	out := s.script.respond(sess, req.Message)
	if out.Fail {
		respondError(w, http.StatusInternalServerError, "internal", "")
		return
	}

	sess.UpdatedAt = s.now()
	sess.History = append(sess.History, Exchange{
		User:      req.Message,
		Assistant: out.Text,
		Timestamp: sess.UpdatedAt.UTC().Format(time.RFC3339),
		ToolCalls: out.ToolCalls,
	})
	if err := s.store.Put(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("failed to save session")
		respondError(w, http.StatusInternalServerError, "internal", "store_error")
		return
	}

	// session_id and token go out on the first exchange; afterwards token is
	// sent only when it changed. status is always sent.
	resp := map[string]interface{}{
		"message": out.Text,
		"status":  statusFor(sess),
	}
	if first {
		resp["session_id"] = id
	}
	if first || out.TokenChanged {
		if sess.Token != "" {
			resp["token"] = sess.Token
		} else {
			resp["token"] = nil
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respondError(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error(), "history_error")
		return
	}
	history := sess.History
	if history == nil {
		history = []Exchange{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"history":    history,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	ok, err := s.store.Delete(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error(), "clear_error")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session cleared successfully"})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tools": Tools,
		"count": len(Tools),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	body := map[string]string{"error": message}
	if code != "" {
		body["code"] = code
	}
	respondJSON(w, status, body)
}
