package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Error codes carried in JSON error bodies.
const (
	codeInvalid      = "invalid_request"
	codeNotCompleted = "stage_not_completed"
	codeClaimed      = "already_claimed"
	codeNotFound     = "not_found"
	codeInternal     = "internal"
)

// apiError is the JSON body of every non-2xx response.
type apiError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

type mintResponse struct {
	Minted bool `json:"minted"`
}

type registerRequest struct {
	Username string `json:"username"`
}

// Server exposes a Service over HTTP.
type Server struct {
	svc     Service
	logger  *log.Logger
	timeout time.Duration
}

// NewServer wraps a ledger service. Requests time out after timeout (30s if
// zero). A nil logger discards output.
func NewServer(svc Service, logger *log.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{svc: svc, logger: logger, timeout: timeout}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleSaveSession)
		r.Post("/rewards", s.handleMint)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/players/{address}", s.handlePlayer)
		r.Put("/players/{address}", s.handleRegister)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Ledger API listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down ledger API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var req SessionResult
	if !decode(w, r, &req) {
		return
	}
	receipt, err := s.svc.SaveSession(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if !decode(w, r, &req) {
		return
	}
	minted, err := s.svc.MintRewards(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mintResponse{Minted: minted})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	stage, err := intParam(r, "stage", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalid, "stage must be an integer")
		return
	}
	limit, err := intParam(r, "limit", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalid, "limit must be an integer")
		return
	}

	entries, err := s.svc.LoadLeaderboard(r.Context(), stage, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	rec, err := s.svc.LoadPlayer(r.Context(), address)
	if err != nil {
		s.fail(w, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "unknown player "+address)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	address := chi.URLParam(r, "address")
	if err := s.svc.RegisterPlayer(r.Context(), address, req.Username); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps ledger errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, codeInvalid, err.Error())
	case errors.Is(err, ErrStageNotCompleted):
		writeError(w, http.StatusConflict, codeNotCompleted, err.Error())
	case errors.Is(err, ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, codeClaimed, err.Error())
	default:
		s.logger.Error("ledger request failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalid, "malformed JSON: "+err.Error())
		return false
	}
	return true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message})
}
