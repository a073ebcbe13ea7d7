// Package httpapi exposes the JSON HTTP endpoints for watermark issuance,
// login verification, and promise issuance.
package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/promiselab/pinkie/internal/errs"
	"github.com/promiselab/pinkie/internal/limiter"
	"github.com/promiselab/pinkie/internal/model"
	"github.com/promiselab/pinkie/internal/service"
	"github.com/promiselab/pinkie/internal/watermark"
)

// Server wires services into HTTP handlers.
type Server struct {
	watermarks *watermark.Service
	login      service.LoginService
	promises   service.PromiseService
	lim        limiter.Limiter
	log        *zap.Logger
}

// New constructs the HTTP server with injected services.
func New(w *watermark.Service, login service.LoginService, promises service.PromiseService, lim limiter.Limiter, log *zap.Logger) *Server {
	return &Server{watermarks: w, login: login, promises: promises, lim: lim, log: log}
}

// Router builds the mux router with logging and panic recovery.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(s.log), Logging(s.log))
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/watermark", s.handleWatermark).Methods(http.MethodGet)
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/promise", s.handlePromise).Methods(http.MethodPost)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleWatermark issues a fresh per-attempt nonce.
func (s *Server) handleWatermark(w http.ResponseWriter, r *http.Request) {
	wm, err := s.watermarks.Issue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "watermark unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"watermark": wm})
}

// handleLogin verifies a serialized credential and returns its revealed fields.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PCD string `json:"pcd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.PCD == "" {
		writeError(w, http.StatusBadRequest, "missing pcd")
		return
	}

	ipHash := limiter.HashIP(remoteIP(r))
	allowed, retryAfter, err := s.lim.Allow(r.Context(), ipHash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "limiter failure")
		return
	}
	if !allowed {
		w.Header().Set("Retry-After", retryAfter.Round(time.Second).String())
		writeError(w, http.StatusTooManyRequests, "rate limited")
		return
	}

	user, err := s.login.Login(r.Context(), req.PCD)
	if err != nil {
		if blocked, _, ferr := s.lim.Failure(r.Context(), ipHash); ferr == nil && blocked {
			writeError(w, http.StatusTooManyRequests, "rate limited")
			return
		}
		switch {
		case errors.Is(err, errs.ErrValidation):
			writeError(w, http.StatusBadRequest, "missing pcd")
		case errors.Is(err, errs.ErrVerification):
			writeError(w, http.StatusUnauthorized, "credential verification failed")
		default:
			writeError(w, http.StatusInternalServerError, "login failure")
		}
		return
	}
	_ = s.lim.Success(r.Context(), ipHash)

	writeJSON(w, http.StatusOK, map[string]model.User{"user": user})
}

// handlePromise mints the made/received credential pair for one submission.
func (s *Server) handlePromise(w http.ResponseWriter, r *http.Request) {
	var req model.PromiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	pair, err := s.promises.Issue(r.Context(), req.Name, req.Friend, req.Promise)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("issue promise", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "issuance failure")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
