package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cuemby/taskbook/internal/server/apierr"
	"github.com/cuemby/taskbook/internal/server/auth"
	"github.com/cuemby/taskbook/internal/server/metrics"
	"github.com/cuemby/taskbook/pkg/log"
	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/wire"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req wire.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, errInvariant("invalid request body"))
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		apierr.Write(w, errInvariant("username, email, and password are required"))
		return
	}
	if err := validateRegistration(req.Email, req.Password); err != nil {
		apierr.Write(w, err)
		return
	}

	source := clientIP(r)
	if !s.LoginLimiter.Allow(source) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("/register").Inc()
		apierr.Write(w, store.ErrRateLimited)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Logger.Error().Err(err).Msg("hashing password")
		apierr.Write(w, err)
		return
	}

	user, err := s.DB.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	s.LoginLimiter.Reset(source)

	token, tokenHash, err := auth.NewSessionToken()
	if err != nil {
		apierr.Write(w, err)
		return
	}
	ttl := time.Duration(s.Config.SessionExpiryDays) * 24 * time.Hour
	if err := s.DB.CreateSession(r.Context(), tokenHash, user.ID, ttl); err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, wire.RegisterResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req wire.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, errInvariant("invalid request body"))
		return
	}

	source := clientIP(r)
	if !s.LoginLimiter.Allow(source) {
		metrics.RateLimitRejectionsTotal.WithLabelValues("/login").Inc()
		apierr.Write(w, store.ErrRateLimited)
		return
	}

	user, err := s.DB.UserByUsername(r.Context(), req.Username)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		apierr.Write(w, store.ErrAuth)
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		apierr.Write(w, store.ErrAuth)
		return
	}

	s.LoginLimiter.Reset(source)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	token, tokenHash, err := auth.NewSessionToken()
	if err != nil {
		apierr.Write(w, err)
		return
	}
	ttl := time.Duration(s.Config.SessionExpiryDays) * 24 * time.Hour
	if err := s.DB.CreateSession(r.Context(), tokenHash, user.ID, ttl); err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.RegisterResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.DB.DeleteSessionsForUser(r.Context(), userID); err != nil {
		apierr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// minPasswordLength is the shortest password handleRegister accepts.
const minPasswordLength = 8

// validateRegistration rejects passwords shorter than minPasswordLength
// and emails missing an "@" or a ".", returning store.ErrInvariant
// for either.
func validateRegistration(email, password string) error {
	if len(password) < minPasswordLength {
		return errInvariant("password must be at least 8 characters")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errInvariant("email must be a valid address")
	}
	return nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		apierr.Write(w, store.ErrAuth)
		return
	}
	user, err := s.DB.UserByID(r.Context(), userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.MeResponse{Username: user.Username, Email: user.Email})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(h, prefix)
	return token, token != ""
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errInvariant(msg string) error {
	return &invariantError{msg: msg}
}

type invariantError struct{ msg string }

func (e *invariantError) Error() string { return e.msg }
func (e *invariantError) Unwrap() error { return store.ErrInvariant }
