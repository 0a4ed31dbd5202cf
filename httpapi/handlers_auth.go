package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nimbushq/nimbusflags/pkg/logger"
	"github.com/nimbushq/nimbusflags/pkg/tenant"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Tenant tenant.Tenant `json:"tenant"`
	APIKey string        `json:"api_key"`
}

func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, apiKey, err := a.tenants.Register(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, tenant.ErrEmailAlreadyExists):
		respondError(w, http.StatusConflict, codeEmailTaken, "email already registered")
		return
	case errors.Is(err, tenant.ErrInvalidEmail), errors.Is(err, tenant.ErrEmptyPassword):
		respondError(w, http.StatusBadRequest, codeInvalidRegister, err.Error())
		return
	default:
		a.log.ErrorContext(r.Context(), "registration failed", logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "registration failed")
		return
	}

	// The plaintext API key appears in this response only; it is stored
	// hashed and cannot be recovered later.
	respondJSON(w, http.StatusCreated, registerResponse{Tenant: created, APIKey: apiKey})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := a.tenants.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid email or password")
		return
	}

	rawToken, s, err := a.sessions.Create(r.Context(), t.ID)
	if err != nil {
		a.log.ErrorContext(r.Context(), "session creation failed",
			logger.TenantID(t.ID.String()), logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{SessionToken: rawToken, ExpiresAt: s.ExpiresAt})
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	rawToken := strings.TrimSpace(r.Header.Get(headerSessionToken))
	if rawToken == "" {
		respondError(w, http.StatusUnauthorized, codeSessionMissing, "invalid or missing session token")
		return
	}

	if err := a.sessions.Destroy(r.Context(), rawToken); err != nil {
		a.log.ErrorContext(r.Context(), "logout failed", logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "logout failed")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type rotateKeyResponse struct {
	APIKey string `json:"api_key"`
}

func (a *api) handleRotateAPIKey(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "invalid or expired session token")
		return
	}

	apiKey, err := a.tenants.RotateAPIKey(r.Context(), t.ID)
	if err != nil {
		a.log.ErrorContext(r.Context(), "api key rotation failed",
			logger.TenantID(t.ID.String()), logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "rotation failed")
		return
	}

	respondJSON(w, http.StatusOK, rotateKeyResponse{APIKey: apiKey})
}
