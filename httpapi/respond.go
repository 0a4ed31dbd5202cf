package httpapi

import (
	"encoding/json"
	"net/http"
)

// Stable error codes the dashboard and SDKs assert on.
const (
	codeInvalidJSON        = "request.invalid_json"
	codeInvalidAttributes  = "request.invalid_attributes"
	codeAPIKeyInvalid      = "auth.api_key_invalid"
	codeSessionMissing     = "auth.session_missing"
	codeSessionInvalid     = "auth.session_invalid"
	codeInvalidCredentials = "auth.invalid_credentials"
	codeEmailTaken         = "tenant.email_taken"
	codeInvalidRegister    = "tenant.invalid_registration"
	codeFlagInvalid        = "flag.invalid"
	codeFlagNotFound       = "flag.not_found"
	codeInternal           = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "body must be a JSON object")
		return false
	}
	return true
}
