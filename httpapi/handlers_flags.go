package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nimbushq/nimbusflags/pkg/feature"
	"github.com/nimbushq/nimbusflags/pkg/logger"
	"github.com/nimbushq/nimbusflags/pkg/tenant"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type upsertFlagRequest struct {
	Enabled    bool                `json:"enabled"`
	Conditions []feature.Condition `json:"conditions"`
	Parameters map[string]any      `json:"parameters"`
}

type listFlagsResponse struct {
	Flags []feature.Flag `json:"flags"`
}

func (a *api) handleListFlags(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "authentication required")
		return
	}

	limit := queryInt(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	flags, err := a.flags.List(r.Context(), t.ID, limit, offset)
	if err != nil {
		a.log.ErrorContext(r.Context(), "flag listing failed",
			logger.TenantID(t.ID.String()), logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "listing failed")
		return
	}
	if flags == nil {
		flags = []feature.Flag{}
	}

	respondJSON(w, http.StatusOK, listFlagsResponse{Flags: flags})
}

func (a *api) handleUpsertFlag(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "authentication required")
		return
	}

	var req upsertFlagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flag, err := a.flags.Upsert(r.Context(), t.ID, feature.Flag{
		Key:        chi.URLParam(r, "key"),
		Enabled:    req.Enabled,
		Conditions: req.Conditions,
		Parameters: req.Parameters,
	})
	switch {
	case err == nil:
	case errors.Is(err, feature.ErrInvalidFlag):
		respondError(w, http.StatusBadRequest, codeFlagInvalid, err.Error())
		return
	default:
		a.log.ErrorContext(r.Context(), "flag upsert failed",
			logger.TenantID(t.ID.String()), logger.FlagKey(chi.URLParam(r, "key")),
			logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "upsert failed")
		return
	}

	respondJSON(w, http.StatusOK, flag)
}

func (a *api) handleGetFlag(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "authentication required")
		return
	}

	flag, err := a.flags.Get(r.Context(), t.ID, chi.URLParam(r, "key"))
	switch {
	case err == nil:
	case errors.Is(err, feature.ErrFlagNotFound):
		respondError(w, http.StatusNotFound, codeFlagNotFound, "flag not found")
		return
	default:
		a.log.ErrorContext(r.Context(), "flag lookup failed",
			logger.TenantID(t.ID.String()), logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, flag)
}

func (a *api) handleDeleteFlag(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeSessionInvalid, "authentication required")
		return
	}

	removed, err := a.flags.Delete(r.Context(), t.ID, chi.URLParam(r, "key"))
	if err != nil {
		a.log.ErrorContext(r.Context(), "flag deletion failed",
			logger.TenantID(t.ID.String()), logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "deletion failed")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, codeFlagNotFound, "flag not found")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
