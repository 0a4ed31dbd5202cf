package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nimbushq/nimbusflags/pkg/feature"
	"github.com/nimbushq/nimbusflags/pkg/logger"
	"github.com/nimbushq/nimbusflags/pkg/tenant"
)

type evaluateRequest struct {
	Attributes map[string]any `json:"attributes"`
}

func (a *api) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeAPIKeyInvalid, "invalid or missing API key")
		return
	}

	var req evaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attrs, err := feature.AttributesFromRaw(req.Attributes)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidAttributes, "attributes must be scalar values")
		return
	}

	result, err := a.evaluator.Evaluate(r.Context(), t.ID, chi.URLParam(r, "key"), attrs)
	switch {
	case err == nil:
	case errors.Is(err, feature.ErrFlagNotFound):
		respondError(w, http.StatusNotFound, codeFlagNotFound, "flag not found")
		return
	default:
		a.log.ErrorContext(r.Context(), "evaluation failed",
			logger.TenantID(t.ID.String()), logger.FlagKey(chi.URLParam(r, "key")),
			logger.Error(err), logger.Component("httpapi"))
		respondError(w, http.StatusInternalServerError, codeInternal, "evaluation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
