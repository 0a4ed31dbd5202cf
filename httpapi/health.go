package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/nimbushq/nimbusflags/pkg/logger"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	resp := healthResponse{Status: "ok"}
	if len(a.health) > 0 {
		resp.Checks = make(map[string]string, len(a.health))
	}

	for name, check := range a.health {
		if err := check(ctx); err != nil {
			a.log.ErrorContext(ctx, "health check failed",
				logger.Component("httpapi"), logger.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	respondJSON(w, status, resp)
}
