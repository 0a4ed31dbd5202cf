// Package httpapi exposes the flag service over HTTP: registration and
// session auth for the dashboard, flag administration, and the runtime
// evaluation endpoint for machine callers.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nimbushq/nimbusflags/pkg/feature"
	"github.com/nimbushq/nimbusflags/pkg/session"
	"github.com/nimbushq/nimbusflags/pkg/tenant"
	"github.com/nimbushq/nimbusflags/svc/evaluation"
)

// Dependencies carries everything the router mounts. All fields except
// HealthChecks are required.
type Dependencies struct {
	Tenants   *tenant.Service
	Sessions  *session.Manager
	Flags     feature.Store
	Evaluator *evaluation.Service
	Logger    *slog.Logger

	// HealthChecks run on GET /health; any failure turns the probe red.
	HealthChecks map[string]func(context.Context) error
}

type api struct {
	tenants   *tenant.Service
	sessions  *session.Manager
	flags     feature.Store
	evaluator *evaluation.Service
	log       *slog.Logger
	health    map[string]func(context.Context) error
}

// NewRouter builds the service's HTTP handler.
func NewRouter(deps Dependencies) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	a := &api{
		tenants:   deps.Tenants,
		sessions:  deps.Sessions,
		flags:     deps.Flags,
		evaluator: deps.Evaluator,
		log:       log,
		health:    deps.HealthChecks,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.handleHealth)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", a.handleRegister)
			auth.Post("/login", a.handleLogin)
			auth.Post("/logout", a.handleLogout)
			auth.With(a.requireSession).Post("/rotate-key", a.handleRotateAPIKey)
		})

		v1.Route("/flags", func(flags chi.Router) {
			flags.Use(a.requireTenant)
			flags.Get("/", a.handleListFlags)
			flags.Put("/{key}", a.handleUpsertFlag)
			flags.Get("/{key}", a.handleGetFlag)
			flags.Delete("/{key}", a.handleDeleteFlag)
		})

		v1.With(a.requireAPIKey).Post("/evaluate/{key}", a.handleEvaluate)
	})

	return r
}
