// Package evaluation is the single entry point runtime callers use to
// evaluate a flag: resolve the tenant's flag, run the evaluator, shape the
// response. Every call reads the current store state and recomputes, so
// callers always see the latest admin-configured flags.
package evaluation

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nimbushq/nimbusflags/pkg/feature"
	"github.com/nimbushq/nimbusflags/pkg/logger"
)

// FlagGetter is the slice of the flag store the service needs.
type FlagGetter interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string) (feature.Flag, error)
}

// Service orchestrates flag evaluation for authenticated tenants.
type Service struct {
	flags FlagGetter
	log   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates an evaluation service reading flags from the given store.
func New(flags FlagGetter, opts ...Option) *Service {
	s := &Service{
		flags: flags,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate resolves the tenant's flag and evaluates it against the supplied
// attribute bag. A missing flag returns feature.ErrFlagNotFound, which is
// distinct from a present-but-disabled flag.
func (s *Service) Evaluate(ctx context.Context, tenantID uuid.UUID, flagKey string, attrs feature.Attributes) (feature.Result, error) {
	flag, err := s.flags.Get(ctx, tenantID, flagKey)
	if err != nil {
		if errors.Is(err, feature.ErrFlagNotFound) {
			return feature.Result{}, err
		}
		s.log.ErrorContext(ctx, "flag lookup failed",
			logger.TenantID(tenantID.String()),
			logger.FlagKey(flagKey),
			logger.Error(err),
			logger.Component("evaluation"),
		)
		return feature.Result{}, err
	}

	result := feature.Evaluate(flag, attrs)

	s.log.DebugContext(ctx, "flag evaluated",
		logger.TenantID(tenantID.String()),
		logger.FlagKey(flagKey),
		slog.Bool("enabled", result.Enabled),
		logger.Component("evaluation"),
	)

	return result, nil
}
