package tenant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nimbushq/nimbusflags/pkg/logger"
	"github.com/nimbushq/nimbusflags/pkg/token"
)

// Service implements tenant registration and both authentication paths:
// email/password for the dashboard and API keys for machine callers.
type Service struct {
	store      Store
	bcryptCost int
	log        *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost for password hashing. Tests lower it
// to keep registration fast.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a tenant service on top of the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new tenant and returns it together with the plaintext
// API key. The key is shown exactly once; only its hash is stored.
func (s *Service) Register(ctx context.Context, email, password string) (Tenant, string, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return Tenant{}, "", ErrInvalidEmail
	}
	if password == "" {
		return Tenant{}, "", ErrEmptyPassword
	}

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return Tenant{}, "", ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrTenantNotFound) {
		return Tenant{}, "", fmt.Errorf("check existing tenant: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return Tenant{}, "", fmt.Errorf("hash password: %w", err)
	}

	apiKey, err := token.New(APIKeyPrefix)
	if err != nil {
		return Tenant{}, "", fmt.Errorf("generate api key: %w", err)
	}

	t := Tenant{
		ID:        uuid.New(),
		Email:     email,
		Active:    true,
		CreatedAt: time.Now(),
	}

	if err := s.store.Create(ctx, t, passwordHash, token.Hash(apiKey)); err != nil {
		return Tenant{}, "", err
	}

	s.log.InfoContext(ctx, "tenant registered",
		logger.TenantID(t.ID.String()),
		logger.Component("tenant"),
	)

	return t, apiKey, nil
}

// Authenticate verifies email and password. Any failure returns
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Tenant, error) {
	email = normalizeEmail(email)

	t, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return Tenant{}, ErrInvalidCredentials
	}
	if !t.Active {
		return Tenant{}, ErrInvalidCredentials
	}

	hash, err := s.store.PasswordHash(ctx, t.ID)
	if err != nil {
		return Tenant{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return Tenant{}, ErrInvalidCredentials
	}

	return t, nil
}

// ResolveAPIKey resolves a plaintext machine credential to its tenant.
// Inactive tenants never resolve.
func (s *Service) ResolveAPIKey(ctx context.Context, apiKey string) (Tenant, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return Tenant{}, ErrTenantNotFound
	}

	t, err := s.store.GetByAPIKeyHash(ctx, token.Hash(apiKey))
	if err != nil {
		return Tenant{}, err
	}
	if !t.Active {
		return Tenant{}, ErrTenantInactive
	}
	return t, nil
}

// RotateAPIKey replaces the tenant's machine credential and returns the new
// plaintext key. The previous key stops resolving immediately.
func (s *Service) RotateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	apiKey, err := token.New(APIKeyPrefix)
	if err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	if err := s.store.SetAPIKeyHash(ctx, id, token.Hash(apiKey)); err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "api key rotated",
		logger.TenantID(id.String()),
		logger.Component("tenant"),
	)

	return apiKey, nil
}

// GetByID returns the tenant or ErrTenantNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Tenant, error) {
	return s.store.GetByID(ctx, id)
}

// SetActive toggles the tenant's active switch.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.store.SetActive(ctx, id, active)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
