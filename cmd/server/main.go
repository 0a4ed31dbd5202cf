// Command server runs the NimbusFlags HTTP service: tenant registration and
// authentication, flag administration, and runtime flag evaluation.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nimbushq/nimbusflags/httpapi"
	"github.com/nimbushq/nimbusflags/pkg/config"
	"github.com/nimbushq/nimbusflags/pkg/feature"
	"github.com/nimbushq/nimbusflags/pkg/httpserver"
	"github.com/nimbushq/nimbusflags/pkg/logger"
	"github.com/nimbushq/nimbusflags/pkg/pg"
	"github.com/nimbushq/nimbusflags/pkg/redis"
	"github.com/nimbushq/nimbusflags/pkg/session"
	"github.com/nimbushq/nimbusflags/pkg/tenant"
	"github.com/nimbushq/nimbusflags/svc/evaluation"
)

type appConfig struct {
	Addr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel  slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat logger.Format `env:"LOG_FORMAT" envDefault:"json"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Optional YAML fixture applied at startup, used for demo and staging
	// environments. SeedTenantID names the tenant that owns the seeded flags.
	SeedFile     string    `env:"FLAG_SEED_FILE" envDefault:""`
	SeedTenantID uuid.UUID `env:"FLAG_SEED_TENANT_ID" envDefault:"00000000-0000-0000-0000-000000000000"`

	PG    pg.Config
	Redis redis.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(cfg.LogFormat),
		logger.WithAttr(slog.String("app", "nimbusflags")),
	)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	health := map[string]func(context.Context) error{
		"postgres": pg.Healthcheck(pool),
	}

	// Sessions live in Redis when a URL is configured; Postgres otherwise.
	var sessionStore session.Store = session.NewPostgresStore(pool)
	if cfg.Redis.ConnectionURL != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		sessionStore = session.NewRedisStore(client)
		health["redis"] = redis.Healthcheck(client)
	}

	flagStore := feature.NewPostgresStore(pool)
	tenants := tenant.NewService(tenant.NewPostgresStore(pool), tenant.WithLogger(log))
	sessions := session.NewManager(sessionStore,
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(log),
	)
	evaluator := evaluation.New(flagStore, evaluation.WithLogger(log))

	if cfg.SeedFile != "" {
		flags, err := feature.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := feature.ApplySeed(ctx, flagStore, cfg.SeedTenantID, flags, log); err != nil {
			return err
		}
	}

	handler := httpapi.NewRouter(httpapi.Dependencies{
		Tenants:      tenants,
		Sessions:     sessions,
		Flags:        flagStore,
		Evaluator:    evaluator,
		Logger:       log,
		HealthChecks: health,
	})

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithReadTimeout(10*time.Second),
		httpserver.WithWriteTimeout(30*time.Second),
		httpserver.WithIdleTimeout(time.Minute),
		httpserver.WithLogger(log),
	)
	return srv.Run(ctx, handler)
}
