package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/kliniksehat/config"
	"github.com/Alijeyrad/kliniksehat/pkg/authorize"
	"github.com/Alijeyrad/kliniksehat/pkg/events"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
	"github.com/Alijeyrad/kliniksehat/pkg/logs"
	"github.com/Alijeyrad/kliniksehat/pkg/observability"
	redispkg "github.com/Alijeyrad/kliniksehat/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideBackend),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logs.New(cfg)
}

// ProvideRedis returns nil when the store runs in memory.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*redis.Client, error) {
	if cfg.Store.Driver != config.StoreDriverRedis {
		return nil, nil
	}
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideBackend(cfg *config.Config, rdb *redis.Client) (kvstore.Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		return kvstore.NewRedis(rdb, cfg.Store.Namespace), nil
	case config.StoreDriverMemory, "":
		return kvstore.NewSpace(cfg.Store.QuotaBytes).Open(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.Store.Driver)
	}
}

func ProvideStore(b kvstore.Backend, log *slog.Logger) *kvstore.Store {
	return kvstore.New(b, log)
}

func ProvideAuthorization(log *slog.Logger) (authorize.IAuthorization, error) {
	return authorize.NewClinicAuthorization(context.Background(), log)
}

// ProvideNatsClient returns nil when no NATS URL is configured.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*nats.Conn, error) {
	if cfg.Events.NatsURL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Events.NatsURL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(cfg *config.Config, nc *nats.Conn) events.Publisher {
	if nc == nil {
		return events.Nop{}
	}
	return events.NewNATS(nc, cfg.Events.SubjectPrefix)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	log.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
