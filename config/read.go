package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
)

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "KLINIK"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns the configuration used for keys missing from the file.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver:    StoreDriverMemory,
			Namespace: "kliniksehat:",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Server: ServerConfig{
			Port:           8080,
			TimeoutSeconds: 30,
			Environment:    "development",
		},
		Sync: SyncConfig{
			Roles:         partition.DefaultRoles(),
			ConsumerRoles: []string{partition.RolePharmacist},
			PropagateTo:   []string{partition.RolePharmacist, partition.RoleAdminStaff},
		},
		Events: EventsConfig{
			SubjectPrefix: "kliniksehat",
		},
		Clinic: ClinicConfig{
			PhoneRegion: "ID",
		},
		Observability: ObservabilityConfig{
			ServiceName:    "kliniksehat",
			ServiceVersion: "dev",
			Metrics:        MetricsConfig{Path: "/metrics"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: OutputConfig{Stdout: true},
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.namespace", d.Store.Namespace)
	v.SetDefault("store.quota_bytes", d.Store.QuotaBytes)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.timeout_seconds", d.Server.TimeoutSeconds)
	v.SetDefault("server.environment", d.Server.Environment)
	v.SetDefault("sync.roles", d.Sync.Roles)
	v.SetDefault("sync.consumer_roles", d.Sync.ConsumerRoles)
	v.SetDefault("sync.propagate_to", d.Sync.PropagateTo)
	v.SetDefault("sync.resync_schedule", d.Sync.ResyncSchedule)
	v.SetDefault("events.nats_url", d.Events.NatsURL)
	v.SetDefault("events.subject_prefix", d.Events.SubjectPrefix)
	v.SetDefault("clinic.phone_region", d.Clinic.PhoneRegion)
	v.SetDefault("observability.service_name", d.Observability.ServiceName)
	v.SetDefault("observability.service_version", d.Observability.ServiceVersion)
	v.SetDefault("observability.metrics.path", d.Observability.Metrics.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output.stdout", d.Logging.Output.Stdout)
	v.SetDefault("logging.output.loki.enabled", d.Logging.Output.Loki.Enabled)
	v.SetDefault("logging.output.loki.endpoint", d.Logging.Output.Loki.Endpoint)
}

func ReadConfig(configPath string) (*Config, error) {
	// A .env next to the config file may carry KLINIK_* overrides.
	if err := godotenv.Load(filepath.Join(configPath, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. KLINIK_STORE_DRIVER overrides store.driver
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverRedis:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Store.QuotaBytes < 0 {
		return fmt.Errorf("%w: store.quota_bytes must not be negative", ErrInvalidConfig)
	}

	registry, err := partition.NewRegistry(c.Sync.Roles...)
	if err != nil {
		return fmt.Errorf("%w: sync.roles: %v", ErrInvalidConfig, err)
	}
	for _, r := range c.Sync.ConsumerRoles {
		if !registry.Contains(r) {
			return fmt.Errorf("%w: consumer role %q is not in sync.roles", ErrInvalidConfig, r)
		}
	}
	for _, r := range c.Sync.PropagateTo {
		if !registry.Contains(r) {
			return fmt.Errorf("%w: propagation target %q is not in sync.roles", ErrInvalidConfig, r)
		}
	}

	if loki := c.Logging.Output.Loki; loki.Enabled && loki.Endpoint == "" {
		return fmt.Errorf("%w: logging.output.loki.endpoint is required when loki is enabled", ErrInvalidConfig)
	}

	if c.Sync.ResyncSchedule != "" {
		if _, err := cron.ParseStandard(c.Sync.ResyncSchedule); err != nil {
			return fmt.Errorf("%w: sync.resync_schedule: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}
