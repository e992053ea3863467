package config

type Config struct {
	Store         StoreConfig         `mapstructure:"store"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Server        ServerConfig        `mapstructure:"server"`
	Sync          SyncConfig          `mapstructure:"sync"`
	Events        EventsConfig        `mapstructure:"events"`
	Clinic        ClinicConfig        `mapstructure:"clinic"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

const (
	StoreDriverMemory = "memory"
	StoreDriverRedis  = "redis"
)

type StoreConfig struct {
	Driver    string `mapstructure:"driver"`    // memory | redis
	Namespace string `mapstructure:"namespace"` // key prefix inside a shared redis
	// QuotaBytes caps the memory driver's total payload size; 0 means unlimited.
	QuotaBytes int `mapstructure:"quota_bytes"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Environment    string     `mapstructure:"environment"`
	CORS           CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type SyncConfig struct {
	// Roles is the ordered partition catalog scanned by cross-partition reads.
	Roles []string `mapstructure:"roles"`
	// ConsumerRoles are reconciled before they view prescriptions and when
	// another context signals a new prescription.
	ConsumerRoles []string `mapstructure:"consumer_roles"`
	// PropagateTo receives a copy of every newly created prescription.
	PropagateTo []string `mapstructure:"propagate_to"`
	// ResyncSchedule is a cron expression for periodic reconcile; empty disables it.
	ResyncSchedule string `mapstructure:"resync_schedule"`
}

type EventsConfig struct {
	NatsURL       string `mapstructure:"nats_url"` // empty disables publishing
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type ClinicConfig struct {
	PhoneRegion string `mapstructure:"phone_region"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // basic auth, optional
	Password string `mapstructure:"password"`
}
