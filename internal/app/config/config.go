package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the API server configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	SQL       SQLConfig       `mapstructure:"sql"`
	Lmstfy    LmstfyConfig    `mapstructure:"lmstfy"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Live      LiveConfig      `mapstructure:"live"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	// Timezone decides the pickup day boundary, e.g. "Europe/Paris". Empty means local time.
	Timezone  string `mapstructure:"timezone"`
	MachineID int64  `mapstructure:"machine_id"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Storage backends.
const (
	BackendFile  = "file"
	BackendKV    = "kv"
	BackendMongo = "mongo"
	BackendSQL   = "sql"
)

type StorageConfig struct {
	Backend  string `mapstructure:"backend"`
	FileDir  string `mapstructure:"file_dir"`
	KVDriver string `mapstructure:"kv_driver"` // memory | redis
	KVPrefix string `mapstructure:"kv_prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	EnsureIndexes  bool          `mapstructure:"ensure_indexes"`
}

type SQLConfig struct {
	Dialect         string        `mapstructure:"dialect"` // mysql | sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type LmstfyConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Namespace    string        `mapstructure:"namespace"`
	Token        string        `mapstructure:"token"`
	ReceiptQueue string        `mapstructure:"receipt_queue"`
	ReceiptTTL   time.Duration `mapstructure:"receipt_ttl"`
	Tries        uint16        `mapstructure:"tries"`
}

// Enabled reports whether receipt printing is configured.
func (c LmstfyConfig) Enabled() bool {
	return c.Host != ""
}

// Payment verifier modes.
const (
	VerifierHTTP     = "http"
	VerifierTrusting = "trusting"
)

type PaymentConfig struct {
	Verifier string        `mapstructure:"verifier"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LifecycleConfig struct {
	// RenotifyPolicy is keep or restamp.
	RenotifyPolicy string `mapstructure:"renotify_policy"`
}

type SyncConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	MaxPollFailures int           `mapstructure:"max_poll_failures"`
	// Channel is the Redis pub/sub channel for cross-process change notifications.
	// Empty disables the relay.
	Channel string `mapstructure:"channel"`
}

type LiveConfig struct {
	OrderTimeout   time.Duration `mapstructure:"order_timeout"`
	PaymentTimeout time.Duration `mapstructure:"payment_timeout"`
	QueueTimeout   time.Duration `mapstructure:"queue_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
}

// Load reads a YAML file. A .env file in the working directory is loaded first when present,
// and PICKUP_* environment variables override keys, e.g. PICKUP_PAYMENT_API_KEY.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PICKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

// LoadDefault loads config/config.yaml.
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pickup")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.machine_id", 1)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.file_dir", "data")
	v.SetDefault("storage.kv_driver", "memory")
	v.SetDefault("storage.kv_prefix", "pickup:")
	v.SetDefault("mongo.database", "pickup")
	v.SetDefault("sql.dialect", "sqlite")
	v.SetDefault("lmstfy.receipt_queue", "receipts")
	v.SetDefault("lmstfy.tries", 3)
	v.SetDefault("payment.verifier", VerifierHTTP)
	v.SetDefault("payment.timeout", 10*time.Second)
	v.SetDefault("lifecycle.renotify_policy", "keep")
	v.SetDefault("sync.poll_interval", 5*time.Second)
	v.SetDefault("sync.max_poll_failures", 5)
	v.SetDefault("live.order_timeout", 10*time.Second)
	v.SetDefault("live.payment_timeout", 5*time.Second)
	v.SetDefault("live.queue_timeout", 8*time.Second)
	v.SetDefault("live.retry_attempts", 3)
	v.SetDefault("live.retry_backoff", 200*time.Millisecond)
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}

// Validate checks that the selected backend and integrations are fully configured.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.FileDir == "" {
			return fmt.Errorf("storage.file_dir is required for the file backend")
		}
	case BackendKV:
		switch c.Storage.KVDriver {
		case "memory":
		case "redis":
			if c.Redis.Addr == "" {
				return fmt.Errorf("redis.addr is required for the redis kv driver")
			}
		default:
			return fmt.Errorf("unknown storage.kv_driver %q", c.Storage.KVDriver)
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required for the mongo backend")
		}
	case BackendSQL:
		if c.SQL.DSN == "" {
			return fmt.Errorf("sql.dsn is required for the sql backend")
		}
		if c.SQL.Dialect != "mysql" && c.SQL.Dialect != "sqlite" {
			return fmt.Errorf("unknown sql.dialect %q", c.SQL.Dialect)
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}

	if c.Sync.Channel != "" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when sync.channel is set")
	}

	switch c.Payment.Verifier {
	case VerifierTrusting:
	case VerifierHTTP:
		if c.Payment.BaseURL == "" || c.Payment.APIKey == "" {
			return fmt.Errorf("payment.base_url and payment.api_key are required for the http verifier")
		}
	default:
		return fmt.Errorf("unknown payment.verifier %q", c.Payment.Verifier)
	}

	switch c.Lifecycle.RenotifyPolicy {
	case "keep", "restamp":
	default:
		return fmt.Errorf("unknown lifecycle.renotify_policy %q", c.Lifecycle.RenotifyPolicy)
	}

	if c.Lmstfy.Enabled() && c.Lmstfy.Namespace == "" {
		return fmt.Errorf("lmstfy.namespace is required when lmstfy.host is set")
	}
	if c.Sync.PollInterval <= 0 {
		return fmt.Errorf("sync.poll_interval must be positive")
	}
	return nil
}
