package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the print worker configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Printer PrinterConfig  `mapstructure:"printer"`
	Workers []WorkerConfig `mapstructure:"workers"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// Printer modes.
const (
	PrinterLog  = "log"
	PrinterHTTP = "http"
)

type PrinterConfig struct {
	Mode     string        `mapstructure:"mode"`
	BaseURL  string        `mapstructure:"base_url"`
	DeviceID string        `mapstructure:"device_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// WorkerConfig is one subscriber/processor pair bound to a queue.
type WorkerConfig struct {
	Name       string           `mapstructure:"name"`
	QueueName  string           `mapstructure:"queue_name"`
	Subscriber SubscriberConfig `mapstructure:"subscriber"`
	Processor  ProcessorConfig  `mapstructure:"processor"`
}

type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`
	Rate         time.Duration `mapstructure:"rate"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TTR          time.Duration `mapstructure:"ttr"`
	ErrorBackoff time.Duration `mapstructure:"error_backoff"`
}

type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`
	BufferSize int           `mapstructure:"buffer_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load reads a YAML file. PICKUP_* environment variables override scalar keys,
// e.g. PICKUP_LMSTFY_TOKEN for lmstfy.token.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PICKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Printer.Mode == "" {
		c.Printer.Mode = PrinterLog
	}
	for i := range c.Workers {
		w := &c.Workers[i]
		if w.Subscriber.Threads <= 0 {
			w.Subscriber.Threads = 1
		}
		if w.Subscriber.Timeout <= 0 {
			w.Subscriber.Timeout = 3 * time.Second
		}
		if w.Subscriber.TTR <= 0 {
			w.Subscriber.TTR = 30 * time.Second
		}
		if w.Subscriber.ErrorBackoff <= 0 {
			w.Subscriber.ErrorBackoff = time.Second
		}
		if w.Processor.Threads <= 0 {
			w.Processor.Threads = 1
		}
		if w.Processor.BufferSize < 0 {
			w.Processor.BufferSize = 0
		}
		if w.Processor.Timeout <= 0 {
			w.Processor.Timeout = 10 * time.Second
		}
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if c.Lmstfy.Namespace == "" {
		return fmt.Errorf("lmstfy.namespace is required")
	}
	switch c.Printer.Mode {
	case PrinterLog:
	case PrinterHTTP:
		if c.Printer.BaseURL == "" {
			return fmt.Errorf("printer.base_url is required for http printer")
		}
	default:
		return fmt.Errorf("unknown printer.mode %q", c.Printer.Mode)
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for _, w := range c.Workers {
		if w.Name == "" || w.QueueName == "" {
			return fmt.Errorf("worker name and queue_name are required")
		}
		// an unacked job must not come back while it is still being processed
		if w.Subscriber.TTR <= w.Processor.Timeout {
			return fmt.Errorf("worker %s: subscriber.ttr must exceed processor.timeout", w.Name)
		}
	}
	return nil
}
