package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/seu-repo/vending-fleet/internal/service/simulation"
)

// Load reads configs/config.yaml when present, then APP_* environment
// variables. Every key has a default, so an empty environment yields a
// runnable configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	return load(v)
}

// LoadFile reads an explicit config file, then APP_* environment variables.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("queue.url", "QUEUE_URL", "APP_QUEUE_URL")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL", "APP_LOGGING_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	sim := simulation.DefaultConfig()

	v.SetDefault("app.name", "vending-fleet")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("simulation.machines_per_location", sim.MachinesPerLocation)
	v.SetDefault("simulation.transaction_interval.min", sim.TransactionInterval.Min)
	v.SetDefault("simulation.transaction_interval.max", sim.TransactionInterval.Max)
	v.SetDefault("simulation.event_interval.min", sim.EventInterval.Min)
	v.SetDefault("simulation.event_interval.max", sim.EventInterval.Max)
	v.SetDefault("simulation.transaction_capacity", sim.TransactionCapacity)
	v.SetDefault("simulation.event_capacity", sim.EventCapacity)
	v.SetDefault("simulation.seed", sim.Seed)

	v.SetDefault("queue.driver", "")
	v.SetDefault("queue.url", "")
	v.SetDefault("queue.subject_prefix", "vending")
	v.SetDefault("queue.buffer", 256)
	v.SetDefault("queue.max_reconnects", 10)
	v.SetDefault("queue.reconnect_wait", 2*time.Second)
	v.SetDefault("queue.timeout", 5*time.Second)

	v.SetDefault("live_feed.enabled", true)
	v.SetDefault("live_feed.send_buffer", 64)

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "vending-fleet")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", 60*time.Second)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)
	v.SetDefault("circuit_breaker.min_requests", 5)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Validate rejects configurations the engine or adapters cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.HTTP.Port))
	}
	if c.Simulation.MachinesPerLocation <= 0 {
		errs = append(errs, errors.New("simulation.machines_per_location must be positive"))
	}
	for name, iv := range map[string]simulation.Interval{
		"transaction_interval": c.Simulation.TransactionInterval,
		"event_interval":       c.Simulation.EventInterval,
	} {
		if iv.Min <= 0 || iv.Max < iv.Min {
			errs = append(errs, fmt.Errorf("simulation.%s must satisfy 0 < min <= max, got [%s,%s]", name, iv.Min, iv.Max))
		}
	}
	if c.Simulation.TransactionCapacity <= 0 || c.Simulation.EventCapacity <= 0 {
		errs = append(errs, errors.New("simulation history capacities must be positive"))
	}

	switch c.Queue.Driver {
	case "":
	case "nats", "rabbitmq":
		if c.Queue.URL == "" {
			errs = append(errs, fmt.Errorf("queue.url is required for driver %q", c.Queue.Driver))
		}
		if c.Queue.Buffer <= 0 {
			errs = append(errs, errors.New("queue.buffer must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown queue.driver %q", c.Queue.Driver))
	}

	return errors.Join(errs...)
}
