// Package config provides configuration loading and validation, grounded on
// the teacher's viper-based Load/setDefaults/bindEnvVars pattern and
// public-cryptocom/src/config.rs's section layout (http/nats/exchange).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Bus       BusConfig       `mapstructure:"bus"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Exchange  ExchangeConfig  `mapstructure:"exchange"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// BusConfig configures the message bus connection.
type BusConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	MaxReconnects int    `mapstructure:"max_reconnects"`
}

// HTTPConfig configures the admin HTTP server (healthcheck, metrics).
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MarketConfig names the single currency pair this connector instance
// streams, mirroring public-cryptocom/src/config.rs's ExchangeConfig.markets
// field (one Market per deployed instance, not a universe of markets).
type MarketConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// ExchangeConfig configures the venue connection this instance streams.
type ExchangeConfig struct {
	WSURL          string        `mapstructure:"ws_url"`
	MarketsURL     string        `mapstructure:"markets_url"`
	Markets        MarketConfig  `mapstructure:"markets"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	MaxBufferSize  int           `mapstructure:"max_buffer_size"`
	RequestsPerMin int           `mapstructure:"requests_per_minute"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CONNECTOR")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
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

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "CONNECTOR_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "CONNECTOR_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "CONNECTOR_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("bus.host", "CONNECTOR_BUS_HOST", "NATS_HOST")
	v.BindEnv("bus.port", "CONNECTOR_BUS_PORT", "NATS_PORT")

	v.BindEnv("http.host", "CONNECTOR_HTTP_HOST")
	v.BindEnv("http.port", "CONNECTOR_HTTP_PORT")

	v.BindEnv("exchange.ws_url", "CONNECTOR_EXCHANGE_WS_URL")
	v.BindEnv("exchange.markets_url", "CONNECTOR_EXCHANGE_MARKETS_URL")

	v.BindEnv("telemetry.enabled", "CONNECTOR_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "CONNECTOR_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "CONNECTOR_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "marketdata-connector")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("bus.host", "127.0.0.1")
	v.SetDefault("bus.port", 4222)
	v.SetDefault("bus.max_reconnects", -1)

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)

	v.SetDefault("exchange.max_concurrency", 32)
	v.SetDefault("exchange.max_buffer_size", 256)
	v.SetDefault("exchange.requests_per_minute", 60)
	v.SetDefault("exchange.initial_backoff", "1s")
	v.SetDefault("exchange.max_backoff", "30s")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "marketdata-connector")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Exchange.WSURL == "" {
		return fmt.Errorf("exchange.ws_url is required")
	}
	if c.Exchange.MarketsURL == "" {
		return fmt.Errorf("exchange.markets_url is required")
	}
	if c.Bus.Host == "" {
		return fmt.Errorf("bus.host is required")
	}
	return nil
}
