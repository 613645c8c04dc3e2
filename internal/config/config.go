package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type FXConfig struct {
	Env           string `yaml:"env" env:"FX_ENV" env-default:"local"`
	FixerAPI      `yaml:"fixer_api"`
	RetryConfig   `yaml:"retry"`
	Conversion    `yaml:"conversion"`
	LogConfig     `yaml:"log_config"`
	MetricsConfig `yaml:"metrics"`
	KafkaService  `yaml:"kafka-service"`
}

type FixerAPI struct {
	BaseURL   string        `yaml:"base_url" env:"FIXER_BASE_URL" env-default:"http://data.fixer.io/api"`
	AccessKey string        `yaml:"access_key" env:"FIXER_ACCESS_KEY" env-required:"true"`
	Timeout   time.Duration `yaml:"timeout" env:"FIXER_TIMEOUT" env-default:"10s"`
}

type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries" env:"FX_RETRY_MAX" env-default:"10"`
	BackoffFactor time.Duration `yaml:"backoff_factor" env:"FX_RETRY_BACKOFF_FACTOR" env-default:"300ms"`
	MaxBackoff    time.Duration `yaml:"max_backoff" env:"FX_RETRY_MAX_BACKOFF" env-default:"120s"`
	RetryStatuses []int         `yaml:"retry_statuses" env:"FX_RETRY_STATUSES" env-default:"500,502,504"`
}

type Conversion struct {
	Amount float64 `yaml:"amount" env:"FX_AMOUNT" env-default:"100"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"FX_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"FX_LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"FX_LOG_OUTPUT" env-default:"stderr"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile" env:"FX_METRICS_TEXTFILE"`
}

type KafkaService struct {
	Brokers    []string `yaml:"brokers" env:"FX_KAFKA_BROKERS"`
	Topic      string   `yaml:"topic" env:"FX_KAFKA_TOPIC" env-default:"fx-quotes"`
	Username   string   `yaml:"username" env:"FX_KAFKA_USERNAME"`
	Password   string   `yaml:"password" env:"FX_KAFKA_PASSWORD"`
	Mechanism  string   `yaml:"mechanism" env:"FX_KAFKA_SASL_MECHANISM"`
	TLSEnabled bool     `yaml:"tls_enabled" env:"FX_KAFKA_TLS"`
}

// Load reads the YAML file at configPath, when given, and then the
// environment. Environment variables override file values.
func Load(configPath string) (*FXConfig, error) {
	var cfg FXConfig

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
	} else {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.Brokers = compact(cfg.Brokers)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *FXConfig {
	// FX_CONFIG_PATH is optional, env alone is enough
	cfg, err := Load(os.Getenv("FX_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v\n", err)
	}
	return cfg
}

func (c *FXConfig) validate() error {
	if c.AccessKey == "" {
		return fmt.Errorf("fixer access key is empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.BackoffFactor < 0 || c.MaxBackoff < 0 {
		return fmt.Errorf("backoff durations must not be negative")
	}
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", c.Amount)
	}
	for _, code := range c.RetryStatuses {
		if code < 100 || code > 599 {
			return fmt.Errorf("invalid retry status: %d", code)
		}
	}
	return nil
}

// compact trims entries and drops empty ones, so FX_KAFKA_BROKERS="" means
// no brokers.
func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
