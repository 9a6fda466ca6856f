package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "verifygate.yaml"

// DefaultEnvFile is the dotenv file read by Load before the environment overlay.
const DefaultEnvFile = ".env"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// Variables from an optional .env file are added to the environment first;
// variables already set in the process environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "VERIFYGATE_PORT")
	setString(&cfg.Server.CORSOrigin, "VERIFYGATE_CORS_ORIGIN")
	setInt64(&cfg.Server.BodyLimit, "VERIFYGATE_BODY_LIMIT")

	// Queue
	setString(&cfg.Queue.Binary, "VERIFYGATE_QUEUE_BINARY")
	setString(&cfg.Queue.JobName, "VERIFYGATE_QUEUE_JOB_NAME")
	setInt(&cfg.Queue.MaxConcurrent, "VERIFYGATE_QUEUE_MAX_CONCURRENT")
	setDuration(&cfg.Queue.Timeout, "VERIFYGATE_QUEUE_TIMEOUT")

	setString(&cfg.Database.URI, "MONGODB_URI")

	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Stream, "VERIFYGATE_NATS_STREAM")

	setString(&cfg.Logging.Level, "VERIFYGATE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "VERIFYGATE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "VERIFYGATE_LOG_ASYNC")

	setFloat64(&cfg.Rate.RequestsPerSecond, "VERIFYGATE_RATE_RPS")
	setInt(&cfg.Rate.Burst, "VERIFYGATE_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "VERIFYGATE_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "VERIFYGATE_RATE_MAX_IDLE_TIME")

	// OpenTelemetry
	setBool(&cfg.OTel.Enabled, "VERIFYGATE_OTEL_ENABLED")
	setString(&cfg.OTel.Endpoint, "VERIFYGATE_OTEL_ENDPOINT")
	setBool(&cfg.OTel.Insecure, "VERIFYGATE_OTEL_INSECURE")
	setString(&cfg.OTel.ServiceName, "VERIFYGATE_OTEL_SERVICE_NAME")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Database.URI == "" {
		return errors.New("MONGODB_URI must be set")
	}
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Server.BodyLimit < 1 {
		return errors.New("server.body_limit must be >= 1")
	}
	if cfg.Queue.Binary == "" {
		return errors.New("queue.binary is required")
	}
	if cfg.Queue.JobName == "" {
		return errors.New("queue.job_name is required")
	}
	if cfg.Queue.MaxConcurrent < 0 {
		return errors.New("queue.max_concurrent must be >= 0")
	}
	if cfg.Queue.Timeout < 0 {
		return errors.New("queue.timeout must be >= 0")
	}
	if cfg.NATS.URL != "" && cfg.NATS.Stream == "" {
		return errors.New("nats.stream is required when nats.url is set")
	}
	if cfg.Rate.RequestsPerSecond < 0 {
		return errors.New("rate.requests_per_second must be >= 0")
	}
	if cfg.Rate.RequestsPerSecond > 0 && cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.OTel.Enabled && cfg.OTel.Endpoint == "" {
		return errors.New("otel.endpoint is required when otel is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
