// Package config provides hierarchical configuration loading for VerifyGate.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the VerifyGate service.
type Config struct {
	Server   Server   `yaml:"server"`
	Queue    Queue    `yaml:"queue"`
	Database Database `yaml:"database"`
	NATS     NATS     `yaml:"nats"`
	Logging  Logging  `yaml:"logging"`
	Rate     Rate     `yaml:"rate"`
	OTel     OTel     `yaml:"otel"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	BodyLimit  int64  `yaml:"body_limit"` // Max request body in bytes
}

// Queue holds settings for the external task queue CLI.
type Queue struct {
	Binary        string        `yaml:"binary"`         // Executable name or path (default: "pueue")
	JobName       string        `yaml:"job_name"`       // Command enqueued by `add` (default: "secret-contract-verifier")
	MaxConcurrent int           `yaml:"max_concurrent"` // Simultaneous CLI invocations; 0 = unlimited
	Timeout       time.Duration `yaml:"timeout"`        // Per-invocation timeout; 0 = none
}

// Database holds the document store connection string. It is only read from
// the MONGODB_URI environment variable and must be present at startup.
type Database struct {
	URI string `yaml:"-"`
}

// NATS holds NATS JetStream configuration. An empty URL disables events.
type NATS struct {
	URL    string `yaml:"url"`
	Stream string `yaml:"stream"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Rate holds rate limiter configuration. A zero rate disables limiting.
type Rate struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdleTime       time.Duration `yaml:"max_idle_time"`
}

// OTel holds OpenTelemetry export configuration.
type OTel struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8000",
			CORSOrigin: "*",
			BodyLimit:  1 << 20,
		},
		Queue: Queue{
			Binary:  "pueue",
			JobName: "secret-contract-verifier",
		},
		NATS: NATS{
			Stream: "VERIFYGATE",
		},
		Logging: Logging{
			Level:   "info",
			Service: "verifygate",
		},
		Rate: Rate{
			Burst:           20,
			CleanupInterval: 5 * time.Minute,
			MaxIdleTime:     10 * time.Minute,
		},
		OTel: OTel{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "verifygate",
		},
	}
}
