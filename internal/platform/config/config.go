// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"CHARGENET_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"CHARGENET_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Events EventsConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	DB     DBConfig
}

// EventsConfig tunes the event registry and its default sinks.
type EventsConfig struct {
	LogDir          string        `env:"CHARGENET_EVENT_LOG_DIR" envDefault:"./events"`
	DeliveryTimeout time.Duration `env:"CHARGENET_EVENT_DELIVERY_TIMEOUT" envDefault:"5s"`
	DisableDefaults bool          `env:"CHARGENET_EVENT_DISABLE_DEFAULT_SINKS"`
}

// RedisConfig configures the optional Redis publish sink.
type RedisConfig struct {
	URL          string        `env:"CHARGENET_REDIS_URL"`
	Channel      string        `env:"CHARGENET_REDIS_EVENT_CHANNEL" envDefault:"chargenet.events"`
	PoolSize     int           `env:"CHARGENET_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"CHARGENET_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"CHARGENET_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"CHARGENET_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"CHARGENET_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures the optional Kafka event sink.
type KafkaConfig struct {
	Brokers []string `env:"CHARGENET_KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"CHARGENET_KAFKA_EVENT_TOPIC" envDefault:"chargenet.events"`
}

// DBConfig configures the optional Postgres-backed entity directory. When
// URL is empty the in-memory directory with seed data is used instead.
type DBConfig struct {
	URL string `env:"CHARGENET_DATABASE_URL"`
}

// FromEnv parses the full server configuration from the environment.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
