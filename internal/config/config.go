package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

// RateLimitConfig stores parameters for the per-IP request limiter in front
// of the reservation service.
type RateLimitConfig struct {
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

type Config struct {
	App struct {
		Env string `yaml:"env"`
	} `yaml:"app"`
	ReservationService ServerConfig `yaml:"reservation_service"`
	UserService        ServerConfig `yaml:"user_service"`
	PaymentService     ServerConfig `yaml:"payment_service"`
	Postgres           struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Kafka struct {
		BootstrapServers string `yaml:"bootstrap_servers"`
		PaymentsTopic    string `yaml:"payments_topic"`
		DLQTopic         string `yaml:"dlq_topic"`
	} `yaml:"kafka"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	ClickHouse struct {
		Addr string `yaml:"addr"`
	} `yaml:"clickhouse"`
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
	Collaborators struct {
		UserServiceURL    string `yaml:"user_service_url"`
		PaymentServiceURL string `yaml:"payment_service_url"`
	} `yaml:"collaborators"`
	Payment struct {
		SigningKey      string `yaml:"signing_key"`
		ApprovalBaseURL string `yaml:"approval_base_url"`
	} `yaml:"payment"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

func Load(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Environment variables are substituted into the raw YAML before parsing,
	// so secrets never live in the file itself.
	expandedFile := os.ExpandEnv(string(file))

	if err := yaml.Unmarshal([]byte(expandedFile), config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}
