package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel     string `yaml:"log_level"`
	HTTPPort     string `yaml:"http_port"`
	DBDriver     string `yaml:"db_driver"` // postgres, sqlite or memory
	PostgresDSN  string `yaml:"postgres_dsn"`
	SQLitePath   string `yaml:"sqlite_path"`
	RabbitMQURL  string `yaml:"rabbitmq_url"`
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTClientID string `yaml:"mqtt_client_id"`
}

// Default runs fully self-contained: in-memory store, no brokers.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		HTTPPort:     "8080",
		DBDriver:     "memory",
		SQLitePath:   "geotrackd.db",
		MQTTClientID: "geotrackd-server",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	overrideEnv(&cfg.LogLevel, "LOG_LEVEL")
	overrideEnv(&cfg.HTTPPort, "HTTP_PORT")
	overrideEnv(&cfg.DBDriver, "DB_DRIVER")
	overrideEnv(&cfg.PostgresDSN, "POSTGRES_DSN")
	overrideEnv(&cfg.SQLitePath, "SQLITE_PATH")
	overrideEnv(&cfg.RabbitMQURL, "RABBITMQ_URL")
	overrideEnv(&cfg.MQTTBroker, "MQTT_BROKER")
	overrideEnv(&cfg.MQTTClientID, "MQTT_CLIENT_ID")

	return cfg, nil
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
