package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/peterso/event-sourced-ledger/pkg/logger"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging logger.Config `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Backend selects the event log implementation: "memory" or "postgres".
	Backend string `yaml:"backend"`
	// DSN is the postgres connection string; the LEDGER_DB_DSN env var
	// overrides it so credentials can stay out of the yaml file.
	DSN string `yaml:"dsn"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
}

func Load(path string) (*Config, error) {
	// A missing .env file is fine; env vars may come from the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	if dsn := os.Getenv("LEDGER_DB_DSN"); dsn != "" {
		config.Storage.DSN = dsn
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = "memory"
	}
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	return &config, nil
}
