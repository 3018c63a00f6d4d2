package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Deploy   DeployConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type DeployConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	Timeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", 5432)
	v.SetDefault("PG_DATABASE", "herd")
	v.SetDefault("PG_USER", "herd")
	v.SetDefault("PG_PASSWORD", "")
	v.SetDefault("PG_SSLMODE", "disable")
	v.SetDefault("PG_MAX_OPEN_CONNS", 10)
	v.SetDefault("PG_MAX_IDLE_CONNS", 2)
	v.SetDefault("PG_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DEPLOY_ENABLED", false)
	v.SetDefault("DEPLOY_BROKERS", "localhost:9092")
	v.SetDefault("DEPLOY_TOPIC", "herd-deploys")
	v.SetDefault("DEPLOY_TIMEOUT", "10s")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	connMaxLifetime, err := time.ParseDuration(v.GetString("PG_CONN_MAX_LIFETIME"))
	if err != nil {
		connMaxLifetime = 30 * time.Minute
	}
	deployTimeout, err := time.ParseDuration(v.GetString("DEPLOY_TIMEOUT"))
	if err != nil {
		deployTimeout = 10 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("PG_HOST"),
			Port:            v.GetInt("PG_PORT"),
			Database:        v.GetString("PG_DATABASE"),
			User:            v.GetString("PG_USER"),
			Password:        v.GetString("PG_PASSWORD"),
			SSLMode:         v.GetString("PG_SSLMODE"),
			MaxOpenConns:    v.GetInt("PG_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("PG_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Deploy: DeployConfig{
			Enabled: v.GetBool("DEPLOY_ENABLED"),
			Brokers: splitBrokers(v.GetString("DEPLOY_BROKERS")),
			Topic:   v.GetString("DEPLOY_TOPIC"),
			Timeout: deployTimeout,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
