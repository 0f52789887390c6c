package config

import (
	"fmt"
	"strings"
	"time"

	"client_api_backend/pkg/utils"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultPort            = "8080"
	defaultDriver          = DriverSQLite
	defaultSQLitePath      = "client_db.sqlite"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultPostgresConns   = 25
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	DSN          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	SchemaPath   string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            utils.Getenv("PORT", defaultPort),
			ReadTimeout:     utils.GetenvDuration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    utils.GetenvDuration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			ShutdownTimeout: utils.GetenvDuration("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(utils.Getenv("DB_DRIVER", defaultDriver)),
			DSN:        utils.Getenv("DB_DSN", ""),
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "client_api_user"),
			Password:   utils.Getenv("DB_PASSWORD", ""),
			Name:       utils.Getenv("DB_NAME", "client_api_db"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		Log: LogConfig{
			Level:  utils.Getenv("LOG_LEVEL", "info"),
			Pretty: utils.GetenvBool("LOG_PRETTY", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	switch cfg.Database.Driver {
	case DriverSQLite:
		if cfg.Database.DSN == "" {
			cfg.Database.DSN = defaultSQLitePath
		}
		cfg.Database.MaxOpenConns = 1
	case DriverPostgres:
		if cfg.Database.DSN == "" {
			cfg.Database.DSN = cfg.Database.postgresDSN()
		}
		cfg.Database.MaxOpenConns = utils.GetenvInt("DB_MAX_OPEN_CONNS", defaultPostgresConns)
	default:
		return nil, fmt.Errorf("invalid configuration: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	if cfg.Database.MaxOpenConns < 1 {
		return nil, fmt.Errorf("invalid configuration: DB_MAX_OPEN_CONNS must be positive")
	}
	return cfg, nil
}

func (d DatabaseConfig) postgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
