package postgres

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection contains the settings needed to reach the server.
type Connection struct {
	Host     string
	Port     string
	User     string
	Password string
	DbName   string
	SSLMode  string
}

// ConnectionDetails tunes the sql.DB connection pool.
type ConnectionDetails struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConfig reads from environment variables.
//
//	POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//	POSTGRES_DB, POSTGRES_SSLMODE, POSTGRES_MAX_OPEN_CONNS,
//	POSTGRES_MAX_IDLE_CONNS
func NewConfig() Config {
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}

	sslMode := os.Getenv("POSTGRES_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return Config{
		Connection: Connection{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     port,
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DbName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  sslMode,
		},
		ConnectionDetails: ConnectionDetails{
			MaxOpenConns: envInt("POSTGRES_MAX_OPEN_CONNS", 0),
			MaxIdleConns: envInt("POSTGRES_MAX_IDLE_CONNS", 0),
		},
	}
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("postgres: missing POSTGRES_HOST")
	}
	if c.Connection.User == "" {
		return fmt.Errorf("postgres: missing POSTGRES_USER")
	}
	if c.Connection.DbName == "" {
		return fmt.Errorf("postgres: missing POSTGRES_DB")
	}
	return nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
