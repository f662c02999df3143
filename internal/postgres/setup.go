package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Postgres is a wrapper around gorm.DB providing health checks and
// standardized shutdown.
type Postgres struct {
	cfg Config
	db  *gorm.DB
}

// NewPostgres establishes the database connection and configures the
// connection pool.
//
// Returns the concrete *Postgres type (accept interfaces, return structs).
func NewPostgres(cfg Config) (*Postgres, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := connectToPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	return &Postgres{cfg: cfg, db: conn}, nil
}

// connectToPostgres opens the connection with GORM and configures the pool
// with appropriate parameters for performance.
func connectToPostgres(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Connection.Host,
		cfg.Connection.Port,
		cfg.Connection.User,
		cfg.Connection.Password,
		cfg.Connection.DbName,
		cfg.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(dsn),
		&gorm.Config{
			TranslateError: true,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	instance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	// If pool fields are not set (zero), apply package defaults.
	maxOpen := cfg.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := cfg.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := cfg.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 1 * time.Minute
	}

	instance.SetMaxOpenConns(maxOpen)
	instance.SetMaxIdleConns(maxIdle)
	instance.SetConnMaxLifetime(maxLifetime)

	return database, nil
}

// DB returns the underlying GORM handle.
func (p *Postgres) DB() *gorm.DB {
	return p.db
}

// HealthCheck pings the database with a 5 second timeout.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	instance, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := instance.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}

// GracefulShutdown closes the underlying connection pool.
func (p *Postgres) GracefulShutdown() error {
	instance, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during shutdown: %w", err)
	}
	return instance.Close()
}
