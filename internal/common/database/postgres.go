// Package database holds the thin infrastructure clients: PostgreSQL,
// Redis and Elasticsearch. Everything above this layer talks to interfaces.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"notifyhub/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the pooled SQL database connection.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the connection pool described by cfg.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection.
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the connection pool.
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
