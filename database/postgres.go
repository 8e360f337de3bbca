package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"salesdash/api/logger"
)

const pingTimeout = 5 * time.Second

// DBClient wraps a database/sql pool for PostgreSQL or MySQL.
type DBClient struct {
	DB     *sql.DB
	Driver string
}

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// NewPostgresDB opens the pool holding users and, optionally, order lines.
func NewPostgresDB(dbURL string) (*DBClient, error) {
	return openSQL("postgres", dbURL, poolSettings{maxOpen: 25, maxIdle: 5, maxLifetime: 5 * time.Minute})
}

func openSQL(driver, dsn string, pool poolSettings) (*DBClient, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening %s connection: %w", driver, err)
	}
	db.SetMaxOpenConns(pool.maxOpen)
	db.SetMaxIdleConns(pool.maxIdle)
	db.SetConnMaxLifetime(pool.maxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s (ping failed): %w", driver, err)
	}

	logger.Info("Connected to SQL database", zap.String("driver", driver), zap.Int("max_open_conns", pool.maxOpen))
	return &DBClient{DB: db, Driver: driver}, nil
}

func (c *DBClient) Close() {
	if c.DB == nil {
		return
	}
	if err := c.DB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.String("driver", c.Driver), zap.Error(err))
		return
	}
	logger.Info("Database connection closed", zap.String("driver", c.Driver))
}
