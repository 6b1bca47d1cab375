// Package db opens the shared Postgres handle for deployments that point
// DATABASE_URL at a managed instance. Local setups stay on SQLite and
// never touch this path.
package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects through the pgx stdlib driver and verifies the
// connection before handing it out. Pool sizing suits the route-cache
// workload: short statements, bursty reads around popular routes.
func Open(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pool.SetMaxOpenConns(8)
	pool.SetMaxIdleConns(4)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("open postgres: verify connection: %w", err)
	}

	return pool, nil
}
