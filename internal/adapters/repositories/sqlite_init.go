package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSectorsQuery := `
	CREATE TABLE IF NOT EXISTS sectors (
		name TEXT PRIMARY KEY,
		abbreviation TEXT NOT NULL DEFAULT '',
		x INTEGER NOT NULL DEFAULT 0,
		y INTEGER NOT NULL DEFAULT 0
	);
	`

	createSubsectorNamesQuery := `
	CREATE TABLE IF NOT EXISTS subsector_names (
		sector TEXT NOT NULL,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (sector, idx)
	);
	`

	createWorldsQuery := `
	CREATE TABLE IF NOT EXISTS worlds (
		sector TEXT NOT NULL,
		hex TEXT NOT NULL,
		hex_col INTEGER NOT NULL,
		hex_row INTEGER NOT NULL,
		name TEXT NOT NULL,
		uwp TEXT NOT NULL,
		bases TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT '',
		zone TEXT NOT NULL DEFAULT '',
		pbg TEXT NOT NULL DEFAULT '',
		allegiance TEXT NOT NULL DEFAULT '',
		stellar TEXT NOT NULL DEFAULT '',
		hidden INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (sector, hex)
	);
	`

	createXBoatRoutesQuery := `
	CREATE TABLE IF NOT EXISTS xboat_routes (
		sector TEXT NOT NULL,
		from_hex TEXT NOT NULL,
		to_hex TEXT NOT NULL,
		PRIMARY KEY (sector, from_hex, to_hex)
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		plan_json TEXT NOT NULL,
		computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_worlds_sector_col_row
	ON worlds(sector, hex_col, hex_row);
	`

	statements := []string{
		createSectorsQuery,
		createSubsectorNamesQuery,
		createWorldsQuery,
		createXBoatRoutesQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
