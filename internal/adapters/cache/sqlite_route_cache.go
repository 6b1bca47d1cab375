package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

// SQLite backed cache for computed route plans. Rows live in the route_cache
// table created by the repository schema, so a single database file serves
// both worlds and cache.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Fetch a cached plan. A missing row is a miss, not an error.
func (s *SqliteRouteCache) Get(
	ctx context.Context,
	key ports.RouteCacheKey,
) (*domain.RoutePlan, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	query := `SELECT plan_json FROM route_cache WHERE cache_key = ?;`

	var raw string
	err := s.DB.QueryRowContext(ctx, query, key.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var plan domain.RoutePlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode plan: %w", err)
	}

	return &plan, true, nil
}

// Store a computed plan, replacing any previous entry for the key.
func (s *SqliteRouteCache) Put(
	ctx context.Context,
	key ports.RouteCacheKey,
	plan *domain.RoutePlan,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if plan == nil {
		return errors.New("insert route cache: nil plan")
	}

	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("insert route cache: encode plan: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO route_cache (cache_key, plan_json, computed_at)
	VALUES (?, ?, CURRENT_TIMESTAMP);
	`
	if _, err := s.DB.ExecContext(ctx, query, key.String(), string(raw)); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key.String(), err)
	}

	return nil
}
