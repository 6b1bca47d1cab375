package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"starmap-service/internal/domain"
	"starmap-service/internal/platform/obs"
	"starmap-service/internal/ports"
)

// SQLRouteCache is a Postgres-backed cache for computed route plans, for
// deployments where several instances share one cache.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// EnsureSchema creates the route_cache table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("route cache: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		plan_json TEXT NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("route cache: ensure schema: %w", err)
	}
	return nil
}

// Prune deletes cache entries computed before the cutoff and reports how
// many rows went. Plans are recomputed on the next miss, so pruning is
// always safe.
func Prune(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("route cache: db is nil")
	}

	res, err := db.ExecContext(ctx, `DELETE FROM route_cache WHERE computed_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("route cache: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("route cache: prune: %w", err)
	}
	return n, nil
}

// Fetch a cached plan. A missing row is a miss, not an error.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	key ports.RouteCacheKey,
) (_ *domain.RoutePlan, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	query := `SELECT plan_json FROM route_cache WHERE cache_key = $1;`

	var raw string
	err = s.DB.QueryRowContext(ctx, query, key.String()).Scan(&raw)
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
func (s *SQLRouteCache) Put(
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
	INSERT INTO route_cache (cache_key, plan_json, computed_at)
	VALUES ($1, $2, now())
	ON CONFLICT (cache_key) DO UPDATE
	SET plan_json = EXCLUDED.plan_json,
		computed_at = EXCLUDED.computed_at;
	`
	if _, err := s.DB.ExecContext(ctx, query, key.String(), string(raw)); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key.String(), err)
	}

	return nil
}
