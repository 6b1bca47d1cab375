package ports

import (
	"context"
	"fmt"

	"starmap-service/internal/domain"
)

// Identifies one cached jump plan. Every option that influences the
// plotted route is part of the key.
type RouteCacheKey struct {
	Sector        string
	From          domain.Hex
	To            domain.Hex
	Jump          int
	AvoidRedZones bool
	RequireFuel   bool
}

// Deterministic encoding used as the storage key.
func (k RouteCacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s|j%d|avoid=%t|fuel=%t",
		k.Sector, k.From, k.To, k.Jump, k.AvoidRedZones, k.RequireFuel)
}

// Port: a boundary for caching computed jump plans.
type RouteCache interface {
	// Return the cached plan for key, or ok=false when absent.
	Get(ctx context.Context, key RouteCacheKey) (*domain.RoutePlan, bool, error)
	// Store a computed plan under key, replacing any previous entry.
	Put(ctx context.Context, key RouteCacheKey, plan *domain.RoutePlan) error
}
