package ports

import (
	"context"

	"starmap-service/internal/domain"
)

// Filter for world listings. The zero value selects every player-visible
// world in the sector.
type WorldFilter struct {
	// Restrict results to one subsector, 'A' through 'P'. Zero means all.
	Subsector byte
	// Include worlds hidden from the player view.
	IncludeHidden bool
}

// Search criteria for worlds within one sector. Name matches are
// case-insensitive substring matches. Empty criteria match everything.
type WorldQuery struct {
	Name     string
	Starport string
	// "G", "A" or "R"; empty means any zone.
	Zone            string
	RequireGasGiant bool
	IncludeHidden   bool
}

// Port: a boundary for reading sector and world data.
type WorldRepository interface {
	// Return all known sectors, ordered by name.
	ListSectors(ctx context.Context) ([]*domain.Sector, error)
	// Look up one sector by name or abbreviation.
	GetSector(ctx context.Context, name string) (*domain.Sector, error)
	// Return the worlds of a sector, ordered by hex.
	ListWorlds(ctx context.Context, sector string, filter WorldFilter) ([]*domain.World, error)
	// Return the world occupying one hex.
	GetWorld(ctx context.Context, sector string, hex domain.Hex, includeHidden bool) (*domain.World, error)
	// Return worlds no further than radius parsecs from center, the center
	// hex included. Implementations may overshoot (bounding-box prefilter);
	// callers apply exact distance checks.
	WorldsInRange(ctx context.Context, sector string, center domain.Hex, radius int, includeHidden bool) ([]*domain.World, error)
	// Match worlds in a sector against structured criteria, ordered by hex.
	SearchWorlds(ctx context.Context, sector string, query WorldQuery) ([]*domain.World, error)
	// Return the communication route segments of a sector. Segments that
	// touch a hidden world are withheld unless includeHidden is set.
	ListXBoatRoutes(ctx context.Context, sector string, includeHidden bool) ([]domain.XBoatRoute, error)
}
