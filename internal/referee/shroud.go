package referee

import (
	"context"
	"fmt"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

// shroudedRepository wraps a repository so overlay-concealed worlds drop out
// of every public read, route planning included. Referee reads pass through.
type shroudedRepository struct {
	repo    ports.WorldRepository
	overlay *Overlay
}

// Shrouded decorates repo with the overlay's concealment. Callers are
// expected to pass canonical sector names on reads, which the services do.
// With no overlay, or one concealing nothing, repo comes back unwrapped.
func Shrouded(repo ports.WorldRepository, o *Overlay) ports.WorldRepository {
	if o == nil || len(o.concealed) == 0 {
		return repo
	}
	return &shroudedRepository{repo: repo, overlay: o}
}

func (s *shroudedRepository) ListSectors(ctx context.Context) ([]*domain.Sector, error) {
	return s.repo.ListSectors(ctx)
}

func (s *shroudedRepository) GetSector(ctx context.Context, name string) (*domain.Sector, error) {
	return s.repo.GetSector(ctx, name)
}

func (s *shroudedRepository) ListWorlds(
	ctx context.Context,
	sector string,
	filter ports.WorldFilter,
) ([]*domain.World, error) {
	worlds, err := s.repo.ListWorlds(ctx, sector, filter)
	if err != nil || filter.IncludeHidden {
		return worlds, err
	}
	return s.overlay.FilterWorlds(sector, worlds), nil
}

func (s *shroudedRepository) GetWorld(
	ctx context.Context,
	sector string,
	hex domain.Hex,
	includeHidden bool,
) (*domain.World, error) {
	if !includeHidden && s.overlay.Conceals(sector, hex) {
		return nil, fmt.Errorf("world %s/%s: %w", sector, hex, domain.ErrWorldNotFound)
	}
	return s.repo.GetWorld(ctx, sector, hex, includeHidden)
}

func (s *shroudedRepository) WorldsInRange(
	ctx context.Context,
	sector string,
	center domain.Hex,
	radius int,
	includeHidden bool,
) ([]*domain.World, error) {
	worlds, err := s.repo.WorldsInRange(ctx, sector, center, radius, includeHidden)
	if err != nil || includeHidden {
		return worlds, err
	}
	return s.overlay.FilterWorlds(sector, worlds), nil
}

func (s *shroudedRepository) SearchWorlds(
	ctx context.Context,
	sector string,
	query ports.WorldQuery,
) ([]*domain.World, error) {
	worlds, err := s.repo.SearchWorlds(ctx, sector, query)
	if err != nil || query.IncludeHidden {
		return worlds, err
	}
	return s.overlay.FilterWorlds(sector, worlds), nil
}

func (s *shroudedRepository) ListXBoatRoutes(
	ctx context.Context,
	sector string,
	includeHidden bool,
) ([]domain.XBoatRoute, error) {
	routes, err := s.repo.ListXBoatRoutes(ctx, sector, includeHidden)
	if err != nil || includeHidden {
		return routes, err
	}

	out := make([]domain.XBoatRoute, 0, len(routes))
	for _, r := range routes {
		if s.overlay.Conceals(sector, r.From) || s.overlay.Conceals(sector, r.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
