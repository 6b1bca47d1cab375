package services

import (
	"context"
	"fmt"
	"sort"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

type JumpMapRequest struct {
	Sector string
	Center domain.Hex
	// Ring radius in parsecs, 1 through 6.
	Range         int
	IncludeHidden bool
}

// A world annotated with its distance from the jump-map center.
type RangedWorld struct {
	World   *domain.World
	Parsecs int
}

// Collect the worlds reachable from a hex within the given jump range,
// sorted by distance then hex. The center hex itself need not hold a
// world; when it does, it appears first with distance zero.
func JumpNeighbors(
	ctx context.Context,
	req JumpMapRequest,
	repo ports.WorldRepository,
) ([]RangedWorld, error) {
	if req.Range < 1 || req.Range > 6 {
		return nil, fmt.Errorf("jump map: range %d outside 1..6", req.Range)
	}
	if !req.Center.Valid() {
		return nil, fmt.Errorf("jump map: center %s: %w", req.Center, domain.ErrInvalidHex)
	}

	sector, err := repo.GetSector(ctx, req.Sector)
	if err != nil {
		return nil, fmt.Errorf("jump map: sector %q: %w", req.Sector, err)
	}

	worlds, err := repo.WorldsInRange(ctx, sector.Name, req.Center, req.Range, req.IncludeHidden)
	if err != nil {
		return nil, fmt.Errorf("jump map: worlds around %s in %q: %w", req.Center, sector.Name, err)
	}

	// Repositories may overshoot with a bounding-box prefilter; keep only
	// exact hexagonal distance hits.
	out := make([]RangedWorld, 0, len(worlds))
	for _, w := range worlds {
		d := domain.Distance(req.Center, w.Hex)
		if d > req.Range {
			continue
		}
		out = append(out, RangedWorld{World: w, Parsecs: d})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Parsecs != out[j].Parsecs {
			return out[i].Parsecs < out[j].Parsecs
		}
		return out[i].World.Hex.String() < out[j].World.Hex.String()
	})

	return out, nil
}
