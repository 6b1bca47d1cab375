package services

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"sort"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

type PlotRouteRequest struct {
	Sector string
	From   domain.Hex
	To     domain.Hex
	// Maximum parsecs per jump, 1 through 6.
	Jump          int
	AvoidRedZones bool
	RequireFuel   bool
	// Allow hidden worlds as waypoints. Plans computed with hidden worlds
	// are never written to the route cache.
	IncludeHidden bool
}

// Plot a jump route between two worlds of a sector.
//
// The route minimizes jump count first, total parsecs second, and among
// remaining ties picks the lexicographically smallest hex sequence, so
// identical requests always produce identical plans. cache may be nil.
func PlotRoute(
	ctx context.Context,
	req PlotRouteRequest,
	repo ports.WorldRepository,
	cache ports.RouteCache,
) (*domain.RoutePlan, error) {
	if req.Jump < 1 || req.Jump > 6 {
		return nil, fmt.Errorf("plot route: jump rating %d outside 1..6", req.Jump)
	}
	if !req.From.Valid() {
		return nil, fmt.Errorf("plot route: origin %s: %w", req.From, domain.ErrInvalidHex)
	}
	if !req.To.Valid() {
		return nil, fmt.Errorf("plot route: destination %s: %w", req.To, domain.ErrInvalidHex)
	}

	sector, err := repo.GetSector(ctx, req.Sector)
	if err != nil {
		return nil, fmt.Errorf("plot route: sector %q: %w", req.Sector, err)
	}

	key := ports.RouteCacheKey{
		Sector:        sector.Name,
		From:          req.From,
		To:            req.To,
		Jump:          req.Jump,
		AvoidRedZones: req.AvoidRedZones,
		RequireFuel:   req.RequireFuel,
	}

	cacheable := cache != nil && !req.IncludeHidden
	if cacheable {
		if plan, ok, err := cache.Get(ctx, key); err != nil {
			log.Printf("route cache read failed key=%q err=%v", key, err)
		} else if ok {
			return plan, nil
		}
	}

	worlds, err := repo.ListWorlds(ctx, sector.Name, ports.WorldFilter{IncludeHidden: req.IncludeHidden})
	if err != nil {
		return nil, fmt.Errorf("plot route: list worlds of %q: %w", sector.Name, err)
	}

	byHex := make(map[domain.Hex]*domain.World, len(worlds))
	for _, w := range worlds {
		byHex[w.Hex] = w
	}

	if _, ok := byHex[req.From]; !ok {
		return nil, fmt.Errorf("plot route: origin %s in %q: %w", req.From, sector.Name, domain.ErrWorldNotFound)
	}
	if _, ok := byHex[req.To]; !ok {
		return nil, fmt.Errorf("plot route: destination %s in %q: %w", req.To, sector.Name, domain.ErrWorldNotFound)
	}

	path, err := shortestJumpPath(ctx, req, worlds, byHex)
	if err != nil {
		return nil, err
	}

	plan := buildPlan(sector.Name, req.Jump, path, byHex)

	if cacheable {
		if err := cache.Put(ctx, key, plan); err != nil {
			log.Printf("route cache write failed key=%q err=%v", key, err)
		}
	}

	return plan, nil
}

// A candidate path under consideration, ordered by (jumps, parsecs, hex
// sequence). The last element of hexes is the frontier world.
type pathEntry struct {
	jumps   int
	parsecs int
	hexes   []domain.Hex
}

func lessEntry(a, b *pathEntry) bool {
	if a.jumps != b.jumps {
		return a.jumps < b.jumps
	}
	if a.parsecs != b.parsecs {
		return a.parsecs < b.parsecs
	}
	n := len(a.hexes)
	if len(b.hexes) < n {
		n = len(b.hexes)
	}
	for i := 0; i < n; i++ {
		if a.hexes[i] != b.hexes[i] {
			return a.hexes[i].String() < b.hexes[i].String()
		}
	}
	return len(a.hexes) < len(b.hexes)
}

type pathQueue []*pathEntry

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return lessEntry(q[i], q[j]) }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(*pathEntry)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Uniform-cost search over the jump graph. Every edge costs one jump, so
// the first settled entry for a hex carries the minimal (jumps, parsecs,
// path) triple for it.
func shortestJumpPath(
	ctx context.Context,
	req PlotRouteRequest,
	worlds []*domain.World,
	byHex map[domain.Hex]*domain.World,
) ([]domain.Hex, error) {
	if req.From == req.To {
		return []domain.Hex{req.From}, nil
	}

	sorted := make([]*domain.World, len(worlds))
	copy(sorted, worlds)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Hex.String() < sorted[j].Hex.String()
	})

	// The destination is exempt from the refuelling requirement: a ship can
	// always arrive, it just cannot jump onward without fuel.
	admissible := func(w *domain.World) bool {
		if req.AvoidRedZones && w.Zone == domain.ZoneRed {
			return false
		}
		if req.RequireFuel && w.Hex != req.To && !w.CanRefuel(true) {
			return false
		}
		return true
	}

	settled := make(map[domain.Hex]bool, len(worlds))
	q := &pathQueue{{jumps: 0, parsecs: 0, hexes: []domain.Hex{req.From}}}
	heap.Init(q)

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plot route: %w", err)
		}

		cur := heap.Pop(q).(*pathEntry)
		at := cur.hexes[len(cur.hexes)-1]
		if settled[at] {
			continue
		}
		settled[at] = true

		if at == req.To {
			return cur.hexes, nil
		}

		for _, w := range sorted {
			if settled[w.Hex] {
				continue
			}
			d := domain.Distance(at, w.Hex)
			if d == 0 || d > req.Jump {
				continue
			}
			if !admissible(w) {
				continue
			}

			next := make([]domain.Hex, len(cur.hexes), len(cur.hexes)+1)
			copy(next, cur.hexes)
			next = append(next, w.Hex)
			heap.Push(q, &pathEntry{
				jumps:   cur.jumps + 1,
				parsecs: cur.parsecs + d,
				hexes:   next,
			})
		}
	}

	return nil, fmt.Errorf("plot route: %s to %s at jump-%d: %w", req.From, req.To, req.Jump, domain.ErrNoRoute)
}

func buildPlan(sector string, jump int, path []domain.Hex, byHex map[domain.Hex]*domain.World) *domain.RoutePlan {
	plan := &domain.RoutePlan{
		Sector: sector,
		Jump:   jump,
		Legs:   []domain.RouteLeg{},
	}

	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		leg := domain.RouteLeg{
			From:     from,
			To:       to,
			FromName: byHex[from].Name,
			ToName:   byHex[to].Name,
			Parsecs:  domain.Distance(from, to),
		}
		plan.Legs = append(plan.Legs, leg)
		plan.TotalJumps++
		plan.TotalParsecs += leg.Parsecs
	}

	return plan
}
