package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

type sectorEntry struct {
	sector *domain.Sector
	worlds []*domain.World
	routes []domain.XBoatRoute
}

// Store keeps whole sectors in memory. It implements both
// ports.WorldRepository and ports.SectorWriter, which makes it the
// backing store for tests and for viewing a sector file without a
// database. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []*sectorEntry
}

func New() *Store {
	return &Store{}
}

// Load is a convenience wrapper for seeding a store in one call.
func Load(data ...*ports.SectorData) (*Store, error) {
	s := New()
	for _, d := range data {
		if err := s.ReplaceSector(context.Background(), d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) ReplaceSector(ctx context.Context, data *ports.SectorData) error {
	if data == nil || data.Sector == nil {
		return fmt.Errorf("memrepo: replace sector: no sector data")
	}
	if data.Sector.Name == "" {
		return fmt.Errorf("memrepo: replace sector: name must be non-empty")
	}

	sec := *data.Sector
	worlds := make([]*domain.World, len(data.Worlds))
	for i, w := range data.Worlds {
		cp := *w
		worlds[i] = &cp
	}
	sort.Slice(worlds, func(i, j int) bool {
		return worlds[i].Hex.String() < worlds[j].Hex.String()
	})
	routes := make([]domain.XBoatRoute, len(data.Routes))
	copy(routes, data.Routes)

	entry := &sectorEntry{sector: &sec, worlds: worlds, routes: routes}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if strings.EqualFold(e.sector.Name, sec.Name) {
			s.entries[i] = entry
			return nil
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) ListSectors(ctx context.Context) ([]*domain.Sector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Sector, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e.sector
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetSector(ctx context.Context, name string) (*domain.Sector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	cp := *e.sector
	return &cp, nil
}

func (s *Store) ListWorlds(ctx context.Context, sector string, filter ports.WorldFilter) ([]*domain.World, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup(sector)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.World, 0, len(e.worlds))
	for _, w := range e.worlds {
		if w.Hidden && !filter.IncludeHidden {
			continue
		}
		if filter.Subsector != 0 && w.Hex.SubsectorIndex() != filter.Subsector {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) GetWorld(ctx context.Context, sector string, hex domain.Hex, includeHidden bool) (*domain.World, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup(sector)
	if err != nil {
		return nil, err
	}

	for _, w := range e.worlds {
		if w.Hex != hex {
			continue
		}
		if w.Hidden && !includeHidden {
			break
		}
		return w, nil
	}
	return nil, fmt.Errorf("memrepo: world %s in %q: %w", hex, sector, domain.ErrWorldNotFound)
}

func (s *Store) WorldsInRange(ctx context.Context, sector string, center domain.Hex, radius int, includeHidden bool) ([]*domain.World, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup(sector)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.World, 0, 8)
	for _, w := range e.worlds {
		if w.Hidden && !includeHidden {
			continue
		}
		if domain.Distance(center, w.Hex) > radius {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) SearchWorlds(ctx context.Context, sector string, query ports.WorldQuery) ([]*domain.World, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup(sector)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(query.Name)

	out := make([]*domain.World, 0, len(e.worlds))
	for _, w := range e.worlds {
		if w.Hidden && !query.IncludeHidden {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(w.Name), name) {
			continue
		}
		if query.Starport != "" && string(w.UWP.Starport) != query.Starport {
			continue
		}
		if query.Zone != "" && !zoneMatches(query.Zone, w.Zone) {
			continue
		}
		if query.RequireGasGiant && !w.HasGasGiant() {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) ListXBoatRoutes(ctx context.Context, sector string, includeHidden bool) ([]domain.XBoatRoute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.lookup(sector)
	if err != nil {
		return nil, err
	}

	hidden := make(map[domain.Hex]bool)
	if !includeHidden {
		for _, w := range e.worlds {
			if w.Hidden {
				hidden[w.Hex] = true
			}
		}
	}

	out := make([]domain.XBoatRoute, 0, len(e.routes))
	for _, r := range e.routes {
		if hidden[r.From] || hidden[r.To] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// lookup matches by sector name or abbreviation; callers hold the lock.
func (s *Store) lookup(name string) (*sectorEntry, error) {
	if name != "" {
		for _, e := range s.entries {
			if strings.EqualFold(e.sector.Name, name) || strings.EqualFold(e.sector.Abbreviation, name) {
				return e, nil
			}
		}
	}
	return nil, fmt.Errorf("memrepo: sector %q: %w", name, domain.ErrSectorNotFound)
}

// zoneMatches maps the query token to the stored zone, where green is the
// zero value.
func zoneMatches(token string, zone domain.TravelZone) bool {
	if token == "G" {
		return zone == domain.ZoneGreen
	}
	return string(zone) == token
}
