package secfile

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

// Metadata is the TOML companion file of a world listing. Only the name
// is required; everything else has sane zero values.
type Metadata struct {
	Name         string      `toml:"name"`
	Abbreviation string      `toml:"abbreviation"`
	X            int         `toml:"x"`
	Y            int         `toml:"y"`
	Subsectors   []string    `toml:"subsectors"`
	Hidden       []string    `toml:"hidden"`
	Routes       []tomlRoute `toml:"routes"`
}

type tomlRoute struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// LoadMetadata decodes a sector metadata file.
func LoadMetadata(path string) (*Metadata, error) {
	var m Metadata
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("load sector metadata %s: %w", path, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("load sector metadata %s: name must be non-empty", path)
	}
	if len(m.Subsectors) > domain.SubsectorCount {
		return nil, fmt.Errorf("load sector metadata %s: %d subsector names, at most %d allowed",
			path, len(m.Subsectors), domain.SubsectorCount)
	}
	return &m, nil
}

// BuildSectorData combines parsed worlds with their metadata into one
// importable unit. Hexes listed under hidden are flagged on the matching
// worlds; a hidden hex without a world conceals nothing and is ignored.
func BuildSectorData(meta *Metadata, worlds []*domain.World) (*ports.SectorData, error) {
	if meta == nil || meta.Name == "" {
		return nil, fmt.Errorf("build sector: metadata with a sector name is required")
	}

	sector := &domain.Sector{
		Name:         meta.Name,
		Abbreviation: meta.Abbreviation,
		X:            meta.X,
		Y:            meta.Y,
	}
	copy(sector.Subsectors[:], meta.Subsectors)

	hidden := make(map[domain.Hex]bool, len(meta.Hidden))
	for _, s := range meta.Hidden {
		h, err := domain.ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("build sector %q: hidden entry %q: %w", meta.Name, s, err)
		}
		hidden[h] = true
	}

	out := make([]*domain.World, len(worlds))
	for i, w := range worlds {
		cp := *w
		if hidden[cp.Hex] {
			cp.Hidden = true
		}
		out[i] = &cp
	}

	routes := make([]domain.XBoatRoute, 0, len(meta.Routes))
	for _, r := range meta.Routes {
		from, err := domain.ParseHex(r.From)
		if err != nil {
			return nil, fmt.Errorf("build sector %q: route from %q: %w", meta.Name, r.From, err)
		}
		to, err := domain.ParseHex(r.To)
		if err != nil {
			return nil, fmt.Errorf("build sector %q: route to %q: %w", meta.Name, r.To, err)
		}
		routes = append(routes, domain.XBoatRoute{From: from, To: to})
	}

	return &ports.SectorData{Sector: sector, Worlds: out, Routes: routes}, nil
}
