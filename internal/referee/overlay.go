package referee

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"starmap-service/internal/domain"
)

// Overlay carries the referee-only layer of a campaign: hexes concealed
// from the player view and per-hex referee notes. A nil or empty overlay
// conceals nothing.
type Overlay struct {
	sector    string
	concealed map[domain.Hex]bool
	notes     map[domain.Hex]string
}

type yamlOverlay struct {
	// Sector the overlay applies to; empty applies everywhere.
	Sector    string            `yaml:"sector"`
	Concealed []string          `yaml:"concealed"`
	Notes     map[string]string `yaml:"notes"`
}

// LoadOverlay reads an overlay file. An empty path or a missing file
// yields an empty overlay; a file that exists must parse.
func LoadOverlay(path string) (*Overlay, error) {
	if path == "" {
		return &Overlay{}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overlay{}, nil
		}
		return nil, fmt.Errorf("load referee overlay: %w", err)
	}

	var y yamlOverlay
	if err := yaml.Unmarshal(b, &y); err != nil {
		return nil, fmt.Errorf("load referee overlay %s: %w", path, err)
	}

	o := &Overlay{
		sector:    strings.TrimSpace(y.Sector),
		concealed: make(map[domain.Hex]bool, len(y.Concealed)),
		notes:     make(map[domain.Hex]string, len(y.Notes)),
	}

	for _, s := range y.Concealed {
		h, err := domain.ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("load referee overlay %s: concealed entry %q: %w", path, s, err)
		}
		o.concealed[h] = true
	}

	for s, note := range y.Notes {
		h, err := domain.ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("load referee overlay %s: note key %q: %w", path, s, err)
		}
		o.notes[h] = note
	}

	return o, nil
}

func (o *Overlay) matches(sector string) bool {
	return o.sector == "" || strings.EqualFold(o.sector, sector)
}

// Conceals reports whether the hex is hidden from players.
func (o *Overlay) Conceals(sector string, h domain.Hex) bool {
	if o == nil || !o.matches(sector) {
		return false
	}
	return o.concealed[h]
}

// Note returns the referee note for a hex, or "".
func (o *Overlay) Note(sector string, h domain.Hex) string {
	if o == nil || !o.matches(sector) {
		return ""
	}
	return o.notes[h]
}

// FilterWorlds returns the publicly visible subset of worlds.
func (o *Overlay) FilterWorlds(sector string, worlds []*domain.World) []*domain.World {
	if o == nil || !o.matches(sector) || len(o.concealed) == 0 {
		return worlds
	}

	out := make([]*domain.World, 0, len(worlds))
	for _, w := range worlds {
		if o.concealed[w.Hex] {
			continue
		}
		out = append(out, w)
	}
	return out
}
