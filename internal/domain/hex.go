package domain

import (
	"fmt"
	"sort"
)

// Sector grid dimensions in hexes.
const (
	SectorWidth  = 32
	SectorHeight = 40
)

// Hex is a 1-based column/row coordinate within a sector.
// The canonical text form is four digits "CCRR" ("0101" is the top-left hex).
// Even-numbered columns sit half a hex lower than odd columns, so adjacency
// depends on column parity.
type Hex struct {
	Col int
	Row int
}

// ParseHex parses the strict 4-digit "CCRR" form.
func ParseHex(s string) (Hex, error) {
	if len(s) != 4 {
		return Hex{}, fmt.Errorf("parse hex %q: want 4 digits: %w", s, ErrInvalidHex)
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return Hex{}, fmt.Errorf("parse hex %q: want 4 digits: %w", s, ErrInvalidHex)
		}
	}

	col := int(s[0]-'0')*10 + int(s[1]-'0')
	row := int(s[2]-'0')*10 + int(s[3]-'0')

	h := Hex{Col: col, Row: row}
	if !h.Valid() {
		return Hex{}, fmt.Errorf("parse hex %q: out of sector bounds: %w", s, ErrInvalidHex)
	}
	return h, nil
}

// Valid reports whether the hex lies inside the sector grid.
func (h Hex) Valid() bool {
	return h.Col >= 1 && h.Col <= SectorWidth && h.Row >= 1 && h.Row <= SectorHeight
}

// String returns the canonical zero-padded "CCRR" form.
func (h Hex) String() string {
	return fmt.Sprintf("%02d%02d", h.Col, h.Row)
}

// SubsectorIndex returns the letter 'A'..'P' of the 8x10 subsector containing
// the hex, row-major from the top-left.
func (h Hex) SubsectorIndex() byte {
	return byte('A' + (h.Row-1)/10*4 + (h.Col-1)/8)
}

// cube converts the offset coordinate to cube coordinates so that distance
// reduces to a component-wise maximum. Even display columns are the ones
// shifted down on the map.
func (h Hex) cube() (x, y, z int) {
	col := h.Col - 1
	row := h.Row - 1
	x = col
	z = row - (col-(col&1))/2
	y = -x - z
	return x, y, z
}

// Distance returns the hex distance between two coordinates in parsecs.
func Distance(a, b Hex) int {
	ax, ay, az := a.cube()
	bx, by, bz := b.cube()

	dx := abs(ax - bx)
	dy := abs(ay - by)
	dz := abs(az - bz)

	max := dx
	if dy > max {
		max = dy
	}
	if dz > max {
		max = dz
	}
	return max
}

// Neighbors returns the in-sector hexes adjacent to h, ordered by column
// then row.
func (h Hex) Neighbors() []Hex {
	out := make([]Hex, 0, 6)
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			n := Hex{Col: h.Col + dc, Row: h.Row + dr}
			if !n.Valid() {
				continue
			}
			if Distance(h, n) == 1 {
				out = append(out, n)
			}
		}
	}
	return out
}

// HexesWithin returns all in-sector hexes with 1 <= distance <= radius from
// center, sorted by (distance, col, row). The center itself is excluded.
func HexesWithin(center Hex, radius int) []Hex {
	if radius < 1 {
		return nil
	}

	out := make([]Hex, 0, 3*radius*(radius+1))
	for col := center.Col - radius; col <= center.Col+radius; col++ {
		for row := center.Row - radius; row <= center.Row+radius; row++ {
			n := Hex{Col: col, Row: row}
			if !n.Valid() {
				continue
			}
			d := Distance(center, n)
			if d >= 1 && d <= radius {
				out = append(out, n)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		di := Distance(center, out[i])
		dj := Distance(center, out[j])
		if di != dj {
			return di < dj
		}
		if out[i].Col != out[j].Col {
			return out[i].Col < out[j].Col
		}
		return out[i].Row < out[j].Row
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
