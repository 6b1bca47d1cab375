package domain

import (
	"fmt"
	"strings"
)

// TravelZone is the advisory travel classification for a world.
type TravelZone string

const (
	ZoneGreen TravelZone = ""
	ZoneAmber TravelZone = "A"
	ZoneRed   TravelZone = "R"
)

// ParseZone parses a travel zone code. Blank and "G" both mean green.
func ParseZone(s string) (TravelZone, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "G":
		return ZoneGreen, nil
	case "A":
		return ZoneAmber, nil
	case "R":
		return ZoneRed, nil
	default:
		return ZoneGreen, fmt.Errorf("parse zone %q: unrecognized code", s)
	}
}

// PBG holds the population multiplier digit, planetoid belt count, and gas
// giant count for a system.
type PBG struct {
	PopulationDigit int
	Belts           int
	GasGiants       int
}

// ParsePBG parses the 3-digit ehex PBG group.
func ParsePBG(s string) (PBG, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return PBG{}, fmt.Errorf("parse pbg %q: want 3 digits: %w", s, ErrInvalidUWP)
	}
	vals := make([]int, 3)
	for i := 0; i < 3; i++ {
		v, err := EhexValue(s[i])
		if err != nil {
			return PBG{}, fmt.Errorf("parse pbg %q: %w", s, err)
		}
		vals[i] = v
	}
	return PBG{PopulationDigit: vals[0], Belts: vals[1], GasGiants: vals[2]}, nil
}

// String returns the 3-digit ehex form.
func (p PBG) String() string {
	var b strings.Builder
	for _, v := range []int{p.PopulationDigit, p.Belts, p.GasGiants} {
		d, err := EhexDigit(v)
		if err != nil {
			d = '?'
		}
		b.WriteByte(d)
	}
	return b.String()
}

// World is a single mainworld entry on the sector map. Hidden worlds exist
// only in the referee view.
type World struct {
	Hex        Hex
	Name       string
	UWP        UWP
	Bases      string
	Remarks    string
	Zone       TravelZone
	PBG        PBG
	Allegiance string
	Stellar    string
	Hidden     bool
}

// HasGasGiant reports whether the system has at least one gas giant.
func (w *World) HasGasGiant() bool {
	return w.PBG.GasGiants > 0
}

// CanRefuel reports whether a ship can take on fuel at this world. Starports
// A-D sell fuel; with wilderness refueling a gas giant or open water works too.
func (w *World) CanRefuel(wilderness bool) bool {
	switch w.UWP.Starport {
	case 'A', 'B', 'C', 'D':
		return true
	}
	if wilderness {
		return w.HasGasGiant() || w.UWP.Hydrographics >= 1
	}
	return false
}

// TradeCodes returns the trade classifications derived from the UWP, sorted
// alphabetically. Codes are always computed, never stored.
func (w *World) TradeCodes() []string {
	u := w.UWP
	codes := make([]string, 0, 6)

	between := func(v, lo, hi int) bool { return v >= lo && v <= hi }
	oneOf := func(v int, set ...int) bool {
		for _, s := range set {
			if v == s {
				return true
			}
		}
		return false
	}

	if between(u.Atmosphere, 4, 9) && between(u.Hydrographics, 4, 8) && between(u.Population, 5, 7) {
		codes = append(codes, "Ag")
	}
	if u.Size == 0 && u.Atmosphere == 0 && u.Hydrographics == 0 {
		codes = append(codes, "As")
	}
	if u.Population == 0 && u.Government == 0 && u.LawLevel == 0 {
		codes = append(codes, "Ba")
	}
	if between(u.Atmosphere, 2, 9) && u.Hydrographics == 0 {
		codes = append(codes, "De")
	}
	if u.Atmosphere >= 10 && u.Hydrographics >= 1 {
		codes = append(codes, "Fl")
	}
	if between(u.Size, 6, 8) && oneOf(u.Atmosphere, 5, 6, 8) && between(u.Hydrographics, 5, 7) {
		codes = append(codes, "Ga")
	}
	if u.Population >= 9 {
		codes = append(codes, "Hi")
	}
	if u.Atmosphere <= 1 && u.Hydrographics >= 1 {
		codes = append(codes, "Ic")
	}
	if oneOf(u.Atmosphere, 0, 1, 2, 4, 7, 9) && u.Population >= 9 {
		codes = append(codes, "In")
	}
	if between(u.Population, 1, 3) {
		codes = append(codes, "Lo")
	}
	if between(u.Atmosphere, 0, 3) && between(u.Hydrographics, 0, 3) && u.Population >= 6 {
		codes = append(codes, "Na")
	}
	if between(u.Population, 4, 6) {
		codes = append(codes, "Ni")
	}
	if between(u.Atmosphere, 2, 5) && between(u.Hydrographics, 0, 3) {
		codes = append(codes, "Po")
	}
	if oneOf(u.Atmosphere, 6, 8) && between(u.Population, 6, 8) {
		codes = append(codes, "Ri")
	}
	if u.Atmosphere == 0 {
		codes = append(codes, "Va")
	}
	if u.Hydrographics >= 10 {
		codes = append(codes, "Wa")
	}

	return codes
}
