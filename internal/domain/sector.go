package domain

import "fmt"

// SubsectorCount is the number of 8x10 subsectors in a sector.
const SubsectorCount = 16

// Sector is the identifying metadata for one sector of the map. X and Y are
// galactic sector-grid coordinates (core sector at 0,0).
type Sector struct {
	Name         string
	Abbreviation string
	X            int
	Y            int
	Subsectors   [SubsectorCount]string
}

// SubsectorName returns the display name of subsector 'A'..'P', falling back
// to the letter itself when no name is set.
func (s *Sector) SubsectorName(idx byte) string {
	if idx < 'A' || idx > 'P' {
		return ""
	}
	name := s.Subsectors[idx-'A']
	if name == "" {
		return string(idx)
	}
	return name
}

// SubsectorBounds returns the inclusive hex bounds of subsector 'A'..'P'.
func SubsectorBounds(idx byte) (minCol, minRow, maxCol, maxRow int, err error) {
	if idx < 'A' || idx > 'P' {
		return 0, 0, 0, 0, fmt.Errorf("subsector index %q out of range A-P", string(idx))
	}
	i := int(idx - 'A')
	minCol = (i%4)*8 + 1
	minRow = (i/4)*10 + 1
	return minCol, minRow, minCol + 7, minRow + 9, nil
}

// XBoatRoute is a static communication-route overlay drawn on sector maps.
// These are display data, not plotted jump routes.
type XBoatRoute struct {
	From Hex
	To   Hex
}
