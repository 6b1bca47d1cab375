package domain

import (
	"fmt"
	"strings"
)

// ehexAlphabet is the extended-hex digit set: 0-9 then A-Z skipping I and O.
const ehexAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// EhexDigit returns the extended-hex digit for a value in [0, 33].
func EhexDigit(v int) (byte, error) {
	if v < 0 || v >= len(ehexAlphabet) {
		return 0, fmt.Errorf("ehex value %d out of range: %w", v, ErrInvalidUWP)
	}
	return ehexAlphabet[v], nil
}

// EhexValue returns the numeric value of an extended-hex digit.
func EhexValue(c byte) (int, error) {
	i := strings.IndexByte(ehexAlphabet, c)
	if i < 0 {
		return 0, fmt.Errorf("ehex digit %q not recognized: %w", string(c), ErrInvalidUWP)
	}
	return i, nil
}

// UWP is a Universal World Profile: starport class plus seven world
// attributes. The text form is "SXXXXXX-T", e.g. "A867949-C".
type UWP struct {
	Starport      byte
	Size          int
	Atmosphere    int
	Hydrographics int
	Population    int
	Government    int
	LawLevel      int
	TechLevel     int
}

// validStarports is the set of recognized starport classes.
// X marks no starport.
var validStarports = map[byte]bool{
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'X': true,
}

// ParseUWP parses the "SXXXXXX-T" profile form. Input is case-insensitive.
func ParseUWP(s string) (UWP, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 9 {
		return UWP{}, fmt.Errorf("parse uwp %q: want 9 characters: %w", s, ErrInvalidUWP)
	}
	if s[7] != '-' {
		return UWP{}, fmt.Errorf("parse uwp %q: want dash before tech level: %w", s, ErrInvalidUWP)
	}
	if !validStarports[s[0]] {
		return UWP{}, fmt.Errorf("parse uwp %q: starport %q not recognized: %w", s, string(s[0]), ErrInvalidUWP)
	}

	vals := make([]int, 0, 7)
	for _, i := range []int{1, 2, 3, 4, 5, 6, 8} {
		v, err := EhexValue(s[i])
		if err != nil {
			return UWP{}, fmt.Errorf("parse uwp %q: position %d: %w", s, i, err)
		}
		vals = append(vals, v)
	}

	return UWP{
		Starport:      s[0],
		Size:          vals[0],
		Atmosphere:    vals[1],
		Hydrographics: vals[2],
		Population:    vals[3],
		Government:    vals[4],
		LawLevel:      vals[5],
		TechLevel:     vals[6],
	}, nil
}

// String returns the canonical "SXXXXXX-T" form.
func (u UWP) String() string {
	var b strings.Builder
	b.WriteByte(u.Starport)
	for _, v := range []int{u.Size, u.Atmosphere, u.Hydrographics, u.Population, u.Government, u.LawLevel} {
		d, err := EhexDigit(v)
		if err != nil {
			d = '?'
		}
		b.WriteByte(d)
	}
	b.WriteByte('-')
	d, err := EhexDigit(u.TechLevel)
	if err != nil {
		d = '?'
	}
	b.WriteByte(d)
	return b.String()
}
