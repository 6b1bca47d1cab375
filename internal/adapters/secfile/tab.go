package secfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"starmap-service/internal/domain"
)

// Column layout of a tab-separated world listing. Hex, name and UWP are
// mandatory; the remaining columns may be absent or empty.
const (
	colHex = iota
	colName
	colUWP
	colBases
	colRemarks
	colZone
	colPBG
	colAllegiance
	colStellar
	colCount
)

// ParseTab reads a tab-separated world listing. Blank lines and lines
// starting with '#' are skipped, and a single header line is recognized
// by its leading "Hex" cell. Errors carry the offending line number.
func ParseTab(r io.Reader) ([]*domain.World, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var worlds []*domain.World
	seen := make(map[domain.Hex]int)

	lineNo := 0
	sawHeader := false

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if !sawHeader && strings.EqualFold(strings.TrimSpace(fields[colHex]), "Hex") {
			sawHeader = true
			continue
		}

		w, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("parse worlds: line %d: %w", lineNo, err)
		}

		if prev, dup := seen[w.Hex]; dup {
			return nil, fmt.Errorf("parse worlds: line %d: hex %s already defined on line %d", lineNo, w.Hex, prev)
		}
		seen[w.Hex] = lineNo

		worlds = append(worlds, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse worlds: read: %w", err)
	}

	return worlds, nil
}

func parseRow(fields []string) (*domain.World, error) {
	if len(fields) <= colUWP {
		return nil, fmt.Errorf("expected at least %d tab-separated columns, got %d", colUWP+1, len(fields))
	}

	get := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	hex, err := domain.ParseHex(get(colHex))
	if err != nil {
		return nil, err
	}

	name := get(colName)
	if name == "" {
		return nil, fmt.Errorf("hex %s: world name must be non-empty", hex)
	}

	uwp, err := domain.ParseUWP(get(colUWP))
	if err != nil {
		return nil, fmt.Errorf("hex %s: %w", hex, err)
	}

	w := &domain.World{
		Hex:        hex,
		Name:       name,
		UWP:        uwp,
		Bases:      get(colBases),
		Remarks:    get(colRemarks),
		Allegiance: get(colAllegiance),
		Stellar:    get(colStellar),
	}

	w.Zone, err = domain.ParseZone(get(colZone))
	if err != nil {
		return nil, fmt.Errorf("hex %s: %w", hex, err)
	}

	if s := get(colPBG); s != "" {
		w.PBG, err = domain.ParsePBG(s)
		if err != nil {
			return nil, fmt.Errorf("hex %s: %w", hex, err)
		}
	}

	return w, nil
}
