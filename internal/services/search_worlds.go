package services

import (
	"context"
	"fmt"
	"strings"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

type SearchWorldsRequest struct {
	Sector string
	// Case-insensitive substring match on world names.
	Name string
	// Two-letter trade classification, e.g. "Ag". Matched against the
	// computed codes, so it never needs reindexing.
	TradeCode       string
	Zone            string
	Starport        string
	RequireGasGiant bool
	IncludeHidden   bool
}

// Find worlds in a sector matching every given criterion. Empty criteria
// match all visible worlds. Results are ordered by hex.
func SearchWorlds(
	ctx context.Context,
	req SearchWorldsRequest,
	repo ports.WorldRepository,
) ([]*domain.World, error) {
	sector, err := repo.GetSector(ctx, req.Sector)
	if err != nil {
		return nil, fmt.Errorf("search worlds: sector %q: %w", req.Sector, err)
	}

	query := ports.WorldQuery{
		Name:            normalizeQuery(req.Name),
		RequireGasGiant: req.RequireGasGiant,
		IncludeHidden:   req.IncludeHidden,
	}

	if req.Zone != "" {
		zone, err := domain.ParseZone(req.Zone)
		if err != nil {
			return nil, fmt.Errorf("search worlds: %w", err)
		}
		// Green is the zero zone, so the filter needs its own token.
		query.Zone = "G"
		if zone != domain.ZoneGreen {
			query.Zone = string(zone)
		}
	}

	if req.Starport != "" {
		port := strings.ToUpper(strings.TrimSpace(req.Starport))
		if len(port) != 1 || !strings.ContainsAny(port, "ABCDEX") {
			return nil, fmt.Errorf("search worlds: invalid starport %q", req.Starport)
		}
		query.Starport = port
	}

	worlds, err := repo.SearchWorlds(ctx, sector.Name, query)
	if err != nil {
		return nil, fmt.Errorf("search worlds: query %q: %w", sector.Name, err)
	}

	trade := canonicalTradeCode(req.TradeCode)
	if trade == "" {
		return worlds, nil
	}

	// Trade codes are derived from the UWP, never stored, so this filter
	// stays in the service.
	matched := make([]*domain.World, 0, len(worlds))
	for _, w := range worlds {
		for _, c := range w.TradeCodes() {
			if c == trade {
				matched = append(matched, w)
				break
			}
		}
	}

	return matched, nil
}

// normalizeQuery ensures consistent matching by collapsing whitespace.
func normalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func canonicalTradeCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
