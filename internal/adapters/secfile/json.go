package secfile

import (
	"encoding/json"
	"fmt"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

type sectorDoc struct {
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation,omitempty"`
	X            int        `json:"x,omitempty"`
	Y            int        `json:"y,omitempty"`
	Subsectors   []string   `json:"subsectors,omitempty"`
	Worlds       []worldDoc `json:"worlds"`
	XBoatRoutes  []routeDoc `json:"xboat_routes,omitempty"`
}

type worldDoc struct {
	Hex        string `json:"hex"`
	Name       string `json:"name"`
	UWP        string `json:"uwp"`
	Bases      string `json:"bases,omitempty"`
	Remarks    string `json:"remarks,omitempty"`
	Zone       string `json:"zone,omitempty"`
	PBG        string `json:"pbg,omitempty"`
	Allegiance string `json:"allegiance,omitempty"`
	Stellar    string `json:"stellar,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
}

type routeDoc struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DecodeJSON validates a custom-sector document against the embedded
// schema, then decodes it into an importable unit.
func DecodeJSON(data []byte) (*ports.SectorData, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	var doc sectorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sector document: %w", err)
	}

	sector := &domain.Sector{
		Name:         doc.Name,
		Abbreviation: doc.Abbreviation,
		X:            doc.X,
		Y:            doc.Y,
	}
	copy(sector.Subsectors[:], doc.Subsectors)

	worlds := make([]*domain.World, 0, len(doc.Worlds))
	for _, wd := range doc.Worlds {
		w, err := decodeWorld(wd)
		if err != nil {
			return nil, fmt.Errorf("sector document: %w", err)
		}
		worlds = append(worlds, w)
	}

	routes := make([]domain.XBoatRoute, 0, len(doc.XBoatRoutes))
	for _, rd := range doc.XBoatRoutes {
		from, err := domain.ParseHex(rd.From)
		if err != nil {
			return nil, fmt.Errorf("sector document: route from %q: %w", rd.From, err)
		}
		to, err := domain.ParseHex(rd.To)
		if err != nil {
			return nil, fmt.Errorf("sector document: route to %q: %w", rd.To, err)
		}
		routes = append(routes, domain.XBoatRoute{From: from, To: to})
	}

	return &ports.SectorData{Sector: sector, Worlds: worlds, Routes: routes}, nil
}

func decodeWorld(wd worldDoc) (*domain.World, error) {
	hex, err := domain.ParseHex(wd.Hex)
	if err != nil {
		return nil, fmt.Errorf("world %q: %w", wd.Name, err)
	}

	uwp, err := domain.ParseUWP(wd.UWP)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", hex, err)
	}

	zone, err := domain.ParseZone(wd.Zone)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", hex, err)
	}

	w := &domain.World{
		Hex:        hex,
		Name:       wd.Name,
		UWP:        uwp,
		Bases:      wd.Bases,
		Remarks:    wd.Remarks,
		Zone:       zone,
		Allegiance: wd.Allegiance,
		Stellar:    wd.Stellar,
		Hidden:     wd.Hidden,
	}

	if wd.PBG != "" {
		w.PBG, err = domain.ParsePBG(wd.PBG)
		if err != nil {
			return nil, fmt.Errorf("world %s: %w", hex, err)
		}
	}

	return w, nil
}

// EncodeJSON renders a sector as a custom-sector document. Hidden worlds
// are stripped from the output unless includeHidden is set, so a public
// export never reveals them.
func EncodeJSON(data *ports.SectorData, includeHidden bool) ([]byte, error) {
	if data == nil || data.Sector == nil {
		return nil, fmt.Errorf("encode sector: no sector data")
	}

	doc := sectorDoc{
		Name:         data.Sector.Name,
		Abbreviation: data.Sector.Abbreviation,
		X:            data.Sector.X,
		Y:            data.Sector.Y,
		Subsectors:   trimTrailing(data.Sector.Subsectors[:]),
		Worlds:       make([]worldDoc, 0, len(data.Worlds)),
	}

	stripped := make(map[domain.Hex]bool)
	for _, w := range data.Worlds {
		if w.Hidden && !includeHidden {
			stripped[w.Hex] = true
			continue
		}
		wd := worldDoc{
			Hex:        w.Hex.String(),
			Name:       w.Name,
			UWP:        w.UWP.String(),
			Bases:      w.Bases,
			Remarks:    w.Remarks,
			Zone:       string(w.Zone),
			Allegiance: w.Allegiance,
			Stellar:    w.Stellar,
			Hidden:     w.Hidden && includeHidden,
		}
		if w.PBG != (domain.PBG{}) {
			wd.PBG = w.PBG.String()
		}
		doc.Worlds = append(doc.Worlds, wd)
	}

	// A route segment ending on a stripped world would betray it.
	for _, r := range data.Routes {
		if stripped[r.From] || stripped[r.To] {
			continue
		}
		doc.XBoatRoutes = append(doc.XBoatRoutes, routeDoc{From: r.From.String(), To: r.To.String()})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sector %q: %w", data.Sector.Name, err)
	}
	return out, nil
}

func trimTrailing(names []string) []string {
	end := len(names)
	for end > 0 && names[end-1] == "" {
		end--
	}
	return names[:end]
}
