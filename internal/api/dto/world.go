package dto

import "starmap-service/internal/domain"

type WorldResponse struct {
	Hex        string   `json:"hex"`
	Name       string   `json:"name"`
	UWP        string   `json:"uwp"`
	Bases      string   `json:"bases,omitempty"`
	Remarks    string   `json:"remarks,omitempty"`
	Zone       string   `json:"zone,omitempty"`
	PBG        string   `json:"pbg,omitempty"`
	Allegiance string   `json:"allegiance,omitempty"`
	Stellar    string   `json:"stellar,omitempty"`
	TradeCodes []string `json:"trade_codes"`
	Subsector  string   `json:"subsector"`
	Hidden     bool     `json:"hidden,omitempty"`
	Note       string   `json:"note,omitempty"`
}

// NewWorldResponse maps a domain world onto its wire shape.
func NewWorldResponse(w *domain.World) WorldResponse {
	res := WorldResponse{
		Hex:        w.Hex.String(),
		Name:       w.Name,
		UWP:        w.UWP.String(),
		Bases:      w.Bases,
		Remarks:    w.Remarks,
		Zone:       string(w.Zone),
		Allegiance: w.Allegiance,
		Stellar:    w.Stellar,
		TradeCodes: w.TradeCodes(),
		Subsector:  string(w.Hex.SubsectorIndex()),
		Hidden:     w.Hidden,
	}
	if w.PBG != (domain.PBG{}) {
		res.PBG = w.PBG.String()
	}
	return res
}

type ListWorldsResponse struct {
	Sector string          `json:"sector"`
	Worlds []WorldResponse `json:"worlds"`
}

type RangedWorldResponse struct {
	WorldResponse
	Parsecs int `json:"parsecs"`
}

type JumpMapResponse struct {
	Sector string                `json:"sector"`
	Center string                `json:"center"`
	Range  int                   `json:"range"`
	Worlds []RangedWorldResponse `json:"worlds"`
}
