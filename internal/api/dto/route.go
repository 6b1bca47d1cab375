package dto

import "starmap-service/internal/domain"

type RouteRequest struct {
	Sector        string `json:"sector"`
	From          string `json:"from"`
	To            string `json:"to"`
	Jump          int    `json:"jump"`
	AvoidRedZones bool   `json:"avoid_red_zones"`
	RequireFuel   bool   `json:"require_fuel"`
}

type RouteLegResponse struct {
	From     string `json:"from"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	ToName   string `json:"to_name"`
	Parsecs  int    `json:"parsecs"`
}

type RoutePlanResponse struct {
	Sector       string             `json:"sector"`
	Jump         int                `json:"jump"`
	Legs         []RouteLegResponse `json:"legs"`
	TotalJumps   int                `json:"total_jumps"`
	TotalParsecs int                `json:"total_parsecs"`
}

// NewRoutePlanResponse maps a computed plan onto its wire shape.
func NewRoutePlanResponse(p *domain.RoutePlan) RoutePlanResponse {
	res := RoutePlanResponse{
		Sector:       p.Sector,
		Jump:         p.Jump,
		Legs:         make([]RouteLegResponse, 0, len(p.Legs)),
		TotalJumps:   p.TotalJumps,
		TotalParsecs: p.TotalParsecs,
	}
	for _, leg := range p.Legs {
		res.Legs = append(res.Legs, RouteLegResponse{
			From:     leg.From.String(),
			FromName: leg.FromName,
			To:       leg.To.String(),
			ToName:   leg.ToName,
			Parsecs:  leg.Parsecs,
		})
	}
	return res
}
