package handlers

import (
	"net/http"
	"strings"

	"starmap-service/internal/api/dto"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

// SearchHandler filters a sector's worlds by name, trade code, zone,
// starport, and gas-giant presence.
type SearchHandler struct {
	Repo ports.WorldRepository
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	sector := strings.TrimSpace(q.Get("sector"))
	if sector == "" {
		writeError(w, r, http.StatusBadRequest, "sector is required")
		return
	}

	zone := strings.ToUpper(strings.TrimSpace(q.Get("zone")))
	if zone != "" && zone != "G" && zone != "A" && zone != "R" {
		writeError(w, r, http.StatusBadRequest, "zone must be G, A, or R")
		return
	}

	starport := strings.ToUpper(strings.TrimSpace(q.Get("starport")))
	if starport != "" && (len(starport) != 1 || !strings.ContainsAny(starport, "ABCDEX")) {
		writeError(w, r, http.StatusBadRequest, "starport must be one of A-E or X")
		return
	}

	req := services.SearchWorldsRequest{
		Sector:          sector,
		Name:            q.Get("q"),
		TradeCode:       q.Get("trade"),
		Zone:            zone,
		Starport:        starport,
		RequireGasGiant: q.Get("gasgiant") == "1" || q.Get("gasgiant") == "true",
		IncludeHidden:   referee.FromContext(r.Context()),
	}

	worlds, err := services.SearchWorlds(r.Context(), req, h.Repo)
	if err != nil {
		writeDomainError(w, r, "search worlds", err)
		return
	}

	res := dto.ListWorldsResponse{
		Sector: sector,
		Worlds: make([]dto.WorldResponse, 0, len(worlds)),
	}
	for _, world := range worlds {
		res.Worlds = append(res.Worlds, dto.NewWorldResponse(world))
	}

	writeJSON(w, r, http.StatusOK, res)
}
