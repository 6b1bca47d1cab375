package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"starmap-service/internal/api/dto"
	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

// JumpMapHandler serves the jump neighborhood around one hex.
type JumpMapHandler struct {
	Repo ports.WorldRepository
}

func (h *JumpMapHandler) JumpMap(w http.ResponseWriter, r *http.Request) {
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

	center, err := domain.ParseHex(q.Get("hex"))
	if err != nil {
		writeDomainError(w, r, "jump map", err)
		return
	}

	jumpRange := 2
	if rawRange := q.Get("range"); rawRange != "" {
		jumpRange, err = strconv.Atoi(rawRange)
		if err != nil || jumpRange < 1 || jumpRange > 6 {
			writeError(w, r, http.StatusBadRequest, "range must be between 1 and 6")
			return
		}
	}

	req := services.JumpMapRequest{
		Sector:        sector,
		Center:        center,
		Range:         jumpRange,
		IncludeHidden: referee.FromContext(r.Context()),
	}

	ranged, err := services.JumpNeighbors(r.Context(), req, h.Repo)
	if err != nil {
		writeDomainError(w, r, "jump map", err)
		return
	}

	res := dto.JumpMapResponse{
		Sector: sector,
		Center: center.String(),
		Range:  jumpRange,
		Worlds: make([]dto.RangedWorldResponse, 0, len(ranged)),
	}
	for _, rw := range ranged {
		res.Worlds = append(res.Worlds, dto.RangedWorldResponse{
			WorldResponse: dto.NewWorldResponse(rw.World),
			Parsecs:       rw.Parsecs,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
