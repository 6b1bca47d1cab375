package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"starmap-service/internal/api/dto"
	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

// RouteHandler plots jump routes between two worlds of a sector.
type RouteHandler struct {
	Repo  ports.WorldRepository
	Cache ports.RouteCache
}

func (h *RouteHandler) Plot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.Sector) == "" {
		writeError(w, r, http.StatusBadRequest, "sector is required")
		return
	}

	from, err := domain.ParseHex(req.From)
	if err != nil {
		writeDomainError(w, r, "plot route", err)
		return
	}
	to, err := domain.ParseHex(req.To)
	if err != nil {
		writeDomainError(w, r, "plot route", err)
		return
	}

	jump := req.Jump
	if jump == 0 {
		jump = 2
	}
	if jump < 1 || jump > 6 {
		writeError(w, r, http.StatusBadRequest, "jump must be between 1 and 6")
		return
	}

	svcReq := services.PlotRouteRequest{
		Sector:        req.Sector,
		From:          from,
		To:            to,
		Jump:          jump,
		AvoidRedZones: req.AvoidRedZones,
		RequireFuel:   req.RequireFuel,
		IncludeHidden: referee.FromContext(r.Context()),
	}

	plan, err := services.PlotRoute(r.Context(), svcReq, h.Repo, h.Cache)
	if err != nil {
		writeDomainError(w, r, "plot route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRoutePlanResponse(plan))
}
