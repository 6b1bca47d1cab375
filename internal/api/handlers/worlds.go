package handlers

import (
	"net/http"
	"strings"

	"starmap-service/internal/api/dto"
	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
)

// WorldHandler serves world listings and single-world detail.
type WorldHandler struct {
	Repo    ports.WorldRepository
	Overlay *referee.Overlay
}

func (h *WorldHandler) Worlds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	refereeMode := referee.FromContext(ctx)

	q := r.URL.Query()
	sector := strings.TrimSpace(q.Get("sector"))
	if sector == "" {
		writeError(w, r, http.StatusBadRequest, "sector is required")
		return
	}

	if hexStr := strings.TrimSpace(q.Get("hex")); hexStr != "" {
		h.single(w, r, sector, hexStr, refereeMode)
		return
	}

	filter := ports.WorldFilter{IncludeHidden: refereeMode}
	if sub := strings.TrimSpace(q.Get("subsector")); sub != "" {
		sub = strings.ToUpper(sub)
		if len(sub) != 1 || sub[0] < 'A' || sub[0] > 'P' {
			writeError(w, r, http.StatusBadRequest, "subsector must be a letter A-P")
			return
		}
		filter.Subsector = sub[0]
	}

	sec, err := h.Repo.GetSector(ctx, sector)
	if err != nil {
		writeDomainError(w, r, "list worlds", err)
		return
	}

	worlds, err := h.Repo.ListWorlds(ctx, sec.Name, filter)
	if err != nil {
		writeDomainError(w, r, "list worlds", err)
		return
	}

	res := dto.ListWorldsResponse{
		Sector: sec.Name,
		Worlds: make([]dto.WorldResponse, 0, len(worlds)),
	}
	for _, world := range worlds {
		res.Worlds = append(res.Worlds, h.response(sec.Name, world, refereeMode))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *WorldHandler) single(w http.ResponseWriter, r *http.Request, sector, hexStr string, refereeMode bool) {
	ctx := r.Context()

	hex, err := domain.ParseHex(hexStr)
	if err != nil {
		writeDomainError(w, r, "get world", err)
		return
	}

	sec, err := h.Repo.GetSector(ctx, sector)
	if err != nil {
		writeDomainError(w, r, "get world", err)
		return
	}

	world, err := h.Repo.GetWorld(ctx, sec.Name, hex, refereeMode)
	if err != nil {
		writeDomainError(w, r, "get world", err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.response(sec.Name, world, refereeMode))
}

// response attaches the referee note when the request runs unlocked.
func (h *WorldHandler) response(sector string, world *domain.World, refereeMode bool) dto.WorldResponse {
	res := dto.NewWorldResponse(world)
	if refereeMode {
		res.Note = h.Overlay.Note(sector, world.Hex)
	}
	return res
}
