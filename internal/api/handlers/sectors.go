package handlers

import (
	"io"
	"net/http"

	"starmap-service/internal/adapters/secfile"
	"starmap-service/internal/api/dto"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

const maxUploadBytes = 8 << 20

// SectorHandler lists known sectors and accepts custom sector uploads.
// Reads go through Repo, which the router shrouds; writes need the full
// store.
type SectorHandler struct {
	Repo  ports.WorldRepository
	Store ports.SectorWriter

	// RequireReferee gates uploads behind the referee token when one is
	// configured on the server.
	RequireReferee bool
}

func (h *SectorHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.upload(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SectorHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refereeMode := referee.FromContext(ctx)

	sectors, err := h.Repo.ListSectors(ctx)
	if err != nil {
		writeDomainError(w, r, "list sectors", err)
		return
	}

	res := dto.ListSectorsResponse{Sectors: make([]dto.SectorResponse, 0, len(sectors))}
	for _, sec := range sectors {
		worlds, err := h.Repo.ListWorlds(ctx, sec.Name, ports.WorldFilter{IncludeHidden: refereeMode})
		if err != nil {
			writeDomainError(w, r, "list sectors", err)
			return
		}

		names := sec.Subsectors[:]
		for len(names) > 0 && names[len(names)-1] == "" {
			names = names[:len(names)-1]
		}

		res.Sectors = append(res.Sectors, dto.SectorResponse{
			Name:         sec.Name,
			Abbreviation: sec.Abbreviation,
			X:            sec.X,
			Y:            sec.Y,
			Subsectors:   names,
			WorldCount:   len(worlds),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SectorHandler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.RequireReferee && !referee.FromContext(ctx) {
		writeError(w, r, http.StatusForbidden, "referee token required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	data, err := secfile.DecodeJSON(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := services.ImportSector(ctx, data, h.Store)
	if err != nil {
		writeDomainError(w, r, "upload sector", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.UploadSectorResponse{
		BatchID: result.BatchID,
		Sector:  result.Sector,
		Worlds:  result.Worlds,
		Routes:  result.Routes,
	})
}
