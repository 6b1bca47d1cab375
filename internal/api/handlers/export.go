package handlers

import (
	"net/http"
	"strings"

	"starmap-service/internal/adapters/secfile"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
)

// ExportHandler emits a whole sector as the JSON interchange document, the
// same format POST /sectors accepts.
type ExportHandler struct {
	Repo ports.WorldRepository
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sector := strings.TrimSpace(r.URL.Query().Get("sector"))
	if sector == "" {
		writeError(w, r, http.StatusBadRequest, "sector is required")
		return
	}
	h.export(w, r, sector)
}

// SectorExport serves the /sectors/{name}/export path, which is what the
// remote catalog client fetches. Other /sectors/ subpaths do not exist.
func (h *ExportHandler) SectorExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/sectors/")
	name, verb, ok := strings.Cut(rest, "/")
	if !ok || name == "" || verb != "export" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	h.export(w, r, name)
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, sector string) {
	ctx := r.Context()
	refereeMode := referee.FromContext(ctx)

	sec, err := h.Repo.GetSector(ctx, sector)
	if err != nil {
		writeDomainError(w, r, "export sector", err)
		return
	}

	worlds, err := h.Repo.ListWorlds(ctx, sec.Name, ports.WorldFilter{IncludeHidden: refereeMode})
	if err != nil {
		writeDomainError(w, r, "export sector", err)
		return
	}

	routes, err := h.Repo.ListXBoatRoutes(ctx, sec.Name, refereeMode)
	if err != nil {
		writeDomainError(w, r, "export sector", err)
		return
	}

	doc, err := secfile.EncodeJSON(&ports.SectorData{
		Sector: sec,
		Worlds: worlds,
		Routes: routes,
	}, refereeMode)
	if err != nil {
		writeDomainError(w, r, "export sector", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
