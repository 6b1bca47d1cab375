package api

import (
	"net/http"

	"starmap-service/internal/api/handlers"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	store ports.SectorWriter,
	cache ports.RouteCache,
	overlay *referee.Overlay,
	refereeToken string,
) http.Handler {
	mux := http.NewServeMux()

	// All reads go through the shrouded view so overlay-concealed worlds
	// never surface on public paths, planner traversals included.
	shrouded := referee.Shrouded(store, overlay)

	sectorHandler := &handlers.SectorHandler{Repo: shrouded, Store: store, RequireReferee: refereeToken != ""}
	worldHandler := &handlers.WorldHandler{Repo: shrouded, Overlay: overlay}
	jumpMapHandler := &handlers.JumpMapHandler{Repo: shrouded}
	searchHandler := &handlers.SearchHandler{Repo: shrouded}
	routeHandler := &handlers.RouteHandler{Repo: shrouded, Cache: cache}
	exportHandler := &handlers.ExportHandler{Repo: shrouded}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/sectors", sectorHandler.Sectors)
	mux.HandleFunc("/sectors/", exportHandler.SectorExport)
	mux.HandleFunc("/worlds", worldHandler.Worlds)
	mux.HandleFunc("/jumpmap", jumpMapHandler.JumpMap)
	mux.HandleFunc("/search", searchHandler.Search)
	mux.HandleFunc("/routes", routeHandler.Plot)
	mux.HandleFunc("/export", exportHandler.Export)

	return requestIDMiddleware(loggingMiddleware(refereeMiddleware(mux, refereeToken)))
}
