package ports

import (
	"context"

	"starmap-service/internal/domain"
)

// A complete sector download: metadata, worlds and route segments.
type SectorData struct {
	Sector *domain.Sector
	Worlds []*domain.World
	Routes []domain.XBoatRoute
}

// Port: a boundary for fetching sector data from a remote catalogue.
type SectorCatalog interface {
	// Fetch one sector with its worlds and communication routes.
	FetchSector(ctx context.Context, name string) (*SectorData, error)
}
