package ports

import "context"

// Optional extension of WorldRepository that supports bulk sector loads.
type SectorWriter interface {
	WorldRepository
	// Atomically replace the named sector and all of its worlds and routes.
	// Worlds from a previous load of the same sector do not survive.
	ReplaceSector(ctx context.Context, data *SectorData) error
}
