package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

// Outcome of one sector load.
type ImportResult struct {
	BatchID string
	Sector  string
	Worlds  int
	Routes  int
}

// Validate a sector download and replace the stored sector with it.
func ImportSector(
	ctx context.Context,
	data *ports.SectorData,
	store ports.SectorWriter,
) (*ImportResult, error) {
	if data == nil || data.Sector == nil {
		return nil, fmt.Errorf("import sector: no sector data: %w", domain.ErrInvalidSector)
	}
	if data.Sector.Name == "" {
		return nil, fmt.Errorf("import sector: sector name must be non-empty: %w", domain.ErrInvalidSector)
	}

	seen := make(map[domain.Hex]struct{}, len(data.Worlds))
	for _, w := range data.Worlds {
		if !w.Hex.Valid() {
			return nil, fmt.Errorf("import sector %q: world %q hex %s: %w",
				data.Sector.Name, w.Name, w.Hex, domain.ErrInvalidHex)
		}
		if _, dup := seen[w.Hex]; dup {
			return nil, fmt.Errorf("import sector %q: duplicate hex %s: %w",
				data.Sector.Name, w.Hex, domain.ErrInvalidSector)
		}
		seen[w.Hex] = struct{}{}
	}

	for _, r := range data.Routes {
		if !r.From.Valid() || !r.To.Valid() {
			return nil, fmt.Errorf("import sector %q: route %s-%s: %w",
				data.Sector.Name, r.From, r.To, domain.ErrInvalidHex)
		}
	}

	if err := store.ReplaceSector(ctx, data); err != nil {
		return nil, fmt.Errorf("import sector %q: replace: %w", data.Sector.Name, err)
	}

	return &ImportResult{
		BatchID: uuid.NewString(),
		Sector:  data.Sector.Name,
		Worlds:  len(data.Worlds),
		Routes:  len(data.Routes),
	}, nil
}

type catalogResult struct {
	name string
	data *ports.SectorData
	err  error
}

// Fetch sectors from a remote catalogue and load each into the store.
// Downloads run concurrently with a small cap and the first failure
// cancels the rest; store writes stay sequential, in the requested
// order, so the writer never sees competing transactions.
func ImportFromCatalog(
	ctx context.Context,
	names []string,
	catalog ports.SectorCatalog,
	store ports.SectorWriter,
) ([]*ImportResult, error) {
	if len(names) == 0 {
		return []*ImportResult{}, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, 3)
	resultsCh := make(chan catalogResult, len(names))
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			data, err := catalog.FetchSector(fetchCtx, name)
			if err != nil {
				resultsCh <- catalogResult{name: name, err: fmt.Errorf("import from catalog: fetch %q: %w", name, err)}
				cancel()
				return
			}

			resultsCh <- catalogResult{name: name, data: data}
		}(name)
	}

	wg.Wait()
	close(resultsCh)

	byName := make(map[string]*ports.SectorData, len(names))
	var firstErr error
	for res := range resultsCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		byName[res.name] = res.data
	}
	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]*ImportResult, 0, len(names))
	for _, name := range names {
		data, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("import from catalog: missing download for %q", name)
		}

		res, err := ImportSector(ctx, data, store)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, nil
}
