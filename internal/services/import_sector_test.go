package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-service/internal/adapters/memrepo"
	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

func sectorData(t *testing.T, name string, worlds ...*domain.World) *ports.SectorData {
	t.Helper()
	return &ports.SectorData{
		Sector: &domain.Sector{Name: name, Abbreviation: name[:3]},
		Worlds: worlds,
	}
}

func TestImportSector(t *testing.T) {
	store := memrepo.New()

	data := sectorData(t, "Trojan Reach",
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0205", "Blue", "B5649C8-B", "702"),
	)
	data.Routes = []domain.XBoatRoute{{From: mustHex(t, "0101"), To: mustHex(t, "0205")}}

	res, err := ImportSector(context.Background(), data, store)
	require.NoError(t, err)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, "Trojan Reach", res.Sector)
	assert.Equal(t, 2, res.Worlds)
	assert.Equal(t, 1, res.Routes)

	worlds, err := store.ListWorlds(context.Background(), "Trojan Reach", ports.WorldFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0101", "0205"}, hexes(worlds))
}

func TestImportSectorReplacesPreviousLoad(t *testing.T) {
	store := memrepo.New()

	_, err := ImportSector(context.Background(), sectorData(t, "Trojan Reach",
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
	), store)
	require.NoError(t, err)

	_, err = ImportSector(context.Background(), sectorData(t, "Trojan Reach",
		testWorld(t, "0404", "Rework", "C433433-8", "601"),
	), store)
	require.NoError(t, err)

	worlds, err := store.ListWorlds(context.Background(), "Trojan Reach", ports.WorldFilter{IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"0404"}, hexes(worlds))
}

func TestImportSectorRejectsBadData(t *testing.T) {
	store := memrepo.New()

	_, err := ImportSector(context.Background(), nil, store)
	require.Error(t, err)

	dup := sectorData(t, "Trojan Reach",
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0101", "Clone", "B564500-8", "701"),
	)
	_, err = ImportSector(context.Background(), dup, store)
	require.ErrorContains(t, err, "duplicate hex")

	bad := sectorData(t, "Trojan Reach", testWorld(t, "0101", "Alpha", "A867949-C", "801"))
	bad.Routes = []domain.XBoatRoute{{From: mustHex(t, "0101"), To: domain.Hex{Col: 50, Row: 1}}}
	_, err = ImportSector(context.Background(), bad, store)
	assert.ErrorIs(t, err, domain.ErrInvalidHex)

	// Nothing may land in the store when validation fails.
	_, err = store.GetSector(context.Background(), "Trojan Reach")
	assert.ErrorIs(t, err, domain.ErrSectorNotFound)
}

type fakeCatalog struct {
	sectors map[string]*ports.SectorData
}

func (c *fakeCatalog) FetchSector(ctx context.Context, name string) (*ports.SectorData, error) {
	data, ok := c.sectors[name]
	if !ok {
		return nil, fmt.Errorf("no such sector %q", name)
	}
	return data, nil
}

func TestImportFromCatalog(t *testing.T) {
	store := memrepo.New()
	catalog := &fakeCatalog{sectors: map[string]*ports.SectorData{
		"Trojan Reach": sectorData(t, "Trojan Reach", testWorld(t, "0101", "Alpha", "A867949-C", "801")),
		"Reft":         sectorData(t, "Reft", testWorld(t, "0202", "Deep", "C560300-8", "301")),
	}}

	results, err := ImportFromCatalog(context.Background(), []string{"Reft", "Trojan Reach"}, catalog, store)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Reft", results[0].Sector)
	assert.Equal(t, "Trojan Reach", results[1].Sector)

	sectors, err := store.ListSectors(context.Background())
	require.NoError(t, err)
	require.Len(t, sectors, 2)
}

func TestImportFromCatalogPropagatesFetchErrors(t *testing.T) {
	store := memrepo.New()
	catalog := &fakeCatalog{sectors: map[string]*ports.SectorData{}}

	_, err := ImportFromCatalog(context.Background(), []string{"Missing"}, catalog, store)
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "Missing")
}
