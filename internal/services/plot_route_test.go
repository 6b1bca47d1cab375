package services

import (
	"context"
	"errors"
	"testing"

	"starmap-service/internal/adapters/memrepo"
	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
)

func testWorld(t *testing.T, hex, name, uwp, pbg string) *domain.World {
	t.Helper()

	h, err := domain.ParseHex(hex)
	if err != nil {
		t.Fatalf("parse hex %q: %v", hex, err)
	}
	u, err := domain.ParseUWP(uwp)
	if err != nil {
		t.Fatalf("parse uwp %q: %v", uwp, err)
	}
	p, err := domain.ParsePBG(pbg)
	if err != nil {
		t.Fatalf("parse pbg %q: %v", pbg, err)
	}

	return &domain.World{Hex: h, Name: name, UWP: u, PBG: p}
}

func testStore(t *testing.T, worlds ...*domain.World) *memrepo.Store {
	t.Helper()

	store, err := memrepo.Load(&ports.SectorData{
		Sector: &domain.Sector{Name: "Spinward Reach", Abbreviation: "Spin", X: -4, Y: 1},
		Worlds: worlds,
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

type fakeCache struct {
	plans map[string]*domain.RoutePlan
	puts  int
	fail  bool
}

func (c *fakeCache) Get(ctx context.Context, key ports.RouteCacheKey) (*domain.RoutePlan, bool, error) {
	if c.fail {
		return nil, false, errors.New("cache down")
	}
	p, ok := c.plans[key.String()]
	return p, ok, nil
}

func (c *fakeCache) Put(ctx context.Context, key ports.RouteCacheKey, plan *domain.RoutePlan) error {
	if c.fail {
		return errors.New("cache down")
	}
	if c.plans == nil {
		c.plans = map[string]*domain.RoutePlan{}
	}
	c.plans[key.String()] = plan
	c.puts++
	return nil
}

func mustHex(t *testing.T, s string) domain.Hex {
	t.Helper()
	h, err := domain.ParseHex(s)
	if err != nil {
		t.Fatalf("parse hex %q: %v", s, err)
	}
	return h
}

func TestPlotRoutePicksFewestJumpsThenParsecs(t *testing.T) {
	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0201", "Besra", "B564500-8", "701"),
		testWorld(t, "0302", "Corvin", "C544338-7", "601"),
		testWorld(t, "0402", "Dagan", "B66A755-9", "802"),
	)

	// Two minimal plans tie at 2 jumps and 3 parsecs, one through 0201 and
	// one through 0302; the lexicographically smaller hex sequence wins.
	plan, err := PlotRoute(context.Background(), PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0402"),
		Jump:   2,
	}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.TotalJumps != 2 {
		t.Fatalf("jumps = %d, want 2", plan.TotalJumps)
	}
	if plan.TotalParsecs != 3 {
		t.Fatalf("parsecs = %d, want 3", plan.TotalParsecs)
	}
	if len(plan.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(plan.Legs))
	}
	if plan.Legs[0].To.String() != "0201" {
		t.Fatalf("expected first waypoint 0201, got %s", plan.Legs[0].To)
	}
	if plan.Legs[0].Parsecs != 1 || plan.Legs[1].Parsecs != 2 {
		t.Fatalf("leg parsecs = %d,%d, want 1,2", plan.Legs[0].Parsecs, plan.Legs[1].Parsecs)
	}
	if plan.Legs[0].FromName != "Alpha" || plan.Legs[1].ToName != "Dagan" {
		t.Fatalf("leg names = %q..%q, want Alpha..Dagan", plan.Legs[0].FromName, plan.Legs[1].ToName)
	}
	if plan.Sector != "Spinward Reach" || plan.Jump != 2 {
		t.Fatalf("plan header = %q jump-%d", plan.Sector, plan.Jump)
	}
}

func TestPlotRouteAvoidsRedZones(t *testing.T) {
	besra := testWorld(t, "0201", "Besra", "B564500-8", "701")
	besra.Zone = domain.ZoneRed

	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		besra,
		testWorld(t, "0302", "Corvin", "C544338-7", "601"),
		testWorld(t, "0402", "Dagan", "B66A755-9", "802"),
	)

	req := PlotRouteRequest{
		Sector: "Spin",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0402"),
		Jump:   2,
	}

	plan, err := PlotRoute(context.Background(), req, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Legs[0].To.String() != "0201" {
		t.Fatalf("without avoidance expected 0201 waypoint, got %s", plan.Legs[0].To)
	}

	req.AvoidRedZones = true
	plan, err = PlotRoute(context.Background(), req, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Legs[0].To.String() != "0302" {
		t.Fatalf("with avoidance expected 0302 waypoint, got %s", plan.Legs[0].To)
	}
	if plan.TotalJumps != 2 || plan.TotalParsecs != 3 {
		t.Fatalf("detour plan = %d jumps %d parsecs, want 2 and 3", plan.TotalJumps, plan.TotalParsecs)
	}
}

func TestPlotRouteRequireFuel(t *testing.T) {
	// Drywell has no starport fuel, no gas giant and no surface water.
	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0201", "Drywell", "E000500-7", "500"),
		testWorld(t, "0302", "Corvin", "C544338-7", "601"),
		testWorld(t, "0402", "Dagan", "B66A755-9", "802"),
	)

	plan, err := PlotRoute(context.Background(), PlotRouteRequest{
		Sector:      "Spinward Reach",
		From:        mustHex(t, "0101"),
		To:          mustHex(t, "0402"),
		Jump:        2,
		RequireFuel: true,
	}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Legs[0].To.String() != "0302" {
		t.Fatalf("expected refuelling waypoint 0302, got %s", plan.Legs[0].To)
	}

	// A dry destination is still reachable; the constraint only governs
	// worlds a ship must jump onward from.
	plan, err = PlotRoute(context.Background(), PlotRouteRequest{
		Sector:      "Spinward Reach",
		From:        mustHex(t, "0101"),
		To:          mustHex(t, "0201"),
		Jump:        2,
		RequireFuel: true,
	}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalJumps != 1 {
		t.Fatalf("jumps = %d, want direct leg", plan.TotalJumps)
	}
}

func TestPlotRouteSameHex(t *testing.T) {
	store := testStore(t, testWorld(t, "0101", "Alpha", "A867949-C", "801"))

	plan, err := PlotRoute(context.Background(), PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0101"),
		Jump:   3,
	}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalJumps != 0 || len(plan.Legs) != 0 {
		t.Fatalf("expected empty plan, got %d legs", len(plan.Legs))
	}
}

func TestPlotRouteValidation(t *testing.T) {
	store := testStore(t, testWorld(t, "0101", "Alpha", "A867949-C", "801"))

	base := PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0101"),
	}

	for _, jump := range []int{0, 7, -1} {
		req := base
		req.Jump = jump
		if _, err := PlotRoute(context.Background(), req, store, nil); err == nil {
			t.Fatalf("expected error for jump %d", jump)
		}
	}

	req := base
	req.Jump = 2
	req.To = domain.Hex{}
	if _, err := PlotRoute(context.Background(), req, store, nil); !errors.Is(err, domain.ErrInvalidHex) {
		t.Fatalf("expected ErrInvalidHex, got %v", err)
	}
}

func TestPlotRouteNotFound(t *testing.T) {
	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0910", "Farway", "D567567-5", "301"),
	)

	_, err := PlotRoute(context.Background(), PlotRouteRequest{
		Sector: "Nowhere",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0101"),
		Jump:   2,
	}, store, nil)
	if !errors.Is(err, domain.ErrSectorNotFound) {
		t.Fatalf("expected ErrSectorNotFound, got %v", err)
	}

	_, err = PlotRoute(context.Background(), PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0505"),
		To:     mustHex(t, "0101"),
		Jump:   2,
	}, store, nil)
	if !errors.Is(err, domain.ErrWorldNotFound) {
		t.Fatalf("expected ErrWorldNotFound, got %v", err)
	}
}

func TestPlotRouteNoRoute(t *testing.T) {
	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0910", "Farway", "D567567-5", "301"),
	)

	_, err := PlotRoute(context.Background(), PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0910"),
		Jump:   2,
	}, store, nil)
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestPlotRouteHiddenWaypoints(t *testing.T) {
	haven := testWorld(t, "0302", "Haven", "C545455-8", "601")
	haven.Hidden = true

	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		haven,
		testWorld(t, "0503", "Chary", "B433687-9", "702"),
	)

	cache := &fakeCache{}
	req := PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0503"),
		Jump:   2,
	}

	if _, err := PlotRoute(context.Background(), req, store, cache); !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute for public view, got %v", err)
	}

	req.IncludeHidden = true
	plan, err := PlotRoute(context.Background(), req, store, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalJumps != 2 || plan.Legs[0].To.String() != "0302" {
		t.Fatalf("expected hidden waypoint 0302, got %+v", plan.Legs)
	}

	// Plans that traverse hidden worlds must never reach shared storage.
	if cache.puts != 0 {
		t.Fatalf("hidden plan was cached: %d puts", cache.puts)
	}
}

func TestPlotRouteCaching(t *testing.T) {
	store := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0201", "Besra", "B564500-8", "701"),
	)

	cache := &fakeCache{}
	req := PlotRouteRequest{
		Sector: "Spinward Reach",
		From:   mustHex(t, "0101"),
		To:     mustHex(t, "0201"),
		Jump:   2,
	}

	if _, err := PlotRoute(context.Background(), req, store, cache); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d, want 1", cache.puts)
	}

	// Gut the store; a cache hit must answer without replotting.
	if err := store.ReplaceSector(context.Background(), &ports.SectorData{
		Sector: &domain.Sector{Name: "Spinward Reach", Abbreviation: "Spin"},
	}); err != nil {
		t.Fatalf("replace sector: %v", err)
	}

	plan, err := PlotRoute(context.Background(), req, store, cache)
	if err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	if plan.TotalJumps != 1 {
		t.Fatalf("cached plan jumps = %d, want 1", plan.TotalJumps)
	}

	// A broken cache degrades to plotting, never to failure.
	fresh := testStore(t,
		testWorld(t, "0101", "Alpha", "A867949-C", "801"),
		testWorld(t, "0201", "Besra", "B564500-8", "701"),
	)
	if _, err := PlotRoute(context.Background(), req, fresh, &fakeCache{fail: true}); err != nil {
		t.Fatalf("degraded cache should not fail the plot: %v", err)
	}
}
