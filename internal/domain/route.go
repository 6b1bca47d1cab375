package domain

// RouteLeg is a single jump within a plotted route: one transition between
// two world hexes, never longer than the ship's jump rating.
type RouteLeg struct {
	From     Hex
	To       Hex
	FromName string
	ToName   string
	Parsecs  int
}

// RoutePlan is the output of route plotting for one sector. It describes the
// ordered sequence of jumps along with aggregate distance metrics. It is
// immutable planning data and contains no side effects.
type RoutePlan struct {
	Sector       string
	Jump         int
	Legs         []RouteLeg
	TotalJumps   int
	TotalParsecs int
}

// Empty reports whether the plan has no legs (origin equals destination).
func (p *RoutePlan) Empty() bool {
	return len(p.Legs) == 0
}
