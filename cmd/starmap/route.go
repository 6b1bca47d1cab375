package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"starmap-service/internal/adapters/cache"
	"starmap-service/internal/api/dto"
	"starmap-service/internal/domain"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

var (
	routeJump        int
	routeAvoidRed    bool
	routeRequireFuel bool
	routeReferee     bool
)

var routeCmd = &cobra.Command{
	Use:   "route <sector> <from> <to>",
	Short: "Plot a jump route between two worlds",
	Long: `Route plots the cheapest sequence of jumps from one hex to
another, fewest jumps first and shortest distance as the tiebreak.

Example:
  starmap route "Spinward Reach" 0101 0605 --jump 3 --avoid-red`,
	Args: cobra.ExactArgs(3),
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().IntVar(&routeJump, "jump", 0, "jump rating 1-6 (0 means the configured default)")
	routeCmd.Flags().BoolVar(&routeAvoidRed, "avoid-red", false, "never route through red-zone worlds")
	routeCmd.Flags().BoolVar(&routeRequireFuel, "require-fuel", false, "every waypoint must offer refuelling")
	routeCmd.Flags().BoolVar(&routeReferee, "referee", false, "allow hidden worlds as waypoints")
}

func runRoute(cmd *cobra.Command, args []string) error {
	includeHidden, err := refereeRequested(routeReferee)
	if err != nil {
		return err
	}

	from, err := domain.ParseHex(args[1])
	if err != nil {
		return err
	}
	to, err := domain.ParseHex(args[2])
	if err != nil {
		return err
	}

	jump := routeJump
	if jump == 0 {
		jump = cfg.DefaultJump
	}

	store, sdb, err := openStore()
	if err != nil {
		return err
	}
	defer sdb.Close()

	overlay, err := loadOverlay()
	if err != nil {
		return err
	}

	req := services.PlotRouteRequest{
		Sector:        args[0],
		From:          from,
		To:            to,
		Jump:          jump,
		AvoidRedZones: routeAvoidRed,
		RequireFuel:   routeRequireFuel,
		IncludeHidden: includeHidden,
	}
	plan, err := services.PlotRoute(cmd.Context(), req, referee.Shrouded(store, overlay), cache.NewSqliteRouteCache(sdb))
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewRoutePlanResponse(plan))
	}
	printRoutePlan(plan)
	return nil
}

func printRoutePlan(plan *domain.RoutePlan) {
	if plan.Empty() {
		fmt.Printf("Already at destination in %s.\n", plan.Sector)
		return
	}

	fmt.Printf("%s, jump-%d: %d jumps, %d parsecs\n", plan.Sector, plan.Jump, plan.TotalJumps, plan.TotalParsecs)
	for i, leg := range plan.Legs {
		fmt.Printf("  %2d. %s %s -> %s %s (%d pc)\n",
			i+1, leg.From, leg.FromName, leg.To, leg.ToName, leg.Parsecs)
	}
}
