package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"starmap-service/internal/api/dto"
	"starmap-service/internal/domain"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

var (
	searchTrade    string
	searchZone     string
	searchStarport string
	searchGasGiant bool
	searchReferee  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <sector> [query]",
	Short: "Find worlds in a sector by name and filters",
	Long: `Search lists the worlds of a sector matching every given
criterion. The optional query is a case-insensitive name substring.

Example:
  starmap search "Spinward Reach" --trade Hi --zone A
  starmap search "Spinward Reach" regina`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchTrade, "trade", "", "trade classification, e.g. Ag or Hi")
	searchCmd.Flags().StringVar(&searchZone, "zone", "", "travel zone: G, A, or R")
	searchCmd.Flags().StringVar(&searchStarport, "starport", "", "starport class A-E or X")
	searchCmd.Flags().BoolVar(&searchGasGiant, "gasgiant", false, "only worlds with a gas giant")
	searchCmd.Flags().BoolVar(&searchReferee, "referee", false, "include hidden worlds")
}

func runSearch(cmd *cobra.Command, args []string) error {
	includeHidden, err := refereeRequested(searchReferee)
	if err != nil {
		return err
	}

	zone := strings.ToUpper(strings.TrimSpace(searchZone))
	if zone != "" && zone != "G" && zone != "A" && zone != "R" {
		return fmt.Errorf("zone must be G, A, or R, got %q", searchZone)
	}
	starport := strings.ToUpper(strings.TrimSpace(searchStarport))
	if starport != "" && (len(starport) != 1 || !strings.ContainsAny(starport, "ABCDEX")) {
		return fmt.Errorf("starport must be one of A-E or X, got %q", searchStarport)
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

	req := services.SearchWorldsRequest{
		Sector:          args[0],
		TradeCode:       searchTrade,
		Zone:            zone,
		Starport:        starport,
		RequireGasGiant: searchGasGiant,
		IncludeHidden:   includeHidden,
	}
	if len(args) == 2 {
		req.Name = args[1]
	}

	worlds, err := services.SearchWorlds(cmd.Context(), req, referee.Shrouded(store, overlay))
	if err != nil {
		return err
	}

	if flagJSON {
		out := make([]dto.WorldResponse, 0, len(worlds))
		for _, w := range worlds {
			out = append(out, dto.NewWorldResponse(w))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printWorldTable(worlds)
	return nil
}

func printWorldTable(worlds []*domain.World) {
	if len(worlds) == 0 {
		fmt.Println("No worlds found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "HEX\tNAME\tUWP\tZONE\tTRADE\tBASES")
	fmt.Fprintln(w, "---\t----\t---\t----\t-----\t-----")
	for _, world := range worlds {
		zone := string(world.Zone)
		if zone == "" {
			zone = "G"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			world.Hex,
			world.Name,
			world.UWP,
			zone,
			strings.Join(world.TradeCodes(), " "),
			world.Bases,
		)
	}
	w.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}
	fmt.Printf("Total: %d world(s)\n", len(worlds))
}
