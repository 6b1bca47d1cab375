package main

import (
	"github.com/spf13/cobra"

	"starmap-service/internal/adapters/cache"
	"starmap-service/internal/referee"
	"starmap-service/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view <sector>",
	Short: "Open the interactive sector map",
	Long: `View opens a full-screen hex map of the sector. Move with the
arrow keys or hjkl, page through subsectors with [ and ], mark a route
origin with m and plot to the cursor with p. Press ? inside the viewer
for the full key reference.

Referee mode (R) reveals hidden worlds and notes, and unlocks only when
referee_token is set in the configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	store, sdb, err := openStore()
	if err != nil {
		return err
	}
	defer sdb.Close()

	overlay, err := loadOverlay()
	if err != nil {
		return err
	}

	return tui.Run(tui.Deps{
		Repo:            referee.Shrouded(store, overlay),
		Cache:           cache.NewSqliteRouteCache(sdb),
		Overlay:         overlay,
		Sector:          args[0],
		Jump:            cfg.DefaultJump,
		RefereeUnlocked: cfg.RefereeToken != "",
	})
}
