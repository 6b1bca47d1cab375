package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"starmap-service/internal/adapters/remotecat"
	"starmap-service/internal/adapters/secfile"
	"starmap-service/internal/ports"
	"starmap-service/internal/services"
)

var (
	importMetadata string
	importFromURL  bool
)

var importCmd = &cobra.Command{
	Use:   "import <worlds.tab|sector.json> ...",
	Short: "Load sector data into the local database",
	Long: `Import loads sector data into the local database, replacing any
previous revision of the same sector.

Tab-separated world listings need a TOML metadata companion naming the
sector. JSON documents are self-contained and schema-checked. With
--from-url the arguments are sector names pulled from the configured
remote catalog instead of files.

Example:
  starmap import spinward.tab --metadata spinward.toml
  starmap import reach.json
  starmap import --from-url "Spinward Marches" "Trojan Reach"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMetadata, "metadata", "", "TOML sector metadata for tab listings")
	importCmd.Flags().BoolVar(&importFromURL, "from-url", false, "treat arguments as sector names and pull them from the catalog")
}

func runImport(cmd *cobra.Command, args []string) error {
	store, sdb, err := openStore()
	if err != nil {
		return err
	}
	defer sdb.Close()

	if importFromURL {
		return importFromCatalog(cmd.Context(), store, args)
	}

	for _, path := range args {
		res, err := importFile(cmd.Context(), store, path)
		if err != nil {
			return err
		}
		reportImport(res)
	}
	return nil
}

func importFile(ctx context.Context, store ports.SectorWriter, path string) (*services.ImportResult, error) {
	data, err := decodeSectorFile(path)
	if err != nil {
		return nil, err
	}
	return services.ImportSector(ctx, data, store)
}

// decodeSectorFile parses a sector document by extension: JSON exports are
// self-contained, tab listings get their sector identity from --metadata.
func decodeSectorFile(path string) (*ports.SectorData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		return secfile.DecodeJSON(raw)

	case ".tab", ".tsv", ".txt":
		if importMetadata == "" {
			return nil, fmt.Errorf("import %s: tab listings need --metadata with the sector name", path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		defer f.Close()

		worlds, err := secfile.ParseTab(f)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		meta, err := secfile.LoadMetadata(importMetadata)
		if err != nil {
			return nil, err
		}
		return secfile.BuildSectorData(meta, worlds)

	default:
		return nil, fmt.Errorf("import %s: unsupported extension, want .tab or .json", path)
	}
}

func importFromCatalog(ctx context.Context, store ports.SectorWriter, names []string) error {
	if cfg.CatalogURL == "" {
		return fmt.Errorf("catalog_url is not configured; set it in config.yaml or STARMAP_CATALOG_URL")
	}

	client, err := remotecat.NewClient(cfg.CatalogURL, cfg.CatalogAPIKey)
	if err != nil {
		return err
	}

	logger.Debug("pulling from catalog", "url", cfg.CatalogURL, "sectors", len(names))
	results, err := services.ImportFromCatalog(ctx, names, client, store)
	if err != nil {
		return err
	}
	for _, res := range results {
		reportImport(res)
	}
	return nil
}

func reportImport(res *services.ImportResult) {
	if flagJSON {
		out := map[string]any{
			"batch_id": res.BatchID,
			"sector":   res.Sector,
			"worlds":   res.Worlds,
			"routes":   res.Routes,
		}
		json.NewEncoder(os.Stdout).Encode(out)
		return
	}
	logger.Info("imported", "sector", res.Sector, "worlds", res.Worlds, "routes", res.Routes, "batch", res.BatchID)
}
