package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"starmap-service/internal/adapters/secfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <sector.json|worlds.tab>",
	Short: "Check a sector file without touching the database",
	Long: `Validate runs the same schema and format checks as import but
writes nothing. JSON documents are checked against the sector schema,
tab listings line by line.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	var worlds, routes int
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("validate %s: %w", path, err)
		}
		data, err := secfile.DecodeJSON(raw)
		if err != nil {
			return fmt.Errorf("validate %s: %w", path, err)
		}
		worlds = len(data.Worlds)
		routes = len(data.Routes)

	case ".tab", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("validate %s: %w", path, err)
		}
		defer f.Close()
		parsed, err := secfile.ParseTab(f)
		if err != nil {
			return fmt.Errorf("validate %s: %w", path, err)
		}
		worlds = len(parsed)

	default:
		return fmt.Errorf("validate %s: unsupported extension, want .tab or .json", path)
	}

	if flagJSON {
		out := map[string]any{"file": path, "valid": true, "worlds": worlds, "routes": routes}
		return json.NewEncoder(os.Stdout).Encode(out)
	}
	logger.Info("valid", "file", path, "worlds", worlds, "routes", routes)
	return nil
}
