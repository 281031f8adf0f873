package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAssetsCmd() *cobra.Command {
	var assetsDir string
	var format string

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List the gallery images and audio cues served by the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("assets") {
				assetsDir = envOr("FOOTPRINT_ASSETS_DIR", assetsDir)
			}

			index, _, err := openAssets(assetsDir)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				encoder := json.NewEncoder(w)
				encoder.SetIndent("", "  ")
				return encoder.Encode(index.Listing())
			case "yaml":
				return yaml.NewEncoder(w).Encode(index.Listing())
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVar(&assetsDir, "assets", defaultAssetsDir, "Directory with gallery images and audio (env FOOTPRINT_ASSETS_DIR)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (json, yaml)")

	return cmd
}
