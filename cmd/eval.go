package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pugmark/footprint/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Footprint classification evaluation tools",
		Long: `Evaluation tools for measuring classifier accuracy against labeled
footprint datasets.

Supports inspecting datasets, downloading remote images for offline use,
running evaluations and generating reports from earlier runs.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())
	cmd.AddCommand(evalcmd.NewDownloadImagesCmd())

	return cmd
}
