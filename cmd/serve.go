package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pugmark/footprint/internal/assets"
	"github.com/pugmark/footprint/internal/handlers"
)

const defaultAssetsDir = "assets"

func newServeCmd() *cobra.Command {
	var port string
	var assetsDir string
	var imageURLs, allowPrivateURLs bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the footprint classifier",
		Long: `Starts the Footprint web interface on the specified port.

The web interface lets you upload a footprint image, shows the prediction
with a species description, and plays the matching roar. Gallery images
and audio cues are read from the assets directory:

  images/lions/   images/tigers/
  audio/lion_roar.mp3   audio/tiger_roar.mp3

Missing assets are skipped. The JSON API is available at POST /api/classify.`,
		Example: `  # Start server on default port 8888
  footprint serve

  # Start server on custom port with a custom asset directory
  footprint serve --port 3000 --assets ./media`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is loaded in the root pre-run, so env fallbacks resolve here
			if !cmd.Flags().Changed("port") {
				port = envOr("FOOTPRINT_PORT", port)
			}
			if !cmd.Flags().Changed("assets") {
				assetsDir = envOr("FOOTPRINT_ASSETS_DIR", assetsDir)
			}

			index, assetFS, err := openAssets(assetsDir)
			if err != nil {
				return err
			}

			handler, err := handlers.New(index, assetFS, handlers.WithImageURLs(imageURLs, allowPrivateURLs))
			if err != nil {
				return fmt.Errorf("failed to create handler: %w", err)
			}

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Footprint interface available", "addr", addr, "url", "http://localhost"+addr, "assets", assetsDir)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (env FOOTPRINT_PORT)")
	cmd.Flags().StringVar(&assetsDir, "assets", defaultAssetsDir, "Directory with gallery images and audio (env FOOTPRINT_ASSETS_DIR)")
	cmd.Flags().BoolVar(&imageURLs, "image-urls", true, "Accept image_url in POST /api/classify")
	cmd.Flags().BoolVar(&allowPrivateURLs, "allow-private-urls", false, "Allow image_url to reach loopback and private network addresses")

	return cmd
}

// openAssets indexes dir. A missing directory yields an empty index.
func openAssets(dir string) (*assets.Index, fs.FS, error) {
	fsys := os.DirFS(dir)
	index, err := assets.Build(fsys)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to index assets in %s: %w", dir, err)
	}
	slog.Debug("Assets indexed", "dir", dir, "files", index.Len())
	return index, fsys, nil
}
