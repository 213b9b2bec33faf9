// Export action: bulk artist exports with progress reporting
package main

import (
	"context"
	"fmt"

	"github.com/embracefm/embrace/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes per-artist catalog bundles to disk.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.BulkExportOpts{
		Format:        cmd.String("format"),
		OutputDir:     cmd.String("output"),
		NumWorkers:    cmd.Int("workers"),
		FetchProfiles: cmd.Bool("photos"),
	}
	if opts.Format == "" {
		opts.Format = r.config.Export.Format
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.config.Export.OutputDir
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = r.config.Export.Workers
	}
	opts.RateLimit = r.config.Export.RateLimit

	ids := cmd.StringSlice("artist")

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, ids, opts)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("Exported %d/%d artists to %s", result.SuccessfulExports, result.TotalArtists, result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
