package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/formatter"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ExportEngine orchestrates per-artist catalog exports.
type ExportEngine struct {
	catalog *catalog.Catalog
}

// NewExportEngine creates an ExportEngine over the given catalog.
func NewExportEngine(cat *catalog.Catalog) *ExportEngine {
	return &ExportEngine{catalog: cat}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// BulkExportOpts contains configuration for bulk artist exports.
type BulkExportOpts struct {
	Format        string  // Export format: json, csv, markdown, txt
	OutputDir     string  // Base output directory (default: embrace_export_{epoch})
	NumWorkers    int     // Concurrent workers (default: 4)
	RateLimit     float64 // Exports started per second (default: 5)
	FetchProfiles bool    // Download profile photos for markdown exports
}

// ArtistExportResult describes the outcome of exporting a single artist.
type ArtistExportResult struct {
	ArtistID   string
	ArtistName string
	Success    bool
	Files      []string
	Error      error
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalArtists      int
	SuccessfulExports int
	FailedExports     int
	Results           []ArtistExportResult
	OutputDirectory   string
	ManifestPath      string
}

// exportJob pairs an artist with the snapshot to write.
type exportJob struct {
	export *models.ArtistExport
}

// BulkExport exports the given artists concurrently with rate limiting and
// progress tracking, then writes a manifest summarizing the run. An empty ids
// slice exports the whole roster.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("embrace_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if len(ids) == 0 {
		musicians, err := e.catalog.Musicians()
		if err != nil {
			return nil, fmt.Errorf("failed to load roster: %w", err)
		}
		for _, m := range musicians {
			ids = append(ids, m.ID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalArtists:    len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ArtistExportResult, 0, len(ids)),
	}

	e.sendProgress(prog, loadRosterUpdate(len(ids)))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(ids))
	results := make(chan ArtistExportResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for range opts.NumWorkers {
		g.Go(func() error {
			for job := range jobs {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results <- e.exportSingleArtist(job, opts)
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for i, artistID := range ids {
			if err := limiter.Wait(gctx); err != nil {
				return
			}

			export, err := e.Snapshot(artistID)
			if err != nil {
				results <- ArtistExportResult{
					ArtistID:   artistID,
					ArtistName: fmt.Sprintf("Unknown (%s)", artistID),
					Success:    false,
					Error:      fmt.Errorf("failed to load artist: %w", err),
				}
				continue
			}

			e.sendProgress(prog, exportingArtistUpdate(i+1, len(ids), export.Musician.ArtistName))
			jobs <- exportJob{export: export}
		}
	}()

	go func() {
		g.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.ArtistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.ArtistName, res.Error))
		}
	}

	e.sendProgress(prog, writeManifestUpdate(len(ids)))

	entries := make([]formatter.ManifestEntry, 0, len(result.Results))
	for _, res := range result.Results {
		entry := formatter.ManifestEntry{
			ArtistID:   res.ArtistID,
			ArtistName: res.ArtistName,
			Status:     "success",
			Files:      res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		entries = append(entries, entry)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(opts.Format, opts.OutputDir, entries, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// Snapshot assembles an artist's export bundle from the catalog: profile,
// ranked discography, and donation ledger with total.
func (e *ExportEngine) Snapshot(artistID string) (*models.ArtistExport, error) {
	musician, err := e.catalog.GetMusician(artistID)
	if err != nil {
		return nil, err
	}

	songs, err := e.catalog.SongsByArtist(artistID)
	if err != nil {
		return nil, err
	}

	donations, err := e.catalog.DonationsForRecipient(artistID)
	if err != nil {
		return nil, err
	}

	total, err := e.catalog.DonationTotal(artistID)
	if err != nil {
		return nil, err
	}

	return &models.ArtistExport{
		Musician:  *musician,
		Songs:     songs,
		Donations: donations,
		Total:     total,
	}, nil
}

// exportSingleArtist writes a single artist bundle in the requested format.
func (e *ExportEngine) exportSingleArtist(j exportJob, opts BulkExportOpts) ArtistExportResult {
	result := ArtistExportResult{
		ArtistID:   j.export.Musician.ID,
		ArtistName: j.export.Musician.ArtistName,
		Success:    false,
		Files:      []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.export.Musician.ID)
		csvRes, err := formatter.WriteCSVExport(j.export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.SongsFile, csvRes.DonationsFile, csvRes.ProfileFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.export.Musician.ID)

		var imageURL string
		if opts.FetchProfiles {
			imageURL = j.export.Musician.ProfilePhoto
		}

		mdRes, err := formatter.WriteMarkdownExport(j.export, outputDir, imageURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_songs.txt", j.export.Musician.ID))
		path, err := formatter.WriteTextExport(j.export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.export.Musician.ID))
		data, err := shared.MarshalJSON(j.export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
