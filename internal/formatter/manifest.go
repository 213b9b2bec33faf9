package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/embracefm/embrace/internal/shared"
)

// ManifestEntry summarizes one artist's export in the manifest file.
type ManifestEntry struct {
	ArtistID   string   `json:"artist_id"`
	ArtistName string   `json:"artist_name"`
	Status     string   `json:"status"`
	Files      []string `json:"files,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// exportManifest is the JSON shape of the manifest file.
type exportManifest struct {
	Format            string          `json:"format"`
	GeneratedAt       string          `json:"generated_at"`
	OutputDirectory   string          `json:"output_directory"`
	TotalArtists      int             `json:"total_artists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Results           []ManifestEntry `json:"results"`
}

// WriteExportManifest writes a JSON summary of a bulk artist export.
func WriteExportManifest(format, outputDir string, entries []ManifestEntry, path string) error {
	manifest := exportManifest{
		Format:          format,
		GeneratedAt:     time.Now().Format(time.RFC3339),
		OutputDirectory: outputDir,
		TotalArtists:    len(entries),
		Results:         entries,
	}
	for _, e := range entries {
		if e.Status == "success" {
			manifest.SuccessfulExports++
		} else {
			manifest.FailedExports++
		}
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
