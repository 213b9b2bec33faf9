package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadRoster Phase = iota
	ExportArtist
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadRoster:
		return "load_roster"
	case ExportArtist:
		return "export_artist"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadRosterUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadRoster,
		Step:    0,
		Total:   total,
		Message: "Loading artist roster...",
	}
}

func exportingArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func writeManifestUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    total,
		Total:   total,
		Message: "Writing export manifest...",
	}
}
