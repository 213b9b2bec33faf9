package audio

import "time"

// EventKind enumerates driver notifications.
type EventKind int

const (
	// MetadataReady reports the duration of a freshly loaded source.
	MetadataReady EventKind = iota
	// TimeProgress reports the current playhead position.
	TimeProgress
	// Ended reports that the source played to completion.
	Ended
)

func (k EventKind) String() string {
	switch k {
	case MetadataReady:
		return "metadata_ready"
	case TimeProgress:
		return "time_progress"
	case Ended:
		return "ended"
	default:
		return ""
	}
}

// Event is an asynchronous driver notification. Source names the URI the
// event was produced for; consumers drop events whose source no longer
// matches the current selection.
type Event struct {
	Kind     EventKind
	Source   string
	Duration time.Duration
	Position time.Duration
}

// Driver is the single playback resource. Implementations hold at most one
// source and deliver [Event] values over the channel returned by Events.
type Driver interface {
	// SetSource loads a new source, discarding any previous one. Loading is
	// asynchronous; a MetadataReady event follows once the duration is known.
	SetSource(uri string)

	// Play starts or resumes playback of the current source.
	Play()

	// Pause halts playback, keeping the position.
	Pause()

	// Seek moves the playhead. Positions outside [0, duration] are clamped
	// by the driver.
	Seek(pos time.Duration)

	// Events returns the driver's notification channel. The channel is
	// buffered; a consumer that falls behind loses ticks, never control.
	Events() <-chan Event

	// Close releases the driver and closes the event channel.
	Close()
}
