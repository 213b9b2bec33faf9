package audio

import (
	"hash/fnv"
	"sync"
	"time"
)

const (
	// DefaultTick is the position reporting interval.
	DefaultTick = 250 * time.Millisecond

	minTrackSeconds = 90
	maxTrackSeconds = 300
)

// trackDuration derives a stable simulated duration from the source URI, so
// the same track always reports the same length.
func trackDuration(uri string) time.Duration {
	h := fnv.New32a()
	h.Write([]byte(uri))
	span := uint32(maxTrackSeconds - minTrackSeconds + 1)
	secs := minTrackSeconds + int(h.Sum32()%span)
	return time.Duration(secs) * time.Second
}

// ClockDriver simulates the playback resource on a wall-clock ticker. It
// satisfies [Driver] without touching a sound device, which keeps the session
// layer exercisable in tests and headless environments.
type ClockDriver struct {
	mu       sync.Mutex
	source   string
	duration time.Duration
	position time.Duration
	playing  bool

	tick      time.Duration
	events    chan Event
	done      chan struct{}
	closed    bool
	closeOnce sync.Once
}

// NewClockDriver creates a running clock driver. A non-positive tick falls
// back to [DefaultTick].
func NewClockDriver(tick time.Duration) *ClockDriver {
	if tick <= 0 {
		tick = DefaultTick
	}
	d := &ClockDriver{
		tick:   tick,
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *ClockDriver) run() {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.advance()
		}
	}
}

// advance moves the playhead by one tick and reports progress. Reaching the
// end of the source pauses the clock and emits a terminal event.
func (d *ClockDriver) advance() {
	d.mu.Lock()
	if !d.playing || d.source == "" {
		d.mu.Unlock()
		return
	}

	d.position += d.tick
	ended := false
	if d.position >= d.duration {
		d.position = d.duration
		d.playing = false
		ended = true
	}
	ev := Event{Kind: TimeProgress, Source: d.source, Duration: d.duration, Position: d.position}
	end := Event{Kind: Ended, Source: d.source, Duration: d.duration, Position: d.position}
	d.mu.Unlock()

	d.emit(ev)
	if ended {
		d.emit(end)
	}
}

// emit delivers an event without blocking. A consumer that fell behind loses
// the event rather than stalling the clock.
func (d *ClockDriver) emit(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.events <- ev:
	default:
	}
}

// SetSource loads a new source and resets the playhead. Metadata is reported
// immediately since the simulated duration needs no decoding.
func (d *ClockDriver) SetSource(uri string) {
	d.mu.Lock()
	d.source = uri
	d.duration = trackDuration(uri)
	d.position = 0
	d.playing = false
	ev := Event{Kind: MetadataReady, Source: uri, Duration: d.duration}
	d.mu.Unlock()

	d.emit(ev)
}

// Play starts or resumes the clock for the current source.
func (d *ClockDriver) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.source == "" {
		return
	}
	if d.position >= d.duration {
		d.position = 0
	}
	d.playing = true
}

// Pause halts the clock, keeping the position.
func (d *ClockDriver) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
}

// Seek moves the playhead, clamping to the loaded source's bounds.
func (d *ClockDriver) Seek(pos time.Duration) {
	d.mu.Lock()
	if d.source == "" {
		d.mu.Unlock()
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > d.duration {
		pos = d.duration
	}
	d.position = pos
	ev := Event{Kind: TimeProgress, Source: d.source, Duration: d.duration, Position: pos}
	d.mu.Unlock()

	d.emit(ev)
}

// Events returns the driver notification channel.
func (d *ClockDriver) Events() <-chan Event {
	return d.events
}

// Close stops the clock and closes the event channel.
func (d *ClockDriver) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.mu.Lock()
		d.closed = true
		close(d.events)
		d.mu.Unlock()
	})
}
