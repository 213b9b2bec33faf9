package playback

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/embracefm/embrace/internal/audio"
	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// State is an immutable snapshot of the session for rendering. Song is nil
// when nothing has been selected yet.
type State struct {
	Song     *models.Song
	Playing  bool
	Duration time.Duration
	Position time.Duration
}

// Empty reports whether the session has no selected track.
func (s State) Empty() bool {
	return s.Song == nil
}

// Session is the single listening session. All mutations and driver events
// funnel through its mutex, so snapshots taken via [Session.Now] are always
// internally consistent.
type Session struct {
	mu       sync.Mutex
	driver   audio.Driver
	catalog  *catalog.Catalog
	logger   *log.Logger
	current  *models.Song
	playing  bool
	duration time.Duration
	position time.Duration

	subMu sync.Mutex
	subs  []chan State
}

// NewSession creates a session over the given driver and starts consuming its
// events.
func NewSession(driver audio.Driver, cat *catalog.Catalog, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &Session{
		driver:  driver,
		catalog: cat,
		logger:  shared.WithLogger(logger, "component", "playback"),
	}
	go s.pump()
	return s
}

// Subscribe registers a buffered channel that receives state snapshots after
// every session change. Delivery is best-effort; a full channel drops the
// snapshot.
func (s *Session) Subscribe() <-chan State {
	ch := make(chan State, 16)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Session) notify(state State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default:
		}
	}
}

// snapshotLocked builds a State; callers must hold s.mu.
func (s *Session) snapshotLocked() State {
	return State{
		Song:     s.current,
		Playing:  s.playing,
		Duration: s.duration,
		Position: s.position,
	}
}

// Now returns the current session snapshot.
func (s *Session) Now() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Play selects a song. Selecting the current track resumes it; selecting a
// different track loads it, starts it from the beginning, and bumps its play
// count exactly once. Returns [shared.ErrNotFound] for an unknown id.
func (s *Session) Play(songID string) error {
	song, err := s.catalog.GetSong(songID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == song.ID {
		s.playing = true
		s.driver.Play()
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(state)
		return nil
	}

	s.current = song
	s.playing = true
	s.duration = 0
	s.position = 0
	s.driver.SetSource(song.AudioSource)
	s.driver.Play()
	state := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.catalog.IncrementPlayCount(song.ID); err != nil {
		s.logger.Warn("play count not recorded", "song", song.ID, "error", err)
	}

	s.logger.Debug("track selected", "song", song.ID, "title", song.Title)
	s.notify(state)
	return nil
}

// TogglePlay flips between playing and paused. A session with no selected
// track ignores the toggle.
func (s *Session) TogglePlay() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if s.playing {
		s.playing = false
		s.driver.Pause()
	} else {
		s.playing = true
		s.driver.Play()
	}
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state)
}

// Seek moves the playhead, clamping to the current track's bounds. The
// position updates optimistically; the driver's next progress event confirms
// it. A session with no selected track ignores the seek.
func (s *Session) Seek(pos time.Duration) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if pos < 0 {
		pos = 0
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	s.position = pos
	s.driver.Seek(pos)
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state)
}

// pump applies driver events to the session. Events produced for a source
// other than the current track's are stale and dropped.
func (s *Session) pump() {
	for ev := range s.driver.Events() {
		s.mu.Lock()
		if s.current == nil || ev.Source != s.current.AudioSource {
			s.mu.Unlock()
			continue
		}

		switch ev.Kind {
		case audio.MetadataReady:
			s.duration = ev.Duration
			if s.position > s.duration {
				s.position = s.duration
			}
		case audio.TimeProgress:
			s.position = ev.Position
			if ev.Duration > 0 {
				s.duration = ev.Duration
			}
		case audio.Ended:
			s.playing = false
			s.position = s.duration
		}
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(state)
	}
}

// Close releases the underlying driver. The event pump exits once the driver
// closes its channel.
func (s *Session) Close() {
	s.driver.Close()
}
