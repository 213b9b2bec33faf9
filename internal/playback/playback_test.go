package playback

import (
	"testing"
	"time"

	"github.com/embracefm/embrace/internal/audio"
	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/models"
	th "github.com/embracefm/embrace/internal/testing"
)

func newTestSession(t *testing.T) (*Session, *th.ScriptDriver, *catalog.Catalog, []*models.Song) {
	t.Helper()

	cat := catalog.New(th.SetupDB(t), nil)
	m := &models.Musician{
		Email:      "nova@example.com",
		Username:   "nova",
		ArtistName: "Nova Wave",
		Genres:     []string{"Electronic"},
	}
	if err := cat.AddMusician(m); err != nil {
		t.Fatalf("failed to add musician: %v", err)
	}

	songs := make([]*models.Song, 0, 2)
	for _, title := range []string{"first", "second"} {
		song, err := cat.UploadSong(models.SongUpload{
			Title:       title,
			MusicianID:  m.ID,
			AudioSource: "https://example.com/" + title + ".mp3",
		})
		if err != nil {
			t.Fatalf("failed to upload song: %v", err)
		}
		songs = append(songs, song)
	}

	driver := th.NewScriptDriver()
	session := NewSession(driver, cat, nil)
	t.Cleanup(session.Close)
	return session, driver, cat, songs
}

func playCount(t *testing.T, cat *catalog.Catalog, id string) int {
	t.Helper()
	song, err := cat.GetSong(id)
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}
	return song.PlayCount
}

// waitFor polls the session until the condition holds or the deadline passes.
func waitFor(t *testing.T, s *Session, cond func(State) bool) State {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		state := s.Now()
		if cond(state) {
			return state
		}
		select {
		case <-deadline:
			t.Fatalf("condition not reached, last state: %+v", state)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPlay(t *testing.T) {
	t.Run("SelectingTrackIncrementsOnce", func(t *testing.T) {
		session, driver, cat, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}

		if got := playCount(t, cat, songs[0].ID); got != 1 {
			t.Errorf("expected play count 1, got %d", got)
		}
		if len(driver.Sources) != 1 || driver.Sources[0] != songs[0].AudioSource {
			t.Errorf("driver should load the selected source, got %v", driver.Sources)
		}
	})

	t.Run("ResumingSameTrackDoesNotIncrement", func(t *testing.T) {
		session, driver, cat, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}
		session.TogglePlay()
		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to resume: %v", err)
		}

		if got := playCount(t, cat, songs[0].ID); got != 1 {
			t.Errorf("resume should not increment, got %d", got)
		}
		if len(driver.Sources) != 1 {
			t.Errorf("resume should not reload the source, got %v", driver.Sources)
		}
		if !session.Now().Playing {
			t.Error("session should be playing after resume")
		}
	})

	t.Run("DistinctSelectionsIncrementEach", func(t *testing.T) {
		session, _, cat, songs := newTestSession(t)

		for _, id := range []string{songs[0].ID, songs[1].ID, songs[0].ID} {
			if err := session.Play(id); err != nil {
				t.Fatalf("failed to play %s: %v", id, err)
			}
		}

		if got := playCount(t, cat, songs[0].ID); got != 2 {
			t.Errorf("expected 2 plays of first song, got %d", got)
		}
		if got := playCount(t, cat, songs[1].ID); got != 1 {
			t.Errorf("expected 1 play of second song, got %d", got)
		}
	})

	t.Run("SwitchingTracksResetsPosition", func(t *testing.T) {
		session, driver, _, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}
		driver.Emit(audio.Event{
			Kind:     audio.MetadataReady,
			Source:   songs[0].AudioSource,
			Duration: 2 * time.Minute,
		})
		waitFor(t, session, func(s State) bool { return s.Duration == 2*time.Minute })
		session.Seek(time.Minute)

		if err := session.Play(songs[1].ID); err != nil {
			t.Fatalf("failed to switch: %v", err)
		}

		state := session.Now()
		if state.Position != 0 || state.Duration != 0 {
			t.Errorf("switching tracks should reset position and duration, got %+v", state)
		}
	})

	t.Run("UnknownIDFails", func(t *testing.T) {
		session, _, _, _ := newTestSession(t)

		if err := session.Play("missing"); err == nil {
			t.Error("expected error for unknown song id")
		}
		if !session.Now().Empty() {
			t.Error("failed selection should leave the session empty")
		}
	})
}

func TestTogglePlay(t *testing.T) {
	t.Run("NoTrackIsNoOp", func(t *testing.T) {
		session, driver, _, _ := newTestSession(t)

		session.TogglePlay()
		if driver.Plays != 0 || driver.Pauses != 0 {
			t.Error("toggle with no track should not touch the driver")
		}
		if !session.Now().Empty() {
			t.Error("session should stay empty")
		}
	})

	t.Run("FlipsPlayingState", func(t *testing.T) {
		session, _, _, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}

		session.TogglePlay()
		if session.Now().Playing {
			t.Error("expected paused after toggle")
		}
		session.TogglePlay()
		if !session.Now().Playing {
			t.Error("expected playing after second toggle")
		}
	})
}

func TestSeek(t *testing.T) {
	t.Run("ClampsToTrackBounds", func(t *testing.T) {
		session, driver, _, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}
		driver.Emit(audio.Event{
			Kind:     audio.MetadataReady,
			Source:   songs[0].AudioSource,
			Duration: 90 * time.Second,
		})
		waitFor(t, session, func(s State) bool { return s.Duration == 90*time.Second })

		session.Seek(-10 * time.Second)
		if got := session.Now().Position; got != 0 {
			t.Errorf("negative seek should clamp to 0, got %v", got)
		}

		session.Seek(5 * time.Minute)
		if got := session.Now().Position; got != 90*time.Second {
			t.Errorf("overshoot should clamp to duration, got %v", got)
		}
	})

	t.Run("NoTrackIsNoOp", func(t *testing.T) {
		session, driver, _, _ := newTestSession(t)

		session.Seek(time.Minute)
		if len(driver.Seeks) != 0 {
			t.Error("seek with no track should not touch the driver")
		}
	})
}

func TestDriverEvents(t *testing.T) {
	t.Run("StaleSourceEventsDropped", func(t *testing.T) {
		session, driver, _, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}
		driver.Emit(audio.Event{
			Kind:     audio.TimeProgress,
			Source:   songs[1].AudioSource,
			Duration: time.Minute,
			Position: 30 * time.Second,
		})
		driver.Emit(audio.Event{
			Kind:     audio.TimeProgress,
			Source:   songs[0].AudioSource,
			Duration: 2 * time.Minute,
			Position: 10 * time.Second,
		})

		state := waitFor(t, session, func(s State) bool { return s.Position == 10*time.Second })
		if state.Duration != 2*time.Minute {
			t.Errorf("stale event should not apply, got duration %v", state.Duration)
		}
	})

	t.Run("EndedStopsPlayback", func(t *testing.T) {
		session, driver, _, songs := newTestSession(t)

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}
		driver.Emit(audio.Event{
			Kind:     audio.MetadataReady,
			Source:   songs[0].AudioSource,
			Duration: time.Minute,
		})
		driver.Emit(audio.Event{
			Kind:   audio.Ended,
			Source: songs[0].AudioSource,
		})

		state := waitFor(t, session, func(s State) bool { return !s.Playing && s.Duration == time.Minute })
		if state.Position != state.Duration {
			t.Errorf("ended track should rest at its duration, got %v of %v", state.Position, state.Duration)
		}
	})

	t.Run("SubscriberSeesSnapshots", func(t *testing.T) {
		session, _, _, songs := newTestSession(t)
		states := session.Subscribe()

		if err := session.Play(songs[0].ID); err != nil {
			t.Fatalf("failed to play: %v", err)
		}

		select {
		case state := <-states:
			if state.Song == nil || state.Song.ID != songs[0].ID {
				t.Errorf("expected snapshot for selected song, got %+v", state)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for snapshot")
		}
	})
}
