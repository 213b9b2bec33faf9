package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/repositories"
	"github.com/embracefm/embrace/internal/services"
	th "github.com/embracefm/embrace/internal/testing"
)

func newTestStore(t *testing.T, drafter services.BioDrafter) (*Store, *catalog.Catalog) {
	t.Helper()
	db := th.SetupDB(t)
	cat := catalog.New(db, nil)
	return New(db, cat, drafter, nil), cat
}

func registerListener(t *testing.T, store *Store, email, username string) {
	t.Helper()
	ok, err := store.RegisterListener(email, username)
	if err != nil {
		t.Fatalf("failed to register listener: %v", err)
	}
	if !ok {
		t.Fatalf("listener registration rejected for %s", email)
	}
}

func registerMusician(t *testing.T, store *Store, email, artistName string) *models.Musician {
	t.Helper()
	ok, err := store.RegisterMusician(context.Background(), email, artistName, []string{"Electronic"})
	if err != nil {
		t.Fatalf("failed to register musician: %v", err)
	}
	if !ok {
		t.Fatalf("musician registration rejected for %s", artistName)
	}
	return store.CurrentMusician()
}

func TestLogin(t *testing.T) {
	t.Run("NoMatchReportsFalseWithoutError", func(t *testing.T) {
		store, _ := newTestStore(t, nil)

		ok, err := store.Login("nobody@example.com", models.KindListener)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected login to fail for unknown email")
		}
		if store.CurrentUser() != nil {
			t.Error("session should stay signed out")
		}
	})

	t.Run("MatchSignsIn", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		registerListener(t, store, "alex@example.com", "alex")
		store.Logout()

		ok, err := store.Login("alex@example.com", models.KindListener)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected login to succeed")
		}
		if store.CurrentListener() == nil {
			t.Error("expected a signed-in listener")
		}
	})

	t.Run("LogoutClearsSession", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		registerListener(t, store, "alex@example.com", "alex")

		store.Logout()
		if store.CurrentUser() != nil {
			t.Error("expected no current user after logout")
		}
	})
}

func TestRegisterMusician(t *testing.T) {
	t.Run("DerivesUsernameAndPhoto", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		m := registerMusician(t, store, "nova@example.com", "Nova Wave")

		if m.Username != "nova_wave" {
			t.Errorf("expected username nova_wave, got %q", m.Username)
		}
		if !strings.Contains(m.ProfilePhoto, "nova_wave") {
			t.Errorf("profile photo should embed the username, got %q", m.ProfilePhoto)
		}
	})

	t.Run("DuplicateArtistNameLeavesRosterUnchanged", func(t *testing.T) {
		store, cat := newTestStore(t, nil)
		registerMusician(t, store, "nova@example.com", "Nova Wave")

		ok, err := store.RegisterMusician(context.Background(), "other@example.com", "Nova Wave", []string{"Folk"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected duplicate artist name to be rejected")
		}

		roster, err := cat.Musicians()
		if err != nil {
			t.Fatalf("failed to list musicians: %v", err)
		}
		if len(roster) != 1 {
			t.Errorf("expected roster of 1, got %d", len(roster))
		}
	})

	t.Run("RejectsEmptyGenres", func(t *testing.T) {
		store, _ := newTestStore(t, nil)

		ok, err := store.RegisterMusician(context.Background(), "nova@example.com", "Nova Wave", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected registration without genres to be rejected")
		}
	})
}

func TestDraftedBio(t *testing.T) {
	t.Run("UsesDrafterResult", func(t *testing.T) {
		drafter := &th.MockBioDrafter{Bio: "A hand-written bio."}
		store, _ := newTestStore(t, drafter)

		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		if m.Bio != "A hand-written bio." {
			t.Errorf("expected drafted bio, got %q", m.Bio)
		}
		if drafter.Calls != 1 {
			t.Errorf("expected exactly one draft call, got %d", drafter.Calls)
		}
	})

	t.Run("NilDrafterUsesNoCredentialTemplate", func(t *testing.T) {
		store, _ := newTestStore(t, nil)

		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		want := "A promising Electronic artist known as Nova Wave, ready to make their mark on the music scene with a unique and captivating sound."
		if m.Bio != want {
			t.Errorf("expected no-credential template, got %q", m.Bio)
		}
	})

	t.Run("SlowDrafterFallsBackAndStillRegisters", func(t *testing.T) {
		drafter := &th.MockBioDrafter{Bio: "never delivered", Delay: 5 * time.Second}
		store, cat := newTestStore(t, drafter)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		ok, err := store.RegisterMusician(ctx, "nova@example.com", "Nova Wave", []string{"Electronic"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("a timed-out draft must not fail the registration")
		}

		want := "An emerging talent in the Electronic world, Nova Wave is quickly gaining attention for their innovative sound and compelling performances."
		if store.CurrentMusician().Bio != want {
			t.Errorf("expected failure template, got %q", store.CurrentMusician().Bio)
		}

		roster, err := cat.Musicians()
		if err != nil {
			t.Fatalf("failed to list musicians: %v", err)
		}
		if len(roster) != 1 {
			t.Errorf("expected the musician on the roster, got %d entries", len(roster))
		}
	})

	t.Run("DrafterFailureUsesFailureTemplate", func(t *testing.T) {
		drafter := &th.MockBioDrafter{Err: errors.New("upstream unavailable")}
		store, _ := newTestStore(t, drafter)

		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		want := "An emerging talent in the Electronic world, Nova Wave is quickly gaining attention for their innovative sound and compelling performances."
		if m.Bio != want {
			t.Errorf("expected failure template, got %q", m.Bio)
		}
	})

	t.Run("MultipleGenresJoinWithComma", func(t *testing.T) {
		drafter := &th.MockBioDrafter{Err: errors.New("down")}
		store, _ := newTestStore(t, drafter)

		ok, err := store.RegisterMusician(context.Background(), "glitch@example.com", "Glitch System", []string{"IDM", "Breakcore"})
		if err != nil || !ok {
			t.Fatalf("registration failed: ok=%v err=%v", ok, err)
		}
		if !strings.Contains(store.CurrentMusician().Bio, "IDM, Breakcore") {
			t.Errorf("expected joined genre label in bio, got %q", store.CurrentMusician().Bio)
		}
	})
}

func TestToggleLike(t *testing.T) {
	setup := func(t *testing.T) (*Store, *catalog.Catalog, *models.Song) {
		t.Helper()
		store, cat := newTestStore(t, nil)
		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		song, err := cat.UploadSong(models.SongUpload{
			Title:       "track",
			MusicianID:  m.ID,
			AudioSource: "https://example.com/track.mp3",
		})
		if err != nil {
			t.Fatalf("failed to upload song: %v", err)
		}
		registerListener(t, store, "alex@example.com", "alex")
		return store, cat, song
	}

	t.Run("TogglePairRestoresState", func(t *testing.T) {
		store, cat, song := setup(t)

		liked, err := store.ToggleLike(song.ID)
		if err != nil {
			t.Fatalf("failed to toggle: %v", err)
		}
		if !liked {
			t.Error("first toggle should like")
		}

		got, _ := cat.GetSong(song.ID)
		if got.Likes != 1 {
			t.Errorf("expected 1 like, got %d", got.Likes)
		}

		liked, err = store.ToggleLike(song.ID)
		if err != nil {
			t.Fatalf("failed to toggle: %v", err)
		}
		if liked {
			t.Error("second toggle should unlike")
		}

		got, _ = cat.GetSong(song.ID)
		if got.Likes != 0 {
			t.Errorf("expected 0 likes after toggle pair, got %d", got.Likes)
		}
		if store.IsLiked(song.ID) {
			t.Error("like state should be cleared")
		}
	})

	t.Run("CacheMatchesRowsWhenCountUpdateFails", func(t *testing.T) {
		db := th.SetupDB(t)
		cat := catalog.New(db, nil)
		store := New(db, cat, nil, nil)

		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		song, err := cat.UploadSong(models.SongUpload{
			Title:       "track",
			MusicianID:  m.ID,
			AudioSource: "https://example.com/track.mp3",
		})
		if err != nil {
			t.Fatalf("failed to upload song: %v", err)
		}
		registerListener(t, store, "alex@example.com", "alex")

		if _, err := store.ToggleLike(song.ID); err != nil {
			t.Fatalf("failed to like: %v", err)
		}

		// Break the count update only; the like rows stay reachable.
		if _, err := db.Exec("DROP TABLE songs"); err != nil {
			t.Fatalf("failed to drop table: %v", err)
		}

		if _, err := store.ToggleLike(song.ID); err == nil {
			t.Fatal("expected the count adjustment to fail")
		}
		if store.IsLiked(song.ID) {
			t.Error("cached like state must track the removed join row")
		}

		rowLiked, err := repositories.NewListenerRepository(db).IsLiked(store.CurrentListener().ID, song.ID)
		if err != nil {
			t.Fatalf("failed to check like row: %v", err)
		}
		if rowLiked {
			t.Error("join row should be gone")
		}
	})

	t.Run("SignedOutIsNoOp", func(t *testing.T) {
		store, cat, song := setup(t)
		store.Logout()

		liked, err := store.ToggleLike(song.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if liked {
			t.Error("toggle without a listener session should report unliked")
		}

		got, _ := cat.GetSong(song.ID)
		if got.Likes != 0 {
			t.Errorf("like count should be untouched, got %d", got.Likes)
		}
	})
}

func TestFollows(t *testing.T) {
	t.Run("FollowUnfollowRoundTrip", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		registerListener(t, store, "alex@example.com", "alex")

		ok, err := store.FollowArtist(m.ID)
		if err != nil {
			t.Fatalf("failed to follow: %v", err)
		}
		if !ok {
			t.Error("expected follow to succeed")
		}
		if !store.IsFollowing(m.ID) {
			t.Error("expected following state")
		}

		ok, err = store.UnfollowArtist(m.ID)
		if err != nil {
			t.Fatalf("failed to unfollow: %v", err)
		}
		if !ok {
			t.Error("expected unfollow to report the removal")
		}
		if store.IsFollowing(m.ID) {
			t.Error("expected following state cleared")
		}
	})

	t.Run("SignedOutReportsFalse", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		m := registerMusician(t, store, "nova@example.com", "Nova Wave")
		store.Logout()

		if ok, err := store.FollowArtist(m.ID); err != nil || ok {
			t.Errorf("follow without a listener session: ok=%v err=%v", ok, err)
		}
		if ok, err := store.UnfollowArtist(m.ID); err != nil || ok {
			t.Errorf("unfollow without a listener session: ok=%v err=%v", ok, err)
		}
	})
}

func TestDeriveUsername(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"Nova Wave", "nova_wave"},
		{"  Leo King  ", "leo_king"},
		{"Glitch System", "glitch_system"},
		{"MONO", "mono"},
	} {
		if got := DeriveUsername(tc.in); got != tc.want {
			t.Errorf("DeriveUsername(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
