package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func seedMusician(t *testing.T, db *sql.DB, artistName, email string) *models.Musician {
	t.Helper()

	m := &models.Musician{
		Email:      email,
		Username:   "u_" + email,
		ArtistName: artistName,
		Genres:     []string{"Ambient"},
	}
	if err := NewMusicianRepository(db).Create(m); err != nil {
		t.Fatalf("failed to create musician: %v", err)
	}
	return m
}

func seedSong(t *testing.T, db *sql.DB, m *models.Musician, title string, playCount int, uploaded time.Time) *models.Song {
	t.Helper()

	s := &models.Song{
		Title:        title,
		MusicianID:   m.ID,
		MusicianName: m.ArtistName,
		Genre:        "Ambient",
		AudioSource:  "https://example.com/" + title + ".mp3",
		PlayCount:    playCount,
		UploadDate:   uploaded,
	}
	if err := NewSongRepository(db).Create(s); err != nil {
		t.Fatalf("failed to create song: %v", err)
	}
	return s
}

func TestSongRepository(t *testing.T) {
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateAssignsDefaults", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		m := seedMusician(t, db, "Nova Wave", "nova@example.com")
		song := &models.Song{
			Title:        "City Lights",
			MusicianID:   m.ID,
			MusicianName: m.ArtistName,
			AudioSource:  "https://example.com/a.mp3",
		}

		if err := NewSongRepository(db).Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}
		if song.ID == "" {
			t.Error("song ID should be set after creation")
		}
		if song.UploadDate.IsZero() {
			t.Error("upload date should be stamped at creation")
		}
	})

	t.Run("CreateRejectsMissingAudio", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		m := seedMusician(t, db, "Nova Wave", "nova@example.com")
		song := &models.Song{Title: "No Audio", MusicianID: m.ID, MusicianName: m.ArtistName}

		err := NewSongRepository(db).Create(song)
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("ListRankedOrdersByPlayCountThenRecency", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		m := seedMusician(t, db, "Nova Wave", "nova@example.com")
		seedSong(t, db, m, "most-played", 25, base)
		seedSong(t, db, m, "older-tie", 5, base.Add(1*time.Hour))
		seedSong(t, db, m, "newer-tie", 5, base.Add(2*time.Hour))

		songs, err := NewSongRepository(db).ListRanked()
		if err != nil {
			t.Fatalf("failed to list ranked: %v", err)
		}

		got := []string{}
		for _, s := range songs {
			got = append(got, s.Title)
		}
		want := []string{"newer-tie", "older-tie", "most-played"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("IncrementPlayCountIsMonotonic", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		m := seedMusician(t, db, "Nova Wave", "nova@example.com")
		song := seedSong(t, db, m, "track", 0, base)
		repo := NewSongRepository(db)

		for range 3 {
			if err := repo.IncrementPlayCount(song.ID); err != nil {
				t.Fatalf("failed to increment: %v", err)
			}
		}

		got, err := repo.Get(song.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.PlayCount != 3 {
			t.Errorf("expected play count 3, got %d", got.PlayCount)
		}
	})

	t.Run("IncrementPlayCountOnMissingSongIsNoOp", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewSongRepository(db).IncrementPlayCount("missing"); err != nil {
			t.Errorf("expected silent no-op, got %v", err)
		}
	})

	t.Run("AdjustLikesClampsAtZero", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		m := seedMusician(t, db, "Nova Wave", "nova@example.com")
		song := seedSong(t, db, m, "track", 0, base)
		repo := NewSongRepository(db)

		if err := repo.AdjustLikes(song.ID, -1); err != nil {
			t.Fatalf("failed to adjust likes: %v", err)
		}

		got, err := repo.Get(song.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Likes != 0 {
			t.Errorf("likes should stay clamped at 0, got %d", got.Likes)
		}
	})

	t.Run("DeleteUnknownReturnsNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewSongRepository(db).Delete("missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		m := seedMusician(t, db, "Nova Wave", "nova@example.com")
		seedSong(t, db, m, "first", 0, base)
		seedSong(t, db, m, "second", 0, base)

		songs, err := NewSongRepository(db).List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if songs[0].Title != "second" {
			t.Errorf("expected latest upload first, got %s", songs[0].Title)
		}
	})
}

func TestMusicianRepository(t *testing.T) {
	t.Run("DuplicateArtistNameRejected", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMusicianRepository(db)
		seedMusician(t, db, "Nova Wave", "nova@example.com")

		dup := &models.Musician{
			Email:      "other@example.com",
			Username:   "other",
			ArtistName: "Nova Wave",
			Genres:     []string{"Folk"},
		}
		err := repo.Create(dup)
		if !errors.Is(err, shared.ErrDuplicate) {
			t.Errorf("expected duplicate error, got %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count musicians: %v", err)
		}
		if count != 1 {
			t.Errorf("roster size should be unchanged, got %d", count)
		}
	})

	t.Run("ExistsChecksEmailAndArtistName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMusicianRepository(db)
		seedMusician(t, db, "Nova Wave", "nova@example.com")

		for _, tc := range []struct {
			email, artistName string
			want              bool
		}{
			{"nova@example.com", "Someone Else", true},
			{"fresh@example.com", "Nova Wave", true},
			{"fresh@example.com", "Someone Else", false},
		} {
			got, err := repo.Exists(tc.email, tc.artistName)
			if err != nil {
				t.Fatalf("failed to check existence: %v", err)
			}
			if got != tc.want {
				t.Errorf("Exists(%q, %q) = %v, want %v", tc.email, tc.artistName, got, tc.want)
			}
		}
	})

	t.Run("SocialLinksRoundTrip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMusicianRepository(db)
		m := &models.Musician{
			Email:       "nova@example.com",
			Username:    "nova",
			ArtistName:  "Nova Wave",
			Genres:      []string{"Synth-pop", "Ambient"},
			SocialLinks: map[string]string{"bandcamp": "https://novawave.bandcamp.com"},
		}
		if err := repo.Create(m); err != nil {
			t.Fatalf("failed to create musician: %v", err)
		}

		got, err := repo.Get(m.ID)
		if err != nil {
			t.Fatalf("failed to get musician: %v", err)
		}
		if got.SocialLinks["bandcamp"] != m.SocialLinks["bandcamp"] {
			t.Errorf("social links not preserved: %v", got.SocialLinks)
		}
		if len(got.Genres) != 2 {
			t.Errorf("genres not preserved: %v", got.Genres)
		}
	})
}

func TestListenerRepository(t *testing.T) {
	t.Run("LikesRoundTrip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewListenerRepository(db)
		listener := &models.Listener{Email: "alex@example.com", Username: "alex"}
		if err := repo.Create(listener); err != nil {
			t.Fatalf("failed to create listener: %v", err)
		}

		if err := repo.AddLike(listener.ID, "song-1"); err != nil {
			t.Fatalf("failed to add like: %v", err)
		}

		liked, err := repo.IsLiked(listener.ID, "song-1")
		if err != nil {
			t.Fatalf("failed to check like: %v", err)
		}
		if !liked {
			t.Error("expected song to be liked")
		}

		if err := repo.RemoveLike(listener.ID, "song-1"); err != nil {
			t.Fatalf("failed to remove like: %v", err)
		}
		liked, _ = repo.IsLiked(listener.ID, "song-1")
		if liked {
			t.Error("expected like to be removed")
		}
	})

	t.Run("DuplicateLikeRejected", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewListenerRepository(db)
		listener := &models.Listener{Email: "alex@example.com", Username: "alex"}
		if err := repo.Create(listener); err != nil {
			t.Fatalf("failed to create listener: %v", err)
		}

		if err := repo.AddLike(listener.ID, "song-1"); err != nil {
			t.Fatalf("failed to add like: %v", err)
		}
		err := repo.AddLike(listener.ID, "song-1")
		if !errors.Is(err, shared.ErrDuplicate) {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})

	t.Run("GetHydratesLikesAndFollows", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewListenerRepository(db)
		musician := seedMusician(t, db, "Nova Wave", "nova@example.com")
		listener := &models.Listener{Email: "alex@example.com", Username: "alex"}
		if err := repo.Create(listener); err != nil {
			t.Fatalf("failed to create listener: %v", err)
		}
		if err := repo.AddLike(listener.ID, "song-1"); err != nil {
			t.Fatalf("failed to add like: %v", err)
		}
		if err := repo.Follow(listener.ID, musician.ID); err != nil {
			t.Fatalf("failed to follow: %v", err)
		}

		got, err := repo.GetByEmail("alex@example.com")
		if err != nil {
			t.Fatalf("failed to get listener: %v", err)
		}
		if len(got.LikedSongs) != 1 || got.LikedSongs[0] != "song-1" {
			t.Errorf("liked songs not hydrated: %v", got.LikedSongs)
		}
		if len(got.FollowedArtists) != 1 || got.FollowedArtists[0] != musician.ID {
			t.Errorf("followed artists not hydrated: %v", got.FollowedArtists)
		}
	})

	t.Run("DeleteCascadesJoinRows", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewListenerRepository(db)
		listener := &models.Listener{Email: "alex@example.com", Username: "alex"}
		if err := repo.Create(listener); err != nil {
			t.Fatalf("failed to create listener: %v", err)
		}
		if err := repo.AddLike(listener.ID, "song-1"); err != nil {
			t.Fatalf("failed to add like: %v", err)
		}

		if err := repo.Delete(listener.ID); err != nil {
			t.Fatalf("failed to delete listener: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM liked_songs WHERE listener_id = ?", listener.ID).Scan(&count); err != nil {
			t.Fatalf("failed to count likes: %v", err)
		}
		if count != 0 {
			t.Errorf("expected join rows removed, got %d", count)
		}
	})
}

func TestDonationRepository(t *testing.T) {
	t.Run("AnonymousDonationStoresNullDonor", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDonationRepository(db)
		d := &models.Donation{
			DonorName:   models.AnonymousDonor,
			RecipientID: models.LabelRecipient,
			Amount:      10,
		}
		if err := repo.Create(d); err != nil {
			t.Fatalf("failed to create donation: %v", err)
		}

		got, err := repo.Get(d.ID)
		if err != nil {
			t.Fatalf("failed to get donation: %v", err)
		}
		if got.DonorID != "" {
			t.Errorf("expected empty donor id, got %q", got.DonorID)
		}
		if got.DonorName != models.AnonymousDonor {
			t.Errorf("expected donor name %q, got %q", models.AnonymousDonor, got.DonorName)
		}
	})

	t.Run("TotalSumsPerRecipient", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDonationRepository(db)
		for _, amount := range []float64{10, 25.5} {
			d := &models.Donation{
				DonorName:   models.AnonymousDonor,
				RecipientID: "musician-1",
				Amount:      amount,
			}
			if err := repo.Create(d); err != nil {
				t.Fatalf("failed to create donation: %v", err)
			}
		}

		total, err := repo.Total("musician-1")
		if err != nil {
			t.Fatalf("failed to total donations: %v", err)
		}
		if total != 35.5 {
			t.Errorf("expected total 35.5, got %v", total)
		}

		empty, err := repo.Total("musician-2")
		if err != nil {
			t.Fatalf("failed to total donations: %v", err)
		}
		if empty != 0 {
			t.Errorf("expected zero total, got %v", empty)
		}
	})
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := Seed(db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	t.Run("RosterInstalled", func(t *testing.T) {
		count, err := NewMusicianRepository(db).Count()
		if err != nil {
			t.Fatalf("failed to count musicians: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 musicians, got %d", count)
		}
	})

	t.Run("RankedOrderMatchesRoster", func(t *testing.T) {
		songs, err := NewSongRepository(db).ListRanked()
		if err != nil {
			t.Fatalf("failed to list ranked: %v", err)
		}

		want := []string{"Campfire Stories", "Forest Path", "Neon Dreams", "City Lights", "Digital Rain"}
		if len(songs) != len(want) {
			t.Fatalf("expected %d songs, got %d", len(want), len(songs))
		}
		for i := range want {
			if songs[i].Title != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], songs[i].Title)
			}
		}
	})

	t.Run("ListenerHasLikesAndFollows", func(t *testing.T) {
		alex, err := NewListenerRepository(db).GetByEmail("alex@email.com")
		if err != nil {
			t.Fatalf("failed to get seeded listener: %v", err)
		}
		if len(alex.LikedSongs) != 2 {
			t.Errorf("expected 2 liked songs, got %d", len(alex.LikedSongs))
		}
		if len(alex.FollowedArtists) != 2 {
			t.Errorf("expected 2 followed artists, got %d", len(alex.FollowedArtists))
		}
	})

	t.Run("SecondRunIsNoOp", func(t *testing.T) {
		if err := Seed(db); err != nil {
			t.Fatalf("failed to reseed: %v", err)
		}

		count, err := NewMusicianRepository(db).Count()
		if err != nil {
			t.Fatalf("failed to count musicians: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 musicians after reseed, got %d", count)
		}

		songs, err := NewSongRepository(db).ListRanked()
		if err != nil {
			t.Fatalf("failed to list ranked: %v", err)
		}
		if len(songs) != 5 {
			t.Errorf("expected 5 songs after reseed, got %d", len(songs))
		}
	})

	t.Run("LabelDonationIsAnonymous", func(t *testing.T) {
		donations, err := NewDonationRepository(db).List(map[string]any{"recipient_id": models.LabelRecipient})
		if err != nil {
			t.Fatalf("failed to list donations: %v", err)
		}
		if len(donations) != 1 {
			t.Fatalf("expected 1 label donation, got %d", len(donations))
		}
		if donations[0].DonorName != models.AnonymousDonor {
			t.Errorf("expected anonymous donor, got %q", donations[0].DonorName)
		}
	})
}
