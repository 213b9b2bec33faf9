package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/embracefm/embrace/internal/models"
)

// Seed installs the label's demo roster: three musicians, one listener, five
// songs, and two donations. A database that already holds musicians is left
// untouched, so a file-backed catalog survives restarts without tripping the
// roster's uniqueness constraints.
func Seed(db *sql.DB) error {
	musicians := NewMusicianRepository(db)
	listeners := NewListenerRepository(db)
	songs := NewSongRepository(db)
	donations := NewDonationRepository(db)

	count, err := musicians.Count()
	if err != nil {
		return fmt.Errorf("failed to check roster: %w", err)
	}
	if count > 0 {
		return nil
	}

	nova := &models.Musician{
		Email:        "nova@embrace.fm",
		Username:     "nova_wave",
		ArtistName:   "Nova Wave",
		Bio:          "Crafting ethereal soundscapes from the heart of the city. Nova Wave blends synth-pop with ambient textures to create a unique auditory experience.",
		Genres:       []string{"Synth-pop", "Ambient"},
		ProfilePhoto: "https://i.pravatar.cc/150?u=musician-1",
	}
	leo := &models.Musician{
		Email:        "leo@embrace.fm",
		Username:     "leo_king",
		ArtistName:   "Leo King",
		Bio:          "Acoustic soul-stirring melodies and heartfelt lyrics. Leo King brings a raw, honest approach to folk music.",
		Genres:       []string{"Folk", "Acoustic"},
		ProfilePhoto: "https://i.pravatar.cc/150?u=musician-2",
	}
	glitch := &models.Musician{
		Email:        "glitch@embrace.fm",
		Username:     "glitch_system",
		ArtistName:   "Glitch System",
		Bio:          "Pushing the boundaries of electronic music with experimental beats and complex rhythms. For the adventurous listener.",
		Genres:       []string{"IDM", "Electronic"},
		ProfilePhoto: "https://i.pravatar.cc/150?u=musician-3",
	}

	for _, m := range []*models.Musician{nova, leo, glitch} {
		if err := musicians.Create(m); err != nil {
			return fmt.Errorf("failed to seed musician %s: %w", m.ArtistName, err)
		}
	}

	roster := []*models.Song{
		{
			Title:        "City Lights",
			MusicianID:   nova.ID,
			MusicianName: nova.ArtistName,
			Genre:        "Synth-pop",
			Description:  "A shimmering track for late-night drives.",
			CoverArt:     "https://picsum.photos/seed/song1/400/400",
			AudioSource:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
			PlayCount:    12,
			Likes:        3,
			UploadDate:   time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Forest Path",
			MusicianID:   leo.ID,
			MusicianName: leo.ArtistName,
			Genre:        "Folk",
			Description:  "An acoustic journey through nature.",
			CoverArt:     "https://picsum.photos/seed/song2/400/400",
			AudioSource:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
			PlayCount:    5,
			Likes:        1,
			UploadDate:   time.Date(2024, 7, 22, 11, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Digital Rain",
			MusicianID:   glitch.ID,
			MusicianName: glitch.ArtistName,
			Genre:        "IDM",
			Description:  "Complex rhythms for a complex world.",
			CoverArt:     "https://picsum.photos/seed/song3/400/400",
			AudioSource:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
			PlayCount:    25,
			Likes:        8,
			UploadDate:   time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Neon Dreams",
			MusicianID:   nova.ID,
			MusicianName: nova.ArtistName,
			Genre:        "Synth-pop",
			Description:  "The sequel to City Lights, diving deeper into the night.",
			CoverArt:     "https://picsum.photos/seed/song4/400/400",
			AudioSource:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3",
			PlayCount:    8,
			Likes:        2,
			UploadDate:   time.Date(2024, 7, 23, 18, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Campfire Stories",
			MusicianID:   leo.ID,
			MusicianName: leo.ArtistName,
			Genre:        "Acoustic",
			Description:  "Warm chords and a story to tell.",
			CoverArt:     "https://picsum.photos/seed/song5/400/400",
			AudioSource:  "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3",
			PlayCount:    3,
			Likes:        1,
			UploadDate:   time.Date(2024, 7, 24, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, s := range roster {
		if err := songs.Create(s); err != nil {
			return fmt.Errorf("failed to seed song %s: %w", s.Title, err)
		}
	}

	alex := &models.Listener{
		Email:          "alex@email.com",
		Username:       "AlexTheExplorer",
		FavoriteGenres: []string{"Synth-pop", "IDM"},
	}
	if err := listeners.Create(alex); err != nil {
		return fmt.Errorf("failed to seed listener: %w", err)
	}

	// City Lights and Neon Dreams
	for _, songID := range []string{roster[0].ID, roster[3].ID} {
		if err := listeners.AddLike(alex.ID, songID); err != nil {
			return fmt.Errorf("failed to seed like: %w", err)
		}
	}
	for _, musicianID := range []string{nova.ID, glitch.ID} {
		if err := listeners.Follow(alex.ID, musicianID); err != nil {
			return fmt.Errorf("failed to seed follow: %w", err)
		}
	}

	seedDonations := []*models.Donation{
		{
			DonorID:     alex.ID,
			DonorName:   alex.Username,
			RecipientID: leo.ID,
			Amount:      10,
			Message:     "Love your new song!",
			Date:        time.Date(2024, 7, 22, 15, 0, 0, 0, time.UTC),
		},
		{
			DonorName:   models.AnonymousDonor,
			RecipientID: models.LabelRecipient,
			Amount:      50,
			Message:     "Keep up the great work supporting new artists.",
			Date:        time.Date(2024, 7, 21, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, d := range seedDonations {
		if err := donations.Create(d); err != nil {
			return fmt.Errorf("failed to seed donation: %w", err)
		}
	}

	return nil
}
