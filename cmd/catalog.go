// Catalog browsing, song lifecycle, and donation actions
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
	"github.com/urfave/cli/v3"
)

// Browse lists songs in discovery order (fewest plays first, newest upload
// breaking ties), or newest-first with --latest.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.String("genre")
	latest := cmd.Bool("latest")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	var (
		songs []*models.Song
		err   error
	)
	if latest {
		songs, err = r.catalog.Songs()
	} else {
		songs, err = r.catalog.ListSongsRanked()
	}
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if genre != "" {
		filtered := songs[:0]
		for _, song := range songs {
			if song.Genre == genre {
				filtered = append(filtered, song)
			}
		}
		songs = filtered
	}

	if useJSON {
		return r.writeJSON(songs, pretty)
	}

	r.writePlainHeader("embrace catalog")
	for i, song := range songs {
		r.writePlain("%d. %s - %s (%s) [%d plays, %d likes]\n",
			i+1, song.MusicianName, song.Title, song.Genre, song.PlayCount, song.Likes)
	}
	return nil
}

// ArtistList prints the label roster.
func (r *Runner) ArtistList(ctx context.Context, cmd *cli.Command) error {
	musicians, err := r.catalog.Musicians()
	if err != nil {
		return fmt.Errorf("failed to list musicians: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(musicians, cmd.Bool("pretty"))
	}

	r.writePlainHeader("embrace roster")
	for _, m := range musicians {
		r.writePlain("%s  %s (%v)\n", m.ID, m.ArtistName, m.Genres)
	}
	return nil
}

// ArtistShow prints a musician's profile, ranked songs, and donation ledger.
func (r *Runner) ArtistShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	musician, err := r.catalog.GetMusician(id)
	if errors.Is(err, shared.ErrNotFound) {
		musician, err = r.catalog.MusicianByArtistName(id)
	}
	if err != nil {
		return fmt.Errorf("failed to load musician: %w", err)
	}

	export, err := r.engine.Snapshot(musician.ID)
	if err != nil {
		return fmt.Errorf("failed to assemble artist data: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	r.writePlainHeader(musician.ArtistName)
	r.writePlain("%s\n", musician.Bio)
	r.writePlain("Genres: %v\n", musician.Genres)
	r.writePlainln("Songs:")
	for i, song := range export.Songs {
		r.writePlain("  %d. %s [%d plays, %d likes]\n", i+1, song.Title, song.PlayCount, song.Likes)
	}
	r.writePlainln("Donations: $%.2f total", export.Total)
	for _, d := range export.Donations {
		r.writePlain("  %s: $%.2f\n", d.DonorName, d.Amount)
	}
	return nil
}

// ArtistUpdate merges profile changes for the musician owning the email.
func (r *Runner) ArtistUpdate(ctx context.Context, cmd *cli.Command) error {
	musician, err := r.catalog.MusicianByEmail(cmd.String("email"))
	if err != nil {
		return fmt.Errorf("failed to load musician: %w", err)
	}

	patch := models.ProfilePatch{
		ArtistName:   cmd.String("name"),
		Bio:          cmd.String("bio"),
		ProfilePhoto: cmd.String("photo"),
	}

	updated, err := r.catalog.UpdateMusicianProfile(musician.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	r.writePlain("✓ profile updated for %s\n", updated.ArtistName)
	return nil
}

// SongUpload adds a song to the catalog for the musician owning the email.
func (r *Runner) SongUpload(ctx context.Context, cmd *cli.Command) error {
	musician, err := r.catalog.MusicianByEmail(cmd.String("email"))
	if err != nil {
		return fmt.Errorf("failed to load musician: %w", err)
	}

	if genre := cmd.String("genre"); genre != "" && !models.ValidGenre(genre) {
		return fmt.Errorf("%w: unknown genre %q (choose from %v)", shared.ErrValidation, genre, models.AllGenres)
	}

	song, err := r.catalog.UploadSong(models.SongUpload{
		Title:       cmd.String("title"),
		MusicianID:  musician.ID,
		Genre:       cmd.String("genre"),
		Description: cmd.String("description"),
		CoverArt:    cmd.String("cover"),
		AudioSource: cmd.String("audio"),
	})
	if err != nil {
		return fmt.Errorf("upload rejected: %w", err)
	}

	r.writePlain("✓ uploaded %s (%s)\n", song.Title, song.ID)
	return nil
}

// SongDelete removes a song, requiring the owning musician's email.
func (r *Runner) SongDelete(ctx context.Context, cmd *cli.Command) error {
	musician, err := r.catalog.MusicianByEmail(cmd.String("email"))
	if err != nil {
		return fmt.Errorf("failed to load musician: %w", err)
	}

	songID := cmd.String("id")
	song, err := r.catalog.GetSong(songID)
	if err != nil {
		return fmt.Errorf("failed to load song: %w", err)
	}
	if song.MusicianID != musician.ID {
		return fmt.Errorf("%w: %s does not own song %s", shared.ErrNotAuthorized, musician.ArtistName, songID)
	}

	if err := r.catalog.DeleteSong(songID); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	r.writePlain("✓ deleted %s\n", song.Title)
	return nil
}

// SongPlay selects a track on the playback session, listens for the given
// number of seconds, and reports the final session state.
func (r *Runner) SongPlay(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.String("id")
	seconds := cmd.Int("seconds")

	if err := r.player.Play(songID); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(seconds) * time.Second):
	}

	state := r.player.Now()
	r.writePlain("▶ %s - %s  %v / %v\n",
		state.Song.MusicianName, state.Song.Title,
		state.Position.Round(time.Second), state.Duration.Round(time.Second))
	return nil
}

// Donate records a donation to a musician or the label.
func (r *Runner) Donate(ctx context.Context, cmd *cli.Command) error {
	draft := models.DonationDraft{
		RecipientID: cmd.String("to"),
		Amount:      cmd.Float("amount"),
		Message:     cmd.String("message"),
	}

	if email := cmd.String("from"); email != "" {
		kind := models.Kind(cmd.String("as"))
		ok, err := r.session.Login(email, kind)
		if err != nil {
			return fmt.Errorf("failed to resolve donor: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: no %s account for %s", shared.ErrNotFound, kind, email)
		}
		user := r.session.CurrentUser()
		draft.DonorID = user.Account().ID
		draft.DonorName = user.Account().Username
	}

	donation, err := r.catalog.AddDonation(draft)
	if err != nil {
		return fmt.Errorf("donation rejected: %w", err)
	}

	r.writePlain("✓ %s donated $%.2f to %s\n", donation.DonorName, donation.Amount, donation.RecipientID)
	return nil
}
