package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/repositories"
	"github.com/embracefm/embrace/internal/shared"
)

// Catalog is the authoritative observable store of songs, musicians, and donations.
type Catalog struct {
	mu        sync.Mutex
	songs     *repositories.SongRepository
	musicians *repositories.MusicianRepository
	donations *repositories.DonationRepository
	logger    *log.Logger

	subMu sync.Mutex
	subs  []chan Event
}

// New creates a Catalog over the given database connection.
func New(db *sql.DB, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{
		songs:     repositories.NewSongRepository(db),
		musicians: repositories.NewMusicianRepository(db),
		donations: repositories.NewDonationRepository(db),
		logger:    shared.WithLogger(logger, "component", "catalog"),
	}
}

// Subscribe registers a buffered channel that receives catalog change events.
// Events are delivered best-effort: a full channel drops the event rather than
// blocking a mutation.
func (c *Catalog) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()
	return ch
}

// notify pushes an event to all subscribers without blocking.
func (c *Catalog) notify(ev Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber fell behind, skip this event
		}
	}
}

// ListSongsRanked returns every song in the canonical discovery order:
// ascending play count, ties broken by most recent upload. Recomputed from
// current state on every call.
func (c *Catalog) ListSongsRanked() ([]*models.Song, error) {
	return c.songs.ListRanked()
}

// SongsByArtist returns the musician's songs in the same ranked order.
func (c *Catalog) SongsByArtist(musicianID string) ([]*models.Song, error) {
	return c.songs.ListRankedByMusician(musicianID)
}

// Songs returns every song, newest upload first.
func (c *Catalog) Songs() ([]*models.Song, error) {
	return c.songs.List(map[string]any{})
}

// GetSong retrieves a song by id.
func (c *Catalog) GetSong(id string) (*models.Song, error) {
	return c.songs.Get(id)
}

// UploadSong validates the upload, assigns a fresh id with zeroed counters and
// the current time, and adds the song to the catalog. The musician must exist
// and an audio source must be present.
func (c *Catalog) UploadSong(upload models.SongUpload) (*models.Song, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if upload.AudioSource == "" {
		return nil, fmt.Errorf("%w: audio source is required", shared.ErrValidation)
	}

	musician, err := c.musicians.Get(upload.MusicianID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: musician %s does not exist", shared.ErrValidation, upload.MusicianID)
		}
		return nil, err
	}

	song := &models.Song{
		Title:        upload.Title,
		MusicianID:   musician.ID,
		MusicianName: musician.ArtistName,
		Genre:        upload.Genre,
		Description:  upload.Description,
		CoverArt:     upload.CoverArt,
		AudioSource:  upload.AudioSource,
	}

	if err := c.songs.Create(song); err != nil {
		return nil, err
	}

	c.logger.Info("song uploaded", "song", song.ID, "title", song.Title, "artist", song.MusicianName)
	c.notify(Event{Kind: SongUploaded, ID: song.ID})
	return song, nil
}

// DeleteSong removes a song from the catalog. Returns [shared.ErrNotFound]
// for an unknown id. Donation and like records referencing the song are left
// untouched.
func (c *Catalog) DeleteSong(songID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.songs.Delete(songID); err != nil {
		return err
	}

	c.logger.Info("song deleted", "song", songID)
	c.notify(Event{Kind: SongDeleted, ID: songID})
	return nil
}

// IncrementPlayCount atomically bumps a song's play count by 1. A play event
// for a song deleted in the meantime is a silent no-op.
func (c *Catalog) IncrementPlayCount(songID string) error {
	if err := c.songs.IncrementPlayCount(songID); err != nil {
		return err
	}
	c.notify(Event{Kind: SongPlayed, ID: songID})
	return nil
}

// AdjustLikes applies delta (+1 or -1) to a song's like count, clamped at
// zero. The identity store guarantees at most one call per like toggle.
func (c *Catalog) AdjustLikes(songID string, delta int) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: like delta must be +1 or -1, got %d", shared.ErrInvalidArgument, delta)
	}
	if err := c.songs.AdjustLikes(songID, delta); err != nil {
		return err
	}
	c.notify(Event{Kind: SongLiked, ID: songID})
	return nil
}

// AddDonation records a donation. The amount must be positive; an empty donor
// id records the donation as anonymous.
func (c *Catalog) AddDonation(draft models.DonationDraft) (*models.Donation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if draft.Amount <= 0 {
		return nil, fmt.Errorf("%w: donation amount must be positive", shared.ErrValidation)
	}

	donorName := draft.DonorName
	if draft.DonorID == "" {
		donorName = models.AnonymousDonor
	}

	donation := &models.Donation{
		DonorID:     draft.DonorID,
		DonorName:   donorName,
		RecipientID: draft.RecipientID,
		Amount:      draft.Amount,
		Message:     draft.Message,
	}

	if err := c.donations.Create(donation); err != nil {
		return nil, err
	}

	c.logger.Info("donation recorded", "donation", donation.ID, "recipient", donation.RecipientID, "amount", donation.Amount)
	c.notify(Event{Kind: DonationAdded, ID: donation.ID})
	return donation, nil
}

// Donations returns every donation, newest first.
func (c *Catalog) Donations() ([]*models.Donation, error) {
	return c.donations.List(map[string]any{})
}

// DonationsForRecipient returns donations addressed to a musician or to the
// label sentinel, newest first.
func (c *Catalog) DonationsForRecipient(recipientID string) ([]*models.Donation, error) {
	return c.donations.List(map[string]any{"recipient_id": recipientID})
}

// DonationTotal returns the sum donated to a recipient.
func (c *Catalog) DonationTotal(recipientID string) (float64, error) {
	return c.donations.Total(recipientID)
}

// Musicians returns every musician on the roster in signup order.
func (c *Catalog) Musicians() ([]*models.Musician, error) {
	return c.musicians.List(map[string]any{})
}

// GetMusician retrieves a musician by id.
func (c *Catalog) GetMusician(id string) (*models.Musician, error) {
	return c.musicians.Get(id)
}

// MusicianByEmail retrieves a musician by email.
func (c *Catalog) MusicianByEmail(email string) (*models.Musician, error) {
	return c.musicians.GetByEmail(email)
}

// MusicianByArtistName retrieves a musician by artist name.
func (c *Catalog) MusicianByArtistName(artistName string) (*models.Musician, error) {
	return c.musicians.GetByArtistName(artistName)
}

// MusicianExists reports whether the email or artist name is already taken.
func (c *Catalog) MusicianExists(email, artistName string) (bool, error) {
	return c.musicians.Exists(email, artistName)
}

// AddMusician adds a registered musician to the roster. Duplicate email or
// artist name surfaces as [shared.ErrDuplicate].
func (c *Catalog) AddMusician(musician *models.Musician) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.musicians.Create(musician); err != nil {
		return err
	}

	c.logger.Info("musician added", "musician", musician.ID, "artist", musician.ArtistName)
	c.notify(Event{Kind: MusicianAdded, ID: musician.ID})
	return nil
}

// UpdateMusicianProfile merges the non-empty patch fields into a musician's
// profile. Songs keep the artist name snapshotted at their upload.
func (c *Catalog) UpdateMusicianProfile(musicianID string, patch models.ProfilePatch) (*models.Musician, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	musician, err := c.musicians.Get(musicianID)
	if err != nil {
		return nil, err
	}

	if patch.ArtistName != "" {
		musician.ArtistName = patch.ArtistName
	}
	if patch.Bio != "" {
		musician.Bio = patch.Bio
	}
	if patch.ProfilePhoto != "" {
		musician.ProfilePhoto = patch.ProfilePhoto
	}

	if err := c.musicians.Update(musician); err != nil {
		return nil, err
	}

	c.logger.Info("musician profile updated", "musician", musician.ID)
	c.notify(Event{Kind: MusicianUpdated, ID: musician.ID})
	return musician, nil
}
