package models

import (
	"fmt"
	"slices"
	"time"
)

// Kind discriminates the two account variants.
type Kind string

const (
	KindMusician Kind = "musician"
	KindListener Kind = "listener"
)

// LabelRecipient is the sentinel donation recipient for the label itself.
const LabelRecipient = "label"

// AnonymousDonor is the display name recorded when a donation carries no donor id.
const AnonymousDonor = "Anonymous"

// AllGenres lists the genres offered by registration and upload pickers.
var AllGenres = []string{
	"Synth-pop", "Ambient", "Folk", "Acoustic", "IDM",
	"Electronic", "Rock", "Hip-Hop", "Jazz", "Classical",
}

// ValidGenre reports whether the genre is in the label's catalog.
func ValidGenre(genre string) bool {
	return slices.Contains(AllGenres, genre)
}

// Account holds the identity fields shared by both user variants.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// User is the closed union of account variants. Exactly one variant exists per
// user and the variant is immutable after creation; variant-specific fields
// live only on the concrete types.
type User interface {
	Account() Account
	Kind() Kind
}

// Musician is the publishing account variant.
type Musician struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	ArtistName   string            `json:"artistName"`
	Bio          string            `json:"bio"`
	Genres       []string          `json:"genres"`
	ProfilePhoto string            `json:"profilePhoto"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (m *Musician) Account() Account {
	return Account{ID: m.ID, Email: m.Email, Username: m.Username}
}

func (m *Musician) Kind() Kind { return KindMusician }

// Validate checks the musician's data and returns an error if invalid.
func (m *Musician) Validate() error {
	if m.Email == "" {
		return fmt.Errorf("musician email is required")
	}
	if m.ArtistName == "" {
		return fmt.Errorf("musician artist name is required")
	}
	if len(m.Genres) == 0 {
		return fmt.Errorf("musician requires at least one genre")
	}
	return nil
}

// Listener is the consuming account variant.
//
// LikedSongs and FollowedArtists are hydrated from join rows; the identity
// store is their only writer.
type Listener struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FavoriteGenres  []string  `json:"favoriteGenres"`
	LikedSongs      []string  `json:"likedSongs"`
	FollowedArtists []string  `json:"followedArtists"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (l *Listener) Account() Account {
	return Account{ID: l.ID, Email: l.Email, Username: l.Username}
}

func (l *Listener) Kind() Kind { return KindListener }

// Validate checks the listener's data and returns an error if invalid.
func (l *Listener) Validate() error {
	if l.Email == "" {
		return fmt.Errorf("listener email is required")
	}
	if l.Username == "" {
		return fmt.Errorf("listener username is required")
	}
	return nil
}

// Song represents an uploaded track.
//
// MusicianName is a denormalized snapshot of the artist name at upload time;
// renaming an artist does not retroactively update it.
type Song struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MusicianID   string    `json:"musicianId"`
	MusicianName string    `json:"musicianName"`
	Genre        string    `json:"genre"`
	Description  string    `json:"description"`
	CoverArt     string    `json:"coverArt"`
	AudioSource  string    `json:"audioSource"`
	PlayCount    int       `json:"playCount"`
	Likes        int       `json:"likes"`
	UploadDate   time.Time `json:"uploadDate"`
}

// Validate checks the song's data and returns an error if invalid.
func (s *Song) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("song title is required")
	}
	if s.MusicianID == "" {
		return fmt.Errorf("song musician id is required")
	}
	if s.AudioSource == "" {
		return fmt.Errorf("song audio source is required")
	}
	if s.PlayCount < 0 || s.Likes < 0 {
		return fmt.Errorf("song counters must not be negative")
	}
	return nil
}

// Donation represents a support payment. Donations are append-only; they are
// never mutated or deleted after creation.
type Donation struct {
	ID          string    `json:"id"`
	DonorID     string    `json:"donorId,omitempty"` // empty means anonymous
	DonorName   string    `json:"donorName"`
	RecipientID string    `json:"recipientId"` // musician id or [LabelRecipient]
	Amount      float64   `json:"amount"`
	Message     string    `json:"message,omitempty"`
	Date        time.Time `json:"date"`
}

// Validate checks the donation's data and returns an error if invalid.
func (d *Donation) Validate() error {
	if d.Amount <= 0 {
		return fmt.Errorf("donation amount must be positive")
	}
	if d.RecipientID == "" {
		return fmt.Errorf("donation recipient is required")
	}
	if d.DonorID == "" && d.DonorName != AnonymousDonor {
		return fmt.Errorf("anonymous donation must carry the %q donor name", AnonymousDonor)
	}
	return nil
}

// SongUpload is the caller-supplied portion of a song upload. The catalog
// assigns the id, zeroes the counters, and stamps the upload date.
type SongUpload struct {
	Title       string
	MusicianID  string
	Genre       string
	Description string
	CoverArt    string
	AudioSource string
}

// DonationDraft is the caller-supplied portion of a donation. An empty DonorID
// records the donation as anonymous.
type DonationDraft struct {
	DonorID     string
	DonorName   string
	RecipientID string
	Amount      float64
	Message     string
}

// ProfilePatch carries a partial musician profile update; empty fields are
// left unchanged.
type ProfilePatch struct {
	ArtistName   string
	Bio          string
	ProfilePhoto string
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific entity types.
type Repository[T any] interface {
	Create(entity *T) error                     // Create inserts a new entity into the database
	Get(id string) (*T, error)                  // Get retrieves an entity by its ID
	Update(entity *T) error                     // Update modifies an existing entity in the database
	Delete(id string) error                     // Delete removes an entity from the database by its ID
	List(criteria map[string]any) ([]*T, error) // List retrieves all entities matching the given criteria
}
