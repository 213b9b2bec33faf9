package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/repositories"
	"github.com/embracefm/embrace/internal/services"
	"github.com/embracefm/embrace/internal/shared"
)

// BioTimeout bounds the biography drafting call during musician registration.
// Registration always completes within this window, with a fallback bio if
// the drafter is slow or down.
const BioTimeout = 10 * time.Second

// profilePhotoURL generates a deterministic avatar for a fresh account.
const profilePhotoURL = "https://i.pravatar.cc/150?u=%s"

// EventKind enumerates session change notifications.
type EventKind int

const (
	SessionChanged EventKind = iota
	LikeToggled
	FollowChanged
)

func (k EventKind) String() string {
	switch k {
	case SessionChanged:
		return "session_changed"
	case LikeToggled:
		return "like_toggled"
	case FollowChanged:
		return "follow_changed"
	default:
		return ""
	}
}

// Event is a session change notification. ID names the affected song or
// musician for relation events and the user for session events.
type Event struct {
	Kind EventKind
	ID   string
}

// Store is the observable session. At most one user is signed in at a time.
type Store struct {
	mu        sync.Mutex
	listeners *repositories.ListenerRepository
	catalog   *catalog.Catalog
	drafter   services.BioDrafter
	logger    *log.Logger
	current   models.User

	subMu sync.Mutex
	subs  []chan Event
}

// New creates a session store. A nil drafter is valid and means every
// musician registration uses the local fallback biography.
func New(db *sql.DB, cat *catalog.Catalog, drafter services.BioDrafter, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		listeners: repositories.NewListenerRepository(db),
		catalog:   cat,
		drafter:   drafter,
		logger:    shared.WithLogger(logger, "component", "identity"),
	}
}

// Subscribe registers a buffered channel that receives session change events.
// Delivery is best-effort; a full channel drops the event.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// CurrentUser returns the signed-in user, or nil when anonymous.
func (s *Store) CurrentUser() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentListener returns the signed-in listener, or nil when anonymous or
// signed in as a musician.
func (s *Store) CurrentListener() *models.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.current.(*models.Listener); ok {
		return l
	}
	return nil
}

// CurrentMusician returns the signed-in musician, or nil when anonymous or
// signed in as a listener.
func (s *Store) CurrentMusician() *models.Musician {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.current.(*models.Musician); ok {
		return m
	}
	return nil
}

// Login looks up a user of the given variant by email and signs them in.
// A missing account is an expected outcome and reports false with no error.
func (s *Store) Login(email string, kind models.Kind) (bool, error) {
	var (
		user models.User
		err  error
	)
	switch kind {
	case models.KindListener:
		user, err = s.listeners.GetByEmail(email)
	case models.KindMusician:
		user, err = s.catalog.MusicianByEmail(email)
	default:
		return false, fmt.Errorf("%w: unknown account kind %q", shared.ErrInvalidArgument, kind)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	s.logger.Info("signed in", "user", user.Account().ID, "kind", kind)
	s.notify(Event{Kind: SessionChanged, ID: user.Account().ID})
	return true, nil
}

// Logout signs out unconditionally.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.logger.Info("signed out")
	s.notify(Event{Kind: SessionChanged})
}

// RegisterListener creates a listener account and signs it in. A taken email
// or username reports false with no error.
func (s *Store) RegisterListener(email, username string) (bool, error) {
	if email == "" || username == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken, err := s.listeners.Exists(email, username)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	listener := &models.Listener{Email: email, Username: username}
	if err := s.listeners.Create(listener); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	s.current = listener
	s.logger.Info("listener registered", "listener", listener.ID, "username", username)
	s.notify(Event{Kind: SessionChanged, ID: listener.ID})
	return true, nil
}

// RegisterMusician creates a musician account and signs it in. Fails
// synchronously when the email or artist name is taken or no genre is given.
// The biography is drafted under [BioTimeout]; drafting failure never fails
// the registration. Uniqueness is re-checked after the draft so a duplicate
// that raced the suspension loses.
func (s *Store) RegisterMusician(ctx context.Context, email, artistName string, genres []string) (bool, error) {
	if email == "" || artistName == "" || len(genres) == 0 {
		return false, nil
	}

	taken, err := s.catalog.MusicianExists(email, artistName)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	bio := s.draftBio(ctx, artistName, genres)

	s.mu.Lock()
	defer s.mu.Unlock()

	taken, err = s.catalog.MusicianExists(email, artistName)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	username := DeriveUsername(artistName)
	musician := &models.Musician{
		Email:        email,
		Username:     username,
		ArtistName:   artistName,
		Bio:          bio,
		Genres:       genres,
		ProfilePhoto: fmt.Sprintf(profilePhotoURL, username),
	}

	if err := s.catalog.AddMusician(musician); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	s.current = musician
	s.logger.Info("musician registered", "musician", musician.ID, "artist", artistName)
	s.notify(Event{Kind: SessionChanged, ID: musician.ID})
	return true, nil
}

// draftBio asks the drafter for a biography, substituting the local fallback
// on any failure or when no drafter is configured.
func (s *Store) draftBio(ctx context.Context, artistName string, genres []string) string {
	genreLabel := strings.Join(genres, ", ")

	if s.drafter == nil {
		return services.FallbackBio(artistName, genreLabel, shared.ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, BioTimeout)
	defer cancel()

	bio, err := s.drafter.Draft(ctx, artistName, genreLabel)
	if err != nil {
		s.logger.Warn("bio drafting failed, using fallback", "drafter", s.drafter.Name(), "error", err)
		return services.FallbackBio(artistName, genreLabel, err)
	}
	return bio
}

// ToggleLike flips the signed-in listener's like for a song and adjusts the
// song's like count by the matching delta as one logical step. Returns the
// new liked state. Not being signed in as a listener is a no-op reporting
// unliked.
func (s *Store) ToggleLike(songID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, ok := s.current.(*models.Listener)
	if !ok {
		return false, nil
	}

	liked, err := s.listeners.IsLiked(listener.ID, songID)
	if err != nil {
		return false, err
	}

	// The cached slice tracks the join rows, not the count adjustment, so
	// IsLiked stays truthful even when the count update fails afterwards.
	if liked {
		if err := s.listeners.RemoveLike(listener.ID, songID); err != nil {
			return true, err
		}
		listener.LikedSongs = removeID(listener.LikedSongs, songID)
		if err := s.catalog.AdjustLikes(songID, -1); err != nil {
			return false, err
		}
		s.notify(Event{Kind: LikeToggled, ID: songID})
		return false, nil
	}

	if err := s.listeners.AddLike(listener.ID, songID); err != nil {
		return false, err
	}
	listener.LikedSongs = append(listener.LikedSongs, songID)
	if err := s.catalog.AdjustLikes(songID, 1); err != nil {
		return true, err
	}
	s.notify(Event{Kind: LikeToggled, ID: songID})
	return true, nil
}

// IsLiked reports whether the signed-in listener has liked the song. Always
// false when not signed in as a listener.
func (s *Store) IsLiked(songID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, ok := s.current.(*models.Listener)
	if !ok {
		return false
	}
	for _, id := range listener.LikedSongs {
		if id == songID {
			return true
		}
	}
	return false
}

// FollowArtist records that the signed-in listener follows a musician.
// Reports true when the listener ends up following (including when the follow
// already existed); not being signed in as a listener is a no-op reporting
// false.
func (s *Store) FollowArtist(musicianID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, ok := s.current.(*models.Listener)
	if !ok {
		return false, nil
	}

	following, err := s.listeners.IsFollowing(listener.ID, musicianID)
	if err != nil {
		return false, err
	}
	if following {
		return true, nil
	}

	if err := s.listeners.Follow(listener.ID, musicianID); err != nil {
		return false, err
	}
	listener.FollowedArtists = append(listener.FollowedArtists, musicianID)
	s.notify(Event{Kind: FollowChanged, ID: musicianID})
	return true, nil
}

// UnfollowArtist removes the signed-in listener's follow of a musician.
// Reports true when the follow was removed (a no-op removal counts); not
// being signed in as a listener is a no-op reporting false.
func (s *Store) UnfollowArtist(musicianID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, ok := s.current.(*models.Listener)
	if !ok {
		return false, nil
	}

	if err := s.listeners.Unfollow(listener.ID, musicianID); err != nil {
		return false, err
	}
	listener.FollowedArtists = removeID(listener.FollowedArtists, musicianID)
	s.notify(Event{Kind: FollowChanged, ID: musicianID})
	return true, nil
}

// IsFollowing reports whether the signed-in listener follows the musician.
func (s *Store) IsFollowing(musicianID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, ok := s.current.(*models.Listener)
	if !ok {
		return false
	}
	for _, id := range listener.FollowedArtists {
		if id == musicianID {
			return true
		}
	}
	return false
}

// DeriveUsername builds the account username from an artist name: lowercased
// with spaces collapsed to underscores.
func DeriveUsername(artistName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(artistName)), " ", "_")
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
