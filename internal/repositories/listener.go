package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// ListenerRepository implements [models.Repository] for [models.Listener] persistence.
//
// Liked songs and followed artists are join rows hydrated on every read; the
// identity store is their only writer.
type ListenerRepository struct {
	db *sql.DB
}

// NewListenerRepository creates a new ListenerRepository with the given database connection
func NewListenerRepository(db *sql.DB) *ListenerRepository {
	return &ListenerRepository{db: db}
}

// Create inserts a new [models.Listener] into the database with generated ID and sequence
func (r *ListenerRepository) Create(listener *models.Listener) error {
	sequence, err := NextSequence(r.db, "listeners")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if listener.ID == "" {
		listener.ID = shared.GenerateID()
	}
	now := time.Now()
	listener.CreatedAt = now
	listener.UpdatedAt = now

	if err := listener.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO listeners (id, sequence, email, username, favorite_genres, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		listener.ID,
		sequence,
		listener.Email,
		listener.Username,
		shared.JoinList(listener.FavoriteGenres),
		listener.CreatedAt,
		listener.UpdatedAt,
	)
	if err != nil {
		return wrapConstraint(fmt.Errorf("failed to insert listener: %w", err), "listener email or username")
	}

	return nil
}

// Get retrieves a listener by ID with likes and follows hydrated
func (r *ListenerRepository) Get(id string) (*models.Listener, error) {
	return r.hydrate(r.scanOne(r.db.QueryRow(listenerSelect+" WHERE id = ?", id)))
}

// GetByEmail retrieves a listener by email with likes and follows hydrated
func (r *ListenerRepository) GetByEmail(email string) (*models.Listener, error) {
	return r.hydrate(r.scanOne(r.db.QueryRow(listenerSelect+" WHERE email = ?", email)))
}

// GetByUsername retrieves a listener by username
func (r *ListenerRepository) GetByUsername(username string) (*models.Listener, error) {
	return r.hydrate(r.scanOne(r.db.QueryRow(listenerSelect+" WHERE username = ?", username)))
}

// Exists reports whether any listener already uses the given email or username.
func (r *ListenerRepository) Exists(email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM listeners WHERE email = ? OR username = ?)",
		email, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check listener existence: %w", err)
	}
	return exists, nil
}

// Update modifies an existing listener's favorite genres in the database
func (r *ListenerRepository) Update(listener *models.Listener) error {
	if err := listener.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	listener.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		"UPDATE listeners SET favorite_genres = ?, updated_at = ? WHERE id = ?",
		shared.JoinList(listener.FavoriteGenres),
		listener.UpdatedAt,
		listener.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listener: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: listener %s", shared.ErrNotFound, listener.ID)
	}

	return nil
}

// Delete removes a listener and its join rows by ID
func (r *ListenerRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM liked_songs WHERE listener_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	if _, err := r.db.Exec("DELETE FROM followed_artists WHERE listener_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete follows: %w", err)
	}

	result, err := r.db.Exec("DELETE FROM listeners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete listener: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: listener %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all listeners matching the given criteria in insertion order
func (r *ListenerRepository) List(criteria map[string]any) ([]*models.Listener, error) {
	query := listenerSelect
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " WHERE email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listeners: %w", err)
	}
	defer rows.Close()

	var listeners []*models.Listener
	for rows.Next() {
		var (
			listener models.Listener
			genres   string
		)
		err := rows.Scan(
			&listener.ID,
			&listener.Email,
			&listener.Username,
			&genres,
			&listener.CreatedAt,
			&listener.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listener: %w", err)
		}
		listener.FavoriteGenres = shared.SplitList(genres)
		listeners = append(listeners, &listener)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return listeners, nil
}

// AddLike records that a listener likes a song. Duplicate likes are rejected
// by the primary key so a toggle can never double-count.
func (r *ListenerRepository) AddLike(listenerID, songID string) error {
	_, err := r.db.Exec(
		"INSERT INTO liked_songs (listener_id, song_id, liked_at) VALUES (?, ?, ?)",
		listenerID, songID, time.Now(),
	)
	if err != nil {
		return wrapConstraint(fmt.Errorf("failed to add like: %w", err), "like")
	}
	return nil
}

// RemoveLike deletes a listener's like for a song.
func (r *ListenerRepository) RemoveLike(listenerID, songID string) error {
	_, err := r.db.Exec(
		"DELETE FROM liked_songs WHERE listener_id = ? AND song_id = ?",
		listenerID, songID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

// IsLiked reports whether the listener has liked the song.
func (r *ListenerRepository) IsLiked(listenerID, songID string) (bool, error) {
	var liked bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM liked_songs WHERE listener_id = ? AND song_id = ?)",
		listenerID, songID,
	).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// LikedSongs returns the song ids the listener has liked, oldest first.
func (r *ListenerRepository) LikedSongs(listenerID string) ([]string, error) {
	return r.joinColumn(
		"SELECT song_id FROM liked_songs WHERE listener_id = ? ORDER BY liked_at ASC",
		listenerID,
	)
}

// Follow records that a listener follows a musician.
func (r *ListenerRepository) Follow(listenerID, musicianID string) error {
	_, err := r.db.Exec(
		"INSERT INTO followed_artists (listener_id, musician_id, followed_at) VALUES (?, ?, ?)",
		listenerID, musicianID, time.Now(),
	)
	if err != nil {
		return wrapConstraint(fmt.Errorf("failed to add follow: %w", err), "follow")
	}
	return nil
}

// Unfollow deletes a listener's follow of a musician.
func (r *ListenerRepository) Unfollow(listenerID, musicianID string) error {
	_, err := r.db.Exec(
		"DELETE FROM followed_artists WHERE listener_id = ? AND musician_id = ?",
		listenerID, musicianID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether the listener follows the musician.
func (r *ListenerRepository) IsFollowing(listenerID, musicianID string) (bool, error) {
	var following bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM followed_artists WHERE listener_id = ? AND musician_id = ?)",
		listenerID, musicianID,
	).Scan(&following)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return following, nil
}

// FollowedArtists returns the musician ids the listener follows, oldest first.
func (r *ListenerRepository) FollowedArtists(listenerID string) ([]string, error) {
	return r.joinColumn(
		"SELECT musician_id FROM followed_artists WHERE listener_id = ? ORDER BY followed_at ASC",
		listenerID,
	)
}

const listenerSelect = `
	SELECT id, email, username, favorite_genres, created_at, updated_at
	FROM listeners`

// scanOne scans a single [sql.Row] into a [models.Listener]
func (r *ListenerRepository) scanOne(row *sql.Row) (*models.Listener, error) {
	var (
		listener models.Listener
		genres   string
	)

	err := row.Scan(
		&listener.ID,
		&listener.Email,
		&listener.Username,
		&genres,
		&listener.CreatedAt,
		&listener.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: listener", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan listener: %w", err)
	}

	listener.FavoriteGenres = shared.SplitList(genres)
	return &listener, nil
}

// hydrate fills a listener's liked songs and followed artists from join rows
func (r *ListenerRepository) hydrate(listener *models.Listener, err error) (*models.Listener, error) {
	if err != nil {
		return nil, err
	}

	if listener.LikedSongs, err = r.LikedSongs(listener.ID); err != nil {
		return nil, err
	}
	if listener.FollowedArtists, err = r.FollowedArtists(listener.ID); err != nil {
		return nil, err
	}

	return listener, nil
}

// joinColumn collects a single-column id query into a slice
func (r *ListenerRepository) joinColumn(query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query join rows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan join row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}
