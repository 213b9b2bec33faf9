package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// SongRepository implements [models.Repository] for [models.Song] persistence.
//
// Play-count and like mutations are single atomic SQL updates so a play event
// racing a delete can never resurrect a row or crash.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.Song] into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.Song) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if song.ID == "" {
		song.ID = shared.GenerateID()
	}
	if song.UploadDate.IsZero() {
		song.UploadDate = time.Now()
	}

	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO songs (id, sequence, title, musician_id, musician_name, genre, description, cover_art, audio_source, play_count, likes, upload_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		song.ID,
		sequence,
		song.Title,
		song.MusicianID,
		song.MusicianName,
		song.Genre,
		song.Description,
		song.CoverArt,
		song.AudioSource,
		song.PlayCount,
		song.Likes,
		song.UploadDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := songSelect + " WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing song's mutable metadata in the database
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		UPDATE songs
		SET title = ?, genre = ?, description = ?, cover_art = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, song.Title, song.Genre, song.Description, song.CoverArt, song.ID)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: song %s", shared.ErrNotFound, song.ID)
	}

	return nil
}

// Delete removes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: song %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all songs matching the given criteria, newest upload first
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := songSelect
	args := []any{}
	where := ""

	if musicianID, ok := criteria["musician_id"].(string); ok && musicianID != "" {
		where = " WHERE musician_id = ?"
		args = append(args, musicianID)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		if where == "" {
			where = " WHERE genre = ?"
		} else {
			where += " AND genre = ?"
		}
		args = append(args, genre)
	}

	query += where + " ORDER BY sequence DESC"

	return r.queryMany(query, args...)
}

// ListRanked retrieves all songs in the canonical discovery order:
// least-played first, ties broken by most recent upload. The ordering is
// recomputed on every call rather than cached.
func (r *SongRepository) ListRanked() ([]*models.Song, error) {
	query := songSelect + " ORDER BY play_count ASC, upload_date DESC"
	return r.queryMany(query)
}

// ListRankedByMusician retrieves a musician's songs in the canonical discovery order.
func (r *SongRepository) ListRankedByMusician(musicianID string) ([]*models.Song, error) {
	query := songSelect + " WHERE musician_id = ? ORDER BY play_count ASC, upload_date DESC"
	return r.queryMany(query, musicianID)
}

// IncrementPlayCount atomically increments a song's play count by 1.
// A missing song is a silent no-op: a play event racing a delete must not fail.
func (r *SongRepository) IncrementPlayCount(id string) error {
	_, err := r.db.Exec("UPDATE songs SET play_count = play_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment play count: %w", err)
	}
	return nil
}

// AdjustLikes atomically applies delta to a song's like count, clamped at zero.
// A missing song is a silent no-op so unliking an already-deleted song succeeds.
func (r *SongRepository) AdjustLikes(id string, delta int) error {
	_, err := r.db.Exec("UPDATE songs SET likes = MAX(0, likes + ?) WHERE id = ?", delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust likes: %w", err)
	}
	return nil
}

const songSelect = `
	SELECT id, title, musician_id, musician_name, genre, description, cover_art, audio_source, play_count, likes, upload_date
	FROM songs`

// scanOne scans a single [sql.Row] into a [models.Song]
func (r *SongRepository) scanOne(row *sql.Row) (*models.Song, error) {
	var song models.Song

	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.MusicianID,
		&song.MusicianName,
		&song.Genre,
		&song.Description,
		&song.CoverArt,
		&song.AudioSource,
		&song.PlayCount,
		&song.Likes,
		&song.UploadDate,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: song", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return &song, nil
}

// queryMany runs a song query and scans all rows
func (r *SongRepository) queryMany(query string, args ...any) ([]*models.Song, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		var song models.Song
		err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.MusicianID,
			&song.MusicianName,
			&song.Genre,
			&song.Description,
			&song.CoverArt,
			&song.AudioSource,
			&song.PlayCount,
			&song.Likes,
			&song.UploadDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, &song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}
