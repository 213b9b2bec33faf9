package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// MusicianRepository implements [models.Repository] for [models.Musician] persistence.
//
// Email and artist name carry UNIQUE constraints; violations surface as
// [shared.ErrDuplicate] so registration can report them as expected failures.
type MusicianRepository struct {
	db *sql.DB
}

// NewMusicianRepository creates a new MusicianRepository with the given database connection
func NewMusicianRepository(db *sql.DB) *MusicianRepository {
	return &MusicianRepository{db: db}
}

// Create inserts a new [models.Musician] into the database with generated ID and sequence
func (r *MusicianRepository) Create(musician *models.Musician) error {
	sequence, err := NextSequence(r.db, "musicians")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if musician.ID == "" {
		musician.ID = shared.GenerateID()
	}
	now := time.Now()
	musician.CreatedAt = now
	musician.UpdatedAt = now

	if err := musician.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	links, err := marshalSocialLinks(musician.SocialLinks)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO musicians (id, sequence, email, username, artist_name, bio, genres, profile_photo, social_links, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		musician.ID,
		sequence,
		musician.Email,
		musician.Username,
		musician.ArtistName,
		musician.Bio,
		shared.JoinList(musician.Genres),
		musician.ProfilePhoto,
		links,
		musician.CreatedAt,
		musician.UpdatedAt,
	)
	if err != nil {
		return wrapConstraint(fmt.Errorf("failed to insert musician: %w", err), "musician email or artist name")
	}

	return nil
}

// Get retrieves a musician by ID
func (r *MusicianRepository) Get(id string) (*models.Musician, error) {
	return r.scanOne(r.db.QueryRow(musicianSelect+" WHERE id = ?", id))
}

// GetByEmail retrieves a musician by email
func (r *MusicianRepository) GetByEmail(email string) (*models.Musician, error) {
	return r.scanOne(r.db.QueryRow(musicianSelect+" WHERE email = ?", email))
}

// GetByArtistName retrieves a musician by artist name
func (r *MusicianRepository) GetByArtistName(artistName string) (*models.Musician, error) {
	return r.scanOne(r.db.QueryRow(musicianSelect+" WHERE artist_name = ?", artistName))
}

// Exists reports whether any musician already uses the given email or artist name.
func (r *MusicianRepository) Exists(email, artistName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM musicians WHERE email = ? OR artist_name = ?)",
		email, artistName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check musician existence: %w", err)
	}
	return exists, nil
}

// Update modifies an existing musician's profile fields in the database
func (r *MusicianRepository) Update(musician *models.Musician) error {
	if err := musician.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	musician.UpdatedAt = time.Now()

	links, err := marshalSocialLinks(musician.SocialLinks)
	if err != nil {
		return err
	}

	query := `
		UPDATE musicians
		SET artist_name = ?, bio = ?, genres = ?, profile_photo = ?, social_links = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		musician.ArtistName,
		musician.Bio,
		shared.JoinList(musician.Genres),
		musician.ProfilePhoto,
		links,
		musician.UpdatedAt,
		musician.ID,
	)
	if err != nil {
		return wrapConstraint(fmt.Errorf("failed to update musician: %w", err), "musician artist name")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: musician %s", shared.ErrNotFound, musician.ID)
	}

	return nil
}

// Delete removes a musician by ID
func (r *MusicianRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM musicians WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete musician: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: musician %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all musicians matching the given criteria in insertion order
func (r *MusicianRepository) List(criteria map[string]any) ([]*models.Musician, error) {
	query := musicianSelect
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " WHERE email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query musicians: %w", err)
	}
	defer rows.Close()

	var musicians []*models.Musician
	for rows.Next() {
		musician, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		musicians = append(musicians, musician)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return musicians, nil
}

// Count returns the number of musicians in the catalog.
func (r *MusicianRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM musicians").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count musicians: %w", err)
	}
	return count, nil
}

const musicianSelect = `
	SELECT id, email, username, artist_name, bio, genres, profile_photo, social_links, created_at, updated_at
	FROM musicians`

// scanOne scans a single [sql.Row] into a [models.Musician]
func (r *MusicianRepository) scanOne(row *sql.Row) (*models.Musician, error) {
	var (
		musician models.Musician
		genres   string
		links    string
	)

	err := row.Scan(
		&musician.ID,
		&musician.Email,
		&musician.Username,
		&musician.ArtistName,
		&musician.Bio,
		&genres,
		&musician.ProfilePhoto,
		&links,
		&musician.CreatedAt,
		&musician.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: musician", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan musician: %w", err)
	}

	musician.Genres = shared.SplitList(genres)
	musician.SocialLinks, err = unmarshalSocialLinks(links)
	if err != nil {
		return nil, err
	}

	return &musician, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Musician]
func (r *MusicianRepository) scanRow(rows *sql.Rows) (*models.Musician, error) {
	var (
		musician models.Musician
		genres   string
		links    string
	)

	err := rows.Scan(
		&musician.ID,
		&musician.Email,
		&musician.Username,
		&musician.ArtistName,
		&musician.Bio,
		&genres,
		&musician.ProfilePhoto,
		&links,
		&musician.CreatedAt,
		&musician.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan musician: %w", err)
	}

	musician.Genres = shared.SplitList(genres)
	musician.SocialLinks, err = unmarshalSocialLinks(links)
	if err != nil {
		return nil, err
	}

	return &musician, nil
}

func marshalSocialLinks(links map[string]string) (string, error) {
	if links == nil {
		return "{}", nil
	}
	data, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("failed to marshal social links: %w", err)
	}
	return string(data), nil
}

func unmarshalSocialLinks(value string) (map[string]string, error) {
	if value == "" || value == "{}" {
		return nil, nil
	}
	var links map[string]string
	if err := json.Unmarshal([]byte(value), &links); err != nil {
		return nil, fmt.Errorf("failed to unmarshal social links: %w", err)
	}
	return links, nil
}
