package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/embracefm/embrace/internal/models"
	"github.com/embracefm/embrace/internal/shared"
)

// DonationRepository persists [models.Donation] records.
//
// Donations are append-only: there is deliberately no Update or Delete.
type DonationRepository struct {
	db *sql.DB
}

// NewDonationRepository creates a new DonationRepository with the given database connection
func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create inserts a new [models.Donation] into the database with generated ID and sequence.
// An empty donor id is stored as NULL and records the donation as anonymous.
func (r *DonationRepository) Create(donation *models.Donation) error {
	sequence, err := NextSequence(r.db, "donations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if donation.ID == "" {
		donation.ID = shared.GenerateID()
	}
	if donation.Date.IsZero() {
		donation.Date = time.Now()
	}

	if err := donation.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var donorID sql.NullString
	if donation.DonorID != "" {
		donorID = sql.NullString{String: donation.DonorID, Valid: true}
	}

	query := `
		INSERT INTO donations (id, sequence, donor_id, donor_name, recipient_id, amount, message, donated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		donation.ID,
		sequence,
		donorID,
		donation.DonorName,
		donation.RecipientID,
		donation.Amount,
		donation.Message,
		donation.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert donation: %w", err)
	}

	return nil
}

// Get retrieves a donation by ID
func (r *DonationRepository) Get(id string) (*models.Donation, error) {
	row := r.db.QueryRow(donationSelect+" WHERE id = ?", id)

	var (
		donation models.Donation
		donorID  sql.NullString
	)

	err := row.Scan(
		&donation.ID,
		&donorID,
		&donation.DonorName,
		&donation.RecipientID,
		&donation.Amount,
		&donation.Message,
		&donation.Date,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: donation", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan donation: %w", err)
	}

	if donorID.Valid {
		donation.DonorID = donorID.String
	}

	return &donation, nil
}

// List retrieves all donations matching the given criteria, newest first
func (r *DonationRepository) List(criteria map[string]any) ([]*models.Donation, error) {
	query := donationSelect
	args := []any{}

	if recipientID, ok := criteria["recipient_id"].(string); ok && recipientID != "" {
		query += " WHERE recipient_id = ?"
		args = append(args, recipientID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	var donations []*models.Donation
	for rows.Next() {
		var (
			donation models.Donation
			donorID  sql.NullString
		)
		err := rows.Scan(
			&donation.ID,
			&donorID,
			&donation.DonorName,
			&donation.RecipientID,
			&donation.Amount,
			&donation.Message,
			&donation.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		if donorID.Valid {
			donation.DonorID = donorID.String
		}
		donations = append(donations, &donation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return donations, nil
}

// Total returns the sum of all donation amounts for a recipient.
func (r *DonationRepository) Total(recipientID string) (float64, error) {
	var total float64
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM donations WHERE recipient_id = ?",
		recipientID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum donations: %w", err)
	}
	return total, nil
}

const donationSelect = `
	SELECT id, donor_id, donor_name, recipient_id, amount, message, donated_at
	FROM donations`
