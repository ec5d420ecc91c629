package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Create(ctx context.Context, name string, email, phone, notes *string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (name, email, phone, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, phone, notes, created_at
	`

	p := &models.Profile{}
	err := s.db.QueryRow(ctx, query, name, email, phone, notes).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Notes,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return p, nil
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, name, email, phone, notes, created_at
		FROM profiles
		WHERE id = $1
	`

	p := &models.Profile{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Notes,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Profile not found
		}
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	return p, nil
}

// List returns all profiles ordered by name, for the staff selector view.
func (s *ProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	query := `
		SELECT id, name, email, phone, notes, created_at
		FROM profiles
		ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Email,
			&p.Phone,
			&p.Notes,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile rows: %w", err)
	}

	return profiles, nil
}

func (s *ProfileStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}

	return nil
}
