package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, name string, description *string) (*models.Event, error) {
	query := `
		INSERT INTO events (name, description, is_active)
		VALUES ($1, $2, true)
		RETURNING id, name, description, is_active, created_at
	`

	e := &models.Event{}
	err := s.db.QueryRow(ctx, query, name, description).Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.IsActive,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return e, nil
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, name, description, is_active, created_at
		FROM events
		WHERE id = $1
	`

	e := &models.Event{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.IsActive,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Event not found
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return e, nil
}

// List returns all events, newest first.
func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, name, description, is_active, created_at
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Description,
			&e.IsActive,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}

	return events, nil
}

// SetActive flips the active flag, the only mutable field on an event.
func (s *EventStore) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE events SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set event active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s not found", id)
	}

	return nil
}
