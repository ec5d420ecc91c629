package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckInStore struct {
	db *pgxpool.Pool
}

func NewCheckInStore(db *pgxpool.Pool) *CheckInStore {
	return &CheckInStore{db: db}
}

// Create appends one immutable check-in row. The store generates the id and
// the arrival instant; nothing here ever updates a prior row.
func (s *CheckInStore) Create(ctx context.Context, eventID, deviceID string, profileID *string, source string) (string, error) {
	query := `
		INSERT INTO check_ins (event_id, device_id, profile_id, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id string
	err := s.db.QueryRow(ctx, query, eventID, deviceID, profileID, source).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create check-in: %w", err)
	}

	return id, nil
}

func (s *CheckInStore) GetByID(ctx context.Context, id string) (*models.CheckIn, error) {
	query := `
		SELECT id, event_id, device_id, profile_id, checked_in_at::text, source
		FROM check_ins
		WHERE id = $1
	`

	c := &models.CheckIn{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.EventID,
		&c.DeviceID,
		&c.ProfileID,
		&c.CheckedInAt,
		&c.Source,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Check-in not found
		}
		return nil, fmt.Errorf("failed to get check-in by ID: %w", err)
	}

	return c, nil
}

// SetProfile overwrites the check-in's profile reference. This is the only
// mutation check-in rows ever see.
func (s *CheckInStore) SetProfile(ctx context.Context, checkinID, profileID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE check_ins SET profile_id = $1 WHERE id = $2`, profileID, checkinID)
	if err != nil {
		return fmt.Errorf("failed to set check-in profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("check-in %s not found", checkinID)
	}

	return nil
}

// ListDetailedByEvent returns the feed view: the newest check-ins for one
// event with device and profile rows joined in. Ordering is by arrival
// instant descending; ties keep whatever order the store returns.
func (s *CheckInStore) ListDetailedByEvent(ctx context.Context, eventID string, limit int) ([]models.CheckInDetail, error) {
	query := `
		SELECT c.id, c.event_id, c.device_id, c.profile_id, c.checked_in_at::text, c.source,
		       d.id, d.device_identifier, d.device_type, d.profile_id, d.label, d.created_at,
		       p.id, p.name, p.email, p.phone, p.notes, p.created_at
		FROM check_ins c
		LEFT JOIN devices d ON d.id = c.device_id
		LEFT JOIN profiles p ON p.id = c.profile_id
		WHERE c.event_id = $1
		ORDER BY c.checked_in_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var details []models.CheckInDetail
	for rows.Next() {
		var detail models.CheckInDetail

		var dID, dIdent, dType, dProfileID, dLabel *string
		var dCreatedAt *time.Time
		var pID, pName, pEmail, pPhone, pNotes *string
		var pCreatedAt *time.Time

		err := rows.Scan(
			&detail.ID,
			&detail.EventID,
			&detail.DeviceID,
			&detail.ProfileID,
			&detail.CheckedInAt,
			&detail.Source,
			&dID, &dIdent, &dType, &dProfileID, &dLabel, &dCreatedAt,
			&pID, &pName, &pEmail, &pPhone, &pNotes, &pCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in row: %w", err)
		}

		if dID != nil {
			detail.Device = &models.Device{
				ID:               *dID,
				DeviceIdentifier: *dIdent,
				DeviceType:       *dType,
				ProfileID:        dProfileID,
				Label:            dLabel,
				CreatedAt:        *dCreatedAt,
			}
		}
		if pID != nil {
			detail.Profile = &models.Profile{
				ID:        *pID,
				Name:      *pName,
				Email:     pEmail,
				Phone:     pPhone,
				Notes:     pNotes,
				CreatedAt: *pCreatedAt,
			}
		}

		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read check-in rows: %w", err)
	}

	return details, nil
}
