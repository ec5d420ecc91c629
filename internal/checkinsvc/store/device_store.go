package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeviceStore struct {
	db *pgxpool.Pool
}

func NewDeviceStore(db *pgxpool.Pool) *DeviceStore {
	return &DeviceStore{db: db}
}

// Upsert resolves a fingerprint to its device row, creating the row on first
// sight. The conflict arm only re-asserts the fingerprint so RETURNING yields
// the surviving row; the stored device_type is never touched, first-seen type
// wins. Two concurrent first-sights of the same fingerprint converge on one
// row through the unique constraint.
func (s *DeviceStore) Upsert(ctx context.Context, fingerprint, deviceType string) (*models.Device, error) {
	query := `
		INSERT INTO devices (device_identifier, device_type)
		VALUES ($1, $2)
		ON CONFLICT (device_identifier)
		DO UPDATE SET device_identifier = EXCLUDED.device_identifier
		RETURNING id, device_identifier, device_type, profile_id, label, created_at
	`

	d := &models.Device{}
	err := s.db.QueryRow(ctx, query, fingerprint, deviceType).Scan(
		&d.ID,
		&d.DeviceIdentifier,
		&d.DeviceType,
		&d.ProfileID,
		&d.Label,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device: %w", err)
	}

	return d, nil
}

func (s *DeviceStore) GetByID(ctx context.Context, id string) (*models.Device, error) {
	query := `
		SELECT id, device_identifier, device_type, profile_id, label, created_at
		FROM devices
		WHERE id = $1
	`

	d := &models.Device{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.DeviceIdentifier,
		&d.DeviceType,
		&d.ProfileID,
		&d.Label,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Device not found
		}
		return nil, fmt.Errorf("failed to get device by ID: %w", err)
	}

	return d, nil
}

// SetProfile updates the device's sticky profile reference. Last write wins;
// there is no client-side locking on device rows.
func (s *DeviceStore) SetProfile(ctx context.Context, deviceID, profileID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE devices SET profile_id = $1 WHERE id = $2`, profileID, deviceID)
	if err != nil {
		return fmt.Errorf("failed to set device profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("device %s not found", deviceID)
	}

	return nil
}

// SetLabel sets the optional human label on a device.
func (s *DeviceStore) SetLabel(ctx context.Context, deviceID, label string) error {
	tag, err := s.db.Exec(ctx, `UPDATE devices SET label = $1 WHERE id = $2`, label, deviceID)
	if err != nil {
		return fmt.Errorf("failed to set device label: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("device %s not found", deviceID)
	}

	return nil
}
