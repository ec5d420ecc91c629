package service

import (
	"context"
	"fmt"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
)

// DeviceStore is the slice of the store the resolver depends on. The concrete
// pgx store satisfies it; tests substitute fakes.
type DeviceStore interface {
	Upsert(ctx context.Context, fingerprint, deviceType string) (*models.Device, error)
	GetByID(ctx context.Context, id string) (*models.Device, error)
	SetProfile(ctx context.Context, deviceID, profileID string) error
	SetLabel(ctx context.Context, deviceID, label string) error
}

// DeviceService resolves raw device fingerprints to stable device records.
type DeviceService struct {
	devices DeviceStore
}

func NewDeviceService(devices DeviceStore) *DeviceService {
	return &DeviceService{
		devices: devices,
	}
}

// Resolve maps a fingerprint to its device record, creating one on first
// sight. The returned device carries the current sticky profile reference.
// Resolving the same fingerprint twice always yields the same record; the
// store's upsert-on-conflict guarantee covers concurrent first sights, no
// locking happens here. On store failure the arrival must be aborted by the
// caller; nothing may be recorded against an unresolved device.
func (s *DeviceService) Resolve(ctx context.Context, fingerprint, deviceType string) (*models.Device, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("fingerprint is required")
	}
	if !models.ValidDeviceType(deviceType) {
		return nil, fmt.Errorf("unknown device type %q", deviceType)
	}

	device, err := s.devices.Upsert(ctx, fingerprint, deviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve device: %w", err)
	}

	return device, nil
}

// Label sets the human label on a known device.
func (s *DeviceService) Label(ctx context.Context, deviceID, label string) error {
	return s.devices.SetLabel(ctx, deviceID, label)
}
