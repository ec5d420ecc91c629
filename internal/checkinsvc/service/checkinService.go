package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
)

// FeedLimit caps the live feed at the most recent check-ins.
const FeedLimit = 50

// CheckInStore is the slice of the store the recorder and binder depend on.
type CheckInStore interface {
	Create(ctx context.Context, eventID, deviceID string, profileID *string, source string) (string, error)
	GetByID(ctx context.Context, id string) (*models.CheckIn, error)
	SetProfile(ctx context.Context, checkinID, profileID string) error
	ListDetailedByEvent(ctx context.Context, eventID string, limit int) ([]models.CheckInDetail, error)
}

// EventStore is the store surface for check-in sessions.
type EventStore interface {
	Create(ctx context.Context, name string, description *string) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// Notifier publishes change notices for check-in inserts and updates so
// live-subscribed feeds can refetch. Delivery is the broker's concern.
type Notifier interface {
	CheckInChanged(eventID, checkinID, kind string)
}

// CheckInService records arrivals against resolved devices.
type CheckInService struct {
	checkins CheckInStore
	events   EventStore
	devices  *DeviceService
	notifier Notifier
}

func NewCheckInService(checkins CheckInStore, events EventStore, devices *DeviceService, notifier Notifier) *CheckInService {
	return &CheckInService{
		checkins: checkins,
		events:   events,
		devices:  devices,
		notifier: notifier,
	}
}

// Record appends one immutable check-in row for an already-resolved device,
// defaulting the profile to the device's sticky profile. A failed record is
// never retried here; the failure could have been a partial success and an
// automatic retry would risk a duplicate arrival.
func (s *CheckInService) Record(ctx context.Context, eventID string, device *models.Device, source string) (string, error) {
	if !models.ValidSource(source) {
		return "", fmt.Errorf("unknown source %q", source)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("failed to look up event: %w", err)
	}
	if event == nil {
		return "", fmt.Errorf("event %s not found", eventID)
	}

	id, err := s.checkins.Create(ctx, eventID, device.ID, device.ProfileID, source)
	if err != nil {
		return "", fmt.Errorf("failed to record check-in: %w", err)
	}

	s.notifier.CheckInChanged(eventID, id, "insert")

	return id, nil
}

// ResolveAndRecord is the full arrival pipeline for one raw signal: resolve
// the fingerprint to a device, then record the check-in. A resolution
// failure aborts the arrival before anything is written, so no partial
// check-in is ever visible as success.
func (s *CheckInService) ResolveAndRecord(ctx context.Context, eventID, fingerprint, deviceType, source string) (string, error) {
	device, err := s.devices.Resolve(ctx, fingerprint, deviceType)
	if err != nil {
		return "", err
	}

	return s.Record(ctx, eventID, device, source)
}

// Feed returns the joined detail view the live feed renders: newest first,
// capped at FeedLimit.
func (s *CheckInService) Feed(ctx context.Context, eventID string) ([]models.CheckInDetail, error) {
	list, err := s.checkins.ListDetailedByEvent(ctx, eventID, FeedLimit)
	if err != nil {
		return nil, err
	}

	models.AnnotateDetails(list, time.Now())
	return list, nil
}
