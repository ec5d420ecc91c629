package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	log "github.com/sirupsen/logrus"
)

// ProfileStore is the store surface for person profiles.
type ProfileStore interface {
	Create(ctx context.Context, name string, email, phone, notes *string) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Delete(ctx context.Context, id string) error
}

// ProfileService binds check-ins to profiles and manages the profile roster.
type ProfileService struct {
	profiles ProfileStore
	checkins CheckInStore
	devices  DeviceStore
	notifier Notifier
}

func NewProfileService(profiles ProfileStore, checkins CheckInStore, devices DeviceStore, notifier Notifier) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		checkins: checkins,
		devices:  devices,
		notifier: notifier,
	}
}

// Bind sets the check-in's profile reference. Binding an already-bound
// check-in overwrites the reference; no history is kept, this is a
// correction mechanism. The event/device/instant/source fields are never
// touched.
func (s *ProfileService) Bind(ctx context.Context, checkinID, profileID string) error {
	checkin, err := s.checkins.GetByID(ctx, checkinID)
	if err != nil {
		return fmt.Errorf("failed to look up check-in: %w", err)
	}
	if checkin == nil {
		return fmt.Errorf("check-in %s not found", checkinID)
	}

	if err := s.checkins.SetProfile(ctx, checkinID, profileID); err != nil {
		return err
	}

	s.notifier.CheckInChanged(checkin.EventID, checkinID, "update")

	return nil
}

// BindAndRemember binds the check-in and then remembers the profile on the
// device so future arrivals from the same fingerprint pre-fill it. The two
// updates are independent store round trips: the check-in reference is the
// authoritative display value, so a failed sticky update is reported as a
// soft warning (stickySaved=false) rather than an error.
func (s *ProfileService) BindAndRemember(ctx context.Context, checkinID, deviceID, profileID string) (stickySaved bool, err error) {
	if err := s.Bind(ctx, checkinID, profileID); err != nil {
		return false, err
	}

	if err := s.devices.SetProfile(ctx, deviceID, profileID); err != nil {
		log.Warnf("check-in %s bound to profile %s but device %s sticky update failed: %v",
			checkinID, profileID, deviceID, err)
		return false, nil
	}

	return true, nil
}

// CreateProfileAndBind creates a profile from a bare name and binds it to
// the check-in and device in one staff action.
func (s *ProfileService) CreateProfileAndBind(ctx context.Context, name, checkinID, deviceID string) (*models.Profile, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("profile name is required")
	}

	profile, err := s.profiles.Create(ctx, name, nil, nil, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}

	stickySaved, err := s.BindAndRemember(ctx, checkinID, deviceID, profile.ID)
	if err != nil {
		return nil, false, err
	}

	return profile, stickySaved, nil
}

// Create adds a profile through the bulk management surface.
func (s *ProfileService) Create(ctx context.Context, name string, email, phone, notes *string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile name is required")
	}

	return s.profiles.Create(ctx, name, email, phone, notes)
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.List(ctx)
}

func (s *ProfileService) Delete(ctx context.Context, id string) error {
	return s.profiles.Delete(ctx, id)
}
