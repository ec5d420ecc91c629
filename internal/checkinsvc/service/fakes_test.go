package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
)

var errStoreDown = errors.New("store unreachable")

type fakeDeviceStore struct {
	mu      sync.Mutex
	byPrint map[string]*models.Device
	byID    map[string]*models.Device
	nextID  int

	failUpsert     bool
	failSetProfile bool
}

func newFakeDeviceStore() *fakeDeviceStore {
	return &fakeDeviceStore{
		byPrint: make(map[string]*models.Device),
		byID:    make(map[string]*models.Device),
	}
}

func (f *fakeDeviceStore) Upsert(ctx context.Context, fingerprint, deviceType string) (*models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpsert {
		return nil, errStoreDown
	}

	if d, ok := f.byPrint[fingerprint]; ok {
		copied := *d
		return &copied, nil
	}

	f.nextID++
	d := &models.Device{
		ID:               fmt.Sprintf("dev-%d", f.nextID),
		DeviceIdentifier: fingerprint,
		DeviceType:       deviceType,
		CreatedAt:        time.Now(),
	}
	f.byPrint[fingerprint] = d
	f.byID[d.ID] = d

	copied := *d
	return &copied, nil
}

func (f *fakeDeviceStore) GetByID(ctx context.Context, id string) (*models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDeviceStore) SetProfile(ctx context.Context, deviceID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSetProfile {
		return errStoreDown
	}

	d, ok := f.byID[deviceID]
	if !ok {
		return fmt.Errorf("device %s not found", deviceID)
	}
	d.ProfileID = &profileID
	return nil
}

func (f *fakeDeviceStore) SetLabel(ctx context.Context, deviceID, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.byID[deviceID]
	if !ok {
		return fmt.Errorf("device %s not found", deviceID)
	}
	d.Label = &label
	return nil
}

func (f *fakeDeviceStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byPrint)
}

type fakeEventStore struct {
	mu     sync.Mutex
	byID   map[string]*models.Event
	nextID int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{byID: make(map[string]*models.Event)}
}

func (f *fakeEventStore) add(name string) *models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	e := &models.Event{
		ID:        fmt.Sprintf("evt-%d", f.nextID),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventStore) Create(ctx context.Context, name string, description *string) (*models.Event, error) {
	e := f.add(name)
	e.Description = description
	return e, nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventStore) List(ctx context.Context) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var events []models.Event
	for _, e := range f.byID {
		events = append(events, *e)
	}
	return events, nil
}

func (f *fakeEventStore) SetActive(ctx context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	e.IsActive = active
	return nil
}

type fakeCheckInStore struct {
	mu     sync.Mutex
	byID   map[string]*models.CheckIn
	order  []string // insertion order, newest last
	nextID int

	failCreate bool
}

func newFakeCheckInStore() *fakeCheckInStore {
	return &fakeCheckInStore{byID: make(map[string]*models.CheckIn)}
}

func (f *fakeCheckInStore) Create(ctx context.Context, eventID, deviceID string, profileID *string, source string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate {
		return "", errStoreDown
	}

	f.nextID++
	c := &models.CheckIn{
		ID:          fmt.Sprintf("ci-%d", f.nextID),
		EventID:     eventID,
		DeviceID:    deviceID,
		ProfileID:   profileID,
		CheckedInAt: time.Now().UTC().Format("2006-01-02 15:04:05.000000+00"),
		Source:      source,
	}
	f.byID[c.ID] = c
	f.order = append(f.order, c.ID)
	return c.ID, nil
}

func (f *fakeCheckInStore) GetByID(ctx context.Context, id string) (*models.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCheckInStore) SetProfile(ctx context.Context, checkinID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.byID[checkinID]
	if !ok {
		return fmt.Errorf("check-in %s not found", checkinID)
	}
	c.ProfileID = &profileID
	return nil
}

func (f *fakeCheckInStore) ListDetailedByEvent(ctx context.Context, eventID string, limit int) ([]models.CheckInDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var details []models.CheckInDetail
	for i := len(f.order) - 1; i >= 0 && len(details) < limit; i-- {
		c := f.byID[f.order[i]]
		if c.EventID == eventID {
			details = append(details, models.CheckInDetail{CheckIn: *c})
		}
	}
	return details, nil
}

func (f *fakeCheckInStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeProfileStore struct {
	mu     sync.Mutex
	byID   map[string]*models.Profile
	nextID int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{byID: make(map[string]*models.Profile)}
}

func (f *fakeProfileStore) Create(ctx context.Context, name string, email, phone, notes *string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	p := &models.Profile{
		ID:        fmt.Sprintf("prf-%d", f.nextID),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var profiles []models.Profile
	for _, p := range f.byID {
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func (f *fakeProfileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("profile %s not found", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProfileStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type notice struct {
	eventID   string
	checkinID string
	kind      string
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (f *fakeNotifier) CheckInChanged(eventID, checkinID, kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice{eventID, checkinID, kind})
}

func (f *fakeNotifier) all() []notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notice(nil), f.notices...)
}
