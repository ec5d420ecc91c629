package service

import (
	"context"
	"sync"
	"testing"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/stretchr/testify/assert"
)

func TestDeviceService_Resolve_CreatesOnFirstSight(t *testing.T) {
	devices := newFakeDeviceStore()
	svc := NewDeviceService(devices)

	d, err := svc.Resolve(context.Background(), "04:A1:B2", models.DeviceTypeNfc)
	assert.NoError(t, err)
	assert.Equal(t, "04:A1:B2", d.DeviceIdentifier)
	assert.Equal(t, models.DeviceTypeNfc, d.DeviceType)
	assert.Nil(t, d.ProfileID)
}

func TestDeviceService_Resolve_IdentityStability(t *testing.T) {
	devices := newFakeDeviceStore()
	svc := NewDeviceService(devices)

	first, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
	assert.NoError(t, err)
	second, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same fingerprint always resolves to the same device")
	assert.Equal(t, 1, devices.count())
}

func TestDeviceService_Resolve_ConcurrentFirstSight(t *testing.T) {
	devices := newFakeDeviceStore()
	svc := NewDeviceService(devices)
	const taps = 50

	var wg sync.WaitGroup
	ids := make(chan string, taps)
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
			assert.NoError(t, err)
			ids <- d.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1, "near-simultaneous taps converge on one device record")
	assert.Equal(t, 1, devices.count())
}

func TestDeviceService_Resolve_FirstSeenTypeWins(t *testing.T) {
	devices := newFakeDeviceStore()
	svc := NewDeviceService(devices)

	_, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
	assert.NoError(t, err)

	d, err := svc.Resolve(context.Background(), "X", models.DeviceTypeWeb)
	assert.NoError(t, err)
	assert.Equal(t, models.DeviceTypeNfc, d.DeviceType, "stored type is left unchanged")
}

func TestDeviceService_Resolve_Validation(t *testing.T) {
	svc := NewDeviceService(newFakeDeviceStore())

	_, err := svc.Resolve(context.Background(), "", models.DeviceTypeNfc)
	assert.Error(t, err, "empty fingerprint rejected")

	_, err = svc.Resolve(context.Background(), "X", "tablet")
	assert.Error(t, err, "unknown device type rejected")
}

func TestDeviceService_Resolve_StoreFailure(t *testing.T) {
	devices := newFakeDeviceStore()
	devices.failUpsert = true
	svc := NewDeviceService(devices)

	d, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
	assert.Error(t, err)
	assert.Nil(t, d)
}

func TestDeviceService_Resolve_ReturnsStickyProfile(t *testing.T) {
	devices := newFakeDeviceStore()
	svc := NewDeviceService(devices)

	d, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
	assert.NoError(t, err)
	assert.NoError(t, devices.SetProfile(context.Background(), d.ID, "prf-9"))

	again, err := svc.Resolve(context.Background(), "X", models.DeviceTypeNfc)
	assert.NoError(t, err)
	if assert.NotNil(t, again.ProfileID) {
		assert.Equal(t, "prf-9", *again.ProfileID)
	}
}
