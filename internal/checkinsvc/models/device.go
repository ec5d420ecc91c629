package models

import (
	"time"
)

// Device type tags accepted by the resolver.
const (
	DeviceTypeNfc     = "nfc"
	DeviceTypeWeb     = "web"
	DeviceTypeIos     = "ios"
	DeviceTypeAndroid = "android"
)

// Device represents the devices table: one persistent identity per physical
// scanning source. DeviceIdentifier is the fingerprint (NFC serial or a
// generated web identifier) and is globally unique. ProfileID is the sticky
// profile used to pre-fill future check-ins from this device.
type Device struct {
	ID               string    `json:"id"` // Primary key, generated by the store
	DeviceIdentifier string    `json:"device_identifier"`
	DeviceType       string    `json:"device_type"` // nfc | web | ios | android
	ProfileID        *string   `json:"profile_id"`
	Label            *string   `json:"label"`
	CreatedAt        time.Time `json:"created_at"`
}

// ValidDeviceType reports whether t is one of the accepted type tags.
func ValidDeviceType(t string) bool {
	switch t {
	case DeviceTypeNfc, DeviceTypeWeb, DeviceTypeIos, DeviceTypeAndroid:
		return true
	}
	return false
}
