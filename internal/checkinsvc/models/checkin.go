package models

import (
	"time"

	"github.com/zackdesign/checkin-app/internal/timeutil"
)

// Check-in source tags.
const (
	SourceNfc   = "nfc"
	SourceQrWeb = "qr_web"
)

// CheckIn represents one immutable arrival record. Only ProfileID may change
// after insert (profile binding is a correction mechanism); event, device,
// instant and source never do.
//
// CheckedInAt is kept as the raw store text ("2026-02-13 05:52:06.136236+00"
// and friends) because Postgres text output is not stable across formats;
// timeutil.Normalize owns making sense of it.
type CheckIn struct {
	ID          string  `json:"id"` // Primary key, generated by the store
	EventID     string  `json:"event_id"`
	DeviceID    string  `json:"device_id"`
	ProfileID   *string `json:"profile_id"`
	CheckedInAt string  `json:"checked_in_at"`
	Source      string  `json:"source"` // nfc | qr_web
}

// CheckInDetail is the feed's joined view of a check-in with its device and
// profile rows attached. Either side may be nil when the join finds nothing.
type CheckInDetail struct {
	CheckIn
	Device  *Device  `json:"device"`
	Profile *Profile `json:"profile"`

	// Display values derived from CheckedInAt. CheckedInAtMs is nil when the
	// raw text could not be normalized.
	CheckedInAtMs *int64 `json:"checked_in_at_ms"`
	CheckedInAgo  string `json:"checked_in_ago"`
}

// Annotate fills the display values from the raw store timestamp.
func (d *CheckInDetail) Annotate(now time.Time) {
	if ms, ok := timeutil.Normalize(d.CheckedInAt); ok {
		d.CheckedInAtMs = &ms
	}
	d.CheckedInAgo = timeutil.TimeAgo(d.CheckedInAt, now)
}

// AnnotateDetails runs Annotate over a fetched list in place.
func AnnotateDetails(list []CheckInDetail, now time.Time) {
	for i := range list {
		list[i].Annotate(now)
	}
}

// ValidSource reports whether s is one of the accepted source tags.
func ValidSource(s string) bool {
	return s == SourceNfc || s == SourceQrWeb
}
