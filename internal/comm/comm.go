package comm

import (
	"encoding/json"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
)

// NATS subjects shared between the check-in service and station service.
const (
	SubjectArrivals = "station.arrivals" // station tag reads -> check-in service
	SubjectFeedback = "station.feedback" // record outcome -> originating station
)

// CheckInChangedSubject is the change-notification stream for one event:
// every insert or update of a check-in row belonging to the event is
// announced here.
func CheckInChangedSubject(eventID string) string {
	return "checkins.changed." + eventID
}

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "tag-read", "subscribe-feed"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// Arrival is a debounced tag read forwarded by a station for recording.
type Arrival struct {
	EventID     string `json:"event_id"`
	Fingerprint string `json:"fingerprint"`
	DeviceType  string `json:"device_type"`
	Source      string `json:"source"`
	SocketId    string `json:"socketid"`
}

// ChangeNotice announces an insert or update of a check-in row. Subscribers
// refetch the full detail view rather than patching, so the payload carries
// identity only.
type ChangeNotice struct {
	EventID   string `json:"event_id"`
	CheckInID string `json:"checkin_id"`
	Kind      string `json:"kind"` // insert | update
}

// Feedback reports the outcome of a station-originated arrival back to the
// station that sent it. Ok=true triggers best-effort haptics on the host;
// Ok=false lets the station roll back its debounce memory.
type Feedback struct {
	SocketId    string `json:"socketid"`
	Fingerprint string `json:"fingerprint"`
	Ok          bool   `json:"ok"`
	CheckInID   string `json:"checkin_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// FeedData is the full refreshed feed pushed to a subscribed station view.
type FeedData struct {
	EventID  string                 `json:"event_id"`
	CheckIns []models.CheckInDetail `json:"checkins"`
}

// ScanStatus reflects the NFC capability state of a station session.
type ScanStatus struct {
	Status  string `json:"status"` // idle | scanning | unsupported
	LastTag string `json:"last_tag,omitempty"`
}
