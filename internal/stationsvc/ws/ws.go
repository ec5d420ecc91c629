package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/zackdesign/checkin-app/internal/comm"
	"github.com/zackdesign/checkin-app/internal/stationsvc/broker"
	"github.com/zackdesign/checkin-app/internal/stationsvc/debounce"
	"github.com/zackdesign/checkin-app/internal/stationsvc/feed"
	"github.com/zackdesign/checkin-app/internal/stationsvc/nfc"
	"github.com/zackdesign/checkin-app/internal/stationsvc/session"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Station is the runtime of one connected station view: its socket, its own
// debounce memory, its scan session and its mounted feeds. None of this
// state is shared across stations.
type Station struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	Debounce *debounce.Memory
	Scan     *nfc.Session

	feedMu      sync.Mutex
	feeds       map[string]*feed.Synchronizer // eventID -> mounted feed
	scanEventID string
}

// Ws dispatches station socket messages and keeps track of connected
// stations with socketId.
type Ws struct {
	stationMap sync.Map // socketId -> *Station

	Broker     *broker.Broker
	Fetcher    feed.Fetcher
	Subscriber feed.Subscriber
	Sessions   *session.Registry

	// NewReader supplies the host tag-read capability per scan session.
	// nil means the host has no reader: stations get "unsupported" and the
	// QR path carries all arrivals.
	NewReader func() nfc.Reader
}

func NewWs(fetcher feed.Fetcher, subscriber feed.Subscriber, sessions *session.Registry, newReader func() nfc.Reader) *Ws {
	return &Ws{
		Fetcher:    fetcher,
		Subscriber: subscriber,
		Sessions:   sessions,
		NewReader:  newReader,
	}
}

// StoreConnection registers a new station connection.
func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	var reader nfc.Reader
	if s.NewReader != nil {
		reader = s.NewReader()
	}

	station := &Station{
		conn:     conn,
		Debounce: debounce.New(),
		Scan:     nfc.NewSession(reader),
		feeds:    make(map[string]*feed.Synchronizer),
	}
	s.stationMap.Store(socketId, station)

	if s.Sessions != nil {
		if err := s.Sessions.Register(context.Background(), socketId); err != nil {
			log.Warnf("unable to register station session %s: %s", socketId, err)
		}
	}
}

func (s *Ws) GetStation(socketId string) (*Station, bool) {
	station, ok := s.stationMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return station.(*Station), true
}

// HandleDisconnect tears the station down: every mounted feed is
// unsubscribed and the scan resource is released, so nothing outlives the
// view that owned it.
func (s *Ws) HandleDisconnect(socketId string) {
	station, ok := s.GetStation(socketId)
	if !ok {
		return
	}

	station.feedMu.Lock()
	for eventID, fs := range station.feeds {
		fs.Stop()
		delete(station.feeds, eventID)
	}
	station.feedMu.Unlock()

	station.Scan.Stop()
	station.Debounce.Reset()
	s.stationMap.Delete(socketId)

	if s.Sessions != nil {
		if err := s.Sessions.Remove(context.Background(), socketId); err != nil {
			log.Warnf("unable to remove station session %s: %s", socketId, err)
		}
	}
}

// SocketMessage handles one message from a station view.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	station, ok := s.GetStation(socketId)
	if !ok {
		log.Warnf("message from unknown socket %s", socketId)
		return
	}

	switch message.Type {
	case "subscribe-feed":
		s.handleSubscribeFeed(socketId, station, message)
	case "unsubscribe-feed":
		s.handleUnsubscribeFeed(station, message)
	case "start-scan":
		s.handleStartScan(socketId, station, message)
	case "stop-scan":
		s.handleStopScan(station)
	case "tag-read":
		s.handleTagRead(socketId, station, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) handleSubscribeFeed(socketId string, station *Station, msg *comm.WSMessage) {
	var payload struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.EventID == "" {
		log.Errorf("Error: invalid subscribe-feed payload %s", err)
		return
	}

	station.feedMu.Lock()
	defer station.feedMu.Unlock()

	if _, exists := station.feeds[payload.EventID]; exists {
		return // already mounted
	}

	eventID := payload.EventID
	fs := feed.NewSynchronizer(eventID, s.Fetcher, func(checkins []models.CheckInDetail) {
		s.sendMessage(station, "feed", comm.FeedData{
			EventID:  eventID,
			CheckIns: checkins,
		})
	})

	if err := fs.Start(context.Background(), s.Subscriber); err != nil {
		log.Errorf("Error starting feed for event %s: %s", eventID, err)
		s.sendMessage(station, "error", map[string]string{"error": "feed subscription failed"})
		return
	}

	station.feeds[eventID] = fs

	if s.Sessions != nil {
		if err := s.Sessions.SetEvent(context.Background(), socketId, eventID); err != nil {
			log.Warnf("unable to update station session %s: %s", socketId, err)
		}
	}
}

func (s *Ws) handleUnsubscribeFeed(station *Station, msg *comm.WSMessage) {
	var payload struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: invalid unsubscribe-feed payload %s", err)
		return
	}

	station.feedMu.Lock()
	defer station.feedMu.Unlock()

	if fs, exists := station.feeds[payload.EventID]; exists {
		fs.Stop()
		delete(station.feeds, payload.EventID)
	}
}

func (s *Ws) handleStartScan(socketId string, station *Station, msg *comm.WSMessage) {
	var payload struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.EventID == "" {
		log.Errorf("Error: invalid start-scan payload %s", err)
		return
	}
	station.scanEventID = payload.EventID

	err := station.Scan.Start(
		func(serial string) {
			s.acceptRead(socketId, station, station.scanEventID, serial)
		},
		func(err error) {
			log.Errorf("NFC read error on station %s: %s", socketId, err)
			s.sendMessage(station, "error", map[string]string{"error": "nfc read error"})
		},
	)
	if err == nfc.ErrUnsupported {
		// degraded mode, not a failure: QR check-ins still work
		s.sendMessage(station, "scan-status", comm.ScanStatus{Status: "unsupported"})
		return
	}
	if err != nil {
		log.Errorf("Error starting scan on station %s: %s", socketId, err)
		s.sendMessage(station, "error", map[string]string{"error": err.Error()})
		return
	}

	s.sendMessage(station, "scan-status", comm.ScanStatus{Status: "scanning"})
}

func (s *Ws) handleStopScan(station *Station) {
	station.Scan.Stop()
	station.Debounce.Reset()
	s.sendMessage(station, "scan-status", comm.ScanStatus{Status: "idle"})
}

// handleTagRead covers stations whose reader lives in the browser (Web NFC)
// and forwards serials over the socket instead of a host reader.
func (s *Ws) handleTagRead(socketId string, station *Station, msg *comm.WSMessage) {
	var payload struct {
		EventID string `json:"event_id"`
		Serial  string `json:"serial"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.EventID == "" || payload.Serial == "" {
		log.Errorf("Error: invalid tag-read payload %s", err)
		return
	}

	s.acceptRead(socketId, station, payload.EventID, payload.Serial)
}

// acceptRead runs one raw tag read through the station's debounce memory and
// forwards it for recording. Suppressed duplicates vanish silently: no
// recording, no UI change.
func (s *Ws) acceptRead(socketId string, station *Station, eventID, serial string) {
	if !station.Debounce.Observe(serial, time.Now()) {
		return
	}

	arrival := comm.Arrival{
		EventID:     eventID,
		Fingerprint: serial,
		DeviceType:  models.DeviceTypeNfc,
		Source:      models.SourceNfc,
		SocketId:    socketId,
	}

	if err := s.Broker.PublishArrival(arrival); err != nil {
		// the arrival never reached the recorder; forget the read so the
		// next tap goes through
		station.Debounce.Forget(serial)
		s.sendMessage(station, "error", map[string]string{"error": "arrival not sent, tap again"})
		return
	}

	s.sendMessage(station, "scan-status", comm.ScanStatus{Status: "scanning", LastTag: serial})
}

// HandleFeedback routes a record outcome back to the originating station.
func (s *Ws) HandleFeedback(feedback comm.Feedback) {
	station, ok := s.GetStation(feedback.SocketId)
	if !ok {
		return // station went away; nothing to do
	}

	if !feedback.Ok {
		// failed arrivals must not suppress a retried tap
		station.Debounce.Forget(feedback.Fingerprint)
		s.sendMessage(station, "error", map[string]string{"error": feedback.Error})
		return
	}

	// best-effort haptic acknowledgement; a lost vibrate never fails the
	// check-in
	s.sendMessage(station, "vibrate", map[string]int{"duration_ms": 100})
}

func (s *Ws) sendMessage(station *Station, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Failed to marshal %s payload: %v", msgType, err)
		return
	}

	bytes, err := json.Marshal(comm.WSMessage{Type: msgType, Data: data})
	if err != nil {
		log.Errorf("Failed to marshal WSMessage: %v", err)
		return
	}

	station.writeMu.Lock()
	defer station.writeMu.Unlock()

	if err := station.conn.WriteMessage(websocket.TextMessage, bytes); err != nil {
		log.Errorf("Failed to send %s message: %v", msgType, err)
	}
}
