package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/service"
	"github.com/zackdesign/checkin-app/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Notifier publishes change notices after check-in inserts and updates.
// Publishing is fire-and-forget: a lost notice self-heals on the next
// change because subscribers reconcile by full refetch.
type Notifier struct {
	Conn *nats.Conn
}

func NewNotifier(nc *nats.Conn) *Notifier {
	return &Notifier{Conn: nc}
}

// CheckInChanged implements service.Notifier.
func (n *Notifier) CheckInChanged(eventID, checkinID, kind string) {
	notice := comm.ChangeNotice{
		EventID:   eventID,
		CheckInID: checkinID,
		Kind:      kind,
	}

	bytes, err := json.Marshal(notice)
	if err != nil {
		log.Errorf("Failed to marshal change notice: %v", err)
		return
	}

	if err := n.Conn.Publish(comm.CheckInChangedSubject(eventID), bytes); err != nil {
		log.Errorf("Error publishing change notice for event %s: %s", eventID, err)
	}
}

// Broker consumes station-originated arrivals and runs them through the
// check-in pipeline.
type Broker struct {
	Conn           *nats.Conn
	CheckInService *service.CheckInService
}

func NewBroker(nc *nats.Conn, checkinService *service.CheckInService) *Broker {
	return &Broker{
		Conn:           nc,
		CheckInService: checkinService,
	}
}

// SubscribeArrivals consumes debounced tag reads from stations.
func (b *Broker) SubscribeArrivals() (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(comm.SubjectArrivals, b.handleArrival)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handleArrival records one station arrival and reports the outcome back to
// the originating station. A failure aborts the arrival entirely; the
// station clears its debounce memory on the failure feedback so a retried
// tap is not wrongly suppressed.
func (b *Broker) handleArrival(msgNats *nats.Msg) {
	arrival := &comm.Arrival{}
	if err := json.Unmarshal(msgNats.Data, arrival); err != nil {
		log.Errorf("Error unmarshaling arrival: %s", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	checkinID, err := b.CheckInService.ResolveAndRecord(ctx,
		arrival.EventID, arrival.Fingerprint, arrival.DeviceType, arrival.Source)

	feedback := comm.Feedback{
		SocketId:    arrival.SocketId,
		Fingerprint: arrival.Fingerprint,
		Ok:          err == nil,
		CheckInID:   checkinID,
	}
	if err != nil {
		log.Errorf("Error recording arrival %s for event %s: %s", arrival.Fingerprint, arrival.EventID, err)
		feedback.Error = err.Error()
	}

	b.publishFeedback(feedback)
}

// publishFeedback is best-effort; a lost vibrate acknowledgement must never
// fail the check-in itself.
func (b *Broker) publishFeedback(feedback comm.Feedback) {
	bytes, err := json.Marshal(feedback)
	if err != nil {
		log.Errorf("Failed to marshal feedback: %v", err)
		return
	}

	if err := b.Conn.Publish(comm.SubjectFeedback, bytes); err != nil {
		log.Errorf("Error publishing feedback for socket %s: %s", feedback.SocketId, err)
	}
}
