package feed

import (
	"context"
	"time"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
	"github.com/zackdesign/checkin-app/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Limit caps the feed at the most recent check-ins.
const Limit = 50

// Fetcher loads the joined detail view for one event, ordered by arrival
// instant descending. The pgx check-in store satisfies it.
type Fetcher interface {
	ListDetailedByEvent(ctx context.Context, eventID string, limit int) ([]models.CheckInDetail, error)
}

// Subscriber attaches a callback to a change-notification subject.
type Subscriber interface {
	Subscribe(subject string, cb func()) (Subscription, error)
}

type Subscription interface {
	Unsubscribe() error
}

// Synchronizer maintains the live feed for one mounted station view. Every
// change notice triggers a full refetch of the joined view rather than an
// incremental patch: joined profile/device fields can change out of band of
// the row that triggered the notice, and a missed or reordered notice
// self-heals on the next one.
type Synchronizer struct {
	eventID string
	fetcher Fetcher
	push    func([]models.CheckInDetail)
	sub     Subscription
}

// NewSynchronizer wires a feed for eventID; push receives the refreshed
// list on every change.
func NewSynchronizer(eventID string, fetcher Fetcher, push func([]models.CheckInDetail)) *Synchronizer {
	return &Synchronizer{
		eventID: eventID,
		fetcher: fetcher,
		push:    push,
	}
}

// Start subscribes to the event's change stream and pushes the initial
// list. Subscribing before the first fetch means no change can fall in the
// gap between them.
func (s *Synchronizer) Start(ctx context.Context, subscriber Subscriber) error {
	sub, err := subscriber.Subscribe(comm.CheckInChangedSubject(s.eventID), func() {
		s.refresh(context.Background())
	})
	if err != nil {
		return err
	}
	s.sub = sub

	s.refresh(ctx)
	return nil
}

// Stop tears the subscription down. A synchronizer must never outlive the
// view that mounted it.
func (s *Synchronizer) Stop() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			log.Errorf("Error unsubscribing feed for event %s: %s", s.eventID, err)
		}
		s.sub = nil
	}
}

func (s *Synchronizer) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	checkins, err := s.fetcher.ListDetailedByEvent(ctx, s.eventID, Limit)
	if err != nil {
		// skip this push; the next change notice refetches anyway
		log.Errorf("Error refreshing feed for event %s: %s", s.eventID, err)
		return
	}

	models.AnnotateDetails(checkins, time.Now())
	s.push(checkins)
}

// NatsSubscriber adapts a NATS connection to the Subscriber seam.
type NatsSubscriber struct {
	Conn *nats.Conn
}

func (n *NatsSubscriber) Subscribe(subject string, cb func()) (Subscription, error) {
	return n.Conn.Subscribe(subject, func(*nats.Msg) {
		cb()
	})
}
