package broker

import (
	"encoding/json"

	"github.com/zackdesign/checkin-app/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Broker carries station traffic over NATS: debounced tag reads out to the
// check-in service, record outcomes back in.
type Broker struct {
	Conn           *nats.Conn
	HandleFeedback func(comm.Feedback)
}

func NewBroker(conn *nats.Conn, handleFeedback func(comm.Feedback)) *Broker {
	return &Broker{
		Conn:           conn,
		HandleFeedback: handleFeedback,
	}
}

// SubscribeFeedback consumes record outcomes addressed to this service's
// stations.
func (b *Broker) SubscribeFeedback() (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(comm.SubjectFeedback, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessage(msgNats *nats.Msg) {
	feedback := comm.Feedback{}
	if err := json.Unmarshal(msgNats.Data, &feedback); err != nil {
		log.Errorf("Error unmarshaling feedback: %s", err)
		return
	}

	b.HandleFeedback(feedback)
}

// PublishArrival forwards one accepted tag read for recording.
func (b *Broker) PublishArrival(arrival comm.Arrival) error {
	bytes, err := json.Marshal(arrival)
	if err != nil {
		return err
	}

	if err := b.Conn.Publish(comm.SubjectArrivals, bytes); err != nil {
		log.Errorf("Error publishing arrival to %s: %s", comm.SubjectArrivals, err)
		return err
	}

	return nil
}
