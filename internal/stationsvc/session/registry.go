package session

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName holds active station sessions; the expires_at TTL index
// ages out sessions whose station vanished without disconnecting.
const CollectionName = "station_sessions"

const sessionTTL = 12 * time.Hour

// StationSession is one connected station view.
type StationSession struct {
	SocketID  string    `bson:"socket_id"`
	EventID   string    `bson:"event_id,omitempty"`
	StartedAt time.Time `bson:"started_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Registry tracks which stations are live.
type Registry struct {
	col *mongo.Collection
}

func NewRegistry(db *mongo.Database) *Registry {
	return &Registry{col: db.Collection(CollectionName)}
}

func (r *Registry) Register(ctx context.Context, socketID string) error {
	now := time.Now().UTC()
	_, err := r.col.InsertOne(ctx, StationSession{
		SocketID:  socketID,
		StartedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to register station session: %w", err)
	}

	return nil
}

// SetEvent records which event the station is currently watching.
func (r *Registry) SetEvent(ctx context.Context, socketID, eventID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"socket_id": socketID},
		bson.M{"$set": bson.M{"event_id": eventID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update station session: %w", err)
	}

	return nil
}

func (r *Registry) Remove(ctx context.Context, socketID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"socket_id": socketID})
	if err != nil {
		return fmt.Errorf("failed to remove station session: %w", err)
	}

	return nil
}
