package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zackdesign/checkin-app/internal/checkinsvc/models"
)

// EventService manages check-in sessions.
type EventService struct {
	events EventStore
}

func NewEventService(events EventStore) *EventService {
	return &EventService{
		events: events,
	}
}

func (s *EventService) Create(ctx context.Context, name string, description *string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("event name is required")
	}

	return s.events.Create(ctx, name, description)
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) SetActive(ctx context.Context, id string, active bool) error {
	return s.events.SetActive(ctx, id, active)
}
