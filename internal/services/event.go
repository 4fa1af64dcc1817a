package services

import (
	"context"
	"fmt"

	"campusevents/internal/domain"
)

type eventService struct {
	store domain.Store
}

// NewEventService creates an EventService backed by the given store.
func NewEventService(store domain.Store) domain.EventService {
	return &eventService{store: store}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.EventWithCounts, error) {
	events, err := s.store.ListEventsWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.EventWithCounts{}
	}
	return events, nil
}
