package memory

import (
	"fmt"
	"sync"

	"auto_sort_vimeo/internal/domain"
)

// ScheduleRepository is an in-memory implementation of
// domain.ScheduleRepository, used in tests and dry runs. Events keep
// their insertion order.
type ScheduleRepository struct {
	mu     sync.Mutex
	events []*domain.ScheduledEvent
	byID   map[string]*domain.ScheduledEvent
}

// NewScheduleRepository creates an empty in-memory registry.
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		byID: make(map[string]*domain.ScheduledEvent),
	}
}

func (r *ScheduleRepository) GetAll() ([]*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.ScheduledEvent, len(r.events))
	for i, event := range r.events {
		out[i] = cloneEvent(event)
	}
	return out, nil
}

func (r *ScheduleRepository) GetByID(id string) (*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return cloneEvent(r.byID[id]), nil
}

func (r *ScheduleRepository) GetByOccurrence(eventType, date, startTime string) (*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events {
		if event.EventType == eventType && event.ScheduledDate == date && event.ScheduledTime == startTime {
			return cloneEvent(event), nil
		}
	}
	return nil, nil
}

func (r *ScheduleRepository) GetByVideoID(videoID string) (*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events {
		if event.LinkedVideoID == videoID {
			return cloneEvent(event), nil
		}
	}
	return nil, nil
}

func (r *ScheduleRepository) Append(event *domain.ScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[event.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRegistration, event.ID)
	}
	stored := cloneEvent(event)
	r.events = append(r.events, stored)
	r.byID[stored.ID] = stored
	return nil
}

func (r *ScheduleRepository) Update(event *domain.ScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.byID[event.ID]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, event.ID)
	}
	*existing = *cloneEvent(event)
	return nil
}

func cloneEvent(event *domain.ScheduledEvent) *domain.ScheduledEvent {
	if event == nil {
		return nil
	}
	clone := *event
	if event.Metadata != nil {
		meta := *event.Metadata
		clone.Metadata = &meta
	}
	return &clone
}
