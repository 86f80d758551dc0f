package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/google/renameio/v2"

	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/schedule"
)

// ScheduleRepository is a JSON-document implementation of
// domain.ScheduleRepository. The whole registry lives in one file and
// every mutation rewrites it atomically, assuming a single writer.
type ScheduleRepository struct {
	mu   sync.Mutex
	path string
	doc  *schedule.Document
}

// Open loads the registry document at path, creating an empty one if
// the file does not exist. An unknown schema version is a hard error.
func Open(path string) (*ScheduleRepository, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ScheduleRepository{path: path, doc: schedule.NewDocument(time.Now())}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}

	var doc schedule.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schedule file %s: %w", path, err)
	}
	if err := doc.CheckVersion(); err != nil {
		return nil, err
	}

	return &ScheduleRepository{path: path, doc: &doc}, nil
}

// GetAll returns every event in registry order.
func (r *ScheduleRepository) GetAll() ([]*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]*domain.ScheduledEvent, len(r.doc.Events))
	copy(events, r.doc.Events)
	return events, nil
}

// GetByID returns the event with the given ID, or nil.
func (r *ScheduleRepository) GetByID(id string) (*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.doc.Events {
		if event.ID == id {
			return event, nil
		}
	}
	return nil, nil
}

// GetByOccurrence returns the event with the given (type, date, time)
// triple, or nil.
func (r *ScheduleRepository) GetByOccurrence(eventType, date, startTime string) (*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.doc.Events {
		if event.EventType == eventType && event.ScheduledDate == date && event.ScheduledTime == startTime {
			return event, nil
		}
	}
	return nil, nil
}

// GetByVideoID returns the event linked to the given video, or nil.
func (r *ScheduleRepository) GetByVideoID(videoID string) (*domain.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.doc.Events {
		if event.LinkedVideoID == videoID {
			return event, nil
		}
	}
	return nil, nil
}

// Append adds a new event and rewrites the document.
func (r *ScheduleRepository) Append(event *domain.ScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.doc.Events {
		if existing.ID == event.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRegistration, event.ID)
		}
	}

	r.doc.Events = append(r.doc.Events, event)
	return r.save()
}

// Update overwrites the event with the same ID and rewrites the
// document.
func (r *ScheduleRepository) Update(event *domain.ScheduledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.doc.Events {
		if existing.ID == event.ID {
			r.doc.Events[i] = event
			return r.save()
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrEventNotFound, event.ID)
}

// save writes the document atomically: temp file, fsync, rename. A
// crash mid-write leaves the previous registry intact.
func (r *ScheduleRepository) save() error {
	r.doc.LastUpdated = time.Now()

	pending, err := renameio.NewPendingFile(r.path)
	if err != nil {
		return fmt.Errorf("create pending schedule file: %w", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	enc := json.NewEncoder(pending)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.doc); err != nil {
		return fmt.Errorf("encode schedule document: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace schedule file: %w", err)
	}
	return nil
}
