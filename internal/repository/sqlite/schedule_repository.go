package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"auto_sort_vimeo/internal/domain"
)

const eventColumns = `id, uri, event_type, title, scheduled_date, scheduled_time, scheduled_at,
	folder_destination, status, linked_video_id, manually_registered, metadata, created_at`

// ScheduleRepository is a SQLite implementation of
// domain.ScheduleRepository. Registry order is the insertion order,
// tracked explicitly in the seq column.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ScheduleRepository backed by SQLite.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetAll returns every event in registry order.
func (r *ScheduleRepository) GetAll() ([]*domain.ScheduledEvent, error) {
	rows, err := r.db.Query(`SELECT ` + eventColumns + ` FROM scheduled_events ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.ScheduledEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// GetByID returns the event with the given ID, or nil.
func (r *ScheduleRepository) GetByID(id string) (*domain.ScheduledEvent, error) {
	row := r.db.QueryRow(`SELECT `+eventColumns+` FROM scheduled_events WHERE id = ?`, id)
	return scanEvent(row)
}

// GetByOccurrence returns the event with the given (type, date, time)
// triple, or nil.
func (r *ScheduleRepository) GetByOccurrence(eventType, date, startTime string) (*domain.ScheduledEvent, error) {
	row := r.db.QueryRow(`SELECT `+eventColumns+` FROM scheduled_events
		WHERE event_type = ? AND scheduled_date = ? AND scheduled_time = ?
		ORDER BY seq ASC LIMIT 1`, eventType, date, startTime)
	return scanEvent(row)
}

// GetByVideoID returns the event linked to the given video, or nil.
func (r *ScheduleRepository) GetByVideoID(videoID string) (*domain.ScheduledEvent, error) {
	row := r.db.QueryRow(`SELECT `+eventColumns+` FROM scheduled_events
		WHERE linked_video_id = ? ORDER BY seq ASC LIMIT 1`, videoID)
	return scanEvent(row)
}

// Append adds a new event at the end of the registry order.
func (r *ScheduleRepository) Append(event *domain.ScheduledEvent) error {
	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`INSERT INTO scheduled_events
		(id, uri, event_type, title, scheduled_date, scheduled_time, scheduled_at,
			folder_destination, status, linked_video_id, manually_registered, metadata, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM scheduled_events))`,
		event.ID, event.URI, event.EventType, event.Title,
		event.ScheduledDate, event.ScheduledTime, event.ScheduledAt,
		string(event.Destination), string(event.Status), event.LinkedVideoID,
		boolToInt(event.ManuallyRegistered), metadata, event.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRegistration, event.ID)
		}
		return err
	}
	return nil
}

// Update overwrites the event with the same ID, keeping its registry
// position.
func (r *ScheduleRepository) Update(event *domain.ScheduledEvent) error {
	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`UPDATE scheduled_events SET
		uri = ?, event_type = ?, title = ?, scheduled_date = ?, scheduled_time = ?,
		scheduled_at = ?, folder_destination = ?, status = ?, linked_video_id = ?,
		manually_registered = ?, metadata = ?, created_at = ?
		WHERE id = ?`,
		event.URI, event.EventType, event.Title, event.ScheduledDate, event.ScheduledTime,
		event.ScheduledAt, string(event.Destination), string(event.Status), event.LinkedVideoID,
		boolToInt(event.ManuallyRegistered), metadata, event.CreatedAt, event.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, event.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.ScheduledEvent, error) {
	var event domain.ScheduledEvent
	var uri, linkedVideoID, metadata sql.NullString
	var destination, status string
	var manuallyRegistered int

	err := row.Scan(&event.ID, &uri, &event.EventType, &event.Title,
		&event.ScheduledDate, &event.ScheduledTime, &event.ScheduledAt,
		&destination, &status, &linkedVideoID, &manuallyRegistered, &metadata, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	event.URI = uri.String
	event.Destination = domain.Category(destination)
	event.Status = domain.EventStatus(status)
	event.LinkedVideoID = linkedVideoID.String
	event.ManuallyRegistered = manuallyRegistered != 0

	if metadata.Valid && metadata.String != "" {
		var meta domain.EventMetadata
		if err := json.Unmarshal([]byte(metadata.String), &meta); err != nil {
			return nil, fmt.Errorf("decode event metadata for %s: %w", event.ID, err)
		}
		event.Metadata = &meta
	}

	return &event, nil
}

func marshalMetadata(meta *domain.EventMetadata) (sql.NullString, error) {
	if meta == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode event metadata: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}
