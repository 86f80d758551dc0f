package domain

import "time"

// EventStatus tracks a scheduled event through its lifecycle.
type EventStatus string

const (
	// EventStatusScheduled indicates the event was created through this
	// system ahead of time
	EventStatusScheduled EventStatus = "scheduled"

	// EventStatusRegistered indicates the event was created elsewhere
	// (e.g. the platform web UI) and only recorded here
	EventStatusRegistered EventStatus = "registered"

	// EventStatusArchived indicates the event has been matched to a
	// discovered archive video
	EventStatusArchived EventStatus = "archived"

	// EventStatusClassified indicates the rename/move side effects have
	// been applied and confirmed; terminal
	EventStatusClassified EventStatus = "classified"
)

// CanTransitionTo reports whether the lifecycle allows moving from s to
// next. No transition skips a state or moves backward.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusScheduled, EventStatusRegistered:
		return next == EventStatusArchived
	case EventStatusArchived:
		return next == EventStatusClassified
	default:
		return false
	}
}

// EventMetadata is the structured classification payload embedded in a
// video description at scheduling time. The reconciler only reads the
// identity fields; everything else is carried opaquely.
type EventMetadata struct {
	Classification EventClassification `json:"classification"`
	GeneratedBy    string              `json:"generated_by"`
	Version        string              `json:"version"`
}

// EventClassification holds the identity triple plus the pre-decided
// destination for an event.
type EventClassification struct {
	EventType        string   `json:"event_type"`
	ScheduledDate    string   `json:"scheduled_date"`
	ScheduledTime    string   `json:"scheduled_time"`
	Destination      Category `json:"folder_destination"`
	ExpectedDuration int      `json:"expected_duration_minutes"`
}

// ScheduledEvent is one entry in the schedule registry. Entries are
// never deleted; they only progress through the status lifecycle.
type ScheduledEvent struct {
	// ID is the platform event/video ID, or a generated ID for entries
	// that only exist in the registry
	ID string `json:"id"`

	// URI is the platform resource URI, if known
	URI string `json:"uri,omitempty"`

	// EventType names the entry in the configured event-type catalog
	EventType string `json:"event_type"`

	// Title is the canonical scheduled title ({date} - {HHMM} - {type})
	Title string `json:"title"`

	// ScheduledDate is the event date (YYYY-MM-DD)
	ScheduledDate string `json:"scheduled_date"`

	// ScheduledTime is the event start time (HH:MM)
	ScheduledTime string `json:"scheduled_time"`

	// ScheduledAt is the combined date+time in the reference timezone
	ScheduledAt time.Time `json:"scheduled_datetime_iso"`

	// Destination is the category the archived video will be filed under
	Destination Category `json:"folder_destination"`

	// Status is the current lifecycle status
	Status EventStatus `json:"status"`

	// LinkedVideoID is the archive video this event was matched to
	LinkedVideoID string `json:"archived_video_id,omitempty"`

	// ManuallyRegistered marks entries recorded after the fact
	ManuallyRegistered bool `json:"manually_registered,omitempty"`

	// Metadata is the payload that was embedded in the event description
	Metadata *EventMetadata `json:"metadata,omitempty"`

	// CreatedAt is when the registry entry was created
	CreatedAt time.Time `json:"created_at"`
}

// ScheduleRepository is the registry of scheduled events. Entries keep
// their insertion order; ID lookups are unique. Implementations must be
// safe for use from a single writer at a time.
type ScheduleRepository interface {
	// GetAll returns every event in registry order
	GetAll() ([]*ScheduledEvent, error)

	// GetByID returns the event with the given ID, or nil
	GetByID(id string) (*ScheduledEvent, error)

	// GetByOccurrence returns the event with the given
	// (type, date, time) triple, or nil
	GetByOccurrence(eventType, date, startTime string) (*ScheduledEvent, error)

	// GetByVideoID returns the event linked to the given video, or nil
	GetByVideoID(videoID string) (*ScheduledEvent, error)

	// Append adds a new event; fails with ErrDuplicateRegistration if
	// the ID already exists
	Append(event *ScheduledEvent) error

	// Update overwrites the event with the same ID; fails with
	// ErrEventNotFound if it does not exist
	Update(event *ScheduledEvent) error
}
