package domain

import "errors"

var (
	// ErrNoTimestamp means a video record carries none of the three
	// timestamps; the record is skipped, not fatal to the batch.
	ErrNoTimestamp = errors.New("video record has no usable timestamp")

	// ErrUnknownEventType means a registration named a type outside the
	// configured catalog.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInvalidDateTime means a registration date/time failed to parse.
	ErrInvalidDateTime = errors.New("invalid date/time")

	// ErrDuplicateRegistration means an event with the same ID already
	// exists; recoverable with an explicit force flag.
	ErrDuplicateRegistration = errors.New("event already registered")

	// ErrMatchConflict means an event is already linked to a different
	// video. Never auto-resolved; relinking would corrupt the
	// classification record.
	ErrMatchConflict = errors.New("event already linked to a different video")

	// ErrEventNotFound means no registry entry matches the lookup.
	ErrEventNotFound = errors.New("no scheduled event found")

	// ErrInvalidTransition means a status change would skip a lifecycle
	// state or move backward.
	ErrInvalidTransition = errors.New("invalid event status transition")

	// ErrSchemaVersion means the persisted registry carries a schema
	// version this build does not understand. Fatal on load.
	ErrSchemaVersion = errors.New("unsupported schedule schema version")

	// ErrCollaborator wraps failures from the video platform; reported
	// per video, never aborts the rest of the batch.
	ErrCollaborator = errors.New("platform request failed")
)
