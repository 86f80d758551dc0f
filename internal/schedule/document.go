package schedule

import (
	"fmt"
	"time"

	"auto_sort_vimeo/internal/domain"
)

// SchemaVersion is the registry document schema this build reads and
// writes. Loading a document with any other version fails; guessing at
// a future schema is worse than stopping.
const SchemaVersion = "1.0"

// Document is the persisted registry: an ordered list of scheduled
// events plus bookkeeping. It is a single mutable document with one
// writer, not a concurrent store.
type Document struct {
	Version     string                   `json:"version"`
	Created     time.Time                `json:"created"`
	LastUpdated time.Time                `json:"last_updated"`
	Events      []*domain.ScheduledEvent `json:"events"`
}

// NewDocument returns an empty registry document at the current schema.
func NewDocument(now time.Time) *Document {
	return &Document{
		Version: SchemaVersion,
		Created: now,
		Events:  []*domain.ScheduledEvent{},
	}
}

// CheckVersion validates the document's schema version.
func (d *Document) CheckVersion() error {
	if d.Version != SchemaVersion {
		return fmt.Errorf("%w: got %q, want %q", domain.ErrSchemaVersion, d.Version, SchemaVersion)
	}
	return nil
}
