package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"auto_sort_vimeo/internal/domain"
)

// MetadataMarker prefixes the machine-parseable line in an event
// description. Everything after the marker on that line is a JSON
// payload; the surrounding lines are for humans.
const MetadataMarker = "AUTO_SORT_METADATA:"

// PayloadVersion is written into every generated payload.
const PayloadVersion = "1.0"

// GeneratedBy identifies this system in embedded payloads.
const GeneratedBy = "auto_sort_vimeo"

// EventTitle renders the canonical scheduled title:
// "YYYY-MM-DD - HHMM - Event Type".
func EventTitle(eventType, date, startTime string) string {
	return fmt.Sprintf("%s - %s - %s", date, strings.ReplaceAll(startTime, ":", ""), eventType)
}

// NewMetadata builds the payload embedded at scheduling time.
func NewMetadata(eventType, date, startTime string, destination domain.Category, durationMinutes int) domain.EventMetadata {
	return domain.EventMetadata{
		Classification: domain.EventClassification{
			EventType:        eventType,
			ScheduledDate:    date,
			ScheduledTime:    startTime,
			Destination:      destination,
			ExpectedDuration: durationMinutes,
		},
		GeneratedBy: GeneratedBy,
		Version:     PayloadVersion,
	}
}

// EncodeDescription renders the human-readable description with the
// machine-parseable payload on its marker line.
func EncodeDescription(meta domain.EventMetadata) (string, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal classification payload: %w", err)
	}

	lines := []string{
		fmt.Sprintf("Scheduled Event: %s", meta.Classification.EventType),
		fmt.Sprintf("Date: %s", meta.Classification.ScheduledDate),
		fmt.Sprintf("Time: %s", meta.Classification.ScheduledTime),
		"",
		"--- CLASSIFICATION METADATA (DO NOT EDIT) ---",
		MetadataMarker + string(raw),
	}
	return strings.Join(lines, "\n"), nil
}

// ParseDescription extracts the embedded payload from a video
// description. Returns false when no marker is present or the payload
// does not parse; callers fall back to title matching in that case.
func ParseDescription(description string) (*domain.EventMetadata, bool) {
	_, after, found := strings.Cut(description, MetadataMarker)
	if !found {
		return nil, false
	}

	// The payload occupies the rest of the marker line only.
	if nl := strings.IndexByte(after, '\n'); nl != -1 {
		after = after[:nl]
	}
	after = strings.TrimSpace(after)

	var meta domain.EventMetadata
	if err := json.Unmarshal([]byte(after), &meta); err != nil {
		return nil, false
	}
	if meta.Classification.EventType == "" {
		return nil, false
	}
	return &meta, true
}
