package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_sort_vimeo/internal/domain"
)

func TestEventTitle(t *testing.T) {
	got := EventTitle("Test Service A", "2024-12-07", "09:30")
	assert.Equal(t, "2024-12-07 - 0930 - Test Service A", got)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	meta := NewMetadata("Test Service A", "2024-12-07", "09:30", domain.CategoryWorshipServices, 60)

	description, err := EncodeDescription(meta)
	require.NoError(t, err)

	assert.Contains(t, description, "Scheduled Event: Test Service A")
	assert.Contains(t, description, MetadataMarker)

	parsed, ok := ParseDescription(description)
	require.True(t, ok)
	assert.Equal(t, meta, *parsed)
}

func TestParseDescriptionTrailingContent(t *testing.T) {
	meta := NewMetadata("Test Class Alpha", "2024-12-09", "19:00", domain.CategoryScottsClasses, 45)
	description, err := EncodeDescription(meta)
	require.NoError(t, err)

	// Platform UIs and users append to descriptions; only the marker
	// line is the payload.
	description += "\n\nEdited later by a human."

	parsed, ok := ParseDescription(description)
	require.True(t, ok)
	assert.Equal(t, "Test Class Alpha", parsed.Classification.EventType)
}

func TestParseDescriptionRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name        string
		description string
	}{
		{"no marker", "Just a plain description"},
		{"empty", ""},
		{"broken json", MetadataMarker + "{not json"},
		{"missing event type", MetadataMarker + `{"classification":{},"version":"1.0"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseDescription(tt.description)
			assert.False(t, ok)
			assert.Nil(t, parsed)
		})
	}
}

func TestDocumentVersionCheck(t *testing.T) {
	doc := Document{Version: "2.0"}
	err := doc.CheckVersion()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaVersion)
	assert.True(t, strings.Contains(err.Error(), "2.0"))
}
