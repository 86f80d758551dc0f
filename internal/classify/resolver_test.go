package classify

import (
	"errors"
	"testing"
	"time"

	"auto_sort_vimeo/internal/domain"
)

func TestResolveTimestamp(t *testing.T) {
	loc := chicago(t)

	release := time.Date(2024, 12, 8, 15, 30, 0, 0, time.UTC)
	modified := time.Date(2024, 12, 8, 17, 0, 0, 0, time.UTC)
	created := time.Date(2024, 12, 8, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		record     domain.VideoRecord
		wantTime   time.Time
		wantSource TimestampSource
	}{
		{
			name:       "release time wins",
			record:     domain.VideoRecord{ReleaseTime: &release, ModifiedTime: &modified, CreatedTime: &created},
			wantTime:   release,
			wantSource: SourceRelease,
		},
		{
			name:       "modified time when no release",
			record:     domain.VideoRecord{ModifiedTime: &modified, CreatedTime: &created},
			wantTime:   modified,
			wantSource: SourceModified,
		},
		{
			name:       "created time last",
			record:     domain.VideoRecord{CreatedTime: &created},
			wantTime:   created,
			wantSource: SourceCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source, err := ResolveTimestamp(tt.record, loc)
			if err != nil {
				t.Fatalf("ResolveTimestamp() error = %v", err)
			}
			if source != tt.wantSource {
				t.Errorf("source = %s, want %s", source, tt.wantSource)
			}
			if !got.Equal(tt.wantTime) {
				t.Errorf("time = %v, want %v", got, tt.wantTime)
			}
			if got.Location() != loc {
				t.Errorf("location = %v, want %v", got.Location(), loc)
			}
		})
	}
}

func TestResolveTimestampNone(t *testing.T) {
	loc := chicago(t)

	_, _, err := ResolveTimestamp(domain.VideoRecord{}, loc)
	if !errors.Is(err, domain.ErrNoTimestamp) {
		t.Fatalf("error = %v, want ErrNoTimestamp", err)
	}
}
