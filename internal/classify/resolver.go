package classify

import (
	"time"

	"auto_sort_vimeo/internal/domain"
)

// TimestampSource names which record field a resolved timestamp came
// from.
type TimestampSource string

const (
	SourceRelease  TimestampSource = "release_time"
	SourceModified TimestampSource = "modified_time"
	SourceCreated  TimestampSource = "created_time"
)

// ResolveTimestamp picks the single timestamp to classify a video by
// and converts it to the reference timezone. Release time wins when
// present (explicit scheduling intent); otherwise modified time, since
// archive-processing completion tracks the actual broadcast end far
// better than upload time; created time is the last resort.
func ResolveTimestamp(v domain.VideoRecord, loc *time.Location) (time.Time, TimestampSource, error) {
	switch {
	case v.ReleaseTime != nil:
		return v.ReleaseTime.In(loc), SourceRelease, nil
	case v.ModifiedTime != nil:
		return v.ModifiedTime.In(loc), SourceModified, nil
	case v.CreatedTime != nil:
		return v.CreatedTime.In(loc), SourceCreated, nil
	default:
		return time.Time{}, "", domain.ErrNoTimestamp
	}
}
