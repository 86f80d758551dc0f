package domain

import "time"

// VideoRecord is a read-only snapshot of a video as reported by the
// hosting platform. At least one of the three timestamps must be present
// for the record to be classifiable.
type VideoRecord struct {
	// ID is the platform identifier for the video
	ID string

	// Title is the current video title
	Title string

	// Description is the video description, which may embed a
	// classification payload written at scheduling time
	Description string

	// DurationSeconds is the video duration in seconds (0 if unknown)
	DurationSeconds int

	// CreatedTime is when the video object was created (upload time)
	CreatedTime *time.Time

	// ModifiedTime is when the video was last modified; for live-event
	// archives this tracks when archive processing finished
	ModifiedTime *time.Time

	// ReleaseTime is the explicit release/scheduling time, if any
	ReleaseTime *time.Time

	// ParentFolderID is the containing folder, empty for the team
	// library root
	ParentFolderID string

	// ParentFolderName is the display name of the containing folder
	ParentFolderName string

	// IsPlayable reports whether the video has playable content;
	// phantom live-event objects are not playable
	IsPlayable bool
}
