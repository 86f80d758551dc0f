package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_sort_vimeo/internal/classify"
	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/repository/memory"
)

// stubPlatform records rename/move calls and can fail them selectively.
type stubPlatform struct {
	videos    []*domain.VideoRecord
	renames   map[string]string
	moves     map[string]string
	renameErr error
	moveErr   error
}

func newStubPlatform(videos ...*domain.VideoRecord) *stubPlatform {
	return &stubPlatform{
		videos:  videos,
		renames: make(map[string]string),
		moves:   make(map[string]string),
	}
}

func (s *stubPlatform) ListRecentlyModified(ctx context.Context, since time.Time) ([]*domain.VideoRecord, error) {
	return s.videos, nil
}

func (s *stubPlatform) Rename(ctx context.Context, videoID, title string) error {
	if s.renameErr != nil {
		return s.renameErr
	}
	s.renames[videoID] = title
	return nil
}

func (s *stubPlatform) MoveToFolder(ctx context.Context, videoID, folderID string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.moves[videoID] = folderID
	return nil
}

func rootVideo(id, title string, modified time.Time) *domain.VideoRecord {
	return &domain.VideoRecord{
		ID:           id,
		Title:        title,
		ModifiedTime: &modified,
		IsPlayable:   true,
	}
}

func newTestSorter(t *testing.T, platform VideoPlatform) (*VideoSorter, *ScheduleManager) {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	cfg := testConfig()
	manager := NewScheduleManager(cfg, memory.NewScheduleRepository(), loc)
	classifier := classify.New(classify.DefaultConfig(loc))
	return NewVideoSorter(cfg, platform, classifier, manager, loc), manager
}

func TestRunClassifiesAndMoves(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	// Sunday 10:40 local, inside the 9:30 service window.
	modified := time.Date(2024, 12, 8, 10, 40, 0, 0, loc)

	platform := newStubPlatform(rootVideo("vid-1", "Worship Service Livestream", modified))
	sorter, _ := newTestSorter(t, platform)

	stats, err := sorter.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Renamed)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 0, stats.Errors)

	assert.Equal(t, "2024-12-08 - Worship Service - 9:30 AM", platform.renames["vid-1"])
	assert.Equal(t, "15749517", platform.moves["vid-1"])
}

func TestRunSkipRules(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	modified := time.Date(2024, 12, 8, 10, 40, 0, 0, loc)

	notPlayable := rootVideo("vid-1", "Worship Service", modified)
	notPlayable.IsPlayable = false

	excluded := rootVideo("vid-2", "Worship Service", modified)
	excluded.ParentFolderID = "182762"

	alreadyFiled := rootVideo("vid-3", "Worship Service", modified)
	alreadyFiled.ParentFolderID = "15749517"

	elsewhere := rootVideo("vid-4", "Worship Service", modified)
	elsewhere.ParentFolderID = "555"

	platform := newStubPlatform(notPlayable, excluded, alreadyFiled, elsewhere)
	sorter, _ := newTestSorter(t, platform)

	stats, err := sorter.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Scanned)
	assert.Equal(t, 4, stats.Skipped)
	assert.Equal(t, 0, stats.Processed)
	assert.Empty(t, platform.renames)
	assert.Empty(t, platform.moves)
}

func TestRunSkipsTitleAlreadyCorrect(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	modified := time.Date(2024, 12, 8, 10, 40, 0, 0, loc)

	platform := newStubPlatform(rootVideo("vid-1", "2024-12-08 - Worship Service - 9:30 AM", modified))
	sorter, _ := newTestSorter(t, platform)

	stats, err := sorter.Run(context.Background())
	require.NoError(t, err)

	// Still moved, but no rename call for an already-correct title.
	assert.Equal(t, 0, stats.Renamed)
	assert.Equal(t, 1, stats.Moved)
	assert.Empty(t, platform.renames)
}

func TestRunRenameFailureDoesNotBlockMove(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	modified := time.Date(2024, 12, 8, 10, 40, 0, 0, loc)

	platform := newStubPlatform(rootVideo("vid-1", "Worship Service", modified))
	platform.renameErr = errors.New("api down")
	sorter, _ := newTestSorter(t, platform)

	stats, err := sorter.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Renamed)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, "15749517", platform.moves["vid-1"])
}

func TestRunNoTimestampSkipsRecord(t *testing.T) {
	video := &domain.VideoRecord{ID: "vid-1", Title: "Worship Service", IsPlayable: true}

	platform := newStubPlatform(video)
	sorter, _ := newTestSorter(t, platform)

	stats, err := sorter.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Empty(t, platform.renames)
	assert.Empty(t, platform.moves)
}

func TestRunPrefersScheduleRegistry(t *testing.T) {
	loc, _ := time.LoadLocation("America/Chicago")
	// Timestamp inside the Sunday worship window, but the registry
	// knows better.
	modified := time.Date(2024, 12, 8, 10, 40, 0, 0, loc)

	video := rootVideo("vid-1", "Worship Service Livestream", modified)
	platform := newStubPlatform(video)
	sorter, manager := newTestSorter(t, platform)

	_, err := manager.Register("Test Class Alpha", "2024-12-08", "10:30", RegisterOptions{
		EventID:            "vid-1",
		ManuallyRegistered: true,
	})
	require.NoError(t, err)

	stats, err := sorter.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-12-08 - 1030 - Test Class Alpha", platform.renames["vid-1"])
	assert.Equal(t, "15680946", platform.moves["vid-1"])

	// Both side effects succeeded, so the event lifecycle advanced.
	resolved, err := manager.ResolveClassification("vid-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusClassified, resolved.Event.Status)
	assert.Equal(t, 1, stats.Reconciled)
}
