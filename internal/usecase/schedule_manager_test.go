package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/repository/memory"
	"auto_sort_vimeo/internal/schedule"
)

func testConfig() *config.Config {
	return &config.Config{
		Timezone:      "America/Chicago",
		LookbackHours: 72,
		FolderDestinations: map[string]string{
			"worship_services":   "15749517",
			"weddings_memorials": "2478125",
			"scotts_classes":     "15680946",
			"root_class":         "10606776",
		},
		ExcludedFolders: []string{"11103430", "182762", "8219992"},
		EventTypes: []config.EventTypeConfig{
			{Name: "Test Service A", Destination: "worship_services", TypicalDurationMinutes: 60},
			{Name: "Test Class Alpha", Destination: "scotts_classes", TypicalDurationMinutes: 45},
		},
	}
}

func newTestManager(t *testing.T) (*ScheduleManager, *memory.ScheduleRepository) {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	repo := memory.NewScheduleRepository()
	return NewScheduleManager(testConfig(), repo, loc), repo
}

func TestRegister(t *testing.T) {
	manager, _ := newTestManager(t)

	event, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{
		EventID:            "12345",
		ManuallyRegistered: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "12345", event.ID)
	assert.Equal(t, "2024-12-07 - 0930 - Test Service A", event.Title)
	assert.Equal(t, domain.CategoryWorshipServices, event.Destination)
	assert.Equal(t, domain.EventStatusRegistered, event.Status)
	assert.Equal(t, "12345", event.LinkedVideoID)
	assert.Equal(t, "/videos/12345", event.URI)
	require.NotNil(t, event.Metadata)
	assert.Equal(t, 60, event.Metadata.Classification.ExpectedDuration)
}

func TestRegisterGeneratesID(t *testing.T) {
	manager, _ := newTestManager(t)

	event, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.EventStatusScheduled, event.Status)
	assert.Empty(t, event.LinkedVideoID)
}

func TestRegisterUnknownType(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("No Such Type", "2024-12-07", "09:30", RegisterOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownEventType)
}

func TestRegisterInvalidDateTime(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("Test Service A", "12/07/2024", "09:30", RegisterOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidDateTime)

	_, err = manager.Register("Test Service A", "2024-12-07", "9:30 AM", RegisterOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidDateTime)
}

func TestRegisterDuplicateAndForce(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "12345"})
	require.NoError(t, err)

	_, err = manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "12345"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	replaced, err := manager.Register("Test Class Alpha", "2024-12-09", "19:00", RegisterOptions{
		EventID: "12345",
		Force:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Test Class Alpha", replaced.EventType)
}

func matchableVideo(id, title, description string) *domain.VideoRecord {
	return &domain.VideoRecord{ID: id, Title: title, Description: description}
}

func TestMatchVideosByMetadata(t *testing.T) {
	manager, repo := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "event-1"})
	require.NoError(t, err)

	meta := schedule.NewMetadata("Test Service A", "2024-12-07", "09:30", domain.CategoryWorshipServices, 60)
	description, err := schedule.EncodeDescription(meta)
	require.NoError(t, err)

	outcomes, err := manager.MatchVideos([]*domain.VideoRecord{
		matchableVideo("vid-9", "Some Archive", description),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].Linked)
	assert.True(t, outcomes[0].ByMetadata)
	assert.NoError(t, outcomes[0].Err)

	event, err := repo.GetByID("event-1")
	require.NoError(t, err)
	assert.Equal(t, "vid-9", event.LinkedVideoID)
	assert.Equal(t, domain.EventStatusArchived, event.Status)
}

func TestMatchVideosByTitle(t *testing.T) {
	manager, repo := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "event-1"})
	require.NoError(t, err)

	outcomes, err := manager.MatchVideos([]*domain.VideoRecord{
		matchableVideo("vid-9", "2024-12-07 - 0930 - Test Service A (archive)", ""),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].Linked)
	assert.False(t, outcomes[0].ByMetadata)

	event, err := repo.GetByID("event-1")
	require.NoError(t, err)
	assert.Equal(t, "vid-9", event.LinkedVideoID)
}

func TestMatchVideosIdempotent(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "event-1"})
	require.NoError(t, err)

	video := matchableVideo("vid-9", "2024-12-07 - 0930 - Test Service A", "")

	outcomes, err := manager.MatchVideos([]*domain.VideoRecord{video})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Linked)

	// Second pass finds the same link and does nothing.
	outcomes, err = manager.MatchVideos([]*domain.VideoRecord{video})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Linked)
	assert.NoError(t, outcomes[0].Err)
}

func TestMatchVideosConflict(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "event-1"})
	require.NoError(t, err)

	_, err = manager.MatchVideos([]*domain.VideoRecord{
		matchableVideo("vid-1", "2024-12-07 - 0930 - Test Service A", ""),
	})
	require.NoError(t, err)

	// A different video matching the same event is a conflict, not a
	// relink.
	outcomes, err := manager.MatchVideos([]*domain.VideoRecord{
		matchableVideo("vid-2", "2024-12-07 - 0930 - Test Service A", ""),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Linked)
	assert.ErrorIs(t, outcomes[0].Err, domain.ErrMatchConflict)
}

func TestResolveClassification(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "event-1"})
	require.NoError(t, err)

	_, err = manager.MatchVideos([]*domain.VideoRecord{
		matchableVideo("vid-9", "2024-12-07 - 0930 - Test Service A", ""),
	})
	require.NoError(t, err)

	resolved, err := manager.ResolveClassification("vid-9")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-07 - 0930 - Test Service A", resolved.Title)
	assert.Equal(t, domain.CategoryWorshipServices, resolved.Destination)
	assert.Equal(t, "event-1", resolved.Event.ID)
}

func TestResolveClassificationByEntryID(t *testing.T) {
	manager, _ := newTestManager(t)

	// Manually registered events carry the video ID as the entry ID.
	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{
		EventID:            "12345",
		ManuallyRegistered: true,
	})
	require.NoError(t, err)

	resolved, err := manager.ResolveClassification("12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", resolved.Event.ID)
}

func TestResolveClassificationNotFound(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.ResolveClassification("nope")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestMarkClassified(t *testing.T) {
	manager, repo := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "event-1"})
	require.NoError(t, err)

	// scheduled -> classified skips archived and must fail.
	err = manager.MarkClassified("event-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = manager.MatchVideos([]*domain.VideoRecord{
		matchableVideo("vid-9", "2024-12-07 - 0930 - Test Service A", ""),
	})
	require.NoError(t, err)

	require.NoError(t, manager.MarkClassified("event-1"))

	event, err := repo.GetByID("event-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusClassified, event.Status)

	// classified is terminal.
	err = manager.MarkClassified("event-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestListEvents(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("Test Service A", "2024-12-07", "09:30", RegisterOptions{EventID: "a"})
	require.NoError(t, err)
	_, err = manager.Register("Test Service A", "2099-01-01", "09:30", RegisterOptions{EventID: "b"})
	require.NoError(t, err)
	_, err = manager.Register("Test Class Alpha", "2024-12-09", "19:00", RegisterOptions{EventID: "c", ManuallyRegistered: true})
	require.NoError(t, err)

	all, err := manager.ListEvents("", false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest scheduled time first.
	assert.Equal(t, "b", all[0].ID)

	upcoming, err := manager.ListEvents("", true)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "b", upcoming[0].ID)

	registered, err := manager.ListEvents(domain.EventStatusRegistered, false)
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.Equal(t, "c", registered[0].ID)
}
