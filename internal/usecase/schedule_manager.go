package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/logger"
	"auto_sort_vimeo/internal/schedule"
)

// EventPlatform is the subset of the video platform API the schedule
// manager needs for creating and verifying live events.
type EventPlatform interface {
	FetchVideo(ctx context.Context, videoID string) (*domain.VideoRecord, error)
	CreateLiveEvent(ctx context.Context, title, description string, scheduledAt time.Time, timezone string) (id, uri string, err error)
}

// ScheduleManager maintains the scheduled-event registry and links
// archive videos back to their events.
type ScheduleManager struct {
	cfg      *config.Config
	repo     domain.ScheduleRepository
	location *time.Location
	log      zerolog.Logger
}

// NewScheduleManager creates a new schedule manager.
func NewScheduleManager(cfg *config.Config, repo domain.ScheduleRepository, location *time.Location) *ScheduleManager {
	return &ScheduleManager{
		cfg:      cfg,
		repo:     repo,
		location: location,
		log:      logger.With("schedule"),
	}
}

// RegisterOptions control how an event registration behaves.
type RegisterOptions struct {
	// EventID is the platform event ID; a registry ID is generated when
	// empty
	EventID string

	// URI is the platform resource URI, if known
	URI string

	// Force replaces an existing entry with the same ID instead of
	// failing
	Force bool

	// ManuallyRegistered marks entries recorded after the fact for an
	// event created outside this system
	ManuallyRegistered bool
}

// Register records a scheduled event in the registry. The event type
// must exist in the configured catalog and the date/time must parse as
// YYYY-MM-DD HH:MM in the reference timezone.
func (m *ScheduleManager) Register(eventType, date, startTime string, opts RegisterOptions) (*domain.ScheduledEvent, error) {
	typeConfig := m.cfg.EventTypeByName(eventType)
	if typeConfig == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEventType, eventType)
	}

	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startTime, m.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrInvalidDateTime, date, startTime)
	}

	id := opts.EventID
	if id == "" {
		id = uuid.NewString()
	}

	status := domain.EventStatusScheduled
	if opts.ManuallyRegistered {
		status = domain.EventStatusRegistered
	}

	meta := schedule.NewMetadata(eventType, date, startTime, domain.Category(typeConfig.Destination), typeConfig.TypicalDurationMinutes)
	event := &domain.ScheduledEvent{
		ID:                 id,
		URI:                opts.URI,
		EventType:          eventType,
		Title:              schedule.EventTitle(eventType, date, startTime),
		ScheduledDate:      date,
		ScheduledTime:      startTime,
		ScheduledAt:        scheduledAt,
		Destination:        domain.Category(typeConfig.Destination),
		Status:             status,
		ManuallyRegistered: opts.ManuallyRegistered,
		Metadata:           &meta,
		CreatedAt:          time.Now().In(m.location),
	}
	if opts.ManuallyRegistered {
		// For events registered after the fact the registry ID is the
		// platform video ID itself.
		event.LinkedVideoID = id
		if event.URI == "" {
			event.URI = "/videos/" + id
		}
	}

	err = m.repo.Append(event)
	if err == nil {
		m.log.Info().
			Str("event_id", event.ID).
			Str("event_type", eventType).
			Str("scheduled", date+" "+startTime).
			Msg("event registered")
		return event, nil
	}
	if !opts.Force {
		return nil, err
	}

	// Force keeps the registry position and replaces the entry.
	if updateErr := m.repo.Update(event); updateErr != nil {
		return nil, updateErr
	}
	m.log.Warn().Str("event_id", event.ID).Msg("existing registration replaced")
	return event, nil
}

// CreateEvent schedules a live event on the platform with the embedded
// classification payload and records it in the registry. Past start
// times are rejected unless forced.
func (m *ScheduleManager) CreateEvent(ctx context.Context, platform EventPlatform, eventType, date, startTime string, force bool) (*domain.ScheduledEvent, error) {
	typeConfig := m.cfg.EventTypeByName(eventType)
	if typeConfig == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEventType, eventType)
	}

	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startTime, m.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrInvalidDateTime, date, startTime)
	}
	if scheduledAt.Before(time.Now().In(m.location)) && !force {
		return nil, fmt.Errorf("%w: scheduled time %s is in the past", domain.ErrInvalidDateTime, scheduledAt)
	}

	title := schedule.EventTitle(eventType, date, startTime)
	meta := schedule.NewMetadata(eventType, date, startTime, domain.Category(typeConfig.Destination), typeConfig.TypicalDurationMinutes)
	description, err := schedule.EncodeDescription(meta)
	if err != nil {
		return nil, err
	}

	id, uri, err := platform.CreateLiveEvent(ctx, title, description, scheduledAt, m.cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return m.Register(eventType, date, startTime, RegisterOptions{
		EventID: id,
		URI:     uri,
		Force:   force,
	})
}

// VerifyRegistration fetches the platform video for an event ID that is
// about to be registered after the fact. Returns the current title.
func (m *ScheduleManager) VerifyRegistration(ctx context.Context, platform EventPlatform, eventID string) (string, error) {
	video, err := platform.FetchVideo(ctx, eventID)
	if err != nil {
		return "", err
	}
	return video.Title, nil
}

// MatchOutcome describes what happened to one video during matching.
type MatchOutcome struct {
	VideoID   string
	EventID   string
	EventType string

	// Linked is true when this run created a new link
	Linked bool

	// ByMetadata is true for embedded-payload matches, false for title
	// containment matches
	ByMetadata bool

	// Err is set when linking failed, e.g. on a conflicting prior link
	Err error
}

// MatchVideos scans video records for embedded metadata payloads or
// canonical scheduled titles and links them to registry entries.
// Metadata matches take precedence over title matches.
func (m *ScheduleManager) MatchVideos(videos []*domain.VideoRecord) ([]MatchOutcome, error) {
	events, err := m.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	var outcomes []MatchOutcome
	for _, video := range videos {
		outcome, matched := m.matchOne(video)
		if matched {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes, nil
}

func (m *ScheduleManager) matchOne(video *domain.VideoRecord) (MatchOutcome, bool) {
	if meta, ok := schedule.ParseDescription(video.Description); ok {
		cls := meta.Classification
		event, err := m.repo.GetByOccurrence(cls.EventType, cls.ScheduledDate, cls.ScheduledTime)
		if err == nil && event != nil {
			return m.link(event, video.ID, true), true
		}
		m.log.Debug().
			Str("video_id", video.ID).
			Str("event_type", cls.EventType).
			Msg("embedded metadata without a matching registry entry")
		return MatchOutcome{}, false
	}

	// No payload; fall back to canonical title containment, first
	// registry entry wins.
	events, err := m.repo.GetAll()
	if err != nil {
		return MatchOutcome{}, false
	}
	for _, event := range events {
		if event.Title != "" && strings.Contains(video.Title, event.Title) {
			return m.link(event, video.ID, false), true
		}
	}
	return MatchOutcome{}, false
}

func (m *ScheduleManager) link(event *domain.ScheduledEvent, videoID string, byMetadata bool) MatchOutcome {
	outcome := MatchOutcome{
		VideoID:    videoID,
		EventID:    event.ID,
		EventType:  event.EventType,
		ByMetadata: byMetadata,
	}

	if event.LinkedVideoID == videoID {
		// Already linked to this video; matching is idempotent.
		return outcome
	}
	if event.LinkedVideoID != "" {
		outcome.Err = fmt.Errorf("%w: event %s is linked to video %s", domain.ErrMatchConflict, event.ID, event.LinkedVideoID)
		return outcome
	}

	event.LinkedVideoID = videoID
	if event.Status.CanTransitionTo(domain.EventStatusArchived) {
		event.Status = domain.EventStatusArchived
	}
	if err := m.repo.Update(event); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Linked = true
	m.log.Info().
		Str("event_id", event.ID).
		Str("video_id", videoID).
		Bool("by_metadata", byMetadata).
		Msg("video linked to scheduled event")
	return outcome
}

// ScheduleClassification is a classification derived from a registry
// entry rather than heuristics.
type ScheduleClassification struct {
	Event       *domain.ScheduledEvent
	Title       string
	Destination domain.Category
}

// ResolveClassification looks up the scheduled event for a video and
// derives the correct title and destination from the registry entry.
func (m *ScheduleManager) ResolveClassification(videoID string) (*ScheduleClassification, error) {
	event, err := m.repo.GetByVideoID(videoID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		// Manually registered events use the video ID as the entry ID.
		event, err = m.repo.GetByID(videoID)
		if err != nil {
			return nil, err
		}
	}
	if event == nil {
		return nil, fmt.Errorf("%w: video %s", domain.ErrEventNotFound, videoID)
	}

	return &ScheduleClassification{
		Event:       event,
		Title:       schedule.EventTitle(event.EventType, event.ScheduledDate, event.ScheduledTime),
		Destination: event.Destination,
	}, nil
}

// MarkClassified records that the rename/move side effects for an
// event's archive video have been applied.
func (m *ScheduleManager) MarkClassified(eventID string) error {
	event, err := m.repo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
	}
	// A linked event that never went through a match pass (manual
	// registrations) advances through archived here.
	if event.LinkedVideoID != "" && event.Status.CanTransitionTo(domain.EventStatusArchived) {
		event.Status = domain.EventStatusArchived
	}
	if !event.Status.CanTransitionTo(domain.EventStatusClassified) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, event.Status, domain.EventStatusClassified)
	}

	event.Status = domain.EventStatusClassified
	if err := m.repo.Update(event); err != nil {
		return err
	}

	m.log.Info().Str("event_id", eventID).Msg("event classification complete")
	return nil
}

// ListEvents returns the registry, newest scheduled time first,
// optionally filtered by status or upcoming-only.
func (m *ScheduleManager) ListEvents(status domain.EventStatus, upcomingOnly bool) ([]*domain.ScheduledEvent, error) {
	events, err := m.repo.GetAll()
	if err != nil {
		return nil, err
	}

	now := time.Now().In(m.location)
	filtered := make([]*domain.ScheduledEvent, 0, len(events))
	for _, event := range events {
		if status != "" && event.Status != status {
			continue
		}
		if upcomingOnly && !event.ScheduledAt.After(now) {
			continue
		}
		filtered = append(filtered, event)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ScheduledAt.After(filtered[j].ScheduledAt)
	})
	return filtered, nil
}
