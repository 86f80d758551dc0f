package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/classify"
	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/logger"
)

// VideoPlatform is the subset of the video platform API the sorter
// needs.
type VideoPlatform interface {
	ListRecentlyModified(ctx context.Context, since time.Time) ([]*domain.VideoRecord, error)
	Rename(ctx context.Context, videoID, title string) error
	MoveToFolder(ctx context.Context, videoID, folderID string) error
}

// SortStats summarizes one batch run.
type SortStats struct {
	Scanned    int
	Processed  int
	Renamed    int
	Moved      int
	Skipped    int
	Errors     int
	Reconciled int
}

// VideoSorter scans recently modified videos and applies rename/move
// side effects. Videos are processed one at a time; a failure on one
// video never aborts the rest of the batch.
type VideoSorter struct {
	cfg        *config.Config
	platform   VideoPlatform
	classifier *classify.Classifier
	schedule   *ScheduleManager
	location   *time.Location
	log        zerolog.Logger
}

// NewVideoSorter creates a new video sorter.
func NewVideoSorter(cfg *config.Config, platform VideoPlatform, classifier *classify.Classifier, schedule *ScheduleManager, location *time.Location) *VideoSorter {
	return &VideoSorter{
		cfg:        cfg,
		platform:   platform,
		classifier: classifier,
		schedule:   schedule,
		location:   location,
		log:        logger.With("sorter"),
	}
}

// Run executes one batch: list, match to scheduled events, classify,
// rename and move.
func (s *VideoSorter) Run(ctx context.Context) (SortStats, error) {
	var stats SortStats

	since := time.Now().UTC().Add(-time.Duration(s.cfg.LookbackHours) * time.Hour)
	videos, err := s.platform.ListRecentlyModified(ctx, since)
	if err != nil {
		return stats, err
	}
	stats.Scanned = len(videos)
	s.log.Info().Int("count", stats.Scanned).Int("lookback_hours", s.cfg.LookbackHours).Msg("recently modified videos fetched")

	// Link archive videos to scheduled events before classifying so the
	// registry can override the heuristics.
	if s.schedule != nil {
		outcomes, err := s.schedule.MatchVideos(videos)
		if err != nil {
			s.log.Error().Err(err).Msg("schedule matching failed")
		}
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				s.log.Warn().
					Str("video_id", outcome.VideoID).
					Str("event_id", outcome.EventID).
					Err(outcome.Err).
					Msg("schedule match not applied")
			}
		}
	}

	for _, video := range videos {
		if skip, reason := s.shouldSkip(video); skip {
			s.log.Debug().Str("video_id", video.ID).Str("reason", reason).Msg("video skipped")
			stats.Skipped++
			continue
		}

		stats.Processed++
		s.processOne(ctx, video, &stats)
	}

	s.log.Info().
		Int("scanned", stats.Scanned).
		Int("processed", stats.Processed).
		Int("renamed", stats.Renamed).
		Int("moved", stats.Moved).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Int("reconciled", stats.Reconciled).
		Msg("sort run complete")
	return stats, nil
}

// shouldSkip applies the pre-classification filters: only playable
// videos sitting in the library root are candidates.
func (s *VideoSorter) shouldSkip(video *domain.VideoRecord) (bool, string) {
	if !video.IsPlayable {
		return true, "not playable"
	}
	if video.ParentFolderID != "" {
		if s.cfg.FolderExcluded(video.ParentFolderID) {
			return true, "excluded folder"
		}
		for _, folderID := range s.cfg.FolderDestinations {
			if video.ParentFolderID == folderID {
				return true, "already in destination folder"
			}
		}
		return true, "not in library root"
	}
	return false, ""
}

// processOne decides the target title and folder for one video and
// applies them. Rename and move are independent: a rename failure does
// not block the move and vice versa.
func (s *VideoSorter) processOne(ctx context.Context, video *domain.VideoRecord, stats *SortStats) {
	title, category, fromSchedule, ok := s.decide(video)
	if !ok {
		return
	}

	renamed := true
	if video.Title != title {
		if err := s.platform.Rename(ctx, video.ID, title); err != nil {
			s.log.Error().Str("video_id", video.ID).Err(err).Msg("rename failed")
			stats.Errors++
			renamed = false
		} else {
			stats.Renamed++
		}
	}

	moved := false
	folderID := s.cfg.DestinationFolderID(string(category))
	if folderID == "" {
		s.log.Warn().Str("category", string(category)).Msg("no destination folder configured")
	} else if err := s.platform.MoveToFolder(ctx, video.ID, folderID); err != nil {
		s.log.Error().Str("video_id", video.ID).Err(err).Msg("move failed")
		stats.Errors++
	} else {
		stats.Moved++
		moved = true
	}

	if fromSchedule != "" {
		stats.Reconciled++
		if renamed && moved {
			if err := s.schedule.MarkClassified(fromSchedule); err != nil {
				s.log.Warn().Str("event_id", fromSchedule).Err(err).Msg("could not mark event classified")
			}
		}
	}
}

// decide returns the target title and category for a video, preferring
// the schedule registry over the time-window heuristics. The third
// return value is the event ID when the registry decided.
func (s *VideoSorter) decide(video *domain.VideoRecord) (string, domain.Category, string, bool) {
	if s.schedule != nil {
		resolved, err := s.schedule.ResolveClassification(video.ID)
		if err == nil {
			s.log.Info().
				Str("video_id", video.ID).
				Str("event_type", resolved.Event.EventType).
				Msg("classified from schedule registry")
			return resolved.Title, resolved.Destination, resolved.Event.ID, true
		}
		if !errors.Is(err, domain.ErrEventNotFound) {
			s.log.Error().Str("video_id", video.ID).Err(err).Msg("registry lookup failed")
		}
	}

	resolvedAt, source, err := classify.ResolveTimestamp(*video, s.location)
	if err != nil {
		s.log.Warn().Str("video_id", video.ID).Err(err).Msg("no usable timestamp, video skipped")
		return "", "", "", false
	}

	out := s.classifier.Classify(classify.Input{
		Title:           video.Title,
		ResolvedAt:      resolvedAt,
		DurationSeconds: video.DurationSeconds,
	})
	if !out.Classified {
		s.log.Info().
			Str("video_id", video.ID).
			Str("reason", string(out.Reason)).
			Msg("no classification rule matched")
		return "", "", "", false
	}

	s.log.Info().
		Str("video_id", video.ID).
		Str("category", string(out.Category)).
		Str("rule", out.Rule).
		Str("reason", string(out.Reason)).
		Str("timestamp_source", string(source)).
		Bool("rolled_over", out.RolledOver).
		Msg("video classified")
	return out.Title, out.Category, "", true
}
