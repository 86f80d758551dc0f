package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"auto_sort_vimeo/internal/domain"
	"auto_sort_vimeo/internal/logger"
	"auto_sort_vimeo/internal/usecase"
)

// platformAdapter narrows the Vimeo service to the EventPlatform
// interface the schedule manager expects.
type platformAdapter struct {
	app *app
}

func (p platformAdapter) FetchVideo(ctx context.Context, videoID string) (*domain.VideoRecord, error) {
	return p.app.vimeo.FetchVideo(ctx, videoID)
}

func (p platformAdapter) CreateLiveEvent(ctx context.Context, title, description string, scheduledAt time.Time, timezone string) (string, string, error) {
	event, err := p.app.vimeo.CreateLiveEvent(ctx, title, description, scheduledAt, timezone)
	if err != nil {
		return "", "", err
	}
	return event.ID, event.URI, nil
}

func runCreateEvent(a *app, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	eventType := fs.String("type", "", "event type from the configured catalog")
	date := fs.String("date", "", "scheduled date (YYYY-MM-DD)")
	startTime := fs.String("time", "", "scheduled start time (HH:MM)")
	force := fs.Bool("force", false, "allow past times and replace duplicates")
	fs.Parse(args)

	if *eventType == "" || *date == "" || *startTime == "" {
		fmt.Fprintln(os.Stderr, "create requires --type, --date and --time")
		fs.Usage()
		os.Exit(2)
	}
	a.requireCredentials()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	event, err := a.schedule.CreateEvent(ctx, platformAdapter{a}, *eventType, *date, *startTime, *force)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("event creation failed")
	}

	fmt.Println("Live event created and registered:")
	printEvent(event)
}

func runRegisterEvent(a *app, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	eventID := fs.String("event-id", "", "platform video/event ID")
	eventType := fs.String("type", "", "event type from the configured catalog")
	date := fs.String("date", "", "scheduled date (YYYY-MM-DD)")
	startTime := fs.String("time", "", "scheduled start time (HH:MM)")
	force := fs.Bool("force", false, "replace an existing registration")
	skipVerify := fs.Bool("skip-verify", false, "do not confirm the event exists on the platform")
	fs.Parse(args)

	if *eventID == "" || *eventType == "" || *date == "" || *startTime == "" {
		fmt.Fprintln(os.Stderr, "register requires --event-id, --type, --date and --time")
		fs.Usage()
		os.Exit(2)
	}

	if !*skipVerify {
		a.requireCredentials()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		title, err := a.schedule.VerifyRegistration(ctx, platformAdapter{a}, *eventID)
		cancel()
		if err != nil {
			if !*force {
				lg := logger.L()
				lg.Fatal().Err(err).Str("event_id", *eventID).Msg("could not verify event, use --force to register anyway")
			}
			lg := logger.L()
			lg.Warn().Err(err).Str("event_id", *eventID).Msg("verification failed, registering anyway")
		} else {
			fmt.Printf("Verified: found video %q\n", title)
		}
	}

	event, err := a.schedule.Register(*eventType, *date, *startTime, usecase.RegisterOptions{
		EventID:            *eventID,
		Force:              *force,
		ManuallyRegistered: true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			lg := logger.L()
			lg.Fatal().Err(err).Msg("already registered, use --force to replace")
		}
		lg := logger.L()
		lg.Fatal().Err(err).Msg("registration failed")
	}

	fmt.Println("Event registered:")
	printEvent(event)
}

func runListEvents(a *app, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "filter by status (scheduled|registered|archived|classified)")
	upcoming := fs.Bool("upcoming", false, "only events scheduled in the future")
	fs.Parse(args)

	events, err := a.schedule.ListEvents(domain.EventStatus(*status), *upcoming)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("listing events failed")
	}

	if len(events) == 0 {
		fmt.Println("No events in the schedule registry.")
		return
	}

	fmt.Printf("%d event(s):\n", len(events))
	for _, event := range events {
		fmt.Println()
		printEvent(event)
	}
}

func runListTypes(a *app) {
	fmt.Println("Available event types:")
	for _, t := range a.cfg.EventTypes {
		fmt.Printf("\n  %s\n", t.Name)
		fmt.Printf("    Description: %s\n", t.Description)
		fmt.Printf("    Destination: %s\n", domain.Category(t.Destination).DisplayName())
		fmt.Printf("    Typical duration: %d minutes\n", t.TypicalDurationMinutes)
	}
}

func runMatchVideos(a *app, args []string) {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	hours := fs.Int("hours", 0, "lookback window in hours (defaults to configured value)")
	fs.Parse(args)

	a.requireCredentials()

	lookback := a.cfg.LookbackHours
	if *hours > 0 {
		lookback = *hours
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	since := time.Now().UTC().Add(-time.Duration(lookback) * time.Hour)
	videos, err := a.vimeo.ListRecentlyModified(ctx, since)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("fetching recent videos failed")
	}
	fmt.Printf("Found %d recent video(s)\n", len(videos))

	outcomes, err := a.schedule.MatchVideos(videos)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("matching failed")
	}

	linked := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Printf("  video %s -> event %s: %v\n", outcome.VideoID, outcome.EventID, outcome.Err)
			continue
		}
		if outcome.Linked {
			linked++
			kind := "title"
			if outcome.ByMetadata {
				kind = "metadata"
			}
			fmt.Printf("  video %s -> event %s (%s, by %s)\n", outcome.VideoID, outcome.EventID, outcome.EventType, kind)
		}
	}
	fmt.Printf("%d video(s) newly linked\n", linked)
}

func runClassify(a *app, args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	videoID := fs.String("video-id", "", "platform video ID")
	apply := fs.Bool("apply", false, "rename and move the video")
	fs.Parse(args)

	if *videoID == "" {
		fmt.Fprintln(os.Stderr, "classify requires --video-id")
		fs.Usage()
		os.Exit(2)
	}

	resolved, err := a.schedule.ResolveClassification(*videoID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			fmt.Printf("No scheduled event found for video %s.\n", *videoID)
			fmt.Println("Run 'match' first, or 'register' the event manually.")
			os.Exit(1)
		}
		lg := logger.L()
		lg.Fatal().Err(err).Msg("classification lookup failed")
	}

	fmt.Printf("Video ID:     %s\n", *videoID)
	fmt.Printf("Event type:   %s\n", resolved.Event.EventType)
	fmt.Printf("Scheduled:    %s %s\n", resolved.Event.ScheduledDate, resolved.Event.ScheduledTime)
	fmt.Printf("Destination:  %s\n", resolved.Destination.DisplayName())
	fmt.Printf("Title:        %s\n", resolved.Title)

	if !*apply {
		fmt.Println("\nUse --apply to rename and move the video.")
		return
	}

	a.requireCredentials()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	video, err := a.vimeo.FetchVideo(ctx, *videoID)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("fetching video failed")
	}

	if video.Title != resolved.Title {
		if err := a.vimeo.Rename(ctx, *videoID, resolved.Title); err != nil {
			lg := logger.L()
			lg.Fatal().Err(err).Msg("rename failed")
		}
		fmt.Println("Title updated.")
	} else {
		fmt.Println("Title already correct.")
	}

	folderID := a.cfg.DestinationFolderID(string(resolved.Destination))
	if folderID == "" {
		lg := logger.L()
		lg.Fatal().Str("category", string(resolved.Destination)).Msg("no destination folder configured")
	}
	if err := a.vimeo.MoveToFolder(ctx, *videoID, folderID); err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("move failed")
	}
	fmt.Println("Video moved.")

	if err := a.schedule.MarkClassified(resolved.Event.ID); err != nil {
		lg := logger.L()
		lg.Warn().Err(err).Msg("could not mark event classified")
	}
}

func printEvent(event *domain.ScheduledEvent) {
	fmt.Printf("  ID:        %s\n", event.ID)
	fmt.Printf("  Type:      %s\n", event.EventType)
	fmt.Printf("  Title:     %s\n", event.Title)
	fmt.Printf("  Scheduled: %s\n", event.ScheduledAt.Format("2006-01-02 03:04 PM MST"))
	fmt.Printf("  Folder:    %s\n", event.Destination.DisplayName())
	fmt.Printf("  Status:    %s\n", event.Status)
	if event.LinkedVideoID != "" {
		fmt.Printf("  Video ID:  %s\n", event.LinkedVideoID)
	}
}
