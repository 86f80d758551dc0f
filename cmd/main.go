package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/classify"
	croncheduler "auto_sort_vimeo/internal/delivery/cron"
	"auto_sort_vimeo/internal/delivery/httpapi"
	"auto_sort_vimeo/internal/domain"
	httpclient "auto_sort_vimeo/internal/infrastructure/http"
	"auto_sort_vimeo/internal/infrastructure/vimeo"
	"auto_sort_vimeo/internal/logger"
	filerepo "auto_sort_vimeo/internal/repository/file"
	sqliterepo "auto_sort_vimeo/internal/repository/sqlite"
	"auto_sort_vimeo/internal/usecase"
)

func main() {
	command := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	// Load configuration from YAML file
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := logger.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}()

	app, err := newApp(cfg)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("initialization failed")
	}
	defer app.Close()

	switch command {
	case "run":
		runDaemon(app)
	case "sort":
		runSortOnce(app)
	case "create":
		runCreateEvent(app, args)
	case "register":
		runRegisterEvent(app, args)
	case "list":
		runListEvents(app, args)
	case "list-types":
		runListTypes(app)
	case "match":
		runMatchVideos(app, args)
	case "classify":
		runClassify(app, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(2)
	}
}

// app bundles the wired components shared by all commands.
type app struct {
	cfg      *config.Config
	repo     domain.ScheduleRepository
	vimeo    *vimeo.Service
	schedule *usecase.ScheduleManager
	sorter   *usecase.VideoSorter
	location *time.Location
	closers  []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	a := &app{cfg: cfg, location: location}

	switch cfg.RegistryBackend {
	case "sqlite":
		db, err := sqliterepo.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open registry database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.repo = sqliterepo.NewScheduleRepository(db)
	default:
		repo, err := filerepo.Open(cfg.RegistryFile)
		if err != nil {
			return nil, fmt.Errorf("open registry file: %w", err)
		}
		a.repo = repo
	}

	httpClient := httpclient.NewHTTPClient(cfg)
	a.vimeo = vimeo.NewService(cfg, httpClient)
	a.schedule = usecase.NewScheduleManager(cfg, a.repo, location)

	rules := classify.DefaultConfig(location)
	rules.Fallback.Enabled = cfg.FallbackOn()
	a.sorter = usecase.NewVideoSorter(cfg, a.vimeo, classify.New(rules), a.schedule, location)

	return a, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			lg := logger.L()
			lg.Error().Err(err).Msg("close failed")
		}
	}
}

// requireCredentials aborts commands that talk to the platform when no
// access token is configured.
func (a *app) requireCredentials() {
	if a.cfg.VimeoAccessToken == "" {
		lg := logger.L()
		lg.Fatal().Msg("VIMEO_ACCESS_TOKEN is required")
	}
}

func runDaemon(a *app) {
	a.requireCredentials()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	name, err := a.vimeo.Verify(ctx)
	cancel()
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("platform connection check failed")
	}
	lg := logger.L()
	lg.Info().Str("account", name).Msg("connected to platform")

	scheduler := croncheduler.NewScheduler(a.cfg, a.sorter)
	if err := scheduler.Start(); err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("failed to start scheduler")
	}

	apiServer := httpapi.NewServer(a.cfg, a.schedule, a.sorter)
	if err := apiServer.Start(); err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("failed to start HTTP API server")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	lg = logger.L()
	lg.Info().Msg("application started")
	<-sigChan

	lg = logger.L()
	lg.Info().Msg("shutting down")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		lg := logger.L()
		lg.Error().Err(err).Msg("http server shutdown failed")
	}
}

func runSortOnce(a *app) {
	a.requireCredentials()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := a.sorter.Run(ctx)
	if err != nil {
		lg := logger.L()
		lg.Fatal().Err(err).Msg("sort run failed")
	}

	fmt.Printf("Scanned:    %d\n", stats.Scanned)
	fmt.Printf("Processed:  %d\n", stats.Processed)
	fmt.Printf("Renamed:    %d\n", stats.Renamed)
	fmt.Printf("Moved:      %d\n", stats.Moved)
	fmt.Printf("Skipped:    %d\n", stats.Skipped)
	fmt.Printf("Errors:     %d\n", stats.Errors)
}

func printUsage() {
	fmt.Println(`auto_sort_vimeo - video archive classification and scheduling

Usage:
  auto_sort_vimeo [command] [flags]

Commands:
  run         Start the daemon (cron scheduler + HTTP API), default
  sort        Run one sort batch and exit
  create      Create a scheduled live event with embedded metadata
  register    Register an existing platform event in the registry
  list        List tracked events
  list-types  List the configured event-type catalog
  match       Match recent videos to scheduled events
  classify    Show or apply the registry classification for a video

Run 'auto_sort_vimeo <command> -h' for command flags.`)
}
