package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"auto_sort_vimeo/config"
)

// Manager manages the application logger and its underlying file.
type Manager struct {
	logger zerolog.Logger
	file   *os.File
}

var global *Manager

// Initialize configures the global logger manager.
func Initialize(cfg *config.Config) (*Manager, error) {
	manager, err := New(cfg)
	if err != nil {
		return nil, err
	}
	global = manager
	return manager, nil
}

// New creates a new Manager instance writing to stdout and the
// configured log file.
func New(cfg *config.Config) (*Manager, error) {
	dir := cfg.LogDirectory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	outputFile := cfg.LogOutputFile
	if outputFile == "" {
		outputFile = "app.log"
	}

	handle, err := os.OpenFile(filepath.Join(dir, outputFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writer := io.MultiWriter(os.Stdout, handle)
	logger := zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", "auto_sort_vimeo").
		Logger()

	return &Manager{
		logger: logger,
		file:   handle,
	}, nil
}

// Logger returns the root logger.
func (m *Manager) Logger() zerolog.Logger {
	return m.logger
}

// With returns a child logger tagged with a component name.
func (m *Manager) With(component string) zerolog.Logger {
	return m.logger.With().Str("component", component).Logger()
}

// Close releases the log file handle.
func (m *Manager) Close() error {
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}

// Close releases the global logger manager if initialized.
func Close() error {
	if global == nil {
		return nil
	}
	err := global.Close()
	global = nil
	return err
}

// L returns the global root logger, or a stderr logger if the manager
// was never initialized.
func L() zerolog.Logger {
	if global != nil {
		return global.Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// With returns a global child logger tagged with a component name.
func With(component string) zerolog.Logger {
	if global != nil {
		return global.With(component)
	}
	return L().With().Str("component", component).Logger()
}
