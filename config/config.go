package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerPort string `yaml:"server.port"`

	// Vimeo API configuration
	VimeoAccessToken  string `yaml:"vimeo.access_token"`
	VimeoClientID     string `yaml:"vimeo.client_id"`
	VimeoClientSecret string `yaml:"vimeo.client_secret"`
	VimeoBaseURL      string `yaml:"vimeo.base_url"`

	// Cron schedule configuration
	CronSchedule string `yaml:"cron.schedule"`

	// Classifier configuration
	Timezone        string `yaml:"classifier.timezone"`
	LookbackHours   int    `yaml:"classifier.lookback_hours"`
	FallbackEnabled *bool  `yaml:"classifier.fallback_enabled"`

	// Registry configuration
	RegistryBackend string `yaml:"registry.backend"` // file | sqlite
	RegistryFile    string `yaml:"registry.file"`
	DatabaseURL     string `yaml:"registry.database_url"`

	// Folder configuration
	FolderDestinations map[string]string `yaml:"folders.destinations"` // category -> platform folder ID
	ExcludedFolders    []string          `yaml:"folders.excluded"`
	RootFolderName     string            `yaml:"folders.root_name"`

	// Event type catalog
	EventTypes []EventTypeConfig `yaml:"event_types"`

	// Performance tuning
	HTTPClientTimeout    time.Duration `yaml:"-"`
	HTTPClientTimeoutStr string        `yaml:"performance.http_client_timeout"`
	MaxIdleConns         int           `yaml:"performance.max_idle_conns"`
	MaxConnsPerHost      int           `yaml:"performance.max_conns_per_host"`

	// Logging configuration
	LogDirectory  string `yaml:"logging.dir"`
	LogOutputFile string `yaml:"logging.output_file"`
	LogLevel      string `yaml:"logging.level"`
}

// EventTypeConfig defines one entry in the schedulable event-type catalog
type EventTypeConfig struct {
	Name                   string `yaml:"name"`
	Description            string `yaml:"description"`
	Destination            string `yaml:"destination"`
	TypicalDurationMinutes int    `yaml:"typical_duration_minutes"`
}

// EventTypeByName returns the catalog entry with the given name, or nil
func (c *Config) EventTypeByName(name string) *EventTypeConfig {
	for i := range c.EventTypes {
		if c.EventTypes[i].Name == name {
			return &c.EventTypes[i]
		}
	}
	return nil
}

// DestinationFolderID returns the platform folder ID configured for a
// category, or "" if no mapping exists
func (c *Config) DestinationFolderID(category string) string {
	return c.FolderDestinations[category]
}

// FolderExcluded reports whether a folder ID is on the exclusion list
func (c *Config) FolderExcluded(folderID string) bool {
	for _, id := range c.ExcludedFolders {
		if id == folderID {
			return true
		}
	}
	return false
}

// FallbackOn reports whether off-window keyword fallback is enabled
func (c *Config) FallbackOn() bool {
	return c.FallbackEnabled == nil || *c.FallbackEnabled
}

// configFile represents the YAML structure
type configFile struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Vimeo struct {
		AccessToken  string `yaml:"access_token"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		BaseURL      string `yaml:"base_url"`
	} `yaml:"vimeo"`
	Cron struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"cron"`
	Classifier struct {
		Timezone        string `yaml:"timezone"`
		LookbackHours   int    `yaml:"lookback_hours"`
		FallbackEnabled *bool  `yaml:"fallback_enabled"`
	} `yaml:"classifier"`
	Registry struct {
		Backend     string `yaml:"backend"`
		File        string `yaml:"file"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"registry"`
	Folders struct {
		Destinations map[string]string `yaml:"destinations"`
		Excluded     []string          `yaml:"excluded"`
		RootName     string            `yaml:"root_name"`
	} `yaml:"folders"`
	EventTypes []EventTypeConfig `yaml:"event_types"`
	Performance struct {
		HTTPClientTimeout string `yaml:"http_client_timeout"`
		MaxIdleConns      int    `yaml:"max_idle_conns"`
		MaxConnsPerHost   int    `yaml:"max_conns_per_host"`
	} `yaml:"performance"`
	Logging struct {
		Directory  string `yaml:"dir"`
		OutputFile string `yaml:"output_file"`
		Level      string `yaml:"level"`
	} `yaml:"logging"`
}

// Manager handles configuration loading and saving
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	if configPath == "" {
		configPath = "config.yaml"
	}
	return &Manager{
		configPath: configPath,
	}
}

// Load reads configuration from YAML file
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		// If file doesn't exist, create default config
		if os.IsNotExist(err) {
			return m.createDefaultConfig()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfgFile configFile
	if err := yaml.Unmarshal(data, &cfgFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := &Config{
		ServerPort:           cfgFile.Server.Port,
		VimeoAccessToken:     cfgFile.Vimeo.AccessToken,
		VimeoClientID:        cfgFile.Vimeo.ClientID,
		VimeoClientSecret:    cfgFile.Vimeo.ClientSecret,
		VimeoBaseURL:         cfgFile.Vimeo.BaseURL,
		CronSchedule:         cfgFile.Cron.Schedule,
		Timezone:             cfgFile.Classifier.Timezone,
		LookbackHours:        cfgFile.Classifier.LookbackHours,
		FallbackEnabled:      cfgFile.Classifier.FallbackEnabled,
		RegistryBackend:      cfgFile.Registry.Backend,
		RegistryFile:         cfgFile.Registry.File,
		DatabaseURL:          cfgFile.Registry.DatabaseURL,
		FolderDestinations:   cfgFile.Folders.Destinations,
		ExcludedFolders:      cfgFile.Folders.Excluded,
		RootFolderName:       cfgFile.Folders.RootName,
		EventTypes:           cfgFile.EventTypes,
		HTTPClientTimeoutStr: cfgFile.Performance.HTTPClientTimeout,
		MaxIdleConns:         cfgFile.Performance.MaxIdleConns,
		MaxConnsPerHost:      cfgFile.Performance.MaxConnsPerHost,
		LogDirectory:         cfgFile.Logging.Directory,
		LogOutputFile:        cfgFile.Logging.OutputFile,
		LogLevel:             cfgFile.Logging.Level,
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	m.config = cfg
	return cfg, nil
}

// Save writes configuration to YAML file
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveUnlocked(cfg)
}

// saveUnlocked persists config assuming caller already holds the write lock.
func (m *Manager) saveUnlocked(cfg *Config) error {
	var cfgFile configFile
	cfgFile.Server.Port = cfg.ServerPort
	cfgFile.Vimeo.AccessToken = cfg.VimeoAccessToken
	cfgFile.Vimeo.ClientID = cfg.VimeoClientID
	cfgFile.Vimeo.ClientSecret = cfg.VimeoClientSecret
	cfgFile.Vimeo.BaseURL = cfg.VimeoBaseURL
	cfgFile.Cron.Schedule = cfg.CronSchedule
	cfgFile.Classifier.Timezone = cfg.Timezone
	cfgFile.Classifier.LookbackHours = cfg.LookbackHours
	cfgFile.Classifier.FallbackEnabled = cfg.FallbackEnabled
	cfgFile.Registry.Backend = cfg.RegistryBackend
	cfgFile.Registry.File = cfg.RegistryFile
	cfgFile.Registry.DatabaseURL = cfg.DatabaseURL
	cfgFile.Folders.Destinations = cfg.FolderDestinations
	cfgFile.Folders.Excluded = cfg.ExcludedFolders
	cfgFile.Folders.RootName = cfg.RootFolderName
	cfgFile.EventTypes = cfg.EventTypes
	cfgFile.Performance.HTTPClientTimeout = cfg.HTTPClientTimeout.String()
	cfgFile.Performance.MaxIdleConns = cfg.MaxIdleConns
	cfgFile.Performance.MaxConnsPerHost = cfg.MaxConnsPerHost
	cfgFile.Logging.Directory = cfg.LogDirectory
	cfgFile.Logging.OutputFile = cfg.LogOutputFile
	cfgFile.Logging.Level = cfg.LogLevel

	data, err := yaml.Marshal(&cfgFile)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.config = cfg
	return nil
}

// Get returns the current configuration (thread-safe)
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Reload reloads configuration from file
func (m *Manager) Reload() (*Config, error) {
	return m.Load()
}

// createDefaultConfig creates a default configuration file
func (m *Manager) createDefaultConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:   "8080",
		VimeoBaseURL: "https://api.vimeo.com",
		CronSchedule: "0 */6 * * *",
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := m.saveUnlocked(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.VimeoBaseURL == "" {
		cfg.VimeoBaseURL = "https://api.vimeo.com"
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 */6 * * *"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Chicago"
	}
	if cfg.LookbackHours == 0 {
		cfg.LookbackHours = 72
	}
	if cfg.RegistryBackend == "" {
		cfg.RegistryBackend = "file"
	}
	if cfg.RegistryFile == "" {
		cfg.RegistryFile = "schedule_tracker.json"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "sqlite3:./schedule.db"
	}
	if cfg.RootFolderName == "" {
		cfg.RootFolderName = "Team Library"
	}
	if len(cfg.FolderDestinations) == 0 {
		cfg.FolderDestinations = map[string]string{
			"worship_services":   "15749517",
			"weddings_memorials": "2478125",
			"scotts_classes":     "15680946",
			"root_class":         "10606776",
		}
	}
	if len(cfg.ExcludedFolders) == 0 {
		cfg.ExcludedFolders = []string{"11103430", "182762", "8219992"}
	}
	if len(cfg.EventTypes) == 0 {
		cfg.EventTypes = defaultEventTypes()
	}

	if cfg.HTTPClientTimeoutStr != "" {
		if d, err := time.ParseDuration(cfg.HTTPClientTimeoutStr); err == nil {
			cfg.HTTPClientTimeout = d
		} else {
			cfg.HTTPClientTimeout = 30 * time.Second
		}
	} else {
		cfg.HTTPClientTimeout = 30 * time.Second
	}

	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = 20
	}

	if cfg.LogDirectory == "" {
		cfg.LogDirectory = "./logs"
	}
	if cfg.LogOutputFile == "" {
		cfg.LogOutputFile = "app.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides lets credentials come from the environment so the
// YAML file can stay free of secrets.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VIMEO_ACCESS_TOKEN"); v != "" {
		cfg.VimeoAccessToken = v
	}
	if v := os.Getenv("VIMEO_CLIENT_ID"); v != "" {
		cfg.VimeoClientID = v
	}
	if v := os.Getenv("VIMEO_CLIENT_SECRET"); v != "" {
		cfg.VimeoClientSecret = v
	}
}

func defaultEventTypes() []EventTypeConfig {
	return []EventTypeConfig{
		{
			Name:                   "Test Service A",
			Description:            "Test service type A for classification testing",
			Destination:            "worship_services",
			TypicalDurationMinutes: 60,
		},
		{
			Name:                   "Test Service B",
			Description:            "Test service type B for classification testing",
			Destination:            "worship_services",
			TypicalDurationMinutes: 90,
		},
		{
			Name:                   "Test Class Alpha",
			Description:            "Test class type Alpha for classification testing",
			Destination:            "scotts_classes",
			TypicalDurationMinutes: 45,
		},
		{
			Name:                   "Test Class Beta",
			Description:            "Test class type Beta for classification testing",
			Destination:            "root_class",
			TypicalDurationMinutes: 60,
		},
		{
			Name:                   "Test Special Event",
			Description:            "Test special event for classification testing",
			Destination:            "weddings_memorials",
			TypicalDurationMinutes: 120,
		},
	}
}

// Global config manager instance
var globalManager *Manager

// Load loads configuration from YAML file (backward compatibility)
func Load() (*Config, error) {
	if globalManager == nil {
		globalManager = NewManager(defaultConfigPath())
	}
	return globalManager.Load()
}

// GetManager returns the global config manager
func GetManager() *Manager {
	if globalManager == nil {
		globalManager = NewManager(defaultConfigPath())
	}
	return globalManager
}

func defaultConfigPath() string {
	if _, err := os.Stat("config/config.yaml"); err == nil {
		return "config/config.yaml"
	}
	return "config.yaml"
}
