package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Events  EventsConfig  `yaml:"events"`
	History HistoryConfig `yaml:"history"`
	Preview PreviewConfig `yaml:"preview"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ContentConfig locates the content store.
type ContentConfig struct {
	Dir string           `yaml:"dir"`
	Git *GitSourceConfig `yaml:"git,omitempty"`
}

// GitSourceConfig syncs the content directory from a Git repository before builds.
type GitSourceConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Clean bool   `yaml:"clean"` // Clean output directory before build
}

// BuildConfig holds build policy flags.
type BuildConfig struct {
	// IncludeDrafts renders per-page output for drafts; the index never lists them.
	IncludeDrafts bool `yaml:"include_drafts"`
	// KeepGoing logs and skips documents that fail to parse or render instead
	// of aborting the build on the first one.
	KeepGoing bool `yaml:"keep_going"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig toggles the Prometheus recorder and /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// EventsConfig configures NATS build-event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// HistoryConfig configures the SQLite build-history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// PreviewConfig configures the serve command.
type PreviewConfig struct {
	Port            int      `yaml:"port,omitempty"`
	QuietWindow     Duration `yaml:"quiet_window,omitempty"`
	MaxDelay        Duration `yaml:"max_delay,omitempty"`
	RebuildInterval Duration `yaml:"rebuild_interval,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "400ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load loads configuration from the specified file, expanding ${VAR}
// references from the environment (after .env loading).
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", configPath).
			Build()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Essays"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "./content"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./public"
		c.Output.Clean = true
	}
	c.Logging.Level = string(NormalizeLogLevel(c.Logging.Level))
	c.Logging.Format = string(NormalizeLogFormat(c.Logging.Format))
	if c.Events.Subject == "" {
		c.Events.Subject = "blog.builds"
	}
	if c.History.Path == "" {
		c.History.Path = "./blogbuilder.db"
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = 8080
	}
	if c.Preview.QuietWindow == 0 {
		c.Preview.QuietWindow = Duration(400 * time.Millisecond)
	}
	if c.Preview.MaxDelay == 0 {
		c.Preview.MaxDelay = Duration(2 * time.Second)
	}
}

// Validate checks cross-field constraints after defaults are applied.
func (c *Config) Validate() error {
	if c.Content.Git != nil && c.Content.Git.URL == "" {
		return ferrors.ConfigError("content.git.url is required when content.git is set").Build()
	}
	if c.Events.Enabled && c.Events.NATSURL == "" {
		return ferrors.ConfigError("events.nats_url is required when events are enabled").Build()
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return ferrors.ConfigError("preview.port must be a valid TCP port").Build()
	}
	if c.Preview.QuietWindow.Std() > c.Preview.MaxDelay.Std() {
		return ferrors.ConfigError("preview.quiet_window must not exceed preview.max_delay").Build()
	}
	return nil
}

const starterConfig = `site:
  title: "My Essays"
  base_url: "https://example.org"

content:
  dir: ./content
  # git:
  #   url: https://example.org/me/essays.git
  #   branch: main
  #   token: ${GIT_TOKEN}

output:
  dir: ./public
  clean: true

build:
  include_drafts: false
  keep_going: false

logging:
  level: info
  format: text

metrics:
  enabled: false

events:
  enabled: false
  # nats_url: nats://localhost:4222
  # subject: blog.builds

history:
  enabled: true
  path: ./blogbuilder.db

preview:
  port: 8080
  quiet_window: 400ms
  max_delay: 2s
  # rebuild_interval: 15m
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
