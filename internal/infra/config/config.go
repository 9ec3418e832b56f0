// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Output backend types.
const (
	OutputCommand = "command"
	OutputMPD     = "mpd"
	OutputSpotify = "spotify"
)

// Song source types.
const (
	SourceFolder   = "folder"
	SourcePlaylist = "playlist"
	SourceMPD      = "mpd"
)

// Config represents the application configuration.
type Config struct {
	Game    GameConfig              `yaml:"game"`
	Songs   SongsConfig             `yaml:"songs"`
	Filters map[string]FilterConfig `yaml:"filters"`
	Output  OutputConfig            `yaml:"output"`
	Intro   IntroConfig             `yaml:"intro"`
	UI      UIConfig                `yaml:"ui"`
	Spotify SpotifyConfig           `yaml:"spotify"`
	MPD     MPDConfig               `yaml:"mpd"`
}

// GameConfig represents the quiz game configuration.
type GameConfig struct {
	HostName       string         `yaml:"host_name" default:"HOST"`
	PollIntervalMs int            `yaml:"poll_interval_ms" default:"20" validate:"gte=1,lte=1000"`
	Intro          bool           `yaml:"intro" default:"true"`
	Buzzers        []BuzzerConfig `yaml:"buzzers" validate:"required,min=1,dive"`
	Keys           KeysConfig     `yaml:"keys"`
}

// BuzzerConfig represents one player's buzzer.
type BuzzerConfig struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key" validate:"required"`
}

// KeysConfig overrides host key bindings. Empty lists keep the defaults.
type KeysConfig struct {
	Quit        []string `yaml:"quit"`
	Advance     []string `yaml:"advance"`
	Acknowledge []string `yaml:"acknowledge"`
	Pause       []string `yaml:"pause"`
	Resume      []string `yaml:"resume"`
	Award       []string `yaml:"award"`
	Penalty     []string `yaml:"penalty"`
	SayHi       []string `yaml:"say_hi"`
}

// SongsConfig represents where quiz songs come from.
type SongsConfig struct {
	Shuffle bool           `yaml:"shuffle" default:"true"`
	Limit   int            `yaml:"limit" validate:"gte=0"`
	Sources []SourceConfig `yaml:"sources" validate:"required,min=1,dive"`
}

// SourceConfig represents a single song source configuration.
type SourceConfig struct {
	Type        string         `yaml:"type" validate:"required,oneof=folder playlist mpd"`
	DisplayName string         `yaml:"display_name"`
	Settings    map[string]any `yaml:"settings"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// OutputConfig selects the audio backend.
type OutputConfig struct {
	Type             string         `yaml:"type" default:"command" validate:"oneof=command mpd spotify"`
	CommandTimeoutMs int            `yaml:"command_timeout_ms" default:"5000" validate:"gte=100,lte=60000"`
	Settings         map[string]any `yaml:"settings"`
}

// IntroConfig represents the intro music played while actors are introduced.
type IntroConfig struct {
	Start  string `yaml:"start"`
	Loop   string `yaml:"loop"`
	FadeMs int    `yaml:"fade_ms" default:"3000" validate:"gte=0,lte=30000"`
}

// UIConfig represents terminal UI options.
type UIConfig struct {
	AltScreen bool   `yaml:"alt_screen" default:"true"`
	LogFile   string `yaml:"log_file" default:"tunequiz.log"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
	DeviceName   string `yaml:"device_name"`
}

// MPDConfig represents the Music Player Daemon connection.
type MPDConfig struct {
	Network  string `yaml:"network" default:"tcp" validate:"oneof=tcp unix"`
	Addr     string `yaml:"addr" default:"localhost:6600"`
	Password string `yaml:"password"`
}

// Option adjusts the configuration after the file and environment are
// applied and before validation.
type Option func(*Config)

// WithSongsFolder replaces the configured sources with a single folder.
func WithSongsFolder(path string) Option {
	return func(c *Config) {
		if path == "" {
			return
		}
		c.Songs.Sources = []SourceConfig{{
			Type:        SourceFolder,
			DisplayName: "command line",
			Settings:    map[string]any{"path": path},
		}}
	}
}

// WithShuffle overrides the shuffle setting.
func WithShuffle(shuffle bool) Option {
	return func(c *Config) {
		c.Songs.Shuffle = shuffle
	}
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data, opts...)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte, opts ...Option) (*Config, error) {
	var cfg Config

	// Defaults go in first so explicit false values in the file survive.
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	for _, opt := range opts {
		opt(&cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("MPD_PASSWORD"); v != "" {
		c.MPD.Password = v
	}
	if v := os.Getenv("TUNEQUIZ_SONGS"); v != "" {
		c.Songs.Sources = []SourceConfig{{
			Type:        SourceFolder,
			DisplayName: "env",
			Settings:    map[string]any{"path": v},
		}}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateBuzzers(); err != nil {
		return err
	}

	if c.UsesSpotify() {
		if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" || c.Spotify.RefreshToken == "" {
			return errors.New("spotify client_id, client_secret and refresh_token are required when spotify is used")
		}
	}

	return nil
}

// validateBuzzers checks that every buzzer key is unique.
func (c *Config) validateBuzzers() error {
	seen := make(map[string]int, len(c.Game.Buzzers))
	for i, b := range c.Game.Buzzers {
		key := strings.ToLower(b.Key)
		if prev, ok := seen[key]; ok {
			return errors.Newf("buzzer key %q is used by buzzers %d and %d", b.Key, prev+1, i+1)
		}
		seen[key] = i
	}
	return nil
}

// UsesSpotify reports whether any component needs Spotify credentials.
func (c *Config) UsesSpotify() bool {
	if c.Output.Type == OutputSpotify {
		return true
	}
	for _, s := range c.Songs.Sources {
		if s.Type == SourcePlaylist {
			return true
		}
	}
	return false
}

// UsesMPD reports whether any component needs an MPD connection.
func (c *Config) UsesMPD() bool {
	if c.Output.Type == OutputMPD {
		return true
	}
	for _, s := range c.Songs.Sources {
		if s.Type == SourceMPD {
			return true
		}
	}
	return false
}

// PollInterval returns the game loop poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Game.PollIntervalMs) * time.Millisecond
}

// CommandTimeout returns the upper bound for a single output call.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Output.CommandTimeoutMs) * time.Millisecond
}

// FadeDuration returns how long the intro fades out.
func (c *Config) FadeDuration() time.Duration {
	return time.Duration(c.Intro.FadeMs) * time.Millisecond
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
