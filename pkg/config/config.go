package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures module-level configuration knobs. Feature packages
// (settings, render, dispatcher) pull from these nested structs.
type Config struct {
	Localization LocalizationConfig `mapstructure:"localization" json:"localization"`
	Messenger    MessengerConfig    `mapstructure:"messenger" json:"messenger"`
	Links        LinksConfig        `mapstructure:"links" json:"links"`
	Hours        HoursConfig        `mapstructure:"hours" json:"hours"`
	Summary      SummaryConfig      `mapstructure:"summary" json:"summary"`
	Dispatcher   DispatcherConfig   `mapstructure:"dispatcher" json:"dispatcher"`
}

// LocalizationConfig controls the locale used for field labels.
type LocalizationConfig struct {
	DefaultLocale string `mapstructure:"default_locale" json:"default_locale"`
}

// MessengerConfig holds the system-wide delivery defaults every project
// inherits when neither it nor its ancestors override a value.
type MessengerConfig struct {
	URL             string          `mapstructure:"url" json:"url"`
	Username        string          `mapstructure:"username" json:"username"`
	Icon            string          `mapstructure:"icon" json:"icon"`
	Channel         string          `mapstructure:"channel" json:"channel"`
	DefaultMentions string          `mapstructure:"default_mentions" json:"default_mentions"`
	Toggles         map[string]bool `mapstructure:"toggles" json:"toggles"`
}

// LinksConfig describes how object URLs are built.
type LinksConfig struct {
	HostName string `mapstructure:"host_name" json:"host_name"`
	Protocol string `mapstructure:"protocol" json:"protocol"`
}

// HoursConfig selects how estimated hours are displayed.
type HoursConfig struct {
	Format string `mapstructure:"format" json:"format"`
}

const (
	HoursFormatDecimal = "decimal"
	HoursFormatMinutes = "minutes"
)

// SummaryConfig holds the go-template layouts of the message text.
type SummaryConfig struct {
	Created string `mapstructure:"created" json:"created"`
	Updated string `mapstructure:"updated" json:"updated"`
}

// DispatcherConfig tunes the delivery worker pool.
type DispatcherConfig struct {
	Enabled       bool    `mapstructure:"enabled" json:"enabled"`
	Adapter       string  `mapstructure:"adapter" json:"adapter"`
	MaxRetries    *int    `mapstructure:"max_retries" json:"max_retries"`
	MaxWorkers    int     `mapstructure:"max_workers" json:"max_workers"`
	QueueSize     int     `mapstructure:"queue_size" json:"queue_size"`
	RatePerSecond float64 `mapstructure:"rate_per_second" json:"rate_per_second"`
	Timeout       string  `mapstructure:"timeout" json:"timeout"`
	Backoff       string  `mapstructure:"backoff" json:"backoff"`
	BackoffMax    string  `mapstructure:"backoff_max" json:"backoff_max"`
	BackoffJitter float64 `mapstructure:"backoff_jitter" json:"backoff_jitter"`
}

const defaultTimeout = 10 * time.Second

// TimeoutDuration parses Timeout, falling back to ten seconds.
func (c DispatcherConfig) TimeoutDuration() time.Duration {
	d, err := ParseDurationOrDefault("dispatcher.timeout", c.Timeout, defaultTimeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}

const defaultRetries = 3

// Retries is the number of re-posts after a failed first attempt. Unset
// falls back to three; an explicit 0 disables retries.
func (c DispatcherConfig) Retries() int {
	if c.MaxRetries == nil {
		return defaultRetries
	}
	return max(*c.MaxRetries, 0)
}

// IntPtr helps set optional integer knobs such as MaxRetries.
func IntPtr(v int) *int {
	return &v
}

// BackoffDurations parses Backoff and BackoffMax. Zero values leave the
// retry package defaults in place.
func (c DispatcherConfig) BackoffDurations() (base, limit time.Duration) {
	base, _ = ParseDurationField("dispatcher.backoff", c.Backoff)
	limit, _ = ParseDurationField("dispatcher.backoff_max", c.BackoffMax)
	return base, limit
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Localization: LocalizationConfig{DefaultLocale: "en"},
		Messenger: MessengerConfig{
			Toggles: map[string]bool{},
		},
		Links: LinksConfig{
			HostName: "localhost:3000",
			Protocol: "http",
		},
		Hours: HoursConfig{Format: HoursFormatDecimal},
		Summary: SummaryConfig{
			Created: DefaultCreatedSummary,
			Updated: DefaultUpdatedSummary,
		},
		Dispatcher: DispatcherConfig{
			Enabled:       true,
			Adapter:       "slack",
			MaxRetries:    IntPtr(defaultRetries),
			MaxWorkers:    4,
			QueueSize:     256,
			RatePerSecond: 1,
			Timeout:       "10s",
			Backoff:       "100ms",
			BackoffMax:    "5s",
		},
	}
}

// Default summary layouts. Values are escaped before rendering.
const (
	DefaultCreatedSummary = `[{{ project|safe }}] {{ author|safe }} created {{ issue|safe }}{{ mentions|safe }}`
	DefaultUpdatedSummary = `[{{ project|safe }}] {{ author|safe }} updated {{ issue|safe }}{{ mentions|safe }}`
)

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Localization.DefaultLocale == "" {
		return errors.New("localization.default_locale is required")
	}
	if c.Dispatcher.MaxRetries != nil && *c.Dispatcher.MaxRetries < 0 {
		return fmt.Errorf("dispatcher.max_retries must be >= 0")
	}
	if c.Dispatcher.MaxWorkers <= 0 {
		return fmt.Errorf("dispatcher.max_workers must be > 0")
	}
	if c.Dispatcher.QueueSize < 0 {
		return fmt.Errorf("dispatcher.queue_size must be >= 0")
	}
	if c.Dispatcher.RatePerSecond < 0 {
		return fmt.Errorf("dispatcher.rate_per_second must be >= 0")
	}
	if _, err := ParseDurationField("dispatcher.timeout", c.Dispatcher.Timeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("dispatcher.backoff", c.Dispatcher.Backoff); err != nil {
		return err
	}
	if _, err := ParseDurationField("dispatcher.backoff_max", c.Dispatcher.BackoffMax); err != nil {
		return err
	}
	if c.Dispatcher.BackoffJitter < 0 || c.Dispatcher.BackoffJitter > 1 {
		return fmt.Errorf("dispatcher.backoff_jitter must be within [0, 1]")
	}
	switch c.Hours.Format {
	case HoursFormatDecimal, HoursFormatMinutes:
	default:
		return fmt.Errorf("hours.format must be %q or %q", HoursFormatDecimal, HoursFormatMinutes)
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// While cfgx.Build still returns zero values, we fallback to a lightweight
// decoder to keep smoke tests meaningful. Once cfgx is fully implemented we
// can drop the fallback.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Localization.DefaultLocale == "" {
		c.Localization.DefaultLocale = defaults.Localization.DefaultLocale
	}
	if c.Messenger.Toggles == nil {
		c.Messenger.Toggles = map[string]bool{}
	}
	if strings.TrimSpace(c.Links.HostName) == "" {
		c.Links.HostName = defaults.Links.HostName
	}
	if c.Links.Protocol == "" {
		c.Links.Protocol = defaults.Links.Protocol
	}
	if c.Hours.Format == "" {
		c.Hours.Format = defaults.Hours.Format
	}
	if strings.TrimSpace(c.Summary.Created) == "" {
		c.Summary.Created = defaults.Summary.Created
	}
	if strings.TrimSpace(c.Summary.Updated) == "" {
		c.Summary.Updated = defaults.Summary.Updated
	}
	if c.Dispatcher.MaxWorkers == 0 {
		c.Dispatcher.MaxWorkers = defaults.Dispatcher.MaxWorkers
	}
	if c.Dispatcher.MaxRetries == nil {
		c.Dispatcher.MaxRetries = IntPtr(*defaults.Dispatcher.MaxRetries)
	}
	if c.Dispatcher.QueueSize == 0 {
		c.Dispatcher.QueueSize = defaults.Dispatcher.QueueSize
	}
	if c.Dispatcher.RatePerSecond == 0 {
		c.Dispatcher.RatePerSecond = defaults.Dispatcher.RatePerSecond
	}
	if strings.TrimSpace(c.Dispatcher.Adapter) == "" {
		c.Dispatcher.Adapter = defaults.Dispatcher.Adapter
	}
	if c.Dispatcher.Timeout == "" {
		c.Dispatcher.Timeout = defaults.Dispatcher.Timeout
	}
	if c.Dispatcher.Backoff == "" {
		c.Dispatcher.Backoff = defaults.Dispatcher.Backoff
	}
	if c.Dispatcher.BackoffMax == "" {
		c.Dispatcher.BackoffMax = defaults.Dispatcher.BackoffMax
	}
	if !c.Dispatcher.Enabled {
		c.Dispatcher.Enabled = defaults.Dispatcher.Enabled
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
