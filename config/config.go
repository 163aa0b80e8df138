// Package config holds the gotdir settings object and loads, validates,
// saves and watches the settings file.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ZaguanLabs/gotdir"
	"github.com/ZaguanLabs/gotdir/provider"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Settings is the explicit settings object handed to the switcher, the host
// stack and the renderer at startup.
type Settings struct {
	// Source and Target form the default direction.
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`

	Directions gotdir.Directions `json:"directions" yaml:"directions" toml:"directions"`
	Rules      gotdir.RuleTable  `json:"rules" yaml:"rules" toml:"rules"`

	AutoSwitch        bool       `json:"auto_switch" yaml:"auto_switch" toml:"auto_switch"`
	PopupThreshold    int        `json:"popup_threshold" yaml:"popup_threshold" toml:"popup_threshold"`
	FollowSuggestions bool       `json:"follow_suggestions" yaml:"follow_suggestions" toml:"follow_suggestions"`
	TKK               gotdir.TKK `json:"tkk" yaml:"tkk" toml:"tkk"`

	Backend   BackendSettings   `json:"backend" yaml:"backend" toml:"backend"`
	Cache     CacheSettings     `json:"cache" yaml:"cache" toml:"cache"`
	RateLimit RateLimitSettings `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit"`
	Retry     RetrySettings     `json:"retry" yaml:"retry" toml:"retry"`
	Log       LogSettings       `json:"log" yaml:"log" toml:"log"`
}

// BackendSettings selects and configures the translation backend.
type BackendSettings struct {
	Name    string `json:"name" yaml:"name" toml:"name"` // openai, google or mock
	Model   string `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
}

// CacheSettings configures result caching. RedisURL selects Redis; otherwise
// an in-memory cache is used, optionally persisted to File.
type CacheSettings struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	RedisURL   string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" toml:"redis_url,omitempty"`
	TTLSeconds int    `json:"ttl_seconds" yaml:"ttl_seconds" toml:"ttl_seconds"`
	MaxEntries int    `json:"max_entries" yaml:"max_entries" toml:"max_entries"`
	File       string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
}

// RateLimitSettings configures the rate-limited host. Zero disables it.
type RateLimitSettings struct {
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute" toml:"requests_per_minute"`
	Burst             int `json:"burst" yaml:"burst" toml:"burst"`
}

// RetrySettings configures the retrying host. Zero MaxRetries disables it.
type RetrySettings struct {
	MaxRetries  int `json:"max_retries" yaml:"max_retries" toml:"max_retries"`
	BaseDelayMs int `json:"base_delay_ms" yaml:"base_delay_ms" toml:"base_delay_ms"`
	MaxDelayMs  int `json:"max_delay_ms" yaml:"max_delay_ms" toml:"max_delay_ms"`
}

// LogSettings configures the CLI logger.
type LogSettings struct {
	Env   string `json:"env" yaml:"env" toml:"env"`
	Debug bool   `json:"debug" yaml:"debug" toml:"debug"`
}

// DefaultSettings returns the built-in settings. Slices are fresh copies, so
// decoding into the result never touches the package defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Source:            "en",
		Target:            "ru",
		Directions:        append(gotdir.Directions(nil), gotdir.DefaultDirections...),
		Rules:             append(gotdir.RuleTable(nil), gotdir.DefaultRules...),
		AutoSwitch:        true,
		PopupThreshold:    gotdir.DefaultPopupThreshold,
		FollowSuggestions: true,
		TKK:               gotdir.DefaultTKK,
		Backend:           BackendSettings{Name: provider.BackendOpenAI},
		Cache: CacheSettings{
			Enabled:    true,
			TTLSeconds: 0,
			MaxEntries: 1000,
		},
		Retry: RetrySettings{
			MaxRetries:  3,
			BaseDelayMs: 1000,
			MaxDelayMs:  30000,
		},
		Log: LogSettings{Env: "development"},
	}
}

// PathEnvVar overrides the default settings file location.
const PathEnvVar = "GOTDIR_CONFIG"

// DefaultPath returns the settings file location: $GOTDIR_CONFIG, or
// config.yaml under the user's config directory.
func DefaultPath() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gotdir.yaml"
	}
	return filepath.Join(dir, "gotdir", "config.yaml")
}

// Direction returns the default direction.
func (s *Settings) Direction() gotdir.Direction {
	return gotdir.Direction{Source: s.Source, Target: s.Target}
}

// Switcher builds the direction switcher for these settings, or nil when
// auto-switching is off.
func (s *Settings) Switcher(logger *zap.Logger) *gotdir.Switcher {
	if !s.AutoSwitch {
		return nil
	}
	return gotdir.NewSwitcher(s.Rules, s.Directions, gotdir.WithSwitcherLogger(logger))
}

// Extractor returns the suggestion extractor matching the backend's payload,
// or nil when suggestions are not followed.
func (s *Settings) Extractor() gotdir.SuggestionExtractor {
	if !s.FollowSuggestions {
		return nil
	}
	if strings.EqualFold(s.Backend.Name, provider.BackendGoogle) {
		return gotdir.GoogleSuggestionExtractor{}
	}
	return gotdir.JSONSuggestionExtractor{}
}

// Stack returns the decorator configuration for these settings. cache may be
// nil to disable caching.
func (s *Settings) Stack(cache gotdir.TranslationCache, logger *zap.Logger) gotdir.StackConfig {
	cfg := gotdir.StackConfig{
		RateLimit: gotdir.RateLimitConfig{
			RequestsPerMinute: s.RateLimit.RequestsPerMinute,
			BurstSize:         s.RateLimit.Burst,
		},
		Retry: gotdir.RetryConfig{
			MaxRetries: s.Retry.MaxRetries,
			BaseDelay:  time.Duration(s.Retry.BaseDelayMs) * time.Millisecond,
			MaxDelay:   time.Duration(s.Retry.MaxDelayMs) * time.Millisecond,
		},
		Cache:       cache,
		Model:       s.Backend.Name + "/" + s.Backend.Model,
		Suggestions: s.Extractor(),
		Logger:      logger,
	}
	// Only the Google endpoint checks request tokens.
	if strings.EqualFold(s.Backend.Name, provider.BackendGoogle) {
		cfg.TKK = s.TKK
	}
	return cfg
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Directions = append(gotdir.Directions(nil), s.Directions...)
	c.Rules = append(gotdir.RuleTable(nil), s.Rules...)
	return &c
}

// ApplyEnvOverrides applies GOTDIR_* environment variables on top of the
// loaded settings. OPENAI_API_KEY is used when GOTDIR_API_KEY is unset.
// Unparseable numbers are ignored.
func (s *Settings) ApplyEnvOverrides() {
	if v := os.Getenv("GOTDIR_SOURCE"); v != "" {
		s.Source = v
	}
	if v := os.Getenv("GOTDIR_TARGET"); v != "" {
		s.Target = v
	}
	if v := os.Getenv("GOTDIR_BACKEND"); v != "" {
		s.Backend.Name = v
	}
	if v := os.Getenv("GOTDIR_MODEL"); v != "" {
		s.Backend.Model = v
	}
	if v := os.Getenv("GOTDIR_API_KEY"); v != "" {
		s.Backend.APIKey = v
	} else if s.Backend.APIKey == "" {
		s.Backend.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("GOTDIR_REDIS_URL"); v != "" {
		s.Cache.RedisURL = v
	}
	if v := os.Getenv("GOTDIR_POPUP_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.PopupThreshold = n
		}
	}
	if v := os.Getenv("GOTDIR_LOG_ENV"); v != "" {
		s.Log.Env = v
	}
}

// Normalize reduces the default direction and the known directions to base
// language codes ("en" for "en_US"), the form rules are written in. Call it
// again after overriding Source or Target.
func (s *Settings) Normalize() {
	s.Source = baseLang(s.Source)
	s.Target = baseLang(s.Target)
	for i, d := range s.Directions {
		s.Directions[i] = gotdir.Direction{Source: baseLang(d.Source), Target: baseLang(d.Target)}
	}
}

// Load reads the settings file at path, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s, err := loadFromFile(path)
	if err != nil {
		return nil, err
	}
	s.ApplyEnvOverrides()
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFromFile decodes path by extension on top of the defaults, without
// env overrides or validation.
func loadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, &gotdir.ConfigError{Path: path, Message: "read settings", Cause: err}
	}

	// Lists in the file replace the default lists. Left in place,
	// encoding/json would decode into the default elements.
	s := DefaultSettings()
	s.Directions, s.Rules = nil, nil
	if err := decode(path, data, s); err != nil {
		return nil, err
	}
	defaults := DefaultSettings()
	if s.Directions == nil {
		s.Directions = defaults.Directions
	}
	if s.Rules == nil {
		s.Rules = defaults.Rules
	}
	return s, nil
}

func decode(path string, data []byte, s *Settings) error {
	var err error
	format := formatOf(path)
	switch format {
	case "toml":
		_, err = toml.Decode(string(data), s)
	case "json":
		err = json.Unmarshal(data, s)
	default:
		err = yaml.Unmarshal(data, s)
	}
	if err != nil {
		return &gotdir.ConfigError{Path: path, Message: "decode " + strings.ToUpper(format), Cause: err}
	}
	return nil
}

// formatOf maps a file extension to "json", "toml" or "yaml" (the default).
func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

// Save writes the settings to path in the format its extension names. The
// directory is created with 0700 and the file written with 0600, since it may
// hold an API key. The write is atomic.
func Save(s *Settings, path string) error {
	data, err := encode(path, s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return &gotdir.ConfigError{Path: path, Message: "create settings directory", Cause: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &gotdir.ConfigError{Path: path, Message: "write settings", Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &gotdir.ConfigError{Path: path, Message: "write settings", Cause: err}
	}
	return nil
}

func encode(path string, s *Settings) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch formatOf(path) {
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(newTOMLSettings(s))
		data = buf.Bytes()
	case "json":
		data, err = json.MarshalIndent(s, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return nil, &gotdir.ConfigError{Path: path, Message: "encode settings", Cause: err}
	}
	return data, nil
}

// tomlSettings mirrors Settings for the TOML encoder, which has no
// per-element marshal hook: rules are written in their generic tuple form.
type tomlSettings struct {
	Source            string            `toml:"source"`
	Target            string            `toml:"target"`
	AutoSwitch        bool              `toml:"auto_switch"`
	PopupThreshold    int               `toml:"popup_threshold"`
	FollowSuggestions bool              `toml:"follow_suggestions"`
	Rules             []any             `toml:"rules"`
	Directions        gotdir.Directions `toml:"directions"`
	TKK               gotdir.TKK        `toml:"tkk"`
	Backend           BackendSettings   `toml:"backend"`
	Cache             CacheSettings     `toml:"cache"`
	RateLimit         RateLimitSettings `toml:"rate_limit"`
	Retry             RetrySettings     `toml:"retry"`
	Log               LogSettings       `toml:"log"`
}

func newTOMLSettings(s *Settings) tomlSettings {
	return tomlSettings{
		Source:            s.Source,
		Target:            s.Target,
		AutoSwitch:        s.AutoSwitch,
		PopupThreshold:    s.PopupThreshold,
		FollowSuggestions: s.FollowSuggestions,
		Rules:             s.Rules.Values(),
		Directions:        s.Directions,
		TKK:               s.TKK,
		Backend:           s.Backend,
		Cache:             s.Cache,
		RateLimit:         s.RateLimit,
		Retry:             s.Retry,
		Log:               s.Log,
	}
}

// ValidationErrors collects every fatal problem found by Validate.
type ValidationErrors []*gotdir.ConfigError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate reports settings the client cannot run with. Rule table problems
// are not fatal; see Warnings.
func (s *Settings) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, &gotdir.ConfigError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !gotdir.IsSupported(s.Source) {
		add("source", "unsupported language %q", s.Source)
	}
	if !gotdir.IsSupported(s.Target) {
		add("target", "unsupported language %q", s.Target)
	}
	if s.PopupThreshold < 0 {
		add("popup_threshold", "must not be negative, got %d", s.PopupThreshold)
	}

	switch strings.ToLower(s.Backend.Name) {
	case provider.BackendOpenAI, provider.BackendGoogle, provider.BackendMock:
	default:
		add("backend.name", "unknown backend %q", s.Backend.Name)
	}

	if s.Cache.TTLSeconds < 0 {
		add("cache.ttl_seconds", "must not be negative, got %d", s.Cache.TTLSeconds)
	}
	if s.Cache.MaxEntries < 0 {
		add("cache.max_entries", "must not be negative, got %d", s.Cache.MaxEntries)
	}
	if s.RateLimit.RequestsPerMinute < 0 || s.RateLimit.Burst < 0 {
		add("rate_limit", "must not be negative")
	}
	if s.Retry.MaxRetries < 0 || s.Retry.BaseDelayMs < 0 || s.Retry.MaxDelayMs < 0 {
		add("retry", "must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings reports rule table and direction problems that only disable part
// of the configuration: skipped or fail-closed rules, unsupported languages
// and a default direction missing from the known directions.
func (s *Settings) Warnings() []error {
	_, problems := gotdir.CompileRules(s.Rules)
	problems = append(problems, gotdir.ValidateLanguages(s.Rules, s.Directions)...)
	if !s.Directions.Contains(s.Direction()) {
		problems = append(problems, &gotdir.ConfigError{
			Field:   "directions",
			Message: fmt.Sprintf("default direction %s is not a known direction", s.Direction()),
		})
	}
	return problems
}
