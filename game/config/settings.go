package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a
// double underscore, e.g. ROBOTSIM_NGROK__DOMAIN.
const EnvPrefix = "ROBOTSIM_"

// Settings holds server process settings, as opposed to robot presets
type Settings struct {
	Addr            string        `json:"addr"`
	ConfigDir       string        `json:"config_dir"`
	LogLevel        string        `json:"log_level"`
	LogFormat       string        `json:"log_format"`
	SessionTTL      time.Duration `json:"session_ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	APIURL          string        `json:"api_url"`
	Ngrok           NgrokSettings `json:"ngrok"`
}

// NgrokSettings controls the optional public tunnel. The auth token is read
// from NGROK_AUTHTOKEN by the ngrok SDK.
type NgrokSettings struct {
	Enabled bool   `json:"enabled"`
	Domain  string `json:"domain"`
}

// DefaultSettings returns the settings used when nothing overrides them
func DefaultSettings() Settings {
	return Settings{
		Addr:            ":8080",
		ConfigDir:       "configs",
		LogLevel:        "info",
		LogFormat:       "json",
		SessionTTL:      time.Hour,
		CleanupInterval: 10 * time.Minute,
		APIURL:          "http://localhost:8080",
	}
}

// LoadSettings layers the defaults, an optional settings file (JSON or
// YAML) and ROBOTSIM_ environment variables, in that order.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = kjson.Parser()
		default:
			return nil, fmt.Errorf("unsupported settings format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment settings: %w", err)
	}

	settings := DefaultSettings()
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate checks the settings for values the server cannot run with
func (s Settings) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("settings: addr is required")
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("settings: log_level: %w", err)
	}
	switch s.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("settings: log_format must be json or console, got %q", s.LogFormat)
	}
	if s.SessionTTL < 0 || s.CleanupInterval < 0 {
		return fmt.Errorf("settings: durations must not be negative")
	}
	if s.SessionTTL > 0 && s.CleanupInterval == 0 {
		return fmt.Errorf("settings: cleanup_interval is required when session_ttl is set")
	}
	return nil
}
