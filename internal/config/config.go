// Package config provides the configuration schema, loader, and provider
// registry for the Clarion voice assistant.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Clarion.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity. Default: info.
	LogLevel LogLevel `yaml:"log_level"`

	// Language selects the spoken response language ("en", "it").
	// Default: en.
	Language string `yaml:"language"`

	Providers ProvidersConfig `yaml:"providers"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
	Skills    SkillsConfig    `yaml:"skills"`
	Memory    MemoryConfig    `yaml:"memory"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ProvidersConfig declares which provider implementation to use for each
// stage of the listen cycle. Each field selects a named provider registered
// in the [Registry].
type ProvidersConfig struct {
	Hotword ProviderEntry `yaml:"hotword"`
	STT     ProviderEntry `yaml:"stt"`
	TTS     ProviderEntry `yaml:"tts"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation
	// (e.g., "mock", "console", "whisper", "espeak").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default endpoint (e.g., the
	// whisper.cpp server URL). Leave empty for the provider's default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "whisper-1").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`

	// Fallback names a secondary provider to fail over to when this one
	// keeps erroring. Only honoured for STT and TTS providers.
	Fallback *ProviderEntry `yaml:"fallback"`
}

// TimeoutsConfig holds the listen-cycle timeouts in seconds.
type TimeoutsConfig struct {
	// HotwordSeconds bounds each hotword wait before the loop re-polls.
	// Default: 5.
	HotwordSeconds float64 `yaml:"hotword_seconds"`

	// ListenSeconds bounds each post-hotword listen. Default: 10.
	ListenSeconds float64 `yaml:"listen_seconds"`
}

// Hotword returns the hotword wait timeout as a [time.Duration].
func (t TimeoutsConfig) Hotword() time.Duration {
	return secondsOrDefault(t.HotwordSeconds, 5*time.Second)
}

// Listen returns the listen timeout as a [time.Duration].
func (t TimeoutsConfig) Listen() time.Duration {
	return secondsOrDefault(t.ListenSeconds, 10*time.Second)
}

func secondsOrDefault(s float64, def time.Duration) time.Duration {
	if s <= 0 {
		return def
	}
	return time.Duration(s * float64(time.Second))
}

// SkillsConfig configures user skill manifests.
type SkillsConfig struct {
	// Dir is the directory holding YAML skill manifests. Empty selects the
	// per-user default, <user config dir>/clarion/skills.
	Dir string `yaml:"dir"`

	// Watch enables live reloading when manifests change.
	Watch bool `yaml:"watch"`

	// Options holds free-form values passed to every skill invocation.
	Options map[string]any `yaml:"options"`
}

// MemoryConfig configures the utterance event log.
type MemoryConfig struct {
	// Disabled turns off event persistence entirely.
	Disabled bool `yaml:"disabled"`

	// Path overrides the SQLite database location. Empty selects the
	// per-user default under the XDG data directory.
	Path string `yaml:"path"`
}

// MetricsConfig configures the Prometheus scrape endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics (e.g., ":9090").
	// Empty disables the endpoint.
	Addr string `yaml:"addr"`
}
