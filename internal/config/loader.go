package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"hotword": {"mock", "console"},
	"stt":     {"mock", "console", "whisper", "openai"},
	"tts":     {"mock", "console", "espeak"},
}

// Default returns the configuration used when no config file is given:
// console providers, English responses, default timeouts.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		Language: "en",
		Providers: ProvidersConfig{
			Hotword: ProviderEntry{Name: "console"},
			STT:     ProviderEntry{Name: "console"},
			TTS:     ProviderEntry{Name: "console"},
		},
		Skills: SkillsConfig{Watch: true},
	}
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.Language != "" && len(cfg.Language) != 2 {
		errs = append(errs, fmt.Errorf("language %q is invalid; use a two-letter code like \"en\"", cfg.Language))
	}
	if cfg.Timeouts.HotwordSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeouts.hotword_seconds %.1f must not be negative", cfg.Timeouts.HotwordSeconds))
	}
	if cfg.Timeouts.ListenSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeouts.listen_seconds %.1f must not be negative", cfg.Timeouts.ListenSeconds))
	}

	validateProviderName("hotword", cfg.Providers.Hotword.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)

	if cfg.Providers.STT.Name == "whisper" && cfg.Providers.STT.BaseURL == "" {
		slog.Warn("providers.stt.base_url is empty; using the default whisper server address")
	}
	if cfg.Providers.STT.Name == "openai" && cfg.Providers.STT.APIKey == "" {
		errs = append(errs, errors.New("providers.stt.api_key is required for the openai provider"))
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}

// mockEnvVars force mock mode when set to a truthy value. CI covers hosted
// pipelines that have no audio hardware.
var mockEnvVars = []string{"CLARION_MOCK", "CLARION_NO_AUDIO", "CI"}

// MockFromEnv reports whether the environment forces mock mode.
// CLARION_MOCK=1, CLARION_NO_AUDIO=1 and CI=true all count.
func MockFromEnv() bool {
	for _, key := range mockEnvVars {
		switch strings.ToLower(os.Getenv(key)) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}
