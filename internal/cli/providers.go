package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/clarionvoice/clarion/internal/config"
	"github.com/clarionvoice/clarion/internal/resilience"
	"github.com/clarionvoice/clarion/pkg/provider/hotword"
	hotwordconsole "github.com/clarionvoice/clarion/pkg/provider/hotword/console"
	hotwordmock "github.com/clarionvoice/clarion/pkg/provider/hotword/mock"
	"github.com/clarionvoice/clarion/pkg/provider/stt"
	sttconsole "github.com/clarionvoice/clarion/pkg/provider/stt/console"
	sttmock "github.com/clarionvoice/clarion/pkg/provider/stt/mock"
	sttopenai "github.com/clarionvoice/clarion/pkg/provider/stt/openai"
	sttwhisper "github.com/clarionvoice/clarion/pkg/provider/stt/whisper"
	"github.com/clarionvoice/clarion/pkg/provider/tts"
	ttsconsole "github.com/clarionvoice/clarion/pkg/provider/tts/console"
	ttsespeak "github.com/clarionvoice/clarion/pkg/provider/tts/espeak"
	ttsmock "github.com/clarionvoice/clarion/pkg/provider/tts/mock"
)

// providers bundles the three instantiated loop providers.
type providers struct {
	Hotword hotword.Provider
	STT     stt.Provider
	TTS     tts.Provider
}

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the provider
// from the implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// ── Hotword ───────────────────────────────────────────────────────────────

	reg.RegisterHotword("console", func(config.ProviderEntry) (hotword.Provider, error) {
		return hotwordconsole.New(os.Stdin), nil
	})
	reg.RegisterHotword("mock", func(config.ProviderEntry) (hotword.Provider, error) {
		return &hotwordmock.Provider{AutoTrigger: true}, nil
	})

	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("console", func(config.ProviderEntry) (stt.Provider, error) {
		return sttconsole.New(os.Stdin), nil
	})
	reg.RegisterSTT("mock", func(config.ProviderEntry) (stt.Provider, error) {
		return &sttmock.Provider{}, nil
	})
	reg.RegisterSTT("whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []sttwhisper.Option
		if entry.Model != "" {
			opts = append(opts, sttwhisper.WithModel(entry.Model))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, sttwhisper.WithLanguage(lang))
		}
		return sttwhisper.New(entry.BaseURL, opts...)
	})
	reg.RegisterSTT("openai", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []sttopenai.Option
		if entry.BaseURL != "" {
			opts = append(opts, sttopenai.WithBaseURL(entry.BaseURL))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, sttopenai.WithLanguage(lang))
		}
		return sttopenai.New(entry.APIKey, entry.Model, opts...)
	})

	// ── TTS ───────────────────────────────────────────────────────────────────

	reg.RegisterTTS("console", func(config.ProviderEntry) (tts.Provider, error) {
		return ttsconsole.New(os.Stdout), nil
	})
	reg.RegisterTTS("mock", func(config.ProviderEntry) (tts.Provider, error) {
		return &ttsmock.Provider{}, nil
	})
	reg.RegisterTTS("espeak", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []ttsespeak.Option
		if voice := optString(entry.Options, "voice"); voice != "" {
			opts = append(opts, ttsespeak.WithVoice(voice))
		}
		if bin := optString(entry.Options, "binary"); bin != "" {
			opts = append(opts, ttsespeak.WithBinary(bin))
		}
		if wpm, ok := entry.Options["speed"].(int); ok && wpm > 0 {
			opts = append(opts, ttsespeak.WithSpeed(wpm))
		}
		return ttsespeak.New(opts...), nil
	})
}

// buildProviders instantiates the providers selected by cfg. In mock mode
// the console providers are used regardless of configuration: the keyboard
// stands in for the microphone and stdout for the speaker. A configured
// provider that fails to construct degrades to console with a warning; an
// explicitly configured fallback that cannot be built is a hard error.
func buildProviders(cfg *config.Config, reg *config.Registry, mock bool) (*providers, error) {
	hotwordEntry := cfg.Providers.Hotword
	sttEntry := cfg.Providers.STT
	ttsEntry := cfg.Providers.TTS
	if mock {
		hotwordEntry = config.ProviderEntry{Name: "console"}
		sttEntry = config.ProviderEntry{Name: "console"}
		ttsEntry = config.ProviderEntry{Name: "console"}
	}

	hw, err := reg.CreateHotword(hotwordEntry)
	if err != nil {
		slog.Warn("hotword provider unavailable, using console", "name", hotwordEntry.Name, "err", err)
		if hw, err = reg.CreateHotword(config.ProviderEntry{Name: "console"}); err != nil {
			return nil, fmt.Errorf("build hotword provider: %w", err)
		}
	}
	st, err := reg.CreateSTT(sttEntry)
	if err != nil {
		slog.Warn("stt provider unavailable, using console", "name", sttEntry.Name, "err", err)
		if st, err = reg.CreateSTT(config.ProviderEntry{Name: "console"}); err != nil {
			return nil, fmt.Errorf("build stt provider: %w", err)
		}
		sttEntry.Fallback = nil
	}
	if fb := sttEntry.Fallback; fb != nil {
		secondary, err := reg.CreateSTT(*fb)
		if err != nil {
			return nil, fmt.Errorf("build stt fallback provider: %w", err)
		}
		chain := resilience.NewSTTChain(sttEntry.Name, st, resilience.BreakerConfig{})
		chain.Add(fb.Name, secondary)
		st = chain
	}
	ts, err := reg.CreateTTS(ttsEntry)
	if err != nil {
		slog.Warn("tts provider unavailable, using console", "name", ttsEntry.Name, "err", err)
		if ts, err = reg.CreateTTS(config.ProviderEntry{Name: "console"}); err != nil {
			return nil, fmt.Errorf("build tts provider: %w", err)
		}
		ttsEntry.Fallback = nil
	}
	if fb := ttsEntry.Fallback; fb != nil {
		secondary, err := reg.CreateTTS(*fb)
		if err != nil {
			return nil, fmt.Errorf("build tts fallback provider: %w", err)
		}
		chain := resilience.NewTTSChain(ttsEntry.Name, ts, resilience.BreakerConfig{})
		chain.Add(fb.Name, secondary)
		ts = chain
	}
	return &providers{Hotword: hw, STT: st, TTS: ts}, nil
}

// optString reads a string value from a provider options map.
func optString(options map[string]any, key string) string {
	if options == nil {
		return ""
	}
	s, _ := options[key].(string)
	return s
}
