package config

import "reflect"

// Changes reports which top-level config sections differ between old and new.
// The voice loop uses this to decide what must be rebuilt after a reload:
// provider changes require new provider instances, while timeout and language
// changes take effect on the next cycle.
func Changes(old, new *Config) []string {
	if old == nil || new == nil {
		return nil
	}
	var changed []string
	if old.LogLevel != new.LogLevel {
		changed = append(changed, "log_level")
	}
	if old.Language != new.Language {
		changed = append(changed, "language")
	}
	if !reflect.DeepEqual(old.Providers.Hotword, new.Providers.Hotword) {
		changed = append(changed, "providers.hotword")
	}
	if !reflect.DeepEqual(old.Providers.STT, new.Providers.STT) {
		changed = append(changed, "providers.stt")
	}
	if !reflect.DeepEqual(old.Providers.TTS, new.Providers.TTS) {
		changed = append(changed, "providers.tts")
	}
	if old.Timeouts != new.Timeouts {
		changed = append(changed, "timeouts")
	}
	if !reflect.DeepEqual(old.Skills, new.Skills) {
		changed = append(changed, "skills")
	}
	if old.Memory != new.Memory {
		changed = append(changed, "memory")
	}
	if old.Metrics != new.Metrics {
		changed = append(changed, "metrics")
	}
	return changed
}

// ProvidersChanged reports whether any provider selection differs, meaning
// the loop's providers must be recreated.
func ProvidersChanged(old, new *Config) bool {
	for _, c := range Changes(old, new) {
		switch c {
		case "providers.hotword", "providers.stt", "providers.tts":
			return true
		}
	}
	return false
}
