package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "language: en\n")

	var mu sync.Mutex
	var reloaded *Config
	w, err := NewWatcher(path, func(old, new *Config) {
		mu.Lock()
		reloaded = new
		mu.Unlock()
	}, WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if got := w.Current().Language; got != "en" {
		t.Fatalf("initial language: got %q, want en", got)
	}

	// mtime granularity can be coarse; make sure it moves.
	time.Sleep(20 * time.Millisecond)
	writeConfig(t, path, "language: it\n")
	now := time.Now()
	os.Chtimes(path, now, now)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := reloaded != nil
		mu.Unlock()
		if done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if reloaded == nil {
		t.Fatal("onChange never fired")
	}
	if reloaded.Language != "it" {
		t.Errorf("reloaded language: got %q, want it", reloaded.Language)
	}
	if w.Current().Language != "it" {
		t.Errorf("Current language: got %q, want it", w.Current().Language)
	}
}

func TestWatcher_InvalidFileKeepsOldConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "language: en\n")

	w, err := NewWatcher(path, nil, WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	writeConfig(t, path, "log_level: shouting\n")
	now := time.Now()
	os.Chtimes(path, now, now)

	time.Sleep(100 * time.Millisecond)
	if got := w.Current().Language; got != "en" {
		t.Errorf("Current after invalid write: got %q, want en", got)
	}
}

func TestWatcher_InitialLoadFailure(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("NewWatcher with missing file: got nil, want error")
	}
}

func TestChanges(t *testing.T) {
	old := Default()
	new := Default()
	if got := Changes(old, new); len(got) != 0 {
		t.Errorf("identical configs: got %v, want none", got)
	}

	new.Language = "it"
	new.Providers.STT.Name = "whisper"
	got := Changes(old, new)
	if len(got) != 2 || got[0] != "language" || got[1] != "providers.stt" {
		t.Errorf("Changes: got %v, want [language providers.stt]", got)
	}
	if !ProvidersChanged(old, new) {
		t.Error("ProvidersChanged: got false, want true")
	}
	new.Providers.STT = old.Providers.STT
	if ProvidersChanged(old, new) {
		t.Error("ProvidersChanged after revert: got true, want false")
	}
}
