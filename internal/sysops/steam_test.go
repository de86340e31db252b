package sysops

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `"AppState"
{
	"appid"		"620"
	"Universe"		"1"
	"name"		"Portal 2"
	"StateFlags"		"4"
	"installdir"		"Portal 2"
}
`

func TestParseAppManifest(t *testing.T) {
	id, name := parseAppManifest(sampleManifest)
	if id != "620" {
		t.Errorf("appid: got %q, want %q", id, "620")
	}
	if name != "Portal 2" {
		t.Errorf("name: got %q, want %q", name, "Portal 2")
	}
}

func TestParseAppManifest_Empty(t *testing.T) {
	id, name := parseAppManifest("not a manifest")
	if id != "" || name != "" {
		t.Errorf("got (%q, %q), want empty results", id, name)
	}
}

func TestFindAppID(t *testing.T) {
	root := t.TempDir()
	apps := filepath.Join(root, "steamapps")
	if err := os.MkdirAll(apps, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(apps, "appmanifest_620.acf"), []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	s := &Steam{root: root, rootOnce: true}

	tests := []struct {
		name string
		want string
	}{
		{"portal 2", "620"},
		{"Portal", "620"},
		{"PORTAL 2", "620"},
		{"half-life", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := s.findAppID(tt.name); got != tt.want {
			t.Errorf("findAppID(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLaunchByName_DispatchesRunGameID(t *testing.T) {
	root := t.TempDir()
	apps := filepath.Join(root, "steamapps")
	if err := os.MkdirAll(apps, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(apps, "appmanifest_620.acf"), []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	var dispatched string
	s := &Steam{root: root, rootOnce: true}
	s.open = func(url string) bool {
		dispatched = url
		return true
	}

	if !s.LaunchByName("portal 2") {
		t.Fatal("LaunchByName returned false for an installed game")
	}
	if dispatched != "steam://rungameid/620" {
		t.Errorf("dispatched URL: got %q, want %q", dispatched, "steam://rungameid/620")
	}
}

func TestLaunchByAppID_EmptyID(t *testing.T) {
	s := NewSteam()
	if s.LaunchByAppID("") {
		t.Error("LaunchByAppID(\"\") should report false")
	}
}

func TestDetectSteamRoot_NotInstalled(t *testing.T) {
	// Detection with HOME pointed at an empty dir must come back empty
	// rather than erroring.
	t.Setenv("HOME", t.TempDir())
	if root := detectSteamRoot("linux"); root != "" {
		t.Errorf("detectSteamRoot: got %q, want empty", root)
	}
}
