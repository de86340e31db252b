package intent

import (
	"reflect"
	"testing"
)

func TestRoute_OpenApp(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		text     string
		wantApp  string
		wantOrig string
	}{
		{"apri calcolatrice", "calculator", "calcolatrice"},
		{"open calculator", "calculator", "calculator"},
		{"launch calc", "calculator", "calc"},
		{"Open Firefox", "firefox", "firefox"},
		{"start blocco note", "notepad", "blocco note"},
		// Unmapped names pass through unchanged, lowercased.
		{"open spotify", "spotify", "spotify"},
	}
	for _, tt := range tests {
		gotIntent, entities := r.Route(tt.text)
		if gotIntent != OpenApp {
			t.Errorf("Route(%q) intent: got %q, want %q", tt.text, gotIntent, OpenApp)
			continue
		}
		if entities["app_name"] != tt.wantApp {
			t.Errorf("Route(%q) app_name: got %v, want %q", tt.text, entities["app_name"], tt.wantApp)
		}
		if entities["original_name"] != tt.wantOrig {
			t.Errorf("Route(%q) original_name: got %v, want %q", tt.text, entities["original_name"], tt.wantOrig)
		}
	}
}

func TestRoute_SystemVolume(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		text        string
		wantAction  string
		wantPercent any
	}{
		{"set volume to 75%", "set", 75},
		{"volume up", "increase", nil},
		{"volume down", "decrease", nil},
		{"alza il volume", "increase", nil},
		{"what is the volume", "get", nil},
		{"imposta volume a 30", "set", 30},
		{"increase volume by 20%", "increase", 20},
		// Bare numerals above 100 are not percentages.
		{"set volume to 150", "set", nil},
	}
	for _, tt := range tests {
		gotIntent, entities := r.Route(tt.text)
		if gotIntent != SystemVolume {
			t.Errorf("Route(%q) intent: got %q, want %q", tt.text, gotIntent, SystemVolume)
			continue
		}
		if entities["action"] != tt.wantAction {
			t.Errorf("Route(%q) action: got %v, want %q", tt.text, entities["action"], tt.wantAction)
		}
		got, ok := entities["volume_percent"]
		if tt.wantPercent == nil {
			if ok {
				t.Errorf("Route(%q) volume_percent: got %v, want absent", tt.text, got)
			}
		} else if got != tt.wantPercent {
			t.Errorf("Route(%q) volume_percent: got %v, want %v", tt.text, got, tt.wantPercent)
		}
	}
}

func TestRoute_SteamGame(t *testing.T) {
	r := NewRouter()

	gotIntent, entities := r.Route("apri steam portal 2")
	if gotIntent != SteamGame {
		t.Fatalf("intent: got %q, want %q", gotIntent, SteamGame)
	}
	if entities["game_name"] != "portal 2" {
		t.Errorf("game_name: got %v, want %q", entities["game_name"], "portal 2")
	}

	// Without a title the skill opens the Steam client itself.
	gotIntent, entities = r.Route("open steam")
	if gotIntent != SteamGame {
		t.Fatalf("intent: got %q, want %q", gotIntent, SteamGame)
	}
	if entities["game_name"] != "" {
		t.Errorf("game_name: got %v, want empty", entities["game_name"])
	}
}

func TestRoute_NoIntent(t *testing.T) {
	r := NewRouter()

	for _, text := range []string{"this is not a valid command", "", "   ", "hello there"} {
		gotIntent, entities := r.Route(text)
		if gotIntent != "" {
			t.Errorf("Route(%q): got intent %q, want none", text, gotIntent)
		}
		if len(entities) != 0 {
			t.Errorf("Route(%q): got entities %v, want empty", text, entities)
		}
	}
}

func TestRoute_FirstMatchWins(t *testing.T) {
	r := NewRouter()
	// "open " appears before "volume" was inserted for steam, but the steam
	// keywords come first of all: an utterance containing both "open steam"
	// and "volume" routes by the earliest mapping.
	gotIntent, _ := r.Route("open steam volume slider")
	if gotIntent != SteamGame {
		t.Errorf("intent: got %q, want %q (mapping order must win)", gotIntent, SteamGame)
	}
}

func TestRoute_SubstringNotWordBoundary(t *testing.T) {
	// Preserved behavior: keywords match inside longer words too.
	r := NewRouter()
	gotIntent, _ := r.Route("the volumen knob is broken")
	if gotIntent != SystemVolume {
		t.Errorf("intent: got %q, want %q", gotIntent, SystemVolume)
	}
}

func TestAddRemoveMapping(t *testing.T) {
	r := NewRouter()

	r.AddMapping("weather", "weather_report")
	gotIntent, _ := r.Route("what's the weather like")
	if gotIntent != "weather_report" {
		t.Fatalf("after AddMapping: got %q, want %q", gotIntent, "weather_report")
	}

	// Duplicate keyword overwrites silently and keeps its position.
	r.AddMapping("weather", "forecast")
	gotIntent, _ = r.Route("what's the weather like")
	if gotIntent != "forecast" {
		t.Fatalf("after overwrite: got %q, want %q", gotIntent, "forecast")
	}

	r.RemoveMapping("weather")
	gotIntent, _ = r.Route("what's the weather like")
	if gotIntent != "" {
		t.Fatalf("after RemoveMapping: got %q, want none", gotIntent)
	}
}

func TestSupportedIntents(t *testing.T) {
	r := NewRouter()
	want := []string{SteamGame, OpenApp, SystemVolume}
	if got := r.SupportedIntents(); !reflect.DeepEqual(got, want) {
		t.Errorf("SupportedIntents: got %v, want %v", got, want)
	}
}

func TestNormalizeAppName_Fuzzy(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"calcolatrice", "calculator"}, // exact synonym
		{"calculater", "calculator"},   // STT near-miss
		{"firefx", "firefox"},          // dropped letter
		{"spotify", "spotify"},         // no close match: pass through
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAppName(tt.in); got != tt.want {
			t.Errorf("NormalizeAppName(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
