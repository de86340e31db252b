package builtin

import (
	"context"
	"errors"
	"testing"

	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/skill"
)

type fakeLauncher struct {
	opened []string
	ok     bool
}

func (l *fakeLauncher) Open(name string) bool {
	l.opened = append(l.opened, name)
	return l.ok
}

type fakeVolume struct {
	level  int
	getErr error
	setErr error
	sets   []int
}

func (v *fakeVolume) Get() (int, error) { return v.level, v.getErr }

func (v *fakeVolume) Set(percent int) error {
	if v.setErr != nil {
		return v.setErr
	}
	v.sets = append(v.sets, percent)
	v.level = percent
	return nil
}

type fakeSteam struct {
	byName  []string
	byAppID []string
	ok      bool
}

func (s *fakeSteam) LaunchByName(name string) bool {
	s.byName = append(s.byName, name)
	return s.ok
}

func (s *fakeSteam) LaunchByAppID(id string) bool {
	s.byAppID = append(s.byAppID, id)
	return s.ok
}

func handle(t *testing.T, s skill.Skill, intentName string, entities intent.Entities, mock bool) *skill.Result {
	t.Helper()
	res, err := s.Handle(context.Background(), intentName, entities, &skill.Context{Mock: mock})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Data == nil {
		t.Fatal("Data is nil")
	}
	return res
}

func TestOpenApp_Mock(t *testing.T) {
	s := NewOpenApp(nil)

	res := handle(t, s, intent.OpenApp,
		intent.Entities{"app_name": "calculator", "original_name": "calcolatrice"}, true)
	if !res.Success {
		t.Error("known app in mock mode should succeed")
	}
	if want := "Would open calcolatrice (calculator)"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
	if res.Data["app_name"] != "calculator" || res.Data["original_name"] != "calcolatrice" {
		t.Errorf("Data: got %v", res.Data)
	}

	res = handle(t, s, intent.OpenApp,
		intent.Entities{"app_name": "frobnicator", "original_name": "frobnicator"}, true)
	if res.Success {
		t.Error("unknown app in mock mode should fail")
	}
	if want := "Unknown application: frobnicator"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
}

func TestOpenApp_Real(t *testing.T) {
	l := &fakeLauncher{ok: true}
	s := NewOpenApp(l)

	res := handle(t, s, intent.OpenApp, intent.Entities{"app_name": "firefox", "original_name": "firefox"}, false)
	if !res.Success {
		t.Error("launch should succeed")
	}
	if len(l.opened) != 1 || l.opened[0] != "firefox" {
		t.Errorf("launcher calls: got %v, want [firefox]", l.opened)
	}

	l.ok = false
	res = handle(t, s, intent.OpenApp, intent.Entities{"app_name": "firefox", "original_name": "firefox"}, false)
	if res.Success {
		t.Error("failed dispatch should report failure")
	}
}

func TestOpenApp_ValidateEntities(t *testing.T) {
	s := NewOpenApp(nil)
	if err := s.ValidateEntities(intent.OpenApp, intent.Entities{}); err == nil {
		t.Error("missing app_name should be rejected")
	}
	if err := s.ValidateEntities(intent.OpenApp, intent.Entities{"app_name": "calculator"}); err != nil {
		t.Errorf("valid entities rejected: %v", err)
	}
}

func TestVolume_MockSequence(t *testing.T) {
	s := NewVolume(nil)

	// Simulated level starts at 50.
	res := handle(t, s, intent.SystemVolume, intent.Entities{"action": "get"}, true)
	if want := "The volume is at 50 percent"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}

	res = handle(t, s, intent.SystemVolume, intent.Entities{"action": "set", "volume_percent": 75}, true)
	if want := "Volume changed from 50 to 75 percent"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}

	res = handle(t, s, intent.SystemVolume, intent.Entities{"action": "increase"}, true)
	if res.Data["volume"] != 85 {
		t.Errorf("volume after increase: got %v, want 85", res.Data["volume"])
	}

	res = handle(t, s, intent.SystemVolume, intent.Entities{"action": "decrease"}, true)
	if res.Data["volume"] != 75 {
		t.Errorf("volume after decrease: got %v, want 75", res.Data["volume"])
	}
}

func TestVolume_MockClamps(t *testing.T) {
	s := NewVolume(nil)

	// Repeated increases saturate at 100 and stay there.
	for i := 0; i < 10; i++ {
		handle(t, s, intent.SystemVolume, intent.Entities{"action": "increase"}, true)
	}
	if got := s.SimulatedVolume(); got != 100 {
		t.Errorf("saturated volume: got %d, want 100", got)
	}

	for i := 0; i < 20; i++ {
		handle(t, s, intent.SystemVolume, intent.Entities{"action": "decrease"}, true)
	}
	if got := s.SimulatedVolume(); got != 0 {
		t.Errorf("floored volume: got %d, want 0", got)
	}

	res := handle(t, s, intent.SystemVolume, intent.Entities{"action": "set", "volume_percent": 250}, true)
	if s.SimulatedVolume() != 100 {
		t.Errorf("set above range: got %d, want 100", s.SimulatedVolume())
	}
	if !res.Success {
		t.Error("clamped set should still succeed")
	}
}

func TestVolume_InvalidAction(t *testing.T) {
	s := NewVolume(nil)

	// The default entity validation accepts everything; a bad action is a
	// failed result from Handle, not a validation rejection.
	if err := s.ValidateEntities(intent.SystemVolume, intent.Entities{"action": "explode"}); err != nil {
		t.Fatalf("ValidateEntities: %v", err)
	}

	res := handle(t, s, intent.SystemVolume, intent.Entities{"action": "explode"}, true)
	if res.Success {
		t.Error("invalid action should fail")
	}
	if want := "Invalid volume action: explode"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}

	res = handle(t, s, intent.SystemVolume, intent.Entities{"action": "explode"}, false)
	if res.Success {
		t.Error("invalid action should fail in real mode too")
	}
	if want := "Invalid volume action: explode"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
}

func TestVolume_MockSetWithoutLevel(t *testing.T) {
	s := NewVolume(nil)
	res := handle(t, s, intent.SystemVolume, intent.Entities{"action": "set"}, true)
	if res.Success {
		t.Error("set without a level should fail")
	}
}

func TestVolume_Real(t *testing.T) {
	v := &fakeVolume{level: 40}
	s := NewVolume(v)

	res := handle(t, s, intent.SystemVolume, intent.Entities{"action": "increase"}, false)
	if want := "Volume changed from 40 to 50 percent"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
	if len(v.sets) != 1 || v.sets[0] != 50 {
		t.Errorf("Set calls: got %v, want [50]", v.sets)
	}
}

func TestVolume_RealBackendFailure(t *testing.T) {
	v := &fakeVolume{getErr: errors.New("amixer missing")}
	s := NewVolume(v)

	res := handle(t, s, intent.SystemVolume, intent.Entities{"action": "get"}, false)
	if res.Success {
		t.Error("backend failure should produce a failed result, not an error")
	}
}

func TestSteam_Mock(t *testing.T) {
	s := NewSteam(nil, nil)

	res := handle(t, s, intent.SteamGame, intent.Entities{"game_name": "portal 2"}, true)
	if want := "Would launch portal 2 on Steam"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}

	res = handle(t, s, intent.SteamGame, intent.Entities{"game_name": ""}, true)
	if want := "Would open Steam"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
}

func TestSteam_Real(t *testing.T) {
	st := &fakeSteam{ok: true}
	l := &fakeLauncher{ok: true}
	s := NewSteam(st, l)

	handle(t, s, intent.SteamGame, intent.Entities{"game_name": "portal 2"}, false)
	if len(st.byName) != 1 || st.byName[0] != "portal 2" {
		t.Errorf("LaunchByName calls: got %v", st.byName)
	}

	handle(t, s, intent.SteamGame, intent.Entities{"game_name": "620"}, false)
	if len(st.byAppID) != 1 || st.byAppID[0] != "620" {
		t.Errorf("LaunchByAppID calls: got %v", st.byAppID)
	}

	handle(t, s, intent.SteamGame, intent.Entities{"game_name": ""}, false)
	if len(l.opened) != 1 || l.opened[0] != "steam" {
		t.Errorf("client open calls: got %v", l.opened)
	}

	st.ok = false
	res := handle(t, s, intent.SteamGame, intent.Entities{"game_name": "unknown game"}, false)
	if res.Success {
		t.Error("missing game should report failure")
	}
}
