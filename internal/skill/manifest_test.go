package skill

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const greeterManifest = `name: greeter
description: Greets the user
help: Say hello
intents:
  - name: greeting
    keywords: ["hello", "ciao"]
    response: "Hi! You said: {input}"
`

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "greeter.yaml", greeterManifest)

	ms, err := LoadManifest(filepath.Join(dir, "greeter.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if ms.Name() != "greeter" {
		t.Errorf("Name: got %q, want %q", ms.Name(), "greeter")
	}
	if got := ms.Intents(); len(got) != 1 || got[0] != "greeting" {
		t.Errorf("Intents: got %v, want [greeting]", got)
	}

	mappings := ms.KeywordMappings()
	if mappings["hello"] != "greeting" || mappings["ciao"] != "greeting" {
		t.Errorf("KeywordMappings: got %v", mappings)
	}
}

func TestManifestSkill_Handle(t *testing.T) {
	ms := NewManifestSkill(Manifest{
		Name: "echo",
		Intents: []ManifestIntent{
			{Name: "echoing", Keywords: []string{"echo"}, Response: "You said {input}, app is {app_name}"},
		},
	})

	res, err := ms.Handle(context.Background(), "echoing",
		map[string]any{"app_name": "calculator"}, &Context{UserInput: "echo test"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	want := "You said echo test, app is calculator"
	if res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
	if !res.Success || !res.Speak {
		t.Errorf("got Success=%v Speak=%v, want both true", res.Success, res.Speak)
	}
}

func TestLoadManifestDir_SkipsBroken(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "good.yaml", greeterManifest)
	writeManifest(t, dir, "broken.yaml", "name: [not a string\n")
	writeManifest(t, dir, "incomplete.yaml", "name: nothing-else\n")
	writeManifest(t, dir, "notes.txt", "not a manifest")

	skills, err := LoadManifestDir(dir)
	if err != nil {
		t.Fatalf("LoadManifestDir: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("loaded skills: got %d, want 1", len(skills))
	}
	if skills[0].Name() != "greeter" {
		t.Errorf("skill name: got %q, want %q", skills[0].Name(), "greeter")
	}
}

func TestLoadManifestDir_MissingDir(t *testing.T) {
	skills, err := LoadManifestDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if skills != nil {
		t.Errorf("got %v, want nil", skills)
	}
}

func TestManifest_Validate(t *testing.T) {
	m := Manifest{Intents: []ManifestIntent{{Name: ""}}}
	err := m.Validate()
	if err == nil {
		t.Fatal("Validate: got nil, want error")
	}
}

func TestLoadManifest_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "typo.yaml", `name: typo
intennts:
  - name: x
`)
	if _, err := LoadManifest(filepath.Join(dir, "typo.yaml")); err == nil {
		t.Fatal("unknown field should be rejected")
	}
}

func TestManifestSkill_CommandMock(t *testing.T) {
	ms := NewManifestSkill(Manifest{
		Name: "music",
		Intents: []ManifestIntent{
			{Name: "play_music", Keywords: []string{"play music"}, Command: []string{"mpv", "{app_name}"}},
		},
	})

	res, err := ms.Handle(context.Background(), "play_music",
		map[string]any{"app_name": "lofi.m3u"}, &Context{Mock: true})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if want := "Would run: mpv lofi.m3u"; res.Message != want {
		t.Errorf("Message: got %q, want %q", res.Message, want)
	}
	if res.Data["command"] != "mpv lofi.m3u" {
		t.Errorf("Data[command]: got %v", res.Data["command"])
	}
}

func TestManifestSkill_ResponseTakesPrecedenceOverCommandMessage(t *testing.T) {
	ms := NewManifestSkill(Manifest{
		Name: "music",
		Intents: []ManifestIntent{
			{Name: "play_music", Keywords: []string{"play"}, Response: "Starting the tunes", Command: []string{"mpv"}},
		},
	})

	res, err := ms.Handle(context.Background(), "play_music", nil, &Context{Mock: true})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Message != "Starting the tunes" {
		t.Errorf("Message: got %q, want the configured response", res.Message)
	}
}

func TestManifest_Validate_CommandOnlyIsValid(t *testing.T) {
	m := Manifest{
		Name: "launcher",
		Intents: []ManifestIntent{
			{Name: "launch", Keywords: []string{"launch it"}, Command: []string{"true"}},
		},
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
