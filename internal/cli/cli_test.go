package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `language: en
providers:
  hotword:
    name: mock
  stt:
    name: mock
  tts:
    name: mock
memory:
  disabled: true
skills:
  watch: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListen_TestUtterance(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCommand(t,
		"--config", cfg, "--mock", "--skills-dir", t.TempDir(),
		"listen", "--test-utterance", "apri calcolatrice")
	if err != nil {
		t.Fatalf("listen --test-utterance: %v\n%s", err, out)
	}

	var record struct {
		Intent   string         `json:"intent"`
		Success  bool           `json:"success"`
		Message  string         `json:"message"`
		Entities map[string]any `json:"entities"`
	}
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if record.Intent != "open_app" || !record.Success {
		t.Errorf("record: got %+v", record)
	}
	if !strings.Contains(record.Message, "calculator") {
		t.Errorf("message: got %q", record.Message)
	}
}

func TestListen_TestUtteranceNoIntent(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCommand(t,
		"--config", cfg, "--mock", "--skills-dir", t.TempDir(),
		"listen", "--test-utterance", "complete gibberish")
	if err != nil {
		t.Fatalf("listen: %v\n%s", err, out)
	}

	var record struct {
		Intent  string `json:"intent"`
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if record.Intent != "" || record.Success {
		t.Errorf("record: got %+v", record)
	}
	if record.Message != "No intent found" {
		t.Errorf("message: got %q, want %q", record.Message, "No intent found")
	}
}

func TestSkills_JSON(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCommand(t, "--config", cfg, "--skills-dir", t.TempDir(), "skills", "--json")
	if err != nil {
		t.Fatalf("skills: %v\n%s", err, out)
	}

	var infos []struct {
		Name    string   `json:"name"`
		Intents []string `json:"intents"`
	}
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(infos) != 3 {
		t.Fatalf("skills: got %d, want 3 built-ins", len(infos))
	}
	names := map[string]bool{}
	for _, info := range infos {
		names[info.Name] = true
	}
	for _, want := range []string{"open_app", "system_volume", "steam_game"} {
		if !names[want] {
			t.Errorf("skill %q missing from %v", want, names)
		}
	}
}

func TestSkills_ManifestLoaded(t *testing.T) {
	cfg := writeTestConfig(t)
	dir := t.TempDir()
	manifest := `name: greeter
description: Greets the user
intents:
  - name: greeting
    keywords: ["hello"]
    response: "Hi!"
`
	if err := os.WriteFile(filepath.Join(dir, "greeter.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", cfg, "--skills-dir", dir, "skills", "--json")
	if err != nil {
		t.Fatalf("skills: %v\n%s", err, out)
	}
	if !strings.Contains(out, "greeter") {
		t.Errorf("manifest skill missing from output:\n%s", out)
	}
}

func TestStatus_JSON(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCommand(t, "--config", cfg, "--mock", "--skills-dir", t.TempDir(), "status", "--json")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}

	var info statusInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !info.Mock {
		t.Error("Mock: got false, want true")
	}
	if len(info.SupportedIntents) != 3 {
		t.Errorf("SupportedIntents: got %v", info.SupportedIntents)
	}
}

func TestDoctor_Mock(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCommand(t, "--config", cfg, "--mock", "--skills-dir", t.TempDir(), "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "self test") {
		t.Errorf("doctor output missing self test:\n%s", out)
	}
}

func TestSay_Mock(t *testing.T) {
	cfg := writeTestConfig(t)
	out, err := runCommand(t, "--config", cfg, "--mock", "say", "open", "calculator")
	if err != nil {
		t.Fatalf("say: %v\n%s", err, out)
	}
	if !strings.Contains(out, "open_app") {
		t.Errorf("say output missing intent:\n%s", out)
	}
	if !strings.Contains(out, "Would open calculator (calculator)") {
		t.Errorf("say output missing skill message:\n%s", out)
	}
}

func TestSay_NoIntentExitsNonZero(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := runCommand(t, "--config", cfg, "--mock", "say", "gibberish"); err == nil {
		t.Fatal("unroutable utterance: got nil, want error")
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	if _, err := runCommand(t, "frobnicate"); err == nil {
		t.Fatal("unknown command: got nil, want error")
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	o := &rootOptions{configPath: filepath.Join(t.TempDir(), "nope.yaml")}
	if _, err := o.loadConfig(); err == nil {
		t.Fatal("missing explicit config: got nil, want error")
	}
}
