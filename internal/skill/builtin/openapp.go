// Package builtin holds the skills that ship with the assistant: opening
// applications, controlling system volume and launching Steam games. Each
// skill simulates its side effects when invoked in mock mode.
package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/skill"
	"github.com/clarionvoice/clarion/internal/sysops"
)

// knownApps lists the canonical application names the launcher knows how to
// dispatch on at least one platform. Mock mode judges launches against this
// set so its answers mirror what a real run would do.
var knownApps = map[string]bool{
	"calculator": true,
	"notepad":    true,
	"browser":    true,
	"chrome":     true,
	"firefox":    true,
	"edge":       true,
	"terminal":   true,
	"files":      true,
	"steam":      true,
}

// OpenApp launches desktop applications by spoken name.
type OpenApp struct {
	launcher sysops.Launcher
}

var _ skill.Skill = (*OpenApp)(nil)

// NewOpenApp returns the open-app skill. launcher may be nil when the skill
// is only ever run in mock mode.
func NewOpenApp(launcher sysops.Launcher) *OpenApp {
	return &OpenApp{launcher: launcher}
}

func (s *OpenApp) Name() string        { return "open_app" }
func (s *OpenApp) Intents() []string   { return []string{intent.OpenApp} }
func (s *OpenApp) Description() string { return "Opens desktop applications by name" }

func (s *OpenApp) Help() string {
	return "Say \"open <application>\" or \"apri <applicazione>\", e.g. \"open calculator\" or \"apri calcolatrice\"."
}

func (s *OpenApp) ValidateEntities(intentName string, entities intent.Entities) error {
	name, _ := entities["app_name"].(string)
	if name == "" {
		return errors.New("app_name is required")
	}
	return nil
}

func (s *OpenApp) Handle(ctx context.Context, intentName string, entities intent.Entities, sc *skill.Context) (*skill.Result, error) {
	app, _ := entities["app_name"].(string)
	original, _ := entities["original_name"].(string)
	if original == "" {
		original = app
	}
	data := map[string]any{"app_name": app, "original_name": original, "mock": sc.Mock}

	if sc.Mock {
		if knownApps[app] {
			return skill.Ok(fmt.Sprintf("Would open %s (%s)", original, app), data), nil
		}
		return skill.Fail(fmt.Sprintf("Unknown application: %s", original), data), nil
	}

	if s.launcher == nil {
		return skill.Fail("Application launching is not available", data), nil
	}
	if s.launcher.Open(app) {
		return skill.Ok(fmt.Sprintf("Opening %s", original), data), nil
	}
	return skill.Fail(fmt.Sprintf("Could not open %s", original), data), nil
}
