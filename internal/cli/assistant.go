package cli

import (
	"log/slog"
	"sync"

	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/skill"
	"github.com/clarionvoice/clarion/internal/skill/builtin"
	"github.com/clarionvoice/clarion/internal/sysops"
)

func defaultSkillsDir() (string, error) {
	return skill.DefaultManifestDir()
}

// assistant bundles the router and skill registry and keeps manifest skills
// in sync with the skills directory.
type assistant struct {
	router   *intent.Router
	registry *skill.Registry
	dir      string

	mu               sync.Mutex
	manifestNames    []string
	manifestKeywords []string
}

// newAssistant wires the built-in skills and loads manifest skills from dir
// (when non-empty).
func newAssistant(dir string) *assistant {
	launcher := sysops.NewExecLauncher()

	registry := skill.NewRegistry()
	registry.Register(builtin.NewOpenApp(launcher))
	registry.Register(builtin.NewVolume(sysops.NewExecVolume()))
	registry.Register(builtin.NewSteam(sysops.NewSteam(), launcher))

	a := &assistant{
		router:   intent.NewRouter(),
		registry: registry,
		dir:      dir,
	}
	a.ReloadManifests()
	return a
}

// ReloadManifests re-scans the skills directory and swaps the manifest
// skills and their keyword mappings. Built-in skills are never touched.
func (a *assistant) ReloadManifests() {
	if a.dir == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, name := range a.manifestNames {
		a.registry.Unregister(name)
	}
	for _, kw := range a.manifestKeywords {
		a.router.RemoveMapping(kw)
	}
	a.manifestNames = nil
	a.manifestKeywords = nil

	manifests, err := skill.LoadManifestDir(a.dir)
	if err != nil {
		slog.Warn("manifest skills not loaded", "dir", a.dir, "err", err)
		return
	}
	for _, ms := range manifests {
		a.registry.Register(ms)
		a.manifestNames = append(a.manifestNames, ms.Name())
		for kw, intentName := range ms.KeywordMappings() {
			a.router.AddMapping(kw, intentName)
			a.manifestKeywords = append(a.manifestKeywords, kw)
		}
	}
	if len(manifests) > 0 {
		slog.Info("manifest skills loaded", "dir", a.dir, "count", len(manifests))
	}
}
