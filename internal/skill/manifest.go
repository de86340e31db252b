package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clarionvoice/clarion/internal/intent"
)

// Manifest describes a declarative user skill loaded from a YAML file in the
// skills directory. Manifest skills map keywords to canned responses and need
// no code.
type Manifest struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Help        string           `yaml:"help"`
	Intents     []ManifestIntent `yaml:"intents"`
}

// ManifestIntent is one intent a manifest skill claims, with the keywords
// that should route to it and what to do: speak a canned response, run a
// command, or both.
type ManifestIntent struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`

	// Command is an argv to launch when the intent fires. The process is
	// started and not waited on. Placeholders are substituted like in
	// Response. In mock mode the command is reported, not run.
	Command []string `yaml:"command"`
}

// Validate checks the manifest and returns all problems found joined into a
// single error, or nil if the manifest is valid.
func (m *Manifest) Validate() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(m.Intents) == 0 {
		errs = append(errs, errors.New("at least one intent is required"))
	}
	for i, in := range m.Intents {
		if in.Name == "" {
			errs = append(errs, fmt.Errorf("intents[%d]: name must not be empty", i))
		}
		if len(in.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("intents[%d] (%s): at least one keyword is required", i, in.Name))
		}
		if in.Response == "" && len(in.Command) == 0 {
			errs = append(errs, fmt.Errorf("intents[%d] (%s): a response or a command is required", i, in.Name))
		}
	}
	return errors.Join(errs...)
}

// ManifestSkill adapts a [Manifest] to the [Skill] interface.
type ManifestSkill struct {
	manifest Manifest
	// byIntent indexes the manifest intents for dispatch.
	byIntent map[string]ManifestIntent
}

var _ Skill = (*ManifestSkill)(nil)

// NewManifestSkill wraps a validated manifest.
func NewManifestSkill(m Manifest) *ManifestSkill {
	byIntent := make(map[string]ManifestIntent, len(m.Intents))
	for _, in := range m.Intents {
		byIntent[in.Name] = in
	}
	return &ManifestSkill{manifest: m, byIntent: byIntent}
}

func (s *ManifestSkill) Name() string        { return s.manifest.Name }
func (s *ManifestSkill) Description() string { return s.manifest.Description }
func (s *ManifestSkill) Help() string        { return s.manifest.Help }

func (s *ManifestSkill) Intents() []string {
	out := make([]string, 0, len(s.manifest.Intents))
	for _, in := range s.manifest.Intents {
		out = append(out, in.Name)
	}
	return out
}

func (s *ManifestSkill) ValidateEntities(intentName string, entities intent.Entities) error {
	if _, ok := s.byIntent[intentName]; !ok {
		return fmt.Errorf("manifest skill %q does not declare intent %q", s.manifest.Name, intentName)
	}
	return nil
}

// Handle renders the intent's response template and starts its command, if
// any. Placeholders of the form {input} and {entity_key} are substituted
// from the invocation in both the response and the command argv.
func (s *ManifestSkill) Handle(ctx context.Context, intentName string, entities intent.Entities, sc *Context) (*Result, error) {
	in, ok := s.byIntent[intentName]
	if !ok {
		return nil, fmt.Errorf("unknown intent %q", intentName)
	}
	render := func(tmpl string) string {
		tmpl = strings.ReplaceAll(tmpl, "{input}", sc.UserInput)
		for k, v := range entities {
			tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", fmt.Sprint(v))
		}
		return tmpl
	}

	msg := render(in.Response)
	data := map[string]any{"skill": s.manifest.Name, "intent": intentName}

	if len(in.Command) > 0 {
		argv := make([]string, len(in.Command))
		for i, a := range in.Command {
			argv[i] = render(a)
		}
		data["command"] = strings.Join(argv, " ")
		if sc.Mock {
			if msg == "" {
				msg = fmt.Sprintf("Would run: %s", strings.Join(argv, " "))
			}
		} else {
			if err := s.run(argv); err != nil {
				return Fail(fmt.Sprintf("Could not run %s", argv[0]), data), nil
			}
			if msg == "" {
				msg = fmt.Sprintf("Running %s", argv[0])
			}
		}
	}
	return Ok(msg, data), nil
}

// run starts argv without waiting for it; manifest commands launch things,
// they do not capture output.
func (s *ManifestSkill) run(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// KeywordMappings returns the keyword→intent pairs the router needs so that
// utterances reach this skill.
func (s *ManifestSkill) KeywordMappings() map[string]string {
	out := make(map[string]string)
	for _, in := range s.manifest.Intents {
		for _, kw := range in.Keywords {
			out[kw] = in.Name
		}
	}
	return out
}

// DefaultManifestDir returns the per-user skills directory,
// <user config dir>/clarion/skills.
func DefaultManifestDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("skill: resolve config dir: %w", err)
	}
	return filepath.Join(base, "clarion", "skills"), nil
}

// LoadManifest reads and validates a single manifest file. Unknown YAML
// fields are rejected to catch typos in user-written manifests.
func LoadManifest(path string) (*ManifestSkill, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("skill: open manifest: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("skill: parse manifest %s: %w", filepath.Base(path), err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("skill: invalid manifest %s: %w", filepath.Base(path), err)
	}
	return NewManifestSkill(m), nil
}

// LoadManifestDir loads every *.yaml and *.yml manifest in dir. A missing
// directory is not an error. Broken manifests are logged and skipped so one
// bad user file cannot block the rest.
func LoadManifestDir(dir string) ([]*ManifestSkill, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("skill: read manifest dir: %w", err)
	}

	var skills []*ManifestSkill
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		ms, err := LoadManifest(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Warn("skill: skipping broken manifest", "file", e.Name(), "err", err)
			continue
		}
		skills = append(skills, ms)
	}
	return skills, nil
}
