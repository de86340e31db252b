package skill

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/clarionvoice/clarion/internal/intent"
)

// Registry holds skills and dispatches intents to them. It is safe for
// concurrent use; registration normally happens at startup but the skills
// directory watcher may swap manifest skills in at runtime.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Skill
	byIntent map[string]Skill
	order    []string // registration order of skill names
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]Skill),
		byIntent: make(map[string]Skill),
	}
}

// Register adds s and claims all its intents. An intent already claimed by
// another skill is taken over with a warning; the last registration wins.
func (r *Registry) Register(s Skill) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = s

	for _, in := range s.Intents() {
		if prev, ok := r.byIntent[in]; ok && prev.Name() != name {
			slog.Warn("skill registry: intent reassigned",
				"intent", in, "from", prev.Name(), "to", name)
		}
		r.byIntent[in] = s
	}
}

// Unregister removes the skill named name and releases its intents. Intents
// that were reassigned to another skill afterwards are left untouched.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byName[name]
	if !ok {
		return
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for _, in := range s.Intents() {
		if r.byIntent[in] == s {
			delete(r.byIntent, in)
		}
	}
}

// Execute dispatches intentName to its skill and returns the outcome.
// It returns nil when no skill claims the intent. Entity validation
// failures, handler errors and handler panics all produce a failed [Result]
// rather than propagating: one broken skill must not stop the loop.
func (r *Registry) Execute(ctx context.Context, intentName string, entities intent.Entities, sc *Context) *Result {
	r.mu.RLock()
	s, ok := r.byIntent[intentName]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if sc == nil {
		sc = &Context{}
	}
	if entities == nil {
		entities = intent.Entities{}
	}

	if err := s.ValidateEntities(intentName, entities); err != nil {
		slog.Warn("skill registry: entity validation failed",
			"skill", s.Name(), "intent", intentName, "err", err)
		return Fail(fmt.Sprintf("Invalid entities for intent '%s'", intentName),
			map[string]any{"error": err.Error()})
	}

	res, err := r.handle(ctx, s, intentName, entities, sc)
	if err != nil {
		slog.Error("skill registry: execution failed", "skill", s.Name(),
			"intent", intentName, "err", err)
		return Fail(fmt.Sprintf("Error executing skill '%s'", s.Name()),
			map[string]any{"error": err.Error()})
	}
	if res == nil {
		res = Fail(fmt.Sprintf("Skill '%s' produced no result", s.Name()), nil)
	}
	if res.Data == nil {
		res.Data = map[string]any{}
	}
	return res
}

// handle invokes the skill with panic isolation.
func (r *Registry) handle(ctx context.Context, s Skill, intentName string, entities intent.Entities, sc *Context) (res *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = &ExecutionError{Skill: s.Name(), Intent: intentName, Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()
	res, err = s.Handle(ctx, intentName, entities, sc)
	if err != nil {
		return nil, &ExecutionError{Skill: s.Name(), Intent: intentName, Cause: err}
	}
	return res, nil
}

// ByName returns the skill registered under name.
func (r *Registry) ByName(name string) (Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// All returns the registered skills in registration order.
func (r *Registry) All() []Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Skill, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// SupportedIntents returns all claimed intent names, sorted.
func (r *Registry) SupportedIntents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byIntent))
	for in := range r.byIntent {
		out = append(out, in)
	}
	sort.Strings(out)
	return out
}

// Info is a serializable summary of one registered skill.
type Info struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Intents     []string `json:"intents" yaml:"intents"`
	Help        string   `json:"help" yaml:"help"`
}

// Infos returns summaries for every registered skill in registration order.
func (r *Registry) Infos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		s := r.byName[name]
		out = append(out, Info{
			Name:        s.Name(),
			Description: s.Description(),
			Intents:     s.Intents(),
			Help:        s.Help(),
		})
	}
	return out
}
