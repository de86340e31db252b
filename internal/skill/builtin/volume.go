package builtin

import (
	"context"
	"fmt"
	"sync"

	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/skill"
	"github.com/clarionvoice/clarion/internal/sysops"
)

// defaultVolumeStep is how far "volume up"/"volume down" moves when no
// percentage is given.
const defaultVolumeStep = 10

// Volume gets and sets the system output volume. In mock mode it keeps a
// simulated level starting at 50 so repeated commands behave consistently
// within a session.
type Volume struct {
	control sysops.VolumeControl

	mu  sync.Mutex
	sim int
}

var _ skill.Skill = (*Volume)(nil)

// NewVolume returns the volume skill. control may be nil when the skill is
// only ever run in mock mode.
func NewVolume(control sysops.VolumeControl) *Volume {
	return &Volume{control: control, sim: 50}
}

func (s *Volume) Name() string        { return "system_volume" }
func (s *Volume) Intents() []string   { return []string{intent.SystemVolume} }
func (s *Volume) Description() string { return "Gets and sets the system output volume" }

func (s *Volume) Help() string {
	return "Say \"volume up\", \"volume down\", \"set volume to 75%\" or \"what is the volume\"."
}

func (s *Volume) ValidateEntities(intentName string, entities intent.Entities) error {
	return nil
}

func (s *Volume) Handle(ctx context.Context, intentName string, entities intent.Entities, sc *skill.Context) (*skill.Result, error) {
	action, _ := entities["action"].(string)
	percent, hasPercent := entities["volume_percent"].(int)

	switch action {
	case "get", "set", "increase", "decrease":
	default:
		return skill.Fail(fmt.Sprintf("Invalid volume action: %s", action), nil), nil
	}

	if sc.Mock {
		return s.handleMock(action, percent, hasPercent), nil
	}
	if s.control == nil {
		return skill.Fail("Volume control is not available", nil), nil
	}

	current, err := s.control.Get()
	if err != nil {
		return skill.Fail("Could not read the current volume", map[string]any{"error": err.Error()}), nil
	}

	switch action {
	case "get":
		return skill.Ok(fmt.Sprintf("The volume is at %d percent", current),
			map[string]any{"volume": current}), nil
	case "set":
		if !hasPercent {
			return skill.Fail("No volume level specified", nil), nil
		}
		return s.apply(current, clamp(percent)), nil
	case "increase":
		step := defaultVolumeStep
		if hasPercent {
			step = percent
		}
		return s.apply(current, clamp(current+step)), nil
	case "decrease":
		step := defaultVolumeStep
		if hasPercent {
			step = percent
		}
		return s.apply(current, clamp(current-step)), nil
	}
	return nil, fmt.Errorf("unhandled volume action %q", action)
}

// apply sets the real volume and formats the outcome.
func (s *Volume) apply(old, target int) *skill.Result {
	if err := s.control.Set(target); err != nil {
		return skill.Fail("Could not change the volume", map[string]any{"error": err.Error()})
	}
	return skill.Ok(fmt.Sprintf("Volume changed from %d to %d percent", old, target),
		map[string]any{"previous": old, "volume": target})
}

// handleMock mutates the simulated level instead of the OS mixer.
func (s *Volume) handleMock(action string, percent int, hasPercent bool) *skill.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case "get":
		return skill.Ok(fmt.Sprintf("The volume is at %d percent", s.sim),
			map[string]any{"volume": s.sim, "mock": true})
	case "set":
		if !hasPercent {
			return skill.Fail("No volume level specified", map[string]any{"mock": true})
		}
		old := s.sim
		s.sim = clamp(percent)
		return skill.Ok(fmt.Sprintf("Volume changed from %d to %d percent", old, s.sim),
			map[string]any{"previous": old, "volume": s.sim, "mock": true})
	case "increase", "decrease":
		step := defaultVolumeStep
		if hasPercent {
			step = percent
		}
		if action == "decrease" {
			step = -step
		}
		old := s.sim
		s.sim = clamp(s.sim + step)
		return skill.Ok(fmt.Sprintf("Volume changed from %d to %d percent", old, s.sim),
			map[string]any{"previous": old, "volume": s.sim, "mock": true})
	}
	return skill.Fail(fmt.Sprintf("Invalid volume action: %s", action), map[string]any{"mock": true})
}

// SimulatedVolume exposes the mock level for status reporting and tests.
func (s *Volume) SimulatedVolume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
