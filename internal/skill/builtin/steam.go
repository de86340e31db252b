package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/clarionvoice/clarion/internal/intent"
	"github.com/clarionvoice/clarion/internal/skill"
	"github.com/clarionvoice/clarion/internal/sysops"
)

// Steam launches games from the local Steam library, or the Steam client
// itself when no title is given.
type Steam struct {
	steam    sysops.SteamLauncher
	launcher sysops.Launcher
}

var _ skill.Skill = (*Steam)(nil)

// NewSteam returns the Steam skill. Either dependency may be nil when the
// skill is only ever run in mock mode.
func NewSteam(steam sysops.SteamLauncher, launcher sysops.Launcher) *Steam {
	return &Steam{steam: steam, launcher: launcher}
}

func (s *Steam) Name() string        { return "steam_game" }
func (s *Steam) Intents() []string   { return []string{intent.SteamGame} }
func (s *Steam) Description() string { return "Launches Steam games from the local library" }

func (s *Steam) Help() string {
	return "Say \"open steam <game>\" to launch a game, or just \"open steam\" for the client, e.g. \"apri steam portal 2\"."
}

func (s *Steam) ValidateEntities(intentName string, entities intent.Entities) error {
	// game_name may legitimately be empty: that means "open the client".
	return nil
}

func (s *Steam) Handle(ctx context.Context, intentName string, entities intent.Entities, sc *skill.Context) (*skill.Result, error) {
	game, _ := entities["game_name"].(string)
	game = strings.TrimSpace(game)
	data := map[string]any{"game_name": game, "mock": sc.Mock}

	if game == "" {
		return s.openClient(sc, data), nil
	}

	if sc.Mock {
		return skill.Ok(fmt.Sprintf("Would launch %s on Steam", game), data), nil
	}
	if s.steam == nil {
		return skill.Fail("Steam integration is not available", data), nil
	}

	if isNumeric(game) {
		if s.steam.LaunchByAppID(game) {
			return skill.Ok(fmt.Sprintf("Launching Steam app %s", game), data), nil
		}
		return skill.Fail(fmt.Sprintf("Could not launch Steam app %s", game), data), nil
	}
	if s.steam.LaunchByName(game) {
		return skill.Ok(fmt.Sprintf("Launching %s", game), data), nil
	}
	return skill.Fail(fmt.Sprintf("Could not find %s in your Steam library", game), data), nil
}

func (s *Steam) openClient(sc *skill.Context, data map[string]any) *skill.Result {
	if sc.Mock {
		return skill.Ok("Would open Steam", data)
	}
	if s.launcher == nil {
		return skill.Fail("Application launching is not available", data)
	}
	if s.launcher.Open("steam") {
		return skill.Ok("Opening Steam", data)
	}
	return skill.Fail("Could not open Steam", data)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
