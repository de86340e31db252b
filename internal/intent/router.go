// Package intent implements rule-based intent routing: a lowercased
// utterance is scanned against an ordered keyword table, and the first
// matching keyword selects the intent. Matching is plain substring search —
// not word-boundary aware — so a short keyword embedded in a longer word also
// matches. Mapping order is therefore part of the routing contract and is
// preserved as insertion order.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Built-in intent names. The set is open: callers register new keywords (and
// a skill declaring the intent) at runtime.
const (
	OpenApp      = "open_app"
	SystemVolume = "system_volume"
	SteamGame    = "steam_game"
)

// Entities carries the structured parameters extracted alongside an intent.
// The key set depends on the intent; values are strings or ints.
type Entities map[string]any

// mapping is one keyword→intent pair. Kept in a slice, not a map, because
// first-match-wins routing depends on iteration order.
type mapping struct {
	keyword string
	intent  string
}

// Router routes utterances to intents and extracts their entities.
// Router is not safe for concurrent mutation; register additional mappings
// before handing it to the voice loop.
type Router struct {
	mappings []mapping
}

// NewRouter returns a Router loaded with the default keyword table.
func NewRouter() *Router {
	r := &Router{}
	// Steam keywords precede the generic open-app triggers: "apri steam x"
	// must route to steam_game, not open_app.
	for _, m := range []mapping{
		{"apri steam", SteamGame},
		{"open steam", SteamGame},
		{"avvia steam", SteamGame},
		{"apri ", OpenApp},
		{"open ", OpenApp},
		{"launch ", OpenApp},
		{"start ", OpenApp},
		{"volume", SystemVolume},
		{"volumen", SystemVolume},
		{"volume ", SystemVolume},
		{"sound", SystemVolume},
	} {
		r.mappings = append(r.mappings, m)
	}
	return r
}

// Route maps text to an intent and its entities. It returns ("", {}) when no
// keyword matches; empty and whitespace-only input always misses.
func (r *Router) Route(text string) (string, Entities) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return "", Entities{}
	}

	intentName := ""
	for _, m := range r.mappings {
		if strings.Contains(lowered, strings.ToLower(m.keyword)) {
			intentName = m.intent
			break
		}
	}
	if intentName == "" {
		return "", Entities{}
	}

	return intentName, r.extractEntities(intentName, lowered)
}

// AddMapping registers keyword→intentName. A duplicate keyword silently
// overwrites the previous intent in place, keeping its position in the
// matching order.
func (r *Router) AddMapping(keyword, intentName string) {
	for i := range r.mappings {
		if r.mappings[i].keyword == keyword {
			r.mappings[i].intent = intentName
			return
		}
	}
	r.mappings = append(r.mappings, mapping{keyword: keyword, intent: intentName})
}

// RemoveMapping deletes the mapping for keyword if present.
func (r *Router) RemoveMapping(keyword string) {
	for i := range r.mappings {
		if r.mappings[i].keyword == keyword {
			r.mappings = append(r.mappings[:i], r.mappings[i+1:]...)
			return
		}
	}
}

// SupportedIntents returns the distinct intent names in the table, in first
// appearance order.
func (r *Router) SupportedIntents() []string {
	seen := make(map[string]bool, len(r.mappings))
	var out []string
	for _, m := range r.mappings {
		if !seen[m.intent] {
			seen[m.intent] = true
			out = append(out, m.intent)
		}
	}
	return out
}

// ── Entity extraction ────────────────────────────────────────────────────────

func (r *Router) extractEntities(intentName, text string) Entities {
	switch intentName {
	case OpenApp:
		return extractAppName(text)
	case SystemVolume:
		return extractVolumeInfo(text)
	case SteamGame:
		return extractSteamGame(text)
	}
	return Entities{}
}

// openAppTriggers are stripped from the utterance wherever they occur, not
// just at the start.
var openAppTriggers = []string{"apri ", "open ", "launch ", "start "}

func extractAppName(text string) Entities {
	for _, trigger := range openAppTriggers {
		text = strings.ReplaceAll(text, trigger, "")
	}
	original := strings.TrimSpace(text)
	return Entities{
		"app_name":      NormalizeAppName(original),
		"original_name": original,
	}
}

// volumeActions classifies the volume verb. Scan order matters: "set" wins
// over "up" in "set volume up to 80".
var volumeActions = []struct {
	action string
	words  []string
}{
	{"set", []string{"set", "change", "imposta", "cambia"}},
	{"get", []string{"get", "show", "mostra", "qual"}},
	{"increase", []string{"up", "increase", "su", "alza"}},
	{"decrease", []string{"down", "decrease", "giù", "abbassa"}},
}

var (
	percentRe = regexp.MustCompile(`(\d+)\s*%`)
	numberRe  = regexp.MustCompile(`\b(\d+)\b`)
)

func extractVolumeInfo(text string) Entities {
	entities := Entities{}

	action := "get"
	for _, class := range volumeActions {
		matched := false
		for _, w := range class.words {
			if strings.Contains(text, w) {
				matched = true
				break
			}
		}
		if matched {
			action = class.action
			break
		}
	}
	entities["action"] = action

	// An explicit "NN%" takes precedence; otherwise the first bare numeral
	// up to 100 is assumed to be a percentage.
	if m := percentRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			entities["volume_percent"] = n
		}
	} else if m := numberRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= 100 {
			entities["volume_percent"] = n
		}
	}

	return entities
}

func extractSteamGame(text string) Entities {
	// Residual after "steam" is the game title; empty means "open the Steam
	// client itself".
	game := ""
	if _, after, found := strings.Cut(text, "steam"); found {
		game = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(after), ":"))
	}
	return Entities{"game_name": game}
}
