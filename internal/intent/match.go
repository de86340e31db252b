package intent

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for remapping a
// near-miss app name onto a known synonym. High enough that unrelated names
// pass through untouched.
const fuzzyThreshold = 0.85

// appSynonyms maps spoken app names (including Italian and Spanish forms)
// to canonical keys understood by the open-app skill.
var appSynonyms = map[string]string{
	"calcolatrice": "calculator",
	"calculadora":  "calculator",
	"calc":         "calculator",
	"notepad":      "notepad",
	"blocco note":  "notepad",
	"browser":      "browser",
	"chrome":       "chrome",
	"firefox":      "firefox",
	"edge":         "edge",
}

// NormalizeAppName maps a spoken app name to its canonical form. Exact
// synonym hits win; otherwise a fuzzy pass absorbs STT mishears ("calculater"
// → "calculator"). Names without a close known match pass through unchanged,
// lowercased.
func NormalizeAppName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return name
	}
	if canonical, ok := appSynonyms[name]; ok {
		return canonical
	}

	best := ""
	bestScore := 0.0
	for synonym, canonical := range appSynonyms {
		for _, candidate := range []string{synonym, canonical} {
			if score := matchr.JaroWinkler(name, candidate, false); score > bestScore {
				bestScore = score
				best = canonical
			}
		}
	}
	if bestScore >= fuzzyThreshold {
		return best
	}
	return name
}
