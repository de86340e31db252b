// Package i18n provides the assistant's user-facing phrase tables.
//
// Locales are YAML files embedded at build time. Lookup falls back to
// English for keys missing from the selected locale, and to the key itself
// when no table has it, so a missing translation degrades to something
// greppable rather than an empty spoken string.
package i18n

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is used when the requested locale has no table.
const DefaultLanguage = "en"

// Translator resolves phrase keys for one language.
type Translator struct {
	lang     string
	table    map[string]string
	fallback map[string]string
}

// Load reads the embedded phrase table for lang. An unknown language is not
// an error; the translator simply answers from the English table.
func Load(lang string) (*Translator, error) {
	fallback, err := loadTable(DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n: load fallback table: %w", err)
	}

	table, err := loadTable(lang)
	if err != nil {
		table = fallback
	}

	return &Translator{lang: lang, table: table, fallback: fallback}, nil
}

func loadTable(lang string) (map[string]string, error) {
	raw, err := localeFS.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, err
	}
	table := map[string]string{}
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("i18n: parse locale %q: %w", lang, err)
	}
	return table, nil
}

// Language returns the language the translator was loaded for.
func (t *Translator) Language() string {
	return t.lang
}

// T resolves key to a phrase, falling back to English and then to the key.
func (t *Translator) T(key string) string {
	if s, ok := t.table[key]; ok {
		return s
	}
	if s, ok := t.fallback[key]; ok {
		return s
	}
	return key
}
