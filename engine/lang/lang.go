// Package lang maps between BCP 47 language tags and the language ids stored
// in creature records, and clamps ids to what each generation supports.
package lang

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/nathoo/encounterdex/types"
)

// supported lists the record languages in matcher preference order.
var supported = []struct {
	tag language.Tag
	id  types.LanguageID
}{
	{language.English, types.English},
	{language.Japanese, types.Japanese},
	{language.French, types.French},
	{language.Italian, types.Italian},
	{language.German, types.German},
	{language.Spanish, types.Spanish},
	{language.Korean, types.Korean},
	{language.SimplifiedChinese, types.ChineseSimple},
	{language.TraditionalChinese, types.ChineseTrad},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}
	return language.NewMatcher(tags)
}()

// FromTag returns the record language closest to tag. Tags with no
// reasonable match fall back to English.
func FromTag(tag language.Tag) types.LanguageID {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return types.English
	}
	return supported[idx].id
}

// Parse parses a BCP 47 string such as "de-DE" or "zh-Hant" into a record
// language.
func Parse(s string) (types.LanguageID, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("parse language %q: %w", s, err)
	}
	return FromTag(tag), nil
}

// Tag returns the canonical tag for id, or und for ids without one.
func Tag(id types.LanguageID) language.Tag {
	for _, s := range supported {
		if s.id == id {
			return s.tag
		}
	}
	return language.Und
}

// Valid reports whether generation gen could store id.
func Valid(gen int, id types.LanguageID) bool {
	switch id {
	case types.Japanese, types.English, types.French, types.Italian, types.German, types.Spanish:
		return true
	case types.Korean:
		return gen == 2 || gen >= 4
	case types.ChineseSimple, types.ChineseTrad:
		return gen >= 7
	default:
		return false
	}
}

// Safe clamps id to a language generation gen can store. Unsupported ids
// become English.
func Safe(gen int, id types.LanguageID) types.LanguageID {
	if Valid(gen, id) {
		return id
	}
	return types.English
}
