// Package i18n defines the languages the application ships translations for.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	// PortugueseBrazil is the Brazilian Portuguese tag.
	PortugueseBrazil = language.MustParse("pt-BR")

	supported = []language.Tag{language.English, PortugueseBrazil}
	matcher   = language.NewMatcher(supported)
)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag returns the supported tag matching value exactly by base and
// region. Unknown or unsupported values report false.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return language.Und, false
	}
	return supported[index], true
}

// MatchTags picks the best supported tag for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}
