package templates

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ExcerptLength is the number of runes shown on post cards.
const ExcerptLength = 150

// Excerpt returns the first ExcerptLength runes of body, with an ellipsis
// when the body was cut.
func Excerpt(body string) string {
	if utf8.RuneCountInString(body) <= ExcerptLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:ExcerptLength]) + "..."
}

// Paragraphs splits body on newlines.
func Paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.Split(body, "\n")
}

// FormatDate renders t in the long localized form, in UTC.
func FormatDate(loc Localizer, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	month := T(loc, fmt.Sprintf("web.date.month_%02d", int(t.Month())))
	return T(loc, "web.date.long", month, t.Day(), t.Year(), t.Format("15:04"))
}
