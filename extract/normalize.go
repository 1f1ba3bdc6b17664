package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLen is the rune limit applied to organization descriptions.
const MaxDescriptionLen = 500

const ellipsis = "..."

// decorChars are stripped from both ends of cleaned text: ASCII whitespace
// plus the dash glyphs the site uses as visual separators.
const decorChars = " \t\n\r\f\v-‐‑‒–—―−"

var tagRe = regexp.MustCompile(`<[^>]+>`)

// Collapse splits text on any whitespace and rejoins it with single spaces.
func Collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Clean collapses whitespace and trims decorative characters from both ends.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	return strings.Trim(Collapse(text), decorChars)
}

// StripTags removes markup residue such as "<br>" left inside text nodes.
// A single pass is made; a tag starts at the first "<" of a run.
func StripTags(text string) string {
	return tagRe.ReplaceAllString(text, "")
}

// Description normalizes free text and limits it to MaxDescriptionLen runes,
// marking a cut with a trailing ellipsis.
func Description(text string) string {
	return Truncate(Clean(StripTags(text)), MaxDescriptionLen)
}

// Truncate keeps at most limit runes. When text is cut, the last three kept
// runes are replaced with "...".
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	keep := limit - utf8.RuneCountInString(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + ellipsis
}
