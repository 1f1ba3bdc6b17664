package extract

import (
	"regexp"
	"strings"
)

var (
	codeSearchRe = regexp.MustCompile(`\d{4}`)
	codeStrictRe = regexp.MustCompile(`^\d{4}$`)
)

// CategoryCode keeps the first run of four digits found in raw. When there is
// none the trimmed raw text is returned as is; ValidCategoryCode decides later
// whether it survives.
func CategoryCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if m := codeSearchRe.FindString(raw); m != "" {
		return m
	}
	return raw
}

// ValidCategoryCode reports whether code is exactly four ASCII digits.
func ValidCategoryCode(code string) bool {
	return codeStrictRe.MatchString(code)
}
