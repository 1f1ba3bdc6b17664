package extract

import (
	"regexp"
	"strconv"
	"strings"
)

const coordNum = `(-?\d{1,3}\.\d+)`

// CoordinatePattern matches a "lat, lon" pair in free text.
var CoordinatePattern = regexp.MustCompile(coordNum + `[,\s]+` + coordNum)

// markupPatterns find coordinates inside raw page markup, mostly map widget
// initialisation code.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Placemark\(\s*\[\s*` + coordNum + `\s*,\s*` + coordNum + `\s*\]`),
	regexp.MustCompile(`center["']?\s*:\s*\[\s*` + coordNum + `\s*,\s*` + coordNum + `\s*\]`),
	regexp.MustCompile(`data-coord(?:s|inates)?=["']` + coordNum + `\s*,\s*` + coordNum + `["']`),
	regexp.MustCompile(`data-lat=["']` + coordNum + `["'][^>]*?data-lon=["']` + coordNum + `["']`),
}

var coordResidueRe = regexp.MustCompile(`[^\d.,\-\s]`)

// FormatCoordinates renders a pair in the canonical "lat,lon" form.
func FormatCoordinates(lat, lon string) string {
	return lat + "," + lon
}

// FindCoordinates returns the first plausible coordinate pair in text,
// formatted as "lat,lon".
func FindCoordinates(text string) (string, bool) {
	return findWith(text, CoordinatePattern)
}

// FindMarkupCoordinates tries the markup patterns in order against raw page
// source.
func FindMarkupCoordinates(markup string) (string, bool) {
	for _, re := range markupPatterns {
		if c, ok := findWith(markup, re); ok {
			return c, true
		}
	}
	return "", false
}

func findWith(text string, re *regexp.Regexp) (string, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if validPair(m[1], m[2]) {
			return FormatCoordinates(m[1], m[2]), true
		}
	}
	return "", false
}

func validPair(lat, lon string) bool {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return false
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil || lo < -180 || lo > 180 {
		return false
	}
	return true
}

// CleanCoordinates drops everything but digits, dots, commas, minus signs
// and whitespace, then trims.
func CleanCoordinates(coords string) string {
	return strings.TrimSpace(coordResidueRe.ReplaceAllString(coords, ""))
}
