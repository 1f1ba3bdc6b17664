package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of locating a field in a document. It returns an empty
// string when the field is not found.
type Strategy func(doc *goquery.Document) string

// First applies strategies in order and returns the first result that is
// non-empty after Clean. If every strategy comes up empty, fallback is
// returned cleaned.
func First(doc *goquery.Document, fallback string, strategies ...Strategy) string {
	if doc != nil {
		for _, s := range strategies {
			if v := Clean(s(doc)); v != "" {
				return v
			}
		}
	}
	return Clean(fallback)
}

// FirstRaw is First without cleaning, for fields that are post-processed by
// their own normalizer.
func FirstRaw(doc *goquery.Document, fallback string, strategies ...Strategy) string {
	if doc != nil {
		for _, s := range strategies {
			if v := s(doc); Clean(v) != "" {
				return v
			}
		}
	}
	return fallback
}

// FirstMatch returns the selection of the first selector that matches at
// least one node, with its index in selectors. When nothing matches it
// returns an empty selection and -1.
func FirstMatch(doc *goquery.Document, selectors ...string) (*goquery.Selection, int) {
	for i, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s, i
		}
	}
	return doc.Selection.Slice(0, 0), -1
}

// Selector builds a Strategy returning the cleaned text of the first match.
func Selector(selector string) Strategy {
	return func(doc *goquery.Document) string {
		return Text(doc.Find(selector).First())
	}
}
