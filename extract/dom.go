package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the cleaned text of the first node in s.
func Text(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return Clean(s.First().Text())
}

// Attr returns the trimmed attribute of the first node in s.
func Attr(s *goquery.Selection, name string) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	v, _ := s.First().Attr(name)
	return strings.TrimSpace(v)
}

// OwnTexts returns the non-empty direct text children of the first node in s,
// in document order.
func OwnTexts(s *goquery.Selection) []string {
	if s == nil || s.Length() == 0 {
		return nil
	}
	var out []string
	for c := s.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if t := strings.TrimSpace(c.Data); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// OwnText joins OwnTexts with single spaces.
func OwnText(s *goquery.Selection) string {
	return strings.Join(OwnTexts(s), " ")
}

// LastOwnText returns the last non-empty direct text child of the first node
// in s. For `<p><b>Адрес:</b> Москва</p>` it yields "Москва".
func LastOwnText(s *goquery.Selection) string {
	texts := OwnTexts(s)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

// FollowingText returns the first non-empty text node that follows the first
// node in s at the same level.
func FollowingText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	for n := s.Get(0).NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			continue
		}
		if t := strings.TrimSpace(n.Data); t != "" {
			return t
		}
	}
	return ""
}

// FollowingElementText returns the text of the first following sibling
// element matching selector.
func FollowingElementText(s *goquery.Selection, selector string) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return Text(s.First().NextAllFiltered(selector).First())
}

// Texts returns every non-empty descendant text node of s, trimmed, skipping
// script and style content.
func Texts(s *goquery.Selection) []string {
	var out []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for _, n := range s.Nodes {
		visit(n)
	}
	return out
}
