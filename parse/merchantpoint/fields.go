package merchantpoint

import (
	"strings"

	"github.com/Nrich-sunny/merchantpoint/extract"
	"github.com/PuerkitoBio/goquery"
)

// Selectors shared by the listing and brand pages.
const (
	headingSel     = "h1.text-3xl, h1.text-4xl"
	descriptionSel = "div.description_brand, section#description div.prose"
	listingRowSel  = "table.finance-table tbody tr"
	codeCellSel    = "td:nth-of-type(1)"
	nameCellSel    = "td:nth-of-type(2)"
	linkCellSel    = "td:nth-of-type(2) a"
	addrCellSel    = "td:nth-of-type(3)"
)

// merchantRowSels are tried in order on a brand page.
var merchantRowSels = []string{
	"section#sms table.finance-table tbody tr",
	"table[class*=finance-table] tbody tr",
}

var nextPageStrategies = []extract.Strategy{
	href(`a:contains("Далее")`),
	href(`a:contains("Next")`),
	href(`a[rel=next]`),
	href(`.pagination .next a`),
	href(`a.next`),
}

var headingStrategies = []extract.Strategy{
	ownText(headingSel),
	ownText("h1"),
	extract.Selector("h1"),
}

var codeStrategies = []extract.Strategy{
	childText(`p:contains("MCC код")`, "a"),
	childText(`p:has(b:contains("MCC код"))`, "a"),
	followingText(`p:containsOwn("MCC")`),
	followingCell(`td:containsOwn("MCC")`, "td"),
}

var addressStrategies = []extract.Strategy{
	lastOwnText(`p:has(b:contains("Адрес"))`),
	followingText(`p:containsOwn("Адрес")`),
	followingCell(`div:containsOwn("Адрес")`, "div"),
	followingCell(`td:containsOwn("Адрес")`, "td"),
}

// coordinateStrategies covers labelled text and the map widget script.
// Raw markup patterns are added per page since they need the page source.
var coordinateStrategies = []extract.Strategy{
	coords(rawLastOwnText(`p:has(b:contains("Геокоординаты"))`)),
	coords(rawFollowingText(`p:containsOwn("Геокоординаты")`)),
	coords(ownText(`p:containsOwn("Геокоординаты")`)),
	scriptCoords(`script:contains("ymaps.Placemark")`),
}

// label drops the colon left between a label and its value.
func label(v string) string {
	return extract.Clean(strings.TrimLeft(extract.Clean(v), ":"))
}

func href(selector string) extract.Strategy {
	return func(doc *goquery.Document) string {
		return extract.Attr(doc.Find(selector).First(), "href")
	}
}

func ownText(selector string) extract.Strategy {
	return func(doc *goquery.Document) string {
		return extract.OwnText(doc.Find(selector).First())
	}
}

func childText(selector, child string) extract.Strategy {
	return func(doc *goquery.Document) string {
		return extract.Text(doc.Find(selector).First().ChildrenFiltered(child).First())
	}
}

func rawLastOwnText(selector string) extract.Strategy {
	return func(doc *goquery.Document) string {
		return extract.LastOwnText(doc.Find(selector).First())
	}
}

func lastOwnText(selector string) extract.Strategy {
	s := rawLastOwnText(selector)
	return func(doc *goquery.Document) string {
		return label(s(doc))
	}
}

func rawFollowingText(selector string) extract.Strategy {
	return func(doc *goquery.Document) string {
		return extract.FollowingText(doc.Find(selector).First())
	}
}

func followingText(selector string) extract.Strategy {
	s := rawFollowingText(selector)
	return func(doc *goquery.Document) string {
		return label(s(doc))
	}
}

func followingCell(selector, sibling string) extract.Strategy {
	return func(doc *goquery.Document) string {
		return label(extract.FollowingElementText(doc.Find(selector).First(), sibling))
	}
}

// coords keeps only a coordinate pair found in the text s yields.
func coords(s extract.Strategy) extract.Strategy {
	return func(doc *goquery.Document) string {
		c, _ := extract.FindCoordinates(s(doc))
		return c
	}
}

func scriptCoords(selector string) extract.Strategy {
	return func(doc *goquery.Document) string {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src := s.Text()
			if c, ok := extract.ScriptCoordinates(src); ok {
				found = c
				return false
			}
			if c, ok := extract.FindMarkupCoordinates(src); ok {
				found = c
				return false
			}
			return true
		})
		return found
	}
}

func markupCoords(body string) extract.Strategy {
	return func(*goquery.Document) string {
		c, _ := extract.FindMarkupCoordinates(body)
		return c
	}
}

// description joins the text nodes of the description blocks.
func description(doc *goquery.Document) string {
	return extract.Description(strings.Join(extract.Texts(doc.Find(descriptionSel)), " "))
}
