package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestFirst_OrderAndFallback(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1 class="title">  </h1>
		<h2>Кофейня  «Зерно»</h2>
	</body></html>`)

	var calls []string
	track := func(name string, s Strategy) Strategy {
		return func(d *goquery.Document) string {
			calls = append(calls, name)
			return s(d)
		}
	}

	got := First(doc, "fallback",
		track("h1", Selector("h1.title")),
		track("h2", Selector("h2")),
		track("h3", Selector("h3")),
	)
	assert.Equal(t, "Кофейня «Зерно»", got)
	assert.Equal(t, []string{"h1", "h2"}, calls, "strategies after the first hit must not run")

	assert.Equal(t, "из таблицы", First(doc, " из таблицы ", Selector("h3")))
	assert.Equal(t, "", First(doc, "", Selector("h3")))
	assert.Equal(t, "x", First(nil, "x", Selector("h1")))
}

func value(v string) Strategy {
	return func(*goquery.Document) string { return v }
}

func TestFirstRaw_KeepsText(t *testing.T) {
	doc := mustDoc(t, `<p>MCC код: 5812</p>`)
	got := FirstRaw(doc, "", func(d *goquery.Document) string { return d.Find("p").Text() })
	assert.Equal(t, "MCC код: 5812", got)
	assert.Equal(t, " raw ", FirstRaw(doc, " raw ", value("  ")))
}

func TestFirstMatch(t *testing.T) {
	doc := mustDoc(t, `<table class="finance-table big"><tbody><tr><td>1</td></tr><tr><td>2</td></tr></tbody></table>`)

	rows, idx := FirstMatch(doc, `section#sms table.finance-table tbody tr`, `table[class*="finance-table"] tbody tr`)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, rows.Length())

	rows, idx = FirstMatch(doc, `ul li`)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0, rows.Length())
}

func TestDOMHelpers(t *testing.T) {
	doc := mustDoc(t, `<div>
		<p id="addr"><b>Адрес торговой точки:</b> — г. Москва, ул. Тверская, 1 </p>
		<p id="mcc">MCC</p> 5812 <span>x</span>
		<table><tr><td id="label">Адрес</td><td>Казань</td><td>other</td></tr></table>
		<div id="desc">Первый <script>var x = 1;</script><b>второй</b><style>p{}</style> третий</div>
		<a id="link" href=" /brands/1 ">Бренд</a>
	</div>`)

	assert.Equal(t, "— г. Москва, ул. Тверская, 1", LastOwnText(doc.Find("#addr")))
	assert.Equal(t, []string{"— г. Москва, ул. Тверская, 1"}, OwnTexts(doc.Find("#addr")))
	assert.Equal(t, "5812", FollowingText(doc.Find("#mcc")))
	assert.Equal(t, "Казань", FollowingElementText(doc.Find("#label"), "td"))
	assert.Equal(t, []string{"Первый", "второй", "третий"}, Texts(doc.Find("#desc")))
	assert.Equal(t, "/brands/1", Attr(doc.Find("#link"), "href"))
	assert.Equal(t, "Бренд", Text(doc.Find("#link")))

	assert.Equal(t, "", LastOwnText(doc.Find("#missing")))
	assert.Equal(t, "", FollowingText(doc.Find("#missing")))
	assert.Equal(t, "", Attr(doc.Find("#missing"), "href"))
}
