package merchantpoint

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/Nrich-sunny/merchantpoint/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSite serves two listing pages, three brands and their merchants.
// /merchant/broken answers 500.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/brands": `<table class="finance-table"><tbody>
<tr><td>1</td><td><a href="/brand/1">Ромашка</a></td></tr>
<tr><td>2</td><td><a href="/brand/2">Лютик</a></td></tr>
</tbody></table><a href="/brands?page=2">Далее</a>`,
		"/brands?page=2": `<table class="finance-table"><tbody>
<tr><td>3</td><td><a href="/brand/3">Василёк</a></td></tr>
<tr><td>4</td><td><a href="/brand/1">Ромашка</a></td></tr>
</tbody></table>`,
		"/brand/1": `<h1 class="text-3xl">ООО Ромашка</h1>
<div class="description_brand">Продукты у дома</div>
<section id="sms"><table class="finance-table"><tbody>
<tr><td>5411</td><td><a href="/merchant/1">Ромашка №1</a></td><td>Москва</td></tr>
<tr><td>5411</td><td><a href="/merchant/2">Ромашка №2</a></td><td>Тверь</td></tr>
<tr><td>5411</td><td><a href="/merchant/broken">Ромашка №3</a></td><td>Тула</td></tr>
</tbody></table></section>`,
		"/brand/2": `<h1 class="text-3xl">ООО Лютик</h1>
<section id="sms"><table class="finance-table"><tbody>
<tr><td>5812</td><td>Cafe X</td><td>— Moscow, Main St 1 —</td></tr>
<tr><td>MCC</td><td><a href="/merchant/4">Лютик №1</a></td><td>Казань</td></tr>
</tbody></table></section>`,
		"/brand/3": `<h1 class="text-3xl">ИП Василёк</h1>
<div class="description_brand">` + strings.Repeat("очень длинное описание ", 40) + `</div>
<section id="sms"><table class="finance-table"><tbody>
<tr><td>7011</td><td><a href="/merchant/5">Василёк</a></td><td>Сочи</td></tr>
</tbody></table></section>`,
		"/merchant/1": `<h1 class="text-3xl">Ромашка №1</h1>
<p><b>MCC код:</b> <a>5411</a></p>
<p><b>Адрес:</b> г. Москва, ул. Ленина, 1</p>
<p><b>Геокоординаты:</b> 55.75, 37.61</p>`,
		"/merchant/2": `<h1 class="text-3xl">Ромашка №2</h1>`,
		"/merchant/4": `<h1 class="text-3xl">Лютик №1</h1><p><b>MCC код:</b> <a>неизвестно</a></p>`,
		"/merchant/5": `<h1 class="text-3xl">Василёк</h1>
<script>ymaps.ready(function () { new ymaps.Map("map", {center: [43.58, 39.72]}); });</script>`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/merchant/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := pages[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body>%s</body></html>", body)
	}))
}

func crawl(t *testing.T, srv *httptest.Server, maxItems int) ([]collector.MerchantRecord, *CrawlState) {
	t.Helper()
	mem := &collector.MemStore{}
	state := NewCrawlState(maxItems)
	task := NewTask(state,
		collect.WithURL(srv.URL+"/brands"),
		collect.WithStorage(collector.NewCleanPipeline(mem, nil)),
	)
	fetcher := &collect.BrowserFetch{RetryTimes: 1, Client: srv.Client()}

	e := engine.NewEngine(
		engine.WithFetcher(fetcher),
		engine.WithWorkCount(1),
		engine.WithSeeds([]*collect.Task{task}),
	)
	require.NoError(t, e.Run(context.Background()))
	return mem.Records(), state
}

var codeRe = regexp.MustCompile(`^\d{4}$`)

func TestCrawl_FullSite(t *testing.T) {
	srv := newSite(t)
	defer srv.Close()

	records, state := crawl(t, srv, 0)
	require.Len(t, records, 5)
	assert.Equal(t, 5, state.Count())

	byName := map[string]collector.MerchantRecord{}
	for _, r := range records {
		byName[r.MerchantName] = r
		assert.True(t, r.CategoryCode == "" || codeRe.MatchString(r.CategoryCode), r.CategoryCode)
		assert.LessOrEqual(t, len([]rune(r.OrgDescription)), 500)
	}

	r1 := byName["Ромашка №1"]
	assert.Equal(t, "5411", r1.CategoryCode)
	assert.Equal(t, "г. Москва, ул. Ленина, 1", r1.Address)
	assert.Equal(t, "55.75,37.61", r1.GeoCoordinates)
	assert.Equal(t, "ООО Ромашка", r1.OrgName)
	assert.Equal(t, "Продукты у дома", r1.OrgDescription)
	assert.Equal(t, srv.URL+"/merchant/1", r1.SourceURL)

	r2 := byName["Ромашка №2"]
	assert.Equal(t, "5411", r2.CategoryCode)
	assert.Equal(t, "Тверь", r2.Address)
	assert.Empty(t, r2.GeoCoordinates)

	cafe := byName["Cafe X"]
	assert.Equal(t, "5812", cafe.CategoryCode)
	assert.Equal(t, "Moscow, Main St 1", cafe.Address)
	assert.Equal(t, srv.URL+"/brand/2", cafe.SourceURL)

	assert.Empty(t, byName["Лютик №1"].CategoryCode)

	v := byName["Василёк"]
	assert.Equal(t, "43.58,39.72", v.GeoCoordinates)
	assert.True(t, strings.HasSuffix(v.OrgDescription, "..."))
	assert.Len(t, []rune(v.OrgDescription), 500)

	_, broken := byName["Ромашка №3"]
	assert.False(t, broken)
}

func TestCrawl_ItemCap(t *testing.T) {
	srv := newSite(t)
	defer srv.Close()

	for _, max := range []int{1, 2, 3} {
		records, state := crawl(t, srv, max)
		assert.Len(t, records, max)
		assert.Equal(t, max, state.Count())
	}
}
