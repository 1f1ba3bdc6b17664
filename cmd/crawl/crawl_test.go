package crawl

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSite() *httptest.Server {
	pages := map[string]string{
		"/robots.txt": "User-agent: *\nDisallow: /merchant/private\n",
		"/brands": `<table class="finance-table"><tbody>
<tr><td>1</td><td><a href="/brand/1">Ромашка</a></td></tr>
</tbody></table>`,
		"/brand/1": `<h1 class="text-3xl">ООО Ромашка</h1>
<div class="description_brand">Продукты</div>
<section id="sms"><table class="finance-table"><tbody>
<tr><td>5411</td><td><a href="/merchant/1">Ромашка №1</a></td><td>Москва</td></tr>
<tr><td>5411</td><td><a href="/merchant/private">Скрытая</a></td><td>Тула</td></tr>
<tr><td>5812</td><td>Cafe X</td><td>— Moscow, Main St 1 —</td></tr>
</tbody></table></section>`,
		"/merchant/1": `<h1 class="text-3xl">Ромашка №1</h1>
<p><b>Геокоординаты:</b> 55.75, 37.61</p>`,
		"/merchant/private": `<h1 class="text-3xl">Скрытая</h1>`,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, body)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body>%s</body></html>", body)
	}))
}

func TestRun_WritesCSV(t *testing.T) {
	srv := newTestSite()
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "merchants.csv")
	path := writeConfig(t, fmt.Sprintf(`
logLevel = "ERROR"

[fetcher]
timeout = 5000
retryTimes = 0
obeyRobots = true

[cache]
enabled = false

[throttle]
downloadDelay = 0
randomize = false
autoThrottle = false

[output]
file = '%s'
format = "csv"

[[Tasks]]
Name = "merchantpoint"
URL = "http://127.0.0.1:1/brands"
MaxItems = 100
Fetcher = "browser"
`, out))

	err := Run(context.Background(), Flags{
		ConfigPath:     path,
		ConfigRequired: true,
		URL:            srv.URL + "/brands",
	})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, collector.Columns, rows[0])

	byName := map[string][]string{}
	for _, row := range rows[1:] {
		byName[row[0]] = row
	}
	assert.Equal(t, []string{
		"Ромашка №1", "5411", "Москва", "55.75,37.61", "ООО Ромашка", "Продукты", srv.URL + "/merchant/1",
	}, byName["Ромашка №1"])
	assert.Equal(t, []string{
		"Cafe X", "5812", "Moscow, Main St 1", "", "ООО Ромашка", "Продукты", srv.URL + "/brand/1",
	}, byName["Cafe X"])
	assert.NotContains(t, byName, "Скрытая")
}

func TestRun_MaxItemsFlag(t *testing.T) {
	srv := newTestSite()
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "merchants.xlsx")
	path := writeConfig(t, `
logLevel = "ERROR"
[cache]
enabled = false
[throttle]
downloadDelay = 0
randomize = false
autoThrottle = false
`)

	err := Run(context.Background(), Flags{
		ConfigPath:  path,
		URL:         srv.URL + "/brands",
		MaxItems:    1,
		MaxItemsSet: true,
		Output:      out,
		Format:      "xlsx",
	})
	require.NoError(t, err)
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestRun_BadConfig(t *testing.T) {
	err := Run(context.Background(), Flags{
		ConfigPath:     filepath.Join(t.TempDir(), "missing.toml"),
		ConfigRequired: true,
	})
	assert.Error(t, err)
}
