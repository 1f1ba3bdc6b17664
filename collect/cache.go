package collect

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// HTTPCache stores response bodies on disk keyed by URL. An Expiration of
// zero keeps entries forever.
type HTTPCache struct {
	Dir        string
	Expiration time.Duration

	now func() time.Time
}

type cacheMeta struct {
	URL     string    `json:"url"`
	SavedAt time.Time `json:"saved_at"`
}

func NewHTTPCache(dir string, expiration time.Duration) *HTTPCache {
	return &HTTPCache{Dir: dir, Expiration: expiration, now: time.Now}
}

func (c *HTTPCache) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *HTTPCache) paths(url string) (body, meta string) {
	k := c.key(url)
	return filepath.Join(c.Dir, k+".body"), filepath.Join(c.Dir, k+".meta.json")
}

func (c *HTTPCache) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c *HTTPCache) Load(url string) ([]byte, bool) {
	bodyPath, metaPath := c.paths(url)
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, false
	}
	var meta cacheMeta
	if err := json.Unmarshal(raw, &meta); err != nil || meta.URL != url {
		return nil, false
	}
	if c.Expiration > 0 && c.clock().Sub(meta.SavedAt) > c.Expiration {
		return nil, false
	}
	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (c *HTTPCache) Save(url string, body []byte) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	bodyPath, metaPath := c.paths(url)
	if err := os.WriteFile(bodyPath, body, 0o644); err != nil {
		return err
	}
	raw, err := json.Marshal(cacheMeta{URL: url, SavedAt: c.clock()})
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath, raw, 0o644)
}
