package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// Robots caches one robots.txt group per host.
type Robots struct {
	UserAgent string
	Client    *http.Client

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

func NewRobots(userAgent string, client *http.Client) *Robots {
	if client == nil {
		client = http.DefaultClient
	}
	return &Robots{
		UserAgent: userAgent,
		Client:    client,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched. When robots.txt cannot be
// retrieved the URL is allowed and the error is returned for logging.
func (r *Robots) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, err
	}
	host := u.Scheme + "://" + u.Host

	r.mu.Lock()
	group, ok := r.groups[host]
	r.mu.Unlock()

	if !ok {
		group, err = r.fetch(ctx, host)
		r.mu.Lock()
		r.groups[host] = group
		r.mu.Unlock()
		if err != nil {
			return true, err
		}
	}
	if group == nil {
		return true, nil
	}
	return group.Test(u.RequestURI()), nil
}

func (r *Robots) fetch(ctx context.Context, host string) (*robotstxt.Group, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", host, err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", host, err)
	}
	return data.FindGroup(r.UserAgent), nil
}
