package collect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Nrich-sunny/merchantpoint/limiter"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrDisallowed = errors.New("disallowed by robots.txt")
	ErrStatus     = errors.New("unexpected status code")
)

// DefaultRetryHTTPCodes are the response codes retried by BrowserFetch.
var DefaultRetryHTTPCodes = []int{500, 502, 503, 504, 408, 429}

type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrStatus }

type Fetcher interface {
	Get(ctx context.Context, req *Request) ([]byte, error)
}

type ProxyFunc func(*http.Request) (*url.URL, error)

// BrowserFetch 模拟浏览器访问
type BrowserFetch struct {
	Timeout        time.Duration
	UserAgent      string
	Proxy          ProxyFunc
	RetryTimes     int
	RetryHTTPCodes []int
	Cache          *HTTPCache
	Robots         *Robots
	Logger         *zap.Logger
	// Client overrides the client built from Timeout and Proxy.
	Client *http.Client

	once   sync.Once
	client *http.Client
}

func (b *BrowserFetch) httpClient() *http.Client {
	b.once.Do(func() {
		if b.Client != nil {
			b.client = b.Client
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if b.Proxy != nil {
			transport.Proxy = b.Proxy
		}
		// 不设置 Jar，请求之间不保存 cookie
		b.client = &http.Client{
			Timeout:   b.Timeout,
			Transport: transport,
		}
	})
	return b.client
}

func (b *BrowserFetch) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func (b *BrowserFetch) Get(ctx context.Context, request *Request) ([]byte, error) {
	if b.Robots != nil {
		allowed, err := b.Robots.Allowed(ctx, request.URL)
		if err != nil {
			b.logger().Warn("robots.txt unavailable", zap.String("url", request.URL), zap.Error(err))
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", request.URL, ErrDisallowed)
		}
	}

	if b.Cache != nil && !request.Reload {
		if body, ok := b.Cache.Load(request.URL); ok {
			b.logger().Debug("cache hit", zap.String("url", request.URL))
			return body, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= b.RetryTimes; attempt++ {
		if attempt > 0 {
			b.logger().Info("retrying",
				zap.String("url", request.URL),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}
		if request.Task != nil && request.Task.Limit != nil {
			if err := request.Task.Limit.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, status, err := b.fetch(ctx, request)
		if err == nil {
			if b.Cache != nil {
				if err := b.Cache.Save(request.URL, body); err != nil {
					b.logger().Warn("cache save failed", zap.String("url", request.URL), zap.Error(err))
				}
			}
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil || !b.retryable(status) {
			break
		}
	}

	return nil, lastErr
}

// retryable reports whether a failed attempt should be repeated. Status 0
// means the request failed before a response arrived.
func (b *BrowserFetch) retryable(status int) bool {
	if status == 0 {
		return true
	}
	codes := b.RetryHTTPCodes
	if codes == nil {
		codes = DefaultRetryHTTPCodes
	}
	for _, c := range codes {
		if c == status {
			return true
		}
	}
	return false
}

func (b *BrowserFetch) fetch(ctx context.Context, request *Request) ([]byte, int, error) {
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, request.URL, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("get url failed: %w", err)
	}
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}
	if request.Task != nil && len(request.Task.Cookie) > 0 {
		req.Header.Set("Cookie", request.Task.Cookie)
	}

	start := time.Now()
	resp, err := b.httpClient().Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", request.URL, err)
	}
	defer resp.Body.Close()

	if request.Task != nil {
		if o, ok := request.Task.Limit.(limiter.Observer); ok {
			o.Observe(time.Since(start), resp.StatusCode)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, &StatusError{URL: request.URL, Code: resp.StatusCode}
	}

	body, err := DecodeBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", request.URL, err)
	}
	return body, resp.StatusCode, nil
}

// DecodeBody reads r and converts it to UTF-8.
func DecodeBody(r io.Reader, contentType string) ([]byte, error) {
	bodyReader := bufio.NewReader(r)
	e := DeterminEncoding(bodyReader, contentType)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())
	return io.ReadAll(utf8Reader)
}

func DeterminEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, contentType)
	return e
}
