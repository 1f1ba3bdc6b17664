package collect

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrMaxDepth = errors.New("max depth limit reached")

// Request 单个请求
type Request struct {
	Task     *Task
	URL      string
	Method   string
	Depth    int    // 该请求对应的深度
	Priority int    // 请求的优先级, 值越大优先级越高（目前只有两个优先级：0 和 大于0）
	RuleName string // 该请求对应的规则名
	Reload   bool   // 是否可以重复请求
	// Payload is handed unchanged to the rule that parses this request's page.
	// Rules store plain struct values here, never pointers.
	Payload interface{}
}

func (r *Request) Check() error {
	if r.Task != nil && r.Task.MaxDepth > 0 && r.Depth > r.Task.MaxDepth {
		return ErrMaxDepth
	}
	return nil
}

// Unique 请求的唯一标识码
func (r *Request) Unique() string {
	method := r.Method
	if method == "" {
		method = "GET"
	}
	block := md5.Sum([]byte(r.URL + method))
	return hex.EncodeToString(block[:])
}

// Follow builds a GET request one level below r for the given rule.
func (r *Request) Follow(link, ruleName string, payload interface{}) *Request {
	return &Request{
		Task:     r.Task,
		URL:      link,
		Method:   "GET",
		Depth:    r.Depth + 1,
		RuleName: ruleName,
		Payload:  payload,
	}
}

type Context struct {
	Body []byte
	Req  *Request

	doc *goquery.Document
}

// Document parses Body once and caches the result.
func (c *Context) Document() (*goquery.Document, error) {
	if c.doc != nil {
		return c.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(c.Body))
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(c.Req.URL); err == nil {
		doc.Url = u
	}
	c.doc = doc
	return doc, nil
}

// AbsURL resolves href against the request URL. It returns "" for empty,
// fragment-only and javascript: links.
func (c *Context) AbsURL(href string) string {
	return ResolveURL(c.Req.URL, href)
}

func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(u).String()
}
