package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// BrowserUserAgent is the desktop identity presented on every plain HTTP
// request. The target site serves 403s to anything that does not look like a
// regular browser, so the same identity is reused by the headless renderer.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// BrowserHeaders returns the fixed header set impersonating a desktop browser.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      BrowserUserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
		"Referer":         "https://www.google.com/",
	}
}

const (
	retryCount    = 2 // 3 attempts total
	retryWaitTime = 1 * time.Second
	retryMaxWait  = 8 * time.Second
)

// retryStatusCodes are the transient responses worth another attempt. Exhausted
// retries do not turn into an error; callers inspect the final status.
var retryStatusCodes = map[int]bool{
	http.StatusForbidden:           true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a RestyClient with the specified timeout, carrying
// the browser identity headers and the bounded retry policy. This is the
// client every site-facing strategy shares.
func NewRestyClient(timeout time.Duration) *RestyClient {
	c := newRestyBaseClient(timeout)
	c.SetHeaders(BrowserHeaders())
	c.SetRetryCount(retryCount)
	c.SetRetryWaitTime(retryWaitTime)
	c.SetRetryMaxWaitTime(retryMaxWait)
	c.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r != nil && retryStatusCodes[r.StatusCode()]
	})
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a plainly configured resty.Client for callers
// needing custom verbs (notifier sinks); no impersonation, no retry.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
// Per-call headers override the client-level browser identity.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
