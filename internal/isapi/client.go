package isapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// callTimeout is the fixed per-call timeout. A timed-out request surfaces as
// an ordinary transport failure; this layer does not distinguish the two.
const callTimeout = 30 * time.Second

// maxErrorBodyBytes limits how much of a non-200 response body is carried in
// the error message.
const maxErrorBodyBytes = 512

// sharedTransport is the keep-alive connection pool shared by every device
// client in the process.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 4,
	IdleConnTimeout:     90 * time.Second,
}

// Client issues requests against one device's ISAPI configuration endpoint.
//
// The base URL carries basic-auth credentials in the userinfo; net/http
// applies them to every request. The client holds no state across calls.
//
// Thread Safety:
//   - All methods are safe for concurrent use, though devices themselves do
//     not tolerate concurrent configuration requests; callers serialise
//     per-device configuration access (see the fanout package).
type Client struct {
	base string
	http *http.Client
}

// Response is the decoded result of a device call: an image payload when the
// response content type begins with "image/", otherwise a parsed XML
// document.
type Response struct {
	ContentType string
	Image       []byte
	Document    *Element
}

// IsImage reports whether the response carried an image payload.
func (r *Response) IsImage() bool {
	return r.Image != nil
}

// New creates a client for the device at address with the given credentials.
//
// The base endpoint is <scheme>://user:pass@address/ISAPI, matching the
// vendor's path layout.
func New(address, username, password string, useTLS bool) *Client {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}

	u := &url.URL{
		Scheme: scheme,
		Host:   address,
		Path:   "/ISAPI",
	}
	if username != "" {
		u.User = url.UserPassword(username, password)
	}

	return &Client{
		base: u.String(),
		http: &http.Client{
			Transport: sharedTransport,
			Timeout:   callTimeout,
		},
	}
}

// Host returns the device host without credentials, safe for logging.
func (c *Client) Host() string {
	u, err := url.Parse(c.base)
	if err != nil {
		return "unknown"
	}
	return u.Host
}

// Get issues a GET against the given ISAPI path (e.g. "/System/deviceInfo").
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Put serializes doc as XML and issues a PUT against the given ISAPI path.
// The vendor protocol updates settings with PUT of the full document.
func (c *Client) Put(ctx context.Context, path string, doc *Element) (*Response, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, &buf)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %s: status %d: %s",
			ErrRequestFailed, method, path, resp.StatusCode, truncate(data, maxErrorBodyBytes))
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return &Response{ContentType: contentType, Image: data}, nil
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Response{ContentType: contentType, Document: doc}, nil
}

// truncate clips an error body for inclusion in an error message.
func truncate(data []byte, n int) string {
	s := strings.TrimSpace(string(data))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
