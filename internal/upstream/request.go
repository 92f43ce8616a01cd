package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/young1lin/ydc-mcp/internal/toolerr"
)

const maxResponseBytes = 32 << 20

// Outbound is a fully specified upstream request. It is built fresh for
// every invocation and never reused.
type Outbound struct {
	Capability Capability
	Method     string
	URL        string
	Header     http.Header
	Body       []byte

	authHeader string
}

// RedactedHeader returns a copy of the headers that is safe to log.
func (o *Outbound) RedactedHeader() http.Header {
	h := o.Header.Clone()
	if o.authHeader != "" && h.Get(o.authHeader) != "" {
		h.Set(o.authHeader, "[REDACTED]")
	}
	return h
}

// NewHTTPRequest materializes the outbound request.
func (o *Outbound) NewHTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if o.Body != nil {
		body = bytes.NewReader(o.Body)
	}
	req, err := http.NewRequestWithContext(ctx, o.Method, o.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = o.Header.Clone()
	return req, nil
}

// newOutbound signs a request for ep. A missing credential fails here, before
// anything touches the network.
func newOutbound(ep Endpoint, id Identity, target string, body []byte) (*Outbound, error) {
	if strings.TrimSpace(id.APIKey) == "" {
		return nil, toolerr.New(toolerr.MissingCredential,
			"YDC_API_KEY is required. Set it in the environment or send it as a Bearer token.")
	}

	h := make(http.Header)
	ep.Auth.Apply(h, id.APIKey)
	h.Set("User-Agent", id.UserAgent)
	if body != nil {
		h.Set("Content-Type", "application/json")
		h.Set("Accept", "application/json")
	}

	return &Outbound{
		Capability: ep.Capability,
		Method:     ep.Method,
		URL:        target,
		Header:     h,
		Body:       body,
		authHeader: ep.Auth.Header,
	}, nil
}

// Raw is the upstream status plus an uninterpreted body.
type Raw struct {
	Status int
	Body   []byte
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs exactly one round trip per call. It does not retry.
type Client struct {
	doer    Doer
	timeout time.Duration
	maxBody int64
}

// NewClient creates a client. timeout <= 0 leaves the transport default in place.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		doer: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// keep the credential from following a redirect off-host
				if len(via) > 0 && req.URL.Host != via[0].URL.Host {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		timeout: timeout,
		maxBody: maxResponseBytes,
	}
}

// NewClientWithDoer wraps an existing Doer, mostly for tests.
func NewClientWithDoer(d Doer, timeout time.Duration) *Client {
	return &Client{doer: d, timeout: timeout, maxBody: maxResponseBytes}
}

// RoundTrip sends o and reads the whole body. The request is detached from
// the caller's cancellation: an abandoned caller leaves the call to finish.
func (c *Client) RoundTrip(ctx context.Context, o *Outbound) (*Raw, error) {
	ctx = context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := o.NewHTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		e := toolerr.Newf(toolerr.MalformedResponse,
			"Unexpected response from You.com %s API: response too large (over %d bytes)", o.Capability.Label(), c.maxBody)
		e.Status = resp.StatusCode
		return nil, e
	}

	return &Raw{Status: resp.StatusCode, Body: body}, nil
}
