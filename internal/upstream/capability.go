package upstream

import (
	"net/http"

	"github.com/young1lin/ydc-mcp/internal/config"
)

// Capability identifies one upstream integration.
type Capability string

const (
	Search   Capability = "search"
	Contents Capability = "contents"
	Express  Capability = "express"
)

// Label is the human name used in messages.
func (c Capability) Label() string {
	switch c {
	case Search:
		return "Search"
	case Contents:
		return "Contents"
	case Express:
		return "Express agent"
	default:
		return string(c)
	}
}

// AuthScheme says how a capability carries the credential. Search and
// Contents send the raw key in X-API-Key; the agent API expects a Bearer
// token in Authorization. Keep them separate per capability.
type AuthScheme struct {
	Header string
	Scheme string
}

// Apply sets the credential header on h.
func (a AuthScheme) Apply(h http.Header, key string) {
	if a.Scheme == "" {
		h.Set(a.Header, key)
		return
	}
	h.Set(a.Header, a.Scheme+" "+key)
}

// Endpoint is one row of the capability table.
type Endpoint struct {
	Capability Capability
	Method     string
	URL        string
	Auth       AuthScheme
}

// Endpoints is the capability-indexed endpoint table.
type Endpoints map[Capability]Endpoint

// NewEndpoints builds the table from configuration. Methods are fixed by the
// upstream APIs; URLs and auth headers are configurable.
func NewEndpoints(cfg *config.UpstreamConfig) Endpoints {
	row := func(c Capability, method string, ec config.EndpointConfig) Endpoint {
		return Endpoint{
			Capability: c,
			Method:     method,
			URL:        ec.URL,
			Auth:       AuthScheme{Header: ec.AuthHeader, Scheme: ec.AuthScheme},
		}
	}
	return Endpoints{
		Search:   row(Search, http.MethodGet, cfg.Search),
		Contents: row(Contents, http.MethodPost, cfg.Contents),
		Express:  row(Express, http.MethodPost, cfg.Express),
	}
}
