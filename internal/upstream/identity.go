package upstream

import (
	"fmt"
	"strings"
)

const unknownCaller = "UNKNOWN"

// CallerInfo is whatever the host transport knows about the calling client.
type CallerInfo struct {
	Name       string
	Version    string
	Title      string
	WebsiteURL string
}

// String joins the known fields, or returns UNKNOWN when there are none.
func (c CallerInfo) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Name, c.Version, c.Title, c.WebsiteURL} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return unknownCaller
	}
	return strings.Join(parts, "; ")
}

// UserAgent builds the client string sent with every upstream request.
func UserAgent(version string, caller CallerInfo) string {
	return fmt.Sprintf("MCP/%s (You.com; %s)", version, caller)
}

// Identity is what a builder needs to sign a request.
type Identity struct {
	APIKey    string
	UserAgent string
}
