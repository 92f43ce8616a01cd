package upstream

import (
	"encoding/json"
	"strings"

	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
)

type contentsBody struct {
	URLs   []string `json:"urls"`
	Format string   `json:"format"`
}

// BuildContentsRequest builds the POST request for the contents capability.
func BuildContentsRequest(ep Endpoint, in models.ContentsInput, id Identity) (*Outbound, error) {
	if strings.TrimSpace(id.APIKey) == "" {
		return newOutbound(ep, id, "", nil)
	}

	body, err := json.Marshal(contentsBody{URLs: in.URLs, Format: in.ResolvedFormat()})
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Unknown, err, "failed to encode contents request")
	}
	return newOutbound(ep, id, ep.URL, body)
}
