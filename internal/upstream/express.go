package upstream

import (
	"encoding/json"
	"strings"

	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
)

const expressAgent = "express"

type expressBody struct {
	Agent  string               `json:"agent"`
	Input  string               `json:"input"`
	Stream bool                 `json:"stream"`
	Tools  []models.ExpressTool `json:"tools,omitempty"`
}

// BuildExpressRequest builds the non-streaming agent run. tools is sent only
// when the caller supplied it.
func BuildExpressRequest(ep Endpoint, in models.ExpressInput, id Identity) (*Outbound, error) {
	if strings.TrimSpace(id.APIKey) == "" {
		return newOutbound(ep, id, "", nil)
	}

	body, err := json.Marshal(expressBody{
		Agent:  expressAgent,
		Input:  in.Input,
		Stream: false,
		Tools:  in.Tools,
	})
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Unknown, err, "failed to encode express request")
	}
	return newOutbound(ep, id, ep.URL, body)
}
