package models

import (
	"encoding/json"
	"fmt"
)

const (
	ExpressToolWebSearch = "web_search"

	OutputTypeSearchResults = "web_search.results"
	OutputTypeAnswer        = "message.answer"
)

// ExpressInput is the validated argument record of the express tool.
type ExpressInput struct {
	Input string        `json:"input" validate:"required,min=1"`
	Tools []ExpressTool `json:"tools,omitempty" validate:"omitempty,dive"`
}

type ExpressTool struct {
	Type string `json:"type" validate:"required,oneof=web_search"`
}

// ==================== Upstream response ====================

// ExpressOutput is one element of the agent's output array. The set of
// implementations is closed: ExpressAnswer and ExpressSearchResults.
type ExpressOutput interface {
	OutputType() string
	sealed()
}

// ExpressAnswer is the "message.answer" element.
type ExpressAnswer struct {
	Text string `json:"text"`
}

func (ExpressAnswer) OutputType() string { return OutputTypeAnswer }
func (ExpressAnswer) sealed()            {}

func (a ExpressAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{OutputTypeAnswer, a.Text})
}

// ExpressSearchResults is the "web_search.results" element, present only when
// the caller enabled web search.
type ExpressSearchResults struct {
	Content []ExpressResultItem `json:"content"`
}

func (ExpressSearchResults) OutputType() string { return OutputTypeSearchResults }
func (ExpressSearchResults) sealed()            {}

func (s ExpressSearchResults) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string              `json:"type"`
		Content []ExpressResultItem `json:"content"`
	}{OutputTypeSearchResults, s.Content})
}

type ExpressResultItem struct {
	SourceType   string          `json:"source_type,omitempty"`
	CitationURI  string          `json:"citation_uri,omitempty"`
	URL          string          `json:"url,omitempty"`
	Title        string          `json:"title"`
	Snippet      string          `json:"snippet"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	Provider     json.RawMessage `json:"provider,omitempty"`
}

// Link returns the item's url, falling back to its citation URI.
func (i ExpressResultItem) Link() string {
	if i.URL != "" {
		return i.URL
	}
	return i.CitationURI
}

// ExpressResponse is a decoded agent run. Output keeps upstream order.
type ExpressResponse struct {
	Output []ExpressOutput
	Agent  string
	Mode   string
	Input  []json.RawMessage
}

type expressWire struct {
	Output []json.RawMessage `json:"output"`
	Agent  string            `json:"agent,omitempty"`
	Mode   string            `json:"mode,omitempty"`
	Input  []json.RawMessage `json:"input,omitempty"`
}

func (r *ExpressResponse) UnmarshalJSON(data []byte) error {
	var wire expressWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	out := make([]ExpressOutput, 0, len(wire.Output))
	for i, raw := range wire.Output {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("output[%d]: %w", i, err)
		}

		switch head.Type {
		case OutputTypeAnswer:
			var a ExpressAnswer
			if err := json.Unmarshal(raw, &a); err != nil {
				return fmt.Errorf("output[%d]: %w", i, err)
			}
			out = append(out, a)
		case OutputTypeSearchResults:
			var s ExpressSearchResults
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("output[%d]: %w", i, err)
			}
			out = append(out, s)
		default:
			return fmt.Errorf("output[%d]: unknown output type %q", i, head.Type)
		}
	}

	r.Output = out
	r.Agent = wire.Agent
	r.Mode = wire.Mode
	r.Input = wire.Input
	return nil
}

func (r ExpressResponse) MarshalJSON() ([]byte, error) {
	wire := expressWire{
		Output: make([]json.RawMessage, 0, len(r.Output)),
		Agent:  r.Agent,
		Mode:   r.Mode,
		Input:  r.Input,
	}
	for _, item := range r.Output {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		wire.Output = append(wire.Output, b)
	}
	return json.Marshal(wire)
}

// ==================== Structured output ====================

// ExpressStructured is the compact agent payload. Snippets are left to the
// full response.
type ExpressStructured struct {
	Answer      string        `json:"answer" jsonschema:"description=AI answer"`
	HasResults  bool          `json:"hasResults" jsonschema:"description=Has web results"`
	ResultCount int           `json:"resultCount" jsonschema:"description=Result count"`
	Agent       string        `json:"agent,omitempty" jsonschema:"description=Agent ID"`
	Results     *ExpressLinks `json:"results,omitempty" jsonschema:"description=Search results"`
}

type ExpressLinks struct {
	Web []Link `json:"web" jsonschema:"description=Web results"`
}
