package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressResponseDecode(t *testing.T) {
	body := `{
		"agent": "express",
		"mode": "fast",
		"input": [{"role": "user", "content": "hi"}],
		"output": [
			{"type": "message.answer", "text": "hello"},
			{"type": "web_search.results", "content": [{"citation_uri": "https://c.test", "title": "C", "snippet": "c", "provider": {"name": "x"}}]}
		]
	}`

	var resp ExpressResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	require.Len(t, resp.Output, 2)
	assert.Equal(t, OutputTypeAnswer, resp.Output[0].OutputType())
	assert.Equal(t, ExpressAnswer{Text: "hello"}, resp.Output[0])

	results, ok := resp.Output[1].(ExpressSearchResults)
	require.True(t, ok)
	assert.Equal(t, "https://c.test", results.Content[0].Link())
	assert.JSONEq(t, `{"name": "x"}`, string(results.Content[0].Provider))
	assert.Equal(t, "express", resp.Agent)
	assert.Len(t, resp.Input, 1)

	// re-encoding keeps the type tags
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	var again ExpressResponse
	require.NoError(t, json.Unmarshal(out, &again))
	require.Len(t, again.Output, 2)
	assert.Equal(t, resp.Output[0], again.Output[0])
	assert.Equal(t, "https://c.test", again.Output[1].(ExpressSearchResults).Content[0].Link())
}

func TestExpressResponseUnknownType(t *testing.T) {
	var resp ExpressResponse
	err := json.Unmarshal([]byte(`{"output": [{"type": "chart", "data": []}]}`), &resp)
	assert.ErrorContains(t, err, `unknown output type "chart"`)
}

func TestContentsInputResolvedFormat(t *testing.T) {
	assert.Equal(t, FormatMarkdown, ContentsInput{}.ResolvedFormat())
	assert.Equal(t, FormatHTML, ContentsInput{Format: FormatHTML}.ResolvedFormat())
}
