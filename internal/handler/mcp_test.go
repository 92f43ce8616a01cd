package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
)

func TestCatalogDefinitions(t *testing.T) {
	tools := Catalog()
	require.Len(t, tools, 3)

	want := []struct{ name, title, required string }{
		{SearchToolName, "Web Search", "query"},
		{ContentsToolName, "Extract Web Page Contents", "urls"},
		{ExpressToolName, "Express Agent", "input"},
	}
	for i, w := range want {
		def := tools[i].Definition()
		assert.Equal(t, w.name, def.Name)
		assert.Equal(t, w.title, def.Annotations.Title)
		assert.NotEmpty(t, def.Description)
		assert.Contains(t, def.InputSchema.Required, w.required)
	}
}

func TestToCallToolResult(t *testing.T) {
	t.Run("failure carries text only", func(t *testing.T) {
		res := toCallToolResult(&Outcome{
			Err:       toolerr.New(toolerr.RateLimited, "slow"),
			ErrorText: "Error: slow",
		})
		assert.True(t, res.IsError)
		assert.Nil(t, res.StructuredContent)
		require.Len(t, res.Content, 1)
		assert.Equal(t, "Error: slow", res.Content[0].(mcp.TextContent).Text)
	})

	t.Run("success keeps block order", func(t *testing.T) {
		structured := models.ExpressStructured{Answer: "a"}
		res := toCallToolResult(&Outcome{Projection: &models.Projection{
			Structured: structured,
			Text:       []string{"first", "second"},
		}})
		assert.False(t, res.IsError)
		assert.Equal(t, structured, res.StructuredContent)
		require.Len(t, res.Content, 2)
		assert.Equal(t, "first", res.Content[0].(mcp.TextContent).Text)
		assert.Equal(t, "second", res.Content[1].(mcp.TextContent).Text)
		assert.Nil(t, res.Meta)
	})

	t.Run("journaled outcome exposes invocation id", func(t *testing.T) {
		res := toCallToolResult(&Outcome{
			InvocationID: "inv-7",
			Journaled:    true,
			Projection:   &models.Projection{Text: []string{"x"}},
		})
		require.NotNil(t, res.Meta)
		assert.Equal(t, "inv-7", res.Meta.AdditionalFields["invocationId"])
		assert.Equal(t, "/invocations/inv-7", res.Meta.AdditionalFields["invocationPath"])
	})

	t.Run("journaled failure exposes invocation id", func(t *testing.T) {
		res := toCallToolResult(&Outcome{
			InvocationID: "inv-8",
			Journaled:    true,
			Err:          toolerr.New(toolerr.RateLimited, "slow"),
			ErrorText:    "Error: slow",
		})
		assert.True(t, res.IsError)
		require.NotNil(t, res.Meta)
		assert.Equal(t, "inv-8", res.Meta.AdditionalFields["invocationId"])
	})
}

func TestAPIKeyFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "configured", apiKeyFromContext(ctx, "configured"))
	assert.Equal(t, "bearer", apiKeyFromContext(ContextWithAPIKey(ctx, "bearer"), "configured"))
	assert.Equal(t, "configured", apiKeyFromContext(ContextWithAPIKey(ctx, ""), "configured"))
}

func TestCallerFromContextWithoutSession(t *testing.T) {
	assert.Equal(t, "UNKNOWN", callerFromContext(context.Background()).String())
}

func startInProcessClient(t *testing.T, apiKey, baseURL string) *client.Client {
	t.Helper()
	s := NewMCPServer(newTestOrchestrator(baseURL, nil), "1.0.0", apiKey)

	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "0.1"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

func TestMCPServerEndToEnd(t *testing.T) {
	fake := newFakeYDC(t, http.StatusOK, searchOK)
	c := startInProcessClient(t, "test-key", fake.URL)
	ctx := context.Background()

	listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	names := make([]string, 0, len(listed.Tools))
	for _, tool := range listed.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{SearchToolName, ContentsToolName, ExpressToolName}, names)

	req := mcp.CallToolRequest{}
	req.Params.Name = SearchToolName
	req.Params.Arguments = map[string]any{"query": "golang"}

	res, err := c.CallTool(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text.Text, `Search Results for "golang":`))
	assert.NotNil(t, res.StructuredContent)
	assert.Equal(t, "test-key", fake.lastRequest().Header.Get("X-API-Key"))
}

func TestMCPServerMissingCredential(t *testing.T) {
	fake := newFakeYDC(t, http.StatusOK, searchOK)
	c := startInProcessClient(t, "", fake.URL)

	req := mcp.CallToolRequest{}
	req.Params.Name = ExpressToolName
	req.Params.Arguments = map[string]any{"input": "hi"}

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "Error: YDC_API_KEY is required")
	assert.Zero(t, fake.hits.Load())
}
