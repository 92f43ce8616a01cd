package handler

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/young1lin/ydc-mcp/internal/converter"
	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/schema"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
	"github.com/young1lin/ydc-mcp/internal/upstream"
)

const (
	SearchToolName   = "you-search"
	ContentsToolName = "you-contents"
	ExpressToolName  = "you-express"
)

// Catalog returns the served tools in declaration order.
func Catalog() []Invoker {
	return []Invoker{searchTool(), contentsTool(), expressTool()}
}

func searchTool() *Tool[models.SearchInput, models.SearchResponse] {
	return &Tool[models.SearchInput, models.SearchResponse]{
		ToolInfo: ToolInfo{
			Name:        SearchToolName,
			Title:       "Web Search",
			Description: "Web and news search via You.com",
			Capability:  upstream.Search,
			ErrorPrefix: "Error",
			CallLabel:   "Search API call",
		},
		Hints: toolerr.Hints{
			Capability:   "Search",
			Unauthorized: "Please check your You.com API key.",
			Forbidden:    "Please check your You.com API key.",
		},
		Params: []mcp.ToolOption{
			mcp.WithString("query", mcp.Required(), mcp.MinLength(1),
				mcp.Description("Search query (supports +, -, site:, filetype:, lang:)")),
			mcp.WithNumber("count", mcp.Min(1), mcp.Max(20), mcp.Description("Max results per section")),
			mcp.WithString("freshness", mcp.Enum("day", "week", "month", "year"), mcp.Description("Filter by freshness")),
			mcp.WithNumber("offset", mcp.Min(0), mcp.Max(9), mcp.Description("Pagination offset")),
			mcp.WithString("country", mcp.Enum(models.SearchCountries...), mcp.Description("Country code")),
			mcp.WithString("safesearch", mcp.Enum("off", "moderate", "strict"), mcp.Description("Filter level")),
			mcp.WithString("site", mcp.Description("Specific domain")),
			mcp.WithString("fileType", mcp.Description("File type")),
			mcp.WithString("language", mcp.Description("ISO 639-1 language code")),
			mcp.WithString("excludeTerms", mcp.Description("Terms to exclude (pipe-separated)")),
			mcp.WithString("exactTerms", mcp.Description("Exact terms (pipe-separated)")),
		},
		Output:   mcp.WithOutputSchema[models.SearchStructured](),
		Build:    upstream.BuildSearchRequest,
		Validate: schema.ValidateSearch,
		Project: func(_ models.SearchInput, resp models.SearchResponse) models.Projection {
			return converter.ProjectSearch(resp)
		},
		Succeeded: func(in models.SearchInput, resp models.SearchResponse) string {
			web, news := len(resp.Results.Web), len(resp.Results.News)
			if web+news == 0 {
				return fmt.Sprintf("No results found for query: %q", in.Query)
			}
			return fmt.Sprintf("Search successful for query: %q - %d web results, %d news results (%d total)",
				in.Query, web, news, web+news)
		},
	}
}

func contentsTool() *Tool[models.ContentsInput, models.ContentsResponse] {
	return &Tool[models.ContentsInput, models.ContentsResponse]{
		ToolInfo: ToolInfo{
			Name:        ContentsToolName,
			Title:       "Extract Web Page Contents",
			Description: "Extract page content in markdown or HTML",
			Capability:  upstream.Contents,
			ErrorPrefix: "Error extracting contents",
			CallLabel:   "Contents API call",
		},
		Hints: toolerr.Hints{
			Capability:   "Contents",
			Unauthorized: "Please check your You.com API key.",
			Forbidden:    "Your API key may not have access to the Contents API.",
		},
		Params: []mcp.ToolOption{
			mcp.WithArray("urls", mcp.Required(), mcp.MinItems(1),
				mcp.Items(map[string]any{"type": "string", "format": "uri"}),
				mcp.Description("URLs to extract content from")),
			mcp.WithString("format", mcp.Enum(models.FormatMarkdown, models.FormatHTML),
				mcp.DefaultString(models.FormatMarkdown),
				mcp.Description("Output format: markdown (text) or html (layout)")),
		},
		Output:   mcp.WithOutputSchema[models.ContentsStructured](),
		Build:    upstream.BuildContentsRequest,
		Validate: schema.ValidateContents,
		Project:  converter.ProjectContents,
		Started: func(in models.ContentsInput) string {
			return fmt.Sprintf("Contents API call initiated for %d URL(s) with format: %s", len(in.URLs), in.ResolvedFormat())
		},
		Succeeded: func(_ models.ContentsInput, resp models.ContentsResponse) string {
			return fmt.Sprintf("Contents API call successful: extracted %d page(s)", len(resp))
		},
	}
}

func expressTool() *Tool[models.ExpressInput, models.ExpressResponse] {
	return &Tool[models.ExpressInput, models.ExpressResponse]{
		ToolInfo: ToolInfo{
			Name:        ExpressToolName,
			Title:       "Express Agent",
			Description: "Fast AI answers with web search",
			Capability:  upstream.Express,
			ErrorPrefix: "Error",
			CallLabel:   "Express agent call",
		},
		Hints: toolerr.Hints{
			Capability: "Express agent",
			Unauthorized: "The Agent APIs require a valid You.com API key with agent access. " +
				"Agent APIs use Bearer token authentication, while Search API uses X-API-Key",
			Forbidden: "You are not allowed to use the requested tool for this agent or tenant",
		},
		Params: []mcp.ToolOption{
			mcp.WithString("input", mcp.Required(), mcp.MinLength(1), mcp.Description("Query or prompt")),
			mcp.WithArray("tools",
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []string{models.ExpressToolWebSearch},
							"description": "Tool type",
						},
					},
					"required": []string{"type"},
				}),
				mcp.Description("Tools (web search only)")),
		},
		Output:   mcp.WithOutputSchema[models.ExpressStructured](),
		Build:    upstream.BuildExpressRequest,
		Validate: schema.ValidateExpress,
		Project: func(_ models.ExpressInput, resp models.ExpressResponse) models.Projection {
			return converter.ProjectExpress(resp)
		},
		Succeeded: func(in models.ExpressInput, _ models.ExpressResponse) string {
			return fmt.Sprintf("Express agent call successful for input: %q", in.Input)
		},
	}
}
