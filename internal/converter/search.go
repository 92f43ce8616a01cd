// Package converter projects validated upstream responses into the three
// shapes a tool returns: compact structured data, text blocks and the full
// response.
package converter

import (
	"strings"

	"github.com/young1lin/ydc-mcp/internal/models"
)

const noResultsText = "No results found."

var sectionSeparator = "\n\n" + strings.Repeat("=", 50) + "\n\n"

// ProjectSearch converts a Search API response into the tool projection
func ProjectSearch(resp models.SearchResponse) models.Projection {
	web, news := len(resp.Results.Web), len(resp.Results.News)
	structured := models.SearchStructured{
		ResultCounts: models.ResultCounts{Web: web, News: news, Total: web + news},
	}

	if web+news == 0 {
		return models.Projection{
			Structured: structured,
			Text:       []string{noResultsText},
			Full:       resp,
		}
	}

	links := &models.SearchLinks{}
	for _, r := range resp.Results.Web {
		links.Web = append(links.Web, models.Link{URL: r.URL, Title: r.Title})
	}
	for _, r := range resp.Results.News {
		links.News = append(links.News, models.Link{URL: r.URL, Title: r.Title})
	}
	structured.Results = links

	var sections []string
	if web > 0 {
		items := make([]resultText, 0, web)
		for _, r := range resp.Results.Web {
			items = append(items, resultText{Title: r.Title, Description: r.Description, Snippets: r.Snippets})
		}
		sections = append(sections, "WEB RESULTS:\n\n"+formatResultsText(items))
	}
	if news > 0 {
		items := make([]string, 0, news)
		for _, r := range resp.Results.News {
			items = append(items, "Title: "+r.Title+"\nDescription: "+r.Description+"\nPublished: "+r.PageAge)
		}
		sections = append(sections, "NEWS RESULTS:\n\n"+strings.Join(items, "\n\n---\n\n"))
	}

	text := "Search Results for \"" + resp.Metadata.Query + "\":\n\n" + strings.Join(sections, sectionSeparator)
	return models.Projection{
		Structured: structured,
		Text:       []string{text},
		Full:       resp,
	}
}
