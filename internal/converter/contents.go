package converter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/young1lin/ydc-mcp/internal/models"
)

// ProjectContents converts a Contents API response into the tool projection.
// Items follow the order of the submitted URLs and content is never cut.
func ProjectContents(in models.ContentsInput, resp models.ContentsResponse) models.Projection {
	format := in.ResolvedFormat()
	pages := alignToInput(in.URLs, resp)

	lines := []string{fmt.Sprintf("Successfully extracted content from %d URL(s):\n", len(pages))}
	entries := make([]models.ContentsEntry, 0, len(pages))
	for _, page := range pages {
		content := page.Body(format)
		length := utf8.RuneCountInString(content)

		lines = append(lines,
			"\n## "+page.Title,
			"URL: "+page.URL,
			"Format: "+format,
			fmt.Sprintf("Content Length: %d characters\n", length),
			"---\n",
			content,
			"\n---\n",
		)
		entries = append(entries, models.ContentsEntry{
			URL:           page.URL,
			Title:         page.Title,
			Content:       content,
			ContentLength: length,
		})
	}

	return models.Projection{
		Structured: models.ContentsStructured{
			Count:  len(entries),
			Format: format,
			Items:  entries,
		},
		Text: []string{strings.Join(lines, "\n")},
		Full: resp,
	}
}

// alignToInput returns one page per submitted URL. A URL is paired with the
// upstream item carrying the same url first; leftovers are paired by position,
// and a URL with nothing left becomes an empty page. Items beyond the
// submitted URLs are dropped.
func alignToInput(urls []string, items models.ContentsResponse) []models.ContentsItem {
	used := make([]bool, len(items))
	matched := make([]bool, len(urls))
	out := make([]models.ContentsItem, len(urls))

	for i, u := range urls {
		for j, item := range items {
			if !used[j] && item.URL == u {
				out[i], used[j], matched[i] = item, true, true
				break
			}
		}
	}

	next := 0
	for i, u := range urls {
		if matched[i] {
			continue
		}
		for next < len(items) && used[next] {
			next++
		}
		if next < len(items) {
			out[i] = items[next]
			used[next] = true
			next++
			continue
		}
		out[i] = models.ContentsItem{URL: u}
	}
	return out
}
