package converter

import "strings"

// resultText is the common shape rendered for web results and agent citations.
type resultText struct {
	Title       string
	Description string
	Snippets    []string
	Snippet     string
}

// formatResultsText renders results as Title/Description/Snippets blocks
// separated by a blank line. URLs are left out of the text on purpose.
func formatResultsText(results []resultText) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		parts := []string{"Title: " + r.Title}
		if r.Description != "" {
			parts = append(parts, "Description: "+r.Description)
		}
		if len(r.Snippets) > 0 {
			parts = append(parts, "Snippets:\n- "+strings.Join(r.Snippets, "\n- "))
		} else if r.Snippet != "" {
			parts = append(parts, "Snippet: "+r.Snippet)
		}
		blocks = append(blocks, strings.Join(parts, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
