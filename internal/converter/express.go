package converter

import "github.com/young1lin/ydc-mcp/internal/models"

// ProjectExpress converts an agent run into the tool projection. The answer
// block always comes first; search results follow only when the run has them.
func ProjectExpress(resp models.ExpressResponse) models.Projection {
	var answer string
	var search *models.ExpressSearchResults
	for _, item := range resp.Output {
		switch v := item.(type) {
		case models.ExpressAnswer:
			answer = v.Text
		case models.ExpressSearchResults:
			if search == nil {
				search = &v
			}
		}
	}

	structured := models.ExpressStructured{Answer: answer, Agent: resp.Agent}
	text := []string{"Express Agent Answer:\n\n" + answer}

	if search != nil {
		links := make([]models.Link, 0, len(search.Content))
		items := make([]resultText, 0, len(search.Content))
		for _, r := range search.Content {
			links = append(links, models.Link{URL: r.Link(), Title: r.Title})
			items = append(items, resultText{Title: r.Title, Snippet: r.Snippet})
		}
		structured.HasResults = true
		structured.ResultCount = len(links)
		structured.Results = &models.ExpressLinks{Web: links}

		if len(items) > 0 {
			text = append(text, "\nSearch Results:\n\n"+formatResultsText(items))
		}
	}

	return models.Projection{
		Structured: structured,
		Text:       text,
		Full:       resp,
	}
}
