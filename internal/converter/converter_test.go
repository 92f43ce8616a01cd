package converter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/young1lin/ydc-mcp/internal/models"
)

func sampleSearch() models.SearchResponse {
	return models.SearchResponse{
		Results: models.SearchResults{
			Web: []models.WebResult{
				{URL: "https://go.dev", Title: "Go", Description: "The Go language", Snippets: []string{"fast", "simple"}},
				{URL: "https://pkg.go.dev", Title: "Packages", Description: "Docs"},
			},
			News: []models.NewsResult{
				{URL: "https://news.test/1", Title: "Go 1.25", Description: "Released", PageAge: "2025-08-12"},
			},
		},
		Metadata: models.SearchMetadata{Query: "golang", Latency: 0.2},
	}
}

func TestProjectSearch(t *testing.T) {
	t.Run("Both sections", func(t *testing.T) {
		p := ProjectSearch(sampleSearch())

		s, ok := p.Structured.(models.SearchStructured)
		require.True(t, ok)
		assert.Equal(t, models.ResultCounts{Web: 2, News: 1, Total: 3}, s.ResultCounts)
		require.NotNil(t, s.Results)
		assert.Equal(t, []models.Link{{URL: "https://go.dev", Title: "Go"}, {URL: "https://pkg.go.dev", Title: "Packages"}}, s.Results.Web)
		assert.Equal(t, []models.Link{{URL: "https://news.test/1", Title: "Go 1.25"}}, s.Results.News)

		want := "Search Results for \"golang\":\n\n" +
			"WEB RESULTS:\n\n" +
			"Title: Go\nDescription: The Go language\nSnippets:\n- fast\n- simple\n\n" +
			"Title: Packages\nDescription: Docs" +
			"\n\n" + strings.Repeat("=", 50) + "\n\n" +
			"NEWS RESULTS:\n\n" +
			"Title: Go 1.25\nDescription: Released\nPublished: 2025-08-12"
		require.Len(t, p.Text, 1)
		assert.Equal(t, want, p.Text[0])
		assert.NotContains(t, p.Text[0], "https://")
	})

	t.Run("News only has no separator", func(t *testing.T) {
		resp := sampleSearch()
		resp.Results.Web = nil
		p := ProjectSearch(resp)

		assert.NotContains(t, p.Text[0], "WEB RESULTS:")
		assert.NotContains(t, p.Text[0], "=====")
		assert.Contains(t, p.Text[0], "NEWS RESULTS:")
	})

	t.Run("No results", func(t *testing.T) {
		p := ProjectSearch(models.SearchResponse{Metadata: models.SearchMetadata{Query: "zzz"}})

		assert.Equal(t, []string{"No results found."}, p.Text)
		s := p.Structured.(models.SearchStructured)
		assert.Equal(t, 0, s.ResultCounts.Total)
		assert.Nil(t, s.Results)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, b := ProjectSearch(sampleSearch()), ProjectSearch(sampleSearch())
		assert.Equal(t, a, b)
	})

	t.Run("Full response keeps every url and title", func(t *testing.T) {
		resp := sampleSearch()
		p := ProjectSearch(resp)

		raw, err := json.Marshal(p.Full)
		require.NoError(t, err)
		for _, r := range resp.Results.Web {
			assert.Contains(t, string(raw), r.URL)
			assert.Contains(t, string(raw), r.Title)
		}
		assert.Contains(t, string(raw), "fast")
	})
}

func TestProjectContents(t *testing.T) {
	t.Run("Markdown", func(t *testing.T) {
		in := models.ContentsInput{URLs: []string{"https://a.test"}}
		resp := models.ContentsResponse{{URL: "https://a.test", Title: "A", Markdown: "# Héllo"}}

		p := ProjectContents(in, resp)
		s := p.Structured.(models.ContentsStructured)

		assert.Equal(t, 1, s.Count)
		assert.Equal(t, "markdown", s.Format)
		require.Len(t, s.Items, 1)
		assert.Equal(t, "# Héllo", s.Items[0].Content)
		assert.Equal(t, 7, s.Items[0].ContentLength)

		want := strings.Join([]string{
			"Successfully extracted content from 1 URL(s):\n",
			"\n## A",
			"URL: https://a.test",
			"Format: markdown",
			"Content Length: 7 characters\n",
			"---\n",
			"# Héllo",
			"\n---\n",
		}, "\n")
		assert.Equal(t, []string{want}, p.Text)
	})

	t.Run("HTML format", func(t *testing.T) {
		in := models.ContentsInput{URLs: []string{"https://a.test"}, Format: models.FormatHTML}
		resp := models.ContentsResponse{{URL: "https://a.test", Title: "A", HTML: "<p>hi</p>", Markdown: "hi"}}

		p := ProjectContents(in, resp)
		s := p.Structured.(models.ContentsStructured)
		assert.Equal(t, "html", s.Format)
		assert.Equal(t, "<p>hi</p>", s.Items[0].Content)
		assert.Contains(t, p.Text[0], "Format: html")
	})

	t.Run("Input order wins", func(t *testing.T) {
		in := models.ContentsInput{URLs: []string{"https://a.test", "https://b.test", "https://c.test"}}
		resp := models.ContentsResponse{
			{URL: "https://b.test", Title: "B", Markdown: "b"},
			{URL: "https://a.test/", Title: "A", Markdown: "a"},
		}

		s := ProjectContents(in, resp).Structured.(models.ContentsStructured)
		require.Equal(t, 3, s.Count)
		assert.Equal(t, "https://a.test/", s.Items[0].URL)
		assert.Equal(t, "https://b.test", s.Items[1].URL)
		assert.Equal(t, "https://c.test", s.Items[2].URL)
		assert.Empty(t, s.Items[2].Content)
	})

	t.Run("Extra upstream items are dropped", func(t *testing.T) {
		in := models.ContentsInput{URLs: []string{"https://a.test", "https://b.test"}}
		resp := models.ContentsResponse{
			{URL: "https://z.test", Title: "Z", Markdown: "z"},
			{URL: "https://b.test", Title: "B", Markdown: "b"},
			{URL: "https://y.test", Title: "Y", Markdown: "y"},
			{URL: "https://a.test", Title: "A", Markdown: "a"},
		}

		p := ProjectContents(in, resp)
		s := p.Structured.(models.ContentsStructured)
		require.Equal(t, len(in.URLs), s.Count)
		require.Len(t, s.Items, len(in.URLs))
		assert.Equal(t, "https://a.test", s.Items[0].URL)
		assert.Equal(t, "https://b.test", s.Items[1].URL)
		assert.True(t, strings.HasPrefix(p.Text[0], "Successfully extracted content from 2 URL(s):"))
		assert.NotContains(t, p.Text[0], "https://z.test")
		assert.Len(t, p.Full.(models.ContentsResponse), 4)
	})

	t.Run("Extra upstream items without matches", func(t *testing.T) {
		in := models.ContentsInput{URLs: []string{"https://a.test"}}
		resp := models.ContentsResponse{
			{URL: "https://x.test", Title: "X", Markdown: "x"},
			{URL: "https://y.test", Title: "Y", Markdown: "y"},
		}

		s := ProjectContents(in, resp).Structured.(models.ContentsStructured)
		require.Equal(t, 1, s.Count)
		require.Len(t, s.Items, 1)
		assert.Equal(t, "https://x.test", s.Items[0].URL)
	})

	t.Run("Long content is kept", func(t *testing.T) {
		long := strings.Repeat("x", 100000)
		in := models.ContentsInput{URLs: []string{"https://a.test"}}
		s := ProjectContents(in, models.ContentsResponse{{URL: "https://a.test", Markdown: long}}).Structured.(models.ContentsStructured)
		assert.Equal(t, 100000, s.Items[0].ContentLength)
		assert.Equal(t, long, s.Items[0].Content)
	})
}

func TestProjectExpress(t *testing.T) {
	t.Run("Answer only", func(t *testing.T) {
		resp := models.ExpressResponse{Agent: "express", Output: []models.ExpressOutput{models.ExpressAnswer{Text: "42"}}}
		p := ProjectExpress(resp)

		s := p.Structured.(models.ExpressStructured)
		assert.Equal(t, "42", s.Answer)
		assert.False(t, s.HasResults)
		assert.Equal(t, 0, s.ResultCount)
		assert.Nil(t, s.Results)
		assert.Equal(t, []string{"Express Agent Answer:\n\n42"}, p.Text)
	})

	t.Run("Answer with results", func(t *testing.T) {
		resp := models.ExpressResponse{Output: []models.ExpressOutput{
			models.ExpressSearchResults{Content: []models.ExpressResultItem{
				{URL: "https://a.test", Title: "A", Snippet: "first"},
				{CitationURI: "https://b.test", Title: "B", Snippet: "second"},
			}},
			models.ExpressAnswer{Text: "answer"},
		}}
		p := ProjectExpress(resp)

		s := p.Structured.(models.ExpressStructured)
		assert.True(t, s.HasResults)
		assert.Equal(t, 2, s.ResultCount)
		assert.Equal(t, []models.Link{{URL: "https://a.test", Title: "A"}, {URL: "https://b.test", Title: "B"}}, s.Results.Web)

		require.Len(t, p.Text, 2)
		assert.Equal(t, "Express Agent Answer:\n\nanswer", p.Text[0])
		assert.Equal(t, "\nSearch Results:\n\nTitle: A\nSnippet: first\n\nTitle: B\nSnippet: second", p.Text[1])
	})

	t.Run("Empty results element", func(t *testing.T) {
		resp := models.ExpressResponse{Output: []models.ExpressOutput{
			models.ExpressAnswer{Text: "a"},
			models.ExpressSearchResults{},
		}}
		p := ProjectExpress(resp)

		s := p.Structured.(models.ExpressStructured)
		assert.True(t, s.HasResults)
		assert.Equal(t, 0, s.ResultCount)
		assert.Len(t, p.Text, 1)
	})
}
