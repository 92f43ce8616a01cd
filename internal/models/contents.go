package models

const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ContentsInput is the validated argument record of the contents tool.
type ContentsInput struct {
	URLs   []string `json:"urls" validate:"required,min=1,dive,url"`
	Format string   `json:"format,omitempty" validate:"omitempty,oneof=markdown html"`
}

// ResolvedFormat returns the requested format, markdown when none was given.
func (in ContentsInput) ResolvedFormat() string {
	if in.Format == "" {
		return FormatMarkdown
	}
	return in.Format
}

// ContentsResponse is a validated Contents API response, one item per page.
type ContentsResponse []ContentsItem

// ContentsItem carries the page in whichever format was requested; the other
// field stays empty.
type ContentsItem struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	HTML     string `json:"html,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Body returns the content for the given format.
func (i ContentsItem) Body(format string) string {
	if format == FormatHTML {
		return i.HTML
	}
	return i.Markdown
}

// ContentsStructured is the contents payload. Content is never truncated.
type ContentsStructured struct {
	Count  int             `json:"count" jsonschema:"description=URLs processed"`
	Format string          `json:"format" jsonschema:"description=Content format"`
	Items  []ContentsEntry `json:"items" jsonschema:"description=Extracted items"`
}

type ContentsEntry struct {
	URL           string `json:"url" jsonschema:"description=URL"`
	Title         string `json:"title" jsonschema:"description=Title"`
	Content       string `json:"content" jsonschema:"description=Extracted content"`
	ContentLength int    `json:"contentLength" jsonschema:"description=Content length"`
}
