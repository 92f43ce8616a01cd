package models

// ==================== Tool input ====================

// SearchInput is the validated argument record of the search tool.
type SearchInput struct {
	Query        string `json:"query" validate:"required,min=1"`
	Count        *int   `json:"count,omitempty" validate:"omitnil,min=1,max=20"`
	Offset       *int   `json:"offset,omitempty" validate:"omitnil,min=0,max=9"`
	Freshness    string `json:"freshness,omitempty" validate:"omitempty,oneof=day week month year"`
	Country      string `json:"country,omitempty" validate:"omitempty,oneof=AR AU AT BE BR CA CL DK FI FR DE HK IN ID IT JP KR MY MX NL NZ NO CN PL PT PH RU SA ZA ES SE CH TW TR GB US"`
	SafeSearch   string `json:"safesearch,omitempty" validate:"omitempty,oneof=off moderate strict"`
	Site         string `json:"site,omitempty"`
	FileType     string `json:"fileType,omitempty"`
	Language     string `json:"language,omitempty"`
	ExcludeTerms string `json:"excludeTerms,omitempty"`
	ExactTerms   string `json:"exactTerms,omitempty"`
}

// SearchCountries lists the accepted country codes, in declaration order.
var SearchCountries = []string{
	"AR", "AU", "AT", "BE", "BR", "CA", "CL", "DK", "FI", "FR", "DE", "HK", "IN", "ID", "IT", "JP", "KR", "MY",
	"MX", "NL", "NZ", "NO", "CN", "PL", "PT", "PH", "RU", "SA", "ZA", "ES", "SE", "CH", "TW", "TR", "GB", "US",
}

// ==================== Upstream response ====================

// SearchResponse is a validated Search API response.
type SearchResponse struct {
	Results  SearchResults  `json:"results"`
	Metadata SearchMetadata `json:"metadata"`
}

type SearchResults struct {
	Web  []WebResult  `json:"web,omitempty"`
	News []NewsResult `json:"news,omitempty"`
}

type WebResult struct {
	URL                  string   `json:"url"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Snippets             []string `json:"snippets"`
	PageAge              string   `json:"page_age,omitempty"`
	Authors              []string `json:"authors,omitempty"`
	ThumbnailURL         string   `json:"thumbnail_url,omitempty"`
	OriginalThumbnailURL string   `json:"original_thumbnail_url,omitempty"`
	FaviconURL           string   `json:"favicon_url,omitempty"`
}

type NewsResult struct {
	URL                  string `json:"url"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	PageAge              string `json:"page_age"`
	ThumbnailURL         string `json:"thumbnail_url,omitempty"`
	OriginalThumbnailURL string `json:"original_thumbnail_url,omitempty"`
}

type SearchMetadata struct {
	RequestUUID string  `json:"request_uuid,omitempty"`
	Query       string  `json:"query"`
	Latency     float64 `json:"latency"`
}

// ==================== Structured output ====================

// SearchStructured is the compact search payload. Results is nil when both
// sections are empty.
type SearchStructured struct {
	ResultCounts ResultCounts `json:"resultCounts" jsonschema:"description=Result counts"`
	Results      *SearchLinks `json:"results,omitempty" jsonschema:"description=Search results"`
}

type ResultCounts struct {
	Web   int `json:"web" jsonschema:"description=Web results"`
	News  int `json:"news" jsonschema:"description=News results"`
	Total int `json:"total" jsonschema:"description=Total results"`
}

type SearchLinks struct {
	Web  []Link `json:"web,omitempty" jsonschema:"description=Web results"`
	News []Link `json:"news,omitempty" jsonschema:"description=News results"`
}
