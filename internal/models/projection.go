package models

// Projection is what a projector derives from one validated upstream response.
type Projection struct {
	// Structured is the compact machine-facing payload.
	Structured any
	// Text holds the human-readable blocks, primary content first.
	Text []string
	// Full is the complete validated response for callers that need the
	// fields Structured leaves out.
	Full any
}

// Link is a url+title pair, the unit of every compact result list.
type Link struct {
	URL   string `json:"url" jsonschema:"description=URL"`
	Title string `json:"title" jsonschema:"description=Title"`
}
