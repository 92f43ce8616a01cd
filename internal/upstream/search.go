package upstream

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
)

// ComposeQuery folds the query helpers into one search string:
// query, site:, fileType:, lang:, then the required or excluded terms.
func ComposeQuery(in models.SearchInput) (string, error) {
	exact := strings.TrimSpace(in.ExactTerms)
	exclude := strings.TrimSpace(in.ExcludeTerms)
	if exact != "" && exclude != "" {
		return "", toolerr.New(toolerr.ConflictingParameters,
			"Cannot specify both exactTerms and excludeTerms - please use only one")
	}

	q := in.Query
	if in.Site != "" {
		q += " site:" + in.Site
	}
	if in.FileType != "" {
		q += " fileType:" + in.FileType
	}
	if in.Language != "" {
		q += " lang:" + in.Language
	}
	if terms := joinTerms(exact, "+"); terms != "" {
		q += " " + terms
	}
	if terms := joinTerms(exclude, "-"); terms != "" {
		q += " " + terms
	}
	return q, nil
}

// joinTerms splits a pipe-separated list and joins the prefixed terms with
// AND. Parenthesized phrases pass through untouched.
func joinTerms(raw, prefix string) string {
	if raw == "" {
		return ""
	}
	var terms []string
	for _, t := range strings.Split(raw, "|") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		terms = append(terms, prefix+t)
	}
	return strings.Join(terms, " AND ")
}

// BuildSearchRequest builds the GET request for the search capability.
// Optional parameters are sent only when they carry a value.
func BuildSearchRequest(ep Endpoint, in models.SearchInput, id Identity) (*Outbound, error) {
	if strings.TrimSpace(id.APIKey) == "" {
		return newOutbound(ep, id, "", nil)
	}

	q, err := ComposeQuery(in)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(ep.URL)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.Unknown, err, fmt.Sprintf("invalid search endpoint %q", ep.URL))
	}

	params := u.Query()
	params.Set("query", q)
	if in.Count != nil && *in.Count > 0 {
		params.Set("count", strconv.Itoa(*in.Count))
	}
	if in.Offset != nil && *in.Offset > 0 {
		params.Set("offset", strconv.Itoa(*in.Offset))
	}
	if in.Freshness != "" {
		params.Set("freshness", in.Freshness)
	}
	if in.Country != "" {
		params.Set("country", in.Country)
	}
	if in.SafeSearch != "" {
		params.Set("safesearch", in.SafeSearch)
	}
	u.RawQuery = params.Encode()

	return newOutbound(ep, id, u.String(), nil)
}
