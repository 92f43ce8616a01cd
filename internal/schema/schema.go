// Package schema checks upstream response bodies against the structural
// contracts of each capability before anything is projected from them.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
)

//go:embed schemas/*.json
var files embed.FS

// maxReported caps how many violations end up in the caller-facing message.
const maxReported = 5

type document struct {
	name string
	file string

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

var (
	searchDoc   = &document{name: "search", file: "schemas/search.json"}
	contentsDoc = &document{name: "contents", file: "schemas/contents.json"}
	expressDoc  = &document{name: "express", file: "schemas/express.json"}
)

func (d *document) schema() (*gojsonschema.Schema, error) {
	d.once.Do(func() {
		raw, err := files.ReadFile(d.file)
		if err != nil {
			d.err = err
			return
		}
		d.compiled, d.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	})
	return d.compiled, d.err
}

// Violations returns one description per contract violation in body, or nil
// when body conforms.
func (d *document) Violations(body []byte) ([]string, error) {
	s, err := d.schema()
	if err != nil {
		return nil, fmt.Errorf("compiling %s response schema: %w", d.name, err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validating %s response: %w", d.name, err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}

func (d *document) check(body []byte) error {
	violations, err := d.Violations(body)
	if err != nil {
		return toolerr.Wrap(toolerr.Unknown, err, err.Error())
	}
	if len(violations) == 0 {
		return nil
	}
	return violation(d.name, violations...)
}

func violation(name string, details ...string) *toolerr.Error {
	if len(details) > maxReported {
		details = append(details[:maxReported:maxReported], fmt.Sprintf("and %d more", len(details)-maxReported))
	}
	return toolerr.Newf(toolerr.SchemaViolation,
		"Unexpected response from You.com %s API: %s", name, strings.Join(details, "; "))
}

// ValidateSearch checks and decodes a Search API body.
func ValidateSearch(body []byte) (models.SearchResponse, error) {
	var resp models.SearchResponse
	if err := searchDoc.check(body); err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, violation(searchDoc.name, err.Error())
	}
	return resp, nil
}

// ValidateContents checks and decodes a Contents API body.
func ValidateContents(body []byte) (models.ContentsResponse, error) {
	var resp models.ContentsResponse
	if err := contentsDoc.check(body); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, violation(contentsDoc.name, err.Error())
	}
	return resp, nil
}

// ValidateExpress checks and decodes an agent run. Besides the structural
// contract, the output must hold exactly one answer.
func ValidateExpress(body []byte) (models.ExpressResponse, error) {
	var resp models.ExpressResponse
	if err := expressDoc.check(body); err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, violation(expressDoc.name, err.Error())
	}

	answers := 0
	for _, item := range resp.Output {
		if _, ok := item.(models.ExpressAnswer); ok {
			answers++
		}
	}
	if answers != 1 {
		return resp, violation(expressDoc.name,
			fmt.Sprintf("output: expected exactly one %s item, found %d", models.OutputTypeAnswer, answers))
	}
	return resp, nil
}
