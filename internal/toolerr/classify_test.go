package toolerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchHints = Hints{Capability: "Search"}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		hints   Hints
		kind    Kind
		message string
	}{
		{"rate limited ignores body", http.StatusTooManyRequests, `{"detail": "x"}`, searchHints, RateLimited,
			"Rate limited by You.com API. Please try again later."},
		{"rate limited with html body", http.StatusTooManyRequests, `<html></html>`, searchHints, RateLimited,
			"Rate limited by You.com API. Please try again later."},
		{"bad request detail", http.StatusBadRequest, `{"detail": "query too long"}`, searchHints, BadRequest,
			"Bad Request: query too long"},
		{"bad request raw body", http.StatusBadRequest, `{"errors": [{"code": 7}]}`, searchHints, BadRequest,
			`Bad Request: {"errors": [{"code": 7}]}`},
		{"unauthorized default hint", http.StatusUnauthorized, ``, searchHints, Unauthorized,
			"Unauthorized: HTTP 401. Please check your You.com API key."},
		{"forbidden custom hint", http.StatusForbidden, `{"message": "nope"}`, Hints{Forbidden: "Ask for access."}, Forbidden,
			"Forbidden: nope. Ask for access."},
		{"server error", http.StatusServiceUnavailable, `{"error": {"message": "maintenance"}}`, searchHints, UpstreamServerError,
			"You.com API server error: maintenance"},
		{"server error no body", http.StatusInternalServerError, ``, searchHints, UpstreamServerError,
			"You.com API server error: HTTP 500"},
		{"other with detail", http.StatusNotFound, `{"errors": [{"detail": "no such agent"}]}`, searchHints, Unknown,
			"Search request failed: no such agent (HTTP 404)"},
		{"other without detail", http.StatusConflict, `oops`, Hints{}, Unknown,
			"You.com API request failed. HTTP 409"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ClassifyStatus(tt.status, []byte(tt.body), tt.hints)
			require.NotNil(t, e)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.message, e.Message)
			assert.Equal(t, tt.status, e.Status)
		})
	}
}

func TestCheckBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    Kind
		message string
	}{
		{"empty", ``, MalformedResponse, "Malformed response from You.com API: body is not valid JSON"},
		{"not json", `<html>`, MalformedResponse, "Malformed response from You.com API: body is not valid JSON"},
		{"error string", `{"error": "quota exceeded"}`, InBandError, "You.com API Error: quota exceeded"},
		{"error object", `{"error": {"code": 1}}`, InBandError, `You.com API Error: {"code": 1}`},
		{"errors array", `{"errors": [{"detail": "a"}, {"message": "b"}, "c"]}`, InBandError, "You.com API Error: a; b; c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := CheckBody([]byte(tt.body))
			require.NotNil(t, e)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.message, e.Message)
		})
	}

	for _, ok := range []string{`{"results": {}}`, `{"error": null}`, `{"errors": []}`, `[{"url": "u"}]`} {
		assert.Nil(t, CheckBody([]byte(ok)), ok)
	}
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(http.StatusOK, []byte(`{"ok": true}`), searchHints))
	assert.Equal(t, RateLimited, Classify(http.StatusTooManyRequests, nil, searchHints).Kind)
	assert.Equal(t, InBandError, Classify(http.StatusOK, []byte(`{"error": "x"}`), searchHints).Kind)
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	e := Wrap(Unknown, cause, "Failed to reach You.com API")

	assert.Equal(t, "Failed to reach You.com API", e.Error())
	assert.ErrorIs(t, e, cause)

	wrapped := fmt.Errorf("outer: %w", New(RateLimited, "slow"))
	assert.Equal(t, RateLimited, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, &Error{Kind: RateLimited})
	assert.NotErrorIs(t, wrapped, &Error{Kind: Forbidden})

	assert.Equal(t, Unknown, KindOf(cause))
	assert.Equal(t, Unknown, From(cause).Kind)
	assert.Nil(t, From(nil))
	assert.Equal(t, "SchemaViolation", SchemaViolation.String())
}
