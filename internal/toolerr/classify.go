package toolerr

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const rateLimitedMessage = "Rate limited by You.com API. Please try again later."

// Hints carries the capability-specific wording used when a status code is
// turned into a message.
type Hints struct {
	Capability   string // shown in generic failures, e.g. "Search"
	Unauthorized string
	Forbidden    string
}

// Classify inspects an upstream response. It returns nil when the response
// may proceed to schema validation.
func Classify(status int, body []byte, hints Hints) *Error {
	if status < 200 || status > 299 {
		return ClassifyStatus(status, body, hints)
	}
	return CheckBody(body)
}

// ClassifyStatus maps a non-2xx status onto the taxonomy. The body is only
// used to enrich the message and may be anything, including invalid JSON.
func ClassifyStatus(status int, body []byte, hints Hints) *Error {
	detail := extractDetail(body)
	fallback := detail
	if fallback == "" {
		fallback = fmt.Sprintf("HTTP %d", status)
	}

	var e *Error
	switch {
	case status == http.StatusTooManyRequests:
		e = New(RateLimited, rateLimitedMessage)
	case status == http.StatusBadRequest:
		if detail == "" && gjson.ValidBytes(body) && len(body) > 0 {
			fallback = strings.TrimSpace(string(body))
		}
		e = Newf(BadRequest, "Bad Request: %s", fallback)
	case status == http.StatusUnauthorized:
		e = Newf(Unauthorized, "Unauthorized: %s. %s", fallback, orDefault(hints.Unauthorized, "Please check your You.com API key."))
	case status == http.StatusForbidden:
		e = Newf(Forbidden, "Forbidden: %s. %s", fallback, orDefault(hints.Forbidden, "Please check your You.com API key."))
	case status >= 500:
		e = Newf(UpstreamServerError, "You.com API server error: %s", fallback)
	case detail != "":
		e = Newf(Unknown, "%s request failed: %s (HTTP %d)", orDefault(hints.Capability, "You.com API"), detail, status)
	default:
		e = Newf(Unknown, "%s request failed. HTTP %d", orDefault(hints.Capability, "You.com API"), status)
	}
	e.Status = status
	return e
}

// CheckBody verifies a 2xx body is JSON and carries no in-band error. Some
// upstream failures (quota exhaustion among them) arrive as 200 OK with an
// "error" field or an "errors" array.
func CheckBody(body []byte) *Error {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return New(MalformedResponse, "Malformed response from You.com API: body is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil
	}

	if e := root.Get("error"); e.Exists() && e.Type != gjson.Null {
		msg := e.Raw
		if e.Type == gjson.String {
			msg = e.Str
		}
		return Newf(InBandError, "You.com API Error: %s", msg)
	}

	if errs := root.Get("errors"); errs.IsArray() {
		items := errs.Array()
		if len(items) == 0 {
			return nil
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, problemText(item))
		}
		return Newf(InBandError, "You.com API Error: %s", strings.Join(parts, "; "))
	}

	return nil
}

// extractDetail pulls a human-readable reason out of an error body.
func extractDetail(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return ""
	}
	for _, path := range []string{"detail", "message", "error.message", "error", "errors.0.detail", "errors.0.message"} {
		r := root.Get(path)
		if !r.Exists() || r.Type == gjson.Null {
			continue
		}
		if r.Type == gjson.String {
			if r.Str != "" {
				return r.Str
			}
			continue
		}
		return r.Raw
	}
	return ""
}

func problemText(item gjson.Result) string {
	if item.Type == gjson.String {
		return item.Str
	}
	for _, key := range []string{"detail", "message", "title"} {
		if r := item.Get(key); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return item.Raw
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
