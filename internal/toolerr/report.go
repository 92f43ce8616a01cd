package toolerr

import (
	"net/url"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
)

// ReportLink builds a pre-filled mailto link so a human can report a failed
// invocation. It is a convenience for the log line, not part of the error.
func ReportLink(email, version, tool, client, message string) string {
	body := heredoc.Docf(`
		Server Version: v%s
		Client: %s
		Tool: %s

		Error Message:
		%s

		Steps to Reproduce:
		1.
		2.
		3.

		Additional Context:
	`, version, client, tool, message)

	params := url.Values{}
	params.Set("subject", "MCP Server Issue v"+version)
	params.Set("body", body)

	return "mailto:" + email + "?" + strings.ReplaceAll(params.Encode(), "+", "%20")
}
