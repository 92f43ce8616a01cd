package handler

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/young1lin/ydc-mcp/internal/upstream"
)

const (
	ServerName         = "You.com"
	serverInstructions = "Use this server to search the web using You.com."
	notificationLogger = "ydc-mcp"

	metaInvocationID   = "invocationId"
	metaInvocationPath = "invocationPath"
)

type apiKeyKey struct{}

// ContextWithAPIKey attaches a per-request credential, e.g. a bearer token
// received by the HTTP listener. It takes precedence over the configured key.
func ContextWithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyKey{}, key)
}

func apiKeyFromContext(ctx context.Context, fallback string) string {
	if key, ok := ctx.Value(apiKeyKey{}).(string); ok && key != "" {
		return key
	}
	return fallback
}

// NewMCPServer registers every tool of o on a new MCP server. apiKey is the
// credential used when the request context carries none.
func NewMCPServer(o *Orchestrator, version, apiKey string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithInstructions(serverInstructions),
	)

	notify := clientNotifier(s)
	for _, t := range o.Tools() {
		name := t.Info().Name
		s.AddTool(t.Definition(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			env := Env{
				APIKey: apiKeyFromContext(ctx, apiKey),
				Caller: callerFromContext(ctx),
				Notify: notify,
			}
			return toCallToolResult(o.Invoke(ctx, name, env, req.GetArguments())), nil
		})
	}
	return s
}

// toCallToolResult maps an outcome onto the MCP result. Failures carry the
// error text only, never structured content. Journaled outcomes point the
// caller at the full response in _meta.
func toCallToolResult(out *Outcome) *mcp.CallToolResult {
	var res *mcp.CallToolResult
	if out.Err != nil {
		res = mcp.NewToolResultError(out.ErrorText)
	} else {
		content := make([]mcp.Content, 0, len(out.Projection.Text))
		for _, text := range out.Projection.Text {
			content = append(content, mcp.NewTextContent(text))
		}
		res = &mcp.CallToolResult{
			Content:           content,
			StructuredContent: out.Projection.Structured,
		}
	}

	if out.Journaled {
		res.Meta = &mcp.Meta{AdditionalFields: map[string]any{
			metaInvocationID:   out.InvocationID,
			metaInvocationPath: invocationsPrefix + out.InvocationID,
		}}
	}
	return res
}

func clientNotifier(s *server.MCPServer) Notifier {
	return func(ctx context.Context, level Level, message string) error {
		lvl := mcp.LoggingLevelInfo
		if level == LevelError {
			lvl = mcp.LoggingLevelError
		}
		return s.SendLogMessageToClient(ctx, mcp.NewLoggingMessageNotification(lvl, notificationLogger, message))
	}
}

func callerFromContext(ctx context.Context) upstream.CallerInfo {
	session, ok := server.ClientSessionFromContext(ctx).(server.SessionWithClientInfo)
	if !ok {
		return upstream.CallerInfo{}
	}
	info := session.GetClientInfo()
	return upstream.CallerInfo{Name: info.Name, Version: info.Version, Title: info.Title}
}
