package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/young1lin/ydc-mcp/internal/storage"
	"github.com/young1lin/ydc-mcp/pkg/logger"
)

const (
	healthServiceName = "youdotcom-mcp-server"
	invocationsPrefix = "/invocations/"
)

// JournalReader looks up recorded invocations.
type JournalReader interface {
	Get(id string) (*storage.Record, bool)
}

// HTTPHandler is the streamable HTTP front of the MCP server plus a health
// probe and, when a journal is configured, invocation lookup.
type HTTPHandler struct {
	version string
	mcp     http.Handler
	journal JournalReader
}

// NewHTTPHandler wraps s in a streamable HTTP transport. Bearer tokens sent
// to /mcp become the credential of the calls they carry. journal may be nil.
func NewHTTPHandler(s *server.MCPServer, version string, journal JournalReader) *HTTPHandler {
	streamable := server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			token, _ := bearerToken(r)
			return ContextWithAPIKey(ctx, token)
		}),
	)
	return newHTTPHandler(streamable, version, journal)
}

func newHTTPHandler(mcpHandler http.Handler, version string, journal JournalReader) *HTTPHandler {
	return &HTTPHandler{version: version, mcp: mcpHandler, journal: journal}
}

// ServeHTTP handles all HTTP requests
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	traceID := extractTraceID(r)
	if traceID == "" {
		traceID = generateTraceID()
	}
	r = r.WithContext(logger.ContextWithTraceID(r.Context(), traceID))

	log := logger.WithTraceID(traceID)
	log.Info("request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
	)

	w.Header().Set("X-Trace-ID", traceID)

	switch {
	case r.URL.Path == "/mcp-health":
		h.handleHealth(w, r, log)
	case r.URL.Path == "/mcp" || r.URL.Path == "/mcp/":
		h.handleMCP(w, r, log)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, invocationsPrefix):
		h.handleGetInvocation(w, r, strings.TrimPrefix(r.URL.Path, invocationsPrefix), log)
	default:
		h.handleError(w, http.StatusNotFound, "not_found", "Endpoint not found", log)
	}

	log.Info("request completed",
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}

// handleHealth handles health check requests
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   healthServiceName,
	})
}

// handleMCP requires a bearer token before handing the request to the
// streamable transport.
func (h *HTTPHandler) handleMCP(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
	if _, ok := h.authorize(w, r, log); !ok {
		return
	}
	h.mcp.ServeHTTP(w, r)
}

// handleGetInvocation handles GET /invocations/{id}. A record is only
// visible to the credential it ran with.
func (h *HTTPHandler) handleGetInvocation(w http.ResponseWriter, r *http.Request, id string, log *zap.Logger) {
	token, ok := h.authorize(w, r, log)
	if !ok {
		return
	}
	if h.journal == nil {
		h.handleError(w, http.StatusNotFound, "journal_disabled", "Invocation journal is not enabled", log)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		h.handleError(w, http.StatusNotFound, "not_found", "Endpoint not found", log)
		return
	}

	rec, found := h.journal.Get(id)
	if !found || !ownedBy(rec, token) {
		h.handleError(w, http.StatusNotFound, "not_found", "Invocation not found", log)
		return
	}

	log.Info("invocation retrieved", zap.String("invocation_id", id), zap.String("tool", rec.Tool))
	out := *rec
	out.Owner = ""
	writeJSON(w, http.StatusOK, out)
}

// authorize answers 401 and reports false when r carries no bearer token.
func (h *HTTPHandler) authorize(w http.ResponseWriter, r *http.Request, log *zap.Logger) (string, bool) {
	token, reason := bearerToken(r)
	if reason != "" {
		log.Warn("unauthorized request", zap.String("path", r.URL.Path), zap.String("reason", reason))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(reason))
		return "", false
	}
	return token, true
}

func ownedBy(rec *storage.Record, token string) bool {
	if rec.Owner == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(rec.Owner), []byte(storage.OwnerHash(token))) == 1
}

// handleError handles errors
func (h *HTTPHandler) handleError(w http.ResponseWriter, status int, errType, message string, log *zap.Logger) {
	log.Error("request error",
		zap.String("error_type", errType),
		zap.String("message", message),
		zap.Int("status", status),
	)

	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// bearerToken returns the token of a Bearer Authorization header, or the
// text of the 401 to answer with.
func bearerToken(r *http.Request) (string, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "Unauthorized: Authorization header required"
	}
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", "Unauthorized: Bearer token required"
	}
	return strings.TrimSpace(token), ""
}

// extractTraceID extracts trace ID from various possible headers
func extractTraceID(r *http.Request) string {
	headers := []string{
		"X-Trace-ID",
		"X-Request-ID",
		"X-Correlation-ID",
		"Trace-ID",
		"Request-ID",
	}

	for _, header := range headers {
		if id := r.Header.Get(header); id != "" {
			return id
		}
	}

	return ""
}

// generateTraceID generates a new trace ID
func generateTraceID() string {
	return uuid.New().String()[:16]
}
