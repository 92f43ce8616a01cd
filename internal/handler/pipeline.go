package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/young1lin/ydc-mcp/internal/config"
	"github.com/young1lin/ydc-mcp/internal/models"
	"github.com/young1lin/ydc-mcp/internal/storage"
	"github.com/young1lin/ydc-mcp/internal/toolerr"
	"github.com/young1lin/ydc-mcp/internal/upstream"
	"github.com/young1lin/ydc-mcp/pkg/logger"
)

// Stage is one step of a tool invocation. Stages only move forward;
// Succeeded and Failed are terminal.
type Stage int

const (
	StageValidating Stage = iota
	StageBuildingRequest
	StageAwaitingUpstream
	StageClassifying
	StageValidatingResponse
	StageProjecting
	StageSucceeded
	StageFailed
)

var stageNames = [...]string{
	StageValidating:         "Validating",
	StageBuildingRequest:    "BuildingRequest",
	StageAwaitingUpstream:   "AwaitingUpstream",
	StageClassifying:        "Classifying",
	StageValidatingResponse: "ValidatingResponse",
	StageProjecting:         "Projecting",
	StageSucceeded:          "Succeeded",
	StageFailed:             "Failed",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Level is the severity of a side-channel notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notifier delivers a message to the caller out of band. A failed delivery
// never changes the outcome of the invocation.
type Notifier func(ctx context.Context, level Level, message string) error

// Env is what the transport knows about one call.
type Env struct {
	APIKey string
	Caller upstream.CallerInfo
	Notify Notifier
}

// Outcome is the result of one invocation. Exactly one of Projection and
// Err is set.
type Outcome struct {
	InvocationID string
	Tool         string
	Stage        Stage
	FailedAt     Stage
	Projection   *models.Projection
	Err          *toolerr.Error
	ErrorText    string // caller-facing failure text
	ReportLink   string
	Duration     time.Duration
	Journaled    bool // the full response can be fetched by InvocationID

	notice string
}

func (o *Outcome) advance(next Stage, log *zap.Logger) {
	log.Debug("stage transition", zap.Stringer("from", o.Stage), zap.Stringer("to", next))
	o.Stage = next
}

func (o *Outcome) fail(err error) {
	o.FailedAt = o.Stage
	o.Stage = StageFailed
	o.Projection = nil
	o.Err = toolerr.From(err)
}

// ToolInfo is the catalog entry of a tool.
type ToolInfo struct {
	Name        string
	Title       string
	Description string
	Capability  upstream.Capability
	ErrorPrefix string // prefix of caller-facing failure text
	CallLabel   string // subject of failure notifications
}

// Tool wires one capability's builder, validator and projector into the
// invocation pipeline.
type Tool[In, Resp any] struct {
	ToolInfo

	Hints  toolerr.Hints
	Params []mcp.ToolOption
	Output mcp.ToolOption

	Build    func(upstream.Endpoint, In, upstream.Identity) (*upstream.Outbound, error)
	Validate func([]byte) (Resp, error)
	Project  func(In, Resp) models.Projection

	// Started and Succeeded produce optional info notifications.
	Started   func(In) string
	Succeeded func(In, Resp) string
}

// Invoker is the type-erased view of a Tool.
type Invoker interface {
	Info() ToolInfo
	Definition() mcp.Tool
	run(ctx context.Context, o *Orchestrator, env Env, args map[string]any, out *Outcome, log *zap.Logger)
}

func (t *Tool[In, Resp]) Info() ToolInfo {
	return t.ToolInfo
}

// Definition is the MCP declaration of the tool.
func (t *Tool[In, Resp]) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description),
		mcp.WithTitleAnnotation(t.Title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	opts = append(opts, t.Params...)
	if t.Output != nil {
		opts = append(opts, t.Output)
	}
	return mcp.NewTool(t.Name, opts...)
}

func (t *Tool[In, Resp]) run(ctx context.Context, o *Orchestrator, env Env, args map[string]any, out *Outcome, log *zap.Logger) {
	in, err := decodeInput[In](args)
	if err != nil {
		out.fail(err)
		return
	}
	if t.Started != nil {
		o.notify(ctx, env, LevelInfo, t.Started(in), log)
	}

	out.advance(StageBuildingRequest, log)
	identity := upstream.Identity{
		APIKey:    env.APIKey,
		UserAgent: upstream.UserAgent(o.version, env.Caller),
	}
	req, err := t.Build(o.endpoints[t.Capability], in, identity)
	if err != nil {
		out.fail(err)
		return
	}
	log.Debug("upstream request",
		zap.String("method", req.Method),
		zap.String("url", req.URL),
		zap.Any("header", req.RedactedHeader()),
	)

	out.advance(StageAwaitingUpstream, log)
	raw, err := o.client.RoundTrip(ctx, req)
	if err != nil {
		if toolerr.KindOf(err) == toolerr.Unknown {
			err = toolerr.Wrap(toolerr.Unknown, err, "Failed to reach You.com API")
		}
		out.fail(err)
		return
	}
	log.Debug("upstream response", zap.Int("status", raw.Status), zap.Int("bytes", len(raw.Body)))

	out.advance(StageClassifying, log)
	if cerr := toolerr.Classify(raw.Status, raw.Body, t.Hints); cerr != nil {
		out.fail(cerr)
		return
	}

	out.advance(StageValidatingResponse, log)
	resp, err := t.Validate(raw.Body)
	if err != nil {
		out.fail(err)
		return
	}

	out.advance(StageProjecting, log)
	projection := t.Project(in, resp)
	if t.Succeeded != nil {
		out.notice = t.Succeeded(in, resp)
	}
	out.Projection = &projection
	out.advance(StageSucceeded, log)
}

// Recorder persists finished invocations.
type Recorder interface {
	Put(rec storage.Record) error
}

// Orchestrator runs tool invocations. It holds no per-invocation state, so
// concurrent calls share nothing but the HTTP client and the journal.
type Orchestrator struct {
	version      string
	supportEmail string
	endpoints    upstream.Endpoints
	client       *upstream.Client
	journal      Recorder

	tools  []Invoker
	byName map[string]Invoker
}

// NewOrchestrator creates an orchestrator serving the standard tool catalog.
// journal may be nil.
func NewOrchestrator(cfg *config.Config, version string, client *upstream.Client, journal Recorder) *Orchestrator {
	o := &Orchestrator{
		version:      version,
		supportEmail: cfg.Support.Email,
		endpoints:    upstream.NewEndpoints(&cfg.Upstream),
		client:       client,
		journal:      journal,
		byName:       make(map[string]Invoker),
	}
	for _, t := range Catalog() {
		o.tools = append(o.tools, t)
		o.byName[t.Info().Name] = t
	}
	return o
}

// Tools returns the served tools in catalog order.
func (o *Orchestrator) Tools() []Invoker {
	return o.tools
}

// Invoke runs one invocation of the named tool to completion. It never
// panics and always returns a terminal Outcome.
func (o *Orchestrator) Invoke(ctx context.Context, name string, env Env, args map[string]any) *Outcome {
	out := &Outcome{
		InvocationID: uuid.NewString(),
		Tool:         name,
		Stage:        StageValidating,
	}
	log := logger.ForInvocation(name, out.InvocationID)
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		log = log.With(zap.String("trace_id", traceID))
	}

	t, ok := o.byName[name]
	if !ok {
		out.fail(toolerr.Newf(toolerr.Unknown, "unknown tool %q", name))
		out.ErrorText = "Error: " + out.Err.Message
		log.Warn("unknown tool requested")
		return out
	}

	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("tool invocation panicked", zap.Any("panic", r), zap.Stack("stack"))
				out.fail(toolerr.Newf(toolerr.Unknown, "Internal error: %v", r))
			}
		}()
		t.run(ctx, o, env, args, out, log)
	}()
	out.Duration = time.Since(start)

	o.finish(ctx, t.Info(), env, out, log)
	return out
}

func (o *Orchestrator) finish(ctx context.Context, info ToolInfo, env Env, out *Outcome, log *zap.Logger) {
	caller := env.Caller.String()
	fields := []zap.Field{
		zap.Stringer("stage", out.Stage),
		zap.Duration("duration", out.Duration),
		zap.String("caller", caller),
	}

	if out.Err != nil {
		out.ErrorText = info.ErrorPrefix + ": " + out.Err.Message
		out.ReportLink = toolerr.ReportLink(o.supportEmail, o.version, info.Name, caller, out.Err.Message)

		log.Error("tool invocation failed", append(fields,
			zap.Stringer("failed_at", out.FailedAt),
			zap.Stringer("kind", out.Err.Kind),
			zap.Int("status", out.Err.Status),
			zap.String("message", out.Err.Message),
			zap.Error(out.Err.Err),
		)...)
		o.notify(ctx, env, LevelError,
			fmt.Sprintf("%s failed: %s\n\nReport this issue: %s", info.CallLabel, out.Err.Message, out.ReportLink), log)
	} else {
		log.Info("tool invocation succeeded", fields...)
		if out.notice != "" {
			o.notify(ctx, env, LevelInfo, out.notice, log)
		}
	}

	o.record(caller, env.APIKey, out, log)
}

func (o *Orchestrator) notify(ctx context.Context, env Env, level Level, message string, log *zap.Logger) {
	if env.Notify == nil {
		return
	}
	if err := env.Notify(ctx, level, message); err != nil {
		log.Debug("notification not delivered", zap.Error(err))
	}
}

func (o *Orchestrator) record(caller, apiKey string, out *Outcome, log *zap.Logger) {
	if o.journal == nil {
		return
	}

	rec := storage.Record{
		ID:         out.InvocationID,
		Tool:       out.Tool,
		Caller:     caller,
		Stage:      out.Stage.String(),
		DurationMs: out.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
		Owner:      storage.OwnerHash(apiKey),
	}
	if out.Err != nil {
		rec.ErrorKind = out.Err.Kind.String()
		rec.Error = out.Err.Message
	}
	if out.Projection != nil {
		if data, err := json.Marshal(out.Projection.Full); err == nil {
			rec.Response = data
		}
	}

	if err := o.journal.Put(rec); err != nil {
		log.Warn("failed to journal invocation", zap.Error(err))
		return
	}
	out.Journaled = true
}
