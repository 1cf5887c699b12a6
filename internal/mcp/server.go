package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cargomcp/internal/cargo"
	"cargomcp/internal/protocol"
	"cargomcp/internal/store"
)

// maxLineBytes bounds a single inbound frame. Requests are small control
// messages; anything larger is a malformed or hostile frame.
const maxLineBytes = 10 * 1024 * 1024

// Runner executes a constructed process spec. *cargo.Executor is the
// production implementation; tests substitute a fake.
type Runner interface {
	Execute(ctx context.Context, spec cargo.ProcessSpec) (cargo.ProcessResult, *cargo.ToolError)
}

// Options configure a Server.
type Options struct {
	// DefaultToolchain applies when a request carries no toolchain argument.
	// Established at startup and never mutated afterwards.
	DefaultToolchain string
	Runner           Runner
	// Audit, when non-nil, receives one row per executed invocation.
	Audit  *store.AuditStore
	Logger *zap.Logger
}

// Server speaks line-framed JSON-RPC 2.0 over an inbound/outbound stream
// pair. A single sequential reader accepts requests; each tools/call runs in
// its own goroutine so long tool invocations never block acceptance. The
// outbound writer is the only shared resource and is mutex-guarded per full
// response write.
type Server struct {
	tools            map[string]cargo.ToolDefinition
	defaultToolchain string
	runner           Runner
	audit            *store.AuditStore
	logger           *zap.Logger

	writeMu sync.Mutex
	out     io.Writer
}

func NewServer(opts Options) *Server {
	runner := opts.Runner
	if runner == nil {
		runner = &cargo.Executor{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		tools:            cargo.Registry(),
		defaultToolchain: opts.DefaultToolchain,
		runner:           runner,
		audit:            opts.Audit,
		logger:           logger,
	}
}

// Serve consumes requests from in until EOF and writes responses to out.
// Responses are emitted in completion order; each request id appears exactly
// once. Serve returns after all in-flight tool invocations have completed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var wg sync.WaitGroup
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(rpcResponse{
				JSONRPC: "2.0",
				Error:   &rpcError{Code: protocol.CodeParseError, Message: "parse error"},
			})
			continue
		}

		if req.isNotification() || strings.HasPrefix(req.Method, "notifications/") {
			continue
		}

		switch req.Method {
		case "initialize":
			s.write(s.handleInitialize(req))
		case "tools/list":
			s.write(s.handleToolsList(req))
		case "tools/call":
			wg.Add(1)
			go func(req rpcRequest) {
				defer wg.Done()
				s.write(s.handleToolCall(ctx, req))
			}(req)
		default:
			s.write(rpcResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error: &rpcError{
					Code:    protocol.CodeMethodNotFound,
					Message: fmt.Sprintf("method not found: %s", req.Method),
				},
			})
		}
	}

	wg.Wait()
	return scanner.Err()
}

func (s *Server) handleInitialize(req rpcRequest) rpcResponse {
	return rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"protocolVersion": protocol.Version,
			"capabilities": map[string]any{
				"tools": map[string]any{"listChanged": false},
			},
			"serverInfo": map[string]any{
				"name":    protocol.ServerName,
				"version": protocol.ServerVersion,
			},
			"instructions": "Cargo operations for Rust projects. Every tool takes the project directory as its required path argument.",
		},
	}
}

func (s *Server) handleToolsList(req rpcRequest) rpcResponse {
	tools := make([]cargo.ToolDefinition, 0, len(s.tools))
	for _, name := range cargo.ToolOrder {
		if tool, ok := s.tools[name]; ok {
			tools = append(tools, tool)
		}
	}
	return rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]any{"tools": tools},
	}
}

func (s *Server) handleToolCall(ctx context.Context, req rpcRequest) rpcResponse {
	traceID := uuid.NewString()
	log := s.logger.With(zap.String("trace_id", traceID))

	var params toolsCallParams
	if len(req.Params) == 0 {
		return errorResponse(req.ID, protocol.CodeInvalidParams, "", "params required")
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, protocol.CodeInvalidParams, "", "params must be an object with name and arguments")
	}
	if strings.TrimSpace(params.Name) == "" {
		return errorResponse(req.ID, protocol.CodeInvalidParams, "", "tool name is required")
	}

	def, ok := s.tools[params.Name]
	if !ok {
		log.Warn("unknown tool requested", zap.String("tool", params.Name))
		return errorResponse(req.ID, protocol.CodeInvalidParams, protocol.ErrorKindUnknownTool,
			fmt.Sprintf("unknown tool: %s", params.Name))
	}

	args, terr := def.Parse(params.Arguments)
	if terr != nil {
		log.Debug("validation failed", zap.String("tool", params.Name), zap.String("reason", terr.Message))
		return toolErrorResponse(req.ID, terr)
	}

	project, terr := cargo.ResolveProject(args.Common().Path)
	if terr != nil {
		log.Debug("project check failed", zap.String("tool", params.Name), zap.String("reason", terr.Message))
		return toolErrorResponse(req.ID, terr)
	}

	spec := cargo.BuildSpec(args, project, s.defaultToolchain)
	log.Info("executing tool",
		zap.String("tool", params.Name),
		zap.String("project_dir", project.Dir),
		zap.Strings("argv", spec.Argv),
	)

	result, terr := s.runner.Execute(ctx, spec)
	if terr != nil {
		log.Error("spawn failed", zap.String("tool", params.Name), zap.Error(terr))
		s.recordAudit(ctx, traceID, params.Name, spec, cargo.ProcessResult{ExitCode: -1}, string(terr.Kind))
		return toolErrorResponse(req.ID, terr)
	}

	log.Info("tool finished",
		zap.String("tool", params.Name),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
	)
	s.recordAudit(ctx, traceID, params.Name, spec, result, "")

	return rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  encodeToolResult(params.Name, project, spec, result),
	}
}

// recordAudit is best-effort; audit failures are logged, never surfaced.
func (s *Server) recordAudit(ctx context.Context, traceID, tool string, spec cargo.ProcessSpec, result cargo.ProcessResult, errorKind string) {
	if s.audit == nil {
		return
	}
	inv := store.Invocation{
		Timestamp:   time.Now(),
		TraceID:     traceID,
		Tool:        tool,
		ProjectDir:  spec.Dir,
		Argv:        spec.Argv,
		ExitCode:    result.ExitCode,
		DurationMS:  result.Duration.Milliseconds(),
		StdoutBytes: len(result.Stdout),
		StderrBytes: len(result.Stderr),
		ErrorKind:   errorKind,
	}
	if err := s.audit.Record(ctx, inv); err != nil {
		s.logger.Warn("audit record failed", zap.Error(err))
	}
}

// write serializes exactly one response line under the writer lock so that
// concurrent completions never interleave partial output.
func (s *Server) write(resp rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("response marshal failed", zap.Error(err))
		return
	}
	data = append(data, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(data); err != nil {
		s.logger.Error("response write failed", zap.Error(err))
	}
}

func errorResponse(id json.RawMessage, code int, kind, message string) rpcResponse {
	rpcErr := &rpcError{Code: code, Message: message}
	if kind != "" {
		rpcErr.Data = &rpcErrorData{Kind: kind}
	}
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: rpcErr}
}

func toolErrorResponse(id json.RawMessage, terr *cargo.ToolError) rpcResponse {
	code := protocol.CodeInvalidParams
	if terr.Kind == cargo.KindSpawn {
		code = protocol.CodeInternalError
	}
	return errorResponse(id, code, string(terr.Kind), terr.Message)
}
