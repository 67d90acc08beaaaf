// Package mcp exposes scoring and the score history as MCP tools over stdio.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/atscheck/internal/config"
	"github.com/vijay-prabhu/atscheck/internal/logger"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

// Server implements an MCP server over stdio
type Server struct {
	tracker  *tracker.Tracker
	config   *config.Config
	log      *zap.Logger
	validate *validator.Validate
	version  string
	handlers map[string]ToolHandler
}

// ToolHandler is a function that handles a tool call
type ToolHandler func(ctx context.Context, params json.RawMessage) (any, error)

// JSON-RPC 2.0 types
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

func resultResponse(id any, result any) *jsonRPCResponse {
	return &jsonRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id any, code int, message string) *jsonRPCResponse {
	return &jsonRPCResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	Capabilities    struct {
		Tools     struct{} `json:"tools"`
		Resources struct{} `json:"resources"`
	} `json:"capabilities"`
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type callToolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// New creates a new MCP server
func New(tr *tracker.Tracker, cfg *config.Config, log *zap.Logger, version string) *Server {
	s := &Server{
		tracker:  tr,
		config:   cfg,
		log:      logger.OrNop(log),
		validate: validator.New(),
		version:  version,
		handlers: make(map[string]ToolHandler),
	}
	s.registerHandlers()
	return s
}

// Serve reads newline-delimited JSON-RPC messages from r and writes
// responses to w until EOF or ctx is done
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return nil
			}
			if err != io.EOF {
				return fmt.Errorf("read error: %w", err)
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		response := s.handleMessage(ctx, line)
		if response != nil {
			output, err := json.Marshal(response)
			if err != nil {
				s.log.Error("encode response", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintln(w, string(output)); err != nil {
				return fmt.Errorf("write error: %w", err)
			}
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, msg string) *jsonRPCResponse {
	var req jsonRPCRequest
	if err := json.Unmarshal([]byte(msg), &req); err != nil {
		return errorResponse(nil, codeParseError, "Parse error")
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized":
		// Notification, no response
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.handleResourcesList(req)
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "Method not found")
	}
}

func (s *Server) handleInitialize(req jsonRPCRequest) *jsonRPCResponse {
	result := initializeResult{
		ProtocolVersion: "2024-11-05",
	}
	result.ServerInfo.Name = "atscheck"
	result.ServerInfo.Version = s.version

	return resultResponse(req.ID, result)
}

func (s *Server) handleToolsList(req jsonRPCRequest) *jsonRPCResponse {
	return resultResponse(req.ID, toolsListResult{Tools: ToolDefinitions})
}

func (s *Server) handleToolsCall(ctx context.Context, req jsonRPCRequest) *jsonRPCResponse {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params")
	}

	handler, ok := s.handlers[params.Name]
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	result, err := handler(ctx, params.Arguments)
	if err != nil {
		s.log.Warn("tool call failed", zap.String("tool", params.Name), zap.Error(err))
		return resultResponse(req.ID, callToolResult{
			Content: []contentItem{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}

	text, ok := result.(string)
	if !ok {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errorResponse(req.ID, codeInternalError, "encode tool result: "+err.Error())
		}
		text = string(jsonBytes)
	}

	return resultResponse(req.ID, callToolResult{
		Content: []contentItem{{Type: "text", Text: text}},
	})
}

func (s *Server) handleResourcesList(req jsonRPCRequest) *jsonRPCResponse {
	return resultResponse(req.ID, resourcesListResult{Resources: ResourceDefinitions})
}

func (s *Server) handleResourcesRead(ctx context.Context, req jsonRPCRequest) *jsonRPCResponse {
	var params readResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params")
	}

	text, err := s.handleReadResource(ctx, params.URI)
	if err != nil {
		return errorResponse(req.ID, codeInvalidParams, err.Error())
	}

	return resultResponse(req.ID, readResourceResult{
		Contents: []resourceContent{{URI: params.URI, MimeType: "text/plain", Text: text}},
	})
}
