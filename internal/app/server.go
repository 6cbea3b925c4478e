package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	serverpkg "github.com/mark3labs/mcp-go/server"

	"github.com/ylchen07/businessmap-mcp-server/internal/bulk"
	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
	"github.com/ylchen07/businessmap-mcp-server/internal/telemetry"
)

const (
	serverName    = "BusinessMap MCP Server"
	serverVersion = "1.0.0"
)

// ToolInfo describes an MCP tool that has been registered with the server.
type ToolInfo struct {
	Name        string
	Description string
	Mutating    bool
}

// Server coordinates MCP tool registration and request handling for the BusinessMap integration.
type Server struct {
	mcpServer       *serverpkg.MCPServer
	factory         *businessmap.Factory
	logger          *log.Logger
	readOnly        bool
	concurrency     int
	instrumentation *telemetry.Instrumentation
	tools           []ToolInfo
}

// Option customizes a Server.
type Option func(*Server)

// WithReadOnly leaves every mutating tool unregistered.
func WithReadOnly(readOnly bool) Option {
	return func(s *Server) { s.readOnly = readOnly }
}

// WithAnalysisConcurrency bounds concurrent dependency analyses in bulk deletes.
func WithAnalysisConcurrency(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithInstrumentation records traces and metrics for every tool call.
func WithInstrumentation(inst *telemetry.Instrumentation) Option {
	return func(s *Server) { s.instrumentation = inst }
}

// NewServer constructs a Server backed by the provided instance factory and logger.
func NewServer(factory *businessmap.Factory, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		mcpServer: serverpkg.NewMCPServer(serverName, serverVersion,
			serverpkg.WithToolCapabilities(false),
			serverpkg.WithRecovery(),
		),
		factory:     factory,
		logger:      logger,
		concurrency: bulk.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

// AvailableTools returns metadata for each registered MCP tool.
func (s *Server) AvailableTools() []ToolInfo {
	return append([]ToolInfo(nil), s.tools...)
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return serverpkg.ServeStdio(s.mcpServer)
}

// RunHTTP starts the server using HTTP transport on the provided address.
func (s *Server) RunHTTP(addr string) error {
	return serverpkg.NewStreamableHTTPServer(s.mcpServer).Start(addr)
}

func (s *Server) registerTools() {
	s.registerGeneralTools()
	s.registerWorkspaceTools()
	s.registerBoardTools()
	s.registerCardTools()
	s.registerCommentTools()
	s.registerSubtaskTools()
	s.registerChildTools()
	s.registerBulkTools()
}

func (s *Server) registerGeneralTools() {
	s.addTool(mcp.NewTool(
		"health_check",
		mcp.WithDescription("Simple health check to verify the MCP server is working"),
	), false, s.handleHealthCheck)

	s.addTool(mcp.NewTool(
		"list_instances",
		mcp.WithDescription("List the configured BusinessMap instances; tokens are never shown"),
	), false, s.handleListInstances)

	s.addTool(mcp.NewTool(
		"get_current_user",
		mcp.WithDescription("Get the user that owns the API key"),
		withInstance(),
	), false, s.handleGetCurrentUser)

	s.addTool(mcp.NewTool(
		"list_users",
		mcp.WithDescription("List all users of the BusinessMap account"),
		withInstance(),
	), false, s.handleListUsers)
}

// addTool registers tool unless it mutates data and the server is read-only. Every call
// is logged with a correlation id and passed through the telemetry wrapper.
func (s *Server) addTool(tool mcp.Tool, mutating bool, handler serverpkg.ToolHandlerFunc) {
	if mutating && s.readOnly {
		return
	}

	wrapped := s.instrumentation.WrapTool(tool.Name, s.logCalls(tool.Name, handler))
	s.mcpServer.AddTool(tool, wrapped)
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description, Mutating: mutating})
}

func (s *Server) logCalls(name string, handler serverpkg.ToolHandlerFunc) serverpkg.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		start := time.Now()
		s.logger.Printf("[%s] tool %s called", callID, name)

		result, err := handler(ctx, request)

		elapsed := time.Since(start).Round(time.Millisecond)
		switch {
		case err != nil:
			s.logger.Printf("[%s] tool %s failed after %s: %v", callID, name, elapsed, err)
		case result != nil && result.IsError:
			s.logger.Printf("[%s] tool %s returned an error result after %s", callID, name, elapsed)
		default:
			s.logger.Printf("[%s] tool %s completed in %s", callID, name, elapsed)
		}

		return result, err
	}
}

func withInstance() mcp.ToolOption {
	return mcp.WithString("instance",
		mcp.Description("Configured BusinessMap instance name (default instance when omitted)"),
	)
}

// service resolves the instance named by the request. The returned result is non-nil on failure.
func (s *Server) service(request mcp.CallToolRequest) (*businessmap.Service, *mcp.CallToolResult) {
	svc, err := s.factory.Service(request.GetString("instance", ""))
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return svc, nil
}

func jsonResult(summary string, v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error serializing response: %v", err))
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", summary, string(jsonData)))
}

func errorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error %s: %v", action, err))
}

func optionalInt(request mcp.CallToolRequest, name string) *int {
	if _, ok := request.GetArguments()[name]; !ok {
		return nil
	}
	v := request.GetInt(name, 0)
	return &v
}

func optionalString(request mcp.CallToolRequest, name string) *string {
	if _, ok := request.GetArguments()[name]; !ok {
		return nil
	}
	v := request.GetString(name, "")
	return &v
}

func optionalBoolFlag(request mcp.CallToolRequest, name string) *int {
	if _, ok := request.GetArguments()[name]; !ok {
		return nil
	}
	v := 0
	if request.GetBool(name, false) {
		v = 1
	}
	return &v
}

func (s *Server) handleHealthCheck(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := map[string]any{
		"status":           "healthy",
		"timestamp":        time.Now().Format(time.RFC3339),
		"server":           serverName,
		"version":          serverVersion,
		"default_instance": s.factory.DefaultInstance(),
		"read_only":        s.readOnly,
	}

	return mcp.NewToolResultText(fmt.Sprintf("Health check successful: %+v", result)), nil
}

func (s *Server) handleListInstances(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instances := s.factory.Instances()
	return jsonResult(fmt.Sprintf("Found %d configured instances:", len(instances)), instances), nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	user, err := svc.GetCurrentUser(ctx)
	if err != nil {
		return errorResult("fetching current user", err), nil
	}

	return jsonResult(fmt.Sprintf("Current user '%s':", user.Username), user), nil
}

func (s *Server) handleListUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		return errorResult("listing users", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d users:", len(users)), users), nil
}
