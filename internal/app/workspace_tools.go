package app

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
)

func (s *Server) registerWorkspaceTools() {
	s.addTool(mcp.NewTool(
		"list_workspaces",
		mcp.WithDescription("List all workspaces visible to the API key"),
		withInstance(),
	), false, s.handleListWorkspaces)

	s.addTool(mcp.NewTool(
		"get_workspace",
		mcp.WithDescription("Get details of a single workspace"),
		mcp.WithNumber("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		withInstance(),
	), false, s.handleGetWorkspace)

	s.addTool(mcp.NewTool(
		"create_workspace",
		mcp.WithDescription("Create a new team workspace"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Workspace name")),
		withInstance(),
	), true, s.handleCreateWorkspace)

	s.addTool(mcp.NewTool(
		"update_workspace",
		mcp.WithDescription("Rename a workspace"),
		mcp.WithNumber("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New workspace name")),
		withInstance(),
	), true, s.handleUpdateWorkspace)

	s.addTool(mcp.NewTool(
		"archive_workspace",
		mcp.WithDescription("Archive a workspace; BusinessMap has no hard delete for workspaces"),
		mcp.WithNumber("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		withInstance(),
	), true, s.handleArchiveWorkspace)
}

func (s *Server) handleListWorkspaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	workspaces, err := svc.ListWorkspaces(ctx)
	if err != nil {
		return errorResult("listing workspaces", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d workspaces:", len(workspaces)), workspaces), nil
}

func (s *Server) handleGetWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, err := request.RequireInt("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	workspace, err := svc.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return errorResult("fetching workspace", err), nil
	}

	return jsonResult(fmt.Sprintf("Workspace '%s':", workspace.Name), workspace), nil
}

func (s *Server) handleCreateWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	workspace, err := svc.CreateWorkspace(ctx, name)
	if err != nil {
		return errorResult("creating workspace", err), nil
	}

	return jsonResult(fmt.Sprintf("Workspace '%s' created successfully:", workspace.Name), workspace), nil
}

func (s *Server) handleUpdateWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, err := request.RequireInt("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	workspace, err := svc.UpdateWorkspace(ctx, workspaceID, businessmap.WorkspaceInput{Name: &name})
	if err != nil {
		return errorResult("updating workspace", err), nil
	}

	return jsonResult(fmt.Sprintf("Workspace %d updated successfully:", workspaceID), workspace), nil
}

func (s *Server) handleArchiveWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, err := request.RequireInt("workspace_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.ArchiveWorkspace(ctx, workspaceID); err != nil {
		return errorResult("archiving workspace", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Workspace %d archived successfully", workspaceID)), nil
}
