package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
)

func (s *Server) registerBoardTools() {
	s.addTool(mcp.NewTool(
		"list_boards",
		mcp.WithDescription("List boards, optionally filtered by workspace, board ID or name"),
		mcp.WithNumber("workspace_id", mcp.Description("Only boards of this workspace")),
		mcp.WithNumber("board_id", mcp.Description("Only this board")),
		mcp.WithString("board_name", mcp.Description("Case-insensitive substring of the board name")),
		mcp.WithBoolean("is_archived", mcp.Description("Filter by archived status")),
		withInstance(),
	), false, s.handleListBoards)

	s.addTool(mcp.NewTool(
		"get_board",
		mcp.WithDescription("Get details of a single board"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		withInstance(),
	), false, s.handleGetBoard)

	s.addTool(mcp.NewTool(
		"get_board_structure",
		mcp.WithDescription("Get the columns and lanes of a board"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		withInstance(),
	), false, s.handleGetBoardStructure)

	s.addTool(mcp.NewTool(
		"create_board",
		mcp.WithDescription("Create a board in a workspace"),
		mcp.WithNumber("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Board name")),
		mcp.WithString("description", mcp.Description("Board description")),
		withInstance(),
	), true, s.handleCreateBoard)

	s.addTool(mcp.NewTool(
		"update_board",
		mcp.WithDescription("Update the name or description of a board"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		mcp.WithString("name", mcp.Description("New board name")),
		mcp.WithString("description", mcp.Description("New board description")),
		withInstance(),
	), true, s.handleUpdateBoard)

	s.addTool(mcp.NewTool(
		"delete_board",
		mcp.WithDescription("Delete a board. Its cards are deleted with it"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		mcp.WithBoolean("archive_first",
			mcp.Description("Archive the board before deleting it, as the API requires (default: true)"),
		),
		withInstance(),
	), true, s.handleDeleteBoard)

	s.addTool(mcp.NewTool(
		"get_lane",
		mcp.WithDescription("Get details of a single lane"),
		mcp.WithNumber("lane_id", mcp.Required(), mcp.Description("Lane ID")),
		withInstance(),
	), false, s.handleGetLane)

	s.addTool(mcp.NewTool(
		"create_lane",
		mcp.WithDescription("Add a lane to a board workflow"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		mcp.WithNumber("workflow_id", mcp.Required(), mcp.Description("Workflow ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Lane name")),
		mcp.WithNumber("position", mcp.Description("Zero-based lane position (default: 0)")),
		mcp.WithString("color", mcp.Description("Hex color without '#' (default: ffffff)")),
		mcp.WithString("description", mcp.Description("Lane description")),
		withInstance(),
	), true, s.handleCreateLane)

	s.addTool(mcp.NewTool(
		"get_board_custom_fields",
		mcp.WithDescription("List the custom fields enabled on a board"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		withInstance(),
	), false, s.handleGetBoardCustomFields)

	s.addTool(mcp.NewTool(
		"get_custom_field",
		mcp.WithDescription("Get a custom field definition"),
		mcp.WithNumber("field_id", mcp.Required(), mcp.Description("Custom field ID")),
		withInstance(),
	), false, s.handleGetCustomField)
}

func (s *Server) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	opts := &businessmap.ListBoardsOptions{
		Name:       strings.TrimSpace(request.GetString("board_name", "")),
		IsArchived: optionalBoolFlag(request, "is_archived"),
	}
	if id := optionalInt(request, "workspace_id"); id != nil {
		opts.WorkspaceIDs = []int{*id}
	}
	if id := optionalInt(request, "board_id"); id != nil {
		opts.BoardIDs = []int{*id}
	}

	boards, err := svc.ListBoards(ctx, opts)
	if err != nil {
		return errorResult("listing boards", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d boards:", len(boards)), boards), nil
}

func (s *Server) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	board, err := svc.GetBoard(ctx, boardID)
	if err != nil {
		return errorResult("fetching board", err), nil
	}

	return jsonResult(fmt.Sprintf("Board '%s':", board.Name), board), nil
}

func (s *Server) handleGetBoardStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	structure, err := svc.GetBoardStructure(ctx, boardID)
	if err != nil {
		return errorResult("fetching board structure", err), nil
	}

	return jsonResult(fmt.Sprintf(
		"Board %d has %d columns and %d lanes:",
		boardID, len(structure.Columns), len(structure.Lanes),
	), structure), nil
}

func (s *Server) handleCreateBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	board, err := svc.CreateBoard(ctx, workspaceID, name, request.GetString("description", ""))
	if err != nil {
		return errorResult("creating board", err), nil
	}

	return jsonResult(fmt.Sprintf("Board '%s' created successfully:", board.Name), board), nil
}

func (s *Server) handleUpdateBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := businessmap.BoardInput{
		Name:        optionalString(request, "name"),
		Description: optionalString(request, "description"),
	}
	if input.Name == nil && input.Description == nil {
		return mcp.NewToolResultError("nothing to update: provide name or description"), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	board, err := svc.UpdateBoard(ctx, boardID, input)
	if err != nil {
		return errorResult("updating board", err), nil
	}

	return jsonResult(fmt.Sprintf("Board %d updated successfully:", boardID), board), nil
}

func (s *Server) handleDeleteBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.DeleteBoard(ctx, boardID, request.GetBool("archive_first", true)); err != nil {
		return errorResult("deleting board", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Board %d deleted successfully", boardID)), nil
}

func (s *Server) handleGetLane(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	laneID, err := request.RequireInt("lane_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	lane, err := svc.GetLane(ctx, laneID)
	if err != nil {
		return errorResult("fetching lane", err), nil
	}

	return jsonResult(fmt.Sprintf("Lane '%s':", lane.Name), lane), nil
}

func (s *Server) handleCreateLane(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	workflowID, err := request.RequireInt("workflow_id")
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

	lane, err := svc.CreateLane(ctx, boardID, businessmap.LaneInput{
		WorkflowID:  workflowID,
		Name:        name,
		Position:    request.GetInt("position", 0),
		Color:       strings.TrimPrefix(request.GetString("color", "ffffff"), "#"),
		Description: request.GetString("description", ""),
	})
	if err != nil {
		return errorResult("creating lane", err), nil
	}

	return jsonResult(fmt.Sprintf("Lane '%s' created successfully on board %d:", lane.Name, boardID), lane), nil
}

func (s *Server) handleGetBoardCustomFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	fields, err := svc.ListBoardCustomFields(ctx, boardID)
	if err != nil {
		return errorResult("listing custom fields", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d custom fields on board %d:", len(fields), boardID), fields), nil
}

func (s *Server) handleGetCustomField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldID, err := request.RequireInt("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	field, err := svc.GetCustomField(ctx, fieldID)
	if err != nil {
		return errorResult("fetching custom field", err), nil
	}

	return jsonResult(fmt.Sprintf("Custom field '%s':", field.Name), field), nil
}
