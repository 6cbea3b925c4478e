package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
)

// cardFieldOptions are the writable card attributes shared by create_card, update_card and bulk_update_cards.
func cardFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Card description (HTML allowed)")),
		mcp.WithNumber("owner_user_id", mcp.Description("Owner user ID")),
		mcp.WithNumber("type_id", mcp.Description("Card type ID")),
		mcp.WithString("color", mcp.Description("Hex color without '#'")),
		mcp.WithNumber("priority", mcp.Description("Priority ID")),
		mcp.WithNumber("size", mcp.Description("Card size")),
		mcp.WithString("deadline", mcp.Description("Deadline in ISO 8601 format")),
	}
}

func cardInputFromRequest(request mcp.CallToolRequest) businessmap.CardInput {
	input := businessmap.CardInput{
		Title:       optionalString(request, "title"),
		Description: optionalString(request, "description"),
		OwnerUserID: optionalInt(request, "owner_user_id"),
		TypeID:      optionalInt(request, "type_id"),
		Color:       optionalString(request, "color"),
		Priority:    optionalInt(request, "priority"),
		Size:        optionalInt(request, "size"),
		Deadline:    optionalString(request, "deadline"),
		ColumnID:    optionalInt(request, "column_id"),
		LaneID:      optionalInt(request, "lane_id"),
		Position:    optionalInt(request, "position"),
	}
	if input.Color != nil {
		color := strings.TrimPrefix(*input.Color, "#")
		input.Color = &color
	}
	return input
}

func (s *Server) registerCardTools() {
	s.addTool(mcp.NewTool(
		"list_cards",
		mcp.WithDescription("List cards of a board, optionally filtered by column and lane"),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board ID")),
		mcp.WithNumber("column_id", mcp.Description("Only cards in this column")),
		mcp.WithNumber("lane_id", mcp.Description("Only cards in this lane")),
		mcp.WithBoolean("is_archived", mcp.Description("Filter by archived status")),
		mcp.WithNumber("page", mcp.Description("Fetch only this page; all pages are fetched when omitted")),
		mcp.WithNumber("per_page", mcp.Description("Page size (default: 100)")),
		withInstance(),
	), false, s.handleListCards)

	s.addTool(mcp.NewTool(
		"get_card",
		mcp.WithDescription("Get details of a single card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		withInstance(),
	), false, s.handleGetCard)

	createOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Create a card in a column and lane"),
		mcp.WithNumber("column_id", mcp.Required(), mcp.Description("Column ID")),
		mcp.WithNumber("lane_id", mcp.Required(), mcp.Description("Lane ID")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Card title")),
		mcp.WithNumber("position", mcp.Description("Position within the cell")),
		withInstance(),
	}, cardFieldOptions()...)
	s.addTool(mcp.NewTool("create_card", createOpts...), true, s.handleCreateCard)

	updateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Update the attributes of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithString("title", mcp.Description("Card title")),
		withInstance(),
	}, cardFieldOptions()...)
	s.addTool(mcp.NewTool("update_card", updateOpts...), true, s.handleUpdateCard)

	s.addTool(mcp.NewTool(
		"move_card",
		mcp.WithDescription("Move a card to another column and, optionally, lane and position"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("column_id", mcp.Required(), mcp.Description("Target column ID")),
		mcp.WithNumber("lane_id", mcp.Description("Target lane ID")),
		mcp.WithNumber("position", mcp.Description("Target position")),
		withInstance(),
	), true, s.handleMoveCard)

	s.addTool(mcp.NewTool(
		"delete_card",
		mcp.WithDescription("Delete a card with its comments and subtasks"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithBoolean("archive_first",
			mcp.Description("Archive the card before deleting it, as the API requires (default: true)"),
		),
		withInstance(),
	), true, s.handleDeleteCard)
}

func (s *Server) handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	opts := &businessmap.ListCardsOptions{
		BoardIDs:   []int{boardID},
		IsArchived: optionalBoolFlag(request, "is_archived"),
		PerPage:    request.GetInt("per_page", 0),
	}
	if id := optionalInt(request, "column_id"); id != nil {
		opts.ColumnIDs = []int{*id}
	}
	if id := optionalInt(request, "lane_id"); id != nil {
		opts.LaneIDs = []int{*id}
	}

	if page := optionalInt(request, "page"); page != nil {
		opts.Page = *page
		result, err := svc.ListCards(ctx, opts)
		if err != nil {
			return errorResult("listing cards", err), nil
		}
		return jsonResult(fmt.Sprintf(
			"Found %d cards on board %d (page %d of %d):",
			len(result.Cards), boardID, result.Pagination.CurrentPage, result.Pagination.AllPages,
		), result.Cards), nil
	}

	cards, err := svc.ListAllCards(ctx, opts)
	if err != nil {
		return errorResult("listing cards", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d cards on board %d:", len(cards), boardID), cards), nil
}

func (s *Server) handleGetCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	card, err := svc.GetCard(ctx, cardID)
	if err != nil {
		return errorResult("fetching card", err), nil
	}

	return jsonResult(fmt.Sprintf("Card '%s':", card.Title), card), nil
}

func (s *Server) handleCreateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	for _, name := range []string{"column_id", "lane_id"} {
		if _, err := request.RequireInt(name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if _, err := request.RequireString("title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	card, err := svc.CreateCard(ctx, cardInputFromRequest(request))
	if err != nil {
		return errorResult("creating card", err), nil
	}

	return jsonResult(fmt.Sprintf("Card '%s' created successfully (ID: %d):", card.Title, card.CardID), card), nil
}

func (s *Server) handleUpdateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := cardInputFromRequest(request)
	if input == (businessmap.CardInput{}) {
		return mcp.NewToolResultError("nothing to update: provide at least one card attribute"), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	card, err := svc.UpdateCard(ctx, cardID, input)
	if err != nil {
		return errorResult("updating card", err), nil
	}

	return jsonResult(fmt.Sprintf("Card %d updated successfully:", cardID), card), nil
}

func (s *Server) handleMoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	columnID, err := request.RequireInt("column_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	card, err := svc.MoveCard(ctx, cardID, columnID, optionalInt(request, "lane_id"), optionalInt(request, "position"))
	if err != nil {
		return errorResult("moving card", err), nil
	}

	return jsonResult(fmt.Sprintf("Card %d moved to column %d:", cardID, columnID), card), nil
}

func (s *Server) handleDeleteCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.DeleteCard(ctx, cardID, request.GetBool("archive_first", true)); err != nil {
		return errorResult("deleting card", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Card %d deleted successfully", cardID)), nil
}

func (s *Server) registerCommentTools() {
	s.addTool(mcp.NewTool(
		"get_card_comments",
		mcp.WithDescription("List the comments of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		withInstance(),
	), false, s.handleGetCardComments)

	s.addTool(mcp.NewTool(
		"get_card_comment",
		mcp.WithDescription("Get a single comment of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("comment_id", mcp.Required(), mcp.Description("Comment ID")),
		withInstance(),
	), false, s.handleGetCardComment)

	s.addTool(mcp.NewTool(
		"add_card_comment",
		mcp.WithDescription("Add a comment to a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Comment text")),
		withInstance(),
	), true, s.handleAddCardComment)

	s.addTool(mcp.NewTool(
		"update_card_comment",
		mcp.WithDescription("Replace the text of a card comment"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("comment_id", mcp.Required(), mcp.Description("Comment ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("New comment text")),
		withInstance(),
	), true, s.handleUpdateCardComment)

	s.addTool(mcp.NewTool(
		"delete_card_comment",
		mcp.WithDescription("Delete a card comment"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("comment_id", mcp.Required(), mcp.Description("Comment ID")),
		withInstance(),
	), true, s.handleDeleteCardComment)
}

func (s *Server) handleGetCardComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	comments, err := svc.ListCardComments(ctx, cardID)
	if err != nil {
		return errorResult("listing comments", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d comments on card %d:", len(comments), cardID), comments), nil
}

func (s *Server) handleGetCardComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commentID, err := request.RequireInt("comment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	comment, err := svc.GetCardComment(ctx, cardID, commentID)
	if err != nil {
		return errorResult("fetching comment", err), nil
	}

	return jsonResult(fmt.Sprintf("Comment %d on card %d:", commentID, cardID), comment), nil
}

func (s *Server) handleAddCardComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	comment, err := svc.CreateCardComment(ctx, cardID, text)
	if err != nil {
		return errorResult("adding comment", err), nil
	}

	return jsonResult(fmt.Sprintf("Comment added to card %d:", cardID), comment), nil
}

func (s *Server) handleUpdateCardComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commentID, err := request.RequireInt("comment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	comment, err := svc.UpdateCardComment(ctx, cardID, commentID, text)
	if err != nil {
		return errorResult("updating comment", err), nil
	}

	return jsonResult(fmt.Sprintf("Comment %d on card %d updated:", commentID, cardID), comment), nil
}

func (s *Server) handleDeleteCardComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commentID, err := request.RequireInt("comment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.DeleteCardComment(ctx, cardID, commentID); err != nil {
		return errorResult("deleting comment", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Comment %d deleted from card %d", commentID, cardID)), nil
}

func (s *Server) registerSubtaskTools() {
	s.addTool(mcp.NewTool(
		"get_card_subtasks",
		mcp.WithDescription("List the subtasks of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		withInstance(),
	), false, s.handleGetCardSubtasks)

	s.addTool(mcp.NewTool(
		"get_card_subtask",
		mcp.WithDescription("Get a single subtask of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("subtask_id", mcp.Required(), mcp.Description("Subtask ID")),
		withInstance(),
	), false, s.handleGetCardSubtask)

	s.addTool(mcp.NewTool(
		"create_card_subtask",
		mcp.WithDescription("Add a subtask to a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Subtask description")),
		mcp.WithNumber("owner_user_id", mcp.Description("Owner user ID")),
		mcp.WithString("deadline", mcp.Description("Deadline in ISO 8601 format")),
		mcp.WithNumber("position", mcp.Description("Position in the subtask list")),
		withInstance(),
	), true, s.handleCreateCardSubtask)

	s.addTool(mcp.NewTool(
		"update_card_subtask",
		mcp.WithDescription("Update a subtask of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("subtask_id", mcp.Required(), mcp.Description("Subtask ID")),
		mcp.WithString("description", mcp.Description("Subtask description")),
		mcp.WithNumber("owner_user_id", mcp.Description("Owner user ID")),
		mcp.WithBoolean("is_finished", mcp.Description("Mark the subtask finished or open")),
		mcp.WithString("deadline", mcp.Description("Deadline in ISO 8601 format")),
		mcp.WithNumber("position", mcp.Description("Position in the subtask list")),
		withInstance(),
	), true, s.handleUpdateCardSubtask)

	s.addTool(mcp.NewTool(
		"delete_card_subtask",
		mcp.WithDescription("Delete a subtask of a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithNumber("subtask_id", mcp.Required(), mcp.Description("Subtask ID")),
		withInstance(),
	), true, s.handleDeleteCardSubtask)
}

func subtaskInputFromRequest(request mcp.CallToolRequest) businessmap.SubtaskInput {
	return businessmap.SubtaskInput{
		Description: optionalString(request, "description"),
		OwnerUserID: optionalInt(request, "owner_user_id"),
		IsFinished:  optionalBoolFlag(request, "is_finished"),
		Deadline:    optionalString(request, "deadline"),
		Position:    optionalInt(request, "position"),
	}
}

func (s *Server) handleGetCardSubtasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	subtasks, err := svc.ListCardSubtasks(ctx, cardID)
	if err != nil {
		return errorResult("listing subtasks", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d subtasks on card %d:", len(subtasks), cardID), subtasks), nil
}

func (s *Server) handleGetCardSubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subtaskID, err := request.RequireInt("subtask_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	subtask, err := svc.GetCardSubtask(ctx, cardID, subtaskID)
	if err != nil {
		return errorResult("fetching subtask", err), nil
	}

	return jsonResult(fmt.Sprintf("Subtask %d on card %d:", subtaskID, cardID), subtask), nil
}

func (s *Server) handleCreateCardSubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := request.RequireString("description"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	subtask, err := svc.CreateCardSubtask(ctx, cardID, subtaskInputFromRequest(request))
	if err != nil {
		return errorResult("creating subtask", err), nil
	}

	return jsonResult(fmt.Sprintf("Subtask added to card %d:", cardID), subtask), nil
}

func (s *Server) handleUpdateCardSubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subtaskID, err := request.RequireInt("subtask_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := subtaskInputFromRequest(request)
	if input == (businessmap.SubtaskInput{}) {
		return mcp.NewToolResultError("nothing to update: provide at least one subtask attribute"), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	subtask, err := svc.UpdateCardSubtask(ctx, cardID, subtaskID, input)
	if err != nil {
		return errorResult("updating subtask", err), nil
	}

	return jsonResult(fmt.Sprintf("Subtask %d on card %d updated:", subtaskID, cardID), subtask), nil
}

func (s *Server) handleDeleteCardSubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subtaskID, err := request.RequireInt("subtask_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.DeleteCardSubtask(ctx, cardID, subtaskID); err != nil {
		return errorResult("deleting subtask", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Subtask %d deleted from card %d", subtaskID, cardID)), nil
}

func (s *Server) registerChildTools() {
	s.addTool(mcp.NewTool(
		"get_card_children",
		mcp.WithDescription("List the child cards linked to a card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Parent card ID")),
		withInstance(),
	), false, s.handleGetCardChildren)

	s.addTool(mcp.NewTool(
		"link_card_child",
		mcp.WithDescription("Make a card the child of another card"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Parent card ID")),
		mcp.WithNumber("child_card_id", mcp.Required(), mcp.Description("Child card ID")),
		withInstance(),
	), true, s.handleLinkCardChild)

	s.addTool(mcp.NewTool(
		"unlink_card_child",
		mcp.WithDescription("Remove a parent-child link; both cards are kept"),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Parent card ID")),
		mcp.WithNumber("child_card_id", mcp.Required(), mcp.Description("Child card ID")),
		withInstance(),
	), true, s.handleUnlinkCardChild)
}

func (s *Server) handleGetCardChildren(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	children, err := svc.ListCardChildren(ctx, cardID)
	if err != nil {
		return errorResult("listing child cards", err), nil
	}

	return jsonResult(fmt.Sprintf("Found %d child cards of card %d:", len(children), cardID), children), nil
}

func (s *Server) handleLinkCardChild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, childID, errResult := parentChildIDs(request)
	if errResult != nil {
		return errResult, nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.LinkCardChild(ctx, cardID, childID); err != nil {
		return errorResult("linking child card", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Card %d is now a child of card %d", childID, cardID)), nil
}

func (s *Server) handleUnlinkCardChild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, childID, errResult := parentChildIDs(request)
	if errResult != nil {
		return errResult, nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := svc.UnlinkCardChild(ctx, cardID, childID); err != nil {
		return errorResult("unlinking child card", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Card %d is no longer a child of card %d", childID, cardID)), nil
}

func parentChildIDs(request mcp.CallToolRequest) (int, int, *mcp.CallToolResult) {
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return 0, 0, mcp.NewToolResultError(err.Error())
	}
	childID, err := request.RequireInt("child_card_id")
	if err != nil {
		return 0, 0, mcp.NewToolResultError(err.Error())
	}
	if cardID == childID {
		return 0, 0, mcp.NewToolResultError("a card cannot be its own child")
	}
	return cardID, childID, nil
}
