package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ylchen07/businessmap-mcp-server/internal/bulk"
	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
)

const workspaceArchiveNote = "Note: workspaces are archived, not permanently deleted; the BusinessMap API has no hard delete for workspaces."

func bulkDeleteOptions(description, noun string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithArray("resource_ids", mcp.Required(),
			mcp.Description(fmt.Sprintf("IDs of the %ss to delete", noun)),
			mcp.Items(map[string]any{"type": "integer"}),
		),
		mcp.WithBoolean("analyze_dependencies",
			mcp.Description("Inspect what else would be removed and ask for confirmation first (default: true)"),
		),
		mcp.WithBoolean("confirm",
			mcp.Description("Set to true to delete after reviewing the confirmation message (default: false)"),
		),
		withInstance(),
	}
}

func (s *Server) registerBulkTools() {
	s.addTool(mcp.NewTool("bulk_delete_workspaces", bulkDeleteOptions(
		"Archive several workspaces; boards inside them are listed for confirmation first", "workspace",
	)...), true, s.handleBulkDeleteWorkspaces)

	s.addTool(mcp.NewTool("bulk_delete_boards", bulkDeleteOptions(
		"Delete several boards; boards that still hold cards are listed for confirmation first", "board",
	)...), true, s.handleBulkDeleteBoards)

	s.addTool(mcp.NewTool("bulk_delete_cards", bulkDeleteOptions(
		"Delete several cards; cards with comments, subtasks or child cards are listed for confirmation first", "card",
	)...), true, s.handleBulkDeleteCards)

	updateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Apply the same attribute changes to several cards"),
		mcp.WithArray("resource_ids", mcp.Required(),
			mcp.Description("IDs of the cards to update"),
			mcp.Items(map[string]any{"type": "integer"}),
		),
		mcp.WithString("title", mcp.Description("Card title")),
		mcp.WithNumber("column_id", mcp.Description("Move to this column")),
		mcp.WithNumber("lane_id", mcp.Description("Move to this lane")),
		withInstance(),
	}, cardFieldOptions()...)
	s.addTool(mcp.NewTool("bulk_update_cards", updateOpts...), true, s.handleBulkUpdateCards)
}

func (s *Server) handleBulkDeleteWorkspaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.bulkDelete(ctx, request, bulk.ResourceWorkspace), nil
}

func (s *Server) handleBulkDeleteBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.bulkDelete(ctx, request, bulk.ResourceBoard), nil
}

func (s *Server) handleBulkDeleteCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.bulkDelete(ctx, request, bulk.ResourceCard), nil
}

// bulkDelete analyzes the batch, asks for confirmation when something beyond the listed
// resources would be affected, then deletes item by item.
func (s *Server) bulkDelete(ctx context.Context, request mcp.CallToolRequest, resourceType bulk.ResourceType) *mcp.CallToolResult {
	ids, errResult := resourceIDs(request)
	if errResult != nil {
		return errResult
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult
	}

	confirmed := request.GetBool("confirm", false)

	var names map[int]string
	if request.GetBool("analyze_dependencies", true) {
		analysis := s.analyze(ctx, svc, resourceType, ids)
		names = analysis.NameMap

		if !confirmed {
			if confirmation := bulk.BuildConfirmation(analysis); confirmation != nil {
				return confirmationResult(confirmation, analysis)
			}
			if unverified := analysis.Unverified(); len(unverified) > 0 {
				return mcp.NewToolResultText(unverifiedWarning(resourceType, unverified) +
					"\n\nNothing was deleted. Re-run with confirm=true to delete anyway.")
			}
		}
	}

	var result *businessmap.BulkResult
	switch resourceType {
	case bulk.ResourceWorkspace:
		result = svc.BulkDeleteWorkspaces(ctx, ids)
	case bulk.ResourceBoard:
		result = svc.BulkDeleteBoards(ctx, ids)
	default:
		result = svc.BulkDeleteCards(ctx, ids)
	}

	successes, failures := splitResult(result, names)

	var msg string
	switch {
	case len(failures) == 0:
		msg = bulk.FormatSimpleSuccess(resourceType, len(successes), successes)
	case len(successes) == 0:
		return mcp.NewToolResultError(bulk.FormatFailure(resourceType, failures))
	default:
		msg = bulk.FormatPartialSuccess(resourceType, successes, failures)
	}

	if resourceType == bulk.ResourceWorkspace {
		msg += "\n\n" + workspaceArchiveNote
	}
	return mcp.NewToolResultText(msg)
}

func (s *Server) analyze(ctx context.Context, svc *businessmap.Service, resourceType bulk.ResourceType, ids []int) bulk.BulkDependencyAnalysis {
	analyzer := bulk.NewAnalyzer(svc, bulk.WithConcurrency(s.concurrency), bulk.WithLogger(s.logger))

	switch resourceType {
	case bulk.ResourceWorkspace:
		return analyzer.AnalyzeWorkspaces(ctx, ids)
	case bulk.ResourceBoard:
		return analyzer.AnalyzeBoards(ctx, ids)
	default:
		return analyzer.AnalyzeCards(ctx, ids)
	}
}

func confirmationResult(confirmation *bulk.Confirmation, analysis bulk.BulkDependencyAnalysis) *mcp.CallToolResult {
	var b strings.Builder
	b.WriteString(confirmation.Message)

	if unverified := analysis.Unverified(); len(unverified) > 0 {
		b.WriteString("\n\n")
		b.WriteString(unverifiedWarning(unverified[0].Type, unverified))
	}

	if impact, err := json.MarshalIndent(confirmation.TotalImpact, "", "  "); err == nil {
		fmt.Fprintf(&b, "\n\nImpact summary:\n%s", impact)
	}

	b.WriteString("\n\nNothing was deleted. Re-run with confirm=true to proceed.")
	return mcp.NewToolResultText(b.String())
}

func unverifiedWarning(resourceType bulk.ResourceType, unverified []bulk.ResourceDependency) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️  Dependencies of %s could not be checked:\n", resourceType.Count(len(unverified)))
	for _, r := range unverified {
		fmt.Fprintf(&b, "  • %s (ID: %d)\n", r.Name, r.ID)
	}
	b.WriteString("They may still have boards, cards, comments, subtasks or child cards that would be removed.")
	return b.String()
}

func splitResult(result *businessmap.BulkResult, names map[int]string) ([]bulk.ResourceRef, []bulk.FailedResource) {
	var successes []bulk.ResourceRef
	var failures []bulk.FailedResource

	for _, item := range result.Items {
		if item.OK() {
			successes = append(successes, bulk.ResourceRef{ID: item.ID, Name: names[item.ID]})
			continue
		}
		failures = append(failures, bulk.FailedResource{ID: item.ID, Name: names[item.ID], Error: item.Error})
	}

	return successes, failures
}

func resourceIDs(request mcp.CallToolRequest) ([]int, *mcp.CallToolResult) {
	ids, err := request.RequireIntSlice("resource_ids")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	if len(ids) == 0 {
		return nil, mcp.NewToolResultError("resource_ids must contain at least one ID")
	}

	seen := make(map[int]bool, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique, nil
}

func (s *Server) handleBulkUpdateCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, errResult := resourceIDs(request)
	if errResult != nil {
		return errResult, nil
	}

	input := cardInputFromRequest(request)
	input.Position = nil
	if input == (businessmap.CardInput{}) {
		return mcp.NewToolResultError("nothing to update: provide at least one card attribute"), nil
	}

	svc, errResult := s.service(request)
	if errResult != nil {
		return errResult, nil
	}

	result := svc.BulkUpdateCards(ctx, ids, input)
	succeeded := result.Succeeded()
	failed := result.Failed()

	summary := map[string]any{
		"updated_count": len(succeeded),
		"updated_ids":   succeeded,
	}
	if len(failed) > 0 {
		summary["failed_updates"] = failed
	}

	if len(succeeded) == 0 {
		jsonData, _ := json.MarshalIndent(summary, "", "  ")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update %d cards:\n\n%s", len(failed), jsonData)), nil
	}
	if len(failed) > 0 {
		return jsonResult(fmt.Sprintf("Updated %d/%d cards. Some updates failed:", len(succeeded), len(ids)), summary), nil
	}
	return jsonResult(fmt.Sprintf("Updated %d/%d cards:", len(succeeded), len(ids)), summary), nil
}
