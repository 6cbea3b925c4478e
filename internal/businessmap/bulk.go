package businessmap

import (
	"context"
)

// BulkItemResult records the outcome of one item of a bulk call.
type BulkItemResult struct {
	ID    int    `json:"id"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the item succeeded.
func (r BulkItemResult) OK() bool { return r.Error == "" }

// BulkResult summarizes a bulk call. Items keep the input order.
type BulkResult struct {
	Items []BulkItemResult `json:"items"`
}

// Succeeded returns the IDs that completed.
func (r *BulkResult) Succeeded() []int {
	var ids []int
	for _, item := range r.Items {
		if item.OK() {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Failed returns the items that did not complete.
func (r *BulkResult) Failed() []BulkItemResult {
	var failed []BulkItemResult
	for _, item := range r.Items {
		if !item.OK() {
			failed = append(failed, item)
		}
	}
	return failed
}

// BulkDeleteWorkspaces archives each workspace. Failures are recorded per item and never
// undo items that already succeeded.
func (s *Service) BulkDeleteWorkspaces(ctx context.Context, workspaceIDs []int) *BulkResult {
	return s.runBulk(ctx, "archive workspace", workspaceIDs, s.ArchiveWorkspace)
}

// BulkDeleteBoards archives and deletes each board.
func (s *Service) BulkDeleteBoards(ctx context.Context, boardIDs []int) *BulkResult {
	return s.runBulk(ctx, "delete board", boardIDs, func(ctx context.Context, id int) error {
		return s.DeleteBoard(ctx, id, true)
	})
}

// BulkDeleteCards archives and deletes each card.
func (s *Service) BulkDeleteCards(ctx context.Context, cardIDs []int) *BulkResult {
	return s.runBulk(ctx, "delete card", cardIDs, func(ctx context.Context, id int) error {
		return s.DeleteCard(ctx, id, true)
	})
}

// BulkUpdateCards applies the same input to every card.
func (s *Service) BulkUpdateCards(ctx context.Context, cardIDs []int, input CardInput) *BulkResult {
	return s.runBulk(ctx, "update card", cardIDs, func(ctx context.Context, id int) error {
		_, err := s.UpdateCard(ctx, id, input)
		return err
	})
}

func (s *Service) runBulk(ctx context.Context, action string, ids []int, op func(context.Context, int) error) *BulkResult {
	result := &BulkResult{Items: make([]BulkItemResult, 0, len(ids))}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Items = append(result.Items, BulkItemResult{ID: id, Error: err.Error()})
			continue
		}

		if err := op(ctx, id); err != nil {
			s.log.Printf("error during %s %d: %v", action, id, err)
			result.Items = append(result.Items, BulkItemResult{ID: id, Error: err.Error()})
			continue
		}

		result.Items = append(result.Items, BulkItemResult{ID: id})
	}

	return result
}
