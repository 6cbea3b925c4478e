package businessmap

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestBulkDeleteCardsRecordsPerItemFailures(t *testing.T) {
	service, fake := setupService(t, WithRetryMax(0))
	for _, id := range []string{"1", "3"} {
		fake.respond(http.MethodPatch, "/cards/"+id, http.StatusOK, Card{})
		fake.respond(http.MethodDelete, "/cards/"+id, http.StatusNoContent, nil)
	}
	fake.respond(http.MethodPatch, "/cards/2", http.StatusOK, Card{})
	fake.handle(http.MethodDelete, "/cards/2", func(w http.ResponseWriter, _ *http.Request) {
		writeError(t, w, http.StatusForbidden, "403", "Forbidden")
	})

	result := service.BulkDeleteCards(context.Background(), []int{1, 2, 3})

	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if got := result.Succeeded(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected successes: %v", got)
	}

	failed := result.Failed()
	if len(failed) != 1 || failed[0].ID != 2 {
		t.Fatalf("unexpected failures: %#v", failed)
	}
	if !strings.Contains(failed[0].Error, "403") {
		t.Errorf("expected the API status in the error, got %q", failed[0].Error)
	}
}

func TestBulkDeleteWorkspacesArchives(t *testing.T) {
	service, fake := setupService(t)
	fake.respond(http.MethodPatch, "/workspaces/5", http.StatusOK, Workspace{WorkspaceID: 5, IsArchived: 1})

	result := service.BulkDeleteWorkspaces(context.Background(), []int{5})
	if len(result.Failed()) != 0 {
		t.Fatalf("unexpected failures: %#v", result.Failed())
	}

	calls := fake.recorded()
	if len(calls) != 1 || calls[0].Method != http.MethodPatch || calls[0].Body["is_archived"] != float64(1) {
		t.Fatalf("expected a single archive PATCH, got %#v", calls)
	}
}

func TestBulkStopsIssuingRequestsAfterCancel(t *testing.T) {
	service, fake := setupService(t)
	fake.respond(http.MethodPatch, "/cards/1", http.StatusOK, Card{CardID: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := service.BulkUpdateCards(ctx, []int{1, 2}, CardInput{Color: strPtr("ff0000")})

	if len(result.Failed()) != 2 {
		t.Fatalf("expected every item to fail after cancel, got %#v", result.Items)
	}
	if n := len(fake.recorded()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func strPtr(s string) *string { return &s }
