package app

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
)

// fakeAPI is an in-memory BusinessMap account served over httptest.
type fakeAPI struct {
	t *testing.T

	mu         sync.Mutex
	workspaces map[int]businessmap.Workspace
	boards     map[int]businessmap.Board
	cards      map[int]businessmap.Card
	comments   map[int]int
	subtasks   map[int]int
	children   map[int][]businessmap.CardLink
	failGet    map[string]int
	failDelete map[string]int
	mutations  []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		t:          t,
		workspaces: make(map[int]businessmap.Workspace),
		boards:     make(map[int]businessmap.Board),
		cards:      make(map[int]businessmap.Card),
		comments:   make(map[int]int),
		subtasks:   make(map[int]int),
		children:   make(map[int][]businessmap.CardLink),
		failGet:    make(map[string]int),
		failDelete: make(map[string]int),
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api/v2")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if r.Method != http.MethodGet {
		f.mutations = append(f.mutations, r.Method+" "+path)
		if status, ok := f.failDelete[path]; ok {
			f.writeError(w, status)
			return
		}
		f.writeData(w, http.StatusOK, map[string]any{})
		return
	}

	if status, ok := f.failGet[path]; ok {
		f.writeError(w, status)
		return
	}

	switch {
	case len(parts) == 2 && parts[0] == "workspaces":
		if ws, ok := f.workspaces[atoi(parts[1])]; ok {
			f.writeData(w, http.StatusOK, ws)
			return
		}
	case len(parts) == 1 && parts[0] == "boards":
		wsID := atoi(r.URL.Query().Get("workspace_ids"))
		var out []businessmap.Board
		for _, b := range f.boards {
			if wsID == 0 || b.WorkspaceID == wsID {
				out = append(out, b)
			}
		}
		f.writeData(w, http.StatusOK, out)
		return
	case len(parts) == 2 && parts[0] == "boards":
		if b, ok := f.boards[atoi(parts[1])]; ok {
			f.writeData(w, http.StatusOK, b)
			return
		}
	case len(parts) == 1 && parts[0] == "cards":
		boardID := atoi(r.URL.Query().Get("board_ids"))
		out := []businessmap.Card{}
		for _, c := range f.cards {
			if c.BoardID == boardID {
				out = append(out, c)
			}
		}
		f.writeData(w, http.StatusOK, businessmap.CardPage{
			Pagination: businessmap.Pagination{AllPages: 1, CurrentPage: 1},
			Cards:      out,
		})
		return
	case len(parts) == 2 && parts[0] == "cards":
		if c, ok := f.cards[atoi(parts[1])]; ok {
			f.writeData(w, http.StatusOK, c)
			return
		}
	case len(parts) == 3 && parts[0] == "cards":
		id := atoi(parts[1])
		switch parts[2] {
		case "comments":
			f.writeData(w, http.StatusOK, make([]businessmap.Comment, f.comments[id]))
			return
		case "subtasks":
			f.writeData(w, http.StatusOK, make([]businessmap.Subtask, f.subtasks[id]))
			return
		case "children":
			f.writeData(w, http.StatusOK, append([]businessmap.CardLink{}, f.children[id]...))
			return
		}
	}

	f.writeError(w, http.StatusNotFound)
}

func (f *fakeAPI) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeAPI) writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"error": map[string]any{"code": status, "message": http.StatusText(status)}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		f.t.Errorf("encode error: %v", err)
	}
}

func (f *fakeAPI) recordedMutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.mutations...)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func setupServer(t *testing.T, fake *fakeAPI, opts ...Option) *Server {
	t.Helper()

	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	logger := log.New(io.Discard, "", 0)
	factory, err := businessmap.NewFactory(
		[]businessmap.InstanceConfig{{Name: "test", BaseURL: ts.URL, Token: "test-token"}},
		"test", logger,
		businessmap.WithRetryMax(0),
		businessmap.WithRetryWait(time.Millisecond, time.Millisecond),
	)
	if err != nil {
		t.Fatalf("create factory: %v", err)
	}

	return NewServer(factory, logger, opts...)
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(result *mcp.CallToolResult) string {
	var combined strings.Builder
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			combined.WriteString(textContent.Text)
		}
	}
	return combined.String()
}

func idArgs(values ...int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
