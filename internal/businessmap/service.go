package businessmap

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Service wraps a BusinessMap API client and exposes higher-level operations for MCP tools.
type Service struct {
	client *Client
	log    *log.Logger
}

// NewService creates a new Service instance using the provided client and logger.
func NewService(client *Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		client: client,
		log:    logger,
	}
}

// BaseURL reports the API root this service talks to.
func (s *Service) BaseURL() string {
	if s.client == nil {
		return ""
	}
	return s.client.BaseURL()
}

// WorkspaceInput carries the writable workspace attributes.
type WorkspaceInput struct {
	Name       *string `json:"name,omitempty"`
	Type       *int    `json:"type,omitempty"`
	IsArchived *int    `json:"is_archived,omitempty"`
}

// ListWorkspaces returns all workspaces visible to the API key.
func (s *Service) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := s.client.do(ctx, http.MethodGet, "/workspaces", nil, nil, &workspaces); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetWorkspace retrieves a workspace by ID.
func (s *Service) GetWorkspace(ctx context.Context, workspaceID int) (*Workspace, error) {
	var workspace Workspace
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/workspaces/%d", workspaceID), nil, nil, &workspace); err != nil {
		return nil, fmt.Errorf("get workspace %d: %w", workspaceID, err)
	}
	return &workspace, nil
}

// CreateWorkspace creates a team workspace with the given name.
func (s *Service) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	body := WorkspaceInput{Name: &name, Type: intPtr(1)}

	var workspace Workspace
	if err := s.client.do(ctx, http.MethodPost, "/workspaces", nil, body, &workspace); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &workspace, nil
}

// UpdateWorkspace applies input to the workspace.
func (s *Service) UpdateWorkspace(ctx context.Context, workspaceID int, input WorkspaceInput) (*Workspace, error) {
	var workspace Workspace
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/workspaces/%d", workspaceID), nil, input, &workspace); err != nil {
		return nil, fmt.Errorf("update workspace %d: %w", workspaceID, err)
	}
	return &workspace, nil
}

// ArchiveWorkspace archives a workspace. The API has no hard delete for workspaces.
func (s *Service) ArchiveWorkspace(ctx context.Context, workspaceID int) error {
	input := WorkspaceInput{IsArchived: intPtr(1)}
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/workspaces/%d", workspaceID), nil, input, nil); err != nil {
		return fmt.Errorf("archive workspace %d: %w", workspaceID, err)
	}
	return nil
}

// ListBoardsOptions filters board listings.
type ListBoardsOptions struct {
	BoardIDs     []int  `url:"board_ids,comma,omitempty"`
	WorkspaceIDs []int  `url:"workspace_ids,comma,omitempty"`
	IsArchived   *int   `url:"is_archived,omitempty"`
	Name         string `url:"-"`
}

// BoardInput carries the writable board attributes.
type BoardInput struct {
	WorkspaceID *int    `json:"workspace_id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsArchived  *int    `json:"is_archived,omitempty"`
}

// ListBoards returns boards matching opts. Name is matched locally, case-insensitively.
func (s *Service) ListBoards(ctx context.Context, opts *ListBoardsOptions) ([]Board, error) {
	var boards []Board
	if err := s.client.do(ctx, http.MethodGet, "/boards", opts, nil, &boards); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	if opts == nil || strings.TrimSpace(opts.Name) == "" {
		return boards, nil
	}

	needle := strings.ToLower(strings.TrimSpace(opts.Name))
	filtered := boards[:0]
	for _, board := range boards {
		if strings.Contains(strings.ToLower(board.Name), needle) {
			filtered = append(filtered, board)
		}
	}
	return filtered, nil
}

// GetBoard retrieves a board by ID.
func (s *Service) GetBoard(ctx context.Context, boardID int) (*Board, error) {
	var board Board
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%d", boardID), nil, nil, &board); err != nil {
		return nil, fmt.Errorf("get board %d: %w", boardID, err)
	}
	return &board, nil
}

// CreateBoard creates a board in the given workspace.
func (s *Service) CreateBoard(ctx context.Context, workspaceID int, name, description string) (*Board, error) {
	input := BoardInput{WorkspaceID: &workspaceID, Name: &name}
	if description != "" {
		input.Description = &description
	}

	var board Board
	if err := s.client.do(ctx, http.MethodPost, "/boards", nil, input, &board); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	return &board, nil
}

// UpdateBoard applies input to the board.
func (s *Service) UpdateBoard(ctx context.Context, boardID int, input BoardInput) (*Board, error) {
	var board Board
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/boards/%d", boardID), nil, input, &board); err != nil {
		return nil, fmt.Errorf("update board %d: %w", boardID, err)
	}
	return &board, nil
}

// DeleteBoard deletes a board. The API only deletes archived boards, so archiveFirst archives it beforehand.
func (s *Service) DeleteBoard(ctx context.Context, boardID int, archiveFirst bool) error {
	if archiveFirst {
		input := BoardInput{IsArchived: intPtr(1)}
		if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/boards/%d", boardID), nil, input, nil); err != nil {
			return fmt.Errorf("archive board %d: %w", boardID, err)
		}
	}

	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/boards/%d", boardID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete board %d: %w", boardID, err)
	}
	return nil
}

// ListColumns returns the workflow columns of a board.
func (s *Service) ListColumns(ctx context.Context, boardID int) ([]Column, error) {
	var columns []Column
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/columns", boardID), nil, nil, &columns); err != nil {
		return nil, fmt.Errorf("list columns of board %d: %w", boardID, err)
	}
	return columns, nil
}

// ListLanes returns the lanes of a board.
func (s *Service) ListLanes(ctx context.Context, boardID int) ([]Lane, error) {
	var lanes []Lane
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/lanes", boardID), nil, nil, &lanes); err != nil {
		return nil, fmt.Errorf("list lanes of board %d: %w", boardID, err)
	}
	return lanes, nil
}

// GetBoardStructure returns the columns and lanes of a board.
func (s *Service) GetBoardStructure(ctx context.Context, boardID int) (*BoardStructure, error) {
	columns, err := s.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}

	lanes, err := s.ListLanes(ctx, boardID)
	if err != nil {
		return nil, err
	}

	return &BoardStructure{BoardID: boardID, Columns: columns, Lanes: lanes}, nil
}

// LaneInput carries the attributes of a new lane.
type LaneInput struct {
	WorkflowID  int    `json:"workflow_id"`
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// GetLane retrieves a lane by ID.
func (s *Service) GetLane(ctx context.Context, laneID int) (*Lane, error) {
	var lane Lane
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/lanes/%d", laneID), nil, nil, &lane); err != nil {
		return nil, fmt.Errorf("get lane %d: %w", laneID, err)
	}
	return &lane, nil
}

// CreateLane adds a lane to a board workflow.
func (s *Service) CreateLane(ctx context.Context, boardID int, input LaneInput) (*Lane, error) {
	var lane Lane
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/boards/%d/lanes", boardID), nil, input, &lane); err != nil {
		return nil, fmt.Errorf("create lane on board %d: %w", boardID, err)
	}
	return &lane, nil
}

// ListBoardCustomFields returns the custom fields enabled on a board.
func (s *Service) ListBoardCustomFields(ctx context.Context, boardID int) ([]CustomField, error) {
	var fields []CustomField
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/customFields", boardID), nil, nil, &fields); err != nil {
		return nil, fmt.Errorf("list custom fields of board %d: %w", boardID, err)
	}
	return fields, nil
}

// GetCustomField retrieves a custom field definition.
func (s *Service) GetCustomField(ctx context.Context, fieldID int) (*CustomField, error) {
	var field CustomField
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/customFields/%d", fieldID), nil, nil, &field); err != nil {
		return nil, fmt.Errorf("get custom field %d: %w", fieldID, err)
	}
	return &field, nil
}

// GetCurrentUser returns the user that owns the API key.
func (s *Service) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.do(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &user, nil
}

// ListUsers returns the users of the account.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func intPtr(v int) *int { return &v }
