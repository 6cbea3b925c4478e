package businessmap

// Workspace captures the workspace attributes returned to MCP clients.
type Workspace struct {
	WorkspaceID int    `json:"workspace_id"`
	Type        int    `json:"type,omitempty"`
	IsArchived  int    `json:"is_archived"`
	Name        string `json:"name"`
}

// Board is a BusinessMap board.
type Board struct {
	BoardID     int    `json:"board_id"`
	WorkspaceID int    `json:"workspace_id"`
	IsArchived  int    `json:"is_archived"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Revision    int    `json:"revision,omitempty"`
}

// Column is one workflow column of a board.
type Column struct {
	ColumnID       int    `json:"column_id"`
	WorkflowID     int    `json:"workflow_id"`
	Section        int    `json:"section"`
	ParentColumnID *int   `json:"parent_column_id,omitempty"`
	Position       int    `json:"position"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Color          string `json:"color,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

// Lane is one swimlane of a board workflow.
type Lane struct {
	LaneID       int    `json:"lane_id"`
	WorkflowID   int    `json:"workflow_id"`
	ParentLaneID *int   `json:"parent_lane_id,omitempty"`
	Position     int    `json:"position"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Color        string `json:"color,omitempty"`
}

// BoardStructure bundles the columns and lanes of a board.
type BoardStructure struct {
	BoardID int      `json:"board_id"`
	Columns []Column `json:"columns"`
	Lanes   []Lane   `json:"lanes"`
}

// Card is a BusinessMap card.
type Card struct {
	CardID      int    `json:"card_id"`
	CustomID    string `json:"custom_id,omitempty"`
	BoardID     int    `json:"board_id"`
	WorkflowID  int    `json:"workflow_id"`
	ColumnID    int    `json:"column_id"`
	LaneID      int    `json:"lane_id"`
	Section     int    `json:"section,omitempty"`
	Position    int    `json:"position"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerUserID *int   `json:"owner_user_id,omitempty"`
	TypeID      *int   `json:"type_id,omitempty"`
	Color       string `json:"color,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
	Size        *int   `json:"size,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	IsArchived  int    `json:"is_archived,omitempty"`
}

// CardLink is a child or parent reference of a card.
type CardLink struct {
	CardID   int    `json:"card_id"`
	Position int    `json:"position,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Author identifies who wrote a comment.
type Author struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Comment is a card comment.
type Comment struct {
	CommentID int    `json:"comment_id"`
	Type      string `json:"type,omitempty"`
	Text      string `json:"text"`
	Author    Author `json:"author"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Subtask is a checklist item attached to a card.
type Subtask struct {
	SubtaskID   int    `json:"subtask_id"`
	Description string `json:"description"`
	OwnerUserID *int   `json:"owner_user_id,omitempty"`
	FinishedAt  string `json:"finished_at,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Position    int    `json:"position"`
}

// CustomField describes a custom field definition.
type CustomField struct {
	FieldID     int    `json:"field_id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsEnabled   int    `json:"is_enabled,omitempty"`
	IsImmutable int    `json:"is_immutable,omitempty"`
}

// User is a BusinessMap account.
type User struct {
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	RealName  string `json:"realname"`
	IsEnabled int    `json:"is_enabled"`
}

// Pagination mirrors the pagination block of list responses.
type Pagination struct {
	AllPages       int `json:"all_pages"`
	CurrentPage    int `json:"current_page"`
	ResultsPerPage int `json:"results_per_page"`
}

// CardPage is one page of a card listing.
type CardPage struct {
	Pagination Pagination `json:"pagination"`
	Cards      []Card     `json:"data"`
}
