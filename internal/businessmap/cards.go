package businessmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListCardsOptions filters card listings.
type ListCardsOptions struct {
	CardIDs    []int `url:"card_ids,comma,omitempty"`
	BoardIDs   []int `url:"board_ids,comma,omitempty"`
	ColumnIDs  []int `url:"column_ids,comma,omitempty"`
	LaneIDs    []int `url:"lane_ids,comma,omitempty"`
	IsArchived *int  `url:"is_archived,omitempty"`
	Page       int   `url:"page,omitempty"`
	PerPage    int   `url:"per_page,omitempty"`
}

// CardInput carries the writable card attributes.
type CardInput struct {
	ColumnID    *int    `json:"column_id,omitempty"`
	LaneID      *int    `json:"lane_id,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	OwnerUserID *int    `json:"owner_user_id,omitempty"`
	TypeID      *int    `json:"type_id,omitempty"`
	Color       *string `json:"color,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Size        *int    `json:"size,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	IsArchived  *int    `json:"is_archived,omitempty"`
}

// ListCards returns a single page of cards matching opts.
func (s *Service) ListCards(ctx context.Context, opts *ListCardsOptions) (*CardPage, error) {
	var page CardPage
	if err := s.client.do(ctx, http.MethodGet, "/cards", opts, nil, &page); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return &page, nil
}

// ListAllCards follows pagination and returns every card matching opts.
func (s *Service) ListAllCards(ctx context.Context, opts *ListCardsOptions) ([]Card, error) {
	pageOpts := ListCardsOptions{}
	if opts != nil {
		pageOpts = *opts
	}
	if pageOpts.PerPage <= 0 {
		pageOpts.PerPage = DefaultPerPage
	}
	pageOpts.Page = 1

	var results []Card
	for {
		page, err := s.ListCards(ctx, &pageOpts)
		if err != nil {
			return nil, err
		}

		results = append(results, page.Cards...)

		if len(page.Cards) == 0 || page.Pagination.CurrentPage >= page.Pagination.AllPages {
			break
		}

		pageOpts.Page = page.Pagination.CurrentPage + 1
	}

	return results, nil
}

// GetCard retrieves a card by ID.
func (s *Service) GetCard(ctx context.Context, cardID int) (*Card, error) {
	var card Card
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d", cardID), nil, nil, &card); err != nil {
		return nil, fmt.Errorf("get card %d: %w", cardID, err)
	}
	return &card, nil
}

// CreateCard creates a card. ColumnID, LaneID and Title are required by the API.
func (s *Service) CreateCard(ctx context.Context, input CardInput) (*Card, error) {
	if input.ColumnID == nil || input.LaneID == nil || input.Title == nil {
		return nil, fmt.Errorf("create card: column_id, lane_id and title are required")
	}

	var raw json.RawMessage
	if err := s.client.do(ctx, http.MethodPost, "/cards", nil, input, &raw); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	// The API answers with either the card or a one-element list of cards.
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var created []Card
		if err := json.Unmarshal(raw, &created); err != nil {
			return nil, fmt.Errorf("decode created card: %w", err)
		}
		if len(created) == 0 {
			return nil, fmt.Errorf("create card: empty response")
		}
		return &created[0], nil
	}

	var card Card
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("decode created card: %w", err)
	}
	return &card, nil
}

// UpdateCard applies input to the card.
func (s *Service) UpdateCard(ctx context.Context, cardID int, input CardInput) (*Card, error) {
	var card Card
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/cards/%d", cardID), nil, input, &card); err != nil {
		return nil, fmt.Errorf("update card %d: %w", cardID, err)
	}
	return &card, nil
}

// MoveCard places the card in another column and, optionally, lane and position.
func (s *Service) MoveCard(ctx context.Context, cardID, columnID int, laneID, position *int) (*Card, error) {
	return s.UpdateCard(ctx, cardID, CardInput{ColumnID: &columnID, LaneID: laneID, Position: position})
}

// DeleteCard deletes a card, archiving it first when archiveFirst is set.
func (s *Service) DeleteCard(ctx context.Context, cardID int, archiveFirst bool) error {
	if archiveFirst {
		input := CardInput{IsArchived: intPtr(1)}
		if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/cards/%d", cardID), nil, input, nil); err != nil {
			return fmt.Errorf("archive card %d: %w", cardID, err)
		}
	}

	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d", cardID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete card %d: %w", cardID, err)
	}
	return nil
}

type commentInput struct {
	Text string `json:"text"`
}

// ListCardComments returns the comments of a card.
func (s *Service) ListCardComments(ctx context.Context, cardID int) ([]Comment, error) {
	var comments []Comment
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d/comments", cardID), nil, nil, &comments); err != nil {
		return nil, fmt.Errorf("list comments of card %d: %w", cardID, err)
	}
	return comments, nil
}

// GetCardComment retrieves one comment of a card.
func (s *Service) GetCardComment(ctx context.Context, cardID, commentID int) (*Comment, error) {
	var comment Comment
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d/comments/%d", cardID, commentID), nil, nil, &comment); err != nil {
		return nil, fmt.Errorf("get comment %d of card %d: %w", commentID, cardID, err)
	}
	return &comment, nil
}

// CreateCardComment adds a comment to a card.
func (s *Service) CreateCardComment(ctx context.Context, cardID int, text string) (*Comment, error) {
	var comment Comment
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/cards/%d/comments", cardID), nil, commentInput{Text: text}, &comment); err != nil {
		return nil, fmt.Errorf("create comment on card %d: %w", cardID, err)
	}
	return &comment, nil
}

// UpdateCardComment replaces the text of a comment.
func (s *Service) UpdateCardComment(ctx context.Context, cardID, commentID int, text string) (*Comment, error) {
	var comment Comment
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/cards/%d/comments/%d", cardID, commentID), nil, commentInput{Text: text}, &comment); err != nil {
		return nil, fmt.Errorf("update comment %d of card %d: %w", commentID, cardID, err)
	}
	return &comment, nil
}

// DeleteCardComment removes a comment.
func (s *Service) DeleteCardComment(ctx context.Context, cardID, commentID int) error {
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d/comments/%d", cardID, commentID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete comment %d of card %d: %w", commentID, cardID, err)
	}
	return nil
}

// SubtaskInput carries the writable subtask attributes.
type SubtaskInput struct {
	Description *string `json:"description,omitempty"`
	OwnerUserID *int    `json:"owner_user_id,omitempty"`
	IsFinished  *int    `json:"is_finished,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

// ListCardSubtasks returns the subtasks of a card.
func (s *Service) ListCardSubtasks(ctx context.Context, cardID int) ([]Subtask, error) {
	var subtasks []Subtask
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d/subtasks", cardID), nil, nil, &subtasks); err != nil {
		return nil, fmt.Errorf("list subtasks of card %d: %w", cardID, err)
	}
	return subtasks, nil
}

// GetCardSubtask retrieves one subtask of a card.
func (s *Service) GetCardSubtask(ctx context.Context, cardID, subtaskID int) (*Subtask, error) {
	var subtask Subtask
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d/subtasks/%d", cardID, subtaskID), nil, nil, &subtask); err != nil {
		return nil, fmt.Errorf("get subtask %d of card %d: %w", subtaskID, cardID, err)
	}
	return &subtask, nil
}

// CreateCardSubtask adds a subtask to a card.
func (s *Service) CreateCardSubtask(ctx context.Context, cardID int, input SubtaskInput) (*Subtask, error) {
	if input.Description == nil || *input.Description == "" {
		return nil, fmt.Errorf("create subtask: description is required")
	}

	var subtask Subtask
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/cards/%d/subtasks", cardID), nil, input, &subtask); err != nil {
		return nil, fmt.Errorf("create subtask on card %d: %w", cardID, err)
	}
	return &subtask, nil
}

// UpdateCardSubtask applies input to a subtask.
func (s *Service) UpdateCardSubtask(ctx context.Context, cardID, subtaskID int, input SubtaskInput) (*Subtask, error) {
	var subtask Subtask
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/cards/%d/subtasks/%d", cardID, subtaskID), nil, input, &subtask); err != nil {
		return nil, fmt.Errorf("update subtask %d of card %d: %w", subtaskID, cardID, err)
	}
	return &subtask, nil
}

// DeleteCardSubtask removes a subtask.
func (s *Service) DeleteCardSubtask(ctx context.Context, cardID, subtaskID int) error {
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d/subtasks/%d", cardID, subtaskID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete subtask %d of card %d: %w", subtaskID, cardID, err)
	}
	return nil
}

// ListCardChildren returns the child cards linked to a card.
func (s *Service) ListCardChildren(ctx context.Context, cardID int) ([]CardLink, error) {
	var children []CardLink
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d/children", cardID), nil, nil, &children); err != nil {
		return nil, fmt.Errorf("list children of card %d: %w", cardID, err)
	}
	return children, nil
}

// LinkCardChild makes childID a child of cardID.
func (s *Service) LinkCardChild(ctx context.Context, cardID, childID int) error {
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/cards/%d/children/%d", cardID, childID), nil, nil, nil); err != nil {
		return fmt.Errorf("link child %d to card %d: %w", childID, cardID, err)
	}
	return nil
}

// UnlinkCardChild removes the parent link between cardID and childID. The child card itself is kept.
func (s *Service) UnlinkCardChild(ctx context.Context, cardID, childID int) error {
	if err := s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d/children/%d", cardID, childID), nil, nil, nil); err != nil {
		return fmt.Errorf("unlink child %d from card %d: %w", childID, cardID, err)
	}
	return nil
}
