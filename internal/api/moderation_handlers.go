package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/heritageapp/heritage-admin/internal/aggregate"
	"github.com/heritageapp/heritage-admin/internal/domain"
)

func (s *Server) registerModerationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listModerationQueue",
		Method:      http.MethodGet,
		Path:        "/api/v1/moderation/comments",
		Summary:     "List moderation queue",
		Description: "Returns comments across the whole collection with per-state counts",
		Tags:        []string{"Moderation"},
	}, s.handleListModerationQueue)

	huma.Register(s.api, huma.Operation{
		OperationID: "setCommentState",
		Method:      http.MethodPatch,
		Path:        "/api/v1/sites/{siteID}/comments/{commentID}",
		Summary:     "Set comment moderation state",
		Description: "Approves or rejects a comment anywhere in the site tree",
		Tags:        []string{"Moderation"},
	}, s.handleSetCommentState)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sites/{siteID}/comments/{commentID}",
		Summary:     "Delete comment",
		Description: "Removes a comment from the site tree",
		Tags:        []string{"Moderation"},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/sites/{siteID}/comments",
		Summary:     "Add comment",
		Description: "Appends a visitor comment, created pending moderation",
		Tags:        []string{"Moderation"},
	}, s.handleAddComment)
}

// === DTOs ===

// ListModerationQueueInput contains filters for the moderation queue.
type ListModerationQueueInput struct {
	Site   string `query:"site" doc:"Filter by owning site ID"`
	Status string `query:"status" doc:"Filter by moderation state: approved, pending or rejected"`
}

// ModerationQueueResponse contains the filtered queue and collection-wide counts.
type ModerationQueueResponse struct {
	Comments []aggregate.OwnedComment `json:"comments" doc:"Filtered comment queue"`
	Counts   aggregate.StatusCounts   `json:"counts" doc:"Per-state totals over the whole collection"`
}

// ModerationQueueOutput wraps the moderation queue response for Huma.
type ModerationQueueOutput struct {
	Body ModerationQueueResponse
}

// SetCommentStateRequest is the request body for a moderation transition.
type SetCommentStateRequest struct {
	State      string `json:"state" enum:"approved,pending,rejected" doc:"Target moderation state"`
	MonumentID string `json:"monumentId,omitempty" doc:"Owning monument ID, empty to search the whole tree"`
}

// SetCommentStateInput wraps the moderation transition request for Huma.
type SetCommentStateInput struct {
	SiteID    string `path:"siteID" doc:"Owning site ID"`
	CommentID string `path:"commentID" doc:"Comment ID"`
	Body      SetCommentStateRequest
}

// DeleteCommentInput contains parameters for deleting a comment.
type DeleteCommentInput struct {
	SiteID     string `path:"siteID" doc:"Owning site ID"`
	CommentID  string `path:"commentID" doc:"Comment ID"`
	MonumentID string `query:"monument" doc:"Owning monument ID, empty to search the whole tree"`
}

// AddCommentRequest is the request body for adding a comment.
type AddCommentRequest struct {
	AuthorName string   `json:"authorName" doc:"Comment author"`
	Message    string   `json:"message" doc:"Comment text"`
	Rating     *float64 `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Optional rating from 1 to 5"`
	MonumentID string   `json:"monumentId,omitempty" doc:"Owning monument ID, empty for a site-level comment"`
}

// AddCommentInput wraps the add comment request for Huma.
type AddCommentInput struct {
	SiteID string `path:"siteID" doc:"Owning site ID"`
	Body   AddCommentRequest
}

// CommentOutput wraps a single comment response for Huma.
type CommentOutput struct {
	Body domain.Comment
}

// === Handlers ===

func (s *Server) handleListModerationQueue(ctx context.Context, input *ListModerationQueueInput) (*ModerationQueueOutput, error) {
	comments, counts, err := s.services.Moderation.Queue(ctx, input.Site, domain.ModerationState(input.Status))
	if err != nil {
		return nil, err
	}
	return &ModerationQueueOutput{Body: ModerationQueueResponse{Comments: comments, Counts: counts}}, nil
}

func (s *Server) handleSetCommentState(ctx context.Context, input *SetCommentStateInput) (*SiteOutput, error) {
	updated, err := s.services.Moderation.SetCommentState(ctx, input.SiteID, input.Body.MonumentID, input.CommentID, domain.ModerationState(input.Body.State))
	if err != nil {
		return nil, err
	}
	return &SiteOutput{Body: *updated}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*SiteOutput, error) {
	updated, err := s.services.Moderation.DeleteComment(ctx, input.SiteID, input.MonumentID, input.CommentID)
	if err != nil {
		return nil, err
	}
	return &SiteOutput{Body: *updated}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Moderation.AddComment(ctx, input.SiteID, input.Body.MonumentID, input.Body.AuthorName, input.Body.Message, input.Body.Rating)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: *comment}, nil
}
