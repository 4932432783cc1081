package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/heritageapp/heritage-admin/internal/aggregate"
	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/errors"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/id"
)

// ModerationService manages the comment lifecycle: visitor submission, moderator
// approval/rejection, and deletion. Comments live embedded in their parent site
// document and the backend has no partial nested-update endpoint, so every
// mutation is a read-modify-write of the whole parent site, followed by an
// in-place patch of the cached collection (no refetch).
type ModerationService struct {
	gw     gateway.Gateway
	store  *cache.Store
	logger *slog.Logger
}

// NewModerationService creates a new moderation service.
func NewModerationService(gw gateway.Gateway, store *cache.Store, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		gw:     gw,
		store:  store,
		logger: logger,
	}
}

// Queue returns the flattened moderation queue, optionally filtered by owning
// site and state, together with status counts over the unfiltered queue.
func (s *ModerationService) Queue(ctx context.Context, siteID string, status domain.ModerationState) ([]aggregate.OwnedComment, aggregate.StatusCounts, error) {
	if status != "" && !status.Valid() {
		return nil, aggregate.StatusCounts{}, errors.Validationf("unknown moderation state %q", status)
	}

	s.store.LoadAll(ctx)
	if err := s.store.WaitReady(ctx); err != nil {
		return nil, aggregate.StatusCounts{}, err
	}

	flat := aggregate.Flatten(s.store.Items())
	return aggregate.Filter(flat, siteID, status), aggregate.CountByStatus(flat), nil
}

// SetCommentState transitions a comment to the given state. When monumentID is
// empty the whole tree is searched, site-level comments first and then each
// monument in order; the first id match wins. Nothing but the comment's
// moderation state is mutated.
func (s *ModerationService) SetCommentState(ctx context.Context, siteID, monumentID, commentID string, state domain.ModerationState) (*domain.Site, error) {
	if !state.Valid() {
		return nil, errors.Validationf("unknown moderation state %q", state)
	}

	site, err := s.siteForMutation(ctx, siteID)
	if err != nil {
		return nil, err
	}

	comment, err := s.locateComment(site, monumentID, commentID)
	if err != nil {
		return nil, err
	}
	comment.ModerationState = state

	return s.writeBack(ctx, site, "moderate comment", "comment_id", commentID, "state", string(state))
}

// DeleteComment removes a comment outright from its parent site or monument.
func (s *ModerationService) DeleteComment(ctx context.Context, siteID, monumentID, commentID string) (*domain.Site, error) {
	site, err := s.siteForMutation(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if monumentID != "" {
		monument := site.FindMonument(monumentID)
		if monument == nil {
			return nil, errors.NotFoundf("monument %s not found in site %s", monumentID, siteID)
		}
		if !removeOwnComment(monument, commentID) {
			return nil, errors.NotFoundf("comment %s not found", commentID)
		}
	} else if !site.RemoveComment(commentID) {
		return nil, errors.NotFoundf("comment %s not found", commentID)
	}

	return s.writeBack(ctx, site, "delete comment", "comment_id", commentID)
}

// AddComment records a visitor comment in the pending state, attached to the site
// itself or, when monumentID is set, to that monument.
func (s *ModerationService) AddComment(ctx context.Context, siteID, monumentID, authorName, message string, rating *float64) (*domain.Comment, error) {
	if strings.TrimSpace(authorName) == "" {
		return nil, errors.Validation("author name is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.Validation("message is required")
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, errors.Validation("rating must be between 1 and 5")
	}

	commentID, err := id.Generate("com")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate comment id")
	}
	comment := domain.Comment{
		ID:              commentID,
		AuthorName:      authorName,
		Message:         message,
		Date:            time.Now().UTC().Format(time.RFC3339),
		Rating:          rating,
		ModerationState: domain.ModerationPending,
	}

	site, err := s.siteForMutation(ctx, siteID)
	if err != nil {
		return nil, err
	}

	target := site
	if monumentID != "" {
		if target = site.FindMonument(monumentID); target == nil {
			return nil, errors.NotFoundf("monument %s not found in site %s", monumentID, siteID)
		}
	}
	target.Comments = append(target.Comments, comment)

	if _, err := s.writeBack(ctx, site, "add comment", "comment_id", comment.ID); err != nil {
		return nil, err
	}
	return &comment, nil
}

// siteForMutation returns a private full copy of the site to mutate. The cached
// current detail is reused when it matches the requested id; otherwise a fresh
// fetch gets the authoritative document. Mutating a clone keeps the cache free of
// partially applied changes when the write fails.
func (s *ModerationService) siteForMutation(ctx context.Context, siteID string) (*domain.Site, error) {
	if detail := s.store.CurrentDetail(); detail != nil && detail.ID == siteID {
		return detail.Clone(), nil
	}
	site, err := s.store.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return site, nil
}

// locateComment finds the target comment within the already-copied site tree.
func (s *ModerationService) locateComment(site *domain.Site, monumentID, commentID string) (*domain.Comment, error) {
	if monumentID != "" {
		monument := site.FindMonument(monumentID)
		if monument == nil {
			return nil, errors.NotFoundf("monument %s not found in site %s", monumentID, site.ID)
		}
		for i := range monument.Comments {
			if monument.Comments[i].ID == commentID {
				return &monument.Comments[i], nil
			}
		}
		return nil, errors.NotFoundf("comment %s not found in monument %s", commentID, monumentID)
	}

	comment, _ := site.FindComment(commentID)
	if comment == nil {
		return nil, errors.NotFoundf("comment %s not found in site %s", commentID, site.ID)
	}
	return comment, nil
}

// writeBack rewrites the whole parent document and patches the cache in place.
func (s *ModerationService) writeBack(ctx context.Context, site *domain.Site, op string, attrs ...any) (*domain.Site, error) {
	updated, err := s.gw.UpdateSite(ctx, site)
	if err != nil {
		s.store.SetError("unable to update comment")
		return nil, err
	}

	s.store.ReplaceItem(updated)
	s.logger.Info(op, append([]any{"site_id", site.ID}, attrs...)...)
	return updated, nil
}

func removeOwnComment(node *domain.Site, commentID string) bool {
	for i := range node.Comments {
		if node.Comments[i].ID == commentID {
			node.Comments = append(node.Comments[:i], node.Comments[i+1:]...)
			return true
		}
	}
	return false
}
