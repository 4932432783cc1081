package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/errors"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Returns favorited sites and monuments in insertion order",
		Tags:        []string{"Favorites"},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPut,
		Path:        "/api/v1/favorites/toggle",
		Summary:     "Toggle favorite",
		Description: "Adds or removes a site or monument from the favorites ledger",
		Tags:        []string{"Favorites"},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavorite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/favorites/{kind}/{id}",
		Summary:     "Remove favorite",
		Description: "Removes an entry from the favorites ledger",
		Tags:        []string{"Favorites"},
	}, s.handleRemoveFavorite)
}

// === DTOs ===

// ListFavoritesResponse contains the favorites ledger content.
type ListFavoritesResponse struct {
	Favorites []domain.FavoriteItem `json:"favorites" doc:"Favorited items in insertion order"`
}

// ListFavoritesOutput wraps the favorites list for Huma.
type ListFavoritesOutput struct {
	Body ListFavoritesResponse
}

// ToggleFavoriteRequest is the request body for toggling a favorite.
type ToggleFavoriteRequest struct {
	Kind     string `json:"kind" enum:"patrimoine,monument" doc:"Item kind"`
	ID       string `json:"id" doc:"Site or monument ID"`
	ParentID string `json:"parentId,omitempty" doc:"Owning site ID, required for monuments"`
}

// ToggleFavoriteInput wraps the toggle request for Huma.
type ToggleFavoriteInput struct {
	Body ToggleFavoriteRequest
}

// ToggleFavoriteResponse reports the membership after the toggle.
type ToggleFavoriteResponse struct {
	Favorited bool `json:"favorited" doc:"True when the item is now a favorite"`
}

// ToggleFavoriteOutput wraps the toggle response for Huma.
type ToggleFavoriteOutput struct {
	Body ToggleFavoriteResponse
}

// RemoveFavoriteInput contains parameters for removing a favorite.
type RemoveFavoriteInput struct {
	Kind     string `path:"kind" enum:"patrimoine,monument" doc:"Item kind"`
	ID       string `path:"id" doc:"Site or monument ID"`
	ParentID string `query:"parent" doc:"Owning site ID, required for monuments"`
}

// === Handlers ===

func (s *Server) handleListFavorites(_ context.Context, _ *struct{}) (*ListFavoritesOutput, error) {
	return &ListFavoritesOutput{Body: ListFavoritesResponse{Favorites: s.services.Favorites.List()}}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
	kind := domain.FavoriteKind(input.Body.Kind)
	if !kind.Valid() {
		return nil, errors.Validationf("unknown favorite kind %q", input.Body.Kind)
	}
	if kind == domain.FavoriteMonument && input.Body.ParentID == "" {
		return nil, errors.Validation("parentId is required for monument favorites")
	}

	snapshot, err := s.favoriteSnapshot(ctx, kind, input.Body.ID, input.Body.ParentID)
	if err != nil {
		return nil, err
	}

	favorited := s.services.Favorites.Toggle(kind, input.Body.ID, input.Body.ParentID, snapshot)
	return &ToggleFavoriteOutput{Body: ToggleFavoriteResponse{Favorited: favorited}}, nil
}

func (s *Server) handleRemoveFavorite(_ context.Context, input *RemoveFavoriteInput) (*MessageOutput, error) {
	kind := domain.FavoriteKind(input.Kind)
	if !kind.Valid() {
		return nil, errors.Validationf("unknown favorite kind %q", input.Kind)
	}

	if !s.services.Favorites.Remove(kind, input.ID, input.ParentID) {
		return nil, errors.NotFoundf("favorite %s not found", input.ID)
	}
	return &MessageOutput{Body: MessageResponse{Message: "Favorite removed"}}, nil
}

// favoriteSnapshot resolves the node being favorited to a display snapshot.
func (s *Server) favoriteSnapshot(ctx context.Context, kind domain.FavoriteKind, id, parentID string) (domain.FavoriteItem, error) {
	siteID := id
	if kind == domain.FavoriteMonument {
		siteID = parentID
	}

	site, err := s.services.Store.GetByID(ctx, siteID)
	if err != nil {
		return domain.FavoriteItem{}, err
	}

	node := site
	if kind == domain.FavoriteMonument {
		if node = site.FindMonument(id); node == nil {
			return domain.FavoriteItem{}, errors.NotFoundf("monument %s not found in site %s", id, parentID)
		}
	}

	return domain.NewFavoriteSnapshot(kind, parentID, node), nil
}
