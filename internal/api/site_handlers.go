package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/heritageapp/heritage-admin/internal/domain"
)

func (s *Server) registerSiteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSites",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites",
		Summary:     "List sites",
		Description: "Returns the cached collection, or a text search result when q is given",
		Tags:        []string{"Sites"},
	}, s.handleListSites)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSite",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites/{id}",
		Summary:     "Get site",
		Description: "Returns a site by ID, always fetched fresh from the backend",
		Tags:        []string{"Sites"},
	}, s.handleGetSite)

	huma.Register(s.api, huma.Operation{
		OperationID: "createSite",
		Method:      http.MethodPost,
		Path:        "/api/v1/sites",
		Summary:     "Create site",
		Description: "Creates a new heritage site",
		Tags:        []string{"Sites"},
	}, s.handleCreateSite)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSite",
		Method:      http.MethodPut,
		Path:        "/api/v1/sites/{id}",
		Summary:     "Update site",
		Description: "Replaces a site document",
		Tags:        []string{"Sites"},
	}, s.handleUpdateSite)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sites/{id}",
		Summary:     "Delete site",
		Description: "Deletes a site and evicts it from the cache",
		Tags:        []string{"Sites"},
	}, s.handleDeleteSite)
}

// === DTOs ===

// ListSitesInput contains parameters for listing sites.
type ListSitesInput struct {
	Q string `query:"q" doc:"Optional text search term"`
}

// ListSitesResponse contains a list of sites.
type ListSitesResponse struct {
	Sites []domain.Site `json:"sites" doc:"List of sites"`
}

// ListSitesOutput wraps the list sites response for Huma.
type ListSitesOutput struct {
	Body ListSitesResponse
}

// GetSiteInput contains parameters for getting a site.
type GetSiteInput struct {
	ID string `path:"id" doc:"Site ID"`
}

// SiteOutput wraps a single site response for Huma.
type SiteOutput struct {
	Body domain.Site
}

// SiteRequest mirrors the site document for create and update payloads. Only the
// name is mandatory; everything else defaults to the zero value.
type SiteRequest struct {
	ID                   string               `json:"id,omitempty" doc:"Site ID, assigned by the backend on create"`
	Name                 string               `json:"name" doc:"Site name"`
	Location             string               `json:"location,omitempty" doc:"City or region"`
	Address              string               `json:"address,omitempty" doc:"Street address"`
	Description          string               `json:"description,omitempty" doc:"Long description"`
	HistoricalOrigin     string               `json:"historicalOrigin,omitempty" doc:"Historical background"`
	PhotoCarousel        []string             `json:"photoCarousel,omitempty" doc:"Photo URLs"`
	Latitude             float64              `json:"latitude,omitempty" doc:"Latitude in degrees"`
	Longitude            float64              `json:"longitude,omitempty" doc:"Longitude in degrees"`
	Categories           []string             `json:"categories,omitempty" doc:"Category labels"`
	ConstructionDate     *string              `json:"constructionDate,omitempty" doc:"Construction date as free text"`
	IsListed             bool                 `json:"isListed,omitempty" doc:"Whether the site is a protected landmark"`
	EntryPrice           float64              `json:"entryPrice,omitempty" doc:"Entry price in euros, 0 for free"`
	IsOpen               bool                 `json:"isOpen,omitempty" doc:"Whether the site is currently open"`
	OpeningHours         []string             `json:"openingHours,omitempty" doc:"Opening hours lines"`
	GuidedToursAvailable bool                 `json:"guidedToursAvailable,omitempty" doc:"Whether guided tours run"`
	NearbyPlaces         []NearbyPlaceRequest `json:"nearbyPlaces,omitempty" doc:"Points of interest nearby"`
	Comments             []CommentRequest     `json:"comments,omitempty" doc:"Visitor comments"`
	Monuments            []SiteRequest        `json:"monuments,omitempty" doc:"Nested monuments, one level deep"`
}

// NearbyPlaceRequest is one point of interest in a site payload.
type NearbyPlaceRequest struct {
	Name       string   `json:"name" doc:"Place name"`
	Type       string   `json:"type,omitempty" doc:"Place type"`
	DistanceKm *float64 `json:"distanceKm,omitempty" doc:"Distance in kilometers"`
}

// CommentRequest is one visitor comment in a site payload.
type CommentRequest struct {
	ID              string   `json:"id,omitempty" doc:"Comment ID"`
	AuthorName      string   `json:"authorName" doc:"Comment author"`
	Message         string   `json:"message" doc:"Comment text"`
	Date            string   `json:"date,omitempty" doc:"Submission time as ISO text"`
	Rating          *float64 `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Optional rating from 1 to 5"`
	ModerationState string   `json:"moderationState,omitempty" doc:"Moderation state"`
}

func (r *SiteRequest) toDomain() *domain.Site {
	site := &domain.Site{
		ID:                   r.ID,
		Name:                 r.Name,
		Location:             r.Location,
		Address:              r.Address,
		Description:          r.Description,
		HistoricalOrigin:     r.HistoricalOrigin,
		PhotoCarousel:        r.PhotoCarousel,
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		Categories:           r.Categories,
		ConstructionDate:     r.ConstructionDate,
		IsListed:             r.IsListed,
		EntryPrice:           r.EntryPrice,
		IsOpen:               r.IsOpen,
		OpeningHours:         r.OpeningHours,
		GuidedToursAvailable: r.GuidedToursAvailable,
	}
	for _, p := range r.NearbyPlaces {
		site.NearbyPlaces = append(site.NearbyPlaces, domain.NearbyPlace{
			Name:       p.Name,
			Type:       p.Type,
			DistanceKm: p.DistanceKm,
		})
	}
	for _, c := range r.Comments {
		site.Comments = append(site.Comments, domain.Comment{
			ID:              c.ID,
			AuthorName:      c.AuthorName,
			Message:         c.Message,
			Date:            c.Date,
			Rating:          c.Rating,
			ModerationState: domain.ModerationState(c.ModerationState),
		})
	}
	for _, m := range r.Monuments {
		site.Monuments = append(site.Monuments, *m.toDomain())
	}
	site.Normalize()
	return site
}

// CreateSiteInput wraps the create site request for Huma.
type CreateSiteInput struct {
	Body SiteRequest
}

// UpdateSiteInput wraps the update site request for Huma.
type UpdateSiteInput struct {
	ID   string `path:"id" doc:"Site ID"`
	Body SiteRequest
}

// DeleteSiteInput contains parameters for deleting a site.
type DeleteSiteInput struct {
	ID string `path:"id" doc:"Site ID"`
}

// === Handlers ===

func (s *Server) handleListSites(ctx context.Context, input *ListSitesInput) (*ListSitesOutput, error) {
	sites, err := s.services.Site.Search(ctx, input.Q)
	if err != nil {
		return nil, err
	}
	return &ListSitesOutput{Body: ListSitesResponse{Sites: sites}}, nil
}

func (s *Server) handleGetSite(ctx context.Context, input *GetSiteInput) (*SiteOutput, error) {
	site, err := s.services.Store.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	// Opening a detail view pins it so comment mutations can reuse it.
	s.services.Store.SetCurrentDetail(site)

	return &SiteOutput{Body: *site}, nil
}

func (s *Server) handleCreateSite(ctx context.Context, input *CreateSiteInput) (*SiteOutput, error) {
	created, err := s.services.Site.Create(ctx, input.Body.toDomain())
	if err != nil {
		return nil, err
	}
	return &SiteOutput{Body: *created}, nil
}

func (s *Server) handleUpdateSite(ctx context.Context, input *UpdateSiteInput) (*SiteOutput, error) {
	site := input.Body.toDomain()
	site.ID = input.ID

	updated, err := s.services.Site.Update(ctx, site)
	if err != nil {
		return nil, err
	}
	return &SiteOutput{Body: *updated}, nil
}

func (s *Server) handleDeleteSite(ctx context.Context, input *DeleteSiteInput) (*MessageOutput, error) {
	if err := s.services.Site.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Site deleted"}}, nil
}
