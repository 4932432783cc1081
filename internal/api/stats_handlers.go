package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/heritageapp/heritage-admin/internal/aggregate"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatsSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/summary",
		Summary:     "Get dashboard summary",
		Description: "Returns collection totals, average rating and the top sites by comment count",
		Tags:        []string{"Stats"},
	}, s.handleGetStatsSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSiteRating",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites/{id}/rating",
		Summary:     "Get site rating",
		Description: "Returns the average rating of a site's own comments",
		Tags:        []string{"Stats"},
	}, s.handleGetSiteRating)
}

// StatsSummaryOutput wraps the dashboard summary for Huma.
type StatsSummaryOutput struct {
	Body aggregate.SummaryStats
}

// SiteRatingInput contains parameters for the site rating lookup.
type SiteRatingInput struct {
	ID string `path:"id" doc:"Site ID"`
}

// SiteRatingResponse contains one node's average rating.
type SiteRatingResponse struct {
	SiteID string `json:"siteId" doc:"Site ID"`
	// AverageRating is nil when the site has no rated comments.
	AverageRating *float64 `json:"averageRating" doc:"Average of the site's own comment ratings, 1 decimal"`
}

// SiteRatingOutput wraps the site rating response for Huma.
type SiteRatingOutput struct {
	Body SiteRatingResponse
}

func (s *Server) handleGetStatsSummary(ctx context.Context, _ *struct{}) (*StatsSummaryOutput, error) {
	stats, err := s.services.Stats.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsSummaryOutput{Body: stats}, nil
}

func (s *Server) handleGetSiteRating(ctx context.Context, input *SiteRatingInput) (*SiteRatingOutput, error) {
	site, err := s.services.Store.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SiteRatingOutput{
		Body: SiteRatingResponse{
			SiteID:        site.ID,
			AverageRating: s.services.Stats.SiteRating(site),
		},
	}, nil
}
