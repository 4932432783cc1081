package service

import (
	"context"
	"log/slog"

	"github.com/heritageapp/heritage-admin/internal/aggregate"
	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/domain"
)

// StatsService produces the dashboard summary from the cached collection.
type StatsService struct {
	store  *cache.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *cache.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// Summary triggers a collection load if needed, waits for the first population,
// and computes the summary over a snapshot. Aggregates are always recomputed from
// comments; the backend's per-site stats field is never trusted.
func (s *StatsService) Summary(ctx context.Context) (aggregate.SummaryStats, error) {
	s.store.LoadAll(ctx)
	if err := s.store.WaitReady(ctx); err != nil {
		return aggregate.SummaryStats{}, err
	}

	stats := aggregate.Summary(s.store.Items())
	s.logger.Debug("summary computed",
		"sites", stats.TotalSites,
		"monuments", stats.TotalMonuments,
		"comments", stats.TotalComments,
	)
	return stats, nil
}

// SiteRating computes the average rating of a single node's own comments.
func (s *StatsService) SiteRating(node *domain.Site) *float64 {
	return aggregate.NodeAverageRating(node)
}
