package api

import (
	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/favorites"
	"github.com/heritageapp/heritage-admin/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Site       *service.SiteService
	Moderation *service.ModerationService
	Stats      *service.StatsService
	Favorites  *favorites.Ledger
	Store      *cache.Store
}
