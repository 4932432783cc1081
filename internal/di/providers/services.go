package providers

import (
	"github.com/samber/do/v2"

	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/logger"
	"github.com/heritageapp/heritage-admin/internal/service"
	"github.com/heritageapp/heritage-admin/internal/validation"
)

// ProvideSiteService provides the site coordination service.
func ProvideSiteService(i do.Injector) (*service.SiteService, error) {
	gw := do.MustInvoke[gateway.Gateway](i)
	store := do.MustInvoke[*cache.Store](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSiteService(gw, store, indexHandle.Index, validator, log.Logger), nil
}

// ProvideModerationService provides the comment moderation service.
func ProvideModerationService(i do.Injector) (*service.ModerationService, error) {
	gw := do.MustInvoke[gateway.Gateway](i)
	store := do.MustInvoke[*cache.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewModerationService(gw, store, log.Logger), nil
}

// ProvideStatsService provides the dashboard statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	store := do.MustInvoke[*cache.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(store, log.Logger), nil
}
