// Package di provides dependency injection configuration for the heritage admin.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/config"
	"github.com/heritageapp/heritage-admin/internal/di/providers"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/logger"
	"github.com/heritageapp/heritage-admin/internal/service"
	"github.com/heritageapp/heritage-admin/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Catalog layer
	do.Provide(injector, providers.ProvideGateway)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideFavoritesLedger)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideSiteService)
	do.Provide(injector, providers.ProvideModerationService)
	do.Provide(injector, providers.ProvideStatsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and kicks off the initial catalog load.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[gateway.Gateway](injector)
	_ = do.MustInvoke[*providers.LedgerHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	_ = do.MustInvoke[*service.SiteService](injector)
	_ = do.MustInvoke[*service.ModerationService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Warm the cache in the background; the first request that needs the
	// collection waits on it instead of triggering its own fetch.
	store := do.MustInvoke[*cache.Store](injector)
	store.LoadAll(context.Background())

	return nil
}
