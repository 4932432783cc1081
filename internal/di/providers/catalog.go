package providers

import (
	"github.com/samber/do/v2"

	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/config"
	"github.com/heritageapp/heritage-admin/internal/favorites"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/logger"
	"github.com/heritageapp/heritage-admin/internal/search"
)

// ProvideGateway provides the catalog backend client.
func ProvideGateway(i do.Injector) (gateway.Gateway, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return gateway.New(gateway.Options{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Backend.Timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
		Logger:            log.Logger,
	}), nil
}

// ProvideStore provides the process-wide catalog cache.
func ProvideStore(i do.Injector) (*cache.Store, error) {
	gw := do.MustInvoke[gateway.Gateway](i)
	log := do.MustInvoke[*logger.Logger](i)

	return cache.NewStore(gw, log.Logger), nil
}

// LedgerHandle wraps the favorites ledger with Shutdownable.
type LedgerHandle struct {
	*favorites.Ledger
}

// Shutdown implements do.Shutdownable.
func (h *LedgerHandle) Shutdown() error {
	return h.Close()
}

// ProvideFavoritesLedger provides the badger-backed favorites ledger.
func ProvideFavoritesLedger(i do.Injector) (*LedgerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &LedgerHandle{Ledger: favorites.Open(cfg.Storage.DataPath, log.Logger)}, nil
}

// SearchIndexHandle wraps the search index with Shutdownable. It owns the cache
// subscription that keeps the index in sync with the catalog.
type SearchIndexHandle struct {
	*search.Index
	unsubscribe func()
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	h.unsubscribe()
	return h.Close()
}

// ProvideSearchIndex provides the in-memory fallback search index, following
// cache updates so it always reflects the last good catalog load.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	store := do.MustInvoke[*cache.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	updates, cancel := store.Subscribe()
	go index.Follow(updates, store)

	return &SearchIndexHandle{Index: index, unsubscribe: cancel}, nil
}
