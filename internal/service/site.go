// Package service implements the mutation and query services that sit between the
// admin surfaces and the cache/gateway pair. Services apply writes against the
// gateway and reconcile the shared cache so subsequent reads are consistent
// without a full refetch. No operation retries automatically; every failure
// surfaces a user-displayable message and leaves prior cache state intact.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/errors"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/search"
	"github.com/heritageapp/heritage-admin/internal/validation"
)

// SiteService handles CRUD and search over top-level sites.
type SiteService struct {
	gw        gateway.Gateway
	store     *cache.Store
	index     *search.Index // optional, enables the local search fallback
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSiteService creates a new site service.
func NewSiteService(gw gateway.Gateway, store *cache.Store, index *search.Index, validator *validation.Validator, logger *slog.Logger) *SiteService {
	return &SiteService{
		gw:        gw,
		store:     store,
		index:     index,
		validator: validator,
		logger:    logger,
	}
}

// validateSite enforces entity invariants before any network dispatch. Validation
// failures are synchronous and never touch the gateway or the cache.
func (s *SiteService) validateSite(site *domain.Site) error {
	site.Normalize()
	if site.Depth() > 1 {
		return errors.Validation("monuments cannot contain further monuments")
	}
	for _, m := range site.Monuments {
		if strings.TrimSpace(m.Name) == "" {
			return errors.Validation("monument name is required")
		}
	}
	return s.validator.Validate(site)
}

// Create posts a new site and appends the server-assigned entity to the cached
// collection. On failure the collection is untouched and the store error is set.
func (s *SiteService) Create(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	if err := s.validateSite(site); err != nil {
		return nil, err
	}

	created, err := s.gw.CreateSite(ctx, site)
	if err != nil {
		s.store.SetError("unable to create site")
		return nil, err
	}

	s.store.AppendItem(created)
	s.logger.Info("site created", "site_id", created.ID, "name", created.Name)
	return created, nil
}

// Update rewrites the site document and swaps the cached element by id. A
// matching current detail is refreshed as well, so the detail view that triggered
// the edit sees the new state without a refetch.
func (s *SiteService) Update(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	if site.ID == "" {
		return nil, errors.Validation("site id is required")
	}
	if err := s.validateSite(site); err != nil {
		return nil, err
	}

	updated, err := s.gw.UpdateSite(ctx, site)
	if err != nil {
		s.store.SetError("unable to update site")
		return nil, err
	}

	s.store.ReplaceItem(updated)
	s.logger.Info("site updated", "site_id", updated.ID)
	return updated, nil
}

// Delete removes the site remotely, drops it from the cached collection, and
// clears a matching current detail.
func (s *SiteService) Delete(ctx context.Context, siteID string) error {
	if err := s.gw.DeleteSite(ctx, siteID); err != nil {
		s.store.SetError("unable to delete site")
		return err
	}

	s.store.RemoveItem(siteID)
	s.logger.Info("site deleted", "site_id", siteID)
	return nil
}

// Search runs a server-side text search. An empty term returns the full cached
// collection. When the backend is unreachable the local index answers instead,
// so the back-office search box keeps working against cached data.
func (s *SiteService) Search(ctx context.Context, term string) ([]domain.Site, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		s.store.LoadAll(ctx)
		if err := s.store.WaitReady(ctx); err != nil {
			return nil, err
		}
		return s.store.Items(), nil
	}

	sites, err := s.gw.SearchSites(ctx, term)
	if err == nil {
		return sites, nil
	}
	if !errors.Is(err, errors.ErrNetwork) || s.index == nil {
		return nil, err
	}

	s.logger.Warn("backend search unavailable, falling back to local index", "error", err)
	ids, idxErr := s.index.Query(term, 50)
	if idxErr != nil {
		return nil, err
	}

	items := s.store.Items()
	byID := make(map[string]*domain.Site, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	matches := make([]domain.Site, 0, len(ids))
	for _, id := range ids {
		if site, ok := byID[id]; ok {
			matches = append(matches, *site)
		}
	}
	return matches, nil
}
