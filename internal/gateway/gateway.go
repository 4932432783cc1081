// Package gateway abstracts CRUD access to the remote site collection. The backend
// is a REST JSON store exposing /sites; each site document embeds its monuments and
// each monument embeds its comments.
package gateway

import (
	"context"

	"github.com/heritageapp/heritage-admin/internal/domain"
)

// Gateway defines the remote operations the cache and services depend on.
// Implementations must return entities with Normalize already applied.
type Gateway interface {
	// ListSites fetches the full top-level collection.
	ListSites(ctx context.Context) ([]domain.Site, error)
	// GetSite fetches one site by id, including nested monuments and comments.
	GetSite(ctx context.Context, id string) (*domain.Site, error)
	// CreateSite posts a new site and returns it with the server-assigned id.
	CreateSite(ctx context.Context, site *domain.Site) (*domain.Site, error)
	// UpdateSite rewrites the full site document. Nested comment mutations go
	// through here; the backend has no partial nested-update endpoint.
	UpdateSite(ctx context.Context, site *domain.Site) (*domain.Site, error)
	// DeleteSite removes a site by id.
	DeleteSite(ctx context.Context, id string) error
	// SearchSites runs a server-side text search via the q query parameter.
	SearchSites(ctx context.Context, term string) ([]domain.Site, error)
}
