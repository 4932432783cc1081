// Package search maintains an in-memory full-text index over the cached site
// collection. It backs the client-side search fallback used when the backend's
// server-side ?q= filtering is unreachable; it is never the primary search path.
package search

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/heritageapp/heritage-admin/internal/cache"
	"github.com/heritageapp/heritage-admin/internal/domain"
)

// siteDocument is the indexed shape of one top-level site. Monument names and
// descriptions are folded into the parent document so a monument match surfaces
// its site.
type siteDocument struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Categories  []string `json:"categories"`
	Monuments   string   `json:"monuments"`
}

// Index wraps a memory-only Bleve index over the site collection.
//
// Thread safety: all public methods are safe for concurrent use. The mutex
// protects the index swap during Rebuild.
type Index struct {
	logger *slog.Logger

	mu  sync.RWMutex
	idx bleve.Index
}

// NewIndex creates an empty in-memory index.
func NewIndex(logger *slog.Logger) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{logger: logger, idx: idx}, nil
}

// buildIndexMapping creates the Bleve mapping for site documents. Text fields use
// the default analyzer; the catalog is small and relevance tuning is not a goal.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Store = true
	docMapping.AddFieldMappingsAt("name", nameField)

	textField := bleve.NewTextFieldMapping()
	textField.Store = false
	docMapping.AddFieldMappingsAt("description", textField)
	docMapping.AddFieldMappingsAt("location", textField)
	docMapping.AddFieldMappingsAt("categories", textField)
	docMapping.AddFieldMappingsAt("monuments", textField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Rebuild replaces the index contents with the given collection. A memory-only
// index is cheap to recreate, so a rebuild starts from a fresh index rather than
// reconciling deletions.
func (i *Index) Rebuild(sites []domain.Site) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("recreate search index: %w", err)
	}

	batch := fresh.NewBatch()
	for idx := range sites {
		site := &sites[idx]
		doc := siteDocument{
			Name:        site.Name,
			Description: site.Description,
			Location:    site.Location,
			Categories:  site.Categories,
		}
		var monumentText []string
		for j := range site.Monuments {
			monumentText = append(monumentText, site.Monuments[j].Name, site.Monuments[j].Description)
		}
		doc.Monuments = strings.Join(monumentText, " ")

		if err := batch.Index(site.ID, doc); err != nil {
			return fmt.Errorf("index site %s: %w", site.ID, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		return fmt.Errorf("apply index batch: %w", err)
	}

	i.mu.Lock()
	old := i.idx
	i.idx = fresh
	i.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	i.logger.Debug("search index rebuilt", "sites", len(sites))
	return nil
}

// Query returns the ids of sites matching the term, best match first. An empty
// term matches nothing.
func (i *Index) Query(term string, limit int) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	// Match analyzed tokens plus name prefixes, so partially typed terms hit.
	match := bleve.NewMatchQuery(term)
	prefix := bleve.NewPrefixQuery(strings.ToLower(term))
	prefix.SetField("name")
	q := bleve.NewDisjunctionQuery([]query.Query{match, prefix}...)

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)

	i.mu.RLock()
	idx := i.idx
	i.mu.RUnlock()

	res, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.idx == nil {
		return nil
	}
	err := i.idx.Close()
	i.idx = nil
	return err
}

// ItemsSource supplies the current collection snapshot; satisfied by the cache
// store.
type ItemsSource interface {
	Items() []domain.Site
}

// Follow rebuilds from src on every update received, and returns when the updates
// channel is closed (subscription canceled). Run it in a goroutine alongside a
// cache subscription.
func (i *Index) Follow(updates <-chan cache.Update, src ItemsSource) {
	for u := range updates {
		if u != cache.UpdateItems {
			continue
		}
		if err := i.Rebuild(src.Items()); err != nil {
			i.logger.Warn("search index rebuild failed", "error", err)
		}
	}
}
