// Package cache holds the process-wide reactive cache of the site collection.
//
// One Store instance is created at process start and shared by every consumer.
// All reads are snapshots; all writes go through the narrow mutation API used by
// the cache itself and the mutation services. Consumers that need to react to
// population or changes use Subscribe, or WaitReady for the first load.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/errors"
	"github.com/heritageapp/heritage-admin/internal/gateway"
	"github.com/heritageapp/heritage-admin/internal/id"
)

// Update describes what part of the store changed. Subscribers re-read the store
// on receipt; the update itself carries no data.
type Update string

// Update kinds.
const (
	UpdateItems  Update = "items"
	UpdateDetail Update = "detail"
	UpdateError  Update = "error"
)

// loadTimeout bounds a collection fetch once it runs detached from the caller.
const loadTimeout = 30 * time.Second

// Store caches the top-level site collection plus the most recently viewed detail.
type Store struct {
	gw     gateway.Gateway
	logger *slog.Logger

	mu            sync.RWMutex
	items         []domain.Site
	loading       bool
	err           string
	currentDetail *domain.Site
	inflight      bool

	// ready is closed after the first successful LoadAll and never reopened.
	ready     chan struct{}
	readyOnce sync.Once

	// attempt is closed when the current in-flight load settles, success or
	// failure, and is re-armed by the next LoadAll. Nil until the first load.
	attempt chan struct{}

	subs map[string]chan Update
}

// NewStore creates the process-wide cache store.
func NewStore(gw gateway.Gateway, logger *slog.Logger) *Store {
	return &Store{
		gw:     gw,
		logger: logger,
		ready:  make(chan struct{}),
		subs:   make(map[string]chan Update),
	}
}

// LoadAll populates the collection once. It is a no-op when the cache is already
// warm, and a second call while a fetch is in flight starts no second fetch. The
// fetch runs asynchronously; use WaitReady or Subscribe to observe completion.
// On failure the error message is surfaced via Err, items stay empty, and no retry
// is attempted.
func (s *Store) LoadAll(ctx context.Context) {
	s.mu.Lock()
	if len(s.items) > 0 || s.inflight {
		s.mu.Unlock()
		return
	}
	s.inflight = true
	s.loading = true
	s.err = ""
	s.attempt = make(chan struct{})
	s.mu.Unlock()

	// The fetch serves every consumer of the store, so detach it from the
	// triggering caller: one consumer disconnecting must not abort the shared
	// load. The fetch gets its own deadline instead.
	go s.fetchAll(context.WithoutCancel(ctx))
}

func (s *Store) fetchAll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	sites, err := s.gw.ListSites(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false
	s.loading = false
	close(s.attempt)

	if err != nil {
		s.err = "unable to load sites"
		s.logger.Error("site collection load failed", "error", err)
		s.notifyLocked(UpdateError)
		return
	}

	s.items = sites
	s.err = ""
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("site collection loaded", "count", len(sites))
	s.notifyLocked(UpdateItems)
}

// WaitReady blocks until the first successful load completes, the pending load
// fails, or ctx is done. After a failed load it returns the store error without
// blocking; a later LoadAll re-arms the wait.
func (s *Store) WaitReady(ctx context.Context) error {
	for {
		select {
		case <-s.ready:
			return nil
		default:
		}

		s.mu.RLock()
		attempt := s.attempt
		inflight := s.inflight
		msg := s.err
		s.mu.RUnlock()

		if !inflight && msg != "" {
			return errors.Network(msg)
		}

		// A nil attempt means no load was ever triggered; wait for one.
		select {
		case <-s.ready:
			return nil
		case <-attempt:
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.CodeNetwork, "timed out waiting for site collection")
		}
	}
}

// ForceReload unconditionally clears the collection and reloads it, bypassing
// memoization.
func (s *Store) ForceReload(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.LoadAll(ctx)
}

// GetByID always issues a fresh gateway fetch for a single site, returning the
// fully populated node. The list cache may hold shallow entries; detail views use
// this for authoritative data and then call SetCurrentDetail themselves.
func (s *Store) GetByID(ctx context.Context, siteID string) (*domain.Site, error) {
	return s.gw.GetSite(ctx, siteID)
}

// Items returns a snapshot of the cached collection. The snapshot may be empty
// while a load is still in flight; callers re-read via Subscribe or WaitReady.
func (s *Store) Items() []domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Site(nil), s.items...)
}

// Loading reports whether a collection fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the user-displayable message of the last failed operation, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// CurrentDetail returns the most recently stored detail site, or nil. The returned
// value is shared and must be treated as read-only; mutation services always swap
// in fresh clones. Consumers must re-check the id after any navigation since a
// concurrent GetByID may have replaced it.
func (s *Store) CurrentDetail() *domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDetail
}

// SetCurrentDetail stores the detail site a consumer just fetched. A child
// monument view reuses it when the parent id matches instead of refetching.
func (s *Store) SetCurrentDetail(site *domain.Site) {
	s.mu.Lock()
	s.currentDetail = site
	s.notifyLocked(UpdateDetail)
	s.mu.Unlock()
}

// ClearCurrentDetailIf drops the detail when it matches the given id.
// Returns true when something was cleared.
func (s *Store) ClearCurrentDetailIf(siteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentDetail == nil || s.currentDetail.ID != siteID {
		return false
	}
	s.currentDetail = nil
	s.notifyLocked(UpdateDetail)
	return true
}

// AppendItem adds a newly created site to the collection and clears any prior
// error. Called by the mutation services after a successful create.
func (s *Store) AppendItem(site *domain.Site) {
	s.mu.Lock()
	s.items = append(s.items, *site)
	s.err = ""
	s.notifyLocked(UpdateItems)
	s.mu.Unlock()
}

// ReplaceItem swaps the collection element with a matching id and refreshes a
// matching current detail, so a detail view that triggered the edit sees the new
// state without a refetch. Returns true when the collection held the site.
func (s *Store) ReplaceItem(site *domain.Site) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.items {
		if s.items[i].ID == site.ID {
			s.items[i] = *site
			replaced = true
			break
		}
	}
	if s.currentDetail != nil && s.currentDetail.ID == site.ID {
		s.currentDetail = site
	}
	s.err = ""
	s.notifyLocked(UpdateItems)
	return replaced
}

// RemoveItem deletes the site from the collection and clears a matching current
// detail. Returns true when the collection held the site.
func (s *Store) RemoveItem(siteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for i := range s.items {
		if s.items[i].ID == siteID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	if s.currentDetail != nil && s.currentDetail.ID == siteID {
		s.currentDetail = nil
	}
	s.err = ""
	s.notifyLocked(UpdateItems)
	return removed
}

// SetError surfaces a user-displayable failure message without touching the
// cached entities.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.notifyLocked(UpdateError)
	s.mu.Unlock()
}

// Subscribe registers for store updates. The returned cancel func must be called
// on consumer teardown so a superseded view can no longer react to stale
// completions; after cancel the channel receives nothing further.
func (s *Store) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)
	key := id.MustGenerate("sub")

	s.mu.Lock()
	s.subs[key] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[key]; ok {
			delete(s.subs, key)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// notifyLocked fans an update out to all subscribers. Sends never block; a slow
// consumer with a full buffer misses the update and catches up on the next read.
func (s *Store) notifyLocked(u Update) {
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
