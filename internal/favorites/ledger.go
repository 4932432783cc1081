// Package favorites persists the user-local ledger of favorited sites and
// monuments. The ledger is independent of the server-backed cache: it is written
// only by user toggles, stored in a local Badger database, and never sent to the
// backend. Persistence failures are logged and swallowed; the ledger then degrades
// to session-only behavior.
package favorites

import (
	"encoding/json/v2"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/heritageapp/heritage-admin/internal/domain"
)

const keyPrefix = "fav:"

// Ledger holds the favorites in memory and writes every change through to disk.
// The in-memory slice is the session source of truth; the database is best-effort.
type Ledger struct {
	logger *slog.Logger

	mu    sync.RWMutex
	db    *badger.DB // nil when persistence is unavailable
	items []domain.FavoriteItem
}

// Open loads the ledger from the database at path. An unopenable database is not
// an error: the ledger starts empty and skips persistence for the session.
func Open(path string, logger *slog.Logger) *Ledger {
	l := &Ledger{logger: logger}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		logger.Warn("favorites database unavailable, ledger is session-only", "path", path, "error", err)
		return l
	}
	l.db = db
	l.items = l.loadAll()
	return l
}

// loadAll reads every persisted favorite. Unreadable entries are skipped.
func (l *Ledger) loadAll() []domain.FavoriteItem {
	var items []domain.FavoriteItem
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var item domain.FavoriteItem
				if err := json.Unmarshal(val, &item); err != nil {
					l.logger.Warn("skipping unreadable favorite entry", "error", err)
					return nil
				}
				items = append(items, item)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.logger.Warn("failed to load favorites, starting empty", "error", err)
		return nil
	}
	return items
}

func itemKey(kind domain.FavoriteKind, favID, parentID string) []byte {
	return []byte(keyPrefix + string(kind) + ":" + parentID + ":" + favID)
}

// normalizeParent drops the parent id for site-level favorites. Only monuments
// are scoped by their parent; a stray parent on a site entry would otherwise
// split membership and the persisted key.
func normalizeParent(kind domain.FavoriteKind, parentID string) string {
	if kind == domain.FavoriteMonument {
		return parentID
	}
	return ""
}

// Toggle flips membership for (kind, id, parentId). When absent, a new item is
// inserted from the snapshot; when present, it is removed. Returns true when the
// item is a favorite after the call.
func (l *Ledger) Toggle(kind domain.FavoriteKind, favID, parentID string, snapshot domain.FavoriteItem) bool {
	parentID = normalizeParent(kind, parentID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if idx := l.indexOf(kind, favID, parentID); idx >= 0 {
		l.items = append(l.items[:idx], l.items[idx+1:]...)
		l.deleteEntry(kind, favID, parentID)
		return false
	}

	l.items = append(l.items, snapshot)
	l.writeEntry(kind, favID, parentID, snapshot)
	return true
}

// IsFavorite is a pure membership test on (kind, id, parentId).
func (l *Ledger) IsFavorite(kind domain.FavoriteKind, favID, parentID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(kind, favID, normalizeParent(kind, parentID)) >= 0
}

// List returns a snapshot of all favorites in insertion order.
func (l *Ledger) List() []domain.FavoriteItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.FavoriteItem(nil), l.items...)
}

// Remove deletes a favorite outright. Returns true when it existed.
func (l *Ledger) Remove(kind domain.FavoriteKind, favID, parentID string) bool {
	parentID = normalizeParent(kind, parentID)

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(kind, favID, parentID)
	if idx < 0 {
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.deleteEntry(kind, favID, parentID)
	return true
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// indexOf must be called with the mutex held. Monument membership is keyed by
// parent as well, since monument ids are only unique within one site.
func (l *Ledger) indexOf(kind domain.FavoriteKind, favID, parentID string) int {
	for i, item := range l.items {
		if item.Kind != kind || item.ID != favID {
			continue
		}
		if kind == domain.FavoriteMonument && item.ParentID != parentID {
			continue
		}
		return i
	}
	return -1
}

// writeEntry persists one favorite. Failures are logged and swallowed.
func (l *Ledger) writeEntry(kind domain.FavoriteKind, favID, parentID string, item domain.FavoriteItem) {
	if l.db == nil {
		return
	}
	data, err := json.Marshal(item)
	if err != nil {
		l.logger.Warn("failed to encode favorite", "id", favID, "error", err)
		return
	}
	err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(itemKey(kind, favID, parentID), data)
	})
	if err != nil {
		l.logger.Warn("failed to persist favorite", "id", favID, "error", err)
	}
}

// deleteEntry removes one persisted favorite. Failures are logged and swallowed.
func (l *Ledger) deleteEntry(kind domain.FavoriteKind, favID, parentID string) {
	if l.db == nil {
		return
	}
	err := l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(itemKey(kind, favID, parentID))
	})
	if err != nil {
		l.logger.Warn("failed to remove persisted favorite", "id", favID, "error", err)
	}
}
