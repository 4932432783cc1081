package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/logger"
)

func openTestLedger(t *testing.T, dir string) *Ledger {
	t.Helper()
	l := Open(filepath.Join(dir, "favorites.db"), logger.Discard().Logger)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func siteSnapshot() domain.FavoriteItem {
	return domain.FavoriteItem{
		ID:         "s1",
		Kind:       domain.FavoritePatrimoine,
		Name:       "Vieux Port",
		Categories: []string{"port"},
	}
}

func monumentSnapshot(parentID string) domain.FavoriteItem {
	return domain.FavoriteItem{
		ID:       "m1",
		Kind:     domain.FavoriteMonument,
		ParentID: parentID,
		Name:     "Fort Saint-Jean",
	}
}

func TestToggle_RoundTripRestoresMembership(t *testing.T) {
	l := openTestLedger(t, t.TempDir())

	assert.False(t, l.IsFavorite(domain.FavoritePatrimoine, "s1", ""))

	assert.True(t, l.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot()))
	assert.True(t, l.IsFavorite(domain.FavoritePatrimoine, "s1", ""))

	assert.False(t, l.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot()))
	assert.False(t, l.IsFavorite(domain.FavoritePatrimoine, "s1", ""))
	assert.Empty(t, l.List())
}

func TestMonumentMembership_KeyedByParent(t *testing.T) {
	l := openTestLedger(t, t.TempDir())

	l.Toggle(domain.FavoriteMonument, "m1", "s1", monumentSnapshot("s1"))

	assert.True(t, l.IsFavorite(domain.FavoriteMonument, "m1", "s1"))
	// Same monument id under a different parent is a different favorite.
	assert.False(t, l.IsFavorite(domain.FavoriteMonument, "m1", "s2"))
	// A site favorite with the same id is unrelated.
	assert.False(t, l.IsFavorite(domain.FavoritePatrimoine, "m1", ""))
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	l := openTestLedger(t, t.TempDir())

	l.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot())
	l.Toggle(domain.FavoriteMonument, "m1", "s1", monumentSnapshot("s1"))

	items := l.List()
	require.Len(t, items, 2)
	assert.Equal(t, "s1", items[0].ID)
	assert.Equal(t, "m1", items[1].ID)
}

func TestRemove(t *testing.T) {
	l := openTestLedger(t, t.TempDir())

	l.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot())

	assert.True(t, l.Remove(domain.FavoritePatrimoine, "s1", ""))
	assert.False(t, l.Remove(domain.FavoritePatrimoine, "s1", ""))
	assert.Empty(t, l.List())
}

func TestSiteMembership_IgnoresStrayParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "favorites.db")

	// A site toggled on with a stray parent id and off without one must not
	// leave an orphaned persisted entry behind.
	l := Open(path, logger.Discard().Logger)
	l.Toggle(domain.FavoritePatrimoine, "s1", "stray-parent", siteSnapshot())
	assert.True(t, l.IsFavorite(domain.FavoritePatrimoine, "s1", ""))

	assert.False(t, l.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot()))
	require.NoError(t, l.Close())

	reopened := Open(path, logger.Discard().Logger)
	defer reopened.Close()

	assert.False(t, reopened.IsFavorite(domain.FavoritePatrimoine, "s1", ""))
	assert.Empty(t, reopened.List())
}

func TestPersistence_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "favorites.db")

	l := Open(path, logger.Discard().Logger)
	l.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot())
	l.Toggle(domain.FavoriteMonument, "m1", "s1", monumentSnapshot("s1"))
	require.NoError(t, l.Close())

	reopened := Open(path, logger.Discard().Logger)
	defer reopened.Close()

	assert.True(t, reopened.IsFavorite(domain.FavoritePatrimoine, "s1", ""))
	assert.True(t, reopened.IsFavorite(domain.FavoriteMonument, "m1", "s1"))
	assert.Len(t, reopened.List(), 2)
}

func TestUnopenableDatabase_DegradesToSessionOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "favorites.db")

	// Hold the database open so a second Open fails to acquire the lock.
	first := Open(path, logger.Discard().Logger)
	defer first.Close()

	second := Open(path, logger.Discard().Logger)
	defer second.Close()

	// Toggles still work for the session.
	assert.True(t, second.Toggle(domain.FavoritePatrimoine, "s1", "", siteSnapshot()))
	assert.True(t, second.IsFavorite(domain.FavoritePatrimoine, "s1", ""))
}
