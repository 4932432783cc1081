package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/logger"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func indexedSites() []domain.Site {
	return []domain.Site{
		{
			ID:          "s1",
			Name:        "Pont du Gard",
			Description: "Aqueduc romain",
			Location:    "Occitanie",
			Categories:  []string{"aqueduc", "romain"},
		},
		{
			ID:          "s2",
			Name:        "Abbaye de Fontenay",
			Description: "Abbaye cistercienne",
			Location:    "Bourgogne",
			Monuments: []domain.Site{
				{ID: "m1", Name: "Forge", Description: "Forge medievale"},
			},
		},
	}
}

func TestQuery_MatchesName(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexedSites()))

	ids, err := idx.Query("gard", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestQuery_MatchesDescriptionAndLocation(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexedSites()))

	ids, err := idx.Query("romain", 10)
	require.NoError(t, err)
	assert.Contains(t, ids, "s1")

	ids, err = idx.Query("bourgogne", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids)
}

func TestQuery_MonumentMatchSurfacesParentSite(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexedSites()))

	ids, err := idx.Query("forge", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids)
}

func TestQuery_PrefixOnName(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexedSites()))

	ids, err := idx.Query("abb", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids)
}

func TestQuery_EmptyTermMatchesNothing(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexedSites()))

	ids, err := idx.Query("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRebuild_DropsRemovedSites(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexedSites()))

	require.NoError(t, idx.Rebuild(indexedSites()[:1]))

	ids, err := idx.Query("abbaye", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
