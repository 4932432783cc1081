package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritageapp/heritage-admin/internal/domain"
)

func ratingPtr(v float64) *float64 { return &v }

func comment(id string, state domain.ModerationState, rating *float64) domain.Comment {
	return domain.Comment{
		ID:              id,
		AuthorName:      "auteur-" + id,
		Message:         "message " + id,
		Date:            "2024-05-01T10:00:00Z",
		Rating:          rating,
		ModerationState: state,
	}
}

func collection() []domain.Site {
	return []domain.Site{
		{
			ID:   "s1",
			Name: "Vieux Port",
			Comments: []domain.Comment{
				comment("c1", domain.ModerationApproved, ratingPtr(5)),
				comment("c2", domain.ModerationPending, nil),
			},
			Monuments: []domain.Site{
				{
					ID:   "m1",
					Name: "Fort Saint-Jean",
					Comments: []domain.Comment{
						comment("c3", domain.ModerationRejected, ratingPtr(2)),
					},
				},
			},
		},
		{
			ID:   "s2",
			Name: "Abbaye",
			Comments: []domain.Comment{
				comment("c4", domain.ModerationApproved, ratingPtr(3)),
			},
		},
	}
}

func TestFlatten_OrderAndLabels(t *testing.T) {
	flat := Flatten(collection())
	require.Len(t, flat, 4)

	assert.Equal(t, "c1", flat[0].Comment.ID)
	assert.Equal(t, "Vieux Port", flat[0].OwnerLabel)
	assert.Equal(t, "s1", flat[0].OwnerID)

	// Monument comment carries the parent site id and a combined label.
	assert.Equal(t, "c3", flat[2].Comment.ID)
	assert.Equal(t, "s1", flat[2].OwnerID)
	assert.Equal(t, "Vieux Port - Fort Saint-Jean", flat[2].OwnerLabel)

	assert.Equal(t, "c4", flat[3].Comment.ID)
}

func TestFlatten_CountMatchesSummaryTotal(t *testing.T) {
	sites := collection()
	flat := Flatten(sites)
	stats := Summary(sites)
	assert.Equal(t, stats.TotalComments, len(flat))
}

func TestFlatten_EmptyAndNilSlices(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]domain.Site{{ID: "s1", Name: "Seul"}}))
}

func TestFilter_MatchAllIsIdentity(t *testing.T) {
	flat := Flatten(collection())
	assert.Equal(t, flat, Filter(flat, "", ""))
}

func TestFilter_Idempotent(t *testing.T) {
	flat := Flatten(collection())
	once := Filter(flat, "s1", domain.ModerationApproved)
	twice := Filter(once, "s1", domain.ModerationApproved)
	assert.Equal(t, once, twice)
}

func TestFilter_AndSemantics(t *testing.T) {
	flat := Flatten(collection())

	bySite := Filter(flat, "s1", "")
	assert.Len(t, bySite, 3)

	byStatus := Filter(flat, "", domain.ModerationApproved)
	assert.Len(t, byStatus, 2)

	both := Filter(flat, "s1", domain.ModerationApproved)
	require.Len(t, both, 1)
	assert.Equal(t, "c1", both[0].Comment.ID)
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(Flatten(collection()))
	assert.Equal(t, StatusCounts{Approved: 2, Pending: 1, Rejected: 1}, counts)
}

func TestCountByStatus_IgnoresUnknownStates(t *testing.T) {
	flat := []OwnedComment{
		{Comment: domain.Comment{ID: "c1", ModerationState: "en attente"}},
	}
	assert.Equal(t, StatusCounts{}, CountByStatus(flat))
}

func TestSummary_Totals(t *testing.T) {
	stats := Summary(collection())

	assert.Equal(t, 2, stats.TotalSites)
	assert.Equal(t, 1, stats.TotalMonuments)
	assert.Equal(t, 4, stats.TotalComments)
	require.NotNil(t, stats.AverageRating)
	// (5 + 2 + 3) / 3
	assert.InDelta(t, 3.33, *stats.AverageRating, 0.001)
}

func TestSummary_SingleSiteMixedRatings(t *testing.T) {
	sites := []domain.Site{
		{
			ID:   "s1",
			Name: "Site",
			Comments: []domain.Comment{
				comment("c1", domain.ModerationApproved, ratingPtr(4)),
			},
			Monuments: []domain.Site{
				{
					ID:   "m1",
					Name: "Monument",
					Comments: []domain.Comment{
						comment("c2", domain.ModerationPending, ratingPtr(2)),
						comment("c3", domain.ModerationPending, nil),
					},
				},
			},
		},
	}

	stats := Summary(sites)
	assert.Equal(t, 3, stats.TotalComments)
	require.NotNil(t, stats.AverageRating)
	assert.Equal(t, 3.0, *stats.AverageRating)
}

func TestSummary_NoRatedCommentsYieldsNilAverage(t *testing.T) {
	sites := []domain.Site{
		{ID: "s1", Name: "Site", Comments: []domain.Comment{
			comment("c1", domain.ModerationPending, nil),
		}},
	}
	stats := Summary(sites)
	assert.Nil(t, stats.AverageRating)
}

func TestSummary_TopSitesStableTieBreak(t *testing.T) {
	mkSite := func(id string, comments int) domain.Site {
		s := domain.Site{ID: id, Name: "Site " + id}
		for i := 0; i < comments; i++ {
			s.Comments = append(s.Comments, comment(id+"-c", domain.ModerationApproved, nil))
		}
		return s
	}
	sites := []domain.Site{
		mkSite("a", 5), mkSite("b", 3), mkSite("c", 3),
		mkSite("d", 0), mkSite("e", 1), mkSite("f", 2),
	}

	stats := Summary(sites)
	require.Len(t, stats.TopSitesByCommentCount, 5)

	counts := make([]int, 0, 5)
	ids := make([]string, 0, 5)
	for _, r := range stats.TopSitesByCommentCount {
		counts = append(counts, r.CommentCount)
		ids = append(ids, r.Site.ID)
	}
	assert.Equal(t, []int{5, 3, 3, 2, 1}, counts)
	// The two tied sites keep their original relative order.
	assert.Equal(t, []string{"a", "b", "c", "f", "e"}, ids)
}

func TestSummary_FewerThanFiveSites(t *testing.T) {
	stats := Summary(collection())
	assert.Len(t, stats.TopSitesByCommentCount, 2)
	assert.Equal(t, "s1", stats.TopSitesByCommentCount[0].Site.ID)
}

func TestNodeAverageRating(t *testing.T) {
	site := &domain.Site{
		ID: "s1",
		Comments: []domain.Comment{
			comment("c1", domain.ModerationApproved, ratingPtr(4)),
			comment("c2", domain.ModerationApproved, ratingPtr(3)),
			comment("c3", domain.ModerationApproved, nil),
		},
		Monuments: []domain.Site{
			// Descendant ratings are excluded.
			{ID: "m1", Comments: []domain.Comment{comment("c4", domain.ModerationApproved, ratingPtr(1))}},
		},
	}

	avg := NodeAverageRating(site)
	require.NotNil(t, avg)
	assert.Equal(t, 3.5, *avg)

	assert.Nil(t, NodeAverageRating(&domain.Site{ID: "empty"}))
}

func TestAggregate_NeverMutatesInput(t *testing.T) {
	sites := collection()
	before := Flatten(sites)

	Summary(sites)
	Filter(before, "s1", domain.ModerationApproved)
	CountByStatus(before)

	assert.Equal(t, collection(), sites)
}
