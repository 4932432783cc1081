// Package aggregate computes derived views over the cached site tree: flattened
// comment rollups for moderation and summary statistics for the dashboard.
//
// Every function is pure: inputs are never mutated, absence of nested slices is
// treated as empty, and a zero rated-comment count yields nil instead of NaN.
package aggregate

import (
	"math"
	"sort"

	"github.com/heritageapp/heritage-admin/internal/domain"
)

// OwnedComment pairs a comment with the node that owns it. OwnerID is always the
// top-level site id, including for monument-owned comments, so moderation filters
// group by parent site. OwnerLabel is the site name, or "{site} - {monument}" for
// monument-owned comments.
type OwnedComment struct {
	Comment    domain.Comment `json:"comment"`
	OwnerID    string         `json:"ownerId"`
	OwnerLabel string         `json:"ownerLabel"`
}

// StatusCounts holds per-moderation-state comment totals.
type StatusCounts struct {
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// RankedSite is one entry of the top-sites ranking.
type RankedSite struct {
	Site         domain.Site `json:"site"`
	CommentCount int         `json:"commentCount"`
}

// SummaryStats is the dashboard summary over the whole collection.
type SummaryStats struct {
	TotalSites     int `json:"totalSites"`
	TotalMonuments int `json:"totalMonuments"`
	TotalComments  int `json:"totalComments"`
	// AverageRating is the mean of every rating present across site-level and
	// monument-level comments, rounded to 2 decimals; nil when nothing is rated.
	AverageRating          *float64     `json:"averageRating"`
	TopSitesByCommentCount []RankedSite `json:"topSitesByCommentCount"`
}

const topSitesLimit = 5

// Flatten produces one OwnedComment per comment in the collection. Ordering is
// stable: site-major, then monument order, then comment order as stored.
func Flatten(sites []domain.Site) []OwnedComment {
	var flat []OwnedComment
	for i := range sites {
		site := &sites[i]
		for _, c := range site.Comments {
			flat = append(flat, OwnedComment{
				Comment:    c,
				OwnerID:    site.ID,
				OwnerLabel: site.Name,
			})
		}
		for j := range site.Monuments {
			monument := &site.Monuments[j]
			for _, c := range monument.Comments {
				flat = append(flat, OwnedComment{
					Comment:    c,
					OwnerID:    site.ID,
					OwnerLabel: site.Name + " - " + monument.Name,
				})
			}
		}
	}
	return flat
}

// Filter keeps entries matching the given site id and moderation state. Both
// filters are AND-ed; a zero value means match-all.
func Filter(flat []OwnedComment, siteID string, status domain.ModerationState) []OwnedComment {
	out := make([]OwnedComment, 0, len(flat))
	for _, item := range flat {
		if siteID != "" && item.OwnerID != siteID {
			continue
		}
		if status != "" && item.Comment.ModerationState != status {
			continue
		}
		out = append(out, item)
	}
	return out
}

// CountByStatus tallies entries by moderation state. Counting is by exact enum
// equality only; unrecognized states are not counted anywhere.
func CountByStatus(flat []OwnedComment) StatusCounts {
	var counts StatusCounts
	for _, item := range flat {
		switch item.Comment.ModerationState {
		case domain.ModerationApproved:
			counts.Approved++
		case domain.ModerationPending:
			counts.Pending++
		case domain.ModerationRejected:
			counts.Rejected++
		}
	}
	return counts
}

// Summary computes the dashboard statistics over the whole collection.
func Summary(sites []domain.Site) SummaryStats {
	stats := SummaryStats{TotalSites: len(sites)}

	var ratingSum float64
	var ratingCount int

	type rankEntry struct {
		index int
		count int
	}
	ranks := make([]rankEntry, 0, len(sites))

	for i := range sites {
		site := &sites[i]
		count := len(site.Comments)
		stats.TotalMonuments += len(site.Monuments)

		for _, c := range site.Comments {
			if c.Rating != nil {
				ratingSum += *c.Rating
				ratingCount++
			}
		}
		for j := range site.Monuments {
			monument := &site.Monuments[j]
			count += len(monument.Comments)
			for _, c := range monument.Comments {
				if c.Rating != nil {
					ratingSum += *c.Rating
					ratingCount++
				}
			}
		}

		stats.TotalComments += count
		ranks = append(ranks, rankEntry{index: i, count: count})
	}

	if ratingCount > 0 {
		avg := round(ratingSum/float64(ratingCount), 2)
		stats.AverageRating = &avg
	}

	// Stable sort keeps ties in original collection order.
	sort.SliceStable(ranks, func(a, b int) bool {
		return ranks[a].count > ranks[b].count
	})
	limit := min(topSitesLimit, len(ranks))
	stats.TopSitesByCommentCount = make([]RankedSite, 0, limit)
	for _, r := range ranks[:limit] {
		stats.TopSitesByCommentCount = append(stats.TopSitesByCommentCount, RankedSite{
			Site:         sites[r.index],
			CommentCount: r.count,
		})
	}

	return stats
}

// NodeAverageRating returns the mean of a single node's own comment ratings
// (descendants excluded), rounded to 1 decimal, or nil when nothing is rated.
func NodeAverageRating(node *domain.Site) *float64 {
	var sum float64
	var count int
	for _, c := range node.Comments {
		if c.Rating != nil {
			sum += *c.Rating
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := round(sum/float64(count), 1)
	return &avg
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
