// Package domain contains the core entities for the heritage-site catalog: sites,
// their nested monuments, visitor comments, and user favorites.
package domain

// Site represents a heritage entry. The same shape is used for top-level sites and
// for the monuments nested inside them; nesting is one level deep (a monument does
// not contain further monuments).
type Site struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name" validate:"required"`
	Location             string        `json:"location,omitempty"`
	Address              string        `json:"address,omitempty"`
	Description          string        `json:"description"`
	HistoricalOrigin     string        `json:"historicalOrigin,omitempty"`
	PhotoCarousel        []string      `json:"photoCarousel"`
	Latitude             float64       `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude            float64       `json:"longitude" validate:"gte=-180,lte=180"`
	Categories           []string      `json:"categories"`
	ConstructionDate     *string       `json:"constructionDate"`
	IsListed             bool          `json:"isListed"`
	EntryPrice           float64       `json:"entryPrice" validate:"gte=0"`
	IsOpen               bool          `json:"isOpen"`
	OpeningHours         []string      `json:"openingHours"`
	GuidedToursAvailable bool          `json:"guidedToursAvailable"`
	NearbyPlaces         []NearbyPlace `json:"nearbyPlaces"`
	Comments             []Comment     `json:"comments" validate:"dive"`
	Monuments            []Site        `json:"monuments"`
	// Stats is informational backend data. Derived views never trust it and
	// recompute from Comments instead.
	Stats *SiteStats `json:"stats,omitempty"`
}

// NearbyPlace is a point of interest close to a site.
type NearbyPlace struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// SiteStats holds backend-cached popularity numbers for a site.
type SiteStats struct {
	Views          int     `json:"views"`
	FavoritesCount int     `json:"favoritesCount"`
	AverageRating  float64 `json:"averageRating"`
}

// Normalize replaces nil slices with empty ones, recursively through monuments.
// Every site handed to aggregation or reconciliation code must be normalized first.
func (s *Site) Normalize() {
	if s.PhotoCarousel == nil {
		s.PhotoCarousel = []string{}
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.OpeningHours == nil {
		s.OpeningHours = []string{}
	}
	if s.NearbyPlaces == nil {
		s.NearbyPlaces = []NearbyPlace{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Monuments == nil {
		s.Monuments = []Site{}
	}
	for i := range s.Monuments {
		s.Monuments[i].Normalize()
	}
}

// NormalizeAll normalizes every site in a collection in place.
func NormalizeAll(sites []Site) {
	for i := range sites {
		sites[i].Normalize()
	}
}

// Depth returns the monument nesting depth below this node. A site with monuments
// that have no monuments of their own has depth 1.
func (s *Site) Depth() int {
	depth := 0
	for i := range s.Monuments {
		if d := s.Monuments[i].Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// FindComment locates a comment by id inside this site's tree. Site-level comments
// are checked first, then each monument in order; the first match wins. Comment ids
// are assumed unique across the tree. The returned owner is the node holding the
// comment (the site itself or one of its monuments).
func (s *Site) FindComment(commentID string) (comment *Comment, owner *Site) {
	for i := range s.Comments {
		if s.Comments[i].ID == commentID {
			return &s.Comments[i], s
		}
	}
	for i := range s.Monuments {
		m := &s.Monuments[i]
		for j := range m.Comments {
			if m.Comments[j].ID == commentID {
				return &m.Comments[j], m
			}
		}
	}
	return nil, nil
}

// RemoveComment deletes a comment by id from this site's tree, searching in the
// same order as FindComment. Returns false when no comment matched.
func (s *Site) RemoveComment(commentID string) bool {
	for i := range s.Comments {
		if s.Comments[i].ID == commentID {
			s.Comments = append(s.Comments[:i], s.Comments[i+1:]...)
			return true
		}
	}
	for i := range s.Monuments {
		m := &s.Monuments[i]
		for j := range m.Comments {
			if m.Comments[j].ID == commentID {
				m.Comments = append(m.Comments[:j], m.Comments[j+1:]...)
				return true
			}
		}
	}
	return false
}

// FindMonument returns the monument with the given id, or nil.
func (s *Site) FindMonument(monumentID string) *Site {
	for i := range s.Monuments {
		if s.Monuments[i].ID == monumentID {
			return &s.Monuments[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the site. Reconciliation code mutates clones so
// callers holding earlier snapshots never observe partial updates.
func (s *Site) Clone() *Site {
	c := *s
	c.PhotoCarousel = append([]string(nil), s.PhotoCarousel...)
	c.Categories = append([]string(nil), s.Categories...)
	c.OpeningHours = append([]string(nil), s.OpeningHours...)
	c.NearbyPlaces = append([]NearbyPlace(nil), s.NearbyPlaces...)
	c.Comments = append([]Comment(nil), s.Comments...)
	if s.ConstructionDate != nil {
		d := *s.ConstructionDate
		c.ConstructionDate = &d
	}
	if s.Stats != nil {
		st := *s.Stats
		c.Stats = &st
	}
	if s.Monuments != nil {
		c.Monuments = make([]Site, len(s.Monuments))
		for i := range s.Monuments {
			c.Monuments[i] = *s.Monuments[i].Clone()
		}
	}
	return &c
}
