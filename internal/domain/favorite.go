package domain

// FavoriteKind distinguishes a favorited top-level site from a favorited monument.
type FavoriteKind string

// Favorite kinds.
const (
	FavoritePatrimoine FavoriteKind = "patrimoine"
	FavoriteMonument   FavoriteKind = "monument"
)

// Valid returns true if the kind is a recognized value.
func (k FavoriteKind) Valid() bool {
	return k == FavoritePatrimoine || k == FavoriteMonument
}

// FavoriteItem is a user-local snapshot of a favorited site or monument. Its
// lifecycle is independent of the server-backed catalog: created and destroyed
// purely by user toggles, never sent to the backend.
type FavoriteItem struct {
	ID   string       `json:"id"`
	Kind FavoriteKind `json:"kind"`
	// ParentID is the owning site id, set only for monuments. Monument ids are
	// unique per parent, not globally, so membership is keyed (kind, id, parentId).
	ParentID   string   `json:"parentId,omitempty"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Photo      string   `json:"photo,omitempty"`
}

// NewFavoriteSnapshot builds a FavoriteItem from a site or monument node.
func NewFavoriteSnapshot(kind FavoriteKind, parentID string, node *Site) FavoriteItem {
	item := FavoriteItem{
		ID:         node.ID,
		Kind:       kind,
		Name:       node.Name,
		Categories: append([]string(nil), node.Categories...),
	}
	if kind == FavoriteMonument {
		item.ParentID = parentID
	}
	if len(node.PhotoCarousel) > 0 {
		item.Photo = node.PhotoCarousel[0]
	}
	return item
}
