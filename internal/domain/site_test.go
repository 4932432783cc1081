package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingPtr(v float64) *float64 { return &v }

func testSite() *Site {
	return &Site{
		ID:   "s1",
		Name: "Vieux Port",
		Comments: []Comment{
			{ID: "c1", AuthorName: "Ana", Message: "superbe", ModerationState: ModerationPending},
		},
		Monuments: []Site{
			{
				ID:   "m1",
				Name: "Fort Saint-Jean",
				Comments: []Comment{
					{ID: "c2", AuthorName: "Marc", Message: "à voir", Rating: ratingPtr(4), ModerationState: ModerationApproved},
				},
			},
			{
				ID:   "m2",
				Name: "Phare",
				Comments: []Comment{
					{ID: "c3", AuthorName: "Zoe", Message: "ok", ModerationState: ModerationRejected},
				},
			},
		},
	}
}

func TestNormalize_FillsNilSlices(t *testing.T) {
	s := &Site{ID: "s1", Name: "Abbaye", Monuments: []Site{{ID: "m1", Name: "Cloître"}}}
	s.Normalize()

	assert.NotNil(t, s.Comments)
	assert.NotNil(t, s.Monuments)
	assert.NotNil(t, s.Categories)
	assert.NotNil(t, s.PhotoCarousel)
	assert.NotNil(t, s.OpeningHours)
	assert.NotNil(t, s.NearbyPlaces)
	assert.NotNil(t, s.Monuments[0].Comments)
	assert.NotNil(t, s.Monuments[0].Monuments)
}

func TestFindComment_SiteLevelFirst(t *testing.T) {
	s := testSite()

	c, owner := s.FindComment("c1")
	require.NotNil(t, c)
	assert.Equal(t, "Ana", c.AuthorName)
	assert.Equal(t, "s1", owner.ID)
}

func TestFindComment_MonumentsInOrder(t *testing.T) {
	s := testSite()

	c, owner := s.FindComment("c3")
	require.NotNil(t, c)
	assert.Equal(t, "m2", owner.ID)

	c, owner = s.FindComment("nope")
	assert.Nil(t, c)
	assert.Nil(t, owner)
}

func TestRemoveComment(t *testing.T) {
	s := testSite()

	assert.True(t, s.RemoveComment("c2"))
	assert.Len(t, s.Monuments[0].Comments, 0)
	assert.False(t, s.RemoveComment("c2"))

	assert.True(t, s.RemoveComment("c1"))
	assert.Len(t, s.Comments, 0)
}

func TestDepth(t *testing.T) {
	flat := &Site{ID: "s"}
	assert.Equal(t, 0, flat.Depth())

	s := testSite()
	assert.Equal(t, 1, s.Depth())

	deep := &Site{ID: "s", Monuments: []Site{{ID: "m", Monuments: []Site{{ID: "mm"}}}}}
	assert.Equal(t, 2, deep.Depth())
}

func TestClone_IsDeep(t *testing.T) {
	s := testSite()
	c := s.Clone()

	c.Comments[0].ModerationState = ModerationApproved
	c.Monuments[0].Comments[0].Message = "changed"

	assert.Equal(t, ModerationPending, s.Comments[0].ModerationState)
	assert.Equal(t, "à voir", s.Monuments[0].Comments[0].Message)
}

func TestModerationState_Valid(t *testing.T) {
	assert.True(t, ModerationApproved.Valid())
	assert.True(t, ModerationPending.Valid())
	assert.True(t, ModerationRejected.Valid())
	assert.False(t, ModerationState("en attente").Valid())
	assert.False(t, ModerationState("").Valid())
}

func TestNewFavoriteSnapshot(t *testing.T) {
	s := testSite()
	s.Categories = []string{"fortification"}
	s.PhotoCarousel = []string{"/img/port.jpg"}

	item := NewFavoriteSnapshot(FavoritePatrimoine, "", s)
	assert.Equal(t, "s1", item.ID)
	assert.Empty(t, item.ParentID)
	assert.Equal(t, "/img/port.jpg", item.Photo)

	m := &s.Monuments[0]
	item = NewFavoriteSnapshot(FavoriteMonument, s.ID, m)
	assert.Equal(t, "m1", item.ID)
	assert.Equal(t, "s1", item.ParentID)
	assert.Empty(t, item.Photo)
}
