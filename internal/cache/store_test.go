package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritageapp/heritage-admin/internal/domain"
	"github.com/heritageapp/heritage-admin/internal/errors"
	"github.com/heritageapp/heritage-admin/internal/logger"
)

// fakeGateway is a controllable Gateway for store tests.
type fakeGateway struct {
	mu        sync.Mutex
	listCalls atomic.Int32
	listErr   error
	sites     []domain.Site
	release   chan struct{} // when set, ListSites blocks until closed
}

func (f *fakeGateway) ListSites(ctx context.Context) ([]domain.Site, error) {
	f.listCalls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Site(nil), f.sites...), nil
}

func (f *fakeGateway) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sites {
		if f.sites[i].ID == id {
			site := *f.sites[i].Clone()
			return &site, nil
		}
	}
	return nil, errors.NotFoundf("site %s not found", id)
}

func (f *fakeGateway) CreateSite(ctx context.Context, s *domain.Site) (*domain.Site, error) {
	return s, nil
}

func (f *fakeGateway) UpdateSite(ctx context.Context, s *domain.Site) (*domain.Site, error) {
	return s, nil
}

func (f *fakeGateway) DeleteSite(ctx context.Context, id string) error { return nil }

func (f *fakeGateway) SearchSites(ctx context.Context, term string) ([]domain.Site, error) {
	return nil, nil
}

func twoSites() []domain.Site {
	return []domain.Site{
		{ID: "s1", Name: "Vieux Port", Comments: []domain.Comment{}, Monuments: []domain.Site{}},
		{ID: "s2", Name: "Abbaye", Comments: []domain.Comment{}, Monuments: []domain.Site{}},
	}
}

func TestLoadAll_SingleFetchWhileInFlight(t *testing.T) {
	gw := &fakeGateway{sites: twoSites(), release: make(chan struct{})}
	store := NewStore(gw, logger.Discard().Logger)
	ctx := context.Background()

	store.LoadAll(ctx)
	store.LoadAll(ctx) // in flight: must not start a second fetch
	store.LoadAll(ctx)

	close(gw.release)
	require.NoError(t, store.WaitReady(ctx))

	assert.Equal(t, int32(1), gw.listCalls.Load())
	assert.Len(t, store.Items(), 2)
	assert.False(t, store.Loading())

	// Warm cache: still no further fetch.
	store.LoadAll(ctx)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), gw.listCalls.Load())
}

func TestLoadAll_FailureSetsErrorAndKeepsItemsEmpty(t *testing.T) {
	gw := &fakeGateway{listErr: errors.Network("connection refused")}
	store := NewStore(gw, logger.Discard().Logger)

	ch, cancel := store.Subscribe()
	defer cancel()

	store.LoadAll(context.Background())

	select {
	case u := <-ch:
		assert.Equal(t, UpdateError, u)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	assert.Empty(t, store.Items())
	assert.Equal(t, "unable to load sites", store.Err())
	assert.False(t, store.Loading())
	// No automatic retry.
	assert.Equal(t, int32(1), gw.listCalls.Load())
}

func TestWaitReady_TimesOut(t *testing.T) {
	gw := &fakeGateway{listErr: errors.Network("down")}
	store := NewStore(gw, logger.Discard().Logger)
	store.LoadAll(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := store.WaitReady(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNetwork))
}

func TestWaitReady_ReturnsOnLoadFailure(t *testing.T) {
	gw := &fakeGateway{listErr: errors.Network("connection refused")}
	store := NewStore(gw, logger.Discard().Logger)
	store.LoadAll(context.Background())

	// Callers pass deadline-free request contexts; a failed load must still
	// release them with the store error instead of blocking.
	done := make(chan error, 1)
	go func() { done <- store.WaitReady(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNetwork))
		assert.Contains(t, err.Error(), "unable to load sites")
	case <-time.After(time.Second):
		t.Fatal("WaitReady still blocked after the load failed")
	}
}

func TestWaitReady_ReArmsAfterFailedLoad(t *testing.T) {
	gw := &fakeGateway{listErr: errors.Network("down")}
	store := NewStore(gw, logger.Discard().Logger)
	ctx := context.Background()

	store.LoadAll(ctx)
	require.Error(t, store.WaitReady(ctx))

	gw.mu.Lock()
	gw.listErr = nil
	gw.sites = twoSites()
	gw.mu.Unlock()

	store.LoadAll(ctx)
	require.NoError(t, store.WaitReady(ctx))
	assert.Len(t, store.Items(), 2)
	assert.Empty(t, store.Err())
}

func TestLoadAll_SurvivesCallerCancellation(t *testing.T) {
	gw := &fakeGateway{sites: twoSites(), release: make(chan struct{})}
	store := NewStore(gw, logger.Discard().Logger)

	ctx, cancel := context.WithCancel(context.Background())
	store.LoadAll(ctx)
	cancel() // the fetch is shared; one caller disconnecting must not abort it

	close(gw.release)
	require.NoError(t, store.WaitReady(context.Background()))
	assert.Len(t, store.Items(), 2)
}

func TestForceReload_BypassesMemoization(t *testing.T) {
	gw := &fakeGateway{sites: twoSites()}
	store := NewStore(gw, logger.Discard().Logger)
	ctx := context.Background()

	store.LoadAll(ctx)
	require.NoError(t, store.WaitReady(ctx))
	require.Equal(t, int32(1), gw.listCalls.Load())

	gw.mu.Lock()
	gw.sites = append(gw.sites, domain.Site{ID: "s3", Name: "Pont"})
	gw.mu.Unlock()

	ch, cancel := store.Subscribe()
	defer cancel()
	store.ForceReload(ctx)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no update after force reload")
	}

	assert.Equal(t, int32(2), gw.listCalls.Load())
	assert.Len(t, store.Items(), 3)
}

func TestGetByID_AlwaysFetchesFresh(t *testing.T) {
	gw := &fakeGateway{sites: twoSites()}
	store := NewStore(gw, logger.Discard().Logger)
	ctx := context.Background()

	site, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Vieux Port", site.Name)

	_, err = store.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReplaceItem_RefreshesMatchingDetail(t *testing.T) {
	gw := &fakeGateway{sites: twoSites()}
	store := NewStore(gw, logger.Discard().Logger)
	ctx := context.Background()

	store.LoadAll(ctx)
	require.NoError(t, store.WaitReady(ctx))

	detail, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	store.SetCurrentDetail(detail)

	updated := detail.Clone()
	updated.Name = "Vieux Port rénové"
	assert.True(t, store.ReplaceItem(updated))

	assert.Equal(t, "Vieux Port rénové", store.CurrentDetail().Name)
	items := store.Items()
	assert.Equal(t, "Vieux Port rénové", items[0].Name)

	assert.False(t, store.ReplaceItem(&domain.Site{ID: "nope"}))
}

func TestRemoveItem_ClearsMatchingDetail(t *testing.T) {
	gw := &fakeGateway{sites: twoSites()}
	store := NewStore(gw, logger.Discard().Logger)
	ctx := context.Background()

	store.LoadAll(ctx)
	require.NoError(t, store.WaitReady(ctx))

	detail, err := store.GetByID(ctx, "s2")
	require.NoError(t, err)
	store.SetCurrentDetail(detail)

	assert.True(t, store.RemoveItem("s2"))
	assert.Nil(t, store.CurrentDetail())
	assert.Len(t, store.Items(), 1)
}

func TestClearCurrentDetailIf(t *testing.T) {
	gw := &fakeGateway{sites: twoSites()}
	store := NewStore(gw, logger.Discard().Logger)

	store.SetCurrentDetail(&domain.Site{ID: "s1"})
	assert.False(t, store.ClearCurrentDetailIf("s2"))
	assert.NotNil(t, store.CurrentDetail())
	assert.True(t, store.ClearCurrentDetailIf("s1"))
	assert.Nil(t, store.CurrentDetail())
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	gw := &fakeGateway{sites: twoSites()}
	store := NewStore(gw, logger.Discard().Logger)

	ch, cancel := store.Subscribe()
	cancel()
	// Cancel twice is safe.
	cancel()

	store.SetError("late failure")

	_, open := <-ch
	assert.False(t, open, "canceled subscription channel should be closed")
}
