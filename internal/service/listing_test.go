package service

import (
	"context"
	"testing"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingIDs(page *domain.ListingPage) []string {
	ids := make([]string, len(page.Items))
	for i, l := range page.Items {
		ids[i] = l.ID
	}
	return ids
}

func samplePage() *domain.ListingPage {
	return &domain.ListingPage{
		Items: []*domain.Listing{
			{ID: "a", Price: 3_000_000, Area: 20},
			{ID: "b", Price: 1_500_000, Area: 35},
			{ID: "c", Price: 2_000_000, Area: 25},
		},
		Total: 3, Page: 1, Limit: 20,
	}
}

func TestSearchCachesByFilterKey(t *testing.T) {
	repo := newFakeRepo()
	repo.page = samplePage()
	svc := NewListingService(repo, newCache(t), testLogger)
	ctx := context.Background()

	f := query.New(20).ApplyPricePreset(query.PricePresets[2])

	_, err := svc.Search(ctx, f, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, "1000000", repo.lastQuery.Get("min_price"))
	assert.Equal(t, "2000000", repo.lastQuery.Get("max_price"))

	// Same filter, different sort: served from cache
	page, err := svc.Search(ctx, f, query.Sort{Field: query.SortPrice})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count("SearchListings"))
	assert.Equal(t, []string{"b", "c", "a"}, listingIDs(page))

	// Different filter: network
	_, err = svc.Search(ctx, f.Toggle("wifi"), query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("SearchListings"))
}

func TestCachedSearch(t *testing.T) {
	repo := newFakeRepo()
	repo.page = samplePage()
	svc := NewListingService(repo, newCache(t), testLogger)
	f := query.New(20)

	_, ok := svc.CachedSearch(f, query.Sort{})
	assert.False(t, ok)

	_, err := svc.Search(context.Background(), f, query.Sort{})
	require.NoError(t, err)

	page, ok := svc.CachedSearch(f, query.Sort{Field: query.SortArea, Direction: query.SortDesc})
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c", "a"}, listingIDs(page))
}

func TestSearchErrorIsNotCached(t *testing.T) {
	repo := newFakeRepo()
	repo.err = domain.ErrServerOffline
	svc := NewListingService(repo, newCache(t), testLogger)
	f := query.New(20)

	_, err := svc.Search(context.Background(), f, query.Sort{})
	assert.ErrorIs(t, err, domain.ErrServerOffline)

	repo.err = nil
	repo.page = samplePage()
	page, err := svc.Search(context.Background(), f, query.Sort{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
}

func TestRefreshBypassesCache(t *testing.T) {
	repo := newFakeRepo()
	repo.page = samplePage()
	svc := NewListingService(repo, newCache(t), testLogger)
	f := query.New(20)

	_, err := svc.Search(context.Background(), f, query.Sort{})
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), f, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("SearchListings"))
}

func TestMutationInvalidatesSearchPages(t *testing.T) {
	repo := newFakeRepo()
	repo.page = samplePage()
	repo.listing = &domain.Listing{ID: "a"}
	cache := newCache(t)
	svc := NewListingService(repo, cache, testLogger)
	ctx := context.Background()
	f := query.New(20)

	_, err := svc.Search(ctx, f, query.Sort{})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "a"))

	_, err = svc.Search(ctx, f, query.Sort{})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("SearchListings"))
	assert.Equal(t, 2, repo.count("GetListing"))
}

func TestCreateValidatesLocally(t *testing.T) {
	repo := newFakeRepo()
	svc := NewListingService(repo, newCache(t), testLogger)
	ctx := context.Background()

	title := "Phòng trọ khép kín"
	zero := int64(0)
	price := int64(2_500_000)
	lat := 21.0

	_, err := svc.Create(ctx, domain.ListingInput{Price: &price})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, domain.ListingInput{Title: &title, Price: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, domain.ListingInput{Title: &title, Price: &price, Lat: &lat})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, repo.count("CreateListing"))

	created, err := svc.Create(ctx, domain.ListingInput{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
}

func TestSearchAllWalksPages(t *testing.T) {
	repo := newFakeRepo()
	repo.pages = map[string]*domain.ListingPage{
		"1": {Items: []*domain.Listing{{ID: "1"}, {ID: "2"}}, Total: 5},
		"2": {Items: []*domain.Listing{{ID: "3"}, {ID: "4"}}, Total: 5},
		"3": {Items: []*domain.Listing{{ID: "5"}}, Total: 5},
	}
	svc := NewListingService(repo, newCache(t), testLogger)

	var progress []int
	all, err := svc.SearchAll(context.Background(), query.New(2), func(loaded, total int) {
		progress = append(progress, loaded)
	})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, []int{2, 4, 5}, progress)
	assert.Equal(t, 3, repo.count("SearchListings"))
}
