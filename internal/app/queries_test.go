package app_test

import (
	"context"
	"testing"
	"time"

	"hotel_portal/internal/app"
	"hotel_portal/internal/domain"
)

func at(s string) time.Time {
	t, _ := time.Parse(domain.TimeLayout, s)
	return t
}

func seededStore(t *testing.T) (*fakeHotels, *fakeReviews) {
	t.Helper()
	hotels := newFakeHotels()
	reviews := newFakeReviews(hotels)
	ctx := context.Background()
	_ = hotels.AddHotel(ctx, domain.Hotel{ID: "A", Name: "Alpha", City: "X", State: "CA"})
	_ = hotels.AddHotel(ctx, domain.Hotel{ID: "B", Name: "Beta", City: "Y", State: "NY"})
	for _, r := range []domain.Review{
		{ID: "r1", HotelID: "A", User: "amy", Rating: 3, Submitted: at("2024-01-01T10:00:00")},
		{ID: "r2", HotelID: "A", User: "bob", Rating: 5, Submitted: at("2024-01-02T10:00:00")},
	} {
		if err := reviews.AddReview(ctx, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return hotels, reviews
}

func TestHotelInfo_CacheMissThenHit(t *testing.T) {
	hotels, reviews := seededStore(t)
	cache := newFakeCache()
	q := app.NewQueryService(hotels, reviews, cache, 10*time.Minute)
	ctx := context.Background()

	// Miss (first time, populates cache)
	h, err := q.HotelInfo(ctx, "A")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Name != "Alpha" || h.AvgRating == nil || *h.AvgRating != 4.0 {
		t.Fatalf("unexpected hotel: %+v", h)
	}

	// Mutate repo to ensure second read indeed comes from cache
	hotels.m["A"] = domain.Hotel{ID: "A", Name: "SHOULD NOT SEE THIS"}

	h2, err := q.HotelInfo(ctx, "A")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h2.Name != "Alpha" || hotels.gets != 1 {
		t.Fatalf("expected cached hotel, got %+v after %d repo reads", h2, hotels.gets)
	}

	q.Invalidate(ctx, "A")
	h3, _ := q.HotelInfo(ctx, "A")
	if h3.Name != "SHOULD NOT SEE THIS" {
		t.Fatalf("invalidate did not drop the cached hotel: %+v", h3)
	}
}

func TestHotelInfo_UnknownAndNoReviews(t *testing.T) {
	hotels, reviews := seededStore(t)
	q := app.NewQueryService(hotels, reviews, newFakeCache(), time.Minute)

	if _, err := q.HotelInfo(context.Background(), "nope"); domain.StatusOf(err) != domain.InvalidHotel {
		t.Fatalf("expected InvalidHotel, got %v", err)
	}
	h, err := q.HotelInfo(context.Background(), "B")
	if err != nil || h.AvgRating == nil || *h.AvgRating != 0 {
		t.Fatalf("expected avg 0, got %+v, %v", h, err)
	}
}

func TestReviews_CacheAndLimit(t *testing.T) {
	hotels, reviews := seededStore(t)
	cache := newFakeCache()
	q := app.NewQueryService(hotels, reviews, cache, time.Minute)
	ctx := context.Background()

	out, err := q.Reviews(ctx, "A", 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 2 || out[0].ID != "r2" || out[1].ID != "r1" {
		t.Fatalf("unexpected order: %+v", out)
	}
	if !out[0].Submitted.Equal(at("2024-01-02T10:00:00")) {
		t.Fatalf("timestamp lost: %v", out[0].Submitted)
	}

	// mutating the result must not leak into the cache
	out[0].Title = "changed"
	one, _ := q.Reviews(ctx, "A", 1)
	if len(one) != 1 || one[0].ID != "r2" || one[0].Title == "changed" {
		t.Fatalf("unexpected cached reviews: %+v", one)
	}
	if reviews.reads != 1 {
		t.Fatalf("expected one repo read, got %d", reviews.reads)
	}
}

func TestCitiesAndSearch(t *testing.T) {
	hotels, reviews := seededStore(t)
	cache := newFakeCache()
	q := app.NewQueryService(hotels, reviews, cache, time.Minute)
	ctx := context.Background()

	cities, err := q.Cities(ctx)
	if err != nil || len(cities) != 2 || cities[0] != "X" {
		t.Fatalf("Cities = %v, %v", cities, err)
	}
	if !cache.has("cities") {
		t.Fatalf("cities not cached")
	}
	q.InvalidateCities(ctx)
	if cache.has("cities") {
		t.Fatalf("cities still cached")
	}

	hs, err := q.Search(ctx, "alp", "")
	if err != nil || len(hs) != 1 || hs[0].ID != "A" {
		t.Fatalf("Search = %v, %v", hs, err)
	}
}
