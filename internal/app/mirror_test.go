package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_portal/internal/app"
	"hotel_portal/internal/domain"
	"hotel_portal/internal/index"
)

func mirroredIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New()
	ix.AddHotel(domain.Hotel{ID: "A", Name: "Alpha", City: "X"})
	ix.AddHotel(domain.Hotel{ID: "B", Name: "Beta", City: "Y"})
	ix.AddHotel(domain.Hotel{ID: "C", Name: "Gamma", City: "Y"})
	for _, r := range []domain.Review{
		{ID: "r1", HotelID: "A", User: "amy", Rating: 3, Submitted: at("2024-01-01T10:00:00")},
		{ID: "r2", HotelID: "A", User: "bob", Rating: 5, Submitted: at("2024-01-02T10:00:00")},
		{ID: "r3", HotelID: "B", User: "cat", Rating: 1, Submitted: at("2024-01-03T10:00:00")},
	} {
		require.NoError(t, ix.AddReview(r))
	}
	return ix
}

func TestMirror_CopiesIndexAndIsIdempotent(t *testing.T) {
	ix := mirroredIndex(t)
	hotels := newFakeHotels()
	reviews := newFakeReviews(hotels)
	m := app.NewMirror(ix, hotels, reviews, 2)

	rep, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, app.MirrorReport{HotelsInserted: 3, ReviewsInserted: 3}, rep)
	assert.Len(t, hotels.m, 3)
	assert.Len(t, reviews.m, 3)

	h, _ := ix.FindHotel("A")
	require.NotNil(t, h.AvgRating)
	assert.Equal(t, 4.0, *h.AvgRating)
	h, _ = ix.FindHotel("C")
	require.NotNil(t, h.AvgRating)
	assert.Zero(t, *h.AvgRating)

	rep, err = m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, app.MirrorReport{HotelsPresent: 3, ReviewsPresent: 3}, rep)
}

func TestMirror_StopsOnStoreFailure(t *testing.T) {
	ix := mirroredIndex(t)
	hotels := newFakeHotels()
	hotels.addErr = domain.Fail(domain.SqlException, errors.New("boom"))
	m := app.NewMirror(ix, hotels, newFakeReviews(hotels), 2)

	_, err := m.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.SqlException, domain.StatusOf(err))
}
