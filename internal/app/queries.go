package app

import (
	"context"
	"encoding/json"
	"time"

	"hotel_portal/internal/domain"
)

// QueryService answers the read side of the portal from the store, with a
// read-through cache in front of the hot keys.
type QueryService struct {
	hotels   domain.HotelRepository
	reviews  domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(h domain.HotelRepository, r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: h, reviews: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id string) string   { return "hotel:" + id }
func reviewsKey(id string) string { return "reviews:" + id }

const citiesKey = "cities"

// HotelInfo returns the hotel with its current average rating.
func (s *QueryService) HotelInfo(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	avg, err := s.reviews.AvgRating(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.AvgRating = &avg
	_ = s.cache.Set(ctx, key, h, s.ttl())
	return h.Clone(), nil
}

// Reviews returns up to n reviews of a hotel, newest first; n <= 0 returns all.
func (s *QueryService) Reviews(ctx context.Context, hotelID string, n int) ([]domain.Review, error) {
	key := reviewsKey(hotelID)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); !ok {
		rs, err := s.reviews.ReviewsByHotel(ctx, hotelID)
		if err != nil {
			return nil, err
		}
		out = copyReviews(rs)

		// optional size guard
		if b, _ := json.Marshal(out); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, out, s.ttl())
		}
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return copyReviews(out), nil
}

func (s *QueryService) ReviewsByUser(ctx context.Context, user string) ([]domain.Review, error) {
	return s.reviews.ReviewsByUser(ctx, user)
}

// Search is not cached; the key space is unbounded.
func (s *QueryService) Search(ctx context.Context, name, city string) ([]domain.Hotel, error) {
	return s.hotels.SearchHotels(ctx, name, city)
}

func (s *QueryService) Cities(ctx context.Context) ([]string, error) {
	var out []string
	if ok, _ := s.cache.Get(ctx, citiesKey, &out); ok {
		return out, nil
	}
	out, err := s.hotels.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, citiesKey, out, s.ttl())
	return append([]string(nil), out...), nil
}

// Invalidate drops the cached views of one hotel after a write.
func (s *QueryService) Invalidate(ctx context.Context, hotelID string) {
	_ = s.cache.Del(ctx, hotelKey(hotelID))
	_ = s.cache.Del(ctx, reviewsKey(hotelID))
}

// InvalidateCities is called when the set of hotels changes.
func (s *QueryService) InvalidateCities(ctx context.Context) {
	_ = s.cache.Del(ctx, citiesKey)
}

func (s *QueryService) ttl() int { return int(s.cacheTTL.Seconds()) }

func copyReviews(in []domain.Review) []domain.Review {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Review, len(in))
	copy(out, in)
	return out
}
