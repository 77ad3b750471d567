package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"hotel_portal/internal/domain"
)

// ---- fakes ----

type fakeHotels struct {
	mu     sync.Mutex
	m      map[string]domain.Hotel
	gets   int
	addErr error
}

func newFakeHotels() *fakeHotels { return &fakeHotels{m: map[string]domain.Hotel{}} }

func (f *fakeHotels) AddHotel(_ context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	if _, ok := f.m[h.ID]; ok {
		return domain.Fail(domain.DuplicateHotel, nil)
	}
	f.m[h.ID] = h
	return nil
}
func (f *fakeHotels) RemoveHotel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
	return nil
}
func (f *fakeHotels) SetDescriptions(_ context.Context, id string, d domain.Descriptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.m[id]
	if !ok {
		return domain.Fail(domain.InvalidHotel, nil)
	}
	h.AreaDesc, h.PropertyDesc = d.Area, d.Property
	f.m[id] = h
	return nil
}
func (f *fakeHotels) HotelExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.m[id]
	return ok, nil
}
func (f *fakeHotels) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	h, ok := f.m[id]
	if !ok {
		return domain.Hotel{}, domain.Fail(domain.InvalidHotel, nil)
	}
	return h, nil
}
func (f *fakeHotels) ListHotels(_ context.Context) ([]domain.Hotel, error) {
	return f.SearchHotels(context.Background(), "", "")
}
func (f *fakeHotels) SearchHotels(_ context.Context, name, city string) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hotel
	for _, h := range f.m {
		if name != "" && !strings.Contains(strings.ToLower(h.Name), strings.ToLower(name)) {
			continue
		}
		if city != "" && h.City != city {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
func (f *fakeHotels) ListCities(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, h := range f.m {
		if !seen[h.City] {
			seen[h.City] = true
			out = append(out, h.City)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeReviews struct {
	mu     sync.Mutex
	m      map[string]domain.Review
	hotels *fakeHotels
	reads  int
}

func newFakeReviews(h *fakeHotels) *fakeReviews {
	return &fakeReviews{m: map[string]domain.Review{}, hotels: h}
}

func (f *fakeReviews) AddReview(ctx context.Context, r domain.Review) error {
	if ok, _ := f.hotels.HotelExists(ctx, r.HotelID); !ok {
		return domain.Fail(domain.InvalidHotel, nil)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[r.ID]; ok {
		return domain.Fail(domain.DuplicateReview, nil)
	}
	f.m[r.ID] = r
	return nil
}
func (f *fakeReviews) UpdateReview(_ context.Context, r domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.m[r.ID]
	if !ok {
		return domain.Fail(domain.InvalidReview, nil)
	}
	// only the columns the UPDATE statement writes
	cur.Title, cur.Text, cur.Rating, cur.Recommended = r.Title, r.Text, r.Rating, r.Recommended
	f.m[r.ID] = cur
	return nil
}
func (f *fakeReviews) RemoveReview(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
	return nil
}
func (f *fakeReviews) RemoveReviewsByUser(_ context.Context, user string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, r := range f.m {
		if r.User == user {
			delete(f.m, id)
			n++
		}
	}
	return n, nil
}
func (f *fakeReviews) ReviewExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.m[id]
	return ok, nil
}
func (f *fakeReviews) GetReview(_ context.Context, id string) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.m[id]
	if !ok {
		return domain.Review{}, domain.Fail(domain.InvalidReview, nil)
	}
	return r, nil
}
func (f *fakeReviews) filter(keep func(domain.Review) bool) []domain.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, r := range f.m {
		if keep(r) {
			out = append(out, r)
		}
	}
	domain.SortReviews(out)
	return out
}
func (f *fakeReviews) ReviewsByHotel(_ context.Context, hotelID string) ([]domain.Review, error) {
	f.mu.Lock()
	f.reads++
	f.mu.Unlock()
	return f.filter(func(r domain.Review) bool { return r.HotelID == hotelID }), nil
}
func (f *fakeReviews) ReviewsByUser(_ context.Context, user string) ([]domain.Review, error) {
	return f.filter(func(r domain.Review) bool { return r.User == user }), nil
}
func (f *fakeReviews) AvgRating(_ context.Context, hotelID string) (float64, error) {
	rs := f.filter(func(r domain.Review) bool { return r.HotelID == hotelID })
	if len(rs) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range rs {
		sum += r.Rating
	}
	return sum / float64(len(rs)), nil
}

// fakeCache round-trips values through JSON like the Redis cache does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	b, ok := c.store[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = b
	c.mu.Unlock()
	return nil
}
func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}
func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}
