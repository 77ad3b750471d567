// Package index holds the authoritative in-memory view of hotels, their reviews,
// attractions and descriptions. All state sits behind one RWMutex; readers get copies.
package index

import (
	"sort"
	"sync"

	"hotel_portal/internal/domain"
)

type Index struct {
	mu           sync.RWMutex
	hotels       map[string]domain.Hotel
	reviews      map[string]*ReviewSet
	attractions  map[string][]domain.Attraction
	descriptions map[string]domain.Descriptions
}

func New() *Index {
	return &Index{
		hotels:       make(map[string]domain.Hotel),
		reviews:      make(map[string]*ReviewSet),
		attractions:  make(map[string][]domain.Attraction),
		descriptions: make(map[string]domain.Descriptions),
	}
}

// AddHotel inserts or replaces h.
func (x *Index) AddHotel(h domain.Hotel) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.hotels[h.ID] = h.Clone()
}

// RemoveHotel drops the hotel and everything keyed by it.
func (x *Index) RemoveHotel(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.hotels[id]; !ok {
		return false
	}
	delete(x.hotels, id)
	delete(x.reviews, id)
	delete(x.attractions, id)
	delete(x.descriptions, id)
	return true
}

// Merge installs a snapshot of set as the review set of hotelID.
// Unknown hotels are ignored and reported with false.
func (x *Index) Merge(hotelID string, set *ReviewSet) bool {
	if set == nil {
		set = NewReviewSet()
	}
	snap := set.clone()

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.hotels[hotelID]; !ok {
		return false
	}
	x.reviews[hotelID] = snap
	return true
}

// AddReview inserts r into the live set of its hotel.
func (x *Index) AddReview(r domain.Review) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.hotels[r.HotelID]; !ok {
		return domain.Failf(domain.InvalidHotel, "hotel %q", r.HotelID)
	}
	set, ok := x.reviews[r.HotelID]
	if !ok {
		set = NewReviewSet()
	}
	if err := set.Add(r); err != nil {
		return err
	}
	x.reviews[r.HotelID] = set
	return nil
}

// UpdateReview replaces the stored review carrying r.ID.
func (x *Index) UpdateReview(r domain.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	set, ok := x.reviews[r.HotelID]
	if !ok || !set.Remove(r.ID) {
		return domain.Failf(domain.InvalidReview, "review %q", r.ID)
	}
	return set.Add(r)
}

// RemoveReview deletes a review by id from the hotel's set.
func (x *Index) RemoveReview(hotelID, reviewID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	set, ok := x.reviews[hotelID]
	if !ok {
		return false
	}
	return set.Remove(reviewID)
}

// AddAttractions replaces the attraction list of a known hotel.
func (x *Index) AddAttractions(hotelID string, list []domain.Attraction) bool {
	cp := append([]domain.Attraction(nil), list...)
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.hotels[hotelID]; !ok {
		return false
	}
	x.attractions[hotelID] = cp
	return true
}

// SetDescriptions replaces the descriptions of a known hotel and mirrors them onto the hotel record.
func (x *Index) SetDescriptions(hotelID string, d domain.Descriptions) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	h, ok := x.hotels[hotelID]
	if !ok {
		return false
	}
	h.AreaDesc, h.PropertyDesc = d.Area, d.Property
	x.hotels[hotelID] = h
	x.descriptions[hotelID] = d
	return true
}

func (x *Index) SetAvgRating(hotelID string, v float64) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	h, ok := x.hotels[hotelID]
	if !ok {
		return false
	}
	h.AvgRating = &v
	x.hotels[hotelID] = h
	return true
}

// Hotels returns the known hotel ids in ascending order.
func (x *Index) Hotels() []string {
	x.mu.RLock()
	ids := make([]string, 0, len(x.hotels))
	for id := range x.hotels {
		ids = append(ids, id)
	}
	x.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (x *Index) FindHotel(id string) (domain.Hotel, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	h, ok := x.hotels[id]
	if !ok {
		return domain.Hotel{}, false
	}
	return h.Clone(), true
}

func (x *Index) FindAttractions(id string) []domain.Attraction {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]domain.Attraction(nil), x.attractions[id]...)
}

func (x *Index) FindDescriptions(id string) (domain.Descriptions, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	d, ok := x.descriptions[id]
	return d, ok
}

// FindReviews returns up to n reviews of a hotel in order; n <= 0 returns all.
func (x *Index) FindReviews(id string, n int) []domain.Review {
	x.mu.RLock()
	defer x.mu.RUnlock()
	set, ok := x.reviews[id]
	if !ok {
		return nil
	}
	return set.Reviews(n)
}

// HotelsSnapshot copies every hotel, ordered by id.
func (x *Index) HotelsSnapshot() []domain.Hotel {
	x.mu.RLock()
	out := make([]domain.Hotel, 0, len(x.hotels))
	for _, h := range x.hotels {
		out = append(out, h.Clone())
	}
	x.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (x *Index) ReviewsSnapshot(id string) []domain.Review { return x.FindReviews(id, 0) }
