package index

import (
	"github.com/google/btree"

	"hotel_portal/internal/domain"
)

const treeDegree = 16

// ReviewSet is an ordered, id-unique collection of reviews for one hotel.
// It is not safe for concurrent use; a worker owns its set until it hands it to Merge.
type ReviewSet struct {
	hotelID string
	tree    *btree.BTreeG[domain.Review]
	byID    map[string]domain.Review
}

func lessReview(a, b domain.Review) bool { return domain.CompareReviews(a, b) < 0 }

func NewReviewSet() *ReviewSet {
	return &ReviewSet{
		tree: btree.NewG(treeDegree, lessReview),
		byID: make(map[string]domain.Review),
	}
}

// Add validates r and inserts it. The first review fixes the set's hotel id;
// a review for another hotel is rejected with InvalidReview.
func (s *ReviewSet) Add(r domain.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if s.hotelID != "" && s.hotelID != r.HotelID {
		return domain.Failf(domain.InvalidReview, "review %s belongs to hotel %s, set holds %s", r.ID, r.HotelID, s.hotelID)
	}
	if _, dup := s.byID[r.ID]; dup {
		return domain.Failf(domain.DuplicateReview, "review %s", r.ID)
	}
	s.hotelID = r.HotelID
	s.tree.ReplaceOrInsert(r)
	s.byID[r.ID] = r
	return nil
}

// Remove deletes the review with the given id, reporting whether it was present.
func (s *ReviewSet) Remove(id string) bool {
	r, ok := s.byID[id]
	if !ok {
		return false
	}
	s.tree.Delete(r)
	delete(s.byID, id)
	return true
}

func (s *ReviewSet) Get(id string) (domain.Review, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// HotelID is the hotel of the first accepted review, or "" for an empty set.
func (s *ReviewSet) HotelID() string { return s.hotelID }

func (s *ReviewSet) Len() int { return s.tree.Len() }

// Reviews returns up to n reviews in order; n <= 0 means all of them.
func (s *ReviewSet) Reviews(n int) []domain.Review {
	size := s.tree.Len()
	if n > 0 && n < size {
		size = n
	}
	out := make([]domain.Review, 0, size)
	s.tree.Ascend(func(r domain.Review) bool {
		out = append(out, r)
		return len(out) < size
	})
	return out
}

// clone is a copy-on-write snapshot; later writes to s are not visible in it.
func (s *ReviewSet) clone() *ReviewSet {
	ids := make(map[string]domain.Review, len(s.byID))
	for k, v := range s.byID {
		ids[k] = v
	}
	return &ReviewSet{hotelID: s.hotelID, tree: s.tree.Clone(), byID: ids}
}
