package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_portal/internal/domain"
	"hotel_portal/internal/index"
)

// ReviewInput is what a signed-in user submits from the review form.
type ReviewInput struct {
	Rating      float64
	Recommended bool
	Title       string
	Text        string
}

// ReviewService applies user edits to the store first and then to the index.
type ReviewService struct {
	ix    *index.Index
	repo  domain.ReviewRepository
	q     *QueryService
	now   func() time.Time
	newID func() string
}

func NewReviewService(ix *index.Index, repo domain.ReviewRepository, q *QueryService) *ReviewService {
	return &ReviewService{ix: ix, repo: repo, q: q, now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the time source; used by tests.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

func (s *ReviewService) stamp() time.Time { return s.now().UTC().Truncate(time.Second) }

// Add stores a new review by user, with a server-side id and timestamp.
func (s *ReviewService) Add(ctx context.Context, hotelID, user string, in ReviewInput) (domain.Review, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		user = domain.Anonymous
	}
	r := domain.Review{
		ID:          s.newID(),
		HotelID:     hotelID,
		User:        user,
		Rating:      in.Rating,
		Recommended: in.Recommended,
		Title:       strings.TrimSpace(in.Title),
		Text:        strings.TrimSpace(in.Text),
		Submitted:   s.stamp(),
	}
	if err := r.Validate(); err != nil {
		return domain.Review{}, err
	}
	if err := s.repo.AddReview(ctx, r); err != nil {
		return domain.Review{}, err
	}
	if err := s.ix.AddReview(r); err != nil {
		log.Warn().Str("hotel", hotelID).Str("review", r.ID).Err(err).Msg("index add review failed")
	}
	s.q.Invalidate(ctx, hotelID)
	return r, nil
}

// Edit rewrites a review owned by user. The submission time is kept.
func (s *ReviewService) Edit(ctx context.Context, reviewID, user string, in ReviewInput) (domain.Review, error) {
	r, err := s.owned(ctx, reviewID, user)
	if err != nil {
		return domain.Review{}, err
	}
	r.Rating = in.Rating
	r.Recommended = in.Recommended
	r.Title = strings.TrimSpace(in.Title)
	r.Text = strings.TrimSpace(in.Text)
	if err := r.Validate(); err != nil {
		return domain.Review{}, err
	}
	if err := s.repo.UpdateReview(ctx, r); err != nil {
		return domain.Review{}, err
	}
	if err := s.ix.UpdateReview(r); err != nil {
		log.Warn().Str("hotel", r.HotelID).Str("review", r.ID).Err(err).Msg("index update review failed")
	}
	s.q.Invalidate(ctx, r.HotelID)
	return r, nil
}

func (s *ReviewService) Remove(ctx context.Context, reviewID, user string) error {
	r, err := s.owned(ctx, reviewID, user)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveReview(ctx, r.ID); err != nil {
		return err
	}
	s.ix.RemoveReview(r.HotelID, r.ID)
	s.q.Invalidate(ctx, r.HotelID)
	return nil
}

// RemoveByUser deletes every review written by user and returns how many went.
func (s *ReviewService) RemoveByUser(ctx context.Context, user string) (int64, error) {
	rs, err := s.repo.ReviewsByUser(ctx, user)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.RemoveReviewsByUser(ctx, user)
	if err != nil {
		return 0, err
	}
	touched := map[string]bool{}
	for _, r := range rs {
		s.ix.RemoveReview(r.HotelID, r.ID)
		touched[r.HotelID] = true
	}
	for id := range touched {
		s.q.Invalidate(ctx, id)
	}
	return n, nil
}

func (s *ReviewService) owned(ctx context.Context, reviewID, user string) (domain.Review, error) {
	r, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if r.User != user {
		return domain.Review{}, domain.Failf(domain.InvalidReview, "review %s is not owned by %s", reviewID, user)
	}
	return r, nil
}
