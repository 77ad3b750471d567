package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_portal/internal/adapters/observability"
	"hotel_portal/internal/domain"
	"hotel_portal/internal/index"
)

type MirrorReport struct {
	HotelsInserted  int
	HotelsPresent   int
	ReviewsInserted int
	ReviewsPresent  int
}

// Mirror copies the in-memory index into the relational store. Rows that
// already exist are left alone, so running it twice is harmless.
type Mirror struct {
	ix      *index.Index
	hotels  domain.HotelRepository
	reviews domain.ReviewRepository
	workers int
}

func NewMirror(ix *index.Index, hotels domain.HotelRepository, reviews domain.ReviewRepository, workers int) *Mirror {
	if workers <= 0 {
		workers = 8
	}
	return &Mirror{ix: ix, hotels: hotels, reviews: reviews, workers: workers}
}

// Run writes every hotel first, then fans the review sets out across hotels.
// Average ratings computed by the store are copied back onto the index.
func (m *Mirror) Run(ctx context.Context) (MirrorReport, error) {
	var rep MirrorReport

	hotels := m.ix.HotelsSnapshot()
	for _, h := range hotels {
		err := m.hotels.AddHotel(ctx, h)
		switch {
		case err == nil:
			rep.HotelsInserted++
			observability.ObserveMirror("hotels", "inserted")
		case domain.StatusOf(err) == domain.DuplicateHotel:
			rep.HotelsPresent++
			observability.ObserveMirror("hotels", "present")
		default:
			observability.ObserveMirror("hotels", "failed")
			return rep, fmt.Errorf("mirror hotel %s: %w", h.ID, err)
		}
	}

	var inserted, present atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, h := range hotels {
		id := h.ID
		g.Go(func() error {
			for _, r := range m.ix.ReviewsSnapshot(id) {
				if err := gctx.Err(); err != nil {
					return err
				}
				err := m.reviews.AddReview(gctx, r)
				switch {
				case err == nil:
					inserted.Add(1)
					observability.ObserveMirror("reviews", "inserted")
				case domain.StatusOf(err) == domain.DuplicateReview:
					present.Add(1)
					observability.ObserveMirror("reviews", "present")
				default:
					observability.ObserveMirror("reviews", "failed")
					return fmt.Errorf("mirror review %s of hotel %s: %w", r.ID, id, err)
				}
			}
			avg, err := m.reviews.AvgRating(gctx, id)
			if err != nil {
				return fmt.Errorf("average rating of hotel %s: %w", id, err)
			}
			m.ix.SetAvgRating(id, avg)
			return nil
		})
	}
	err := g.Wait()
	rep.ReviewsInserted = int(inserted.Load())
	rep.ReviewsPresent = int(present.Load())
	if err != nil {
		return rep, err
	}

	log.Info().
		Int("hotels_inserted", rep.HotelsInserted).
		Int("hotels_present", rep.HotelsPresent).
		Int("reviews_inserted", rep.ReviewsInserted).
		Int("reviews_present", rep.ReviewsPresent).
		Msg("index mirrored")
	return rep, nil
}
