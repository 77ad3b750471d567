package mysql

import (
	"context"
	"database/sql"
	"errors"

	"hotel_portal/internal/domain"
)

func (r *Repo) ReviewExists(ctx context.Context, id string) (bool, error) {
	ok, err := r.exists(ctx, reviewExistsSQL, id)
	if err != nil {
		return false, sqlErr("review exists", err)
	}
	return ok, nil
}

// AddReview stores rv. Fails with DuplicateReview when the id is taken and
// InvalidHotel when the hotel row is missing.
func (r *Repo) AddReview(ctx context.Context, rv domain.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}
	dup, err := r.ReviewExists(ctx, rv.ID)
	if err != nil {
		return err
	}
	if dup {
		return domain.Failf(domain.DuplicateReview, "review %s", rv.ID)
	}
	ok, err := r.HotelExists(ctx, rv.HotelID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Failf(domain.InvalidHotel, "hotel %s", rv.HotelID)
	}

	_, err = r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.HotelID,
		rv.User,
		rv.Rating,
		rv.Recommended,
		rv.Title,
		rv.Text,
		domain.FormatSubmitted(rv.Submitted),
	)
	if isDuplicate(err) {
		return domain.Failf(domain.DuplicateReview, "review %s", rv.ID)
	}
	if err != nil {
		return sqlErr("insert review", err)
	}
	return nil
}

// UpdateReview rewrites title, text, rating and recommendation of an existing review.
func (r *Repo) UpdateReview(ctx context.Context, rv domain.Review) error {
	if !domain.ValidRating(rv.Rating) {
		return domain.Failf(domain.InvalidRating, "rating %v", rv.Rating)
	}
	ok, err := r.ReviewExists(ctx, rv.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Failf(domain.InvalidReview, "review %s", rv.ID)
	}
	if _, err := r.db.ExecContext(ctx, updateReviewSQL, rv.Title, rv.Text, rv.Rating, rv.Recommended, rv.ID); err != nil {
		return sqlErr("update review", err)
	}
	return nil
}

func (r *Repo) RemoveReview(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return sqlErr("remove review", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Failf(domain.InvalidReview, "review %s", id)
	}
	return nil
}

// RemoveReviewsByUser deletes every review written by user and reports how many went.
func (r *Repo) RemoveReviewsByUser(ctx context.Context, user string) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteReviewsByUserSQL, user)
	if err != nil {
		return 0, sqlErr("remove user reviews", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, selectReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.Failf(domain.InvalidReview, "review %s", id)
	}
	if err != nil {
		return domain.Review{}, sqlErr("get review", err)
	}
	return rv, nil
}

func (r *Repo) ReviewsByHotel(ctx context.Context, hotelID string) ([]domain.Review, error) {
	return r.queryReviews(ctx, reviewsByHotelSQL, hotelID)
}

func (r *Repo) ReviewsByUser(ctx context.Context, user string) ([]domain.Review, error) {
	return r.queryReviews(ctx, reviewsByUserSQL, user)
}

// AvgRating is the mean rating of a hotel's reviews, 0 when it has none.
func (r *Repo) AvgRating(ctx context.Context, hotelID string) (float64, error) {
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, avgRatingSQL, hotelID).Scan(&avg); err != nil {
		return 0, sqlErr("avg rating", err)
	}
	return avg.Float64, nil
}

// queryReviews re-sorts in Go: the column collation may not match CompareReviews.
func (r *Repo) queryReviews(ctx context.Context, q string, arg string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, sqlErr("query reviews", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, sqlErr("scan review", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlErr("query reviews", err)
	}
	domain.SortReviews(out)
	return out, nil
}

func scanReview(s scanner) (domain.Review, error) {
	var (
		rv                      domain.Review
		user, title, text, date sql.NullString
		rating                  sql.NullFloat64
		recommended             sql.NullBool
	)
	if err := s.Scan(&rv.ID, &rv.HotelID, &user, &rating, &recommended, &title, &text, &date); err != nil {
		return domain.Review{}, err
	}
	rv.User = user.String
	if rv.User == "" {
		rv.User = domain.Anonymous
	}
	rv.Rating = rating.Float64
	rv.Recommended = recommended.Bool
	rv.Title, rv.Text = title.String, text.String
	if date.Valid {
		ts, err := domain.ParseSubmitted(date.String)
		if err != nil {
			return domain.Review{}, err
		}
		rv.Submitted = ts
	}
	return rv, nil
}
