package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Anonymous replaces a blank user nickname.
const Anonymous = "Anonymous"

// TimeLayout is the submission-time format used by review files and review_details.reviewdate.
const TimeLayout = "2006-01-02T15:04:05"

const (
	MinRating = 0
	MaxRating = 5
)

type Review struct {
	ID          string
	HotelID     string
	User        string
	Rating      float64
	Recommended bool
	Title       string
	Text        string
	Submitted   time.Time
}

// NewReview builds a review from raw field values. A blank user becomes Anonymous;
// an unparsable submission time yields InvalidDate.
func NewReview(id, hotelID, user string, rating float64, recommended bool, title, text, submitted string) (Review, error) {
	ts, err := ParseSubmitted(submitted)
	if err != nil {
		return Review{}, err
	}
	if strings.TrimSpace(user) == "" {
		user = Anonymous
	}
	return Review{
		ID:          id,
		HotelID:     hotelID,
		User:        user,
		Rating:      rating,
		Recommended: recommended,
		Title:       title,
		Text:        text,
		Submitted:   ts,
	}, nil
}

// ParseSubmitted reads the leading YYYY-MM-DDTHH:MM:SS of s; any zone suffix is ignored.
func ParseSubmitted(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(TimeLayout) {
		return time.Time{}, Failf(InvalidDate, "submission time %q", s)
	}
	t, err := time.Parse(TimeLayout, s[:len(TimeLayout)])
	if err != nil {
		return time.Time{}, Fail(InvalidDate, err)
	}
	return t, nil
}

// FormatSubmitted is the inverse of ParseSubmitted.
func FormatSubmitted(t time.Time) string { return t.Format(TimeLayout) }

// ValidRating reports whether r is inside [MinRating, MaxRating].
func ValidRating(r float64) bool { return r >= MinRating && r <= MaxRating }

// Validate checks the fields every stored review must carry.
func (r Review) Validate() error {
	if r.ID == "" || r.HotelID == "" {
		return Failf(InvalidReview, "review %q for hotel %q", r.ID, r.HotelID)
	}
	if !ValidRating(r.Rating) {
		return Failf(InvalidRating, "rating %v", r.Rating)
	}
	if r.Submitted.IsZero() {
		return Fail(InvalidDate, nil)
	}
	return nil
}

// CompareReviews orders newest first, then by user, then by review id.
func CompareReviews(a, b Review) int {
	switch {
	case a.Submitted.After(b.Submitted):
		return -1
	case a.Submitted.Before(b.Submitted):
		return 1
	}
	if c := strings.Compare(a.User, b.User); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortReviews sorts rs in place using CompareReviews.
func SortReviews(rs []Review) {
	sort.SliceStable(rs, func(i, j int) bool { return CompareReviews(rs[i], rs[j]) < 0 })
}

func (r Review) String() string {
	return fmt.Sprintf("review %s by %s on %s (%.1f)", r.ID, r.User, FormatSubmitted(r.Submitted), r.Rating)
}
