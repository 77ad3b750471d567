package files

import (
	"encoding/json"
	"fmt"
	"os"

	"hotel_portal/internal/domain"
	"hotel_portal/internal/index"
)

type reviewDoc struct {
	ReviewDetails struct {
		ReviewCollection struct {
			Review []reviewEntry `json:"review"`
		} `json:"reviewCollection"`
	} `json:"reviewDetails"`
}

type reviewEntry struct {
	HotelID     text     `json:"hotelId"`
	ReviewID    text     `json:"reviewId"`
	Rating      *float64 `json:"ratingOverall"`
	Title       string   `json:"title"`
	Text        string   `json:"reviewText"`
	User        string   `json:"userNickname"`
	Submitted   string   `json:"reviewSubmissionTime"`
	Recommended flag     `json:"isRecommended"`
}

// ReviewFile is the parse result of one review export.
type ReviewFile struct {
	Path     string
	HotelID  string
	Set      *index.ReviewSet
	Records  int
	Rejected []error
}

// ParseReviewFile reads one hotel's review export into a local ordered set.
// Record-level problems are collected in Rejected; only an unreadable or
// undecodable file returns an error.
func ParseReviewFile(path string) (ReviewFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ReviewFile{Path: path}, fmt.Errorf("read reviews %s: %w", path, err)
	}
	rf, err := ParseReviews(b)
	rf.Path = path
	if err != nil {
		return rf, fmt.Errorf("decode reviews %s: %w", path, err)
	}
	return rf, nil
}

func ParseReviews(b []byte) (ReviewFile, error) {
	var doc reviewDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return ReviewFile{}, err
	}

	entries := doc.ReviewDetails.ReviewCollection.Review
	rf := ReviewFile{Set: index.NewReviewSet(), Records: len(entries)}
	for i, e := range entries {
		// every record in a file belongs to the same hotel; the last one seen names it
		if e.HotelID.v != "" {
			rf.HotelID = e.HotelID.v
		}
		if err := addEntry(rf.Set, e); err != nil {
			rf.Rejected = append(rf.Rejected, fmt.Errorf("record %d (%s): %w", i, e.ReviewID.v, err))
		}
	}
	return rf, nil
}

func addEntry(set *index.ReviewSet, e reviewEntry) error {
	if e.Rating == nil {
		return domain.Failf(domain.InvalidRating, "missing ratingOverall")
	}
	rating := float64(int(*e.Rating))
	if !domain.ValidRating(rating) {
		return domain.Failf(domain.InvalidRating, "rating %v", *e.Rating)
	}
	r, err := domain.NewReview(e.ReviewID.v, e.HotelID.v, e.User, rating, bool(e.Recommended), e.Title, e.Text, e.Submitted)
	if err != nil {
		return err
	}
	return set.Add(r)
}
