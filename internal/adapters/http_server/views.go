package httpserver

import (
	"math"

	"hotel_portal/internal/domain"
)

type hotelView struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	City                string   `json:"city"`
	State               string   `json:"state"`
	Lat                 float64  `json:"lat"`
	Lng                 float64  `json:"lng"`
	AreaDescription     string   `json:"areaDescription,omitempty"`
	PropertyDescription string   `json:"propertyDescription,omitempty"`
	AvgRating           *float64 `json:"avgRating,omitempty"`
	ExpediaLink         string   `json:"expediaLink"`
}

type reviewView struct {
	ID          string  `json:"id"`
	HotelID     string  `json:"hotelId"`
	User        string  `json:"user"`
	Rating      float64 `json:"rating"`
	Recommended bool    `json:"recommended"`
	Title       string  `json:"title"`
	Text        string  `json:"text"`
	Submitted   string  `json:"submitted"`
}

func expediaLink(hotelID string) string {
	return "https://www.expedia.com/h" + hotelID + ".Hotel-Information"
}

func toHotelView(h domain.Hotel) hotelView {
	v := hotelView{
		ID:                  h.ID,
		Name:                h.Name,
		Address:             h.Street,
		City:                h.City,
		State:               h.State,
		Lat:                 h.Lat,
		Lng:                 h.Lng,
		AreaDescription:     h.AreaDesc,
		PropertyDescription: h.PropertyDesc,
		ExpediaLink:         expediaLink(h.ID),
	}
	if h.AvgRating != nil {
		avg := math.Round(*h.AvgRating*100) / 100
		v.AvgRating = &avg
	}
	return v
}

func toHotelViews(hs []domain.Hotel) []hotelView {
	out := make([]hotelView, 0, len(hs))
	for _, h := range hs {
		out = append(out, toHotelView(h))
	}
	return out
}

func toReviewViews(rs []domain.Review) []reviewView {
	out := make([]reviewView, 0, len(rs))
	for _, r := range rs {
		out = append(out, reviewView{
			ID:          r.ID,
			HotelID:     r.HotelID,
			User:        r.User,
			Rating:      r.Rating,
			Recommended: r.Recommended,
			Title:       r.Title,
			Text:        r.Text,
			Submitted:   domain.FormatSubmitted(r.Submitted),
		})
	}
	return out
}
