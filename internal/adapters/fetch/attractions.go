package fetch

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"hotel_portal/internal/domain"
)

const placesPath = "/maps/api/place/textsearch/json"

type placesResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	ID      string  `json:"id"`
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Address string  `json:"formatted_address"`
}

// AttractionsQuery renders the text-search path for a hotel.
func AttractionsQuery(h domain.Hotel, radiusMiles float64, key string) string {
	radius := int64(math.Round(radiusMiles * metersPerMile))
	return placesPath +
		"?query=tourist%20attractions+in+" + url.QueryEscape(h.City) +
		"&location=" + strconv.FormatFloat(h.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(h.Lng, 'f', -1, 64) +
		"&radius=" + strconv.FormatInt(radius, 10) +
		"&key=" + url.QueryEscape(key)
}

// FetchAttractions queries the Places API for attractions within radiusMiles of
// the hotel and installs the result in the index. On failure the index is untouched.
func (f *Fetcher) FetchAttractions(ctx context.Context, hotelID string, radiusMiles float64) ([]domain.Attraction, error) {
	key, err := f.key()
	if err != nil {
		return nil, err
	}
	h, ok := f.ix.FindHotel(hotelID)
	if !ok {
		return nil, domain.Failf(domain.InvalidHotel, "hotel %q", hotelID)
	}

	resp, err := f.do(ctx, "places", "textsearch", f.placesHost, AttractionsQuery(h, radiusMiles, key))
	if err != nil {
		return nil, err
	}
	list, err := ParseAttractions(resp.Body)
	if err != nil {
		return nil, err
	}
	f.ix.AddAttractions(hotelID, list)
	log.Debug().Str("hotel", hotelID).Int("attractions", len(list)).Msg("attractions fetched")
	return list, nil
}

// ParseAttractions decodes a Places text-search body, tolerating leading noise.
func ParseAttractions(body []byte) ([]domain.Attraction, error) {
	js, ok := JSONBody(body)
	if !ok {
		return nil, domain.Failf(domain.FetchFailed, "no JSON object in response")
	}
	var pr placesResponse
	if err := json.Unmarshal(js, &pr); err != nil {
		return nil, domain.Fail(domain.FetchFailed, err)
	}
	switch pr.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return nil, domain.Failf(domain.FetchFailed, "places status %s: %s", pr.Status, pr.ErrorMessage)
	}

	out := make([]domain.Attraction, 0, len(pr.Results))
	for _, r := range pr.Results {
		id := r.ID
		if id == "" {
			id = r.PlaceID
		}
		out = append(out, domain.Attraction{ID: id, Name: r.Name, Rating: r.Rating, Address: r.Address})
	}
	return out, nil
}
