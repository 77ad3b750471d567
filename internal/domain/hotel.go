package domain

type Hotel struct {
	ID           string
	Name         string
	Street       string
	City         string
	State        string
	Lat, Lng     float64
	AreaDesc     string
	PropertyDesc string
	AvgRating    *float64 // nil until computed
}

// Clone returns a copy that shares no memory with h.
func (h Hotel) Clone() Hotel {
	out := h
	if h.AvgRating != nil {
		v := *h.AvgRating
		out.AvgRating = &v
	}
	return out
}

// Descriptions holds the scraped area and property text of a hotel.
type Descriptions struct {
	Area     string
	Property string
}

func (d Descriptions) Empty() bool { return d.Area == "" && d.Property == "" }

// Attraction is a tourist attraction near a hotel, as returned by the Places API.
type Attraction struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Address string  `json:"formatted_address"`
}
