// Package files reads the hotel catalog and the per-hotel review exports from disk.
package files

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"hotel_portal/internal/domain"
)

type catalogDoc struct {
	SR []catalogEntry `json:"sr"`
}

type catalogEntry struct {
	ID   text `json:"id"`
	Name text `json:"f"`
	LL   *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"ll"`
	Street text `json:"ad"`
	City   text `json:"ci"`
	State  text `json:"pr"`
}

func (e catalogEntry) missing() []string {
	var out []string
	if !e.ID.set || strings.TrimSpace(e.ID.v) == "" {
		out = append(out, "id")
	}
	if !e.Name.set {
		out = append(out, "f")
	}
	if e.LL == nil || e.LL.Lat == nil {
		out = append(out, "ll.lat")
	}
	if e.LL == nil || e.LL.Lng == nil {
		out = append(out, "ll.lng")
	}
	if !e.Street.set {
		out = append(out, "ad")
	}
	if !e.City.set {
		out = append(out, "ci")
	}
	if !e.State.set {
		out = append(out, "pr")
	}
	return out
}

// LoadCatalog parses the hotel catalog at path. Any entry lacking a required
// field fails the whole load with MalformedCatalog.
func LoadCatalog(path string) ([]domain.Hotel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) ([]domain.Hotel, error) {
	var doc catalogDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, domain.Fail(domain.MalformedCatalog, err)
	}
	if doc.SR == nil {
		return nil, domain.Failf(domain.MalformedCatalog, "no sr array")
	}

	out := make([]domain.Hotel, 0, len(doc.SR))
	for i, e := range doc.SR {
		if miss := e.missing(); len(miss) > 0 {
			return nil, domain.Failf(domain.MalformedCatalog, "entry %d: missing %s", i, strings.Join(miss, ", "))
		}
		out = append(out, domain.Hotel{
			ID:     e.ID.v,
			Name:   e.Name.v,
			Street: e.Street.v,
			City:   e.City.v,
			State:  e.State.v,
			Lat:    *e.LL.Lat,
			Lng:    *e.LL.Lng,
		})
	}
	return out, nil
}
