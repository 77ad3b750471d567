// Package fetch enriches indexed hotels with Places API attractions and
// scraped Expedia descriptions.
package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"hotel_portal/internal/adapters/observability"
	"hotel_portal/internal/domain"
)

const (
	PlacesHost  = "maps.googleapis.com"
	ExpediaHost = "www.expedia.com"

	metersPerMile = 1609.34
)

// Index is the part of the in-memory index the fetcher reads and writes.
type Index interface {
	FindHotel(id string) (domain.Hotel, bool)
	AddAttractions(hotelID string, list []domain.Attraction) bool
	SetDescriptions(hotelID string, d domain.Descriptions) bool
}

type Getter interface {
	Get(ctx context.Context, host, pathQuery string) (Response, error)
}

type Options struct {
	PlacesHost  string
	ExpediaHost string
	// APIKey is consulted on every attractions request so a rotated key is picked up.
	APIKey    func() (string, error)
	ScrapeRPS float64
}

type Fetcher struct {
	ix          Index
	get         Getter
	key         func() (string, error)
	placesHost  string
	expediaHost string
	rl          *rate.Limiter
}

func New(ix Index, g Getter, o Options) *Fetcher {
	if o.PlacesHost == "" {
		o.PlacesHost = PlacesHost
	}
	if o.ExpediaHost == "" {
		o.ExpediaHost = ExpediaHost
	}
	if o.APIKey == nil {
		o.APIKey = func() (string, error) { return "", domain.Fail(domain.MissingAPIKey, nil) }
	}
	lim := rate.Inf
	if o.ScrapeRPS > 0 {
		lim = rate.Limit(o.ScrapeRPS)
	}
	return &Fetcher{
		ix:          ix,
		get:         g,
		key:         o.APIKey,
		placesHost:  o.PlacesHost,
		expediaHost: o.ExpediaHost,
		rl:          rate.NewLimiter(lim, 1),
	}
}

// do performs one GET and records it under service/endpoint.
func (f *Fetcher) do(ctx context.Context, service, endpoint, host, pathQuery string) (Response, error) {
	start := time.Now()
	resp, err := f.get.Get(ctx, host, pathQuery)
	status := resp.Status
	if err != nil {
		status = 0
	}
	observability.ObserveExternal(service, endpoint, status, time.Since(start))
	if err != nil {
		return Response{}, domain.Fail(domain.FetchFailed, err)
	}
	if resp.Status < 200 || resp.Status > 299 {
		return Response{}, domain.Failf(domain.FetchFailed, "%s answered %d", host, resp.Status)
	}
	return resp, nil
}
