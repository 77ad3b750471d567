package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	// Write paths
	AddHotel(ctx context.Context, h Hotel) error
	RemoveHotel(ctx context.Context, id string) error
	SetDescriptions(ctx context.Context, id string, d Descriptions) error

	// Read paths
	HotelExists(ctx context.Context, id string) (bool, error)
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	SearchHotels(ctx context.Context, name, city string) ([]Hotel, error)
	ListCities(ctx context.Context) ([]string, error)
}

type ReviewRepository interface {
	AddReview(ctx context.Context, r Review) error
	UpdateReview(ctx context.Context, r Review) error
	RemoveReview(ctx context.Context, id string) error
	RemoveReviewsByUser(ctx context.Context, user string) (int64, error)

	ReviewExists(ctx context.Context, id string) (bool, error)
	GetReview(ctx context.Context, id string) (Review, error)
	ReviewsByHotel(ctx context.Context, hotelID string) ([]Review, error)
	ReviewsByUser(ctx context.Context, user string) ([]Review, error)
	AvgRating(ctx context.Context, hotelID string) (float64, error)
}

// LoginTimes are the preformatted last and current login stamps of a user.
// Last is empty until the second login.
type LoginTimes struct {
	Last    string
	Current string
}

type UserRepository interface {
	DuplicateUser(ctx context.Context, user string) error
	RegisterUser(ctx context.Context, user, hash, salt string) error
	UserSalt(ctx context.Context, user string) (string, error)
	Authenticate(ctx context.Context, user, hash string) error
	RemoveUser(ctx context.Context, user string) error
	LastLogin(ctx context.Context, user string) (LoginTimes, error)
	UpdateLastLogin(ctx context.Context, user, current string) error
}

// LinkRepository is a per-user set of ids: saved hotels or visited Expedia links.
type LinkRepository interface {
	Save(ctx context.Context, user, id string) error
	Remove(ctx context.Context, user, id string) error
	ListByUser(ctx context.Context, user string) ([]string, error)
	ClearByUser(ctx context.Context, user string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionStore keeps per-session attributes keyed by an opaque session id.
type SessionStore interface {
	Create(ctx context.Context, attrs map[string]string) (string, error)
	Get(ctx context.Context, id string) (map[string]string, error)
	Put(ctx context.Context, id, key, value string) error
	Destroy(ctx context.Context, id string) error
	TTL() time.Duration
}
