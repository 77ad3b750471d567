//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_portal/internal/domain"
	mysqlrepo "hotel_portal/internal/storage/mysql"
)

func at(s string) time.Time {
	t, _ := time.Parse(domain.TimeLayout, s)
	return t
}

// startMySQL runs a throwaway MySQL container and returns a ready handle.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("SKIP_DOCKER") != "" {
		t.Skip("SKIP_DOCKER set")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?charset=utf8mb4&loc=UTC", "root", hostPort, "hotels")

	pool.MaxWait = 2 * time.Minute
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepo_MySQL_RoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// second run is a no-op
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema again: %v", err)
	}

	// Arrange
	h := domain.Hotel{ID: "10001", Name: "Hotel Test", Street: "1 Main St", City: "San Francisco", State: "CA", Lat: 37.78, Lng: -122.41}
	if err := repo.AddHotel(ctx, h); err != nil {
		t.Fatalf("AddHotel: %v", err)
	}
	if err := repo.AddHotel(ctx, h); domain.StatusOf(err) != domain.DuplicateHotel {
		t.Fatalf("expected DuplicateHotel, got %v", err)
	}

	r1 := domain.Review{ID: "s-1", HotelID: "10001", User: "Ana", Rating: 3, Title: "Ok", Text: "…", Submitted: at("2024-01-01T10:00:00")}
	r2 := domain.Review{ID: "s-2", HotelID: "10001", User: "Bob", Rating: 5, Recommended: true, Title: "Great", Text: "…", Submitted: at("2024-01-02T10:00:00")}
	for _, r := range []domain.Review{r1, r2} {
		if err := repo.AddReview(ctx, r); err != nil {
			t.Fatalf("AddReview %s: %v", r.ID, err)
		}
	}

	// Assert
	got, err := repo.GetHotel(ctx, "10001")
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.Name != "Hotel Test" || got.City != "San Francisco" {
		t.Fatalf("unexpected hotel: %+v", got)
	}

	avg, err := repo.AvgRating(ctx, "10001")
	if err != nil || avg != 4.0 {
		t.Fatalf("AvgRating = %v, %v; want 4", avg, err)
	}
	if avg, _ := repo.AvgRating(ctx, "nope"); avg != 0 {
		t.Fatalf("AvgRating for no reviews = %v", avg)
	}

	rs, err := repo.ReviewsByHotel(ctx, "10001")
	if err != nil {
		t.Fatalf("ReviewsByHotel: %v", err)
	}
	if len(rs) != 2 || rs[0].ID != "s-2" || !rs[0].Submitted.Equal(r2.Submitted) {
		t.Fatalf("unexpected order: %+v", rs)
	}

	hs, err := repo.SearchHotels(ctx, "test", "San Francisco")
	if err != nil || len(hs) != 1 {
		t.Fatalf("SearchHotels = %v, %v", hs, err)
	}

	// users
	if err := repo.RegisterUser(ctx, "ana", "HASH", "SALT"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	for _, stamp := range []string{"first", "second"} {
		if err := repo.UpdateLastLogin(ctx, "ana", stamp); err != nil {
			t.Fatalf("UpdateLastLogin: %v", err)
		}
	}
	lt, err := repo.LastLogin(ctx, "ana")
	if err != nil || lt.Last != "first" || lt.Current != "second" {
		t.Fatalf("LastLogin = %+v, %v", lt, err)
	}

	// saved hotels
	saved := repo.SavedHotels()
	if err := saved.Save(ctx, "ana", "10001"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := saved.Save(ctx, "ana", "10001"); domain.StatusOf(err) != domain.DuplicateSaveHotel {
		t.Fatalf("expected DuplicateSaveHotel, got %v", err)
	}

	// removal cascades to reviews and saved hotels
	if err := repo.RemoveHotel(ctx, "10001"); err != nil {
		t.Fatalf("RemoveHotel: %v", err)
	}
	if ids, _ := saved.ListByUser(ctx, "ana"); len(ids) != 0 {
		t.Fatalf("saved hotels survived removal: %v", ids)
	}
	if ok, _ := repo.ReviewExists(ctx, "s-1"); ok {
		t.Fatalf("review survived hotel removal")
	}
}
