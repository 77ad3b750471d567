package app_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_portal/internal/app"
	"hotel_portal/internal/index"
)

const catalogJSON = `{"sr":[
 {"f":"Alpha","id":"A","ll":{"lat":1.0,"lng":2.0},"ad":"1 St","ci":"X","pr":"CA"},
 {"f":"Beta","id":"B","ll":{"lat":3.0,"lng":4.0},"ad":"2 St","ci":"Y","pr":"NY"}
]}`

func reviewFile(hotel string, ids ...string) string {
	body := `{"reviewDetails":{"reviewCollection":{"review":[`
	for i, id := range ids {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"hotelId":%q,"reviewId":%q,"ratingOverall":%d,"title":"t","reviewText":"x","userNickname":"u%d","reviewSubmissionTime":"2024-01-0%dT10:00:00Z","isRecommended":true}`,
			hotel, id, i%6, i, i%9+1)
	}
	return body + `]}}}`
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func loaded(t *testing.T, workers int) (*index.Index, *app.IngestionService) {
	t.Helper()
	ix := index.New()
	svc := app.NewIngestionService(ix, workers, 0)
	dir := writeTree(t, map[string]string{"hotels.json": catalogJSON})
	n, err := svc.LoadCatalog(filepath.Join(dir, "hotels.json"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return ix, svc
}

func TestLoadCatalog_Scenario(t *testing.T) {
	ix, _ := loaded(t, 1)
	assert.Equal(t, []string{"A", "B"}, ix.Hotels())
}

func TestLoadCatalog_Missing(t *testing.T) {
	svc := app.NewIngestionService(index.New(), 1, 0)
	_, err := svc.LoadCatalog(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

func TestLoadReviews_IsolatesBadFiles(t *testing.T) {
	ix, svc := loaded(t, 4)
	dir := writeTree(t, map[string]string{
		"a/review1.json":   reviewFile("A", "a1", "a2", "a3"),
		"b/deep/x.json":    reviewFile("B", "b1"),
		"broken.json":      `{"reviewDetails":`,
		"empty.json":       `{"reviewDetails":{"reviewCollection":{"review":[]}}}`,
		"other/hotel.json": reviewFile("C", "c1"),
	})

	rep, err := svc.LoadReviews(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, rep.TimedOut)
	assert.Equal(t, 5, rep.Files)
	assert.Equal(t, 2, rep.Merged)
	assert.Equal(t, 2, rep.Skipped)
	assert.Equal(t, 1, rep.Failed)
	assert.Zero(t, rep.Dropped)

	assert.Len(t, ix.FindReviews("A", 0), 3)
	assert.Len(t, ix.FindReviews("B", 0), 1)
	assert.Empty(t, ix.FindReviews("C", 0))
}

func TestLoadReviews_CountsRejectedRecords(t *testing.T) {
	ix, svc := loaded(t, 2)
	// the repeated r1 is rejected, the file still merges
	dir := writeTree(t, map[string]string{"a.json": reviewFile("A", "r1", "r2", "r1")})

	rep, err := svc.LoadReviews(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Rejected)
	assert.Len(t, ix.FindReviews("A", 0), 2)
}

func TestLoadReviews_SameHotelLastWriterWins(t *testing.T) {
	for i := 0; i < 20; i++ {
		ix, svc := loaded(t, 2)
		dir := writeTree(t, map[string]string{
			"one.json": reviewFile("A", "x1", "x2"),
			"two.json": reviewFile("A", "y1", "y2", "y3"),
		})
		_, err := svc.LoadReviews(context.Background(), dir)
		require.NoError(t, err)

		got := ix.FindReviews("A", 10)
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID[:1])
		}
		if len(got) == 2 {
			assert.Equal(t, []string{"x", "x"}, ids)
		} else {
			assert.Equal(t, []string{"y", "y", "y"}, ids)
		}
	}
}

func TestLoadReviews_MissingDir(t *testing.T) {
	_, svc := loaded(t, 1)
	_, err := svc.LoadReviews(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadReviews_CancelledContextDropsUnstartedFiles(t *testing.T) {
	ix, svc := loaded(t, 1)
	files := map[string]string{}
	for i := 0; i < 10; i++ {
		files[fmt.Sprintf("f%02d.json", i)] = reviewFile("A", fmt.Sprintf("r%d", i))
	}
	dir := writeTree(t, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := svc.LoadReviews(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 10, rep.Files)
	assert.Equal(t, 10, rep.Dropped)
	assert.True(t, rep.TimedOut)
	assert.Zero(t, rep.Merged)
	assert.Empty(t, ix.FindReviews("A", 0))
}
