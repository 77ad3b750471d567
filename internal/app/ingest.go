package app

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_portal/internal/adapters/files"
	"hotel_portal/internal/adapters/observability"
	"hotel_portal/internal/domain"
	"hotel_portal/internal/index"
)

const (
	DefaultWorkers = 20
	DefaultGrace   = 60 * time.Second
)

// IngestReport summarises one pass over a review tree.
type IngestReport struct {
	Files    int
	Merged   int
	Skipped  int
	Failed   int
	Dropped  int
	Rejected int
	TimedOut bool
}

type IngestionService struct {
	ix      *index.Index
	workers int
	grace   time.Duration
}

func NewIngestionService(ix *index.Index, workers int, grace time.Duration) *IngestionService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &IngestionService{ix: ix, workers: workers, grace: grace}
}

// LoadCatalog installs every hotel of the catalog at path and returns how many were loaded.
func (s *IngestionService) LoadCatalog(path string) (int, error) {
	hotels, err := files.LoadCatalog(path)
	if err != nil {
		return 0, err
	}
	for _, h := range hotels {
		s.ix.AddHotel(h)
	}
	log.Info().Str("path", path).Int("hotels", len(hotels)).Msg("catalog loaded")
	return len(hotels), nil
}

// LoadReviews parses every regular file under dir on a bounded pool and merges
// each file's reviews into the index. A failing file never stops its peers.
// The walk waits for a free slot before starting each job, so at most workers
// goroutines exist. The whole pass gets the grace period; files that have not
// started when it expires are counted as dropped.
func (s *IngestionService) LoadReviews(ctx context.Context, dir string) (IngestReport, error) {
	graceCtx, cancel := context.WithTimeout(ctx, s.grace)
	defer cancel()

	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep IngestReport
	)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Warn().Str("path", path).Err(err).Msg("skipping unreadable entry")
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		mu.Lock()
		rep.Files++
		mu.Unlock()

		if err := sem.Acquire(graceCtx, 1); err != nil {
			mu.Lock()
			rep.Dropped++
			mu.Unlock()
			observability.ObserveIngestFile("dropped")
			return nil
		}
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			defer sem.Release(1)
			s.ingestFile(p, &mu, &rep)
		}(path)
		return nil
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timedOut := false
	select {
	case <-done:
	case <-graceCtx.Done():
		timedOut = true
		if ctx.Err() == nil {
			log.Warn().Dur("grace", s.grace).Msg("review ingestion did not finish within grace period")
		}
	}

	mu.Lock()
	out := rep
	mu.Unlock()
	out.TimedOut = timedOut

	if walkErr != nil {
		return out, walkErr
	}
	log.Info().
		Int("files", out.Files).
		Int("merged", out.Merged).
		Int("skipped", out.Skipped).
		Int("failed", out.Failed).
		Int("dropped", out.Dropped).
		Int("rejected", out.Rejected).
		Msg("reviews loaded")
	return out, nil
}

func (s *IngestionService) ingestFile(path string, mu *sync.Mutex, rep *IngestReport) {
	rf, err := files.ParseReviewFile(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("review file failed")
		observability.ObserveIngestFile("failed")
		mu.Lock()
		rep.Failed++
		mu.Unlock()
		return
	}

	for _, rej := range rf.Rejected {
		observability.ObserveRejected(domain.StatusOf(rej).Name())
		log.Debug().Str("path", path).Err(rej).Msg("review rejected")
	}

	outcome := "merged"
	switch {
	case rf.Records == 0 || rf.HotelID == "":
		outcome = "skipped"
	case !s.ix.Merge(rf.HotelID, rf.Set):
		log.Warn().Str("path", path).Str("hotel", rf.HotelID).Msg("reviews for unknown hotel")
		outcome = "skipped"
	}
	observability.ObserveIngestFile(outcome)

	mu.Lock()
	defer mu.Unlock()
	rep.Rejected += len(rf.Rejected)
	if outcome == "merged" {
		rep.Merged++
	} else {
		rep.Skipped++
	}
}
