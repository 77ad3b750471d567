package main

import (
	"context"
	"flag"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_portal/internal/adapters/observability"
	redisad "hotel_portal/internal/adapters/redis"
	"hotel_portal/internal/app"
	"hotel_portal/internal/index"
	"hotel_portal/internal/shared"
	mysqlrepo "hotel_portal/internal/storage/mysql"
)

func main() {
	hotels := flag.String("hotels", "", "hotel catalog JSON file")
	reviews := flag.String("reviews", "", "directory tree of review JSON files")
	remove := flag.String("remove-hotel", "", "comma separated hotel ids to delete from the store")
	flag.Parse()

	ctx := context.Background()
	shared.LoadDotEnv()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "ingestor")
	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	log.Info().
		Str("hotels", *hotels).
		Str("reviews", *reviews).
		Int("workers", cfg.Workers).
		Dur("grace", cfg.IngestGrace).
		Msg("ingestor starting")

	ix := index.New()
	ing := app.NewIngestionService(ix, cfg.Workers, cfg.IngestGrace)
	if *hotels != "" {
		if _, err := ing.LoadCatalog(*hotels); err != nil {
			log.Fatal().Err(err).Msg("load catalog failed")
		}
	}
	if *reviews != "" {
		rep, err := ing.LoadReviews(ctx, *reviews)
		if err != nil {
			log.Fatal().Err(err).Msg("load reviews failed")
		}
		if rep.TimedOut {
			log.Warn().Int("dropped", rep.Dropped).Msg("some review files were not ingested")
		}
	}

	dsn, err := shared.ResolveDSN(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database configuration")
	}
	db, err := mysqlrepo.Connect(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema creation failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	cacheOK := cache.Ping(ctx) == nil
	if !cacheOK {
		log.Warn().Str("addr", cfg.RedisAddr).Msg("redis unreachable, cached views not invalidated")
	}

	var removed []string
	for _, id := range strings.Split(*remove, ",") {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		ix.RemoveHotel(id)
		if err := repo.RemoveHotel(ctx, id); err != nil {
			log.Warn().Str("hotel", id).Err(err).Msg("remove hotel failed")
			continue
		}
		removed = append(removed, id)
		log.Info().Str("hotel", id).Msg("hotel removed")
	}

	if _, err := app.NewMirror(ix, repo, repo, cfg.MirrorWorker).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("mirror failed")
	}

	if cacheOK {
		for _, id := range append(ix.Hotels(), removed...) {
			q.Invalidate(ctx, id)
		}
		q.InvalidateCities(ctx)
	}
	log.Info().Msg("ingestion completed")
}
