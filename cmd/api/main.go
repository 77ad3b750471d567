package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_portal/internal/adapters/fetch"
	server "hotel_portal/internal/adapters/http_server"
	"hotel_portal/internal/adapters/observability"
	redisad "hotel_portal/internal/adapters/redis"
	"hotel_portal/internal/app"
	"hotel_portal/internal/auth"
	"hotel_portal/internal/index"
	"hotel_portal/internal/shared"
	mysqlrepo "hotel_portal/internal/storage/mysql"
)

func main() {
	hotels := flag.String("hotels", "", "hotel catalog JSON file")
	reviews := flag.String("reviews", "", "directory tree of review JSON files")
	flag.Parse()

	ctx := context.Background()
	shared.LoadDotEnv()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	// in-memory index, empty unless files are given
	ix := index.New()
	ing := app.NewIngestionService(ix, cfg.Workers, cfg.IngestGrace)
	if *hotels != "" {
		if _, err := ing.LoadCatalog(*hotels); err != nil {
			log.Fatal().Err(err).Msg("load catalog failed")
		}
	}
	if *reviews != "" {
		if _, err := ing.LoadReviews(ctx, *reviews); err != nil {
			log.Fatal().Err(err).Msg("load reviews failed")
		}
	}

	// db
	dsn, err := shared.ResolveDSN(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database configuration")
	}
	db, err := mysqlrepo.Connect(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema creation failed")
	}
	log.Info().Msg("database connection ok")

	if _, err := app.NewMirror(ix, repo, repo, cfg.MirrorWorker).Run(ctx); err != nil {
		log.Error().Err(err).Msg("mirror failed, serving what the store has")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}
	sessions := redisad.NewSessions(cache.Client(), cfg.SessionTTL)
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	fetcher := fetch.New(ix, &fetch.Transport{Timeout: cfg.FetchTimeout}, fetch.Options{
		APIKey:    func() (string, error) { return shared.LoadAPIKey(cfg.APIConfig) },
		ScrapeRPS: cfg.ScrapeRPS,
	})

	// http
	srv := server.New(cfg.CORSOrigins...)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:     auth.NewService(repo),
		Q:        q,
		Reviews:  app.NewReviewService(ix, repo, q),
		Hotels:   repo,
		Fetch:    fetcher,
		Saved:    repo.SavedHotels(),
		Visited:  repo.VisitedLinks(),
		Sessions: sessions,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
