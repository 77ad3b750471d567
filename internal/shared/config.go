package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string // overrides DBProperties when set
	DBProperties string
	APIConfig    string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	Workers      int
	IngestGrace  time.Duration
	MirrorWorker int
	CacheTTL     time.Duration
	SessionTTL   time.Duration
	ScrapeRPS    float64
	FetchTimeout time.Duration
	CORSOrigins  []string
}

// LoadDotEnv reads .env files into the environment without overriding variables
// that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Warn().Err(err).Str("file", p).Msg("dotenv load failed")
		}
	}
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", ""),
		DBProperties: env("DB_PROPERTIES", "database.properties"),
		APIConfig:    env("API_CONFIG", "input/config.json"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		Workers:      atoi("INGEST_WORKERS", 20),
		IngestGrace:  time.Duration(atoi("INGEST_GRACE_SECONDS", 60)) * time.Second,
		MirrorWorker: atoi("MIRROR_WORKERS", 8),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:   time.Duration(atoi("SESSION_TTL_SECONDS", 3600)) * time.Second,
		ScrapeRPS:    atof("SCRAPE_RPS", 1),
		FetchTimeout: time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 0)) * time.Second,
		CORSOrigins:  list("CORS_ORIGINS"),
	}
	if c.Workers <= 0 {
		log.Warn().Int("workers", c.Workers).Msg("INGEST_WORKERS must be positive, using 20")
		c.Workers = 20
	}
	if c.MirrorWorker <= 0 {
		c.MirrorWorker = 8
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma separated variable, dropping blanks.
func list(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
