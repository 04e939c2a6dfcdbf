package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"trip_planner/internal/domain"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	APIBase        string
	APIToken       string
	APIRPS         int
	Workers        int
	CacheTTL       time.Duration
	POITTL         time.Duration
	ResolveTimeout time.Duration
	SessionTTL     time.Duration
	EmptyDayPolicy domain.EmptyDayPolicy
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
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/trip?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		APIBase:        env("TRIP_API_BASE_URL", "https://api.trip-planner.travel/v1"),
		APIToken:       env("TRIP_API_TOKEN", ""),
		APIRPS:         atoi("TRIP_API_RPS", 5),
		Workers:        atoi("WARM_WORKERS", 8),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		POITTL:         time.Duration(atoi("POI_TTL_SECONDS", 3600)) * time.Second,
		ResolveTimeout: time.Duration(atoi("RESOLVE_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionTTL:     time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,
		EmptyDayPolicy: policy(env("EMPTY_DAY_POLICY", "keep")),
	}
	if c.APIToken == "" {
		log.Warn().Msg("TRIP_API_TOKEN is empty")
	}
	return c
}

func policy(v string) domain.EmptyDayPolicy {
	if v == "drop" {
		return domain.DropEmptyDays
	}
	return domain.KeepEmptyDays
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
