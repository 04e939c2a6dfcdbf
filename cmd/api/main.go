package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "trip_planner/internal/adapters/http_server"
	"trip_planner/internal/adapters/observability"
	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/adapters/tripapi"
	"trip_planner/internal/app"
	"trip_planner/internal/auth"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	client, err := tripapi.New(cfg.APIBase, cfg.APIToken, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize trip API client")
	}
	syncer := app.NewSyncService(client, repo, cache)
	trips := app.NewTripService(repo, syncer, cache, cfg.CacheTTL)
	ws := app.NewWorkspace(trips, repo, client, cache, cfg.EmptyDayPolicy, cfg.POITTL, cfg.ResolveTimeout)
	sessions := auth.New(repo, cfg.SessionTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Auth: sessions, Trips: trips, WS: ws})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
