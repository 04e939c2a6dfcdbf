package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_planner/internal/adapters/observability"
	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/adapters/tripapi"
	"trip_planner/internal/app"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.APIBase).
		Int("workers", cfg.Workers).
		Int("itineraries", len(shared.SeedItineraryIDs)).
		Msg("warmer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := tripapi.New(cfg.APIBase, cfg.APIToken, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize trip API client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	syncer := app.NewSyncService(client, repo, cache)
	resolver := app.NewResolver(client, cache, cfg.POITTL, cfg.ResolveTimeout)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range shared.SeedItineraryIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(itineraryID int64) {
			defer wg.Done()
			defer sem.Release(int64(1))

			it, err := syncer.SyncItinerary(ctx, itineraryID)
			if err != nil {
				log.Warn().Int64("id", itineraryID).Err(err).Msg("sync failed")
				return
			}
			resolver.ResolveAll(ctx, it.PoiIDs())
			log.Info().Int64("id", itineraryID).Int("stops", it.StopCount()).Msg("sync ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("warm-up completed")
}
