// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/wordarena/wordarena/internal/auth"
	"github.com/wordarena/wordarena/internal/cache"
	"github.com/wordarena/wordarena/internal/database"
	"github.com/wordarena/wordarena/internal/dictionary"
	"github.com/wordarena/wordarena/internal/game"
	"github.com/wordarena/wordarena/internal/handlers"
	"github.com/wordarena/wordarena/internal/middleware"
	"github.com/wordarena/wordarena/internal/models"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Postgres and Redis are both optional: without them the engine runs
	// in-memory only and skips the turn journal.
	if os.Getenv("PG_HOST") != "" {
		database.ConnectDB()
	} else {
		logger.Warn("PG_HOST not set, running without persistence")
	}
	if os.Getenv("REDIS_ADDR") != "" {
		if err := cache.ConnectRedis(); err != nil {
			logger.Warnf("redis unavailable, turn journal disabled: %v", err)
			cache.Rdb = nil
		}
	} else {
		logger.Warn("REDIS_ADDR not set, turn journal disabled")
	}

	dict := dictionary.Load(os.Getenv("DICTIONARY_PATH"))
	logger.Infof("dictionary loaded with %d words", dict.Len())

	mgr := game.NewManager(dict)
	if database.DB != nil {
		mgr.Players.Load = func(id string) *models.Player {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			p, err := database.GetPlayer(ctx, id)
			if err != nil {
				logger.Warnf("failed to load player %s: %v", id, err)
				return nil
			}
			return p
		}
		mgr.OnStatsChanged = func(p *models.Player) {
			// Snapshot under the player's mutex; the live record keeps
			// mutating while the upsert runs.
			snap := p.Snapshot()
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := database.UpsertPlayer(ctx, snap); err != nil {
					logger.Warnf("failed to persist player %s: %v", snap.ID, err)
				}
			}()
		}
	}

	gw := handlers.NewGateway(mgr)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", gw.HealthHandler)

	mux.Handle("/gateway/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GatewayWSHandler(logger, gw),
	)))

	mux.Handle("/leaderboard", middleware.LogMiddleware(logger)(http.HandlerFunc(
		gw.LeaderboardHandler,
	)))
	mux.Handle("/profile", middleware.LogMiddleware(logger)(http.HandlerFunc(
		gw.ProfileHandler,
	)))

	// admin endpoints
	mux.Handle("/admin/login", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.AdminLoginHandler,
	)))
	mux.Handle("/admin/grant_title", middleware.LogMiddleware(logger)(http.HandlerFunc(
		gw.AdminGrantTitleHandler,
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
