package main

import (
	"time"

	auction "auction-house/internal/auctionService"
	auth "auction-house/internal/authService"
	"auction-house/internal/config"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/session"
	"auction-house/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("Failed to load configuration", map[string]any{"error": err.Error()})
	}

	auctions, users, cleanup, err := openStores(cfg)
	if err != nil {
		utils.Fatal("Failed to open storage", map[string]any{"error": err.Error()})
	}
	defer cleanup()

	sessions := session.New([]byte(cfg.JWTSecret), cfg.SessionTTL)
	go sweepSessions(sessions, cfg.SweepInterval)

	authSvc := auth.NewAuthService(users, sessions)
	auctionSvc := auction.NewAuctionService(auctions)

	router := server.SetupRouter(authSvc, auctionSvc, sessions)

	addr := ":" + cfg.Port
	utils.Info("Starting auction server", map[string]any{"addr": addr, "durable": cfg.DBPath != ""})
	if err := router.Run(addr); err != nil {
		utils.Fatal("Failed to start server", map[string]any{"error": err.Error()})
	}
}

// openStores picks sqlite-backed storage when a database path is
// configured, otherwise an in-memory store.
func openStores(cfg config.Config) (repository.AuctionStore, repository.UserStore, func(), error) {
	if cfg.DBPath == "" {
		store := repository.NewMemoryStore()
		return store, store, func() {}, nil
	}

	store, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, store, func() { _ = store.Close() }, nil
}

// sweepSessions periodically evicts expired sessions so the registry
// stays bounded.
func sweepSessions(sessions *session.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if evicted := sessions.Sweep(); evicted > 0 {
			utils.Info("Session sweep", map[string]any{"evicted": evicted})
		}
	}
}
