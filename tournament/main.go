package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/config"
	"github.com/cricketops/cricket-services/shared/mongodb"
	redisu "github.com/cricketops/cricket-services/shared/redis"
	"github.com/cricketops/cricket-services/shared/registry"
	tournamentapi "github.com/cricketops/cricket-services/tournament/api"
	"github.com/cricketops/cricket-services/tournament/service"
	"github.com/cricketops/cricket-services/tournament/store"
)

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadTournamentServiceConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded for Tournament Service. Listening on: %s", cfg.ListenAddr)

	// --- 2. Connect to MongoDB ---
	mongoClient, err := mongodb.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("ERROR: Error disconnecting MongoDB client: %v", err)
		}
		log.Println("MongoDB client disconnected.")
	}()

	// --- 3. Connect to Redis Cluster (service registry only) ---
	redisClient, err := redisu.NewClusterClient(cfg.RedisAddrs, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis Cluster: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("ERROR: Error closing Redis client: %v", err)
		}
		log.Println("Redis client closed.")
	}()

	// --- 4. Initialize Data Stores ---
	playerStore := store.NewPlayerStore(mongoClient.Collection(cfg.MongoDBPlayersCollection))
	teamStore := store.NewTeamStore(mongoClient.Collection(cfg.MongoDBTeamsCollection))
	matchStore := store.NewMatchStore(
		mongoClient.Collection(cfg.MongoDBMatchesCollection),
		mongoClient.Collection(cfg.MongoDBCountersCollection),
	)
	lineupStore := store.NewLineupStore(mongoClient.Collection(cfg.MongoDBLineupsCollection))

	// --- 5. Initialize Business Logic Services ---
	playerService := service.NewPlayerService(playerStore, teamStore)
	teamService := service.NewTeamService(teamStore)
	matchService := service.NewMatchService(matchStore, teamStore)
	lineupService := service.NewLineupService(lineupStore, matchStore)
	log.Println("Tournament Service business logic initialized.")

	// --- 6. Initialize API Handlers ---
	tournamentAPIHandlers := tournamentapi.NewTournamentAPIHandlers(playerService, teamService, matchService, lineupService)

	// --- 7. Initialize and Start Service Registrar ---
	registrar := registry.NewServiceRegistrar(redisClient, "tournament-service", &cfg.CommonConfig)
	go registrar.Start()
	defer registrar.Stop()
	log.Printf("Service registrar started for 'tournament-service' with Address: %s", cfg.ListenAddr)

	// --- 8. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, log.Default())
	tournamentAPIHandlers.RegisterRoutes(baseServer.Router)
	log.Println("HTTP routes registered.")

	// --- 9. Start HTTP Server ---
	go func() {
		log.Printf("HTTP server starting on %s...", cfg.ListenAddr)
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	// --- 10. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down Tournament Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server graceful shutdown failed: %v", err)
	}
	log.Println("Tournament Service HTTP server gracefully stopped.")
	log.Println("Tournament Service gracefully shut down.")
}
