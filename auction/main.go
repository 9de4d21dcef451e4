package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auctionapi "github.com/cricketops/cricket-services/auction/api"
	"github.com/cricketops/cricket-services/auction/events"
	"github.com/cricketops/cricket-services/auction/reconciler"
	"github.com/cricketops/cricket-services/auction/scheduler"
	"github.com/cricketops/cricket-services/auction/service"
	"github.com/cricketops/cricket-services/auction/store"
	"github.com/cricketops/cricket-services/auction/timer"
	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/cluster"
	"github.com/cricketops/cricket-services/shared/config"
	"github.com/cricketops/cricket-services/shared/mongodb"
	redisu "github.com/cricketops/cricket-services/shared/redis"
	"github.com/cricketops/cricket-services/shared/registry"
	tournamentclient "github.com/cricketops/cricket-services/shared/service"
)

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadAuctionServiceConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded for Auction Service. Listening on: %s", cfg.ListenAddr)

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

	// --- 3. Connect to Redis Cluster ---
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
	auctionStore := store.NewAuctionStore(
		mongoClient.Collection(cfg.MongoDBAuctionsCollection),
		mongoClient.Collection(cfg.MongoDBCountersCollection),
	)
	liveLotStore := store.NewLiveLotStore(redisClient, cfg.LiveLotTTL)

	// --- 5. Initialize Event Publisher ---
	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ at %s: %v", cfg.AMQPURL, err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Println("AMQP event publisher initialized.")
	} else {
		publisher = events.NopPublisher{}
		log.Println("AMQP_URL not set, auction events disabled.")
	}

	// --- 6. Initialize Business Logic Service ---
	tournamentClient := tournamentclient.NewTournamentClient(cfg.TournamentServiceURL)
	timerRegistry := timer.NewRegistry(cfg.TimerTickInterval, auctionStore)
	auctionService := service.NewAuctionService(
		auctionStore,
		tournamentClient,
		liveLotStore,
		timerRegistry,
		publisher,
		cfg.DefaultBidSeconds,
	)
	timerRegistry.BindAdvancer(auctionService)
	defer timerRegistry.StopAll()
	log.Println("Auction Service business logic initialized.")

	// --- 7. Initialize API Handlers ---
	auctionAPIHandlers := auctionapi.NewAuctionAPIHandlers(auctionService)

	// --- 8. Initialize and Start Service Registrar ---
	registrar := registry.NewServiceRegistrar(redisClient, "auction-service", &cfg.CommonConfig)
	go registrar.Start()
	defer registrar.Stop()
	log.Printf("Service registrar started for 'auction-service' with Address: %s", cfg.ListenAddr)

	registryClient := registry.NewRegistryClient(redisClient, cfg.HeartbeatTTL)

	// --- 9. Timer Ownership Reconciler ---
	assignmentManager := cluster.NewServiceAssignmentManager(registryClient, registrar, cfg.HeartbeatInterval)
	go assignmentManager.Start()
	defer assignmentManager.Stop()

	timerReconciler := reconciler.NewTimerReconciler(cfg.ReconcileInterval, auctionStore, assignmentManager, timerRegistry)
	go timerReconciler.Start()
	defer timerReconciler.Stop()

	// --- 10. Scheduled Auction Auto-Start ---
	auctionScheduler, err := scheduler.Start(cfg.SchedulerSpec, auctionService)
	if err != nil {
		log.Fatalf("Failed to start auction scheduler: %v", err)
	}
	defer auctionScheduler.Stop()

	// --- 11. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, log.Default())
	auctionAPIHandlers.RegisterRoutes(baseServer.Router)
	log.Println("HTTP routes registered.")

	// --- 12. Start HTTP Server ---
	go func() {
		log.Printf("HTTP server starting on %s...", cfg.ListenAddr)
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	// --- 13. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down Auction Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server graceful shutdown failed: %v", err)
	}
	log.Println("Auction Service HTTP server gracefully stopped.")
	log.Println("Auction Service gracefully shut down.")
}
