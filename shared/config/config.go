// shared/config/config.go
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// CommonConfig holds configuration fields shared by both services.
type CommonConfig struct {
	RedisAddrs              []string      // Redis cluster addresses
	RedisPassword           string        // Redis password, empty when auth is disabled
	HeartbeatInterval       time.Duration // How often to heartbeat into the service registry
	HeartbeatTTL            time.Duration // How long an instance counts as alive without a heartbeat
	RegistryCleanupInterval time.Duration // How often stale registry entries are swept
	ServiceIP               string        // Advertised IP for registration (Kubernetes Pod IP)
	ServicePort             int           // Listen port, derived from the listen address
}

// AuctionServiceConfig holds configuration specific to the auction service.
type AuctionServiceConfig struct {
	CommonConfig
	ListenAddr                string        // HTTP listen address (e.g. ":8083")
	MongoDBConnStr            string        // MongoDB connection string
	MongoDBDatabase           string        // Database name
	MongoDBAuctionsCollection string        // Collection for auction documents
	MongoDBCountersCollection string        // Collection for sequential display numbers
	TournamentServiceURL      string        // Base URL of the tournament service
	TimerTickInterval         time.Duration // Countdown tick cadence (1s in production)
	DefaultBidSeconds         int64         // Countdown per lot when an auction doesn't set one
	ReconcileInterval         time.Duration // How often timer ownership is reconciled
	SchedulerSpec             string        // Cron spec for auto-starting due auctions
	LiveLotTTL                time.Duration // TTL for the Redis current-lot mirror
	AMQPURL                   string        // RabbitMQ URL; empty disables event publishing
}

// TournamentServiceConfig holds configuration specific to the tournament service.
type TournamentServiceConfig struct {
	CommonConfig
	ListenAddr                string // HTTP listen address (e.g. ":8081")
	MongoDBConnStr            string
	MongoDBDatabase           string
	MongoDBPlayersCollection  string
	MongoDBTeamsCollection    string
	MongoDBMatchesCollection  string
	MongoDBLineupsCollection  string
	MongoDBCountersCollection string
}

// LoadCommonConfig loads shared configuration from environment variables.
func LoadCommonConfig() (CommonConfig, error) {
	cfg := CommonConfig{}
	var err error

	redisAddrsStr := os.Getenv("REDIS_ADDRS")
	if redisAddrsStr == "" {
		cfg.RedisAddrs = []string{"redis-cluster-headless.cricket.svc.cluster.local:6379"}
	} else {
		for _, addr := range strings.Split(redisAddrsStr, ",") {
			cfg.RedisAddrs = append(cfg.RedisAddrs, strings.TrimSpace(addr))
		}
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.HeartbeatInterval, err = getDuration("SERVICE_HEARTBEAT_INTERVAL", 5*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.HeartbeatTTL, err = getDuration("SERVICE_HEARTBEAT_TTL", 15*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.RegistryCleanupInterval, err = getDuration("SERVICE_REGISTRY_CLEANUP_INTERVAL", 30*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.ServiceIP = os.Getenv("POD_IP") // Injected by Kubernetes
	if cfg.ServiceIP == "" {
		cfg.ServiceIP = "0.0.0.0"
		fmt.Printf("WARNING: POD_IP not set, defaulting ServiceIP to %s\n", cfg.ServiceIP)
	}

	return cfg, nil
}

func getDuration(envKey string, defaultVal time.Duration) (time.Duration, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format for %s: %w", envKey, err)
	}
	return d, nil
}

func getInt64(envKey string, defaultVal int64) (int64, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer format for %s: %w", envKey, err)
	}
	return i, nil
}

// extractPort extracts the numeric port from a listen address
// (":8083" -> 8083, "0.0.0.0:8083" -> 8083).
func extractPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		if strings.HasPrefix(listenAddr, ":") {
			portStr = strings.TrimPrefix(listenAddr, ":")
		} else {
			return 0, fmt.Errorf("invalid ListenAddr format for port extraction: %w", err)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number '%s': %w", portStr, err)
	}
	return port, nil
}

// LoadAuctionServiceConfig loads configuration for the auction service.
func LoadAuctionServiceConfig() (*AuctionServiceConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for auction-service: %w", err)
	}

	cfg := &AuctionServiceConfig{
		CommonConfig:              common,
		ListenAddr:                os.Getenv("AUCTION_SERVICE_LISTEN_ADDR"),
		MongoDBConnStr:            os.Getenv("MONGODB_CONN_STR"),
		MongoDBDatabase:           os.Getenv("MONGODB_DATABASE"),
		MongoDBAuctionsCollection: os.Getenv("MONGODB_AUCTIONS_COLLECTION"),
		MongoDBCountersCollection: os.Getenv("MONGODB_COUNTERS_COLLECTION"),
		TournamentServiceURL:      os.Getenv("TOURNAMENT_SERVICE_URL"),
		SchedulerSpec:             os.Getenv("AUCTION_SCHEDULER_SPEC"),
		AMQPURL:                   os.Getenv("AMQP_URL"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8083"
	}
	if cfg.MongoDBConnStr == "" {
		cfg.MongoDBConnStr = "mongodb://mongodb-service:27017"
	}
	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "cricket"
	}
	if cfg.MongoDBAuctionsCollection == "" {
		cfg.MongoDBAuctionsCollection = "auctions"
	}
	if cfg.MongoDBCountersCollection == "" {
		cfg.MongoDBCountersCollection = "counters"
	}
	if cfg.TournamentServiceURL == "" {
		cfg.TournamentServiceURL = "http://tournament-service:8081"
	}
	if cfg.SchedulerSpec == "" {
		cfg.SchedulerSpec = "@every 30s"
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from AUCTION_SERVICE_LISTEN_ADDR '%s': %w", cfg.ListenAddr, err)
	}

	cfg.TimerTickInterval, err = getDuration("AUCTION_TIMER_TICK_INTERVAL", time.Second)
	if err != nil {
		return nil, err
	}
	cfg.DefaultBidSeconds, err = getInt64("AUCTION_DEFAULT_BID_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultBidSeconds <= 0 {
		return nil, fmt.Errorf("AUCTION_DEFAULT_BID_SECONDS must be positive (got %d)", cfg.DefaultBidSeconds)
	}
	cfg.ReconcileInterval, err = getDuration("AUCTION_RECONCILE_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.LiveLotTTL, err = getDuration("AUCTION_LIVE_LOT_TTL", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadTournamentServiceConfig loads configuration for the tournament service.
func LoadTournamentServiceConfig() (*TournamentServiceConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for tournament-service: %w", err)
	}

	cfg := &TournamentServiceConfig{
		CommonConfig:              common,
		ListenAddr:                os.Getenv("TOURNAMENT_SERVICE_LISTEN_ADDR"),
		MongoDBConnStr:            os.Getenv("MONGODB_CONN_STR"),
		MongoDBDatabase:           os.Getenv("MONGODB_DATABASE"),
		MongoDBPlayersCollection:  os.Getenv("MONGODB_PLAYERS_COLLECTION"),
		MongoDBTeamsCollection:    os.Getenv("MONGODB_TEAMS_COLLECTION"),
		MongoDBMatchesCollection:  os.Getenv("MONGODB_MATCHES_COLLECTION"),
		MongoDBLineupsCollection:  os.Getenv("MONGODB_LINEUPS_COLLECTION"),
		MongoDBCountersCollection: os.Getenv("MONGODB_COUNTERS_COLLECTION"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8081"
	}
	if cfg.MongoDBConnStr == "" {
		cfg.MongoDBConnStr = "mongodb://mongodb-service:27017"
	}
	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "cricket"
	}
	if cfg.MongoDBPlayersCollection == "" {
		cfg.MongoDBPlayersCollection = "players"
	}
	if cfg.MongoDBTeamsCollection == "" {
		cfg.MongoDBTeamsCollection = "teams"
	}
	if cfg.MongoDBMatchesCollection == "" {
		cfg.MongoDBMatchesCollection = "matches"
	}
	if cfg.MongoDBLineupsCollection == "" {
		cfg.MongoDBLineupsCollection = "lineups"
	}
	if cfg.MongoDBCountersCollection == "" {
		cfg.MongoDBCountersCollection = "counters"
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from TOURNAMENT_SERVICE_LISTEN_ADDR '%s': %w", cfg.ListenAddr, err)
	}

	return cfg, nil
}
