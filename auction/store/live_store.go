// auction/store/live_store.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cricketops/cricket-services/shared/models"
	sharedredis "github.com/cricketops/cricket-services/shared/redis"
)

// LiveLotStore mirrors the current lot of an active auction into Redis under a
// short TTL. It is a read-optimized snapshot for status polling, never the
// source of truth; the auction document in MongoDB always wins.
type LiveLotStore struct {
	client *goredis.ClusterClient
	ttl    time.Duration
}

// NewLiveLotStore creates a live lot mirror with the given snapshot TTL.
func NewLiveLotStore(client *goredis.ClusterClient, ttl time.Duration) *LiveLotStore {
	return &LiveLotStore{
		client: client,
		ttl:    ttl,
	}
}

// SetLiveLot overwrites the snapshot for one auction, resetting its TTL.
func (ls *LiveLotStore) SetLiveLot(ctx context.Context, auctionID string, lot *models.CurrentLot) error {
	key := fmt.Sprintf(sharedredis.LiveLotKeyPrefix, auctionID)
	payload, err := json.Marshal(lot)
	if err != nil {
		return fmt.Errorf("failed to marshal live lot for auction %s: %w", auctionID, err)
	}
	if err := ls.client.Set(ctx, key, payload, ls.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set live lot for auction %s: %w", auctionID, err)
	}
	return nil
}

// GetLiveLot reads the snapshot for one auction. An absent or expired key is
// reported as ErrRedisKeyNotFound.
func (ls *LiveLotStore) GetLiveLot(ctx context.Context, auctionID string) (*models.CurrentLot, error) {
	key := fmt.Sprintf(sharedredis.LiveLotKeyPrefix, auctionID)
	payload, err := ls.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, sharedredis.ErrRedisKeyNotFound
		}
		return nil, fmt.Errorf("failed to get live lot for auction %s: %w", auctionID, err)
	}

	var lot models.CurrentLot
	if err := json.Unmarshal(payload, &lot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal live lot for auction %s: %w", auctionID, err)
	}
	return &lot, nil
}
