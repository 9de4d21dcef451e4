// auction/store/auction_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cricketops/cricket-services/shared/models"
)

// AuctionStore represents the MongoDB data store for auction documents.
// Stores only do DB stuff; all business rules live in the service layer.
type AuctionStore struct {
	auctions *mongo.Collection
	counters *mongo.Collection
}

// NewAuctionStore creates a new AuctionStore over the auctions collection and
// the counters collection used for sequential display numbers.
func NewAuctionStore(auctions, counters *mongo.Collection) *AuctionStore {
	return &AuctionStore{
		auctions: auctions,
		counters: counters,
	}
}

// CreateAuction inserts a new auction document.
func (as *AuctionStore) CreateAuction(ctx context.Context, auction *models.Auction) error {
	_, err := as.auctions.InsertOne(ctx, auction)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("auction %s already exists", auction.ID)
		}
		return fmt.Errorf("failed to create auction %s: %w", auction.ID, err)
	}
	return nil
}

// GetAuction retrieves one auction document by its opaque ID.
func (as *AuctionStore) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	var auction models.Auction
	filter := bson.M{"_id": auctionID}
	err := as.auctions.FindOne(ctx, filter).Decode(&auction)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent
	}
	return &auction, nil
}

// ListAuctions returns all auction documents, newest first.
func (as *AuctionStore) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: -1}})
	cursor, err := as.auctions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer cursor.Close(ctx)

	var auctions []models.Auction
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, fmt.Errorf("failed to decode auction list: %w", err)
	}
	return auctions, nil
}

// ListAuctionsByStatus returns all auctions in one lifecycle state.
func (as *AuctionStore) ListAuctionsByStatus(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error) {
	cursor, err := as.auctions.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions with status %s: %w", status, err)
	}
	defer cursor.Close(ctx)

	var auctions []models.Auction
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, fmt.Errorf("failed to decode auction list for status %s: %w", status, err)
	}
	return auctions, nil
}

// ListDueScheduled returns scheduled auctions whose scheduled time is at or
// before the given instant.
func (as *AuctionStore) ListDueScheduled(ctx context.Context, now time.Time) ([]models.Auction, error) {
	filter := bson.M{
		"status":       models.AuctionStatusScheduled,
		"scheduled_at": bson.M{"$lte": now},
	}
	cursor, err := as.auctions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled auctions: %w", err)
	}
	defer cursor.Close(ctx)

	var auctions []models.Auction
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, fmt.Errorf("failed to decode due scheduled auctions: %w", err)
	}
	return auctions, nil
}

// ReplaceAuction writes the whole document guarded by an optimistic version
// check: the filter matches only the version the caller read, and the write
// bumps it. A zero match means the document changed underneath the caller (or
// was deleted) and is reported as mongo.ErrNoDocuments so the service can map
// it to a conflict.
func (as *AuctionStore) ReplaceAuction(ctx context.Context, auction *models.Auction) error {
	readVersion := auction.Version
	auction.Version = readVersion + 1

	filter := bson.M{"_id": auction.ID, "version": readVersion}
	res, err := as.auctions.ReplaceOne(ctx, filter, auction)
	if err != nil {
		auction.Version = readVersion
		return fmt.Errorf("failed to replace auction %s: %w", auction.ID, err)
	}
	if res.MatchedCount == 0 {
		auction.Version = readVersion
		return fmt.Errorf("auction %s version %d no longer current: %w", auction.ID, readVersion, mongo.ErrNoDocuments)
	}
	return nil
}

// DeleteAuction removes one auction document.
func (as *AuctionStore) DeleteAuction(ctx context.Context, auctionID string) error {
	res, err := as.auctions.DeleteOne(ctx, bson.M{"_id": auctionID})
	if err != nil {
		return fmt.Errorf("failed to delete auction %s: %w", auctionID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateLotTimeRemaining mirrors the countdown into the live lot subdocument.
// Deliberately a targeted $set that does not touch the version field: the
// countdown mirror must never invalidate a concurrent bid's version check.
func (as *AuctionStore) UpdateLotTimeRemaining(ctx context.Context, auctionID string, remaining int64) error {
	filter := bson.M{"_id": auctionID, "current_lot": bson.M{"$ne": nil}}
	update := bson.M{"$set": bson.M{"current_lot.time_remaining": remaining}}
	res, err := as.auctions.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update time remaining for auction %s: %w", auctionID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("auction %s has no live lot: %w", auctionID, mongo.ErrNoDocuments)
	}
	return nil
}

// NextAuctionNumber atomically allocates the next sequential display number
// from the counters collection, creating the counter on first use.
func (as *AuctionStore) NextAuctionNumber(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": "auction_number"}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := as.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate next auction number: %w", err)
	}
	return counter.Seq, nil
}
