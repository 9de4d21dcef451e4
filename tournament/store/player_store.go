// tournament/store/player_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/shared/models"
)

// PlayerStore represents the MongoDB data store for player profiles.
type PlayerStore struct {
	collection *mongo.Collection
}

// NewPlayerStore creates a new PlayerStore instance.
func NewPlayerStore(collection *mongo.Collection) *PlayerStore {
	return &PlayerStore{
		collection: collection,
	}
}

// CreatePlayer inserts a new player document into the collection.
func (ps *PlayerStore) CreatePlayer(ctx context.Context, player *models.Player) error {
	_, err := ps.collection.InsertOne(ctx, player)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("player %s already exists", player.ID)
		}
		return fmt.Errorf("failed to create player %s: %w", player.ID, err)
	}
	return nil
}

// GetPlayer retrieves a player by ID.
func (ps *PlayerStore) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	var player models.Player
	filter := bson.M{"_id": playerID}
	err := ps.collection.FindOne(ctx, filter).Decode(&player)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent
	}
	return &player, nil
}

// ListPlayers returns all player documents.
func (ps *PlayerStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	cursor, err := ps.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode player list: %w", err)
	}
	return players, nil
}

// ListAuctionPool returns players flagged for the auction pool that have not
// been assigned to a franchise yet.
func (ps *PlayerStore) ListAuctionPool(ctx context.Context) ([]models.Player, error) {
	filter := bson.M{
		"in_auction_pool": true,
		"$or": []bson.M{
			{"team_id": ""},
			{"team_id": bson.M{"$exists": false}},
		},
	}
	cursor, err := ps.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list auction pool: %w", err)
	}
	defer cursor.Close(ctx)

	var players []models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode auction pool: %w", err)
	}
	return players, nil
}

// UpdatePlayer replaces the mutable profile fields of a player document.
func (ps *PlayerStore) UpdatePlayer(ctx context.Context, player *models.Player) error {
	filter := bson.M{"_id": player.ID}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"name":            player.Name,
		"role":            player.Role,
		"batting_style":   player.BattingStyle,
		"bowling_style":   player.BowlingStyle,
		"country":         player.Country,
		"in_auction_pool": player.InAuctionPool,
		"matches":         player.Matches,
		"runs":            player.Runs,
		"wickets":         player.Wickets,
		"updated_at":      &now,
	}}
	res, err := ps.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AssignPlayerToTeam records the outcome of a sold auction lot: the player's
// franchise and sold price, and removal from the auction pool.
func (ps *PlayerStore) AssignPlayerToTeam(ctx context.Context, playerID, teamID string, soldPrice int64) error {
	filter := bson.M{"_id": playerID}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"team_id":         teamID,
		"sold_price":      soldPrice,
		"in_auction_pool": false,
		"updated_at":      &now,
	}}
	res, err := ps.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to assign player %s to team %s: %w", playerID, teamID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePlayer removes one player document.
func (ps *PlayerStore) DeletePlayer(ctx context.Context, playerID string) error {
	res, err := ps.collection.DeleteOne(ctx, bson.M{"_id": playerID})
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
