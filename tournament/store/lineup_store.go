// tournament/store/lineup_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/shared/models"
)

// LineupStore represents the MongoDB data store for playing XIs.
type LineupStore struct {
	collection *mongo.Collection
}

// NewLineupStore creates a new LineupStore instance.
func NewLineupStore(collection *mongo.Collection) *LineupStore {
	return &LineupStore{
		collection: collection,
	}
}

// CreateLineup inserts a new lineup document.
func (ls *LineupStore) CreateLineup(ctx context.Context, lineup *models.Lineup) error {
	_, err := ls.collection.InsertOne(ctx, lineup)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("lineup %s already exists", lineup.ID)
		}
		return fmt.Errorf("failed to create lineup %s: %w", lineup.ID, err)
	}
	return nil
}

// GetLineup retrieves a lineup by ID.
func (ls *LineupStore) GetLineup(ctx context.Context, lineupID string) (*models.Lineup, error) {
	var lineup models.Lineup
	filter := bson.M{"_id": lineupID}
	err := ls.collection.FindOne(ctx, filter).Decode(&lineup)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent
	}
	return &lineup, nil
}

// GetLineupForMatchTeam retrieves the lineup one team named for one match.
func (ls *LineupStore) GetLineupForMatchTeam(ctx context.Context, matchID, teamID string) (*models.Lineup, error) {
	var lineup models.Lineup
	filter := bson.M{"match_id": matchID, "team_id": teamID}
	err := ls.collection.FindOne(ctx, filter).Decode(&lineup)
	if err != nil {
		return nil, err
	}
	return &lineup, nil
}

// ListLineupsForMatch returns the lineups named for one match.
func (ls *LineupStore) ListLineupsForMatch(ctx context.Context, matchID string) ([]models.Lineup, error) {
	cursor, err := ls.collection.Find(ctx, bson.M{"match_id": matchID})
	if err != nil {
		return nil, fmt.Errorf("failed to list lineups for match %s: %w", matchID, err)
	}
	defer cursor.Close(ctx)

	var lineups []models.Lineup
	if err := cursor.All(ctx, &lineups); err != nil {
		return nil, fmt.Errorf("failed to decode lineups for match %s: %w", matchID, err)
	}
	return lineups, nil
}

// UpdateLineup replaces the players of a lineup document.
func (ls *LineupStore) UpdateLineup(ctx context.Context, lineup *models.Lineup) error {
	filter := bson.M{"_id": lineup.ID}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"players":    lineup.Players,
		"updated_at": &now,
	}}
	res, err := ls.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update lineup %s: %w", lineup.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteLineup removes one lineup document.
func (ls *LineupStore) DeleteLineup(ctx context.Context, lineupID string) error {
	res, err := ls.collection.DeleteOne(ctx, bson.M{"_id": lineupID})
	if err != nil {
		return fmt.Errorf("failed to delete lineup %s: %w", lineupID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
