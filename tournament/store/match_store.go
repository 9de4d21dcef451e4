// tournament/store/match_store.go
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

// MatchStore represents the MongoDB data store for match fixtures.
type MatchStore struct {
	matches  *mongo.Collection
	counters *mongo.Collection
}

// NewMatchStore creates a new MatchStore over the matches collection and the
// counters collection used for sequential match numbers.
func NewMatchStore(matches, counters *mongo.Collection) *MatchStore {
	return &MatchStore{
		matches:  matches,
		counters: counters,
	}
}

// CreateMatch inserts a new match document.
func (ms *MatchStore) CreateMatch(ctx context.Context, match *models.Match) error {
	_, err := ms.matches.InsertOne(ctx, match)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("match %s already exists", match.ID)
		}
		return fmt.Errorf("failed to create match %s: %w", match.ID, err)
	}
	return nil
}

// GetMatch retrieves a match by ID.
func (ms *MatchStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	filter := bson.M{"_id": matchID}
	err := ms.matches.FindOne(ctx, filter).Decode(&match)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent
	}
	return &match, nil
}

// ListMatches returns all match documents ordered by fixture number.
func (ms *MatchStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := ms.matches.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []models.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode match list: %w", err)
	}
	return matches, nil
}

// UpdateMatch replaces the mutable fields of a match document.
func (ms *MatchStore) UpdateMatch(ctx context.Context, match *models.Match) error {
	filter := bson.M{"_id": match.ID}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"venue":          match.Venue,
		"status":         match.Status,
		"toss_winner_id": match.TossWinnerID,
		"toss_decision":  match.TossDecision,
		"scores":         match.Scores,
		"result":         match.Result,
		"scheduled_at":   match.ScheduledAt,
		"updated_at":     &now,
	}}
	res, err := ms.matches.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteMatch removes one match document.
func (ms *MatchStore) DeleteMatch(ctx context.Context, matchID string) error {
	res, err := ms.matches.DeleteOne(ctx, bson.M{"_id": matchID})
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// NextMatchNumber atomically allocates the next sequential fixture number.
func (ms *MatchStore) NextMatchNumber(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": "match_number"}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := ms.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate next match number: %w", err)
	}
	return counter.Seq, nil
}
