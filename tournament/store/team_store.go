// tournament/store/team_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/shared/models"
)

// TeamStore represents the MongoDB data store for franchise teams.
type TeamStore struct {
	collection *mongo.Collection
}

// NewTeamStore creates a new TeamStore instance.
func NewTeamStore(collection *mongo.Collection) *TeamStore {
	return &TeamStore{
		collection: collection,
	}
}

// CreateTeam inserts a new team document.
func (ts *TeamStore) CreateTeam(ctx context.Context, team *models.Team) error {
	_, err := ts.collection.InsertOne(ctx, team)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("team %s already exists", team.ID)
		}
		return fmt.Errorf("failed to create team %s: %w", team.ID, err)
	}
	return nil
}

// GetTeam retrieves a team by ID.
func (ts *TeamStore) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	var team models.Team
	filter := bson.M{"_id": teamID}
	err := ts.collection.FindOne(ctx, filter).Decode(&team)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when absent
	}
	return &team, nil
}

// ListTeams returns all team documents.
func (ts *TeamStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	cursor, err := ts.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode team list: %w", err)
	}
	return teams, nil
}

// UpdateTeam replaces the mutable fields of a team document.
func (ts *TeamStore) UpdateTeam(ctx context.Context, team *models.Team) error {
	filter := bson.M{"_id": team.ID}
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"name":       team.Name,
		"short_name": team.ShortName,
		"city":       team.City,
		"captain_id": team.CaptainID,
		"updated_at": &now,
	}}
	res, err := ts.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update team %s: %w", team.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementPlayerCount bumps the franchise's assigned-player counter.
func (ts *TeamStore) IncrementPlayerCount(ctx context.Context, teamID string, delta int64) error {
	filter := bson.M{"_id": teamID}
	update := bson.M{"$inc": bson.M{"player_count": delta}}
	res, err := ts.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment player count for team %s: %w", teamID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteTeam removes one team document.
func (ts *TeamStore) DeleteTeam(ctx context.Context, teamID string) error {
	res, err := ts.collection.DeleteOne(ctx, bson.M{"_id": teamID})
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
