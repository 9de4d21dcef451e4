// tournament/service/match_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/shared/models"
	"github.com/cricketops/cricket-services/tournament/store"
)

// MatchService implements business logic related to match fixtures.
type MatchService struct {
	matchStore *store.MatchStore
	teamStore  *store.TeamStore
}

// NewMatchService creates a new MatchService instance.
func NewMatchService(matchStore *store.MatchStore, teamStore *store.TeamStore) *MatchService {
	return &MatchService{
		matchStore: matchStore,
		teamStore:  teamStore,
	}
}

// CreateMatch schedules a new fixture between two existing franchises.
func (s *MatchService) CreateMatch(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.TeamAID == match.TeamBID {
		return nil, fmt.Errorf("teams %s and %s: %w", match.TeamAID, match.TeamBID, ErrSameTeams)
	}
	for _, teamID := range []string{match.TeamAID, match.TeamBID} {
		if _, err := s.teamStore.GetTeam(ctx, teamID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
			}
			return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
		}
	}

	number, err := s.matchStore.NextMatchNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	match.Number = number
	match.Status = models.MatchStatusScheduled
	match.CreatedAt = &now
	match.UpdatedAt = &now

	if err := s.matchStore.CreateMatch(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// GetMatch retrieves one fixture.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchStore.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("match %s: %w", matchID, ErrMatchNotFound)
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	return match, nil
}

// ListMatches returns all fixtures in fixture-number order.
func (s *MatchService) ListMatches(ctx context.Context) ([]models.Match, error) {
	return s.matchStore.ListMatches(ctx)
}

// UpdateMatch updates the mutable fields of a fixture (status, toss, scores,
// result).
func (s *MatchService) UpdateMatch(ctx context.Context, match *models.Match) error {
	if err := s.matchStore.UpdateMatch(ctx, match); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("match %s: %w", match.ID, ErrMatchNotFound)
		}
		return err
	}
	return nil
}

// DeleteMatch removes a fixture.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID string) error {
	if err := s.matchStore.DeleteMatch(ctx, matchID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("match %s: %w", matchID, ErrMatchNotFound)
		}
		return err
	}
	return nil
}
