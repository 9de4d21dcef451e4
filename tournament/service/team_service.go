// tournament/service/team_service.go
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

// TeamService implements business logic related to franchise teams.
type TeamService struct {
	teamStore *store.TeamStore
}

// NewTeamService creates a new TeamService instance.
func NewTeamService(teamStore *store.TeamStore) *TeamService {
	return &TeamService{
		teamStore: teamStore,
	}
}

// CreateTeam registers a new franchise.
func (s *TeamService) CreateTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	now := time.Now()
	if team.ID == "" {
		team.ID = uuid.New().String()
	}
	team.PlayerCount = 0
	team.CreatedAt = &now
	team.UpdatedAt = &now

	if err := s.teamStore.CreateTeam(ctx, team); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("team %s: %w", team.ID, ErrTeamAlreadyExists)
		}
		return nil, err
	}
	return team, nil
}

// GetTeam retrieves one franchise.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teamStore.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
		}
		return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
	}
	return team, nil
}

// ListTeams returns all franchises.
func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.teamStore.ListTeams(ctx)
}

// UpdateTeam updates the mutable fields of a franchise.
func (s *TeamService) UpdateTeam(ctx context.Context, team *models.Team) error {
	if err := s.teamStore.UpdateTeam(ctx, team); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("team %s: %w", team.ID, ErrTeamNotFound)
		}
		return err
	}
	return nil
}

// DeleteTeam removes a franchise.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	if err := s.teamStore.DeleteTeam(ctx, teamID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
		}
		return err
	}
	return nil
}
