// tournament/service/player_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/shared/models"
	"github.com/cricketops/cricket-services/tournament/store"
)

// PlayerService implements business logic related to player profiles and the
// auction pool.
type PlayerService struct {
	playerStore *store.PlayerStore
	teamStore   *store.TeamStore
}

// NewPlayerService creates a new PlayerService instance.
func NewPlayerService(playerStore *store.PlayerStore, teamStore *store.TeamStore) *PlayerService {
	return &PlayerService{
		playerStore: playerStore,
		teamStore:   teamStore,
	}
}

// CreatePlayer registers a new player profile.
func (s *PlayerService) CreatePlayer(ctx context.Context, player *models.Player) (*models.Player, error) {
	if !validRole(player.Role) {
		return nil, fmt.Errorf("role %q: %w", player.Role, ErrInvalidRole)
	}

	now := time.Now()
	if player.ID == "" {
		player.ID = uuid.New().String()
	}
	player.TeamID = ""
	player.SoldPrice = 0
	player.CreatedAt = &now
	player.UpdatedAt = &now

	if err := s.playerStore.CreatePlayer(ctx, player); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("player %s: %w", player.ID, ErrPlayerAlreadyExists)
		}
		return nil, err
	}
	return player, nil
}

// GetPlayer retrieves one player profile.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	player, err := s.playerStore.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("player %s: %w", playerID, ErrPlayerNotFound)
		}
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	return player, nil
}

// ListPlayers returns all registered players.
func (s *PlayerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.playerStore.ListPlayers(ctx)
}

// ListAuctionPool returns players eligible for auction: flagged for the pool
// and not assigned to any franchise.
func (s *PlayerService) ListAuctionPool(ctx context.Context) ([]models.Player, error) {
	return s.playerStore.ListAuctionPool(ctx)
}

// UpdatePlayer updates the mutable profile fields of a player.
func (s *PlayerService) UpdatePlayer(ctx context.Context, player *models.Player) error {
	if !validRole(player.Role) {
		return fmt.Errorf("role %q: %w", player.Role, ErrInvalidRole)
	}
	if err := s.playerStore.UpdatePlayer(ctx, player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("player %s: %w", player.ID, ErrPlayerNotFound)
		}
		return err
	}
	return nil
}

// AssignPlayerToTeam records a sold auction lot on the player document and
// bumps the franchise's player counter. Called by the auction service.
func (s *PlayerService) AssignPlayerToTeam(ctx context.Context, playerID, teamID string, soldPrice int64) error {
	if _, err := s.teamStore.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
		}
		return fmt.Errorf("failed to get team %s: %w", teamID, err)
	}

	if err := s.playerStore.AssignPlayerToTeam(ctx, playerID, teamID, soldPrice); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("player %s: %w", playerID, ErrPlayerNotFound)
		}
		return err
	}

	if err := s.teamStore.IncrementPlayerCount(ctx, teamID, 1); err != nil {
		// The assignment itself stands; the counter is display-only.
		log.Printf("WARN: Failed to bump player count for team %s after assigning player %s: %v", teamID, playerID, err)
	}
	return nil
}

// DeletePlayer removes a player profile.
func (s *PlayerService) DeletePlayer(ctx context.Context, playerID string) error {
	if err := s.playerStore.DeletePlayer(ctx, playerID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("player %s: %w", playerID, ErrPlayerNotFound)
		}
		return err
	}
	return nil
}

func validRole(role string) bool {
	switch role {
	case models.RoleBatsman, models.RoleBowler, models.RoleAllRounder, models.RoleWicketKeeper:
		return true
	}
	return false
}
