// tournament/service/lineup_service.go
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

const playingElevenSize = 11

// LineupService implements business logic related to playing XIs.
type LineupService struct {
	lineupStore *store.LineupStore
	matchStore  *store.MatchStore
}

// NewLineupService creates a new LineupService instance.
func NewLineupService(lineupStore *store.LineupStore, matchStore *store.MatchStore) *LineupService {
	return &LineupService{
		lineupStore: lineupStore,
		matchStore:  matchStore,
	}
}

// CreateLineup names a team's playing XI for a match. The match must exist and
// name the team, and a team can name only one XI per match.
func (s *LineupService) CreateLineup(ctx context.Context, lineup *models.Lineup) (*models.Lineup, error) {
	match, err := s.matchStore.GetMatch(ctx, lineup.MatchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("match %s: %w", lineup.MatchID, ErrMatchNotFound)
		}
		return nil, fmt.Errorf("failed to get match %s: %w", lineup.MatchID, err)
	}
	if match.TeamAID != lineup.TeamID && match.TeamBID != lineup.TeamID {
		return nil, fmt.Errorf("team %s is not playing match %s: %w", lineup.TeamID, lineup.MatchID, ErrTeamNotFound)
	}

	if err := ValidateLineup(lineup.Players); err != nil {
		return nil, err
	}

	if _, err := s.lineupStore.GetLineupForMatchTeam(ctx, lineup.MatchID, lineup.TeamID); err == nil {
		return nil, fmt.Errorf("match %s team %s: %w", lineup.MatchID, lineup.TeamID, ErrLineupExists)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing lineup for match %s team %s: %w", lineup.MatchID, lineup.TeamID, err)
	}

	now := time.Now()
	if lineup.ID == "" {
		lineup.ID = uuid.New().String()
	}
	lineup.CreatedAt = &now
	lineup.UpdatedAt = &now

	if err := s.lineupStore.CreateLineup(ctx, lineup); err != nil {
		return nil, err
	}
	return lineup, nil
}

// GetLineup retrieves one lineup.
func (s *LineupService) GetLineup(ctx context.Context, lineupID string) (*models.Lineup, error) {
	lineup, err := s.lineupStore.GetLineup(ctx, lineupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lineup %s: %w", lineupID, ErrLineupNotFound)
		}
		return nil, fmt.Errorf("failed to get lineup %s: %w", lineupID, err)
	}
	return lineup, nil
}

// ListLineupsForMatch returns the XIs named for one match.
func (s *LineupService) ListLineupsForMatch(ctx context.Context, matchID string) ([]models.Lineup, error) {
	return s.lineupStore.ListLineupsForMatch(ctx, matchID)
}

// UpdateLineup replaces the players of an existing XI, revalidating it.
func (s *LineupService) UpdateLineup(ctx context.Context, lineup *models.Lineup) error {
	if err := ValidateLineup(lineup.Players); err != nil {
		return err
	}
	if err := s.lineupStore.UpdateLineup(ctx, lineup); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("lineup %s: %w", lineup.ID, ErrLineupNotFound)
		}
		return err
	}
	return nil
}

// DeleteLineup removes a lineup.
func (s *LineupService) DeleteLineup(ctx context.Context, lineupID string) error {
	if err := s.lineupStore.DeleteLineup(ctx, lineupID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("lineup %s: %w", lineupID, ErrLineupNotFound)
		}
		return err
	}
	return nil
}

// ValidateLineup checks the playing-XI rules: exactly eleven distinct players,
// exactly one captain and exactly one wicket-keeper (the same player may be
// both).
func ValidateLineup(players []models.LineupPlayer) error {
	if len(players) != playingElevenSize {
		return fmt.Errorf("a playing eleven needs exactly %d players, got %d: %w", playingElevenSize, len(players), ErrInvalidLineup)
	}

	seen := make(map[string]bool, len(players))
	captains := 0
	keepers := 0
	for _, p := range players {
		if p.PlayerID == "" {
			return fmt.Errorf("lineup slot with empty player ID: %w", ErrInvalidLineup)
		}
		if seen[p.PlayerID] {
			return fmt.Errorf("player %s appears twice: %w", p.PlayerID, ErrInvalidLineup)
		}
		seen[p.PlayerID] = true
		if p.IsCaptain {
			captains++
		}
		if p.IsKeeper {
			keepers++
		}
	}

	if captains != 1 {
		return fmt.Errorf("a playing eleven needs exactly one captain, got %d: %w", captains, ErrInvalidLineup)
	}
	if keepers != 1 {
		return fmt.Errorf("a playing eleven needs exactly one wicket-keeper, got %d: %w", keepers, ErrInvalidLineup)
	}
	return nil
}
