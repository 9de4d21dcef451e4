// shared/service/tournamentclient.go
package service

import (
	"context"
	"fmt"

	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/models"
)

// TournamentServiceClient is an HTTP client for the tournament service. The
// auction service uses it to fetch the auction player pool and to assign sold
// players to their buying franchise.
type TournamentServiceClient struct {
	apiClient *api.Client
}

// NewTournamentClient creates a client for the tournament service at baseURL.
func NewTournamentClient(baseURL string) *TournamentServiceClient {
	return &TournamentServiceClient{
		apiClient: api.NewClient(baseURL, api.NewDefaultHTTPClient()),
	}
}

// AssignPlayerRequest mirrors the tournament service's assignment DTO.
type AssignPlayerRequest struct {
	TeamID    string `json:"teamId"`
	SoldPrice int64  `json:"soldPrice"`
}

// ListAuctionPool fetches the players currently eligible for auction: flagged
// for the pool and not yet assigned to a franchise.
func (c *TournamentServiceClient) ListAuctionPool(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := c.apiClient.Get(ctx, "/players/pool", &players); err != nil {
		return nil, fmt.Errorf("failed to list auction pool from Tournament Service: %w", err)
	}
	return players, nil
}

// AssignPlayerToTeam records a sold lot's outcome on the player document.
func (c *TournamentServiceClient) AssignPlayerToTeam(ctx context.Context, playerID, teamID string, soldPrice int64) error {
	req := AssignPlayerRequest{TeamID: teamID, SoldPrice: soldPrice}
	path := fmt.Sprintf("/players/%s/assignment", playerID)
	if err := c.apiClient.Put(ctx, path, req, nil); err != nil {
		return fmt.Errorf("failed to assign player %s to team %s: %w", playerID, teamID, err)
	}
	return nil
}

// GetTeam fetches one franchise team.
func (c *TournamentServiceClient) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team := &models.Team{}
	if err := c.apiClient.Get(ctx, fmt.Sprintf("/teams/%s", teamID), team); err != nil {
		return nil, fmt.Errorf("failed to get team %s from Tournament Service: %w", teamID, err)
	}
	return team, nil
}
