// auction/service/bid.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cricketops/cricket-services/auction/events"
	"github.com/cricketops/cricket-services/shared/models"
)

// BidResult is the accepted-bid acknowledgement returned to the caller.
type BidResult struct {
	AuctionID     string `json:"auctionId"`
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	CurrentBid    int64  `json:"currentBid"`
	LeadingTeamID string `json:"leadingTeamId"`
	TimeRemaining int64  `json:"timeRemaining"`
}

// PlaceBid validates and applies one bid against the live lot. The validation
// chain is fixed: amount sanity, auction existence, active status, live lot
// presence, team membership, squad-size headroom, budget cover, then the
// minimum-acceptable-amount check. An accepted bid restarts the countdown at
// the full bid window.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, teamID string, amount int64) (*BidResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("bid of %d by team %s: %w", amount, teamID, ErrInvalidBid)
	}

	unlock := s.lockKey(auctionID)
	defer unlock()

	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AuctionStatusActive {
		return nil, fmt.Errorf("auction %s is in status %s: %w", auctionID, a.Status, ErrAuctionNotActive)
	}
	if a.CurrentLot == nil {
		return nil, fmt.Errorf("auction %s: %w", auctionID, ErrNoLotInProgress)
	}

	team := a.TeamByID(teamID)
	if team == nil {
		return nil, fmt.Errorf("team %s in auction %s: %w", teamID, auctionID, ErrUnknownTeam)
	}
	if team.PlayersCount >= a.Config.MaxPlayersPerTeam {
		return nil, fmt.Errorf("team %s already holds %d players: %w", teamID, team.PlayersCount, ErrSquadFull)
	}
	if amount > team.RemainingBudget {
		return nil, fmt.Errorf("team %s has %d remaining, bid was %d: %w", teamID, team.RemainingBudget, amount, ErrInsufficientBudget)
	}

	minAcceptable := minAcceptableBid(a)
	if amount < minAcceptable {
		return nil, fmt.Errorf("minimum acceptable bid is %d, got %d: %w", minAcceptable, amount, ErrBidTooLow)
	}

	now := time.Now()
	secs := s.bidSeconds(a)
	a.CurrentLot.CurrentBid = amount
	a.CurrentLot.LeadingTeamID = teamID
	a.CurrentLot.TimeRemaining = secs
	a.UpdatedAt = &now

	if err := s.store.ReplaceAuction(ctx, a); err != nil {
		return nil, s.replaceErr(auctionID, err)
	}

	// The persisted bid is the point of no return; the countdown restart and
	// the side channels follow it.
	s.timers.ResetTimer(auctionID, secs)
	s.mirrorLot(auctionID, a.CurrentLot)
	s.publish(ctx, events.TypeBidPlaced, auctionID, map[string]any{
		"playerId": a.CurrentLot.Lot.PlayerID,
		"teamId":   teamID,
		"amount":   amount,
	})

	return &BidResult{
		AuctionID:     auctionID,
		PlayerID:      a.CurrentLot.Lot.PlayerID,
		PlayerName:    a.CurrentLot.Lot.Name,
		CurrentBid:    amount,
		LeadingTeamID: teamID,
		TimeRemaining: secs,
	}, nil
}

// minAcceptableBid is the current bid plus the configured increment. A fresh
// lot's current bid starts at the base price, so the opening bid has to clear
// base plus increment like every later one.
func minAcceptableBid(a *models.Auction) int64 {
	return a.CurrentLot.CurrentBid + a.Config.MinBidIncrement
}
