// auction/service/bid_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cricketops/cricket-services/shared/models"
)

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	for _, amount := range []int64{0, -5} {
		if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", amount); !errors.Is(err, ErrInvalidBid) {
			t.Fatalf("amount %d: expected ErrInvalidBid, got %v", amount, err)
		}
	}
}

func TestPlaceBidUnknownAuction(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))

	if _, err := svc.PlaceBid(context.Background(), "missing", "t1", 100); !errors.Is(err, ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound, got %v", err)
	}
}

func TestPlaceBidOnScheduledAuction(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 100); !errors.Is(err, ErrAuctionNotActive) {
		t.Fatalf("expected ErrAuctionNotActive, got %v", err)
	}
}

func TestPlaceBidUnknownTeam(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.PlaceBid(context.Background(), created.ID, "outsider", 100); !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
}

func TestPlaceBidOpeningBidMustClearIncrement(t *testing.T) {
	svc, _, live, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	// A fresh lot opens with the current bid at the base price (100), so the
	// opening bid must already clear base plus increment. Matching the base
	// price or stopping one unit short is too low.
	for _, amount := range []int64{100, 109} {
		if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", amount); !errors.Is(err, ErrBidTooLow) {
			t.Fatalf("amount %d: expected ErrBidTooLow, got %v", amount, err)
		}
	}

	result, err := svc.PlaceBid(context.Background(), created.ID, "t1", 110)
	if err != nil {
		t.Fatalf("opening bid at base+increment should be accepted: %v", err)
	}
	if result.CurrentBid != 110 || result.LeadingTeamID != "t1" {
		t.Fatalf("unexpected bid result: %+v", result)
	}
	if result.TimeRemaining != 30 {
		t.Fatalf("expected the countdown restarted at 30s, got %d", result.TimeRemaining)
	}

	status, ok := reg.GetTimerStatus(created.ID)
	if !ok || status.Remaining != 30 {
		t.Fatalf("expected countdown reset to 30s, got ok=%v status=%+v", ok, status)
	}

	// The live mirror follows the accepted bid.
	lot, err := live.GetLiveLot(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("live mirror missing: %v", err)
	}
	if lot.CurrentBid != 110 || lot.LeadingTeamID != "t1" {
		t.Fatalf("live mirror not refreshed: %+v", lot)
	}
}

func TestPlaceBidEnforcesMinimumIncrement(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 110); err != nil {
		t.Fatalf("opening bid failed: %v", err)
	}

	// Leading bid 110, increment 10: anything below 120 is too low,
	// including matching the leading bid.
	for _, amount := range []int64{110, 115, 119} {
		if _, err := svc.PlaceBid(context.Background(), created.ID, "t2", amount); !errors.Is(err, ErrBidTooLow) {
			t.Fatalf("amount %d: expected ErrBidTooLow, got %v", amount, err)
		}
	}

	result, err := svc.PlaceBid(context.Background(), created.ID, "t2", 120)
	if err != nil {
		t.Fatalf("bid at exactly leading+increment should be accepted: %v", err)
	}
	if result.LeadingTeamID != "t2" || result.CurrentBid != 120 {
		t.Fatalf("unexpected bid result: %+v", result)
	}
}

func TestPlaceBidInsufficientBudget(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 1001); !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("expected ErrInsufficientBudget, got %v", err)
	}
	// Bidding the entire remaining budget is allowed.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 1000); err != nil {
		t.Fatalf("bid of the full budget should be accepted: %v", err)
	}
}

func TestPlaceBidSquadFull(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	input := testInput()
	input.Config.MaxPlayersPerTeam = 1
	created := mustCreate(t, svc, input)
	mustStart(t, svc, created.ID)

	// t1 wins the first lot, filling its one-player squad.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 110); err != nil {
		t.Fatalf("opening bid failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 110); !errors.Is(err, ErrSquadFull) {
		t.Fatalf("expected ErrSquadFull, got %v", err)
	}
	// The other team still has room.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t2", 110); err != nil {
		t.Fatalf("bid by the other team should be accepted: %v", err)
	}
}

func TestPlaceBidAfterQueueExhausted(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}

	// Completed auction: status check fires before the lot check.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 100); !errors.Is(err, ErrAuctionNotActive) {
		t.Fatalf("expected ErrAuctionNotActive after completion, got %v", err)
	}
}

func TestBidBudgetInvariantAcrossLots(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 600); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}

	// t1 has 400 left; it cannot cover 500 on the second lot.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 500); !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("expected ErrInsufficientBudget on the second lot, got %v", err)
	}
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 400); err != nil {
		t.Fatalf("bid within the remaining budget should be accepted: %v", err)
	}

	final, err := svc.NextLot(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("final NextLot failed: %v", err)
	}
	buyer := final.TeamByID("t1")
	if buyer.RemainingBudget != 0 || buyer.SpentBudget != 1000 || buyer.PlayersCount != 2 {
		t.Fatalf("buyer not fully settled: %+v", buyer)
	}
	if final.Status != models.AuctionStatusCompleted {
		t.Fatalf("expected completed auction, got %s", final.Status)
	}
}
