// auction/service/auction_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cricketops/cricket-services/auction/timer"
	"github.com/cricketops/cricket-services/shared/models"
)

func testPlayers() []models.Player {
	return []models.Player{
		{ID: "p1", Name: "Rohit Sharma", Role: models.RoleBatsman, InAuctionPool: true},
		{ID: "p2", Name: "Jasprit Bumrah", Role: models.RoleBowler, InAuctionPool: true},
	}
}

func testConfig() models.AuctionConfig {
	return models.AuctionConfig{
		BudgetPerTeam:     1000,
		MaxPlayersPerTeam: 2,
		BasePrice:         100,
		MinBidIncrement:   10,
		BidSeconds:        30,
	}
}

func testInput() CreateAuctionInput {
	return CreateAuctionInput{
		Name:   "Season Auction",
		Config: testConfig(),
		Teams: []TeamSeed{
			{TeamID: "t1", Name: "Mumbai"},
			{TeamID: "t2", Name: "Chennai"},
		},
	}
}

// newTestService wires a service over the in-memory fakes. The registry ticks
// at the given cadence; tests that only exercise the state machine pass a
// cadence long enough that no tick ever fires.
func newTestService(t *testing.T, tick time.Duration, pool *fakePool) (*AuctionService, *memStore, *fakeLive, *timer.Registry) {
	t.Helper()
	store := newMemStore()
	live := newFakeLive()
	reg := timer.NewRegistry(tick, store)
	svc := NewAuctionService(store, pool, live, reg, nil, 30)
	reg.BindAdvancer(svc)
	t.Cleanup(reg.StopAll)
	return svc, store, live, reg
}

func mustCreate(t *testing.T, svc *AuctionService, input CreateAuctionInput) *models.Auction {
	t.Helper()
	a, err := svc.CreateAuction(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateAuction failed: %v", err)
	}
	return a
}

func mustStart(t *testing.T, svc *AuctionService, auctionID string) *models.Auction {
	t.Helper()
	a, err := svc.StartAuction(context.Background(), auctionID)
	if err != nil {
		t.Fatalf("StartAuction failed: %v", err)
	}
	return a
}

func TestCreateAuction(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))

	first := mustCreate(t, svc, testInput())
	if first.Status != models.AuctionStatusScheduled {
		t.Fatalf("expected scheduled status, got %s", first.Status)
	}
	if first.Number != 1 {
		t.Fatalf("expected auction number 1, got %d", first.Number)
	}
	if len(first.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(first.Teams))
	}
	for _, team := range first.Teams {
		if team.RemainingBudget != 1000 || team.SpentBudget != 0 {
			t.Fatalf("team %s budgets not initialized: %+v", team.TeamID, team)
		}
	}

	second := mustCreate(t, svc, testInput())
	if second.Number != 2 {
		t.Fatalf("expected auction number 2, got %d", second.Number)
	}
}

func TestCreateAuctionVerifiesTeamsAgainstRegistry(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))

	input := testInput()
	input.Teams = append(input.Teams, TeamSeed{TeamID: "ghost", Name: "Nowhere"})
	if _, err := svc.CreateAuction(context.Background(), input); !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam for an unregistered franchise, got %v", err)
	}

	// A seed without a name picks it up from the registered team.
	input = testInput()
	input.Teams[0].Name = ""
	created := mustCreate(t, svc, input)
	if created.Teams[0].Name != "Mumbai" {
		t.Fatalf("expected the registered team name, got %q", created.Teams[0].Name)
	}
}

func TestCreateAuctionRejectsBadConfig(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))

	input := testInput()
	input.Config.MinBidIncrement = 0
	if _, err := svc.CreateAuction(context.Background(), input); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	input = testInput()
	input.Teams = input.Teams[:1]
	if _, err := svc.CreateAuction(context.Background(), input); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for single team, got %v", err)
	}
}

func TestStartAuction(t *testing.T) {
	svc, _, _, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())

	started := mustStart(t, svc, created.ID)
	if started.Status != models.AuctionStatusActive {
		t.Fatalf("expected active status, got %s", started.Status)
	}
	if len(started.LotQueue) != 2 {
		t.Fatalf("expected 2 lots in queue, got %d", len(started.LotQueue))
	}
	if started.CurrentLotIndex != 0 {
		t.Fatalf("expected current lot index 0, got %d", started.CurrentLotIndex)
	}
	if started.CurrentLot == nil {
		t.Fatal("expected a live lot after start")
	}
	if started.CurrentLot.CurrentBid != 100 {
		t.Fatalf("expected opening bid at base price 100, got %d", started.CurrentLot.CurrentBid)
	}
	if started.CurrentLot.LeadingTeamID != "" {
		t.Fatalf("expected no leading team on a fresh lot, got %q", started.CurrentLot.LeadingTeamID)
	}

	status, ok := reg.GetTimerStatus(created.ID)
	if !ok {
		t.Fatal("expected a countdown after start")
	}
	if status.Remaining != 30 {
		t.Fatalf("expected 30s remaining, got %d", status.Remaining)
	}

	// A second start on an already-active auction must be refused.
	if _, err := svc.StartAuction(context.Background(), created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double start, got %v", err)
	}
}

func TestStartAuctionEmptyPool(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool())
	created := mustCreate(t, svc, testInput())

	if _, err := svc.StartAuction(context.Background(), created.ID); !errors.Is(err, ErrNoEligiblePlayers) {
		t.Fatalf("expected ErrNoEligiblePlayers, got %v", err)
	}
}

func TestNextLotWithoutBidGoesUnsold(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	started := mustStart(t, svc, created.ID)
	firstPlayer := started.CurrentLot.Lot.PlayerID

	advanced, err := svc.NextLot(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}
	if len(advanced.UnsoldLots) != 1 {
		t.Fatalf("expected 1 unsold lot, got %d", len(advanced.UnsoldLots))
	}
	if advanced.UnsoldLots[0].Lot.PlayerID != firstPlayer {
		t.Fatalf("unsold lot is %s, expected %s", advanced.UnsoldLots[0].Lot.PlayerID, firstPlayer)
	}
	if advanced.CurrentLotIndex != 1 {
		t.Fatalf("expected current lot index 1, got %d", advanced.CurrentLotIndex)
	}
	if advanced.CurrentLot == nil || advanced.CurrentLot.Lot.PlayerID == firstPlayer {
		t.Fatal("expected the next lot to be live")
	}
}

func TestNextLotWithBidSellsToLeader(t *testing.T) {
	pool := newFakePool(testPlayers()...)
	svc, _, _, _ := newTestService(t, time.Hour, pool)
	created := mustCreate(t, svc, testInput())
	started := mustStart(t, svc, created.ID)
	soldPlayer := started.CurrentLot.Lot.PlayerID

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 150); err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}

	advanced, err := svc.NextLot(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}
	if len(advanced.SoldLots) != 1 {
		t.Fatalf("expected 1 sold lot, got %d", len(advanced.SoldLots))
	}
	sold := advanced.SoldLots[0]
	if sold.Lot.PlayerID != soldPlayer || sold.TeamID != "t1" || sold.FinalPrice != 150 {
		t.Fatalf("unexpected sold lot: %+v", sold)
	}

	buyer := advanced.TeamByID("t1")
	if buyer.RemainingBudget != 850 || buyer.SpentBudget != 150 || buyer.PlayersCount != 1 {
		t.Fatalf("buyer budgets not settled: %+v", buyer)
	}
	if buyer.RemainingBudget+buyer.SpentBudget != buyer.TotalBudget {
		t.Fatalf("budget invariant broken: %+v", buyer)
	}

	// The sale is recorded on the player document asynchronously.
	select {
	case <-pool.assigned:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the post-sale assignment")
	}
	pool.mu.Lock()
	assignedTeam := pool.assignments[soldPlayer]
	pool.mu.Unlock()
	if assignedTeam != "t1" {
		t.Fatalf("player %s assigned to %q, expected t1", soldPlayer, assignedTeam)
	}
}

func TestQueueExhaustionCompletesAuction(t *testing.T) {
	svc, _, _, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 200); err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("first NextLot failed: %v", err)
	}
	final, err := svc.NextLot(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second NextLot failed: %v", err)
	}

	if final.Status != models.AuctionStatusCompleted {
		t.Fatalf("expected completed status, got %s", final.Status)
	}
	if final.CurrentLot != nil {
		t.Fatal("expected no live lot after completion")
	}
	if final.Summary == nil {
		t.Fatal("expected a summary after completion")
	}
	summary := final.Summary
	if summary.TotalPlayers != 2 || summary.SoldPlayers != 1 || summary.UnsoldPlayers != 1 {
		t.Fatalf("unexpected summary counts: %+v", summary)
	}
	if summary.TotalValue != 200 || summary.HighestPrice != 200 || summary.LowestPrice != 200 {
		t.Fatalf("unexpected summary prices: %+v", summary)
	}
	if summary.MostExpensive == nil || summary.MostExpensive.FinalPrice != 200 {
		t.Fatalf("unexpected most expensive lot: %+v", summary.MostExpensive)
	}
	if _, ok := reg.GetTimerStatus(created.ID); ok {
		t.Fatal("expected the countdown to be gone after completion")
	}

	// Advancing a completed auction is refused.
	if _, err := svc.NextLot(context.Background(), created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCompleteAuctionIsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())

	if _, err := svc.CompleteAuction(context.Background(), created.ID); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted before the queue is exhausted, got %v", err)
	}

	mustStart(t, svc, created.ID)
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}

	first, err := svc.CompleteAuction(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("CompleteAuction failed: %v", err)
	}
	second, err := svc.CompleteAuction(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("repeated CompleteAuction failed: %v", err)
	}
	if first.TotalPlayers != second.TotalPlayers || first.TotalValue != second.TotalValue {
		t.Fatalf("summary changed between calls: %+v vs %+v", first, second)
	}
}

func TestPauseAndResume(t *testing.T) {
	svc, _, _, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	paused, err := svc.PauseAuction(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("PauseAuction failed: %v", err)
	}
	if paused.Status != models.AuctionStatusPaused {
		t.Fatalf("expected paused status, got %s", paused.Status)
	}
	status, ok := reg.GetTimerStatus(created.ID)
	if !ok || status.Running {
		t.Fatalf("expected a retained, stopped countdown, got ok=%v status=%+v", ok, status)
	}

	// No bids while paused.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 150); !errors.Is(err, ErrAuctionNotActive) {
		t.Fatalf("expected ErrAuctionNotActive while paused, got %v", err)
	}
	// Pausing twice is refused.
	if _, err := svc.PauseAuction(context.Background(), created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double pause, got %v", err)
	}

	resumed, err := svc.ResumeAuction(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ResumeAuction failed: %v", err)
	}
	if resumed.Status != models.AuctionStatusActive {
		t.Fatalf("expected active status after resume, got %s", resumed.Status)
	}
	status, ok = reg.GetTimerStatus(created.ID)
	if !ok || !status.Running {
		t.Fatalf("expected a running countdown after resume, got ok=%v status=%+v", ok, status)
	}
	if status.Remaining != 30 {
		t.Fatalf("expected the retained 30s remaining, got %d", status.Remaining)
	}
}

func TestDeleteAuctionStopsCountdown(t *testing.T) {
	svc, _, _, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if err := svc.DeleteAuction(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteAuction failed: %v", err)
	}
	if _, ok := reg.GetTimerStatus(created.ID); ok {
		t.Fatal("expected the countdown to be gone after delete")
	}
	if _, err := svc.GetAuction(context.Background(), created.ID); !errors.Is(err, ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound after delete, got %v", err)
	}
	if err := svc.DeleteAuction(context.Background(), created.ID); !errors.Is(err, ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound on double delete, got %v", err)
	}
}

func TestAdvanceExpiredToleratesStaleState(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)
	if _, err := svc.PauseAuction(context.Background(), created.ID); err != nil {
		t.Fatalf("PauseAuction failed: %v", err)
	}

	// An expiry racing a pause finds the auction paused; not an error.
	if err := svc.AdvanceExpired(context.Background(), created.ID); err != nil {
		t.Fatalf("expected nil for expiry on a paused auction, got %v", err)
	}
	// Same for an auction that no longer exists.
	if err := svc.AdvanceExpired(context.Background(), "gone"); err != nil {
		t.Fatalf("expected nil for expiry on a missing auction, got %v", err)
	}
}

func TestAdvanceExpiredIgnoredWhenCountdownRunning(t *testing.T) {
	svc, _, _, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	// A bid can land between an expiry reaching zero and the advancement
	// acquiring the key lock. The bid's countdown restart marks that expiry
	// stale; it must not finalize the now-contested lot.
	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 110); err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}
	if err := svc.AdvanceExpired(context.Background(), created.ID); err != nil {
		t.Fatalf("stale expiry should be a no-op, got %v", err)
	}

	a, err := svc.GetAuction(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetAuction failed: %v", err)
	}
	if a.CurrentLotIndex != 0 || a.CurrentLot == nil {
		t.Fatalf("stale expiry advanced the auction: index=%d lot=%+v", a.CurrentLotIndex, a.CurrentLot)
	}
	if len(a.SoldLots) != 0 || len(a.UnsoldLots) != 0 {
		t.Fatalf("stale expiry finalized the lot: sold=%d unsold=%d", len(a.SoldLots), len(a.UnsoldLots))
	}
	if a.CurrentLot.LeadingTeamID != "t1" || a.CurrentLot.CurrentBid != 110 {
		t.Fatalf("contested lot state lost: %+v", a.CurrentLot)
	}
	status, ok := reg.GetTimerStatus(created.ID)
	if !ok || !status.Running {
		t.Fatalf("expected the restarted countdown to survive, got ok=%v status=%+v", ok, status)
	}
}

func TestResumeContinuesMidCountdown(t *testing.T) {
	svc, _, _, reg := newTestService(t, 10*time.Millisecond, newFakePool(testPlayers()...))
	input := testInput()
	input.Config.BidSeconds = 600
	created := mustCreate(t, svc, input)
	mustStart(t, svc, created.ID)

	// Let the countdown tick down below the full window before pausing.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if status, ok := reg.GetTimerStatus(created.ID); ok && status.Remaining < 600 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("countdown never ticked")
		}
		time.Sleep(2 * time.Millisecond)
	}

	if _, err := svc.PauseAuction(context.Background(), created.ID); err != nil {
		t.Fatalf("PauseAuction failed: %v", err)
	}
	status, ok := reg.GetTimerStatus(created.ID)
	if !ok || status.Running {
		t.Fatalf("expected a retained, stopped countdown, got ok=%v status=%+v", ok, status)
	}
	if status.Remaining <= 0 || status.Remaining >= 600 {
		t.Fatalf("expected a mid-count remaining, got %d", status.Remaining)
	}
	retained := status.Remaining

	if _, err := svc.ResumeAuction(context.Background(), created.ID); err != nil {
		t.Fatalf("ResumeAuction failed: %v", err)
	}
	view, err := svc.GetStatus(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if view.Timer == nil || !view.Timer.Running {
		t.Fatalf("expected a running countdown after resume, got %+v", view.Timer)
	}
	if view.Timer.Remaining > retained {
		t.Fatalf("resume restarted the countdown: remaining %d, retained was %d", view.Timer.Remaining, retained)
	}
	if view.Timer.Remaining <= 0 {
		t.Fatalf("countdown expired across pause/resume: %+v", view.Timer)
	}
}

func TestConcurrentAuctionsDoNotInterfere(t *testing.T) {
	svc, _, _, reg := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	first := mustCreate(t, svc, testInput())
	second := mustCreate(t, svc, testInput())
	mustStart(t, svc, first.ID)
	mustStart(t, svc, second.ID)

	if _, err := svc.PlaceBid(context.Background(), first.ID, "t1", 110); err != nil {
		t.Fatalf("PlaceBid on the first auction failed: %v", err)
	}

	// Run the second auction to completion while the first stays live.
	if _, err := svc.NextLot(context.Background(), second.ID); err != nil {
		t.Fatalf("NextLot on the second auction failed: %v", err)
	}
	final, err := svc.NextLot(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("NextLot on the second auction failed: %v", err)
	}
	if final.Status != models.AuctionStatusCompleted {
		t.Fatalf("expected the second auction completed, got %s", final.Status)
	}

	firstNow, err := svc.GetAuction(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("GetAuction failed: %v", err)
	}
	if firstNow.Status != models.AuctionStatusActive {
		t.Fatalf("first auction should still be active, is %s", firstNow.Status)
	}
	if firstNow.CurrentLotIndex != 0 || firstNow.CurrentLot == nil {
		t.Fatalf("first auction advanced by the second one: index=%d", firstNow.CurrentLotIndex)
	}
	if firstNow.CurrentLot.LeadingTeamID != "t1" || firstNow.CurrentLot.CurrentBid != 110 {
		t.Fatalf("first auction's contested lot lost its state: %+v", firstNow.CurrentLot)
	}
	// Each auction settles budgets against its own team snapshot.
	if team := final.TeamByID("t1"); team.RemainingBudget != 1000 || team.PlayersCount != 0 {
		t.Fatalf("bid on the first auction leaked into the second: %+v", team)
	}

	if status, ok := reg.GetTimerStatus(first.ID); !ok || !status.Running {
		t.Fatalf("first auction's countdown should still run, got ok=%v status=%+v", ok, status)
	}
	if _, ok := reg.GetTimerStatus(second.ID); ok {
		t.Fatal("completed auction's countdown should be gone")
	}
}

func TestStartDueAuctions(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	dueInput := testInput()
	dueInput.ScheduledAt = &past
	due := mustCreate(t, svc, dueInput)

	notDueInput := testInput()
	notDueInput.ScheduledAt = &future
	notDue := mustCreate(t, svc, notDueInput)

	started, err := svc.StartDueAuctions(context.Background())
	if err != nil {
		t.Fatalf("StartDueAuctions failed: %v", err)
	}
	if started != 1 {
		t.Fatalf("expected 1 auction started, got %d", started)
	}

	dueNow, _ := svc.GetAuction(context.Background(), due.ID)
	if dueNow.Status != models.AuctionStatusActive {
		t.Fatalf("due auction should be active, is %s", dueNow.Status)
	}
	notDueNow, _ := svc.GetAuction(context.Background(), notDue.ID)
	if notDueNow.Status != models.AuctionStatusScheduled {
		t.Fatalf("future auction should stay scheduled, is %s", notDueNow.Status)
	}
}

func TestGetStatusMergesTimerSnapshot(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	view, err := svc.GetStatus(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if view.Status != models.AuctionStatusActive {
		t.Fatalf("expected active status, got %s", view.Status)
	}
	if view.TotalLots != 2 {
		t.Fatalf("expected 2 total lots, got %d", view.TotalLots)
	}
	if view.Timer == nil || !view.Timer.Running {
		t.Fatalf("expected a running timer snapshot, got %+v", view.Timer)
	}
	if view.CurrentLot == nil {
		t.Fatal("expected a live lot in the view")
	}
}

func TestTimerExpiryFinalizesLot(t *testing.T) {
	pool := newFakePool(testPlayers()...)
	store := newMemStore()
	live := newFakeLive()
	reg := timer.NewRegistry(5*time.Millisecond, store)
	svc := NewAuctionService(store, pool, live, reg, nil, 30)
	reg.BindAdvancer(svc)
	t.Cleanup(reg.StopAll)

	input := testInput()
	input.Config.BidSeconds = 2 // two ticks per lot
	created := mustCreate(t, svc, input)
	mustStart(t, svc, created.ID)

	deadline := time.After(5 * time.Second)
	for {
		a, err := svc.GetAuction(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetAuction failed: %v", err)
		}
		if a.Status == models.AuctionStatusCompleted {
			if len(a.UnsoldLots) != 2 {
				t.Fatalf("expected both lots unsold, got %d", len(a.UnsoldLots))
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("auction never completed via timer expiry; status %s, index %d", a.Status, a.CurrentLotIndex)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
