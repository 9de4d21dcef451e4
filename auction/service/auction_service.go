// auction/service/auction_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/auction/events"
	"github.com/cricketops/cricket-services/auction/timer"
	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/models"
)

// AuctionService is the state-machine and business-rule engine for live player
// auctions. Every state-changing operation runs inside a per-auction-key
// critical section, and every document replace is additionally guarded by the
// version compare-and-swap in the store, so a bid and a timer-expiry
// advancement can never both finalize the same lot.
//
// The service owns its timer registry: starting, advancing, pausing, resuming
// and deleting an auction arm or disarm the countdown in the same call, so
// callers cannot leave the Manager and the Timer out of lockstep.
type AuctionService struct {
	store             AuctionStore
	pool              PlayerPool
	live              LiveLotStore
	timers            *timer.Registry
	publisher         events.Publisher
	defaultBidSeconds int64

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

// NewAuctionService wires the service. live may be nil (no Redis mirror);
// publisher may be nil (no event stream). The caller must bind the service to
// the registry afterwards: registry.BindAdvancer(svc).
func NewAuctionService(store AuctionStore, pool PlayerPool, live LiveLotStore, timers *timer.Registry, publisher events.Publisher, defaultBidSeconds int64) *AuctionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AuctionService{
		store:             store,
		pool:              pool,
		live:              live,
		timers:            timers,
		publisher:         publisher,
		defaultBidSeconds: defaultBidSeconds,
		keys:              make(map[string]*sync.Mutex),
	}
}

// lockKey serializes all state-changing operations for one auction key.
// Operations on different auctions proceed independently.
func (s *AuctionService) lockKey(auctionID string) func() {
	s.keysMu.Lock()
	m, ok := s.keys[auctionID]
	if !ok {
		m = &sync.Mutex{}
		s.keys[auctionID] = m
	}
	s.keysMu.Unlock()

	m.Lock()
	return m.Unlock
}

// TeamSeed identifies one participating franchise at creation time.
type TeamSeed struct {
	TeamID string
	Name   string
}

// CreateAuctionInput is the service-level creation request.
type CreateAuctionInput struct {
	Name        string
	Config      models.AuctionConfig
	Teams       []TeamSeed
	ScheduledAt *time.Time
}

// CreateAuction creates a scheduled auction with a snapshot of the
// participating teams and their full budgets. The lot queue is built later, at
// start time.
func (s *AuctionService) CreateAuction(ctx context.Context, input CreateAuctionInput) (*models.Auction, error) {
	cfg := input.Config
	if cfg.BidSeconds <= 0 {
		cfg.BidSeconds = s.defaultBidSeconds
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(input.Teams) < 2 {
		return nil, fmt.Errorf("an auction needs at least two participating teams: %w", ErrInvalidConfig)
	}

	// Every seed must be a registered franchise. A missing seed name is
	// filled from the tournament service's record.
	for i := range input.Teams {
		team, err := s.pool.GetTeam(ctx, input.Teams[i].TeamID)
		if err != nil {
			if errors.Is(err, api.ErrNotFound) {
				return nil, fmt.Errorf("team %s is not registered with the tournament service: %w", input.Teams[i].TeamID, ErrUnknownTeam)
			}
			return nil, fmt.Errorf("failed to verify team %s: %w", input.Teams[i].TeamID, err)
		}
		if input.Teams[i].Name == "" {
			input.Teams[i].Name = team.Name
		}
	}

	number, err := s.store.NextAuctionNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate auction number: %w", err)
	}

	now := time.Now()
	teams := make([]models.AuctionTeam, 0, len(input.Teams))
	for _, seed := range input.Teams {
		teams = append(teams, models.AuctionTeam{
			TeamID:          seed.TeamID,
			Name:            seed.Name,
			TotalBudget:     cfg.BudgetPerTeam,
			RemainingBudget: cfg.BudgetPerTeam,
			SpentBudget:     0,
			PlayersCount:    0,
			Players:         []models.WonLot{},
		})
	}

	auction := &models.Auction{
		ID:              uuid.New().String(),
		Number:          number,
		Name:            input.Name,
		Status:          models.AuctionStatusScheduled,
		Config:          cfg,
		Teams:           teams,
		LotQueue:        []models.LotEntry{},
		CurrentLotIndex: -1,
		SoldLots:        []models.SoldLot{},
		UnsoldLots:      []models.UnsoldLot{},
		ScheduledAt:     input.ScheduledAt,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}

	if err := s.store.CreateAuction(ctx, auction); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}
	return auction, nil
}

func validateConfig(cfg models.AuctionConfig) error {
	switch {
	case cfg.BudgetPerTeam <= 0:
		return fmt.Errorf("budget per team must be positive: %w", ErrInvalidConfig)
	case cfg.BasePrice <= 0:
		return fmt.Errorf("base price must be positive: %w", ErrInvalidConfig)
	case cfg.MinBidIncrement <= 0:
		return fmt.Errorf("minimum bid increment must be positive: %w", ErrInvalidConfig)
	case cfg.MaxPlayersPerTeam <= 0:
		return fmt.Errorf("maximum players per team must be positive: %w", ErrInvalidConfig)
	case cfg.MinPlayersPerTeam < 0 || cfg.MinPlayersPerTeam > cfg.MaxPlayersPerTeam:
		return fmt.Errorf("minimum players per team must be between 0 and the maximum: %w", ErrInvalidConfig)
	}
	return nil
}

// GetAuction retrieves one auction document. Pure read.
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	return s.getAuction(ctx, auctionID)
}

// ListAuctions lists all auctions. Pure read.
func (s *AuctionService) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	auctions, err := s.store.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	return auctions, nil
}

// DeleteAuction removes the auction document and stops its timer in the same
// operation.
func (s *AuctionService) DeleteAuction(ctx context.Context, auctionID string) error {
	unlock := s.lockKey(auctionID)
	defer unlock()

	s.timers.StopTimer(auctionID)
	if err := s.store.DeleteAuction(ctx, auctionID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("auction %s: %w", auctionID, ErrAuctionNotFound)
		}
		return fmt.Errorf("failed to delete auction %s: %w", auctionID, err)
	}
	return nil
}

// StartAuction freezes the lot queue from the eligible player pool in a
// randomized order, activates the first lot and arms the countdown.
func (s *AuctionService) StartAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	unlock := s.lockKey(auctionID)
	defer unlock()

	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AuctionStatusScheduled {
		return nil, fmt.Errorf("cannot start auction %s in status %s: %w", auctionID, a.Status, ErrInvalidState)
	}

	pool, err := s.pool.ListAuctionPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query auction pool for auction %s: %w", auctionID, err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("auction %s: %w", auctionID, ErrNoEligiblePlayers)
	}

	queue := make([]models.LotEntry, 0, len(pool))
	for _, p := range pool {
		queue = append(queue, models.LotEntry{
			PlayerID:  p.ID,
			Name:      p.Name,
			Role:      p.Role,
			BasePrice: a.Config.BasePrice,
		})
	}
	// Shuffled once here; the order is fixed for the life of the auction.
	rand.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	now := time.Now()
	secs := s.bidSeconds(a)
	a.Status = models.AuctionStatusActive
	a.LotQueue = queue
	a.CurrentLotIndex = 0
	a.CurrentLot = &models.CurrentLot{
		Lot:           queue[0],
		CurrentBid:    queue[0].BasePrice,
		TimeRemaining: secs,
		StartedAt:     &now,
	}
	a.StartedAt = &now
	a.UpdatedAt = &now

	if err := s.store.ReplaceAuction(ctx, a); err != nil {
		return nil, s.replaceErr(auctionID, err)
	}

	s.timers.StartTimer(auctionID, secs)
	s.mirrorLot(auctionID, a.CurrentLot)
	s.publish(ctx, events.TypeAuctionStarted, auctionID, map[string]any{
		"totalLots": len(queue),
		"firstLot":  queue[0].Name,
	})
	log.Printf("INFO: Auction %s started with %d lots.", auctionID, len(queue))
	return a, nil
}

// NextLot finalizes the current lot (sold or unsold) and activates the next
// one, or completes the auction when the queue is exhausted. Explicit caller
// entry point; timer expiry goes through AdvanceExpired.
func (s *AuctionService) NextLot(ctx context.Context, auctionID string) (*models.Auction, error) {
	return s.advance(ctx, auctionID, false)
}

// AdvanceExpired is the timer registry's expiry callback. It is tolerant of
// races with pause, delete and explicit advancement: finding the auction in a
// non-advanceable state is not an error for an expired countdown.
func (s *AuctionService) AdvanceExpired(ctx context.Context, auctionID string) error {
	_, err := s.advance(ctx, auctionID, true)
	return err
}

func (s *AuctionService) advance(ctx context.Context, auctionID string, fromTimer bool) (*models.Auction, error) {
	unlock := s.lockKey(auctionID)
	defer unlock()

	// An expiry unregisters its countdown before calling in here. Finding a
	// running countdown for the key means a bid restarted the clock while
	// this expiry was waiting on the lock: the lot is contested again and
	// must not be finalized.
	if fromTimer {
		if st, ok := s.timers.GetTimerStatus(auctionID); ok && st.Running {
			log.Printf("INFO: Stale expiry for auction %s; a countdown with %ds remaining is running.", auctionID, st.Remaining)
			return nil, nil
		}
	}

	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		if fromTimer && errors.Is(err, ErrAuctionNotFound) {
			log.Printf("WARN: Timer expired for deleted auction %s; nothing to advance.", auctionID)
			return nil, nil
		}
		return nil, err
	}
	if a.Status != models.AuctionStatusActive {
		if fromTimer {
			log.Printf("INFO: Timer expired for auction %s in status %s; nothing to advance.", auctionID, a.Status)
			return nil, nil
		}
		return nil, fmt.Errorf("cannot advance auction %s in status %s: %w", auctionID, a.Status, ErrInvalidState)
	}
	if a.CurrentLot == nil {
		if fromTimer {
			return nil, nil
		}
		return nil, fmt.Errorf("auction %s: %w", auctionID, ErrNoLotInProgress)
	}

	now := time.Now()
	sold, unsold := finalizeCurrentLot(a, now)
	a.CurrentLotIndex++
	a.UpdatedAt = &now

	if a.CurrentLotIndex < len(a.LotQueue) {
		next := a.LotQueue[a.CurrentLotIndex]
		secs := s.bidSeconds(a)
		a.CurrentLot = &models.CurrentLot{
			Lot:           next,
			CurrentBid:    next.BasePrice,
			TimeRemaining: secs,
			StartedAt:     &now,
		}

		if err := s.store.ReplaceAuction(ctx, a); err != nil {
			return nil, s.replaceErr(auctionID, err)
		}

		s.timers.StartTimer(auctionID, secs)
		s.mirrorLot(auctionID, a.CurrentLot)
		s.publishOutcome(ctx, auctionID, sold, unsold)
		s.publish(ctx, events.TypeLotOpened, auctionID, map[string]any{
			"playerId":  next.PlayerID,
			"name":      next.Name,
			"basePrice": next.BasePrice,
		})
		return a, nil
	}

	// Queue exhausted: complete in the same read-modify-write cycle.
	a.Summary = buildSummary(a)
	a.Status = models.AuctionStatusCompleted
	a.CompletedAt = &now
	a.CurrentLot = nil

	if err := s.store.ReplaceAuction(ctx, a); err != nil {
		return nil, s.replaceErr(auctionID, err)
	}

	s.timers.StopTimer(auctionID)
	s.publishOutcome(ctx, auctionID, sold, unsold)
	s.publish(ctx, events.TypeAuctionCompleted, auctionID, map[string]any{
		"soldPlayers":   a.Summary.SoldPlayers,
		"unsoldPlayers": a.Summary.UnsoldPlayers,
		"totalValue":    a.Summary.TotalValue,
	})
	log.Printf("INFO: Auction %s completed: %d sold, %d unsold, total value %d.",
		auctionID, a.Summary.SoldPlayers, a.Summary.UnsoldPlayers, a.Summary.TotalValue)
	return a, nil
}

// finalizeCurrentLot converts the live lot into a sold or unsold record,
// mutating the buyer team's budgets in the same document when there is one.
func finalizeCurrentLot(a *models.Auction, now time.Time) (*models.SoldLot, *models.UnsoldLot) {
	cl := a.CurrentLot
	if cl.LeadingTeamID == "" {
		unsold := models.UnsoldLot{Lot: cl.Lot, UnsoldAt: now}
		a.UnsoldLots = append(a.UnsoldLots, unsold)
		return nil, &unsold
	}

	team := a.TeamByID(cl.LeadingTeamID)
	sold := models.SoldLot{
		Lot:        cl.Lot,
		FinalPrice: cl.CurrentBid,
		TeamID:     cl.LeadingTeamID,
		SoldAt:     now,
	}
	if team != nil {
		sold.TeamName = team.Name
		team.RemainingBudget -= cl.CurrentBid
		team.SpentBudget += cl.CurrentBid
		team.PlayersCount++
		team.Players = append(team.Players, models.WonLot{
			PlayerID: cl.Lot.PlayerID,
			Name:     cl.Lot.Name,
			Price:    cl.CurrentBid,
		})
	}
	a.SoldLots = append(a.SoldLots, sold)
	return &sold, nil
}

// publishOutcome emits the sold/unsold event for a just-finalized lot and, for
// a sale, records the assignment on the player document asynchronously.
func (s *AuctionService) publishOutcome(ctx context.Context, auctionID string, sold *models.SoldLot, unsold *models.UnsoldLot) {
	switch {
	case sold != nil:
		s.publish(ctx, events.TypeLotSold, auctionID, map[string]any{
			"playerId":   sold.Lot.PlayerID,
			"name":       sold.Lot.Name,
			"finalPrice": sold.FinalPrice,
			"teamId":     sold.TeamID,
		})
		go s.assignSoldPlayer(auctionID, sold.Lot.PlayerID, sold.TeamID, sold.FinalPrice)
	case unsold != nil:
		s.publish(ctx, events.TypeLotUnsold, auctionID, map[string]any{
			"playerId": unsold.Lot.PlayerID,
			"name":     unsold.Lot.Name,
		})
	}
}

func (s *AuctionService) assignSoldPlayer(auctionID, playerID, teamID string, price int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.pool.AssignPlayerToTeam(ctx, playerID, teamID, price); err != nil {
		log.Printf("ERROR: Failed to record assignment of player %s to team %s after sale in auction %s: %v",
			playerID, teamID, auctionID, err)
	}
}

// PauseAuction transitions active -> paused and pauses the countdown in the
// same operation, retaining the remaining time for resume.
func (s *AuctionService) PauseAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	unlock := s.lockKey(auctionID)
	defer unlock()

	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AuctionStatusActive {
		return nil, fmt.Errorf("cannot pause auction %s in status %s: %w", auctionID, a.Status, ErrInvalidState)
	}

	now := time.Now()
	a.Status = models.AuctionStatusPaused
	a.UpdatedAt = &now
	if err := s.store.ReplaceAuction(ctx, a); err != nil {
		return nil, s.replaceErr(auctionID, err)
	}

	s.timers.PauseTimer(auctionID)
	s.publish(ctx, events.TypeAuctionPaused, auctionID, nil)
	return a, nil
}

// ResumeAuction transitions paused -> active and resumes the countdown from
// the retained remaining time. When no local countdown exists (this instance
// restarted while the auction was paused), a fresh one is armed from the
// persisted time remaining.
func (s *AuctionService) ResumeAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	unlock := s.lockKey(auctionID)
	defer unlock()

	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AuctionStatusPaused {
		return nil, fmt.Errorf("cannot resume auction %s in status %s: %w", auctionID, a.Status, ErrInvalidState)
	}

	now := time.Now()
	a.Status = models.AuctionStatusActive
	a.UpdatedAt = &now
	if err := s.store.ReplaceAuction(ctx, a); err != nil {
		return nil, s.replaceErr(auctionID, err)
	}

	if !s.timers.ResumeTimer(auctionID) && a.CurrentLot != nil {
		remaining := a.CurrentLot.TimeRemaining
		if remaining <= 0 {
			remaining = 1 // let the normal expiry path finalize it
		}
		s.timers.StartTimer(auctionID, remaining)
	}
	s.publish(ctx, events.TypeAuctionResumed, auctionID, nil)
	return a, nil
}

// CompleteAuction returns the summary of a completed auction. Idempotent:
// calling it on an already-completed auction returns the stored summary
// unchanged, never recomputing.
func (s *AuctionService) CompleteAuction(ctx context.Context, auctionID string) (*models.AuctionSummary, error) {
	unlock := s.lockKey(auctionID)
	defer unlock()

	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status == models.AuctionStatusCompleted {
		return a.Summary, nil
	}
	return nil, fmt.Errorf("auction %s is in status %s: %w", auctionID, a.Status, ErrNotCompleted)
}

// StatusView merges the persisted auction state with the in-process timer
// snapshot for display.
type StatusView struct {
	AuctionID       string                 `json:"auctionId"`
	Number          int64                  `json:"number"`
	Name            string                 `json:"name"`
	Status          models.AuctionStatus   `json:"status"`
	CurrentLotIndex int                    `json:"currentLotIndex"`
	TotalLots       int                    `json:"totalLots"`
	CurrentLot      *models.CurrentLot     `json:"currentLot,omitempty"`
	Teams           []models.AuctionTeam   `json:"teams"`
	Summary         *models.AuctionSummary `json:"summary,omitempty"`
	Timer           *timer.Status          `json:"timer,omitempty"`
}

// GetStatus is a pure read: it never mutates the auction document.
func (s *AuctionService) GetStatus(ctx context.Context, auctionID string) (*StatusView, error) {
	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		AuctionID:       a.ID,
		Number:          a.Number,
		Name:            a.Name,
		Status:          a.Status,
		CurrentLotIndex: a.CurrentLotIndex,
		TotalLots:       len(a.LotQueue),
		CurrentLot:      a.CurrentLot,
		Teams:           a.Teams,
		Summary:         a.Summary,
	}

	// Prefer the Redis mirror for the live lot when available; it is fresher
	// than the persisted document between writes.
	if a.Status == models.AuctionStatusActive && s.live != nil {
		mirrorCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if lot, mirrorErr := s.live.GetLiveLot(mirrorCtx, auctionID); mirrorErr == nil && lot != nil {
			view.CurrentLot = lot
		}
		cancel()
	}

	if st, ok := s.timers.GetTimerStatus(auctionID); ok {
		view.Timer = &st
	}
	return view, nil
}

// StartDueAuctions starts every scheduled auction whose scheduled time has
// arrived. Called by the cron scheduler; failures are logged per auction and
// do not stop the sweep.
func (s *AuctionService) StartDueAuctions(ctx context.Context) (int, error) {
	due, err := s.store.ListDueScheduled(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list due scheduled auctions: %w", err)
	}

	started := 0
	for _, a := range due {
		if _, err := s.StartAuction(ctx, a.ID); err != nil {
			log.Printf("ERROR: Failed to auto-start auction %s (#%d): %v", a.ID, a.Number, err)
			continue
		}
		log.Printf("INFO: Auto-started scheduled auction %s (#%d).", a.ID, a.Number)
		started++
	}
	return started, nil
}

func (s *AuctionService) getAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("auction %s: %w", auctionID, ErrAuctionNotFound)
		}
		return nil, fmt.Errorf("failed to get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// replaceErr maps a failed compare-and-swap. Under the per-key lock a version
// mismatch can only come from another process instance.
func (s *AuctionService) replaceErr(auctionID string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("auction %s: %w", auctionID, ErrStoreConflict)
	}
	return fmt.Errorf("failed to persist auction %s: %w", auctionID, err)
}

func (s *AuctionService) bidSeconds(a *models.Auction) int64 {
	if a.Config.BidSeconds > 0 {
		return a.Config.BidSeconds
	}
	return s.defaultBidSeconds
}

// mirrorLot refreshes the Redis live-lot snapshot. Best effort.
func (s *AuctionService) mirrorLot(auctionID string, lot *models.CurrentLot) {
	if s.live == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.live.SetLiveLot(ctx, auctionID, lot); err != nil {
		log.Printf("WARN: Failed to refresh live lot mirror for auction %s: %v", auctionID, err)
	}
}

func (s *AuctionService) publish(ctx context.Context, eventType, auctionID string, payload map[string]any) {
	s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		AuctionID:  auctionID,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
}
