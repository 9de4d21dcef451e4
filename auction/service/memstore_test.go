// auction/service/memstore_test.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/models"
)

// memStore is an in-memory AuctionStore with the same version
// compare-and-swap semantics as the MongoDB implementation.
type memStore struct {
	mu       sync.Mutex
	auctions map[string]*models.Auction
	seq      int64

	tickUpdates map[string][]int64
}

func newMemStore() *memStore {
	return &memStore{
		auctions:    make(map[string]*models.Auction),
		tickUpdates: make(map[string][]int64),
	}
}

func cloneAuction(a *models.Auction) *models.Auction {
	c := *a
	c.Teams = make([]models.AuctionTeam, len(a.Teams))
	for i, t := range a.Teams {
		c.Teams[i] = t
		c.Teams[i].Players = append([]models.WonLot(nil), t.Players...)
	}
	c.LotQueue = append([]models.LotEntry(nil), a.LotQueue...)
	c.SoldLots = append([]models.SoldLot(nil), a.SoldLots...)
	c.UnsoldLots = append([]models.UnsoldLot(nil), a.UnsoldLots...)
	if a.CurrentLot != nil {
		cl := *a.CurrentLot
		c.CurrentLot = &cl
	}
	if a.Summary != nil {
		s := *a.Summary
		s.TeamSpends = append([]models.TeamSpend(nil), a.Summary.TeamSpends...)
		c.Summary = &s
	}
	return &c
}

func (m *memStore) CreateAuction(ctx context.Context, auction *models.Auction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.auctions[auction.ID]; ok {
		return fmt.Errorf("auction %s already exists", auction.ID)
	}
	m.auctions[auction.ID] = cloneAuction(auction)
	return nil
}

func (m *memStore) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.auctions[auctionID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneAuction(a), nil
}

func (m *memStore) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Auction, 0, len(m.auctions))
	for _, a := range m.auctions {
		out = append(out, *cloneAuction(a))
	}
	return out, nil
}

func (m *memStore) ListAuctionsByStatus(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Auction
	for _, a := range m.auctions {
		if a.Status == status {
			out = append(out, *cloneAuction(a))
		}
	}
	return out, nil
}

func (m *memStore) ListDueScheduled(ctx context.Context, now time.Time) ([]models.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Auction
	for _, a := range m.auctions {
		if a.Status == models.AuctionStatusScheduled && a.ScheduledAt != nil && !a.ScheduledAt.After(now) {
			out = append(out, *cloneAuction(a))
		}
	}
	return out, nil
}

func (m *memStore) ReplaceAuction(ctx context.Context, auction *models.Auction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.auctions[auction.ID]
	if !ok || current.Version != auction.Version {
		return fmt.Errorf("auction %s version %d no longer current: %w", auction.ID, auction.Version, mongo.ErrNoDocuments)
	}
	auction.Version++
	m.auctions[auction.ID] = cloneAuction(auction)
	return nil
}

func (m *memStore) DeleteAuction(ctx context.Context, auctionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.auctions[auctionID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.auctions, auctionID)
	return nil
}

func (m *memStore) UpdateLotTimeRemaining(ctx context.Context, auctionID string, remaining int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.auctions[auctionID]
	if !ok || a.CurrentLot == nil {
		return fmt.Errorf("auction %s has no live lot: %w", auctionID, mongo.ErrNoDocuments)
	}
	a.CurrentLot.TimeRemaining = remaining
	m.tickUpdates[auctionID] = append(m.tickUpdates[auctionID], remaining)
	return nil
}

func (m *memStore) NextAuctionNumber(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

// fakePool is an in-memory PlayerPool that records assignments. It knows the
// two franchises the test fixtures seed auctions with.
type fakePool struct {
	mu          sync.Mutex
	players     []models.Player
	teams       map[string]*models.Team
	assignments map[string]string
	assigned    chan struct{}
}

func newFakePool(players ...models.Player) *fakePool {
	return &fakePool{
		players: players,
		teams: map[string]*models.Team{
			"t1": {ID: "t1", Name: "Mumbai"},
			"t2": {ID: "t2", Name: "Chennai"},
		},
		assignments: make(map[string]string),
		assigned:    make(chan struct{}, 64),
	}
}

func (p *fakePool) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	team, ok := p.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: team %s", api.ErrNotFound, teamID)
	}
	t := *team
	return &t, nil
}

func (p *fakePool) ListAuctionPool(ctx context.Context) ([]models.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Player(nil), p.players...), nil
}

func (p *fakePool) AssignPlayerToTeam(ctx context.Context, playerID, teamID string, soldPrice int64) error {
	p.mu.Lock()
	p.assignments[playerID] = teamID
	p.mu.Unlock()
	p.assigned <- struct{}{}
	return nil
}

// fakeLive is an in-memory LiveLotStore.
type fakeLive struct {
	mu   sync.Mutex
	lots map[string]*models.CurrentLot
}

func newFakeLive() *fakeLive {
	return &fakeLive{lots: make(map[string]*models.CurrentLot)}
}

func (l *fakeLive) SetLiveLot(ctx context.Context, auctionID string, lot *models.CurrentLot) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cl := *lot
	l.lots[auctionID] = &cl
	return nil
}

func (l *fakeLive) GetLiveLot(ctx context.Context, auctionID string) (*models.CurrentLot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lot, ok := l.lots[auctionID]
	if !ok {
		return nil, fmt.Errorf("no live lot for auction %s", auctionID)
	}
	cl := *lot
	return &cl, nil
}
