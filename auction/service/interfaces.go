// auction/service/interfaces.go
package service

import (
	"context"
	"time"

	"github.com/cricketops/cricket-services/shared/models"
)

// AuctionStore is the persistence contract for auction documents. The Mongo
// implementation lives in auction/store; tests use an in-memory fake.
//
// Lookups return mongo.ErrNoDocuments (possibly wrapped) when the auction does
// not exist. ReplaceAuction is a compare-and-swap on the document's Version
// field: it matches _id plus the Version the caller read, writes the document
// with Version+1, and reports mongo.ErrNoDocuments when nothing matched
// (either the auction is gone or another writer got there first).
type AuctionStore interface {
	CreateAuction(ctx context.Context, auction *models.Auction) error
	GetAuction(ctx context.Context, auctionID string) (*models.Auction, error)
	ListAuctions(ctx context.Context) ([]models.Auction, error)
	ListAuctionsByStatus(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error)
	ListDueScheduled(ctx context.Context, now time.Time) ([]models.Auction, error)
	ReplaceAuction(ctx context.Context, auction *models.Auction) error
	DeleteAuction(ctx context.Context, auctionID string) error
	UpdateLotTimeRemaining(ctx context.Context, auctionID string, remaining int64) error
	NextAuctionNumber(ctx context.Context) (int64, error)
}

// PlayerPool is the tournament-service surface the auction service depends
// on: team lookups at creation time, the eligible player pool at start time,
// and recording the outcome of a sold lot on the player document. Backed by
// the tournament service HTTP client in production.
type PlayerPool interface {
	GetTeam(ctx context.Context, teamID string) (*models.Team, error)
	ListAuctionPool(ctx context.Context) ([]models.Player, error)
	AssignPlayerToTeam(ctx context.Context, playerID, teamID string, soldPrice int64) error
}

// LiveLotStore mirrors the current lot into Redis with a TTL for cheap status
// polling. Optional: the service tolerates a nil mirror.
type LiveLotStore interface {
	SetLiveLot(ctx context.Context, auctionID string, lot *models.CurrentLot) error
	GetLiveLot(ctx context.Context, auctionID string) (*models.CurrentLot, error)
}
