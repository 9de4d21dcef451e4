// auction/service/errors.go
package service

import "errors"

// Sentinel errors for the API layer to map onto HTTP statuses. Wrapped
// messages carry the concrete numbers (computed minimum bid, remaining
// budget) so callers can display a precise rejection.
var (
	ErrAuctionNotFound    = errors.New("auction not found")
	ErrInvalidConfig      = errors.New("invalid auction configuration")
	ErrInvalidState       = errors.New("operation not permitted in current auction state")
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrNoLotInProgress    = errors.New("no lot is currently being auctioned")
	ErrUnknownTeam        = errors.New("team is not participating in this auction")
	ErrSquadFull          = errors.New("team has reached the maximum squad size")
	ErrInsufficientBudget = errors.New("insufficient remaining budget")
	ErrInvalidBid         = errors.New("bid amount must be a positive number")
	ErrBidTooLow          = errors.New("bid is below the minimum acceptable amount")
	ErrNoEligiblePlayers  = errors.New("no eligible players in the auction pool")
	ErrNotCompleted       = errors.New("auction is not completed")
	ErrStoreConflict      = errors.New("auction was modified concurrently")
)
