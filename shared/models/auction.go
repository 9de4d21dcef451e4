// shared/models/auction.go
package models

import "time"

// AuctionStatus is the closed set of auction lifecycle states. Transitions are
// enforced by the auction service; documents never carry any other value.
type AuctionStatus string

const (
	AuctionStatusScheduled AuctionStatus = "scheduled"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusPaused    AuctionStatus = "paused"
	AuctionStatusCompleted AuctionStatus = "completed"
)

// AuctionConfig holds the economic rules of one auction. Read-only once the
// auction has been started.
type AuctionConfig struct {
	BudgetPerTeam     int64 `bson:"budget_per_team" json:"budgetPerTeam"`
	MinPlayersPerTeam int   `bson:"min_players_per_team" json:"minPlayersPerTeam"`
	MaxPlayersPerTeam int   `bson:"max_players_per_team" json:"maxPlayersPerTeam"`
	BasePrice         int64 `bson:"base_price" json:"basePrice"`
	MinBidIncrement   int64 `bson:"min_bid_increment" json:"minBidIncrement"`
	BidSeconds        int64 `bson:"bid_seconds" json:"bidSeconds"`
}

// LotEntry identifies one player in the lot queue together with the base price
// frozen at start time.
type LotEntry struct {
	PlayerID  string `bson:"player_id" json:"playerId"`
	Name      string `bson:"name" json:"name"`
	Role      string `bson:"role" json:"role"`
	BasePrice int64  `bson:"base_price" json:"basePrice"`
}

// CurrentLot is the live bidding state for the lot at CurrentLotIndex.
type CurrentLot struct {
	Lot           LotEntry   `bson:"lot" json:"lot"`
	CurrentBid    int64      `bson:"current_bid" json:"currentBid"`
	LeadingTeamID string     `bson:"leading_team_id,omitempty" json:"leadingTeamId,omitempty"`
	TimeRemaining int64      `bson:"time_remaining" json:"timeRemaining"`
	StartedAt     *time.Time `bson:"started_at,omitempty" json:"startedAt,omitempty"`
}

// WonLot is a lot a team has bought, embedded in its AuctionTeam record.
type WonLot struct {
	PlayerID string `bson:"player_id" json:"playerId"`
	Name     string `bson:"name" json:"name"`
	Price    int64  `bson:"price" json:"price"`
}

// AuctionTeam is the per-franchise record embedded in an Auction.
// RemainingBudget + SpentBudget always equals TotalBudget.
type AuctionTeam struct {
	TeamID          string   `bson:"team_id" json:"teamId"`
	Name            string   `bson:"name" json:"name"`
	TotalBudget     int64    `bson:"total_budget" json:"totalBudget"`
	RemainingBudget int64    `bson:"remaining_budget" json:"remainingBudget"`
	SpentBudget     int64    `bson:"spent_budget" json:"spentBudget"`
	PlayersCount    int      `bson:"players_count" json:"playersCount"`
	Players         []WonLot `bson:"players" json:"players"`
}

// SoldLot records the outcome of a lot that found a buyer.
type SoldLot struct {
	Lot        LotEntry  `bson:"lot" json:"lot"`
	FinalPrice int64     `bson:"final_price" json:"finalPrice"`
	TeamID     string    `bson:"team_id" json:"teamId"`
	TeamName   string    `bson:"team_name" json:"teamName"`
	SoldAt     time.Time `bson:"sold_at" json:"soldAt"`
}

// UnsoldLot records a lot whose timer expired without a single bid.
type UnsoldLot struct {
	Lot      LotEntry  `bson:"lot" json:"lot"`
	UnsoldAt time.Time `bson:"unsold_at" json:"unsoldAt"`
}

// TeamSpend is the per-team breakdown inside an AuctionSummary.
type TeamSpend struct {
	TeamID        string  `bson:"team_id" json:"teamId"`
	Name          string  `bson:"name" json:"name"`
	TotalSpent    int64   `bson:"total_spent" json:"totalSpent"`
	PlayersBought int     `bson:"players_bought" json:"playersBought"`
	AverageSpend  float64 `bson:"average_spend" json:"averageSpend"`
}

// AuctionSummary is computed once when the lot queue is exhausted and never
// recomputed afterwards.
type AuctionSummary struct {
	TotalPlayers  int         `bson:"total_players" json:"totalPlayers"`
	SoldPlayers   int         `bson:"sold_players" json:"soldPlayers"`
	UnsoldPlayers int         `bson:"unsold_players" json:"unsoldPlayers"`
	TotalValue    int64       `bson:"total_value" json:"totalValue"`
	AveragePrice  float64     `bson:"average_price" json:"averagePrice"`
	HighestPrice  int64       `bson:"highest_price" json:"highestPrice"`
	LowestPrice   int64       `bson:"lowest_price" json:"lowestPrice"`
	MostExpensive *SoldLot    `bson:"most_expensive,omitempty" json:"mostExpensive,omitempty"`
	TeamSpends    []TeamSpend `bson:"team_spends" json:"teamSpends"`
}

// Auction is the root aggregate, one document per auction event. The opaque ID
// is the externally addressable key; Number is the human-facing sequential
// display number. Version is bumped on every replace and checked in the update
// filter so two concurrent writers can never both finalize the same lot.
type Auction struct {
	ID              string          `bson:"_id" json:"auctionId"`
	Number          int64           `bson:"number" json:"number"`
	Name            string          `bson:"name" json:"name"`
	Status          AuctionStatus   `bson:"status" json:"status"`
	Config          AuctionConfig   `bson:"config" json:"config"`
	Teams           []AuctionTeam   `bson:"teams" json:"teams"`
	LotQueue        []LotEntry      `bson:"lot_queue" json:"lotQueue"`
	CurrentLotIndex int             `bson:"current_lot_index" json:"currentLotIndex"`
	CurrentLot      *CurrentLot     `bson:"current_lot,omitempty" json:"currentLot,omitempty"`
	SoldLots        []SoldLot       `bson:"sold_lots" json:"soldLots"`
	UnsoldLots      []UnsoldLot     `bson:"unsold_lots" json:"unsoldLots"`
	Summary         *AuctionSummary `bson:"summary,omitempty" json:"summary,omitempty"`
	Version         int64           `bson:"version" json:"-"`
	ScheduledAt     *time.Time      `bson:"scheduled_at,omitempty" json:"scheduledAt,omitempty"`
	CreatedAt       *time.Time      `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	StartedAt       *time.Time      `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt     *time.Time      `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	UpdatedAt       *time.Time      `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// TeamByID returns a pointer into Teams for in-place mutation, or nil when the
// team does not participate in this auction.
func (a *Auction) TeamByID(teamID string) *AuctionTeam {
	for i := range a.Teams {
		if a.Teams[i].TeamID == teamID {
			return &a.Teams[i]
		}
	}
	return nil
}
