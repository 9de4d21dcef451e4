// shared/models/player.go
package models

import "time"

// Player roles as stored in the players collection.
const (
	RoleBatsman      = "batsman"
	RoleBowler       = "bowler"
	RoleAllRounder   = "all-rounder"
	RoleWicketKeeper = "wicket-keeper"
)

// Player represents a cricketer's profile stored persistently in MongoDB.
// TeamID and SoldPrice are set by the auction service once a lot is sold.
type Player struct {
	ID            string     `bson:"_id" json:"playerId"`
	Name          string     `bson:"name" json:"name"`
	Role          string     `bson:"role" json:"role"`
	BattingStyle  string     `bson:"batting_style,omitempty" json:"battingStyle,omitempty"`
	BowlingStyle  string     `bson:"bowling_style,omitempty" json:"bowlingStyle,omitempty"`
	Country       string     `bson:"country,omitempty" json:"country,omitempty"`
	TeamID        string     `bson:"team_id,omitempty" json:"teamId,omitempty"`
	InAuctionPool bool       `bson:"in_auction_pool" json:"inAuctionPool"`
	SoldPrice     int64      `bson:"sold_price,omitempty" json:"soldPrice,omitempty"`
	Matches       int        `bson:"matches" json:"matches"`
	Runs          int        `bson:"runs" json:"runs"`
	Wickets       int        `bson:"wickets" json:"wickets"`
	CreatedAt     *time.Time `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
