// shared/models/lineup.go
package models

import "time"

// LineupPlayer is one slot in a playing XI.
type LineupPlayer struct {
	PlayerID     string `bson:"player_id" json:"playerId"`
	Name         string `bson:"name" json:"name"`
	BattingOrder int    `bson:"batting_order" json:"battingOrder"`
	IsCaptain    bool   `bson:"is_captain" json:"isCaptain"`
	IsKeeper     bool   `bson:"is_keeper" json:"isKeeper"`
}

// Lineup is one team's playing XI for a match: exactly eleven players with one
// captain and one wicket-keeper.
type Lineup struct {
	ID        string         `bson:"_id" json:"lineupId"`
	MatchID   string         `bson:"match_id" json:"matchId"`
	TeamID    string         `bson:"team_id" json:"teamId"`
	Players   []LineupPlayer `bson:"players" json:"players"`
	CreatedAt *time.Time     `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt *time.Time     `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
