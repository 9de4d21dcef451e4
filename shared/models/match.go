// shared/models/match.go
package models

import "time"

// MatchStatus is the closed set of match states.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusAbandoned MatchStatus = "abandoned"
)

// ScoreLine is a per-team score for a match. Whole-innings figures only, no
// ball-by-ball detail.
type ScoreLine struct {
	TeamID  string  `bson:"team_id" json:"teamId"`
	Runs    int     `bson:"runs" json:"runs"`
	Wickets int     `bson:"wickets" json:"wickets"`
	Overs   float64 `bson:"overs" json:"overs"`
}

// Match is a fixture between two franchise teams.
type Match struct {
	ID           string      `bson:"_id" json:"matchId"`
	Number       int64       `bson:"number" json:"number"`
	TeamAID      string      `bson:"team_a_id" json:"teamAId"`
	TeamBID      string      `bson:"team_b_id" json:"teamBId"`
	Venue        string      `bson:"venue,omitempty" json:"venue,omitempty"`
	Status       MatchStatus `bson:"status" json:"status"`
	TossWinnerID string      `bson:"toss_winner_id,omitempty" json:"tossWinnerId,omitempty"`
	TossDecision string      `bson:"toss_decision,omitempty" json:"tossDecision,omitempty"`
	Scores       []ScoreLine `bson:"scores,omitempty" json:"scores,omitempty"`
	Result       string      `bson:"result,omitempty" json:"result,omitempty"`
	ScheduledAt  *time.Time  `bson:"scheduled_at,omitempty" json:"scheduledAt,omitempty"`
	CreatedAt    *time.Time  `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    *time.Time  `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
