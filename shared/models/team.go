// shared/models/team.go
package models

import "time"

// Team is a franchise team document. PlayerCount mirrors the number of players
// currently assigned to the franchise and is maintained with atomic increments.
type Team struct {
	ID          string     `bson:"_id" json:"teamId"`
	Name        string     `bson:"name" json:"name"`
	ShortName   string     `bson:"short_name" json:"shortName"`
	City        string     `bson:"city,omitempty" json:"city,omitempty"`
	CaptainID   string     `bson:"captain_id,omitempty" json:"captainId,omitempty"`
	PlayerCount int64      `bson:"player_count" json:"playerCount"`
	CreatedAt   *time.Time `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
