// tournament/service/lineup_service_test.go
package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cricketops/cricket-services/shared/models"
)

func validEleven() []models.LineupPlayer {
	players := make([]models.LineupPlayer, 0, 11)
	for i := 1; i <= 11; i++ {
		players = append(players, models.LineupPlayer{
			PlayerID:     fmt.Sprintf("p%d", i),
			Name:         fmt.Sprintf("Player %d", i),
			BattingOrder: i,
		})
	}
	players[0].IsCaptain = true
	players[6].IsKeeper = true
	return players
}

func TestValidateLineupAcceptsValidEleven(t *testing.T) {
	if err := ValidateLineup(validEleven()); err != nil {
		t.Fatalf("valid eleven rejected: %v", err)
	}
}

func TestValidateLineupCaptainKeeperSamePlayer(t *testing.T) {
	players := validEleven()
	players[6].IsKeeper = false
	players[0].IsKeeper = true
	if err := ValidateLineup(players); err != nil {
		t.Fatalf("captain doubling as keeper rejected: %v", err)
	}
}

func TestValidateLineupWrongSize(t *testing.T) {
	players := validEleven()

	if err := ValidateLineup(players[:10]); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup for 10 players, got %v", err)
	}

	twelve := append(append([]models.LineupPlayer(nil), players...), models.LineupPlayer{PlayerID: "p12", Name: "Player 12", BattingOrder: 12})
	if err := ValidateLineup(twelve); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup for 12 players, got %v", err)
	}
}

func TestValidateLineupCaptainCount(t *testing.T) {
	noCaptain := validEleven()
	noCaptain[0].IsCaptain = false
	if err := ValidateLineup(noCaptain); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup without a captain, got %v", err)
	}

	twoCaptains := validEleven()
	twoCaptains[1].IsCaptain = true
	if err := ValidateLineup(twoCaptains); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup with two captains, got %v", err)
	}
}

func TestValidateLineupKeeperCount(t *testing.T) {
	noKeeper := validEleven()
	noKeeper[6].IsKeeper = false
	if err := ValidateLineup(noKeeper); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup without a keeper, got %v", err)
	}

	twoKeepers := validEleven()
	twoKeepers[7].IsKeeper = true
	if err := ValidateLineup(twoKeepers); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup with two keepers, got %v", err)
	}
}

func TestValidateLineupDuplicatePlayer(t *testing.T) {
	players := validEleven()
	players[10].PlayerID = players[0].PlayerID
	if err := ValidateLineup(players); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup for a duplicated player, got %v", err)
	}
}

func TestValidateLineupEmptyPlayerID(t *testing.T) {
	players := validEleven()
	players[3].PlayerID = ""
	if err := ValidateLineup(players); !errors.Is(err, ErrInvalidLineup) {
		t.Fatalf("expected ErrInvalidLineup for an empty player ID, got %v", err)
	}
}
