// tournament/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/models"
	"github.com/cricketops/cricket-services/tournament/service"
)

// TournamentAPIHandlers holds references to the services that handle business logic.
type TournamentAPIHandlers struct {
	PlayerService *service.PlayerService
	TeamService   *service.TeamService
	MatchService  *service.MatchService
	LineupService *service.LineupService
	validate      *validator.Validate
}

// NewTournamentAPIHandlers is the constructor for the API handlers.
func NewTournamentAPIHandlers(ps *service.PlayerService, ts *service.TeamService, ms *service.MatchService, ls *service.LineupService) *TournamentAPIHandlers {
	return &TournamentAPIHandlers{
		PlayerService: ps,
		TeamService:   ts,
		MatchService:  ms,
		LineupService: ls,
		validate:      validator.New(),
	}
}

// --- Request DTOs ---

type UpsertPlayerRequest struct {
	Name          string `json:"name" validate:"required"`
	Role          string `json:"role" validate:"required"`
	BattingStyle  string `json:"battingStyle"`
	BowlingStyle  string `json:"bowlingStyle"`
	Country       string `json:"country"`
	InAuctionPool bool   `json:"inAuctionPool"`
	Matches       int    `json:"matches" validate:"gte=0"`
	Runs          int    `json:"runs" validate:"gte=0"`
	Wickets       int    `json:"wickets" validate:"gte=0"`
}

type AssignPlayerRequest struct {
	TeamID    string `json:"teamId" validate:"required"`
	SoldPrice int64  `json:"soldPrice" validate:"gte=0"`
}

type UpsertTeamRequest struct {
	Name      string `json:"name" validate:"required"`
	ShortName string `json:"shortName" validate:"required"`
	City      string `json:"city"`
	CaptainID string `json:"captainId"`
}

type CreateMatchRequest struct {
	TeamAID     string     `json:"teamAId" validate:"required"`
	TeamBID     string     `json:"teamBId" validate:"required"`
	Venue       string     `json:"venue"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type UpdateMatchRequest struct {
	Venue        string             `json:"venue"`
	Status       models.MatchStatus `json:"status" validate:"required,oneof=scheduled live completed abandoned"`
	TossWinnerID string             `json:"tossWinnerId"`
	TossDecision string             `json:"tossDecision" validate:"omitempty,oneof=bat bowl"`
	Scores       []models.ScoreLine `json:"scores" validate:"max=2"`
	Result       string             `json:"result"`
	ScheduledAt  *time.Time         `json:"scheduledAt"`
}

type UpsertLineupRequest struct {
	MatchID string                `json:"matchId" validate:"required"`
	TeamID  string                `json:"teamId" validate:"required"`
	Players []models.LineupPlayer `json:"players" validate:"required"`
}

// --- Player Handlers ---

// CreatePlayerHandler handles requests to register a player.
// POST /players
func (tah *TournamentAPIHandlers) CreatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid player request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	player, err := tah.PlayerService.CreatePlayer(ctx, playerFromRequest(req))
	if err != nil {
		tah.writeServiceError(w, "create player", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, player)
	log.Printf("INFO: Player %s (%s) registered.", player.ID, player.Name)
}

// ListPlayersHandler handles requests to list all players.
// GET /players
func (tah *TournamentAPIHandlers) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	players, err := tah.PlayerService.ListPlayers(ctx)
	if err != nil {
		tah.writeServiceError(w, "list players", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, players)
}

// ListAuctionPoolHandler handles requests for the eligible auction pool.
// GET /players/pool
func (tah *TournamentAPIHandlers) ListAuctionPoolHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	players, err := tah.PlayerService.ListAuctionPool(ctx)
	if err != nil {
		tah.writeServiceError(w, "list auction pool", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, players)
}

// GetPlayerHandler handles requests to retrieve one player.
// GET /players/{id}
func (tah *TournamentAPIHandlers) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	player, err := tah.PlayerService.GetPlayer(ctx, playerID)
	if err != nil {
		tah.writeServiceError(w, "get player", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, player)
}

// UpdatePlayerHandler handles requests to update a player profile.
// PUT /players/{id}
func (tah *TournamentAPIHandlers) UpdatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	var req UpsertPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid player request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	player := playerFromRequest(req)
	player.ID = playerID
	if err := tah.PlayerService.UpdatePlayer(ctx, player); err != nil {
		tah.writeServiceError(w, "update player", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Player %s updated", playerID)})
}

// AssignPlayerHandler records a sold auction lot on the player document.
// PUT /players/{id}/assignment
func (tah *TournamentAPIHandlers) AssignPlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	var req AssignPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid assignment request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tah.PlayerService.AssignPlayerToTeam(ctx, playerID, req.TeamID, req.SoldPrice); err != nil {
		tah.writeServiceError(w, "assign player", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Player %s assigned to team %s", playerID, req.TeamID)})
	log.Printf("INFO: Player %s assigned to team %s for %d.", playerID, req.TeamID, req.SoldPrice)
}

// DeletePlayerHandler handles requests to delete a player.
// DELETE /players/{id}
func (tah *TournamentAPIHandlers) DeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tah.PlayerService.DeletePlayer(ctx, playerID); err != nil {
		tah.writeServiceError(w, "delete player", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Player %s deleted", playerID)})
}

// --- Team Handlers ---

// CreateTeamHandler handles requests to register a franchise.
// POST /teams
func (tah *TournamentAPIHandlers) CreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid team request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team, err := tah.TeamService.CreateTeam(ctx, &models.Team{
		Name:      req.Name,
		ShortName: req.ShortName,
		City:      req.City,
		CaptainID: req.CaptainID,
	})
	if err != nil {
		tah.writeServiceError(w, "create team", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, team)
	log.Printf("INFO: Team %s (%s) registered.", team.ID, team.Name)
}

// ListTeamsHandler handles requests to list all franchises.
// GET /teams
func (tah *TournamentAPIHandlers) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	teams, err := tah.TeamService.ListTeams(ctx)
	if err != nil {
		tah.writeServiceError(w, "list teams", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, teams)
}

// GetTeamHandler handles requests to retrieve one franchise.
// GET /teams/{id}
func (tah *TournamentAPIHandlers) GetTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team, err := tah.TeamService.GetTeam(ctx, teamID)
	if err != nil {
		tah.writeServiceError(w, "get team", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, team)
}

// UpdateTeamHandler handles requests to update a franchise.
// PUT /teams/{id}
func (tah *TournamentAPIHandlers) UpdateTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]

	var req UpsertTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid team request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team := &models.Team{
		ID:        teamID,
		Name:      req.Name,
		ShortName: req.ShortName,
		City:      req.City,
		CaptainID: req.CaptainID,
	}
	if err := tah.TeamService.UpdateTeam(ctx, team); err != nil {
		tah.writeServiceError(w, "update team", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Team %s updated", teamID)})
}

// DeleteTeamHandler handles requests to delete a franchise.
// DELETE /teams/{id}
func (tah *TournamentAPIHandlers) DeleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tah.TeamService.DeleteTeam(ctx, teamID); err != nil {
		tah.writeServiceError(w, "delete team", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Team %s deleted", teamID)})
}

// --- Match Handlers ---

// CreateMatchHandler handles requests to schedule a fixture.
// POST /matches
func (tah *TournamentAPIHandlers) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid match request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	match, err := tah.MatchService.CreateMatch(ctx, &models.Match{
		TeamAID:     req.TeamAID,
		TeamBID:     req.TeamBID,
		Venue:       req.Venue,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		tah.writeServiceError(w, "create match", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, match)
	log.Printf("INFO: Match %s (#%d) scheduled.", match.ID, match.Number)
}

// ListMatchesHandler handles requests to list all fixtures.
// GET /matches
func (tah *TournamentAPIHandlers) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	matches, err := tah.MatchService.ListMatches(ctx)
	if err != nil {
		tah.writeServiceError(w, "list matches", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, matches)
}

// GetMatchHandler handles requests to retrieve one fixture.
// GET /matches/{id}
func (tah *TournamentAPIHandlers) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	match, err := tah.MatchService.GetMatch(ctx, matchID)
	if err != nil {
		tah.writeServiceError(w, "get match", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, match)
}

// UpdateMatchHandler handles requests to update a fixture's state.
// PUT /matches/{id}
func (tah *TournamentAPIHandlers) UpdateMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var req UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid match request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	match := &models.Match{
		ID:           matchID,
		Venue:        req.Venue,
		Status:       req.Status,
		TossWinnerID: req.TossWinnerID,
		TossDecision: req.TossDecision,
		Scores:       req.Scores,
		Result:       req.Result,
		ScheduledAt:  req.ScheduledAt,
	}
	if err := tah.MatchService.UpdateMatch(ctx, match); err != nil {
		tah.writeServiceError(w, "update match", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Match %s updated", matchID)})
}

// DeleteMatchHandler handles requests to delete a fixture.
// DELETE /matches/{id}
func (tah *TournamentAPIHandlers) DeleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tah.MatchService.DeleteMatch(ctx, matchID); err != nil {
		tah.writeServiceError(w, "delete match", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Match %s deleted", matchID)})
}

// --- Lineup Handlers ---

// CreateLineupHandler handles requests to name a playing XI.
// POST /lineups
func (tah *TournamentAPIHandlers) CreateLineupHandler(w http.ResponseWriter, r *http.Request) {
	var req UpsertLineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid lineup request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lineup, err := tah.LineupService.CreateLineup(ctx, &models.Lineup{
		MatchID: req.MatchID,
		TeamID:  req.TeamID,
		Players: req.Players,
	})
	if err != nil {
		tah.writeServiceError(w, "create lineup", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, lineup)
	log.Printf("INFO: Lineup %s named for match %s team %s.", lineup.ID, lineup.MatchID, lineup.TeamID)
}

// GetLineupHandler handles requests to retrieve one lineup.
// GET /lineups/{id}
func (tah *TournamentAPIHandlers) GetLineupHandler(w http.ResponseWriter, r *http.Request) {
	lineupID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lineup, err := tah.LineupService.GetLineup(ctx, lineupID)
	if err != nil {
		tah.writeServiceError(w, "get lineup", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, lineup)
}

// ListMatchLineupsHandler handles requests for the XIs named for a match.
// GET /matches/{id}/lineups
func (tah *TournamentAPIHandlers) ListMatchLineupsHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lineups, err := tah.LineupService.ListLineupsForMatch(ctx, matchID)
	if err != nil {
		tah.writeServiceError(w, "list lineups", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, lineups)
}

// UpdateLineupHandler handles requests to replace a named XI.
// PUT /lineups/{id}
func (tah *TournamentAPIHandlers) UpdateLineupHandler(w http.ResponseWriter, r *http.Request) {
	lineupID := mux.Vars(r)["id"]

	var req UpsertLineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := tah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid lineup request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lineup := &models.Lineup{
		ID:      lineupID,
		MatchID: req.MatchID,
		TeamID:  req.TeamID,
		Players: req.Players,
	}
	if err := tah.LineupService.UpdateLineup(ctx, lineup); err != nil {
		tah.writeServiceError(w, "update lineup", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Lineup %s updated", lineupID)})
}

// DeleteLineupHandler handles requests to delete a lineup.
// DELETE /lineups/{id}
func (tah *TournamentAPIHandlers) DeleteLineupHandler(w http.ResponseWriter, r *http.Request) {
	lineupID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tah.LineupService.DeleteLineup(ctx, lineupID); err != nil {
		tah.writeServiceError(w, "delete lineup", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Lineup %s deleted", lineupID)})
}

// writeServiceError maps service-layer sentinel errors to HTTP status codes.
func (tah *TournamentAPIHandlers) writeServiceError(w http.ResponseWriter, verb string, err error) {
	switch {
	case errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrLineupNotFound):
		api.WriteNotFound(w, err.Error())
	case errors.Is(err, service.ErrPlayerAlreadyExists),
		errors.Is(err, service.ErrTeamAlreadyExists),
		errors.Is(err, service.ErrLineupExists):
		api.WriteConflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidLineup),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrSameTeams):
		api.WriteUnprocessableEntity(w, err.Error())
	default:
		log.Printf("ERROR: Failed to %s: %v", verb, err)
		api.WriteInternalServerError(w, fmt.Sprintf("Failed to %s", verb))
	}
}

func playerFromRequest(req UpsertPlayerRequest) *models.Player {
	return &models.Player{
		Name:          req.Name,
		Role:          req.Role,
		BattingStyle:  req.BattingStyle,
		BowlingStyle:  req.BowlingStyle,
		Country:       req.Country,
		InAuctionPool: req.InAuctionPool,
		Matches:       req.Matches,
		Runs:          req.Runs,
		Wickets:       req.Wickets,
	}
}

// RegisterRoutes registers all API endpoints for the Tournament Service.
// This method is called from main.go to set up the HTTP routes.
func (tah *TournamentAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/players", tah.CreatePlayerHandler).Methods("POST")
	router.HandleFunc("/players", tah.ListPlayersHandler).Methods("GET")
	router.HandleFunc("/players/pool", tah.ListAuctionPoolHandler).Methods("GET")
	router.HandleFunc("/players/{id}", tah.GetPlayerHandler).Methods("GET")
	router.HandleFunc("/players/{id}", tah.UpdatePlayerHandler).Methods("PUT")
	router.HandleFunc("/players/{id}", tah.DeletePlayerHandler).Methods("DELETE")
	router.HandleFunc("/players/{id}/assignment", tah.AssignPlayerHandler).Methods("PUT")

	router.HandleFunc("/teams", tah.CreateTeamHandler).Methods("POST")
	router.HandleFunc("/teams", tah.ListTeamsHandler).Methods("GET")
	router.HandleFunc("/teams/{id}", tah.GetTeamHandler).Methods("GET")
	router.HandleFunc("/teams/{id}", tah.UpdateTeamHandler).Methods("PUT")
	router.HandleFunc("/teams/{id}", tah.DeleteTeamHandler).Methods("DELETE")

	router.HandleFunc("/matches", tah.CreateMatchHandler).Methods("POST")
	router.HandleFunc("/matches", tah.ListMatchesHandler).Methods("GET")
	router.HandleFunc("/matches/{id}", tah.GetMatchHandler).Methods("GET")
	router.HandleFunc("/matches/{id}", tah.UpdateMatchHandler).Methods("PUT")
	router.HandleFunc("/matches/{id}", tah.DeleteMatchHandler).Methods("DELETE")
	router.HandleFunc("/matches/{id}/lineups", tah.ListMatchLineupsHandler).Methods("GET")

	router.HandleFunc("/lineups", tah.CreateLineupHandler).Methods("POST")
	router.HandleFunc("/lineups/{id}", tah.GetLineupHandler).Methods("GET")
	router.HandleFunc("/lineups/{id}", tah.UpdateLineupHandler).Methods("PUT")
	router.HandleFunc("/lineups/{id}", tah.DeleteLineupHandler).Methods("DELETE")
}
