// auction/api/handlers.go
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

	"github.com/cricketops/cricket-services/auction/service"
	"github.com/cricketops/cricket-services/shared/api"
	"github.com/cricketops/cricket-services/shared/models"
)

// AuctionAPIHandlers holds references to the services that handle business logic.
type AuctionAPIHandlers struct {
	AuctionService *service.AuctionService
	validate       *validator.Validate
}

// NewAuctionAPIHandlers is the constructor for the API handlers.
func NewAuctionAPIHandlers(as *service.AuctionService) *AuctionAPIHandlers {
	return &AuctionAPIHandlers{
		AuctionService: as,
		validate:       validator.New(),
	}
}

// --- Request/Response DTOs ---

// Name is optional; when omitted the service fills it from the tournament
// service's team record.
type TeamSeedRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	Name   string `json:"name"`
}

type CreateAuctionRequest struct {
	Name              string            `json:"name" validate:"required"`
	BudgetPerTeam     int64             `json:"budgetPerTeam" validate:"required,gt=0"`
	MinPlayersPerTeam int               `json:"minPlayersPerTeam" validate:"gte=0"`
	MaxPlayersPerTeam int               `json:"maxPlayersPerTeam" validate:"required,gt=0"`
	BasePrice         int64             `json:"basePrice" validate:"required,gt=0"`
	MinBidIncrement   int64             `json:"minBidIncrement" validate:"required,gt=0"`
	BidSeconds        int64             `json:"bidSeconds" validate:"gte=0"`
	Teams             []TeamSeedRequest `json:"teams" validate:"required,min=2,dive"`
	ScheduledAt       *time.Time        `json:"scheduledAt"`
}

type PlaceBidRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// --- Handler Methods ---

// CreateAuctionHandler handles requests to create a new scheduled auction.
// POST /auctions
func (aah *AuctionAPIHandlers) CreateAuctionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := aah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid auction request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	input := service.CreateAuctionInput{
		Name:        req.Name,
		Config:      toConfig(req),
		ScheduledAt: req.ScheduledAt,
	}
	for _, seed := range req.Teams {
		input.Teams = append(input.Teams, service.TeamSeed{TeamID: seed.TeamID, Name: seed.Name})
	}

	auction, err := aah.AuctionService.CreateAuction(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidConfig):
			api.WriteUnprocessableEntity(w, err.Error())
		default:
			log.Printf("ERROR: Failed to create auction %q: %v", req.Name, err)
			api.WriteInternalServerError(w, "Failed to create auction")
		}
		return
	}

	api.WriteJSON(w, http.StatusCreated, auction)
	log.Printf("INFO: Auction %s (#%d) created.", auction.ID, auction.Number)
}

// ListAuctionsHandler handles requests to list all auctions.
// GET /auctions
func (aah *AuctionAPIHandlers) ListAuctionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	auctions, err := aah.AuctionService.ListAuctions(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to list auctions: %v", err)
		api.WriteInternalServerError(w, "Failed to list auctions")
		return
	}
	api.WriteJSON(w, http.StatusOK, auctions)
}

// GetAuctionHandler handles requests to retrieve one auction document.
// GET /auctions/{id}
func (aah *AuctionAPIHandlers) GetAuctionHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	auction, err := aah.AuctionService.GetAuction(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "retrieve", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, auction)
}

// DeleteAuctionHandler handles requests to delete an auction. The countdown,
// if armed, is stopped in the same operation.
// DELETE /auctions/{id}
func (aah *AuctionAPIHandlers) DeleteAuctionHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := aah.AuctionService.DeleteAuction(ctx, auctionID); err != nil {
		aah.writeServiceError(w, auctionID, "delete", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Auction %s deleted", auctionID)})
	log.Printf("INFO: Auction %s deleted.", auctionID)
}

// StartAuctionHandler handles requests to start a scheduled auction.
// POST /auctions/{id}/start
func (aah *AuctionAPIHandlers) StartAuctionHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	// Pool query crosses to the tournament service, allow more headroom.
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	auction, err := aah.AuctionService.StartAuction(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "start", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, auction)
}

// NextLotHandler handles requests to finalize the current lot and move on.
// POST /auctions/{id}/next
func (aah *AuctionAPIHandlers) NextLotHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	auction, err := aah.AuctionService.NextLot(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "advance", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, auction)
}

// PauseAuctionHandler handles requests to pause a live auction.
// POST /auctions/{id}/pause
func (aah *AuctionAPIHandlers) PauseAuctionHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	auction, err := aah.AuctionService.PauseAuction(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "pause", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, auction)
}

// ResumeAuctionHandler handles requests to resume a paused auction.
// POST /auctions/{id}/resume
func (aah *AuctionAPIHandlers) ResumeAuctionHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	auction, err := aah.AuctionService.ResumeAuction(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "resume", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, auction)
}

// GetStatusHandler handles requests for the merged live view of an auction.
// GET /auctions/{id}/status
func (aah *AuctionAPIHandlers) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := aah.AuctionService.GetStatus(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "get status of", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, view)
}

// GetSummaryHandler handles requests for the final summary of a completed
// auction.
// GET /auctions/{id}/summary
func (aah *AuctionAPIHandlers) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := aah.AuctionService.CompleteAuction(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "summarize", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, summary)
}

// PlaceBidHandler handles requests to bid on the live lot.
// POST /auctions/{id}/bids
func (aah *AuctionAPIHandlers) PlaceBidHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	var req PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := aah.validate.Struct(req); err != nil {
		api.WriteBadRequest(w, fmt.Sprintf("Invalid bid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := aah.AuctionService.PlaceBid(ctx, auctionID, req.TeamID, req.Amount)
	if err != nil {
		aah.writeServiceError(w, auctionID, "bid on", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, result)
}

// ExportResultsHandler streams the xlsx workbook of a completed auction.
// GET /auctions/{id}/export
func (aah *AuctionAPIHandlers) ExportResultsHandler(w http.ResponseWriter, r *http.Request) {
	auctionID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	workbook, err := aah.AuctionService.ExportResults(ctx, auctionID)
	if err != nil {
		aah.writeServiceError(w, auctionID, "export", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=auction-%s.xlsx", auctionID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		log.Printf("WARN: Failed to stream export for auction %s: %v", auctionID, err)
	}
}

// writeServiceError maps service-layer sentinel errors to HTTP status codes.
func (aah *AuctionAPIHandlers) writeServiceError(w http.ResponseWriter, auctionID, verb string, err error) {
	switch {
	case errors.Is(err, service.ErrAuctionNotFound):
		api.WriteNotFound(w, fmt.Sprintf("Auction %s not found", auctionID))
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrAuctionNotActive),
		errors.Is(err, service.ErrNoLotInProgress),
		errors.Is(err, service.ErrNotCompleted),
		errors.Is(err, service.ErrStoreConflict):
		api.WriteConflict(w, err.Error())
	case errors.Is(err, service.ErrUnknownTeam),
		errors.Is(err, service.ErrInvalidBid):
		api.WriteBadRequest(w, err.Error())
	case errors.Is(err, service.ErrSquadFull),
		errors.Is(err, service.ErrInsufficientBudget),
		errors.Is(err, service.ErrBidTooLow),
		errors.Is(err, service.ErrNoEligiblePlayers),
		errors.Is(err, service.ErrInvalidConfig):
		api.WriteUnprocessableEntity(w, err.Error())
	default:
		log.Printf("ERROR: Failed to %s auction %s: %v", verb, auctionID, err)
		api.WriteInternalServerError(w, fmt.Sprintf("Failed to %s auction", verb))
	}
}

func toConfig(req CreateAuctionRequest) models.AuctionConfig {
	return models.AuctionConfig{
		BudgetPerTeam:     req.BudgetPerTeam,
		MinPlayersPerTeam: req.MinPlayersPerTeam,
		MaxPlayersPerTeam: req.MaxPlayersPerTeam,
		BasePrice:         req.BasePrice,
		MinBidIncrement:   req.MinBidIncrement,
		BidSeconds:        req.BidSeconds,
	}
}

// RegisterRoutes registers all API endpoints for the Auction Service.
// This method is called from main.go to set up the HTTP routes.
func (aah *AuctionAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auctions", aah.CreateAuctionHandler).Methods("POST")
	router.HandleFunc("/auctions", aah.ListAuctionsHandler).Methods("GET")
	router.HandleFunc("/auctions/{id}", aah.GetAuctionHandler).Methods("GET")
	router.HandleFunc("/auctions/{id}", aah.DeleteAuctionHandler).Methods("DELETE")
	router.HandleFunc("/auctions/{id}/start", aah.StartAuctionHandler).Methods("POST")
	router.HandleFunc("/auctions/{id}/next", aah.NextLotHandler).Methods("POST")
	router.HandleFunc("/auctions/{id}/pause", aah.PauseAuctionHandler).Methods("POST")
	router.HandleFunc("/auctions/{id}/resume", aah.ResumeAuctionHandler).Methods("POST")
	router.HandleFunc("/auctions/{id}/status", aah.GetStatusHandler).Methods("GET")
	router.HandleFunc("/auctions/{id}/summary", aah.GetSummaryHandler).Methods("GET")
	router.HandleFunc("/auctions/{id}/bids", aah.PlaceBidHandler).Methods("POST")
	router.HandleFunc("/auctions/{id}/export", aah.ExportResultsHandler).Methods("GET")
}
