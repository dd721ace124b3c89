package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smartpark/parking-portal/internal/guard"
	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/middleware"
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/parking"
	"github.com/smartpark/parking-portal/internal/session"
)

// LotHandler serves the level and spot screens plus the admin lot-management
// operations, all backed by the remote parking-lot service.
type LotHandler struct {
	sessions *session.Store
	api      *parking.Client
}

// NewLotHandler constructs the handler.
func NewLotHandler(sessions *session.Store, api *parking.Client) *LotHandler {
	return &LotHandler{sessions: sessions, api: api}
}

// Register wires lot routes with their access tiers: browsing is open to any
// authenticated session, management is admin-only.
func (h *LotHandler) Register(mux *http.ServeMux) {
	authed := func(next http.HandlerFunc) http.Handler {
		return middleware.GuardFunc(h.sessions, guard.AnyAuthenticated, next)
	}
	admin := func(next http.HandlerFunc) http.Handler {
		return middleware.GuardFunc(h.sessions, guard.AdminOnly, next)
	}

	mux.Handle("GET /api/levels", authed(h.handleLevels))
	mux.Handle("GET /api/levels/details", authed(h.handleLevelDetails))
	mux.Handle("GET /api/levels/{levelId}/spots", authed(h.handleSpots))
	mux.Handle("GET /api/levels/{levelId}/spots/available", authed(h.handleAvailableSpots))
	mux.Handle("GET /api/stats", authed(h.handleStats))

	mux.Handle("POST /api/admin/levels", admin(h.handleCreateLevel))
	mux.Handle("POST /api/admin/levels/{levelId}/spots", admin(h.handleAddSpot))
	mux.Handle("PUT /api/admin/spots/{spotId}/enable", admin(h.handleEnableSpot))
	mux.Handle("PUT /api/admin/spots/{spotId}/disable", admin(h.handleDisableSpot))
	mux.Handle("GET /api/admin/stats", admin(h.handleAdminStats))
	mux.Handle("POST /api/admin/entry", admin(h.handleEntry))
	mux.Handle("PUT /api/admin/exit/{ticketId}", admin(h.handleExit))
}

func (h *LotHandler) handleLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.api.Levels(r.Context())
	if err != nil {
		relayError(w, "list levels", err)
		return
	}
	respond.JSON(w, http.StatusOK, "levels", levels)
}

func (h *LotHandler) handleLevelDetails(w http.ResponseWriter, r *http.Request) {
	levels, err := h.api.LevelsWithDetails(r.Context())
	if err != nil {
		relayError(w, "list level details", err)
		return
	}
	respond.JSON(w, http.StatusOK, "levels", levels)
}

func (h *LotHandler) handleSpots(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	spots, err := h.api.AllSpotsForLevel(r.Context(), levelID)
	if err != nil {
		relayError(w, "list spots", err)
		return
	}
	respond.JSON(w, http.StatusOK, "spots", spots)
}

// handleAvailableSpots is the spot picker feed: available spots on the level,
// accessible spots only when requested.
func (h *LotHandler) handleAvailableSpots(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	accessible := r.URL.Query().Get("accessible") == "true"
	spots, err := h.api.SpotsByLevel(r.Context(), levelID, accessible)
	if err != nil {
		relayError(w, "list available spots", err)
		return
	}
	respond.JSON(w, http.StatusOK, "spots", parking.AvailableSpots(spots))
}

func (h *LotHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.api.Stats(r.Context())
	if err != nil {
		relayError(w, "parking stats", err)
		return
	}
	respond.JSON(w, http.StatusOK, "stats", stats)
}

func (h *LotHandler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.api.AdminStats(r.Context())
	if err != nil {
		relayError(w, "admin stats", err)
		return
	}
	respond.JSON(w, http.StatusOK, "stats", stats)
}

func (h *LotHandler) handleCreateLevel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.LevelNumber) == "" {
		respond.Error(w, http.StatusBadRequest, "levelNumber is required")
		return
	}
	level, err := h.api.CreateLevelWithSpots(r.Context(), req)
	if err != nil {
		relayError(w, "create level", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "level created", level)
}

func (h *LotHandler) handleAddSpot(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathID(r, "levelId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req models.SpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	spot, err := h.api.AddSpotToLevel(r.Context(), levelID, req)
	if err != nil {
		relayError(w, "add spot", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "spot added", spot)
}

func (h *LotHandler) handleEnableSpot(w http.ResponseWriter, r *http.Request) {
	h.toggleSpot(w, r, h.api.EnableSpot, "spot enabled")
}

func (h *LotHandler) handleDisableSpot(w http.ResponseWriter, r *http.Request) {
	h.toggleSpot(w, r, h.api.DisableSpot, "spot disabled")
}

func (h *LotHandler) toggleSpot(w http.ResponseWriter, r *http.Request,
	toggle func(ctx context.Context, spotID int) (models.Spot, error), message string) {
	spotID, err := pathID(r, "spotId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	spot, err := toggle(r.Context(), spotID)
	if err != nil {
		relayError(w, message, err)
		return
	}
	respond.JSON(w, http.StatusOK, message, spot)
}

func (h *LotHandler) handleEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LevelID       int    `json:"levelId"`
		VehicleNumber string `json:"vehicleNumber"`
		Accessible    bool   `json:"accessible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.VehicleNumber = strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if req.VehicleNumber == "" {
		respond.Error(w, http.StatusBadRequest, "vehicleNumber is required")
		return
	}
	ticket, err := h.api.VehicleEntry(r.Context(), req.LevelID, req.VehicleNumber, req.Accessible)
	if err != nil {
		relayError(w, "vehicle entry", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "vehicle admitted", ticket)
}

func (h *LotHandler) handleExit(w http.ResponseWriter, r *http.Request) {
	ticketID, err := pathID(r, "ticketId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.api.VehicleExit(r.Context(), ticketID)
	if err != nil {
		relayError(w, "vehicle exit", err)
		return
	}
	respond.JSON(w, http.StatusOK, "vehicle released", ticket)
}
