package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/smartpark/parking-portal/internal/guard"
	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/middleware"
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/parking"
	"github.com/smartpark/parking-portal/internal/session"
)

// TicketHandler serves the ticket screens. User-scoped endpoints always act
// as the signed-in session: the owner email comes from the session store,
// never from the request.
type TicketHandler struct {
	sessions *session.Store
	api      *parking.Client
}

// NewTicketHandler constructs the handler.
func NewTicketHandler(sessions *session.Store, api *parking.Client) *TicketHandler {
	return &TicketHandler{sessions: sessions, api: api}
}

// Register wires ticket and payment routes with their access tiers.
func (h *TicketHandler) Register(mux *http.ServeMux) {
	authed := func(next http.HandlerFunc) http.Handler {
		return middleware.GuardFunc(h.sessions, guard.AnyAuthenticated, next)
	}
	admin := func(next http.HandlerFunc) http.Handler {
		return middleware.GuardFunc(h.sessions, guard.AdminOnly, next)
	}

	mux.Handle("GET /api/tickets", authed(h.handleList))
	mux.Handle("GET /api/tickets/active", authed(h.handleActive))
	mux.Handle("GET /api/tickets/new", authed(h.handleNewTicketScreen))
	mux.Handle("GET /api/tickets/{ticketId}", authed(h.handleGet))
	mux.Handle("POST /api/tickets", authed(h.handleCreate))
	mux.Handle("PUT /api/tickets/{ticketId}/exit", authed(h.handleUserExit))

	mux.Handle("POST /api/payments", authed(h.handleCreatePayment))
	mux.Handle("POST /api/payments/verify", authed(h.handleVerifyPayment))

	mux.Handle("GET /api/admin/tickets", admin(h.handleAdminList))
	mux.Handle("GET /api/admin/tickets/active", admin(h.handleAdminActive))
	mux.Handle("GET /api/admin/tickets/{ticketId}", admin(h.handleAdminGet))
	mux.Handle("PUT /api/admin/tickets/{ticketId}/exit", admin(h.handleAdminExit))
	mux.Handle("GET /api/admin/system-stats", admin(h.handleSystemStats))
}

func (h *TicketHandler) sessionUser(w http.ResponseWriter) (models.SessionUser, bool) {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		respond.Error(w, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
	}
	return user, ok
}

func (h *TicketHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	tickets, err := h.api.UserTickets(r.Context(), user.Email)
	if err != nil {
		relayError(w, "list tickets", err)
		return
	}
	respond.JSON(w, http.StatusOK, "tickets", tickets)
}

func (h *TicketHandler) handleActive(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	tickets, err := h.api.UserActiveTickets(r.Context(), user.Email)
	if err != nil {
		relayError(w, "list active tickets", err)
		return
	}
	respond.JSON(w, http.StatusOK, "active tickets", tickets)
}

// handleNewTicketScreen assembles the create-ticket screen data: available
// spots and reservation-blocked spot ids for a level, fetched in parallel.
// Neither fetch depends on the other's ordering.
func (h *TicketHandler) handleNewTicketScreen(w http.ResponseWriter, r *http.Request) {
	levelID, err := strconv.Atoi(r.URL.Query().Get("levelId"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid levelId")
		return
	}
	accessible := r.URL.Query().Get("accessible") == "true"

	var (
		spots              []models.Spot
		blocked            []int
		spotsErr, blockErr error
	)
	done := make(chan struct{}, 2)
	go func() {
		spots, spotsErr = h.api.SpotsByLevel(r.Context(), levelID, accessible)
		done <- struct{}{}
	}()
	go func() {
		blocked, blockErr = h.api.BlockedSpots(r.Context(), levelID)
		done <- struct{}{}
	}()
	<-done
	<-done

	if spotsErr != nil {
		relayError(w, "load spots", spotsErr)
		return
	}
	if blockErr != nil {
		relayError(w, "load blocked spots", blockErr)
		return
	}

	available := parking.AvailableSpots(spots)
	respond.JSON(w, http.StatusOK, "new ticket screen", map[string]any{
		"spots":        available,
		"blockedSpots": blocked,
		"openSpots":    parking.UnblockedSpots(available, blocked),
	})
}

func (h *TicketHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	ticketID, err := pathID(r, "ticketId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.api.UserTicket(r.Context(), ticketID, user.Email)
	if err != nil {
		relayError(w, "get ticket", err)
		return
	}
	respond.JSON(w, http.StatusOK, "ticket", ticket)
}

func (h *TicketHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	var req struct {
		VehicleNumber string `json:"vehicleNumber"`
		SpotID        int    `json:"spotId"`
		LevelID       int    `json:"levelId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.VehicleNumber = strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if req.VehicleNumber == "" || req.SpotID == 0 {
		respond.Error(w, http.StatusBadRequest, "vehicleNumber and spotId are required")
		return
	}

	ticket, err := h.api.CreateUserTicket(r.Context(), models.CreateTicketRequest{
		UserID:        strconv.Itoa(user.ID),
		UserEmail:     user.Email,
		VehicleNumber: req.VehicleNumber,
		SpotID:        req.SpotID,
		LevelID:       req.LevelID,
	})
	if err != nil {
		relayError(w, "create ticket", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "ticket created", ticket)
}

func (h *TicketHandler) handleUserExit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	ticketID, err := pathID(r, "ticketId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.api.ExitUserVehicle(r.Context(), ticketID, user.Email)
	if err != nil {
		relayError(w, "exit vehicle", err)
		return
	}
	respond.JSON(w, http.StatusOK, "vehicle exited", ticket)
}

func (h *TicketHandler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	payment, err := h.api.CreatePayment(r.Context(), req)
	if err != nil {
		relayError(w, "create payment", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "payment created", payment)
}

func (h *TicketHandler) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentVerification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	payment, err := h.api.VerifyPayment(r.Context(), req)
	if err != nil {
		relayError(w, "verify payment", err)
		return
	}
	respond.JSON(w, http.StatusOK, "payment verified", payment)
}

func (h *TicketHandler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.api.AllTickets(r.Context())
	if err != nil {
		relayError(w, "list all tickets", err)
		return
	}
	respond.JSON(w, http.StatusOK, "tickets", tickets)
}

func (h *TicketHandler) handleAdminActive(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.api.AllActiveTickets(r.Context())
	if err != nil {
		relayError(w, "list all active tickets", err)
		return
	}
	respond.JSON(w, http.StatusOK, "active tickets", tickets)
}

func (h *TicketHandler) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	ticketID, err := pathID(r, "ticketId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.api.AdminTicket(r.Context(), ticketID)
	if err != nil {
		relayError(w, "get ticket", err)
		return
	}
	respond.JSON(w, http.StatusOK, "ticket", ticket)
}

func (h *TicketHandler) handleAdminExit(w http.ResponseWriter, r *http.Request) {
	ticketID, err := pathID(r, "ticketId")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ticket, err := h.api.AdminExit(r.Context(), ticketID)
	if err != nil {
		relayError(w, "admin exit", err)
		return
	}
	respond.JSON(w, http.StatusOK, "vehicle exited", ticket)
}

func (h *TicketHandler) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.api.SystemStats(r.Context())
	if err != nil {
		relayError(w, "system stats", err)
		return
	}
	respond.JSON(w, http.StatusOK, "system stats", stats)
}
