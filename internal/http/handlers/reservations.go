package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/smartpark/parking-portal/internal/guard"
	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/middleware"
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/parking"
	"github.com/smartpark/parking-portal/internal/session"
)

// ReservationHandler serves the schedule-parking wizard and the reservation
// list screens.
type ReservationHandler struct {
	sessions *session.Store
	api      *parking.Client
	now      func() time.Time
}

// NewReservationHandler constructs the handler.
func NewReservationHandler(sessions *session.Store, api *parking.Client) *ReservationHandler {
	return &ReservationHandler{sessions: sessions, api: api, now: time.Now}
}

// Register wires reservation routes with their access tiers.
func (h *ReservationHandler) Register(mux *http.ServeMux) {
	authed := func(next http.HandlerFunc) http.Handler {
		return middleware.GuardFunc(h.sessions, guard.AnyAuthenticated, next)
	}

	mux.Handle("GET /api/reservations", authed(h.handleList))
	mux.Handle("GET /api/reservations/active", authed(h.handleActive))
	mux.Handle("GET /api/reservations/options", authed(h.handleOptions))
	mux.Handle("GET /api/reservations/{id}", authed(h.handleGet))
	mux.Handle("POST /api/reservations", authed(h.handleCreate))
	mux.Handle("DELETE /api/reservations/{id}", authed(h.handleCancel))
	mux.Handle("POST /api/reservations/{id}/check-in", authed(h.handleCheckIn))

	mux.Handle("GET /api/admin/reservations",
		middleware.GuardFunc(h.sessions, guard.AdminOnly, h.handleAdminList))
}

func (h *ReservationHandler) sessionUser(w http.ResponseWriter) (models.SessionUser, bool) {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		respond.Error(w, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
	}
	return user, ok
}

func (h *ReservationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	reservations, err := h.api.UserReservations(r.Context(), user.Email)
	if err != nil {
		relayError(w, "list reservations", err)
		return
	}
	respond.JSON(w, http.StatusOK, "reservations", reservations)
}

func (h *ReservationHandler) handleActive(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	reservations, err := h.api.ActiveReservations(r.Context(), user.Email)
	if err != nil {
		relayError(w, "list active reservations", err)
		return
	}
	respond.JSON(w, http.StatusOK, "active reservations", reservations)
}

// handleOptions feeds the wizard's date-and-time step: the selectable start
// times, the allowed date range, and, once a spot is chosen, its free
// windows for the selected date.
func (h *ReservationHandler) handleOptions(w http.ResponseWriter, r *http.Request) {
	minDate, maxDate := parking.DateBounds(h.now())
	payload := map[string]any{
		"timeOptions": parking.TimeOptions(),
		"minDate":     minDate,
		"maxDate":     maxDate,
	}

	query := r.URL.Query()
	if query.Get("spotId") != "" {
		spotID, err := strconv.Atoi(query.Get("spotId"))
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid spotId")
			return
		}
		date := query.Get("date")
		if date == "" {
			date = minDate
		}
		slots, err := h.api.AvailableSlots(r.Context(), spotID, date)
		if err != nil {
			relayError(w, "load slots", err)
			return
		}
		payload["availableSlots"] = slots
	}

	respond.JSON(w, http.StatusOK, "reservation options", payload)
}

func (h *ReservationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	reservation, err := h.api.Reservation(r.Context(), id, user.Email)
	if err != nil {
		relayError(w, "get reservation", err)
		return
	}
	respond.JSON(w, http.StatusOK, "reservation", reservation)
}

func (h *ReservationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	var req struct {
		VehicleNumber   string `json:"vehicleNumber"`
		SpotID          int    `json:"spotId"`
		LevelID         int    `json:"levelId"`
		Date            string `json:"date"`
		StartTime       string `json:"startTime"`
		DurationMinutes int    `json:"durationMinutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	req.VehicleNumber = strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if req.VehicleNumber == "" || req.SpotID == 0 || req.Date == "" || req.StartTime == "" {
		respond.Error(w, http.StatusBadRequest, "vehicleNumber, spotId, date, and startTime are required")
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}

	minDate, maxDate := parking.DateBounds(h.now())
	if req.Date < minDate || req.Date > maxDate {
		respond.Error(w, http.StatusBadRequest,
			"date must be between "+minDate+" and "+maxDate)
		return
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	endTime, err := parking.EndTime(req.Date, req.StartTime, duration)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid startTime")
		return
	}

	reservation, err := h.api.CreateReservation(r.Context(), models.CreateReservationRequest{
		UserID:        strconv.Itoa(user.ID),
		UserEmail:     user.Email,
		VehicleNumber: req.VehicleNumber,
		SpotID:        req.SpotID,
		LevelID:       req.LevelID,
		StartTime:     req.Date + "T" + req.StartTime + ":00",
		EndTime:       req.Date + "T" + endTime + ":00",
	})
	if err != nil {
		relayError(w, "create reservation", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "reservation confirmed", reservation)
}

func (h *ReservationHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.api.CancelReservation(r.Context(), id, user.Email); err != nil {
		relayError(w, "cancel reservation", err)
		return
	}
	respond.JSON(w, http.StatusOK, "reservation cancelled", nil)
}

func (h *ReservationHandler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	reservation, err := h.api.CheckIn(r.Context(), id, user.Email)
	if err != nil {
		relayError(w, "check in", err)
		return
	}
	respond.JSON(w, http.StatusOK, "checked in", reservation)
}

func (h *ReservationHandler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.api.AllReservations(r.Context())
	if err != nil {
		relayError(w, "list all reservations", err)
		return
	}
	respond.JSON(w, http.StatusOK, "reservations", reservations)
}
