package handlers

import (
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

// VehicleHandler serves the vehicle registry screens, admin-only in the
// original navigation.
type VehicleHandler struct {
	sessions *session.Store
	api      *parking.Client
}

// NewVehicleHandler constructs the handler.
func NewVehicleHandler(sessions *session.Store, api *parking.Client) *VehicleHandler {
	return &VehicleHandler{sessions: sessions, api: api}
}

// Register wires vehicle routes behind the admin tier.
func (h *VehicleHandler) Register(mux *http.ServeMux) {
	admin := func(next http.HandlerFunc) http.Handler {
		return middleware.GuardFunc(h.sessions, guard.AdminOnly, next)
	}

	mux.Handle("GET /api/admin/vehicles", admin(h.handleList))
	mux.Handle("POST /api/admin/vehicles", admin(h.handleRegister))
	mux.Handle("GET /api/admin/vehicles/{plate}", admin(h.handleGet))
	mux.Handle("DELETE /api/admin/vehicles/{id}", admin(h.handleDelete))
}

func (h *VehicleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.api.Vehicles(r.Context())
	if err != nil {
		relayError(w, "list vehicles", err)
		return
	}
	respond.JSON(w, http.StatusOK, "vehicles", vehicles)
}

func (h *VehicleHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.LicensePlate = strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if req.LicensePlate == "" {
		respond.Error(w, http.StatusBadRequest, "licensePlate is required")
		return
	}
	vehicle, err := h.api.RegisterVehicle(r.Context(), req)
	if err != nil {
		relayError(w, "register vehicle", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "vehicle registered", vehicle)
}

func (h *VehicleHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	plate := r.PathValue("plate")
	vehicle, err := h.api.VehicleByPlate(r.Context(), plate)
	if err != nil {
		relayError(w, "get vehicle", err)
		return
	}
	respond.JSON(w, http.StatusOK, "vehicle", vehicle)
}

func (h *VehicleHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.api.DeleteVehicle(r.Context(), id); err != nil {
		relayError(w, "delete vehicle", err)
		return
	}
	respond.JSON(w, http.StatusOK, "vehicle deleted", nil)
}
