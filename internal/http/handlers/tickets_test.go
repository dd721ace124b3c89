package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpark/parking-portal/internal/kvstore/memory"
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/parking"
	"github.com/smartpark/parking-portal/internal/session"
)

// newPortal stands up the ticket and lot routes in front of a fake parking
// service. The session store starts resolved and anonymous.
func newPortal(t *testing.T, remote http.Handler) (*httptest.Server, *session.Store) {
	t.Helper()
	upstream := httptest.NewServer(remote)
	t.Cleanup(upstream.Close)

	sessions := session.New(memory.New(), 24*time.Hour)
	require.NoError(t, sessions.Resolve(context.Background()))
	api := parking.NewClient(upstream.URL, 5*time.Second)

	mux := http.NewServeMux()
	NewTicketHandler(sessions, api).Register(mux)
	NewLotHandler(sessions, api).Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, sessions
}

func signInAs(t *testing.T, sessions *session.Store, email, password string) {
	t.Helper()
	_, err := sessions.SignIn(context.Background(), email, password)
	require.NoError(t, err)
}

func TestAnonymousIsRedirectedToSignIn(t *testing.T) {
	ts, _ := newPortal(t, http.NotFoundHandler())

	resp, err := http.Get(ts.URL + "/api/tickets")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "/login", envelope.Redirect)
}

func TestUserIsDeniedAdminRoutes(t *testing.T) {
	ts, sessions := newPortal(t, http.NotFoundHandler())
	signInAs(t, sessions, "user@parking.com", "user123")

	resp, err := http.Get(ts.URL + "/api/admin/tickets")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "/dashboard", envelope.Redirect)
}

func TestUnresolvedStoreHoldsRequests(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()
	sessions := session.New(memory.New(), 24*time.Hour)
	api := parking.NewClient(upstream.URL, 5*time.Second)

	mux := http.NewServeMux()
	NewTicketHandler(sessions, api).Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/tickets")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestNewTicketScreenMergesParallelFetches(t *testing.T) {
	remote := http.NewServeMux()
	remote.HandleFunc("GET /parking/spots/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Spot{
			{ID: 10, Status: models.SpotAvailable},
			{ID: 11, Status: models.SpotAvailable},
			{ID: 12, Status: models.SpotOccupied, IsOccupied: true},
		})
	})
	remote.HandleFunc("GET /reservations/blocked-spots", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("levelId"))
		json.NewEncoder(w).Encode([]int{11})
	})

	ts, sessions := newPortal(t, remote)
	signInAs(t, sessions, "user@parking.com", "user123")

	resp, err := http.Get(ts.URL + "/api/tickets/new?levelId=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var screen struct {
		Spots        []models.Spot `json:"spots"`
		BlockedSpots []int         `json:"blockedSpots"`
		OpenSpots    []models.Spot `json:"openSpots"`
	}
	require.NoError(t, json.Unmarshal(raw, &screen))

	assert.Len(t, screen.Spots, 2)
	assert.Equal(t, []int{11}, screen.BlockedSpots)
	require.Len(t, screen.OpenSpots, 1)
	assert.Equal(t, 10, screen.OpenSpots[0].ID)
}

func TestCreateTicketUsesSessionIdentity(t *testing.T) {
	var got models.CreateTicketRequest
	remote := http.NewServeMux()
	remote.HandleFunc("POST /ticketing/user/create", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(models.Ticket{ID: 7, UserEmail: got.UserEmail})
	})

	ts, sessions := newPortal(t, remote)
	signInAs(t, sessions, "user@parking.com", "user123")

	resp := postJSON(t, ts.URL+"/api/tickets", map[string]any{
		"vehicleNumber": "ka-01-1234",
		"spotId":        10,
		"levelId":       1,
		"userEmail":     "spoofed@evil.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, "user@parking.com", got.UserEmail)
	assert.Equal(t, "KA-01-1234", got.VehicleNumber)
}

func TestRemoteFailureRelaysStatus(t *testing.T) {
	remote := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "spot already taken"})
	})

	ts, sessions := newPortal(t, remote)
	signInAs(t, sessions, "user@parking.com", "user123")

	resp := postJSON(t, ts.URL+"/api/tickets", map[string]any{
		"vehicleNumber": "KA-01-1234", "spotId": 10, "levelId": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "spot already taken", envelope.Message)
}
