package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/kvstore/memory"
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/models/dto"
	"github.com/smartpark/parking-portal/internal/session"
)

func newAuthServer(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()
	sessions := session.New(memory.New(), 24*time.Hour)
	require.NoError(t, sessions.Resolve(context.Background()))

	mux := http.NewServeMux()
	NewAuthHandler(sessions).Register(mux)
	NewHomeHandler(sessions).Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, sessions
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) respond.Envelope {
	t.Helper()
	defer resp.Body.Close()
	var envelope respond.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func decodeSession(t *testing.T, resp *http.Response) dto.SessionResponse {
	t.Helper()
	envelope := decodeEnvelope(t, resp)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var out dto.SessionResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestLoginDetectsAdminRole(t *testing.T) {
	ts, _ := newAuthServer(t)

	resp := postJSON(t, ts.URL+"/api/auth/login", dto.LoginRequest{
		Email: "ADMIN@Parking.com", Password: "admin123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeSession(t, resp)
	assert.Equal(t, models.RoleAdmin, out.User.Role)
	assert.NotEmpty(t, out.Token)
	assert.False(t, out.NeedsPhone)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts, sessions := newAuthServer(t)

	resp := postJSON(t, ts.URL+"/api/auth/login", dto.LoginRequest{
		Email: "user@parking.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, session.Anonymous, sessions.State())
}

func TestUserLoginRefusesAdminAccount(t *testing.T) {
	ts, _ := newAuthServer(t)

	resp := postJSON(t, ts.URL+"/api/auth/login/user", dto.LoginRequest{
		Email: "admin@parking.com", Password: "admin123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterConflict(t *testing.T) {
	ts, _ := newAuthServer(t)

	resp := postJSON(t, ts.URL+"/api/auth/register", dto.RegisterRequest{
		Email: "new@example.com", Password: "pw", Name: "New",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/auth/register", dto.RegisterRequest{
		Email: "NEW@example.com", Password: "other", Name: "Other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterPhoneFlow(t *testing.T) {
	ts, _ := newAuthServer(t)
	client := ts.Client()

	resp := postJSON(t, ts.URL+"/api/auth/register", dto.RegisterRequest{
		Email: "driver@example.com", Password: "pw", Name: "Driver",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeSession(t, resp)
	assert.True(t, out.NeedsPhone)

	body, _ := json.Marshal(dto.PhoneRequest{Phone: "555-0100"})
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/auth/phone", bytes.NewReader(body))
	require.NoError(t, err)
	putResp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	updated := decodeSession(t, putResp)
	assert.False(t, updated.NeedsPhone)
	assert.Equal(t, "555-0100", updated.User.Phone)
}

func TestLogoutThenMeIsUnauthorized(t *testing.T) {
	ts, _ := newAuthServer(t)

	resp := postJSON(t, ts.URL+"/api/auth/login", dto.LoginRequest{
		Email: "user@parking.com", Password: "user123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	meResp, err := http.Get(ts.URL + "/api/auth/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
	envelope := decodeEnvelope(t, meResp)
	assert.Equal(t, "/login", envelope.Redirect)
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func TestHomeRedirectsByRole(t *testing.T) {
	ts, sessions := newAuthServer(t)
	client := noRedirectClient()

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()

	_, err = sessions.SignIn(context.Background(), "user@parking.com", "user123")
	require.NoError(t, err)
	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	resp.Body.Close()

	_, err = sessions.SignIn(context.Background(), "admin@parking.com", "admin123")
	require.NoError(t, err)
	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestHomeHoldsWhileUnresolved(t *testing.T) {
	sessions := session.New(memory.New(), 24*time.Hour)
	mux := http.NewServeMux()
	NewHomeHandler(sessions).Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
