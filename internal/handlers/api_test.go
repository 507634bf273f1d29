// internal/handlers/api_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordarena/wordarena/internal/auth"
	"github.com/wordarena/wordarena/internal/leaderboard"
)

func TestHealthHandler(t *testing.T) {
	gw := newTestGateway()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	gw.HealthHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["live_sessions"])
}

func TestLeaderboardHandler(t *testing.T) {
	gw := newTestGateway()
	a := gw.Manager.Players.GetOrCreate("A", "Alice")
	a.Stats.TotalScore = 10
	b := gw.Manager.Players.GetOrCreate("B", "Bob")
	b.Stats.TotalScore = 99

	req := httptest.NewRequest("GET", "/leaderboard?category=score&limit=1", nil)
	w := httptest.NewRecorder()
	gw.LeaderboardHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Category string              `json:"category"`
		Entries  []leaderboard.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "score", body.Category)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "Bob", body.Entries[0].DisplayName)

	// Unknown category is a client error.
	req = httptest.NewRequest("GET", "/leaderboard?category=charisma", nil)
	w = httptest.NewRecorder()
	gw.LeaderboardHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("GET", "/leaderboard?limit=0", nil)
	w = httptest.NewRecorder()
	gw.LeaderboardHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler(t *testing.T) {
	gw := newTestGateway()
	p := gw.Manager.Players.GetOrCreate("A", "Alice")
	p.Stats.TotalWords = 7

	req := httptest.NewRequest("GET", "/profile?id=A", nil)
	w := httptest.NewRecorder()
	gw.ProfileHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body["display_name"])

	req = httptest.NewRequest("GET", "/profile", nil)
	w = httptest.NewRecorder()
	gw.ProfileHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("GET", "/profile?id=nobody", nil)
	w = httptest.NewRecorder()
	gw.ProfileHandler(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminLoginAndGrant(t *testing.T) {
	auth.Init() // ephemeral keys, no DB needed
	hash, err := auth.HashAdminKey("sekrit", auth.Params)
	require.NoError(t, err)
	t.Setenv("ADMIN_KEY_HASH", hash)

	gw := newTestGateway()
	gw.Manager.Players.GetOrCreate("A", "Alice")

	// Wrong key is rejected.
	req := httptest.NewRequest("POST", "/admin/login", bytes.NewBufferString(`{"admin_key":"wrong"}`))
	w := httptest.NewRecorder()
	AdminLoginHandler(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Right key yields a service token.
	req = httptest.NewRequest("POST", "/admin/login", bytes.NewBufferString(`{"admin_key":"sekrit"}`))
	w = httptest.NewRecorder()
	AdminLoginHandler(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	// Granting without a token fails.
	req = httptest.NewRequest("POST", "/admin/grant_title", bytes.NewBufferString(`{"player_id":"A","title":"KAMI"}`))
	w = httptest.NewRecorder()
	gw.AdminGrantTitleHandler(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With the token, KAMI lands on the player.
	req = httptest.NewRequest("POST", "/admin/grant_title", bytes.NewBufferString(`{"player_id":"A","title":"kami"}`))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	gw.AdminGrantTitleHandler(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p, _ := gw.Manager.Players.Get("A")
	p.Mu.Lock()
	assert.True(t, p.Unlocked["KAMI"])
	p.Mu.Unlock()

	// Unknown titles are rejected.
	req = httptest.NewRequest("POST", "/admin/grant_title", bytes.NewBufferString(`{"player_id":"A","title":"OVERLORD"}`))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	gw.AdminGrantTitleHandler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown players are a 404.
	req = httptest.NewRequest("POST", "/admin/grant_title", bytes.NewBufferString(`{"player_id":"ghost","title":"KAMI"}`))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	gw.AdminGrantTitleHandler(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminLoginUnconfigured(t *testing.T) {
	t.Setenv("ADMIN_KEY_HASH", "")
	req := httptest.NewRequest("POST", "/admin/login", bytes.NewBufferString(`{"admin_key":"x"}`))
	w := httptest.NewRecorder()
	AdminLoginHandler(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
