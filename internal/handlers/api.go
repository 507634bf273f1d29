// internal/handlers/api.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/wordarena/wordarena/internal/achievements"
	"github.com/wordarena/wordarena/internal/auth"
	"github.com/wordarena/wordarena/internal/database"
	"github.com/wordarena/wordarena/internal/leaderboard"
)

// HealthHandler reports liveness plus a couple of cheap gauges for probes.
func (gw *Gateway) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "ok",
		"live_sessions": gw.Manager.Sessions.Count(),
	})
}

// LeaderboardHandler serves the ranked player list as JSON. Query params:
// category (score|words|streak|longest, default score) and limit (default 10).
func (gw *Gateway) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	category, ok := leaderboard.ParseCategory(r.URL.Query().Get("category"))
	if !ok {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	var entries []leaderboard.Entry
	var err error
	if database.DB != nil {
		entries, err = database.TopPlayers(r.Context(), category, limit)
	} else {
		entries, err = leaderboard.Top(gw.Manager.Players.Snapshot(), category, limit)
	}
	if err != nil {
		log.Errorf("leaderboard query failed: %v", err)
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"category": category,
		"entries":  entries,
	})
}

// ProfileHandler serves one player's public record. The player id comes from
// the ?id= query param.
func (gw *Gateway) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	p, ok := gw.Manager.Players.Get(id)
	if !ok && database.DB != nil {
		dbPlayer, err := database.GetPlayer(r.Context(), id)
		if err != nil {
			log.Errorf("profile lookup failed for %s: %v", id, err)
			http.Error(w, "profile unavailable", http.StatusInternalServerError)
			return
		}
		p = dbPlayer
	}
	if p == nil {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}

	p.Mu.Lock()
	defer p.Mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

type adminLoginRequest struct {
	AdminKey string `json:"admin_key"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

// AdminLoginHandler exchanges the operator's admin key for a short-lived
// service token. The key is verified against the ADMIN_KEY_HASH argon2id
// digest from the environment.
func AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	encodedHash := os.Getenv("ADMIN_KEY_HASH")
	if encodedHash == "" {
		http.Error(w, "admin access not configured", http.StatusServiceUnavailable)
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	match, err := auth.CompareAdminKeyAndHash(req.AdminKey, encodedHash)
	if err != nil || !match {
		log.Warnf("admin login rejected from %s", r.RemoteAddr)
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	token, err := auth.CreateServiceToken("admin")
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(adminLoginResponse{Token: token})
}

type grantTitleRequest struct {
	PlayerID string `json:"player_id"`
	Title    string `json:"title"`
}

// AdminGrantTitleHandler unlocks a title outside the rule set, KAMI included.
// Requires a bearer service token from AdminLoginHandler.
func (gw *Gateway) AdminGrantTitleHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	subject, err := auth.AuthenticateServiceToken(token)
	if err != nil || subject != "admin" {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	var req grantTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "missing player_id", http.StatusBadRequest)
		return
	}

	p, ok := gw.Manager.Players.Get(req.PlayerID)
	if !ok && database.DB != nil {
		dbPlayer, lookupErr := database.GetPlayer(r.Context(), req.PlayerID)
		if lookupErr != nil {
			http.Error(w, "player lookup failed", http.StatusInternalServerError)
			return
		}
		if dbPlayer != nil {
			// GetOrCreate consults the store's persistence loader, so the
			// grant lands on the canonical in-memory record.
			p = gw.Manager.Players.GetOrCreate(req.PlayerID, dbPlayer.DisplayName)
		}
	}
	if p == nil {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}

	title := strings.ToUpper(req.Title)
	p.Mu.Lock()
	err = achievements.Grant(p, title)
	p.Mu.Unlock()
	if err != nil {
		if errors.Is(err, achievements.ErrUnknownTitle) {
			http.Error(w, "unknown title", http.StatusBadRequest)
			return
		}
		http.Error(w, "grant failed", http.StatusInternalServerError)
		return
	}
	gw.persist(p.ID)

	log.WithFields(log.Fields{"player": p.ID, "title": title}).Info("title granted by admin")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"player_id": p.ID, "title": title})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
