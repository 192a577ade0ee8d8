// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/unoarena/unoarena/internal/uno"
)

// ServeHTTP routes the /game endpoints. The WebSocket attach route lives in
// game_ws.go; see GameWSHandler.
func (gs *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/game/create" && r.Method == http.MethodPost:
		gs.handleCreateGame(w, r)
	case strings.HasPrefix(r.URL.Path, "/game/state/") && r.Method == http.MethodGet:
		gs.handleState(w, r)
	case strings.HasPrefix(r.URL.Path, "/game/history/") && r.Method == http.MethodGet:
		gs.handleHistory(w, r)
	default:
		http.Error(w, "unsupported route, use /game/ws/{id} for websockets", http.StatusNotFound)
	}
}

// handleCreateGame creates a dealer from the posted rules and seat list and
// returns the game id plus one grant per seat (with tokens for remote seats).
func (gs *GameServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	resp, err := gs.CreateGame(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleState returns the public snapshot of a live game. Hands stay hidden;
// only per-seat counts are exposed.
func (gs *GameServer) handleState(w http.ResponseWriter, r *http.Request) {
	d, ok := gs.gameFromPath(w, r, "/game/state/")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"phase":    d.Phase(),
		"snapshot": d.Snapshot(),
	})
}

// handleHistory returns the full ordered record sequence for a game.
func (gs *GameServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	d, ok := gs.gameFromPath(w, r, "/game/history/")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": d.ID,
		"history": d.History(),
	})
}

func (gs *GameServer) gameFromPath(w http.ResponseWriter, r *http.Request, prefix string) (*uno.Dealer, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	gameID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return nil, false
	}
	d, ok := gs.GameStore.GetGame(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
