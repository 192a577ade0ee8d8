// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unoarena/unoarena/internal/auth"
	"github.com/unoarena/unoarena/internal/middleware"
	"github.com/unoarena/unoarena/internal/uno"
)

// SeatMessage is the envelope for client messages on a seat connection.
type SeatMessage struct {
	Type string    `json:"type"`
	Move *uno.Move `json:"move,omitempty"`
}

// turnRequest is pushed to a remote seat when the dealer wants its move.
type turnRequest struct {
	Type       string       `json:"type"`
	Snapshot   uno.Snapshot `json:"snapshot"`
	Hand       []uno.Card   `json:"hand"`
	DeadlineMS int64        `json:"deadlineMs,omitempty"`
}

// RemoteAgent bridges the dealer's Agent interface to a WebSocket seat. The
// WS read loop feeds client moves into the pending channel; ProposeMove sends
// the turn request and waits for the next move or the dealer's deadline.
type RemoteAgent struct {
	name string

	mu       sync.Mutex
	conn     *websocket.Conn
	attached chan struct{}
	once     sync.Once

	pending chan uno.Move
}

func NewRemoteAgent(name string) *RemoteAgent {
	return &RemoteAgent{
		name:     name,
		attached: make(chan struct{}),
		pending:  make(chan uno.Move, 1),
	}
}

func (a *RemoteAgent) Name() string { return a.name }

// Attach binds a live connection to the seat. A reconnect replaces the
// previous connection.
func (a *RemoteAgent) Attach(conn *websocket.Conn) {
	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	a.once.Do(func() { close(a.attached) })
}

// Detach clears the connection if it is still the bound one.
func (a *RemoteAgent) Detach(conn *websocket.Conn) {
	a.mu.Lock()
	if a.conn == conn {
		a.conn = nil
	}
	a.mu.Unlock()
}

// AwaitAttach blocks until the seat's first connection arrives.
func (a *RemoteAgent) AwaitAttach(ctx context.Context) error {
	select {
	case <-a.attached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliver hands a client move to a waiting ProposeMove. Stale moves sent
// outside a turn are dropped once the buffer is full.
func (a *RemoteAgent) deliver(m uno.Move) {
	select {
	case a.pending <- m:
	default:
	}
}

// ProposeMove pushes a turn request to the seat and waits for the reply. The
// dealer cancels ctx at the turn deadline; a move arriving after that is
// discarded by the dealer, not by us.
func (a *RemoteAgent) ProposeMove(ctx context.Context, rules uno.RuleConfig, snap uno.Snapshot, hand []uno.Card) (uno.Move, error) {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil {
		return uno.Move{}, fmt.Errorf("seat %q has no live connection", a.name)
	}

	// Stale replies from an earlier turn must not satisfy this one.
	select {
	case <-a.pending:
	default:
	}

	req := turnRequest{Type: "turn_request", Snapshot: snap, Hand: hand}
	if deadline, ok := ctx.Deadline(); ok {
		req.DeadlineMS = time.Until(deadline).Milliseconds()
	}
	data, err := json.Marshal(req)
	if err != nil {
		return uno.Move{}, err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return uno.Move{}, fmt.Errorf("write turn request: %w", err)
	}

	select {
	case m := <-a.pending:
		return m, nil
	case <-ctx.Done():
		return uno.Move{}, ctx.Err()
	}
}

// GameWSHandler upgrades the HTTP connection to a WebSocket seat for a game.
// The URL is /game/ws/{game_id}; the seat token rides in the "token" query
// parameter or a seat_token cookie. After auth the connection is bound to the
// seat's RemoteAgent and the read loop routes incoming moves to it.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/game/ws/")
		if i := strings.IndexByte(idStr, '/'); i >= 0 {
			idStr = idStr[:i]
		}
		gameID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "invalid game id (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}

		d, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		session, ok := gs.session(gameID)
		if !ok {
			http.Error(w, "game has already ended", http.StatusGone)
			return
		}

		tokenGame, seatID, err := auth.AuthenticateSeatToken(seatTokenFromRequest(r))
		if err != nil {
			http.Error(w, "invalid seat token", http.StatusForbidden)
			return
		}
		if tokenGame != gameID {
			http.Error(w, "token was issued for a different game", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // tighten for production deployments
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "uno" {
			c.Close(BadSubprotocolError, "client must use the 'uno' subprotocol")
			return
		}

		remote, ok := session.attach(seatID, c)
		if !ok {
			c.Close(UnknownSeatError, "seat is not remote or does not exist in this game")
			return
		}
		remote.Attach(c)
		middleware.LogSeatConnect(logger, gameID, seatID, r.RemoteAddr)

		readErr := readSeatMessages(r.Context(), c, remote, d, seatID, logger)

		remote.Detach(c)
		session.detach(seatID)
		middleware.LogSeatDisconnect(logger, gameID, seatID, readErr)
	}
}

// readSeatMessages reads client messages until the connection drops, routing
// move replies to the seat's RemoteAgent.
func readSeatMessages(ctx context.Context, c *websocket.Conn, remote *RemoteAgent, d *uno.Dealer, seatID uuid.UUID, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg SeatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("seat %s in game %s sent invalid JSON: %v", seatID, d.ID, err)
			sendWsError(ctx, c, "invalid JSON")
			continue
		}

		switch msg.Type {
		case "move":
			if msg.Move == nil {
				sendWsError(ctx, c, "move message without a move")
				continue
			}
			remote.deliver(*msg.Move)

		case "hand":
			// Private view; only the seat's own hand is ever sent.
			sendWsMessage(ctx, c, map[string]interface{}{
				"type": "hand",
				"hand": d.Hand(seatID),
			})

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		default:
			sendWsError(ctx, c, fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

// sendWsMessage marshals and writes a message with its own write timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Write(writeCtx, websocket.MessageText, data)
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
