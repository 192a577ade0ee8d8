// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/unoarena/unoarena/internal/agent"
	"github.com/unoarena/unoarena/internal/auth"
	"github.com/unoarena/unoarena/internal/cache"
	"github.com/unoarena/unoarena/internal/config"
	"github.com/unoarena/unoarena/internal/database"
	"github.com/unoarena/unoarena/internal/uno"
)

// attachWait bounds how long a new game waits for its remote seats to open
// their WebSocket connections before the dealer gives up on the game.
const attachWait = 5 * time.Minute

// GameServer holds the store of live dealers plus the per-game session
// bookkeeping (remote agents, attached connections) the transport needs.
type GameServer struct {
	Mutex     sync.Mutex
	GameStore *uno.GameStore
	Logger    *log.Logger
	Cfg       config.Config

	sessions map[uuid.UUID]*gameSession
}

// gameSession is the transport-side view of one game: which seats are remote
// and which WebSocket connections should receive broadcasts.
type gameSession struct {
	dealer *uno.Dealer
	names  map[uuid.UUID]string

	mu      sync.Mutex
	remotes map[uuid.UUID]*RemoteAgent
	conns   map[uuid.UUID]*websocket.Conn
}

func NewGameServer(logger *log.Logger, cfg config.Config) *GameServer {
	return &GameServer{
		GameStore: uno.NewGameStore(),
		Logger:    logger,
		Cfg:       cfg,
		sessions:  make(map[uuid.UUID]*gameSession),
	}
}

// SeatSpec describes one requested seat: a display name plus the agent kind
// ("greedy", "random", "first", or "remote" for a WebSocket-driven player).
type SeatSpec struct {
	Name  string `json:"name"`
	Agent string `json:"agent"`
}

// CreateGameRequest is the body of POST /game/create. Rules entries override
// the server defaults key by key.
type CreateGameRequest struct {
	Rules map[string]interface{} `json:"rules,omitempty"`
	Seats []SeatSpec             `json:"seats"`
	Seed  *int64                 `json:"seed,omitempty"`
}

// SeatGrant is the per-seat slice of a create response. Token is set only for
// remote seats; it must be presented when attaching the seat's WebSocket.
type SeatGrant struct {
	SeatID uuid.UUID `json:"seat_id"`
	Name   string    `json:"name"`
	Agent  string    `json:"agent"`
	Token  string    `json:"token,omitempty"`
}

// CreateGameResponse is returned from POST /game/create.
type CreateGameResponse struct {
	GameID uuid.UUID   `json:"game_id"`
	Seats  []SeatGrant `json:"seats"`
}

// CreateGame builds a dealer from the request, registers it, and launches
// the game loop in the background. Games with remote seats start once every
// remote seat has attached.
func (gs *GameServer) CreateGame(req CreateGameRequest) (*CreateGameResponse, error) {
	rules := uno.DefaultRules()
	if gs.Cfg.TurnTimerSec > 0 {
		rules.TurnTimerSec = gs.Cfg.TurnTimerSec
	}
	rules, err := uno.ParseRules(req.Rules, rules)
	if err != nil {
		return nil, fmt.Errorf("bad rules: %w", err)
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	session := &gameSession{
		names:   make(map[uuid.UUID]string),
		remotes: make(map[uuid.UUID]*RemoteAgent),
		conns:   make(map[uuid.UUID]*websocket.Conn),
	}

	var (
		seats  []uno.Seat
		grants []SeatGrant
	)
	for i, spec := range req.Seats {
		seatID := uuid.New()
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("player-%d", i+1)
		}

		var a uno.Agent
		if spec.Agent == "remote" {
			remote := NewRemoteAgent(name)
			session.remotes[seatID] = remote
			a = remote
		} else {
			if a, err = agent.New(spec.Agent, seed+int64(i)); err != nil {
				return nil, fmt.Errorf("seat %q: %w", name, err)
			}
		}

		seats = append(seats, uno.Seat{ID: seatID, Name: name, Agent: a})
		session.names[seatID] = name
		grants = append(grants, SeatGrant{SeatID: seatID, Name: name, Agent: spec.Agent})
	}

	dealer, err := uno.NewDealer(uno.DealerConfig{
		Rules: rules,
		Seed:  seed,
		Seats: seats,
		Logf:  gs.Logger.Printf,
		OnGameEnd: func(sum uno.Summary) {
			gs.finishGame(session, sum)
		},
	})
	if err != nil {
		return nil, err
	}
	session.dealer = dealer

	// Remote seats authenticate with a JWT bound to this game and seat.
	for i := range grants {
		if grants[i].Agent != "remote" {
			continue
		}
		tok, err := auth.CreateSeatToken(dealer.ID, grants[i].SeatID)
		if err != nil {
			return nil, fmt.Errorf("issue seat token: %w", err)
		}
		grants[i].Token = tok
	}

	historySink := cache.SinkFor(dealer.ID, gs.Logger.Printf)
	dealer.SetSink(func(r uno.Record) {
		historySink(r)
		session.broadcastRecord(gs.Logger, r)
	})

	gs.GameStore.AddGame(dealer)
	gs.Mutex.Lock()
	gs.sessions[dealer.ID] = session
	gs.Mutex.Unlock()

	go gs.runGame(session)

	return &CreateGameResponse{GameID: dealer.ID, Seats: grants}, nil
}

// runGame waits for remote seats, then drives the dealer to completion.
func (gs *GameServer) runGame(session *gameSession) {
	d := session.dealer

	ctx, cancel := context.WithTimeout(context.Background(), attachWait)
	for _, remote := range session.remoteAgents() {
		if err := remote.AwaitAttach(ctx); err != nil {
			cancel()
			gs.Logger.Warnf("game %s: remote seat %q never attached: %v", d.ID, remote.Name(), err)
			gs.dropGame(d.ID)
			return
		}
	}
	cancel()

	if _, err := d.Run(context.Background()); err != nil {
		gs.Logger.Errorf("game %s: run: %v", d.ID, err)
		gs.dropGame(d.ID)
	}
}

// finishGame broadcasts the terminal summary, persists results when a
// database is connected, and schedules the dealer's removal from the store.
func (gs *GameServer) finishGame(session *gameSession, sum uno.Summary) {
	gs.Logger.WithFields(log.Fields{
		"game":   sum.GameID,
		"winner": session.names[sum.Winner],
		"turns":  sum.Turns,
	}).Info("Game over")

	session.broadcast(gs.Logger, map[string]interface{}{
		"type":    "game_over",
		"summary": sum,
	})

	if database.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.RecordGameAndResults(ctx, sum, session.names); err != nil {
			gs.Logger.Errorf("persist game %s: %v", sum.GameID, err)
		}
	}

	// Keep the finished game around briefly so clients can fetch the final
	// state, then evict it.
	go func(id uuid.UUID) {
		time.Sleep(time.Minute)
		gs.dropGame(id)
	}(sum.GameID)
}

func (gs *GameServer) dropGame(id uuid.UUID) {
	gs.GameStore.DeleteGame(id)
	gs.Mutex.Lock()
	delete(gs.sessions, id)
	gs.Mutex.Unlock()
}

func (gs *GameServer) session(id uuid.UUID) (*gameSession, bool) {
	gs.Mutex.Lock()
	defer gs.Mutex.Unlock()
	s, ok := gs.sessions[id]
	return s, ok
}

func (s *gameSession) remoteAgents() []*RemoteAgent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*RemoteAgent, 0, len(s.remotes))
	for _, r := range s.remotes {
		out = append(out, r)
	}
	return out
}

func (s *gameSession) attach(seatID uuid.UUID, conn *websocket.Conn) (*RemoteAgent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remote, ok := s.remotes[seatID]
	if !ok {
		return nil, false
	}
	s.conns[seatID] = conn
	return remote, true
}

func (s *gameSession) detach(seatID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, seatID)
}

// broadcastRecord pushes a resolved turn to every attached seat. Called with
// the dealer lock held, so the writes happen on a separate goroutine.
func (s *gameSession) broadcastRecord(logger *log.Logger, r uno.Record) {
	s.broadcast(logger, map[string]interface{}{
		"type":   "turn_resolved",
		"record": r,
	})
}

func (s *gameSession) broadcast(logger *log.Logger, message interface{}) {
	s.mu.Lock()
	conns := make(map[uuid.UUID]*websocket.Conn, len(s.conns))
	for id, c := range s.conns {
		conns[id] = c
	}
	s.mu.Unlock()

	if len(conns) == 0 {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("marshal broadcast: %v", err)
		return
	}
	go func() {
		for seatID, conn := range conns {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("broadcast write to seat %s: %v", seatID, err)
			}
		}
	}()
}
