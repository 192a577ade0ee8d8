// internal/uno/dealer.go
package uno

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the dealer's state-machine position.
type Phase string

const (
	PhaseAwaitingDeal Phase = "awaiting_deal"
	PhaseAwaitingMove Phase = "awaiting_move"
	PhaseResolving    Phase = "resolving"
	PhaseGameOver     Phase = "game_over"
)

// Summary is the terminal GameOver view: winner, final hand sizes and
// points, and the full history. Exposed read-only to statistics consumers.
type Summary struct {
	GameID         uuid.UUID         `json:"gameId"`
	Winner         uuid.UUID         `json:"winner"`
	Turns          int               `json:"turns"`
	FinalHandSizes map[uuid.UUID]int `json:"finalHandSizes"`
	HandPoints     map[uuid.UUID]int `json:"handPoints"`
	Reshuffles     int               `json:"reshuffles"`
	History        []Record          `json:"history"`
}

// DealerConfig configures a single game.
type DealerConfig struct {
	Rules RuleConfig
	Seed  int64
	Seats []Seat

	// StartSeat is the index into Seats of the player who moves first.
	StartSeat int

	// Sink, if set, receives every appended history record. Called with the
	// dealer lock held; implementations must not call back into the dealer.
	Sink func(Record)

	// OnGameEnd, if set, is invoked once with the terminal summary.
	OnGameEnd func(Summary)

	// Logf defaults to log.Printf.
	Logf func(format string, v ...interface{})
}

// Dealer is the sole authority over one game's state: it owns the deck, the
// hands, the turn pointer, and the history. Moves are strictly serialized;
// only one agent consultation is outstanding at a time, so the mutex guards
// against external snapshot readers, never against concurrent moves.
type Dealer struct {
	ID    uuid.UUID
	Rules RuleConfig

	mu    sync.Mutex
	phase Phase
	deck  *Deck
	hands map[uuid.UUID][]Card
	seats []Seat

	// active is the rotation of players still holding cards; cur indexes
	// into it. Players who go out are removed, shrinking the modulo base.
	active []uuid.UUID
	cur    int
	dir    Direction

	activeColor Color
	pendingDraw int

	// Wild Draw Four challenge window. wd4HadMatch is evaluated against the
	// player's hand at the moment the card was laid, since the hand may
	// change before a challenge arrives.
	challengeOpen bool
	wd4Player     uuid.UUID
	wd4HadMatch   bool

	turnIndex int
	history   HistoryLog

	winner uuid.UUID

	sink      func(Record)
	onGameEnd func(Summary)
	logf      func(format string, v ...interface{})
}

// NewDealer validates the seat list and returns a dealer in AwaitingDeal.
func NewDealer(cfg DealerConfig) (*Dealer, error) {
	if len(cfg.Seats) < 2 {
		return nil, fmt.Errorf("a game needs at least 2 seats, got %d", len(cfg.Seats))
	}
	if len(cfg.Seats) > 14 {
		return nil, fmt.Errorf("a 108-card deck supports at most 14 seats, got %d", len(cfg.Seats))
	}
	if cfg.StartSeat < 0 || cfg.StartSeat >= len(cfg.Seats) {
		return nil, fmt.Errorf("start seat %d out of range", cfg.StartSeat)
	}
	seen := map[uuid.UUID]bool{}
	for _, s := range cfg.Seats {
		if s.ID == uuid.Nil {
			return nil, fmt.Errorf("seat %q has no player id", s.Name)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate player id %s", s.ID)
		}
		seen[s.ID] = true
	}
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	d := &Dealer{
		ID:        uuid.New(),
		Rules:     cfg.Rules,
		phase:     PhaseAwaitingDeal,
		seats:     append([]Seat(nil), cfg.Seats...),
		cur:       cfg.StartSeat,
		dir:       Clockwise,
		sink:      cfg.Sink,
		onGameEnd: cfg.OnGameEnd,
		logf:      logf,
	}
	d.deck = NewShuffled(cfg.Seed)
	d.deck.OnReshuffle = func(kept Card, drawSize int) {
		d.logf("game %s: reshuffled discard pile into draw pile (%d cards), %s stays on top", d.ID, drawSize, kept)
	}
	return d, nil
}

// StartGame deals 7 cards to each seat, flips the first card, applies its
// start effect per the configured policy, and transitions to AwaitingMove.
func (d *Dealer) StartGame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase != PhaseAwaitingDeal {
		return fmt.Errorf("game %s already started (phase %s)", d.ID, d.phase)
	}

	ids := make([]uuid.UUID, len(d.seats))
	for i, s := range d.seats {
		ids[i] = s.ID
	}
	hands, err := d.deck.Deal(7, ids)
	if err != nil {
		return fmt.Errorf("initial deal: %w", err)
	}
	d.hands = hands
	d.active = ids

	if err := d.flipFirstCard(); err != nil {
		return err
	}

	d.phase = PhaseAwaitingMove
	d.checkConservation()
	d.logf("game %s: dealt 7 cards to %d players, first card %s, %s to move",
		d.ID, len(d.seats), d.mustTop(), d.currentID())
	return nil
}

// flipFirstCard seeds the discard pile. Under RedrawFirstCard any flipped
// action card stays buried in the discard pile and another card is flipped;
// under ApplyFirstCard the card's start-of-game effect runs (a Wild Draw
// Four is still re-flipped, per the standard rule). Assumes lock held.
func (d *Dealer) flipFirstCard() error {
	for {
		c, err := d.deck.FlipFirst()
		if err != nil {
			return err
		}
		d.activeColor = c.Color

		if d.Rules.FirstCard == RedrawFirstCard {
			if c.IsAction() {
				d.logf("game %s: first flip %s is an action card, flipping again", d.ID, c)
				continue
			}
			return nil
		}

		switch c.Rank {
		case WildDrawFour:
			d.logf("game %s: first flip %s goes back, flipping again", d.ID, c)
			continue
		case Skip:
			d.advance(1)
		case Reverse:
			d.dir = CounterClockwise
		case DrawTwo:
			first := d.currentID()
			n := d.drawInto(first, 2)
			d.logf("game %s: first card %s, %s draws %d and is skipped", d.ID, c, first, n)
			d.advance(1)
		case Wild:
			// The first player effectively declares the color by playing
			// any card: ColorWild on top matches everything.
		}
		return nil
	}
}

// Snapshot recomputes the public state from the authoritative state. Safe
// for any goroutine; identical across calls with no intervening move.
func (d *Dealer) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dealer) snapshotLocked() Snapshot {
	sizes := make([]HandSize, 0, len(d.active))
	for _, id := range d.active {
		sizes = append(sizes, HandSize{PlayerID: id, Cards: len(d.hands[id])})
	}
	top, _ := d.deck.Top()
	return Snapshot{
		GameID:           d.ID,
		TurnIndex:        d.turnIndex,
		CurrentPlayer:    d.currentID(),
		Direction:        d.dir,
		TopCard:          top,
		ActiveColor:      d.activeColor,
		PendingDraw:      d.pendingDraw,
		ChallengeOpen:    d.challengeOpen && d.Rules.ChallengeEnabled,
		DrawPileCount:    d.deck.DrawCount(),
		DiscardPileCount: d.deck.DiscardCount(),
		HandSizes:        sizes,
		HistoryLength:    d.history.Len(),
	}
}

// SetSink installs (or replaces) the history record sink. Useful when the
// sink needs the dealer's generated ID, which NewDealer assigns.
func (d *Dealer) SetSink(sink func(Record)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = sink
}

// Hand returns a copy of one player's hand. Only the transport for that
// player's own seat may see it.
func (d *Dealer) Hand(playerID uuid.UUID) []Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Card(nil), d.hands[playerID]...)
}

// Phase returns the current state-machine position.
func (d *Dealer) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// History returns a copy of the append-only record sequence.
func (d *Dealer) History() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Records()
}

// Summary builds the terminal view. Valid once the game is over.
func (d *Dealer) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summaryLocked()
}

func (d *Dealer) summaryLocked() Summary {
	sizes := make(map[uuid.UUID]int, len(d.seats))
	points := make(map[uuid.UUID]int, len(d.seats))
	for _, s := range d.seats {
		sizes[s.ID] = len(d.hands[s.ID])
		total := 0
		for _, c := range d.hands[s.ID] {
			total += c.Points()
		}
		points[s.ID] = total
	}
	return Summary{
		GameID:         d.ID,
		Winner:         d.winner,
		Turns:          d.turnIndex,
		FinalHandSizes: sizes,
		HandPoints:     points,
		Reshuffles:     d.deck.Reshuffles(),
		History:        d.history.Records(),
	}
}

// proposal carries an agent's answer back to the turn loop.
type proposal struct {
	move Move
	err  error
}

// PlayTurn runs one full consultation: snapshot the state, ask the current
// agent for a move under the configured timeout, then validate and resolve
// it (or run the forfeit policy). Returns the appended record.
func (d *Dealer) PlayTurn(ctx context.Context) (Record, error) {
	d.mu.Lock()
	if d.phase != PhaseAwaitingMove {
		d.mu.Unlock()
		return Record{}, fmt.Errorf("game %s is not awaiting a move (phase %s)", d.ID, d.phase)
	}
	snap := d.snapshotLocked()
	playerID := d.currentID()
	seat := d.seatOf(playerID)
	hand := append([]Card(nil), d.hands[playerID]...)
	d.mu.Unlock()

	tctx := ctx
	var cancel context.CancelFunc
	if d.Rules.TurnTimerSec > 0 {
		tctx, cancel = context.WithTimeout(ctx, time.Duration(d.Rules.TurnTimerSec)*time.Second)
		defer cancel()
	}

	// The buffered channel makes a late response harmless: nothing reads it
	// after this turn, so a slow agent's eventual answer is discarded.
	ch := make(chan proposal, 1)
	go func() {
		m, err := seat.Agent.ProposeMove(tctx, d.Rules, snap, hand)
		ch <- proposal{move: m, err: err}
	}()

	var p proposal
	select {
	case <-tctx.Done():
		p = proposal{err: fmt.Errorf("agent %s: %w", seat.Name, tctx.Err())}
	case p = <-ch:
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.phase != PhaseAwaitingMove {
		return Record{}, fmt.Errorf("game %s ended while consulting %s", d.ID, seat.Name)
	}

	d.phase = PhaseResolving
	var rec Record
	switch {
	case p.err != nil:
		d.logf("game %s: agent %s failed (%v), forfeiting turn", d.ID, seat.Name, p.err)
		rec = d.resolveForfeit(playerID, nil, p.err.Error(), "")
	default:
		if verr := Validate(d.Rules, snap, playerID, hand, p.move); verr != nil {
			d.logf("game %s: agent %s proposed illegal move %s (%v), forfeiting turn", d.ID, seat.Name, p.move, verr)
			attempted := p.move
			rec = d.resolveForfeit(playerID, &attempted, verr.Error(), KindOf(verr))
		} else {
			rec = d.resolve(playerID, p.move, nil)
		}
	}

	d.checkConservation()
	if d.phase == PhaseResolving {
		d.phase = PhaseAwaitingMove
	}
	return rec, nil
}

// Run drives the game from deal to GameOver and returns the summary.
func (d *Dealer) Run(ctx context.Context) (Summary, error) {
	if err := d.StartGame(); err != nil {
		return Summary{}, err
	}
	for d.Phase() != PhaseGameOver {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		if _, err := d.PlayTurn(ctx); err != nil {
			return Summary{}, err
		}
	}
	return d.Summary(), nil
}

// resolveForfeit applies the forfeit policy: substitute a safe legal move
// (PassAfterForcedDraw when a forced draw is pending, DrawCard otherwise),
// record the original attempt alongside the substitution, and advance
// normally. A misbehaving agent never stalls the game. Assumes lock held.
func (d *Dealer) resolveForfeit(playerID uuid.UUID, attempted *Move, reason string, kind ErrKind) Record {
	sub := DrawCard()
	if d.pendingDraw > 0 {
		sub = PassAfterForcedDraw()
	}
	note := &ForfeitNote{Attempted: attempted, Reason: reason, Kind: kind}
	return d.resolve(playerID, sub, note)
}

// currentID returns the player whose turn it is. Assumes lock held.
func (d *Dealer) currentID() uuid.UUID {
	return d.active[d.cur]
}

func (d *Dealer) seatOf(id uuid.UUID) Seat {
	for _, s := range d.seats {
		if s.ID == id {
			return s
		}
	}
	return Seat{}
}

// advance moves the turn pointer steps positions in the play direction,
// wrapping over the active rotation. Assumes lock held.
func (d *Dealer) advance(steps int) {
	n := len(d.active)
	if n == 0 {
		return
	}
	d.cur = ((d.cur+steps*int(d.dir))%n + n) % n
}

// checkConservation asserts the 108-card invariant. A violation is an
// engine bug and aborts the game loudly rather than being tolerated.
// Assumes lock held.
func (d *Dealer) checkConservation() {
	total := d.deck.DrawCount() + d.deck.DiscardCount()
	for _, h := range d.hands {
		total += len(h)
	}
	if total != DeckSize {
		panic(fmt.Sprintf("game %s: card conservation violated: %d cards accounted for, want %d", d.ID, total, DeckSize))
	}
}

func (d *Dealer) mustTop() Card {
	c, _ := d.deck.Top()
	return c
}
