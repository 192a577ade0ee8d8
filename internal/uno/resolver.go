// internal/uno/resolver.go
package uno

import "github.com/google/uuid"

// resolve applies a validated (or dealer-substituted) move to the
// authoritative state, appends the history record, and advances the turn.
// All card-effect semantics live here. Assumes lock held.
func (d *Dealer) resolve(playerID uuid.UUID, m Move, forfeit *ForfeitNote) Record {
	drawn := 0

	switch m.Type {
	case MovePlayCard:
		drawn = d.resolvePlay(playerID, m)

	case MoveDrawCard:
		drawn = d.drawInto(playerID, 1)
		d.advance(1)

	case MovePassAfterForcedDraw:
		drawn = d.drawInto(playerID, d.pendingDraw)
		d.pendingDraw = 0
		d.challengeOpen = false
		d.advance(1)

	case MoveChallengeWD4:
		drawn = d.resolveChallenge(playerID)
	}

	top, _ := d.deck.Top()
	rec := d.history.Append(Record{
		TurnIndex:      d.turnIndex,
		PlayerID:       playerID,
		Move:           m,
		Forfeit:        forfeit,
		ResultingTop:   top,
		ActiveColor:    d.activeColor,
		CardsRemaining: len(d.hands[playerID]),
		CardsDrawn:     drawn,
	})
	d.turnIndex++
	if d.sink != nil {
		d.sink(rec)
	}

	if len(d.hands[playerID]) == 0 && d.phase != PhaseGameOver {
		d.endGame(playerID)
	}
	return rec
}

// resolvePlay moves the card from hand to discard and applies its effect.
// Returns cards drawn as a side effect (only the two-player Reverse and the
// forced draws draw nothing here; draws happen on the victim's turn).
// Assumes lock held.
func (d *Dealer) resolvePlay(playerID uuid.UUID, m Move) int {
	card := *m.Card
	prevColor := d.activeColor
	d.removeFromHand(playerID, card)
	d.deck.Play(card)

	if card.IsWild() {
		d.activeColor = *m.DeclaredColor
	} else {
		d.activeColor = card.Color
	}

	// A play while a draw is pending is always a stack (the validator
	// admits nothing else), so the penalty compounds and the window moves
	// to the next victim.
	d.challengeOpen = false

	switch card.Rank {
	case Skip:
		d.advance(2)
	case Reverse:
		if len(d.active) == 2 {
			// With two players Reverse behaves as a Skip: the direction
			// flip alone would hand the turn straight back anyway.
			d.advance(2)
		} else {
			d.dir = -d.dir
			d.advance(1)
		}
	case DrawTwo:
		d.pendingDraw += 2
		d.advance(1)
	case WildDrawFour:
		d.wd4Player = playerID
		d.wd4HadMatch = d.handHasColor(playerID, prevColor)
		d.pendingDraw += 4
		d.challengeOpen = true
		d.advance(1)
	default:
		d.advance(1)
	}
	return 0
}

// resolveChallenge settles a Wild Draw Four challenge. On success the
// original player draws 4 and the challenger keeps their turn with no
// pending draw; on failure the challenger draws the configured penalty
// (default 6) and loses the turn. Assumes lock held.
func (d *Dealer) resolveChallenge(challenger uuid.UUID) int {
	d.challengeOpen = false
	d.pendingDraw = 0

	if d.wd4HadMatch {
		n := d.drawInto(d.wd4Player, 4)
		d.logf("game %s: challenge by %s succeeded, %s draws %d", d.ID, challenger, d.wd4Player, n)
		// Challenger plays normally: the turn pointer stays put.
		return 0
	}

	penalty := d.Rules.FailedChallengePenalty
	if penalty == 0 {
		penalty = 6
	}
	n := d.drawInto(challenger, penalty)
	d.logf("game %s: challenge by %s failed, drawing %d", d.ID, challenger, n)
	d.advance(1)
	return n
}

// handHasColor reports whether the player holds a card of the given color.
// For the Wild Draw Four legality check this runs after the played card has
// left the hand, which is exactly the hand a challenger is entitled to
// examine. Assumes lock held.
func (d *Dealer) handHasColor(playerID uuid.UUID, color Color) bool {
	if color == ColorWild {
		return false
	}
	for _, c := range d.hands[playerID] {
		if c.Color == color {
			return true
		}
	}
	return false
}

// drawInto draws n cards into a player's hand, reshuffling as needed.
// Returns how many cards actually arrived; the conservation invariant makes
// a short draw unreachable, but the deck error is surfaced rather than
// ignored. Assumes lock held.
func (d *Dealer) drawInto(playerID uuid.UUID, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		c, err := d.deck.DrawOne()
		if err != nil {
			d.logf("game %s: draw for %s stopped after %d of %d: %v", d.ID, playerID, drawn, n, err)
			break
		}
		d.hands[playerID] = append(d.hands[playerID], c)
		drawn++
	}
	return drawn
}

// removeFromHand deletes one instance of card from the hand. Assumes lock
// held; the validator has already confirmed presence.
func (d *Dealer) removeFromHand(playerID uuid.UUID, card Card) {
	hand := d.hands[playerID]
	for i, c := range hand {
		if c == card {
			d.hands[playerID] = append(hand[:i], hand[i+1:]...)
			return
		}
	}
}

// endGame transitions to GameOver, removes the winner from the rotation,
// and fires OnGameEnd. Assumes lock held.
func (d *Dealer) endGame(winner uuid.UUID) {
	d.winner = winner
	d.phase = PhaseGameOver
	for i, id := range d.active {
		if id == winner {
			d.active = append(d.active[:i], d.active[i+1:]...)
			break
		}
	}
	if d.cur >= len(d.active) {
		d.cur = 0
	}
	d.logf("game %s: %s wins after %d turns", d.ID, winner, d.turnIndex)
	if d.onGameEnd != nil {
		d.onGameEnd(d.summaryLocked())
	}
}
