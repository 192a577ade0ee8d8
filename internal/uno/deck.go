// internal/uno/deck.go
package uno

import (
	"math/rand"

	"github.com/google/uuid"
)

// Deck owns the draw pile and the discard pile. The top of the draw pile is
// the end of the slice; the top of the discard pile is the most recently
// played card. All randomness in the engine lives here, behind a seeded
// source, so the same seed always yields the same card order.
type Deck struct {
	draw    []Card
	discard []Card
	rng     *rand.Rand

	// OnReshuffle, if set, is invoked after each reshuffle-from-discard with
	// the retained top card and the new draw pile size. Reshuffles are the
	// only re-randomization after game start and must be observable.
	OnReshuffle func(kept Card, drawSize int)

	reshuffles int
}

// NewShuffled builds the 108-card catalog, applies a uniform permutation
// from the given seed, and returns a Deck with an empty discard pile.
func NewShuffled(seed int64) *Deck {
	d := &Deck{
		draw: NewDeckCards(),
		rng:  rand.New(rand.NewSource(seed)),
	}
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
	return d
}

// Deal removes nPerPlayer cards from the top of the draw pile into each
// player's hand in round-robin order. Impossible to fail at game start with
// 14 or fewer players, but checked anyway.
func (d *Deck) Deal(nPerPlayer int, playerIDs []uuid.UUID) (map[uuid.UUID][]Card, error) {
	need := nPerPlayer * len(playerIDs)
	if need > len(d.draw) {
		return nil, ruleErrf(InsufficientCards, "deal needs %d cards, draw pile has %d", need, len(d.draw))
	}
	hands := make(map[uuid.UUID][]Card, len(playerIDs))
	for _, id := range playerIDs {
		hands[id] = make([]Card, 0, nPerPlayer)
	}
	for i := 0; i < nPerPlayer; i++ {
		for _, id := range playerIDs {
			hands[id] = append(hands[id], d.pop())
		}
	}
	return hands, nil
}

// FlipFirst moves one card from the draw pile onto the discard pile to seed
// the initial current card. The caller decides what to do when an action
// card comes up.
func (d *Deck) FlipFirst() (Card, error) {
	if len(d.draw) == 0 {
		return Card{}, ruleErrf(DeckExhausted, "no cards to flip")
	}
	c := d.pop()
	d.discard = append(d.discard, c)
	return c, nil
}

// DrawOne pops the top card of the draw pile, reshuffling the discard pile
// first if the draw pile is empty. DeckExhausted is returned only when no
// card is available even after reshuffling, which the 108-card conservation
// invariant makes unreachable in a well-formed game.
func (d *Deck) DrawOne() (Card, error) {
	if len(d.draw) == 0 {
		d.ReshuffleFromDiscard()
	}
	if len(d.draw) == 0 {
		return Card{}, ruleErrf(DeckExhausted, "draw and discard piles empty")
	}
	return d.pop(), nil
}

// ReshuffleFromDiscard keeps the discard pile's top card in place, shuffles
// the remainder of the discard pile, and makes it the new draw pile.
// A no-op when the discard pile holds at most the top card.
func (d *Deck) ReshuffleFromDiscard() {
	if len(d.discard) <= 1 {
		return
	}
	top := d.discard[len(d.discard)-1]
	d.draw = append(d.draw, d.discard[:len(d.discard)-1]...)
	d.discard = d.discard[:0]
	d.discard = append(d.discard, top)
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
	d.reshuffles++
	if d.OnReshuffle != nil {
		d.OnReshuffle(top, len(d.draw))
	}
}

// Play pushes card onto the discard pile as the new top.
func (d *Deck) Play(card Card) {
	d.discard = append(d.discard, card)
}

// Top returns the current card (top of the discard pile).
func (d *Deck) Top() (Card, bool) {
	if len(d.discard) == 0 {
		return Card{}, false
	}
	return d.discard[len(d.discard)-1], true
}

// DrawCount returns the number of cards remaining in the draw pile.
func (d *Deck) DrawCount() int { return len(d.draw) }

// DiscardCount returns the number of cards in the discard pile.
func (d *Deck) DiscardCount() int { return len(d.discard) }

// Reshuffles returns how many times the discard pile has been recycled.
func (d *Deck) Reshuffles() int { return d.reshuffles }

func (d *Deck) pop() Card {
	c := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return c
}
