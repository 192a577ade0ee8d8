// internal/uno/validator_test.go
package uno

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	playerA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	playerB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func tableSnap(top Card, active Color) Snapshot {
	return Snapshot{
		CurrentPlayer: playerA,
		TopCard:       top,
		ActiveColor:   active,
	}
}

func TestValidateWrongTurn(t *testing.T) {
	snap := tableSnap(Card{Color: Red, Rank: Five}, Red)
	err := Validate(DefaultRules(), snap, playerB, []Card{{Color: Red, Rank: Five}}, DrawCard())
	assert.Equal(t, NotYourTurn, KindOf(err))
}

func TestValidatePlayMatching(t *testing.T) {
	rules := DefaultRules()
	hand := []Card{
		{Color: Blue, Rank: Seven},
		{Color: Red, Rank: Two},
		{Color: Green, Rank: Nine},
		{Color: ColorWild, Rank: Wild},
	}

	cases := []struct {
		name string
		top  Card
		move Move
		kind ErrKind // "" => legal
	}{
		{"rank match across colors", Card{Color: Red, Rank: Seven}, PlayCard(Card{Color: Blue, Rank: Seven}), ""},
		{"color match", Card{Color: Red, Rank: Seven}, PlayCard(Card{Color: Red, Rank: Two}), ""},
		{"no match", Card{Color: Red, Rank: Seven}, PlayCard(Card{Color: Green, Rank: Nine}), IllegalPlay},
		{"wild always plays", Card{Color: Red, Rank: Seven}, PlayWild(Card{Color: ColorWild, Rank: Wild}, Green), ""},
		{"card not held", Card{Color: Red, Rank: Seven}, PlayCard(Card{Color: Red, Rank: Nine}), CardNotInHand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := tableSnap(tc.top, tc.top.Color)
			err := Validate(rules, snap, playerA, hand, tc.move)
			if tc.kind == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tc.kind, KindOf(err))
			}
		})
	}
}

func TestValidateColorDeclaration(t *testing.T) {
	rules := DefaultRules()
	snap := tableSnap(Card{Color: Red, Rank: Five}, Red)
	hand := []Card{{Color: ColorWild, Rank: Wild}, {Color: Red, Rank: Two}}

	// Wild without a declaration.
	err := Validate(rules, snap, playerA, hand, Move{Type: MovePlayCard, Card: &Card{Color: ColorWild, Rank: Wild}})
	assert.Equal(t, InvalidColorDeclaration, KindOf(err))

	// Declaration of the sentinel color.
	bad := ColorWild
	err = Validate(rules, snap, playerA, hand, Move{Type: MovePlayCard, Card: &Card{Color: ColorWild, Rank: Wild}, DeclaredColor: &bad})
	assert.Equal(t, InvalidColorDeclaration, KindOf(err))

	// Declaration on a colored card.
	decl := Blue
	err = Validate(rules, snap, playerA, hand, Move{Type: MovePlayCard, Card: &Card{Color: Red, Rank: Two}, DeclaredColor: &decl})
	assert.Equal(t, InvalidColorDeclaration, KindOf(err))
}

func TestValidateStrictWildDrawFour(t *testing.T) {
	rules := DefaultRules()
	snap := tableSnap(Card{Color: Red, Rank: Five}, Red)
	hand := []Card{{Color: ColorWild, Rank: WildDrawFour}, {Color: Red, Rank: Two}}

	// Permissive by default: playable regardless of the red two in hand.
	err := Validate(rules, snap, playerA, hand, PlayWild(Card{Color: ColorWild, Rank: WildDrawFour}, Green))
	assert.NoError(t, err)

	rules.StrictWildDrawFour = true
	err = Validate(rules, snap, playerA, hand, PlayWild(Card{Color: ColorWild, Rank: WildDrawFour}, Green))
	assert.Equal(t, IllegalWildDrawFour, KindOf(err))

	// Legal once the hand has no card of the active color.
	noRed := []Card{{Color: ColorWild, Rank: WildDrawFour}, {Color: Blue, Rank: Two}}
	err = Validate(rules, snap, playerA, noRed, PlayWild(Card{Color: ColorWild, Rank: WildDrawFour}, Green))
	assert.NoError(t, err)
}

func TestValidateForcedPlay(t *testing.T) {
	rules := DefaultRules()
	snap := tableSnap(Card{Color: Red, Rank: Five}, Red)
	hand := []Card{{Color: Red, Rank: Two}}

	assert.NoError(t, Validate(rules, snap, playerA, hand, DrawCard()), "voluntary draw allowed by default")

	rules.ForcedPlay = true
	err := Validate(rules, snap, playerA, hand, DrawCard())
	assert.Equal(t, IllegalPlay, KindOf(err))

	// No playable card: drawing is fine even under forced play.
	stuck := []Card{{Color: Blue, Rank: Two}}
	assert.NoError(t, Validate(rules, snap, playerA, stuck, DrawCard()))
}

func TestValidatePendingDraw(t *testing.T) {
	rules := DefaultRules()
	snap := tableSnap(Card{Color: Red, Rank: DrawTwo}, Red)
	snap.PendingDraw = 2
	hand := []Card{{Color: Blue, Rank: DrawTwo}, {Color: Red, Rank: Five}}

	// Pass accepts the penalty; voluntary draw and normal plays are barred.
	assert.NoError(t, Validate(rules, snap, playerA, hand, PassAfterForcedDraw()))
	assert.Equal(t, IllegalPlay, KindOf(Validate(rules, snap, playerA, hand, DrawCard())))
	assert.Equal(t, IllegalPlay, KindOf(Validate(rules, snap, playerA, hand, PlayCard(Card{Color: Red, Rank: Five}))))

	// Stacking is off by default, even for the matching rank.
	assert.Equal(t, IllegalPlay, KindOf(Validate(rules, snap, playerA, hand, PlayCard(Card{Color: Blue, Rank: DrawTwo}))))

	rules.StackingDraws = true
	assert.NoError(t, Validate(rules, snap, playerA, hand, PlayCard(Card{Color: Blue, Rank: DrawTwo})))
	assert.Equal(t, IllegalPlay, KindOf(Validate(rules, snap, playerA, hand, PlayCard(Card{Color: Red, Rank: Five}))))
}

func TestValidatePassAndChallengeGates(t *testing.T) {
	rules := DefaultRules()
	snap := tableSnap(Card{Color: Red, Rank: Five}, Red)

	err := Validate(rules, snap, playerA, nil, PassAfterForcedDraw())
	assert.Equal(t, NoPendingForcedDraw, KindOf(err))

	// Challenges disabled by default.
	snap.PendingDraw = 4
	snap.ChallengeOpen = true
	err = Validate(rules, snap, playerA, nil, ChallengeWildDrawFour())
	assert.Equal(t, NoPendingForcedDraw, KindOf(err))

	rules.ChallengeEnabled = true
	assert.NoError(t, Validate(rules, snap, playerA, nil, ChallengeWildDrawFour()))

	snap.ChallengeOpen = false
	err = Validate(rules, snap, playerA, nil, ChallengeWildDrawFour())
	assert.Equal(t, NoPendingForcedDraw, KindOf(err))
}

func TestValidateUndeclaredWildOpener(t *testing.T) {
	// A Wild opened the game: active color stays the sentinel and anything goes.
	snap := tableSnap(Card{Color: ColorWild, Rank: Wild}, ColorWild)
	hand := []Card{{Color: Green, Rank: Nine}}
	assert.NoError(t, Validate(DefaultRules(), snap, playerA, hand, PlayCard(Card{Color: Green, Rank: Nine})))
}

func TestLegalMovesExpandsWilds(t *testing.T) {
	rules := DefaultRules()
	snap := tableSnap(Card{Color: Red, Rank: Five}, Red)
	hand := []Card{
		{Color: Red, Rank: Two},
		{Color: Blue, Rank: Nine},
		{Color: ColorWild, Rank: Wild},
		{Color: ColorWild, Rank: Wild}, // duplicate: expanded once
	}

	moves := LegalMoves(rules, snap, hand)

	plays := 0
	wildPlays := 0
	draws := 0
	for _, m := range moves {
		switch m.Type {
		case MovePlayCard:
			plays++
			if m.Card.IsWild() {
				wildPlays++
			}
		case MoveDrawCard:
			draws++
		}
	}
	assert.Equal(t, 1, draws)
	assert.Equal(t, 4, wildPlays, "one play per declarable color")
	assert.Equal(t, 5, plays, "red two plus four wild declarations; blue nine is dead")

	for _, m := range moves {
		assert.NoError(t, Validate(rules, snap, snap.CurrentPlayer, hand, m), "every enumerated move validates")
	}
}

func TestLegalMovesUnderPendingDraw(t *testing.T) {
	rules := DefaultRules()
	rules.ChallengeEnabled = true
	snap := tableSnap(Card{Color: ColorWild, Rank: WildDrawFour}, Green)
	snap.PendingDraw = 4
	snap.ChallengeOpen = true
	hand := []Card{{Color: Green, Rank: Five}}

	moves := LegalMoves(rules, snap, hand)
	require.Len(t, moves, 2)
	assert.Equal(t, MoveChallengeWD4, moves[0].Type)
	assert.Equal(t, MovePassAfterForcedDraw, moves[1].Type)
}
