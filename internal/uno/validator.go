// internal/uno/validator.go
package uno

import "github.com/google/uuid"

// Validate checks a proposed move against the public state and the player's
// hand. Pure: no side effects, safe to call concurrently for dry runs.
// Every failure is a *RuleError whose Kind callers can branch on.
func Validate(rules RuleConfig, snap Snapshot, playerID uuid.UUID, hand []Card, m Move) error {
	if playerID != snap.CurrentPlayer {
		return ruleErrf(NotYourTurn, "player %s moved on %s's turn", playerID, snap.CurrentPlayer)
	}

	switch m.Type {
	case MovePlayCard:
		return validatePlay(rules, snap, hand, m)

	case MoveDrawCard:
		if snap.PendingDraw > 0 {
			return ruleErrf(IllegalPlay, "a forced draw of %d is pending; pass or stack", snap.PendingDraw)
		}
		if rules.ForcedPlay && hasPlayable(snap, hand) {
			return ruleErrf(IllegalPlay, "forced-play rule: a legal play exists, drawing is not allowed")
		}
		return nil

	case MovePassAfterForcedDraw:
		if snap.PendingDraw == 0 {
			return ruleErrf(NoPendingForcedDraw, "no forced draw to accept")
		}
		return nil

	case MoveChallengeWD4:
		if !rules.ChallengeEnabled {
			return ruleErrf(NoPendingForcedDraw, "wild draw four challenges are disabled")
		}
		if !snap.ChallengeOpen {
			return ruleErrf(NoPendingForcedDraw, "no wild draw four to challenge")
		}
		return nil

	default:
		return ruleErrf(IllegalPlay, "unknown move type %q", m.Type)
	}
}

func validatePlay(rules RuleConfig, snap Snapshot, hand []Card, m Move) error {
	if m.Card == nil {
		return ruleErrf(IllegalPlay, "play move carries no card")
	}
	card := *m.Card

	if !inHand(hand, card) {
		return ruleErrf(CardNotInHand, "%s is not in the player's hand", card)
	}

	if snap.PendingDraw > 0 {
		if !rules.StackingDraws {
			return ruleErrf(IllegalPlay, "a forced draw of %d is pending and stacking is disabled", snap.PendingDraw)
		}
		if card.Rank != snap.TopCard.Rank {
			return ruleErrf(IllegalPlay, "only another %s may stack on the pending draw", snap.TopCard.Rank)
		}
	} else if !playable(snap, card) {
		return ruleErrf(IllegalPlay, "%s does not match %s (active color %s)", card, snap.TopCard, snap.ActiveColor)
	}

	if card.IsWild() {
		if m.DeclaredColor == nil {
			return ruleErrf(InvalidColorDeclaration, "%s requires a declared color", card)
		}
		if !m.DeclaredColor.Concrete() {
			return ruleErrf(InvalidColorDeclaration, "declared color must be one of the four concrete colors, got %s", *m.DeclaredColor)
		}
	} else if m.DeclaredColor != nil {
		return ruleErrf(InvalidColorDeclaration, "color declaration is forbidden for %s", card)
	}

	if card.Rank == WildDrawFour && rules.StrictWildDrawFour {
		for _, c := range hand {
			if c.Color == snap.ActiveColor {
				return ruleErrf(IllegalWildDrawFour, "strict rule: player holds a %s card", snap.ActiveColor)
			}
		}
	}
	return nil
}

// playable reports whether card may be laid on the current top card: same
// color, same rank, or the card is colorless. An active color of ColorWild
// (an undeclared Wild opened the game) matches everything.
func playable(snap Snapshot, card Card) bool {
	return card.IsWild() || snap.ActiveColor == ColorWild ||
		card.Color == snap.ActiveColor || card.Rank == snap.TopCard.Rank
}

func hasPlayable(snap Snapshot, hand []Card) bool {
	for _, c := range hand {
		if playable(snap, c) {
			return true
		}
	}
	return false
}

func inHand(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// LegalMoves enumerates every move Validate would accept for the hand, with
// wild plays expanded across the four declarable colors. Deterministic
// agents build on this instead of re-deriving the rules.
func LegalMoves(rules RuleConfig, snap Snapshot, hand []Card) []Move {
	var moves []Move
	appendPlays := func(card Card) {
		if card.IsWild() {
			for _, color := range ConcreteColors {
				m := PlayWild(card, color)
				if Validate(rules, snap, snap.CurrentPlayer, hand, m) == nil {
					moves = append(moves, m)
				}
			}
			return
		}
		m := PlayCard(card)
		if Validate(rules, snap, snap.CurrentPlayer, hand, m) == nil {
			moves = append(moves, m)
		}
	}

	seen := map[Card]bool{}
	for _, c := range hand {
		if seen[c] {
			continue
		}
		seen[c] = true
		appendPlays(c)
	}
	if snap.PendingDraw > 0 {
		if snap.ChallengeOpen && rules.ChallengeEnabled {
			moves = append(moves, ChallengeWildDrawFour())
		}
		moves = append(moves, PassAfterForcedDraw())
		return moves
	}
	if Validate(rules, snap, snap.CurrentPlayer, hand, DrawCard()) == nil {
		moves = append(moves, DrawCard())
	}
	return moves
}
