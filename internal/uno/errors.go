// internal/uno/errors.go
package uno

import (
	"errors"
	"fmt"
)

// ErrKind identifies the specific rule or deck failure. The dealer branches
// on the kind to pick a deterministic forfeit substitution, so these are
// values, never ambient failures.
type ErrKind string

const (
	NotYourTurn             ErrKind = "not_your_turn"
	CardNotInHand           ErrKind = "card_not_in_hand"
	IllegalPlay             ErrKind = "illegal_play"
	InvalidColorDeclaration ErrKind = "invalid_color_declaration"
	IllegalWildDrawFour     ErrKind = "illegal_wild_draw_four"
	NoPendingForcedDraw     ErrKind = "no_pending_forced_draw"
	InsufficientCards       ErrKind = "insufficient_cards"
	DeckExhausted           ErrKind = "deck_exhausted"
)

// RuleError is a structured validator/deck error.
type RuleError struct {
	Kind   ErrKind
	Detail string
}

func (e *RuleError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// ruleErrf builds a *RuleError with a formatted detail message.
func ruleErrf(kind ErrKind, format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrKind from err, unwrapping as needed.
// Returns "" if err is nil or carries no RuleError.
func KindOf(err error) ErrKind {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
