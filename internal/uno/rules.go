// internal/uno/rules.go
package uno

import "fmt"

// FirstCardPolicy controls how an action or wild card flipped at game start
// is handled.
type FirstCardPolicy string

const (
	// RedrawFirstCard keeps flipping until a number card seeds the discard.
	RedrawFirstCard FirstCardPolicy = "redraw"
	// ApplyFirstCard applies the flipped card's start-of-game effect: Skip
	// skips the first player, Reverse starts play counter-clockwise, DrawTwo
	// makes the first player draw two and lose their turn, Wild lets the
	// first player declare the opening color. A flipped Wild Draw Four is
	// always returned to the deck and re-flipped, per the standard rule.
	ApplyFirstCard FirstCardPolicy = "apply"
)

// RuleConfig enumerates the house-rule toggles the validator and resolver
// honor. House rules vary; nothing here is hard-coded into the engine.
type RuleConfig struct {
	// StrictWildDrawFour forbids playing a Wild Draw Four while holding a
	// card matching the active color.
	StrictWildDrawFour bool `json:"strictWildDrawFour"`

	// ForcedPlay forbids voluntary drawing when a legal play exists.
	ForcedPlay bool `json:"forcedPlay"`

	// StackingDraws allows answering a pending Draw Two / Wild Draw Four
	// with another card of the same rank, compounding the penalty.
	StackingDraws bool `json:"stackingDraws"`

	// ChallengeEnabled allows the victim of a Wild Draw Four to challenge
	// its legality before drawing.
	ChallengeEnabled bool `json:"challengeEnabled"`

	// FailedChallengePenalty is how many cards a failed challenger draws:
	// 4 or 6 (standard rule is 6: the original four plus two).
	FailedChallengePenalty int `json:"failedChallengePenalty"`

	// FirstCard selects the opening-flip policy.
	FirstCard FirstCardPolicy `json:"firstCard"`

	// TargetScore ends a multi-round match once a player reaches it.
	TargetScore int `json:"targetScore"`

	// TurnTimerSec is how many seconds an agent gets per turn before the
	// dealer forfeits the turn on its behalf (0 => no limit).
	TurnTimerSec int `json:"turnTimerSec"`
}

// DefaultRules returns the permissive casual-play defaults: Wild Draw Four
// unenforced, voluntary draw allowed, no stacking, challenges off.
func DefaultRules() RuleConfig {
	return RuleConfig{
		StrictWildDrawFour:     false,
		ForcedPlay:             false,
		StackingDraws:          false,
		ChallengeEnabled:       false,
		FailedChallengePenalty: 6,
		FirstCard:              RedrawFirstCard,
		TargetScore:            500,
		TurnTimerSec:           15,
	}
}

// Update merges new rule values from a loosely-typed map (e.g. a decoded
// JSON body). Keys that are absent or nil keep their current value.
func (rules *RuleConfig) Update(newRules map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			*field = b
		}
		return nil
	}

	assignInt := func(field *int, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			// JSON numbers decode as float64.
			switch v := val.(type) {
			case float64:
				*field = int(v)
			case int:
				*field = v
			default:
				return fmt.Errorf("invalid type for %s", key)
			}
			if *field < 0 {
				return fmt.Errorf("%s must be non-negative", key)
			}
		}
		return nil
	}

	if err := assignBool(&rules.StrictWildDrawFour, "strictWildDrawFour"); err != nil {
		return err
	}
	if err := assignBool(&rules.ForcedPlay, "forcedPlay"); err != nil {
		return err
	}
	if err := assignBool(&rules.StackingDraws, "stackingDraws"); err != nil {
		return err
	}
	if err := assignBool(&rules.ChallengeEnabled, "challengeEnabled"); err != nil {
		return err
	}
	if err := assignInt(&rules.FailedChallengePenalty, "failedChallengePenalty"); err != nil {
		return err
	}
	if rules.FailedChallengePenalty != 4 && rules.FailedChallengePenalty != 6 {
		return fmt.Errorf("failedChallengePenalty must be 4 or 6")
	}
	if val, exists := newRules["firstCard"]; exists && val != nil {
		s, ok := val.(string)
		if !ok || (FirstCardPolicy(s) != RedrawFirstCard && FirstCardPolicy(s) != ApplyFirstCard) {
			return fmt.Errorf("invalid value for firstCard")
		}
		rules.FirstCard = FirstCardPolicy(s)
	}
	if err := assignInt(&rules.TargetScore, "targetScore"); err != nil {
		return err
	}
	if err := assignInt(&rules.TurnTimerSec, "turnTimerSec"); err != nil {
		return err
	}
	return nil
}

// ParseRules merges a rules map over current and returns the result.
func ParseRules(rules map[string]interface{}, current RuleConfig) (RuleConfig, error) {
	cfg := current
	err := cfg.Update(rules)
	return cfg, err
}
