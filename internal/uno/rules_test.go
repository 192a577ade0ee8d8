// internal/uno/rules_test.go
package uno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	assert.False(t, r.StrictWildDrawFour)
	assert.False(t, r.ForcedPlay)
	assert.False(t, r.StackingDraws)
	assert.False(t, r.ChallengeEnabled)
	assert.Equal(t, 6, r.FailedChallengePenalty)
	assert.Equal(t, RedrawFirstCard, r.FirstCard)
	assert.Equal(t, 500, r.TargetScore)
}

func TestRulesUpdateMerges(t *testing.T) {
	r := DefaultRules()
	err := r.Update(map[string]interface{}{
		"strictWildDrawFour":     true,
		"stackingDraws":          true,
		"challengeEnabled":       true,
		"failedChallengePenalty": float64(4), // JSON numbers decode as float64
		"firstCard":              "apply",
		"targetScore":            float64(200),
	})
	require.NoError(t, err)

	assert.True(t, r.StrictWildDrawFour)
	assert.True(t, r.StackingDraws)
	assert.True(t, r.ChallengeEnabled)
	assert.Equal(t, 4, r.FailedChallengePenalty)
	assert.Equal(t, ApplyFirstCard, r.FirstCard)
	assert.Equal(t, 200, r.TargetScore)

	// Untouched keys keep their values.
	assert.False(t, r.ForcedPlay)
	assert.Equal(t, 15, r.TurnTimerSec)
}

func TestRulesUpdateRejectsBadValues(t *testing.T) {
	r := DefaultRules()
	assert.Error(t, r.Update(map[string]interface{}{"forcedPlay": "yes"}))
	assert.Error(t, r.Update(map[string]interface{}{"failedChallengePenalty": float64(5)}))
	assert.Error(t, r.Update(map[string]interface{}{"firstCard": "burn"}))
	assert.Error(t, r.Update(map[string]interface{}{"targetScore": float64(-1)}))
}

func TestParseRulesDoesNotMutateCurrent(t *testing.T) {
	base := DefaultRules()
	got, err := ParseRules(map[string]interface{}{"forcedPlay": true}, base)
	require.NoError(t, err)
	assert.True(t, got.ForcedPlay)
	assert.False(t, base.ForcedPlay)
}
