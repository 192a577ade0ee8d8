// internal/uno/card_test.go
package uno

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckComposition(t *testing.T) {
	cards := NewDeckCards()
	require.Len(t, cards, DeckSize)

	byColor := make(map[Color]int)
	byRank := make(map[Rank]int)
	zerosPerColor := make(map[Color]int)
	for _, c := range cards {
		byColor[c.Color]++
		byRank[c.Rank]++
		if c.Rank == Zero {
			zerosPerColor[c.Color]++
		}
	}

	for _, color := range ConcreteColors {
		assert.Equal(t, 25, byColor[color], "each color has 25 cards")
		assert.Equal(t, 1, zerosPerColor[color], "one zero per color")
	}
	assert.Equal(t, 8, byColor[ColorWild])

	assert.Equal(t, 4, byRank[Zero])
	for r := One; r <= Nine; r++ {
		assert.Equal(t, 8, byRank[r], "eight of rank %s", r)
	}
	assert.Equal(t, 8, byRank[Skip])
	assert.Equal(t, 8, byRank[Reverse])
	assert.Equal(t, 8, byRank[DrawTwo])
	assert.Equal(t, 4, byRank[Wild])
	assert.Equal(t, 4, byRank[WildDrawFour])
}

func TestCardPoints(t *testing.T) {
	assert.Equal(t, 0, Card{Color: Red, Rank: Zero}.Points())
	assert.Equal(t, 7, Card{Color: Blue, Rank: Seven}.Points())
	assert.Equal(t, 20, Card{Color: Green, Rank: Skip}.Points())
	assert.Equal(t, 20, Card{Color: Yellow, Rank: Reverse}.Points())
	assert.Equal(t, 20, Card{Color: Red, Rank: DrawTwo}.Points())
	assert.Equal(t, 50, Card{Color: ColorWild, Rank: Wild}.Points())
	assert.Equal(t, 50, Card{Color: ColorWild, Rank: WildDrawFour}.Points())
}

func TestCardJSONWireNames(t *testing.T) {
	data, err := json.Marshal(Card{Color: Blue, Rank: DrawTwo})
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"blue","rank":"draw_two"}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"color":"wild","rank":"wild_draw_four"}`), &c))
	assert.Equal(t, Card{Color: ColorWild, Rank: WildDrawFour}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"color":"teal","rank":"3"}`), &c))
}
