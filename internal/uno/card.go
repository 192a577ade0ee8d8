// internal/uno/card.go
package uno

import (
	"encoding/json"
	"fmt"
)

// Color is a card color. Wild and Wild Draw Four cards carry ColorWild until
// a concrete color is declared at play time.
type Color uint8

const (
	Red Color = iota
	Yellow
	Green
	Blue
	ColorWild
)

// ConcreteColors are the four declarable colors, in catalog order.
var ConcreteColors = [4]Color{Red, Yellow, Green, Blue}

var colorNames = map[Color]string{
	Red:       "red",
	Yellow:    "yellow",
	Green:     "green",
	Blue:      "blue",
	ColorWild: "wild",
}

func (c Color) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return "unknown"
}

// Concrete reports whether c is one of the four real colors.
func (c Color) Concrete() bool {
	return c == Red || c == Yellow || c == Green || c == Blue
}

// MarshalJSON renders the color as its lowercase name, matching the wire
// format consumed by remote agents.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for col, name := range colorNames {
		if name == s {
			*c = col
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", s)
}

// Rank is a card face. Zero through Nine are the number cards; the numeric
// value of those constants equals the printed digit.
type Rank uint8

const (
	Zero Rank = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Skip
	Reverse
	DrawTwo
	Wild
	WildDrawFour
)

var rankNames = map[Rank]string{
	Zero: "0", One: "1", Two: "2", Three: "3", Four: "4",
	Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9",
	Skip:         "skip",
	Reverse:      "reverse",
	DrawTwo:      "draw_two",
	Wild:         "wild",
	WildDrawFour: "wild_draw_four",
}

func (r Rank) String() string {
	if s, ok := rankNames[r]; ok {
		return s
	}
	return "unknown"
}

// IsNumber reports whether r is a 0-9 number rank.
func (r Rank) IsNumber() bool {
	return r <= Nine
}

func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for rank, name := range rankNames {
		if name == s {
			*r = rank
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", s)
}

// Card is a value object; equality is by (Color, Rank). The colorless cards
// (Wild, WildDrawFour) always have Color == ColorWild; the color a player
// declares when playing one lives on the table state, never on the card.
type Card struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"rank"`
}

func (c Card) String() string {
	if c.Color == ColorWild {
		return c.Rank.String()
	}
	return fmt.Sprintf("%s %s", c.Rank, c.Color)
}

// IsWild reports whether the card is colorless (Wild or Wild Draw Four).
func (c Card) IsWild() bool {
	return c.Rank == Wild || c.Rank == WildDrawFour
}

// IsAction reports whether the card is anything other than a number card.
func (c Card) IsAction() bool {
	return !c.Rank.IsNumber()
}

// Points returns the card's scoring value when left in a losing hand:
// face value for number cards, 20 for colored action cards, 50 for wilds.
func (c Card) Points() int {
	switch {
	case c.IsWild():
		return 50
	case c.IsAction():
		return 20
	default:
		return int(c.Rank)
	}
}

// DeckSize is the number of cards in a standard UNO deck.
const DeckSize = 108

// NewDeckCards builds the canonical 108-card deck in a deterministic order:
// for each color one 0, two each of 1-9, two Skip, two Reverse, two DrawTwo,
// then 4 Wild and 4 Wild Draw Four. Shuffling is the Deck's job, not ours.
func NewDeckCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, color := range ConcreteColors {
		cards = append(cards, Card{Color: color, Rank: Zero})
		for r := One; r <= Nine; r++ {
			cards = append(cards, Card{Color: color, Rank: r}, Card{Color: color, Rank: r})
		}
		for i := 0; i < 2; i++ {
			cards = append(cards,
				Card{Color: color, Rank: Skip},
				Card{Color: color, Rank: Reverse},
				Card{Color: color, Rank: DrawTwo},
			)
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards,
			Card{Color: ColorWild, Rank: Wild},
			Card{Color: ColorWild, Rank: WildDrawFour},
		)
	}
	return cards
}
