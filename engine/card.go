package engine

import (
	"fmt"
	"strings"
)

const (
	NumSuits = 4
	NumRanks = 10

	// ManilhaBase is the lowest manilha value; every plain card ranks below it.
	ManilhaBase = NumRanks * NumSuits
)

const (
	rankChars   = "4567QJKA23"
	suitLetters = "oecp"
)

var suitSymbols = [NumSuits]string{"♦", "♠", "♥", "♣"}

var suitNames = [NumSuits]string{"ouros", "espadas", "copas", "paus"}

// noManilhas is the manilha set of a match with no hand dealt yet.
var noManilhas = [NumSuits]Card{EmptyCard, EmptyCard, EmptyCard, EmptyCard}

// NewDeck returns the 40-card deck, suit-major then rank-minor.
func NewDeck() [DeckSize]Card {
	var deck [DeckSize]Card
	i := 0
	for suit := uint8(0); suit < NumSuits; suit++ {
		for rank := uint8(0); rank < NumRanks; rank++ {
			deck[i] = NewCard(suit, rank)
			i++
		}
	}
	return deck
}

// Shuffle permutes cards in place with a Fisher-Yates shuffle driven by rng.
func Shuffle(cards []Card, rng *RNG) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// NextRank returns the rank following r in the strength cycle, wrapping 3 to 4.
func NextRank(r uint8) uint8 { return (r + 1) % NumRanks }

// DeriveManilhas returns the four trump cards for a vira, indexed by suit.
func DeriveManilhas(vira Card) ([NumSuits]Card, error) {
	if !vira.Valid() {
		return noManilhas, fmt.Errorf("%w: manilhas requested without a vira", ErrInvariantViolation)
	}
	rank := NextRank(vira.Rank())
	var m [NumSuits]Card
	for suit := uint8(0); suit < NumSuits; suit++ {
		m[suit] = NewCard(suit, rank)
	}
	return m, nil
}

// IsManilha reports whether c belongs to the manilha set.
func IsManilha(c Card, manilhas [NumSuits]Card) bool {
	if c == EmptyCard {
		return false
	}
	for _, m := range manilhas {
		if m == c {
			return true
		}
	}
	return false
}

// CardValue returns the strength of c under the given manilha set.
//   - EmptyCard → -1
//   - manilha → ManilhaBase + suit (40..43)
//   - plain card → rank*4 + suit (0..39)
//
// The mapping is injective over the deck for any manilha set.
func CardValue(c Card, manilhas [NumSuits]Card) int {
	if c == EmptyCard {
		return -1
	}
	if IsManilha(c, manilhas) {
		return ManilhaBase + int(c.Suit())
	}
	return int(c.Rank())*NumSuits + int(c.Suit())
}

// RankString returns the display character of a rank.
func RankString(r uint8) string {
	if r >= NumRanks {
		return "?"
	}
	return rankChars[r : r+1]
}

// SuitName returns the Portuguese suit name.
func SuitName(s uint8) string {
	if s >= NumSuits {
		return "?"
	}
	return suitNames[s]
}

func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return RankString(c.Rank()) + suitSymbols[c.Suit()]
}

// ParseCard parses a rank character followed by a suit initial, e.g. "7p" or
// "Ac" (o=ouros, e=espadas, c=copas, p=paus).
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return EmptyCard, fmt.Errorf("card %q: want rank followed by suit, e.g. 7p", s)
	}
	rank := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if rank < 0 {
		return EmptyCard, fmt.Errorf("card %q: unknown rank %q", s, s[:1])
	}
	suit := strings.IndexByte(suitLetters, strings.ToLower(s[1:])[0])
	if suit < 0 {
		return EmptyCard, fmt.Errorf("card %q: unknown suit %q", s, s[1:])
	}
	return NewCard(uint8(suit), uint8(rank)), nil
}
