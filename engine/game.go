// Package engine implements the rules of two-sided Truco (paulista): deck and
// manilha ranking, trick resolution with hidden plays, hand outcome, the
// 1-3-6-9-12 betting ladder and the match score.
//
// The match is a flat value type driven synchronously, one call per decision.
// All randomness comes from the match's own seeded RNG, so a seed fully
// determines a match given the same sequence of calls.
package engine

import "math/bits"

const (
	DeckSize    = NumSuits * NumRanks
	MaxHandSize = 3
	MaxTricks   = 3
	MatchPoints = 12
)

// HandState holds everything scoped to the hand being played.
type HandState struct {
	Vira        Card
	Manilhas    [NumSuits]Card
	Hands       [2][MaxHandSize]Card // dealt order; played cards are removed and the rest shift left
	HandLen     [2]uint8
	Stake       uint8
	Tricks      [MaxTricks]Result
	NumTricks   uint8
	TrickLeader Side
	Turn        Side
	Table       [2]PlayedCard
	Bet         BetState
}

// MatchState holds the complete state of a match.
type MatchState struct {
	Hand       HandState
	Scores     [2]uint8
	HandLeader Side // who leads the next hand
	HandNumber uint16
	Flags      uint16
	LastAction LastActionInfo
	RNG        RNG
	Rules      Rules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagMatchOver  uint16 = 1 << 0
	FlagHandActive uint16 = 1 << 1
)

func (g *MatchState) IsOver() bool       { return g.Flags&FlagMatchOver != 0 }
func (g *MatchState) IsHandActive() bool { return g.Flags&FlagHandActive != 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

// RNG is a xorshift64 generator. It is the single random source of a match:
// the shuffle and every bot decision draw from it in call order.
type RNG struct {
	State uint64
}

// NewRNG seeds a generator. xorshift can't start at 0, so 0 becomes 1.
func NewRNG(seed uint64) RNG {
	if seed == 0 {
		seed = 1
	}
	return RNG{State: seed}
}

// Uint64 returns the next raw value.
func (r *RNG) Uint64() uint64 {
	x := r.State
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.State = x
	return x
}

// IntN returns a uniform value in [0, n). It uses Lemire's multiply-shift
// reduction, redrawing the few raw values that would bias the result.
func (r *RNG) IntN(n int) int {
	bound := uint64(n)
	hi, lo := bits.Mul64(r.Uint64(), bound)
	if lo < bound {
		threshold := -bound % bound
		for lo < threshold {
			hi, lo = bits.Mul64(r.Uint64(), bound)
		}
	}
	return int(hi)
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// ---------------------------------------------------------------------------
// NewMatch and StartHand
// ---------------------------------------------------------------------------

// NewMatch initializes a match with the given seed and rules. The player side
// leads the first hand. No hand is dealt until StartHand.
func NewMatch(seed uint64, rules Rules) MatchState {
	var g MatchState
	g.RNG = NewRNG(seed)
	g.Rules = rules
	g.HandLeader = SidePlayer
	g.Hand.Vira = EmptyCard
	g.Hand.Manilhas = noManilhas
	g.Hand.Table = [2]PlayedCard{emptyPlay, emptyPlay}
	g.LastAction.ActionIdx = actionNone
	return g
}

// StartHand shuffles a fresh deck, turns the vira (the last card), derives the
// manilhas and deals three cards to each side: player from the top, opponent
// next. The hand leader leads the first trick.
func (g *MatchState) StartHand() error {
	if g.IsOver() {
		return illegal("match is over")
	}
	deck := NewDeck()
	Shuffle(deck[:], &g.RNG)

	vira := deck[DeckSize-1]
	manilhas, err := DeriveManilhas(vira)
	if err != nil {
		return err
	}

	h := HandState{
		Vira:        vira,
		Manilhas:    manilhas,
		Stake:       1,
		TrickLeader: g.HandLeader,
		Turn:        g.HandLeader,
		Table:       [2]PlayedCard{emptyPlay, emptyPlay},
	}
	for i := 0; i < MaxHandSize; i++ {
		h.Hands[SidePlayer][i] = deck[i]
		h.Hands[SideOpponent][i] = deck[MaxHandSize+i]
	}
	h.HandLen = [2]uint8{MaxHandSize, MaxHandSize}

	g.Hand = h
	g.HandNumber++
	g.Flags |= FlagHandActive
	return nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// ActingSide returns the side that must act next: the responder while a raise
// is pending, otherwise the side on turn.
func (g *MatchState) ActingSide() Side {
	if g.Hand.Bet.Pending {
		return g.Hand.Bet.Proposer.Other()
	}
	return g.Hand.Turn
}

// Score returns both scores, indexed by Side.
func (g *MatchState) Score() [2]uint8 { return g.Scores }

// Winner returns the side that reached MatchPoints, if the match is over.
func (g *MatchState) Winner() (Side, bool) {
	if !g.IsOver() {
		return 0, false
	}
	if g.Scores[SidePlayer] >= MatchPoints {
		return SidePlayer, true
	}
	return SideOpponent, true
}

// Table returns the cards in play for the current trick.
func (g *MatchState) Table() [2]PlayedCard { return g.Hand.Table }

// HandOf returns a copy of a side's remaining cards in dealt order.
func (g *MatchState) HandOf(s Side) []Card {
	n := g.Hand.HandLen[s]
	out := make([]Card, n)
	copy(out, g.Hand.Hands[s][:n])
	return out
}

// TrickHistory returns the results of the tricks played so far this hand.
func (g *MatchState) TrickHistory() []Result {
	return g.Hand.Tricks[:g.Hand.NumTricks]
}

// NothingPlayed reports whether no card has hit the table this hand.
func (g *MatchState) NothingPlayed() bool {
	return g.Hand.NumTricks == 0 && !g.Hand.Table[SidePlayer].Present() && !g.Hand.Table[SideOpponent].Present()
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of MatchState.
type Snapshot MatchState

// Save returns a snapshot of the current match state.
func (g *MatchState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the match state with the given snapshot.
func (g *MatchState) Restore(s Snapshot) { *g = MatchState(s) }
