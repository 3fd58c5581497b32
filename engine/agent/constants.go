package agent

import engine "github.com/jason-s-yu/truco/engine"

// CardBucket is the policy's coarse view of how strong a card is in the
// current hand.
type CardBucket uint8

const (
	BucketNone    CardBucket = iota // 0: no card
	BucketLow                       // 1: 4-7
	BucketMid                       // 2: Q up to the strong threshold
	BucketStrong                    // 3: at or above the strong threshold
	BucketManilha                   // 4: manilha of this hand
)

func (b CardBucket) String() string {
	switch b {
	case BucketNone:
		return "none"
	case BucketLow:
		return "low"
	case BucketMid:
		return "mid"
	case BucketStrong:
		return "strong"
	case BucketManilha:
		return "manilha"
	}
	return "unknown"
}

// CardToBucket maps a card to its bucket. Manilhas take precedence over the
// plain rank; strongRank is the lowest plain rank counted as strong.
func CardToBucket(c engine.Card, manilhas [engine.NumSuits]engine.Card, strongRank uint8) CardBucket {
	switch {
	case !c.Valid():
		return BucketNone
	case engine.IsManilha(c, manilhas):
		return BucketManilha
	case c.Rank() >= strongRank:
		return BucketStrong
	case c.Rank() >= engine.RankQueen:
		return BucketMid
	}
	return BucketLow
}

// Config holds the policy tunables.
type Config struct {
	// RaiseChance gates opening a raise once the hand qualifies.
	RaiseChance float64
	// StrongRank and StrongCount: a hand qualifies for a raise when it holds
	// at least StrongCount cards ranked StrongRank or higher (manilhas count).
	StrongRank  uint8
	StrongCount int
	// AcceptChance is the acceptance rate without a manilha; the rest runs.
	AcceptChance float64
	// ReRaiseChance by proposed stake, used when holding a manilha. Missing
	// tiers never re-raise.
	ReRaiseChance map[uint8]float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		RaiseChance:  0.4,
		StrongRank:   engine.RankAce,
		StrongCount:  2,
		AcceptChance: 0.5,
		ReRaiseChance: map[uint8]float64{
			3: 0.35,
			6: 0.25,
			9: 0.15,
		},
	}
}
