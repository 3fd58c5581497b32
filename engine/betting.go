package engine

// Stake ladder: 1 → 3 → 6 → 9 → 12.
var stakeLadder = [...]uint8{1, 3, 6, 9, 12}

// MaxStake is the ceiling of the ladder; no raise is possible from it.
const MaxStake uint8 = 12

// BetState tracks the betting of the current hand.
type BetState struct {
	Pending  bool  // a proposal is waiting for an answer
	Proposer Side  // who made the pending proposal
	Proposed uint8 // value of the pending proposal

	// LastRaiser is the side whose raise set the current stake. The right to
	// raise next belongs to the other side.
	LastRaiser Side
	HasRaised  bool
}

// NextStake returns the tier above stake, or false at the ceiling.
func NextStake(stake uint8) (uint8, bool) {
	for i := 0; i < len(stakeLadder)-1; i++ {
		if stakeLadder[i] == stake {
			return stakeLadder[i+1], true
		}
	}
	return 0, false
}

// canRaise reports whether side may open a new proposal now. It does not
// cover re-raising a pending proposal.
func (g *MatchState) canRaise(side Side) error {
	h := &g.Hand
	if side != h.Turn {
		return illegal("not %s's turn", side)
	}
	if h.Bet.HasRaised && h.Bet.LastRaiser == side {
		return illegal("%s raised last; the next raise belongs to %s", side, side.Other())
	}
	if _, ok := NextStake(h.Stake); !ok {
		return illegal("stake is already %d", h.Stake)
	}
	return nil
}

// canReRaise reports whether side may answer the pending proposal with a
// higher one.
func (g *MatchState) canReRaise(side Side) error {
	b := &g.Hand.Bet
	if side == b.Proposer {
		return illegal("%s cannot raise against its own pending proposal", side)
	}
	if _, ok := NextStake(b.Proposed); !ok {
		return illegal("proposal is already %d", b.Proposed)
	}
	return nil
}

// proposeRaise opens a proposal and returns its value.
func (g *MatchState) proposeRaise(side Side) (uint8, error) {
	if err := g.canRaise(side); err != nil {
		return 0, err
	}
	next, _ := NextStake(g.Hand.Stake)
	g.Hand.Bet.Pending = true
	g.Hand.Bet.Proposer = side
	g.Hand.Bet.Proposed = next
	return next, nil
}

// reRaise accepts the pending proposal implicitly and proposes the next tier
// back to the original proposer.
func (g *MatchState) reRaise(side Side) (uint8, error) {
	if err := g.canReRaise(side); err != nil {
		return 0, err
	}
	b := &g.Hand.Bet
	next, _ := NextStake(b.Proposed)
	g.Hand.Stake = b.Proposed
	b.LastRaiser = b.Proposer
	b.HasRaised = true
	b.Proposer = side
	b.Proposed = next
	return next, nil
}

// accept settles the pending proposal and returns the new stake. Card play
// resumes with the side on turn.
func (g *MatchState) accept() uint8 {
	b := &g.Hand.Bet
	g.Hand.Stake = b.Proposed
	b.LastRaiser = b.Proposer
	b.HasRaised = true
	b.Pending = false
	b.Proposed = 0
	return g.Hand.Stake
}

// run ends the hand in favour of the proposer.
func (g *MatchState) run() error {
	b := g.Hand.Bet
	points := g.Rules.runPayout(g.Hand.Stake, b.Proposed)
	g.Hand.Bet = BetState{}
	return g.endHand(ResultFor(b.Proposer), points, EndRun)
}
