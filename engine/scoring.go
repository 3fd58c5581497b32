package engine

// HandOutcome aggregates a trick history into a hand result. decided is false
// while the hand must go on.
//
// Rules, in order:
//   - a side with two trick wins takes the hand;
//   - when trick 1 was a draw and, over the remaining tricks, exactly one side
//     has exactly one win, that side takes the hand;
//   - after three tricks the side with more wins takes the hand, and a tie
//     falls back to trick 1's result (a drawn first trick draws the hand).
func HandOutcome(tricks []Result) (winner Result, decided bool) {
	var wins [2]int
	for _, r := range tricks {
		if s, ok := r.Side(); ok {
			wins[s]++
		}
	}

	for s := range wins {
		if wins[s] >= 2 {
			return Result(s), true
		}
	}

	if len(tricks) >= 2 && tricks[0] == ResultDraw {
		p, o := wins[SidePlayer] == 1, wins[SideOpponent] == 1
		if p && !o {
			return ResultPlayer, true
		}
		if o && !p {
			return ResultOpponent, true
		}
	}

	if len(tricks) >= MaxTricks {
		switch {
		case wins[SidePlayer] > wins[SideOpponent]:
			return ResultPlayer, true
		case wins[SideOpponent] > wins[SidePlayer]:
			return ResultOpponent, true
		}
		return tricks[0], true
	}
	return ResultDraw, false
}

// HandPoints returns the points a hand result is worth at the given stake.
// A drawn hand is worth nothing.
func HandPoints(r Result, stake uint8) uint8 {
	if r == ResultDraw {
		return 0
	}
	return stake
}

// endHand applies a finished hand to the match: score, next-hand leader and
// match termination. A new hand is dealt unless the match is over.
func (g *MatchState) endHand(r Result, points uint8, reason EndReason) error {
	g.LastAction.HandEnded = true
	g.LastAction.HandNumber = g.HandNumber
	g.LastAction.HandResult = r
	g.LastAction.HandPoints = points
	g.LastAction.HandReason = reason
	g.Flags &^= FlagHandActive

	if s, ok := r.Side(); ok {
		g.Scores[s] += points
		g.HandLeader = s
		if g.Scores[s] >= MatchPoints {
			g.Flags |= FlagMatchOver
			g.LastAction.MatchOver = true
			return nil
		}
	}
	return g.StartHand()
}
