package engine

// ApplyAction applies an action by index for the acting side. Returns an
// error if the action is illegal.
func (g *MatchState) ApplyAction(actionIdx uint16) error {
	side := g.ActingSide()
	if slot, ok := ActionIsPlay(actionIdx); ok {
		return g.playSlot(side, slot, false)
	}
	if slot, ok := ActionIsPlayHidden(actionIdx); ok {
		return g.playSlot(side, slot, true)
	}
	switch actionIdx {
	case ActionRaise:
		return g.ProposeRaise(side)
	case ActionAccept:
		return g.Respond(side, ResponseAccept)
	case ActionRun:
		return g.Respond(side, ResponseRun)
	}
	return illegal("unhandled action index %d", actionIdx)
}

// PlayCard plays card from side's hand. hidden plays it face down, which is
// only allowed from the second trick on.
func (g *MatchState) PlayCard(side Side, card Card, hidden bool) error {
	if err := g.checkActor(side); err != nil {
		return err
	}
	slot, ok := g.slotOf(side, card)
	if !ok {
		return illegal("%s does not hold %s", side, card)
	}
	return g.playSlot(side, slot, hidden)
}

// ProposeRaise asks for the next stake tier. While a proposal is pending, a
// raise by the responder is a re-raise.
func (g *MatchState) ProposeRaise(side Side) error {
	if err := g.checkActor(side); err != nil {
		return err
	}
	var (
		value uint8
		err   error
	)
	if g.Hand.Bet.Pending {
		value, err = g.reRaise(side)
	} else {
		value, err = g.proposeRaise(side)
	}
	if err != nil {
		return err
	}
	g.LastAction = LastActionInfo{ActionIdx: ActionRaise, Actor: side, Card: EmptyCard, BetValue: value}
	return nil
}

// Respond answers the pending proposal.
func (g *MatchState) Respond(side Side, resp Response) error {
	if err := g.checkActor(side); err != nil {
		return err
	}
	b := &g.Hand.Bet
	if !b.Pending {
		return illegal("no pending proposal to answer")
	}
	if side == b.Proposer {
		return illegal("%s cannot answer its own proposal", side)
	}
	if side != g.ActingSide() {
		return illegal("the answer belongs to %s", g.ActingSide())
	}

	switch resp {
	case ResponseAccept:
		stake := g.accept()
		g.LastAction = LastActionInfo{ActionIdx: ActionAccept, Actor: side, Card: EmptyCard, BetValue: stake}
		return nil
	case ResponseRun:
		g.LastAction = LastActionInfo{ActionIdx: ActionRun, Actor: side, Card: EmptyCard}
		return g.run()
	case ResponseRaise:
		return g.ProposeRaise(side)
	}
	return illegal("unknown response %d", resp)
}

// checkActive rejects calls once the match is over or between hands.
func (g *MatchState) checkActive() error {
	if g.IsOver() {
		return illegal("match is over")
	}
	if !g.IsHandActive() {
		return illegal("no hand in progress")
	}
	return nil
}

// checkActor is checkActive plus a check that side is a real seat.
func (g *MatchState) checkActor(side Side) error {
	if !side.Valid() {
		return illegal("invalid side %d", uint8(side))
	}
	return g.checkActive()
}

// slotOf finds card in side's hand.
func (g *MatchState) slotOf(side Side, card Card) (uint8, bool) {
	h := &g.Hand
	for i := uint8(0); i < h.HandLen[side]; i++ {
		if h.Hands[side][i] == card {
			return i, true
		}
	}
	return 0, false
}

// playSlot validates and plays the card at slot. When it completes the trick,
// the trick is resolved before anything is committed, so a failed resolution
// leaves the state untouched.
func (g *MatchState) playSlot(side Side, slot uint8, hidden bool) error {
	if err := g.checkActor(side); err != nil {
		return err
	}
	h := &g.Hand
	if h.Bet.Pending {
		return illegal("a raise to %d is waiting for %s's answer", h.Bet.Proposed, h.Bet.Proposer.Other())
	}
	if side != h.Turn {
		return illegal("not %s's turn", side)
	}
	if slot >= h.HandLen[side] {
		return illegal("%s has no card in slot %d", side, slot)
	}
	if hidden && h.NumTricks == 0 {
		return illegal("cards cannot be hidden on the first trick")
	}

	card := h.Hands[side][slot]
	table := h.Table
	table[side] = PlayedCard{Card: card, Hidden: hidden}
	complete := table[side.Other()].Present()

	var res Result
	if complete {
		r, err := ResolveTrick(table[SidePlayer], table[SideOpponent], h.Manilhas)
		if err != nil {
			return err
		}
		res = r
	}

	idx := EncodePlay(slot)
	if hidden {
		idx = EncodePlayHidden(slot)
	}
	g.LastAction = LastActionInfo{ActionIdx: idx, Actor: side, Card: card, Hidden: hidden}

	g.removeSlot(side, slot)
	h.Table = table
	if !complete {
		h.Turn = side.Other()
		return nil
	}
	return g.finishTrick(res)
}

// removeSlot drops the card at slot, keeping the remaining cards in order.
func (g *MatchState) removeSlot(side Side, slot uint8) {
	h := &g.Hand
	n := h.HandLen[side]
	copy(h.Hands[side][slot:n], h.Hands[side][slot+1:n])
	h.Hands[side][n-1] = EmptyCard
	h.HandLen[side] = n - 1
}

// finishTrick records a resolved trick, hands the lead to its winner and
// closes the hand when the history decides it.
func (g *MatchState) finishTrick(res Result) error {
	h := &g.Hand
	h.Tricks[h.NumTricks] = res
	h.NumTricks++
	g.LastAction.TrickResolved = true
	g.LastAction.Trick = TrickRecord{Number: h.NumTricks, Cards: h.Table, Result: res}

	if s, ok := res.Side(); ok {
		h.TrickLeader = s
	}
	h.Turn = h.TrickLeader
	h.Table = [2]PlayedCard{emptyPlay, emptyPlay}

	if winner, decided := HandOutcome(g.TrickHistory()); decided {
		return g.endHand(winner, HandPoints(winner, h.Stake), EndTricks)
	}
	return nil
}
