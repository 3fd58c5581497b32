package engine

// DecisionCtx returns the current decision context for the acting side.
func (g *MatchState) DecisionCtx() DecisionContext {
	if g.IsOver() || !g.IsHandActive() {
		return CtxTerminal
	}
	if g.Hand.Bet.Pending {
		return CtxRespond
	}
	return CtxPlay
}

// LegalActions returns a bitmask of legal action indices for the acting side.
// Bit i is set if action i is legal.
func (g *MatchState) LegalActions() uint16 {
	var mask uint16
	side := g.ActingSide()

	switch g.DecisionCtx() {
	case CtxTerminal:
		// No legal actions.

	case CtxRespond:
		mask |= 1 << ActionAccept
		mask |= 1 << ActionRun
		if g.canReRaise(side) == nil {
			mask |= 1 << ActionRaise
		}

	case CtxPlay:
		h := &g.Hand
		for i := uint8(0); i < h.HandLen[side]; i++ {
			mask |= 1 << EncodePlay(i)
			if h.NumTricks > 0 {
				mask |= 1 << EncodePlayHidden(i)
			}
		}
		if g.canRaise(side) == nil {
			mask |= 1 << ActionRaise
		}
	}
	return mask
}

// LegalActionsList returns legal actions as a slice (allocates).
func (g *MatchState) LegalActionsList() []uint16 {
	mask := g.LegalActions()
	var actions []uint16
	for i := uint16(0); i < NumActions; i++ {
		if mask>>i&1 == 1 {
			actions = append(actions, i)
		}
	}
	return actions
}

// IsLegal reports whether actionIdx is legal for the acting side.
func (g *MatchState) IsLegal(actionIdx uint16) bool {
	if actionIdx >= NumActions {
		return false
	}
	return g.LegalActions()>>actionIdx&1 == 1
}
