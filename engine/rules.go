package engine

// Rules holds the configurable parts of the rule set.
type Rules struct {
	// RunPaysRaisedStake pays the proposed value, instead of the stake in
	// effect before the raise, to the side that was run from.
	RunPaysRaisedStake bool
}

// DefaultRules returns the standard rules: running pays the pre-raise stake.
func DefaultRules() Rules {
	return Rules{RunPaysRaisedStake: false}
}

// runPayout returns the points awarded when a side runs from a proposal.
func (r *Rules) runPayout(stake, proposed uint8) uint8 {
	if r.RunPaysRaisedStake {
		return proposed
	}
	return stake
}
