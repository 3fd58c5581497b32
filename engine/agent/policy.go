// Package agent implements the heuristic opponent policy. Every decision is a
// pure function of the match state and a random Source, so a seeded match
// replays the same bot behavior.
package agent

import (
	"fmt"

	engine "github.com/jason-s-yu/truco/engine"
)

// Source is the random stream the policy draws from. *engine.RNG satisfies it.
type Source interface {
	Float64() float64
}

// Policy makes decisions for one side.
type Policy struct {
	Config Config
}

// New returns a policy with the given tuning.
func New(cfg Config) Policy { return Policy{Config: cfg} }

// StrongCount returns how many cards in side's hand reach BucketStrong.
func (p Policy) StrongCount(g *engine.MatchState, side engine.Side) int {
	n := 0
	for _, c := range g.HandOf(side) {
		if CardToBucket(c, g.Hand.Manilhas, p.Config.StrongRank) >= BucketStrong {
			n++
		}
	}
	return n
}

// HasManilha reports whether side holds a manilha.
func HasManilha(g *engine.MatchState, side engine.Side) bool {
	for _, c := range g.HandOf(side) {
		if engine.IsManilha(c, g.Hand.Manilhas) {
			return true
		}
	}
	return false
}

// ShouldRaise decides whether side opens a raise. Only a fresh hand at stake 1
// qualifies; the random draw happens only for a qualifying hand.
func (p Policy) ShouldRaise(g *engine.MatchState, side engine.Side, src Source) bool {
	if g.ActingSide() != side || !g.IsLegal(engine.ActionRaise) {
		return false
	}
	if !g.NothingPlayed() || g.Hand.Stake != 1 || g.Hand.Bet.Pending {
		return false
	}
	if p.StrongCount(g, side) < p.Config.StrongCount {
		return false
	}
	return src.Float64() < p.Config.RaiseChance
}

// Respond answers a pending proposal made against side. With a manilha the
// policy never runs: it re-raises with the tier's chance and accepts
// otherwise. Without one it accepts or runs on a single draw.
func (p Policy) Respond(g *engine.MatchState, side engine.Side, src Source) engine.Response {
	if HasManilha(g, side) {
		chance, ok := p.Config.ReRaiseChance[g.Hand.Bet.Proposed]
		if ok && chance > 0 && g.IsLegal(engine.ActionRaise) && src.Float64() < chance {
			return engine.ResponseRaise
		}
		return engine.ResponseAccept
	}
	if src.Float64() < p.Config.AcceptChance {
		return engine.ResponseAccept
	}
	return engine.ResponseRun
}

// ShouldHide reports whether side should cover its next card: from the
// second trick on, when answering a shown card its best remaining card
// cannot beat.
func (p Policy) ShouldHide(g *engine.MatchState, side engine.Side) bool {
	if g.Hand.NumTricks == 0 {
		return false
	}
	shown := g.Table()[side.Other()]
	if !shown.Present() || shown.Hidden {
		return false
	}
	target := engine.CardValue(shown.Card, g.Hand.Manilhas)
	for _, c := range g.HandOf(side) {
		if engine.CardValue(c, g.Hand.Manilhas) > target {
			return false
		}
	}
	return true
}

// ChooseSlot picks the card to play. Cards go out in hand order.
func (p Policy) ChooseSlot(g *engine.MatchState, side engine.Side) uint8 {
	return 0
}

// Decide returns the action index side should take now. side must be the
// acting side of a live hand.
func (p Policy) Decide(g *engine.MatchState, side engine.Side, src Source) (uint16, error) {
	if g.ActingSide() != side {
		return 0, fmt.Errorf("%w: %s is not the acting side", engine.ErrIllegalAction, side)
	}
	switch g.DecisionCtx() {
	case engine.CtxRespond:
		switch p.Respond(g, side, src) {
		case engine.ResponseRaise:
			return engine.ActionRaise, nil
		case engine.ResponseAccept:
			return engine.ActionAccept, nil
		default:
			return engine.ActionRun, nil
		}
	case engine.CtxPlay:
		if p.ShouldRaise(g, side, src) {
			return engine.ActionRaise, nil
		}
		slot := p.ChooseSlot(g, side)
		if p.ShouldHide(g, side) {
			return engine.EncodePlayHidden(slot), nil
		}
		return engine.EncodePlay(slot), nil
	}
	return 0, fmt.Errorf("%w: no decision pending", engine.ErrIllegalAction)
}
