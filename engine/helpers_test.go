package engine

import "testing"

// mustCard parses a card literal such as "7p" and panics on bad input.
func mustCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// setupHand starts a match and replaces the dealt hand with known cards.
func setupHand(t *testing.T, vira string, player, opponent [MaxHandSize]string, leader Side) MatchState {
	t.Helper()
	g := NewMatch(7, DefaultRules())
	g.HandLeader = leader
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	v := mustCard(vira)
	m, err := DeriveManilhas(v)
	if err != nil {
		t.Fatalf("DeriveManilhas(%s): %v", v, err)
	}
	g.Hand.Vira = v
	g.Hand.Manilhas = m
	for i := 0; i < MaxHandSize; i++ {
		g.Hand.Hands[SidePlayer][i] = mustCard(player[i])
		g.Hand.Hands[SideOpponent][i] = mustCard(opponent[i])
	}
	return g
}

// mustPlay plays a card and fails the test on error.
func mustPlay(t *testing.T, g *MatchState, side Side, card string, hidden bool) {
	t.Helper()
	if err := g.PlayCard(side, mustCard(card), hidden); err != nil {
		t.Fatalf("PlayCard(%s, %s, hidden=%v): %v", side, card, hidden, err)
	}
}
