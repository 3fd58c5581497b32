package engine

import (
	"errors"
	"testing"
)

// TestResolveTrick covers the hidden-card rules and plain comparison.
func TestResolveTrick(t *testing.T) {
	m, _ := DeriveManilhas(mustCard("Ko")) // aces are trump
	play := func(s string, hidden bool) PlayedCard { return PlayedCard{Card: mustCard(s), Hidden: hidden} }

	tests := []struct {
		name     string
		player   PlayedCard
		opponent PlayedCard
		want     Result
	}{
		{"higher plain wins", play("3o", false), play("2p", false), ResultPlayer},
		{"manilha beats plain", play("3p", false), play("Ao", false), ResultOpponent},
		{"paus manilha beats copas manilha", play("Ap", false), play("Ac", false), ResultPlayer},
		{"suit breaks plain tie", play("7o", false), play("7e", false), ResultOpponent},
		{"hidden player loses to shown", play("Ap", true), play("4o", false), ResultOpponent},
		{"hidden opponent loses to shown", play("4o", false), play("Ap", true), ResultPlayer},
		{"both hidden draw", play("Ap", true), play("4o", true), ResultDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTrick(tt.player, tt.opponent, m)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ResolveTrick = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestResolveTrickEqualValueDraws exercises the equal-value branch with the same card.
func TestResolveTrickEqualValueDraws(t *testing.T) {
	m, _ := DeriveManilhas(mustCard("5o"))
	c := PlayedCard{Card: mustCard("Jc")}
	got, err := ResolveTrick(c, c, m)
	if err != nil {
		t.Fatal(err)
	}
	if got != ResultDraw {
		t.Errorf("ResolveTrick(same card) = %s, want draw", got)
	}
}

// TestResolveTrickMissingCard verifies the missing-card invariant.
func TestResolveTrickMissingCard(t *testing.T) {
	m, _ := DeriveManilhas(mustCard("5o"))
	_, err := ResolveTrick(PlayedCard{Card: mustCard("Jc")}, PlayedCard{Card: EmptyCard}, m)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("err = %v, want ErrInvariantViolation", err)
	}
	_, err = ResolveTrick(PlayedCard{Card: EmptyCard}, PlayedCard{Card: mustCard("Jc")}, m)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("err = %v, want ErrInvariantViolation", err)
	}
}

// TestResolveTrickAntisymmetric swaps the two sides for every pair of cards and
// hidden flags and expects the complementary result.
func TestResolveTrickAntisymmetric(t *testing.T) {
	complement := map[Result]Result{
		ResultPlayer:   ResultOpponent,
		ResultOpponent: ResultPlayer,
		ResultDraw:     ResultDraw,
	}
	deck := NewDeck()
	for _, vira := range []Card{mustCard("4o"), mustCard("Kc"), mustCard("3p")} {
		m, _ := DeriveManilhas(vira)
		for _, a := range deck {
			for _, b := range deck {
				if a == b {
					continue
				}
				for flags := 0; flags < 4; flags++ {
					pa := PlayedCard{Card: a, Hidden: flags&1 != 0}
					pb := PlayedCard{Card: b, Hidden: flags&2 != 0}
					ab, _ := ResolveTrick(pa, pb, m)
					ba, _ := ResolveTrick(pb, pa, m)
					if complement[ab] != ba {
						t.Fatalf("vira %s: (%s,%v | %s,%v) = %s but swapped = %s",
							vira, a, pa.Hidden, b, pb.Hidden, ab, ba)
					}
				}
			}
		}
	}
}
