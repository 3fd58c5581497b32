package engine

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

// TestStartHandDeal verifies hand sizes, vira, manilhas and initial hand state.
func TestStartHandDeal(t *testing.T) {
	g := NewMatch(42, DefaultRules())
	if g.IsHandActive() {
		t.Fatal("hand active before StartHand")
	}
	if err := g.StartHand(); err != nil {
		t.Fatal(err)
	}

	h := g.Hand
	if h.HandLen != [2]uint8{3, 3} {
		t.Fatalf("HandLen = %v, want [3 3]", h.HandLen)
	}
	seen := map[Card]bool{h.Vira: true}
	for s := 0; s < 2; s++ {
		for i := 0; i < MaxHandSize; i++ {
			c := h.Hands[s][i]
			if seen[c] {
				t.Errorf("card %s dealt twice (or equals the vira)", c)
			}
			seen[c] = true
		}
	}
	want, _ := DeriveManilhas(h.Vira)
	if h.Manilhas != want {
		t.Errorf("Manilhas = %v, want %v", h.Manilhas, want)
	}
	if h.Stake != 1 || h.NumTricks != 0 || h.Bet.Pending {
		t.Errorf("fresh hand: stake=%d tricks=%d pending=%v", h.Stake, h.NumTricks, h.Bet.Pending)
	}
	if h.Turn != SidePlayer || h.TrickLeader != SidePlayer {
		t.Errorf("first hand should be led by the player, got turn=%s leader=%s", h.Turn, h.TrickLeader)
	}
	if g.HandNumber != 1 {
		t.Errorf("HandNumber = %d, want 1", g.HandNumber)
	}
	if g.DecisionCtx() != CtxPlay {
		t.Errorf("DecisionCtx = %d, want CtxPlay", g.DecisionCtx())
	}
}

// TestStartHandDeterministic verifies that the same seed deals the same hand.
func TestStartHandDeterministic(t *testing.T) {
	g1 := NewMatch(99, DefaultRules())
	g2 := NewMatch(99, DefaultRules())
	_ = g1.StartHand()
	_ = g2.StartHand()
	if g1.Hand != g2.Hand {
		t.Fatal("same seed dealt different hands")
	}
	g3 := NewMatch(100, DefaultRules())
	_ = g3.StartHand()
	if g1.Hand == g3.Hand {
		t.Error("different seeds dealt identical hands")
	}
}

func TestPlayCardRejections(t *testing.T) {
	g := setupHand(t, "Ko", [3]string{"4o", "3e", "3c"}, [3]string{"5o", "2e", "2c"}, SidePlayer)

	expectIllegal(t, &g, "out of turn", func() error { return g.PlayCard(SideOpponent, mustCard("5o"), false) })
	expectIllegal(t, &g, "unheld card", func() error { return g.PlayCard(SidePlayer, mustCard("5o"), false) })
	expectIllegal(t, &g, "hidden on trick 1", func() error { return g.PlayCard(SidePlayer, mustCard("4o"), true) })
	expectIllegal(t, &g, "hidden index on trick 1", func() error { return g.ApplyAction(EncodePlayHidden(0)) })
	expectIllegal(t, &g, "answer without proposal", func() error { return g.Respond(SideOpponent, ResponseAccept) })
	expectIllegal(t, &g, "invalid side", func() error { return g.PlayCard(Side(2), mustCard("4o"), false) })

	mustPlay(t, &g, SidePlayer, "4o", false)
	expectIllegal(t, &g, "empty slot", func() error { return g.playSlot(SideOpponent, 3, false) })
	expectIllegal(t, &g, "card already played", func() error { return g.PlayCard(SidePlayer, mustCard("4o"), false) })
}

// TestTrickFlow plays a trick and checks the table, turn passing and leader.
func TestTrickFlow(t *testing.T) {
	g := setupHand(t, "Ko", [3]string{"4o", "3e", "3c"}, [3]string{"5o", "2e", "2c"}, SidePlayer)

	mustPlay(t, &g, SidePlayer, "3e", false)
	if g.Hand.Turn != SideOpponent {
		t.Fatalf("Turn = %s, want opponent", g.Hand.Turn)
	}
	table := g.Table()
	if table[SidePlayer].Card != mustCard("3e") || table[SideOpponent].Present() {
		t.Fatalf("Table = %+v", table)
	}
	if g.Hand.HandLen[SidePlayer] != 2 || g.Hand.Hands[SidePlayer][0] != mustCard("4o") || g.Hand.Hands[SidePlayer][1] != mustCard("3c") {
		t.Fatalf("player hand after play = %v (len %d), want [4♦ 3♥] in order", g.Hand.Hands[SidePlayer], g.Hand.HandLen[SidePlayer])
	}

	mustPlay(t, &g, SideOpponent, "5o", false)
	la := g.LastAction
	if !la.TrickResolved || la.Trick.Result != P || la.Trick.Number != 1 {
		t.Fatalf("LastAction = %+v", la)
	}
	if la.Trick.Cards[SideOpponent].Card != mustCard("5o") {
		t.Errorf("trick record lost the opponent card")
	}
	if g.Table()[SidePlayer].Present() || g.Table()[SideOpponent].Present() {
		t.Error("table not cleared after the trick")
	}
	if g.Hand.Turn != SidePlayer {
		t.Errorf("Turn = %s, want player (trick winner leads)", g.Hand.Turn)
	}

	// Trick 2: the player hides, the opponent shows and wins.
	mustPlay(t, &g, SidePlayer, "3c", true)
	mustPlay(t, &g, SideOpponent, "2e", false)
	if g.LastAction.Trick.Result != O {
		t.Fatalf("hidden card should lose to a shown card, got %s", g.LastAction.Trick.Result)
	}
	if g.Hand.Turn != SideOpponent {
		t.Errorf("Turn = %s, want opponent", g.Hand.Turn)
	}
}

// TestEndToEndRunScenario: the opponent wins trick 1 with a shown manilha,
// raises before trick 2, the player runs, the opponent scores the pre-raise
// stake and leads the next hand.
func TestEndToEndRunScenario(t *testing.T) {
	g := setupHand(t, "Kc", [3]string{"3o", "2e", "7c"}, [3]string{"Ap", "4o", "5e"}, SidePlayer)
	for _, c := range g.HandOf(SidePlayer) {
		if IsManilha(c, g.Hand.Manilhas) {
			t.Fatalf("player should hold no manilha, has %s", c)
		}
	}
	if CardValue(mustCard("Ap"), g.Hand.Manilhas) <= CardValue(mustCard("3o"), g.Hand.Manilhas) {
		t.Fatal("opponent manilha must outrank every plain card")
	}

	mustPlay(t, &g, SidePlayer, "3o", false)
	mustPlay(t, &g, SideOpponent, "Ap", false)
	if g.LastAction.Trick.Result != O {
		t.Fatalf("trick 1 = %s, want opponent", g.LastAction.Trick.Result)
	}

	if err := g.ProposeRaise(SideOpponent); err != nil {
		t.Fatal(err)
	}
	if g.ActingSide() != SidePlayer || g.Hand.Bet.Proposed != 3 {
		t.Fatalf("acting=%s proposed=%d, want player and 3", g.ActingSide(), g.Hand.Bet.Proposed)
	}
	if err := g.Respond(SidePlayer, ResponseRun); err != nil {
		t.Fatal(err)
	}

	if g.Scores != [2]uint8{0, 1} {
		t.Errorf("Scores = %v, want [0 1]", g.Scores)
	}
	if g.HandLeader != SideOpponent {
		t.Errorf("HandLeader = %s, want opponent", g.HandLeader)
	}
	if g.HandNumber != 2 || g.Hand.Turn != SideOpponent || g.Hand.NumTricks != 0 || g.Hand.HandLen != [2]uint8{3, 3} {
		t.Errorf("new hand not dealt: number=%d turn=%s tricks=%d lens=%v",
			g.HandNumber, g.Hand.Turn, g.Hand.NumTricks, g.Hand.HandLen)
	}
}

// TestMatchEndsAtTwelve verifies termination and that nothing is accepted afterwards.
func TestMatchEndsAtTwelve(t *testing.T) {
	g := setupHand(t, "Ko", [3]string{"3o", "3e", "4o"}, [3]string{"2o", "2e", "5o"}, SidePlayer)
	g.Scores = [2]uint8{11, 10}

	mustPlay(t, &g, SidePlayer, "3o", false)
	mustPlay(t, &g, SideOpponent, "2o", false)
	mustPlay(t, &g, SidePlayer, "3e", false)
	mustPlay(t, &g, SideOpponent, "2e", false)

	if !g.IsOver() || !g.LastAction.MatchOver {
		t.Fatal("match should be over")
	}
	if w, ok := g.Winner(); !ok || w != SidePlayer {
		t.Errorf("Winner = %s,%v want player,true", w, ok)
	}
	if g.HandNumber != 1 {
		t.Errorf("HandNumber = %d, no hand should be dealt after the end", g.HandNumber)
	}
	if g.DecisionCtx() != CtxTerminal || g.LegalActions() != 0 {
		t.Error("no action should be legal after the end")
	}
	expectIllegal(t, &g, "play after end", func() error { return g.PlayCard(SidePlayer, mustCard("4o"), false) })
	expectIllegal(t, &g, "raise after end", func() error { return g.ProposeRaise(SidePlayer) })
	expectIllegal(t, &g, "deal after end", func() error { return g.StartHand() })
}

func TestLegalActions(t *testing.T) {
	g := setupHand(t, "Ko", [3]string{"4o", "3e", "3c"}, [3]string{"5o", "2e", "2c"}, SidePlayer)

	want := []uint16{EncodePlay(0), EncodePlay(1), EncodePlay(2), ActionRaise}
	if got := g.LegalActionsList(); !slices.Equal(got, want) {
		t.Fatalf("trick 1 legal = %v, want %v", got, want)
	}

	if err := g.ApplyAction(ActionRaise); err != nil {
		t.Fatal(err)
	}
	want = []uint16{ActionRaise, ActionAccept, ActionRun}
	if got := g.LegalActionsList(); !slices.Equal(got, want) {
		t.Fatalf("respond legal = %v, want %v", got, want)
	}
	if err := g.ApplyAction(ActionAccept); err != nil {
		t.Fatal(err)
	}

	// The player raised last, so only plays remain.
	want = []uint16{EncodePlay(0), EncodePlay(1), EncodePlay(2)}
	if got := g.LegalActionsList(); !slices.Equal(got, want) {
		t.Fatalf("after accept legal = %v, want %v", got, want)
	}
	if err := g.ApplyAction(EncodePlay(0)); err != nil { // 4♦
		t.Fatal(err)
	}
	if err := g.ApplyAction(EncodePlay(0)); err != nil { // 5♦, opponent wins and leads
		t.Fatal(err)
	}
	want = []uint16{EncodePlay(0), EncodePlay(1), EncodePlayHidden(0), EncodePlayHidden(1), ActionRaise}
	if got := g.LegalActionsList(); !slices.Equal(got, want) {
		t.Fatalf("trick 2 legal = %v, want %v", got, want)
	}
	if err := g.ApplyAction(NumActions); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("ApplyAction(out of range) err = %v", err)
	}
}

func TestSaveRestore(t *testing.T) {
	g := NewMatch(5, DefaultRules())
	_ = g.StartHand()
	snap := g.Save()
	if err := g.ApplyAction(EncodePlay(0)); err != nil {
		t.Fatal(err)
	}
	g.Restore(snap)
	if MatchState(snap) != g {
		t.Fatal("Restore did not bring back the saved state")
	}
}

// TestRandomMatchesTerminate plays random legal actions and checks the
// invariants hold until the match ends.
func TestRandomMatchesTerminate(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		g := NewMatch(seed, DefaultRules())
		if err := g.StartHand(); err != nil {
			t.Fatal(err)
		}
		pick := rand.New(rand.NewPCG(seed, 7))

		steps := 0
		for !g.IsOver() {
			steps++
			if steps > 10000 {
				t.Fatalf("seed %d: match did not end", seed)
			}
			legal := g.LegalActionsList()
			if len(legal) == 0 {
				t.Fatalf("seed %d: no legal action in a live match", seed)
			}
			if err := g.ApplyAction(legal[pick.IntN(len(legal))]); err != nil {
				t.Fatalf("seed %d: legal action rejected: %v", seed, err)
			}
			if _, ok := NextStake(g.Hand.Stake); !ok && g.Hand.Stake != MaxStake {
				t.Fatalf("seed %d: stake %d off the ladder", seed, g.Hand.Stake)
			}
		}

		w, ok := g.Winner()
		if !ok || g.Scores[w] < MatchPoints || g.Scores[w.Other()] >= MatchPoints {
			t.Errorf("seed %d: bad final score %v winner %s", seed, g.Scores, w)
		}
	}
}
