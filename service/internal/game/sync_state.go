// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	engine "github.com/jason-s-yu/truco/engine"
	"github.com/jason-s-yu/truco/service/internal/models"
)

// GameEventType names an event sent to the presentation layer.
type GameEventType string

const (
	EventHandStart   GameEventType = "hand_start"   // new deal: hand number, vira, leader
	EventPlayerTurn  GameEventType = "player_turn"  // a human seat must decide
	EventTableState  GameEventType = "table_state"  // a card hit the table
	EventTrickResult GameEventType = "trick_result" // trick resolved
	EventHandResult  GameEventType = "hand_result"  // hand finished: winner, points
	EventScoreUpdate GameEventType = "score_update"
	EventBetProposed GameEventType = "bet_proposed"
	EventBetAccepted GameEventType = "bet_accepted"
	EventBetRun      GameEventType = "bet_run"
	EventMatchEnd    GameEventType = "match_end"
)

// EventUser identifies a player within a GameEvent.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the envelope of everything broadcast by a game.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"` // actor, or the winner for result events
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *TableState            `json:"state,omitempty"`
}

// SeatState is one seat as seen by an observer.
type SeatState struct {
	PlayerID uuid.UUID    `json:"playerId"`
	Name     string       `json:"name"`
	Bot      bool         `json:"bot"`
	Score    int          `json:"score"`
	HandSize int          `json:"handSize"`
	Table    *models.Card `json:"table,omitempty"` // card in play this trick
	// Hand is only filled for the observer's own seat.
	Hand []models.Card `json:"hand,omitempty"`
}

// BetView describes a pending proposal.
type BetView struct {
	ProposerID uuid.UUID `json:"proposerId"`
	Value      int       `json:"value"`
}

// TableState is the game as seen by one observer. Hidden cards show their
// face only to the seat that played them.
type TableState struct {
	GameID         uuid.UUID    `json:"gameId"`
	HandNumber     int          `json:"handNumber"`
	Vira           *models.Card `json:"vira,omitempty"`
	ManilhaRank    string       `json:"manilhaRank,omitempty"`
	Stake          int          `json:"stake"`
	Tricks         []string     `json:"tricks"`
	Pending        *BetView     `json:"pending,omitempty"`
	ActingPlayerID uuid.UUID    `json:"actingPlayerId"`
	Seats          []SeatState  `json:"seats"`
	GameOver       bool         `json:"gameOver"`
	WinnerID       uuid.UUID    `json:"winnerId"`
}

// Snapshot returns the current state as seen by forPlayer. uuid.Nil (or any
// unseated ID) gets the spectator view.
func (g *TrucoGame) Snapshot(forPlayer uuid.UUID) TableState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return *g.tableState(forPlayer)
}

// tableState builds the observer view.
// Assumes lock is held by caller.
func (g *TrucoGame) tableState(forPlayer uuid.UUID) *TableState {
	h := &g.Engine.Hand
	st := &TableState{
		GameID:     g.ID,
		HandNumber: int(g.Engine.HandNumber),
		Stake:      int(h.Stake),
		Tricks:     []string{},
		GameOver:   g.GameOver,
	}
	if !g.Started {
		return st
	}

	if h.Vira.Valid() {
		v := engineCardToModel(h.Vira, h.Manilhas)
		st.Vira = &v
		st.ManilhaRank = engine.RankString(engine.NextRank(h.Vira.Rank()))
	}
	for _, r := range g.Engine.TrickHistory() {
		st.Tricks = append(st.Tricks, r.String())
	}
	if h.Bet.Pending {
		st.Pending = &BetView{ProposerID: g.playerID(h.Bet.Proposer), Value: int(h.Bet.Proposed)}
	}
	if !g.GameOver {
		st.ActingPlayerID = g.playerID(g.Engine.ActingSide())
	} else if s, ok := g.Engine.Winner(); ok && !g.Aborted {
		st.WinnerID = g.playerID(s)
	}

	table := g.Engine.Table()
	for s := engine.SidePlayer; s <= engine.SideOpponent; s++ {
		p := g.Players[s]
		if p == nil {
			continue
		}
		own := p.ID == forPlayer
		seat := SeatState{
			PlayerID: p.ID,
			Name:     p.Name,
			Bot:      p.Bot,
			Score:    int(g.Engine.Scores[s]),
			HandSize: int(h.HandLen[s]),
			Table:    playedCardToModel(table[s], h.Manilhas, own),
		}
		if own {
			for _, c := range g.Engine.HandOf(s) {
				seat.Hand = append(seat.Hand, engineCardToModel(c, h.Manilhas))
			}
		}
		st.Seats = append(st.Seats, seat)
	}
	return st
}
