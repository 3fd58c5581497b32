// engine_adapter.go: bridge between engine.MatchState and TrucoGame.
package game

import (
	"github.com/google/uuid"

	engine "github.com/jason-s-yu/truco/engine"
	"github.com/jason-s-yu/truco/service/internal/models"
)

// engineCardToModel converts an engine card to its presentation form, valued
// against the hand's manilhas.
func engineCardToModel(c engine.Card, manilhas [engine.NumSuits]engine.Card) models.Card {
	return models.Card{
		Rank:  engine.RankString(c.Rank()),
		Suit:  engine.SuitName(c.Suit()),
		Value: engine.CardValue(c, manilhas),
	}
}

// playedCardToModel converts a card on the table. A hidden card only shows
// its face when reveal is set.
func playedCardToModel(pc engine.PlayedCard, manilhas [engine.NumSuits]engine.Card, reveal bool) *models.Card {
	if !pc.Present() {
		return nil
	}
	if pc.Hidden && !reveal {
		return &models.Card{Hidden: true, Value: -1}
	}
	c := engineCardToModel(pc.Card, manilhas)
	c.Hidden = pc.Hidden
	return &c
}

// actionName names an engine action index for logs and history.
func actionName(idx uint16) string {
	if _, ok := engine.ActionIsPlay(idx); ok {
		return "play_card"
	}
	if _, ok := engine.ActionIsPlayHidden(idx); ok {
		return "play_hidden"
	}
	switch idx {
	case engine.ActionRaise:
		return "raise"
	case engine.ActionAccept:
		return "respond_accept"
	case engine.ActionRun:
		return "respond_run"
	}
	return "unknown"
}

// playerID returns the ID seated on side.
// Assumes lock is held by caller.
func (g *TrucoGame) playerID(side engine.Side) uuid.UUID {
	if p := g.Players[side]; p != nil {
		return p.ID
	}
	return uuid.Nil
}

// resultWinnerID maps a trick or hand result to the winning player, uuid.Nil
// for a draw.
// Assumes lock is held by caller.
func (g *TrucoGame) resultWinnerID(r engine.Result) uuid.UUID {
	if s, ok := r.Side(); ok {
		return g.playerID(s)
	}
	return uuid.Nil
}

// emitEventsForAction broadcasts what the last engine call did, read from
// Engine.LastAction, and keeps the match statistics.
// Assumes lock is held by caller.
func (g *TrucoGame) emitEventsForAction() {
	la := g.Engine.LastAction
	actorID := g.playerID(la.Actor)

	switch {
	case la.ActionIdx == engine.ActionRaise:
		g.Stats.Raises++
		g.logAction(actorID, string(EventBetProposed), map[string]interface{}{"value": la.BetValue})
		g.fireEvent(GameEvent{
			Type:    EventBetProposed,
			User:    &EventUser{ID: actorID},
			Payload: map[string]interface{}{"value": int(la.BetValue)},
		})
		return

	case la.ActionIdx == engine.ActionAccept:
		g.logAction(actorID, string(EventBetAccepted), map[string]interface{}{"stake": la.BetValue})
		g.fireEvent(GameEvent{
			Type:    EventBetAccepted,
			User:    &EventUser{ID: actorID},
			Payload: map[string]interface{}{"stake": int(la.BetValue)},
		})
		return

	case la.ActionIdx == engine.ActionRun:
		g.Stats.Runs++
		g.logAction(actorID, string(EventBetRun), nil)
		g.fireEvent(GameEvent{Type: EventBetRun, User: &EventUser{ID: actorID}})

	default:
		payload := map[string]interface{}{"hidden": la.Hidden}
		if !la.Hidden {
			payload["card"] = la.Card.String()
		}
		g.logAction(actorID, "play_card", payload)
		if la.TrickResolved {
			g.Stats.Tricks++
			g.emitTrickResult(la.Trick)
		} else {
			g.fireEvent(GameEvent{
				Type:  EventTableState,
				User:  &EventUser{ID: actorID},
				State: g.tableState(uuid.Nil),
			})
		}
	}

	if la.HandEnded {
		g.emitHandResult(la)
		if !la.MatchOver {
			g.emitHandStart()
		}
	}
}

// emitTrickResult broadcasts the completed table and the trick result. The
// cards are valued against the manilhas announced with the hand, since a
// hand-ending trick is reported after the engine dealt the next one.
// Assumes lock is held by caller.
func (g *TrucoGame) emitTrickResult(tr engine.TrickRecord) {
	m := g.handManilhas
	cards := make(map[string]*models.Card, 2)
	for s := engine.SidePlayer; s <= engine.SideOpponent; s++ {
		cards[g.playerID(s).String()] = playedCardToModel(tr.Cards[s], m, false)
	}
	winner := g.resultWinnerID(tr.Result)
	g.logAction(uuid.Nil, string(EventTrickResult), map[string]interface{}{"trick": tr.Number, "result": tr.Result.String()})
	g.fireEvent(GameEvent{
		Type: EventTrickResult,
		User: &EventUser{ID: winner},
		Payload: map[string]interface{}{
			"trick":  int(tr.Number),
			"result": tr.Result.String(),
			"winner": winner.String(),
			"cards":  cards,
		},
	})
}

// emitHandResult broadcasts the hand result and the new score.
// Assumes lock is held by caller.
func (g *TrucoGame) emitHandResult(la engine.LastActionInfo) {
	g.Stats.Hands++
	if la.HandResult == engine.ResultDraw {
		g.Stats.DrawnHands++
	}
	winner := g.resultWinnerID(la.HandResult)
	reason := "tricks"
	if la.HandReason == engine.EndRun {
		reason = "run"
	}
	payload := map[string]interface{}{
		"hand":   int(la.HandNumber),
		"result": la.HandResult.String(),
		"winner": winner.String(),
		"points": int(la.HandPoints),
		"reason": reason,
	}
	g.log.WithFields(payload).Info("hand finished")
	g.logAction(uuid.Nil, string(EventHandResult), payload)
	g.fireEvent(GameEvent{Type: EventHandResult, User: &EventUser{ID: winner}, Payload: payload})

	scores := scoresPayload(g.scores())
	g.logAction(uuid.Nil, string(EventScoreUpdate), map[string]interface{}{"scores": scores})
	g.fireEvent(GameEvent{Type: EventScoreUpdate, Payload: map[string]interface{}{"scores": scores}})
}

// emitHandStart announces a fresh deal: hand number, leader and vira.
// Assumes lock is held by caller.
func (g *TrucoGame) emitHandStart() {
	h := &g.Engine.Hand
	g.handManilhas = h.Manilhas
	vira := engineCardToModel(h.Vira, h.Manilhas)
	leader := g.playerID(h.TrickLeader)
	payload := map[string]interface{}{
		"hand":        int(g.Engine.HandNumber),
		"vira":        vira,
		"manilhaRank": engine.RankString(engine.NextRank(h.Vira.Rank())),
	}
	g.log.WithFields(payload).Debug("hand dealt")
	g.logAction(leader, string(EventHandStart), payload)
	g.fireEvent(GameEvent{Type: EventHandStart, User: &EventUser{ID: leader}, Payload: payload})
}
