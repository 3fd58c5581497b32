// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/truco/engine"
	"github.com/jason-s-yu/truco/engine/agent"
	"github.com/jason-s-yu/truco/service/internal/cache"
	"github.com/jason-s-yu/truco/service/internal/models"
)

// historyBuffer is how many records may wait for the historian before
// logAction blocks.
const historyBuffer = 256

// Session errors, returned wrapped with the game ID.
var (
	ErrNotStarted    = errors.New("game not started")
	ErrAlreadyOver   = errors.New("game is over")
	ErrUnknownPlayer = errors.New("player not seated in this game")
	ErrSeatTaken     = errors.New("seat already taken")
	ErrHandInPlay    = errors.New("a hand is in progress")
)

// OnGameEndFunc is called once when a game finishes or is abandoned. winner is
// uuid.Nil for an abandoned game.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// ActionPublisher receives the action history. *cache.Historian implements it.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, rec cache.GameActionRecord) error
}

// MatchStats counts what happened in a match.
type MatchStats struct {
	Hands      int `json:"hands"`
	DrawnHands int `json:"drawnHands"`
	Runs       int `json:"runs"`
	Raises     int `json:"raises"`
	Tricks     int `json:"tricks"`
}

// TrucoGame is one match between two seats, either of which may be a bot.
type TrucoGame struct {
	ID      uuid.UUID
	Players [2]*models.Player // indexed by engine.Side

	Engine engine.MatchState // authoritative match state
	Rules  engine.Rules
	Policy agent.Policy // drives bot seats

	Started  bool
	GameOver bool
	Aborted  bool
	Stats    MatchStats

	Mu sync.Mutex

	BroadcastFn func(ev GameEvent)
	OnGameEnd   OnGameEndFunc
	Historian   ActionPublisher

	log          *logrus.Entry
	actionIndex  int
	publishing   sync.WaitGroup
	history      chan cache.GameActionRecord  // nil until the first record is queued
	handManilhas [engine.NumSuits]engine.Card // manilhas of the hand last announced
}

// NewTrucoGame creates a game with default rules and policy. A nil logger
// uses the logrus standard logger.
func NewTrucoGame(logger *logrus.Logger) *TrucoGame {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id := uuid.New()
	return &TrucoGame{
		ID:     id,
		Rules:  engine.DefaultRules(),
		Policy: agent.New(agent.DefaultConfig()),
		log:    logger.WithField("game", id.String()),
	}
}

// AddPlayer seats p on side before the game starts.
func (g *TrucoGame) AddPlayer(p *models.Player, side engine.Side) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started || g.GameOver {
		return fmt.Errorf("game %s: cannot seat %s after start", g.ID, p.Name)
	}
	if side > engine.SideOpponent {
		return fmt.Errorf("game %s: invalid side %d", g.ID, side)
	}
	if g.Players[side] != nil {
		return fmt.Errorf("game %s: %s: %w", g.ID, side, ErrSeatTaken)
	}
	g.Players[side] = p
	g.log.WithFields(logrus.Fields{"player": p.ID, "name": p.Name, "side": side, "bot": p.Bot}).Info("player seated")
	g.logAction(p.ID, "player_add", map[string]interface{}{"name": p.Name, "side": side.String(), "bot": p.Bot})
	return nil
}

// Start deals the first hand from seed and lets bots act until a human must
// decide or the match ends.
func (g *TrucoGame) Start(seed uint64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started || g.GameOver {
		return fmt.Errorf("game %s: already started", g.ID)
	}
	for s, p := range g.Players {
		if p == nil {
			return fmt.Errorf("game %s: seat %s is empty", g.ID, engine.Side(s))
		}
	}

	g.Engine = engine.NewMatch(seed, g.Rules)
	if err := g.Engine.StartHand(); err != nil {
		g.log.WithError(err).Error("initial deal failed")
		return fmt.Errorf("game %s: %w", g.ID, err)
	}
	g.Started = true
	g.log.WithField("seed", seed).Info("game started")
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"seed": seed})
	g.emitHandStart()
	return g.driveBots()
}

// PlayCard plays card for playerID, face down when hidden.
func (g *TrucoGame) PlayCard(playerID uuid.UUID, card engine.Card, hidden bool) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	side, err := g.sideOf(playerID)
	if err != nil {
		return err
	}
	return g.act(side, "play_card", func(m *engine.MatchState) error {
		return m.PlayCard(side, card, hidden)
	})
}

// HandOf returns the cards playerID still holds, in dealt order.
func (g *TrucoGame) HandOf(playerID uuid.UUID) ([]engine.Card, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	side, err := g.sideOf(playerID)
	if err != nil {
		return nil, err
	}
	return g.Engine.HandOf(side), nil
}

// IsOver reports whether the match has finished or was abandoned.
func (g *TrucoGame) IsOver() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.GameOver
}

// Score returns the points of each seated player.
func (g *TrucoGame) Score() map[uuid.UUID]int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.scores()
}

// Winner returns the winning player once the match is decided.
func (g *TrucoGame) Winner() (*models.Player, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	s, ok := g.Engine.Winner()
	if !ok || g.Aborted {
		return nil, false
	}
	return g.Players[s], true
}

// Abandon ends the match without a winner. It is only allowed between hands:
// before the start, or on a fresh deal with nothing played or proposed.
func (g *TrucoGame) Abandon() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.GameOver {
		return fmt.Errorf("game %s: %w", g.ID, ErrAlreadyOver)
	}
	if g.Started && (!g.Engine.NothingPlayed() || g.Engine.Hand.Bet.Pending || g.Engine.Hand.Stake != 1) {
		return fmt.Errorf("game %s: %w", g.ID, ErrHandInPlay)
	}
	g.log.Info("game abandoned")
	g.endGame("abandoned")
	return nil
}

// WaitForHistory blocks until every queued history record was sent.
func (g *TrucoGame) WaitForHistory() { g.publishing.Wait() }

// sideOf maps a player ID to the seat it occupies.
// Assumes lock is held by caller.
func (g *TrucoGame) sideOf(playerID uuid.UUID) (engine.Side, error) {
	for s, p := range g.Players {
		if p != nil && p.ID == playerID {
			return engine.Side(s), nil
		}
	}
	return 0, fmt.Errorf("game %s: %s: %w", g.ID, playerID, ErrUnknownPlayer)
}

// act runs one human call through step and then lets bots respond.
// Assumes lock is held by caller.
func (g *TrucoGame) act(side engine.Side, action string, fn func(*engine.MatchState) error) error {
	if err := g.step(side, action, fn); err != nil {
		return err
	}
	return g.driveBots()
}

// step applies a single engine call. An illegal action leaves the match
// untouched and is returned to the caller. An invariant violation restores
// the pre-call state and aborts the match.
// Assumes lock is held by caller.
func (g *TrucoGame) step(side engine.Side, action string, fn func(*engine.MatchState) error) error {
	if !g.Started {
		return fmt.Errorf("game %s: %w", g.ID, ErrNotStarted)
	}
	if g.GameOver {
		return fmt.Errorf("game %s: %w", g.ID, ErrAlreadyOver)
	}

	fields := logrus.Fields{"side": side, "action": action}
	snap := g.Engine.Save()
	if err := fn(&g.Engine); err != nil {
		if errors.Is(err, engine.ErrInvariantViolation) {
			g.Engine.Restore(snap)
			g.log.WithFields(fields).WithError(err).Error("rules invariant violated, aborting match")
			g.endGame("invariant_violation")
			return fmt.Errorf("game %s: %w", g.ID, err)
		}
		g.log.WithFields(fields).WithError(err).Warn("action rejected")
		return fmt.Errorf("game %s: %w", g.ID, err)
	}

	g.log.WithFields(fields).Debug("action applied")
	g.emitEventsForAction()
	if g.Engine.IsOver() {
		g.endGame("score")
	}
	return nil
}

// driveBots lets bot seats act until a human must decide or the match ends.
// Assumes lock is held by caller.
func (g *TrucoGame) driveBots() error {
	for !g.GameOver {
		side := g.Engine.ActingSide()
		if !g.Players[side].Bot {
			g.broadcastPlayerTurn()
			return nil
		}
		idx, err := g.Policy.Decide(&g.Engine, side, &g.Engine.RNG)
		if err != nil {
			g.log.WithError(err).WithField("side", side).Error("bot could not decide")
			return fmt.Errorf("game %s: bot %s: %w", g.ID, side, err)
		}
		if err := g.step(side, actionName(idx), func(m *engine.MatchState) error {
			return m.ApplyAction(idx)
		}); err != nil {
			return err
		}
	}
	return nil
}

// fireEvent hands ev to BroadcastFn, if any.
// Assumes lock is held by caller.
func (g *TrucoGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// broadcastPlayerTurn announces who must act next.
// Assumes lock is held by caller.
func (g *TrucoGame) broadcastPlayerTurn() {
	side := g.Engine.ActingSide()
	ctx := "play"
	if g.Engine.DecisionCtx() == engine.CtxRespond {
		ctx = "respond"
	}
	g.fireEvent(GameEvent{
		Type:    EventPlayerTurn,
		User:    &EventUser{ID: g.Players[side].ID},
		Payload: map[string]interface{}{"decision": ctx, "handNumber": int(g.Engine.HandNumber)},
	})
}

// scores maps each seated player to their points.
// Assumes lock is held by caller.
func (g *TrucoGame) scores() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, 2)
	for s, p := range g.Players {
		if p != nil {
			out[p.ID] = int(g.Engine.Scores[s])
		}
	}
	return out
}

// endGame marks the game finished, broadcasts the result and fires OnGameEnd.
// Assumes lock is held by caller.
func (g *TrucoGame) endGame(reason string) {
	if g.GameOver {
		return
	}
	g.GameOver = true

	var winnerID uuid.UUID
	if s, ok := g.Engine.Winner(); ok && reason == "score" {
		winnerID = g.Players[s].ID
	} else {
		g.Aborted = true
	}
	scores := g.scores()

	payload := map[string]interface{}{
		"reason": reason,
		"winner": winnerID.String(),
		"scores": scoresPayload(scores),
		"stats":  g.Stats,
	}
	g.logAction(uuid.Nil, string(EventMatchEnd), payload)
	g.closeHistory()
	g.fireEvent(GameEvent{Type: EventMatchEnd, User: &EventUser{ID: winnerID}, Payload: payload})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winnerID, scores)
	}
	g.log.WithFields(logrus.Fields{"winner": winnerID, "reason": reason, "hands": g.Stats.Hands}).Info("game ended")
}

// logAction queues an action record for the historian. A single publisher
// drains the queue, so records reach it in action index order.
// Assumes lock is held by caller.
func (g *TrucoGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.Historian == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	if g.history == nil {
		g.history = make(chan cache.GameActionRecord, historyBuffer)
		go g.publishHistory(g.Historian, g.history)
	}
	g.publishing.Add(1)
	g.history <- record
}

// publishHistory sends queued records one at a time, so the historian sees
// them in action index order.
func (g *TrucoGame) publishHistory(pub ActionPublisher, queue <-chan cache.GameActionRecord) {
	for rec := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := pub.PublishGameAction(ctx, rec); err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{"index": rec.ActionIndex, "type": rec.ActionType}).Error("publishing action failed")
		}
		cancel()
		g.publishing.Done()
	}
}

// closeHistory stops the publisher once its queue is drained. No record
// follows match_end.
// Assumes lock is held by caller.
func (g *TrucoGame) closeHistory() {
	if g.history != nil {
		close(g.history)
		g.history = nil
	}
}

func scoresPayload(scores map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(scores))
	for id, s := range scores {
		out[id.String()] = s
	}
	return out
}
