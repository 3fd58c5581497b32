// internal/game/betting.go
package game

import (
	"fmt"

	"github.com/google/uuid"

	engine "github.com/jason-s-yu/truco/engine"
)

// ProposeRaise asks for the next stake tier on behalf of playerID. While a
// proposal against the player is pending this is a re-raise.
func (g *TrucoGame) ProposeRaise(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	side, err := g.sideOf(playerID)
	if err != nil {
		return err
	}
	return g.act(side, "raise", func(m *engine.MatchState) error {
		return m.ProposeRaise(side)
	})
}

// RespondToProposal answers the pending proposal: "accept", "run" or "raise".
func (g *TrucoGame) RespondToProposal(playerID uuid.UUID, response string) error {
	resp, err := ParseResponse(response)
	if err != nil {
		return fmt.Errorf("game %s: %w", g.ID, err)
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()

	side, err := g.sideOf(playerID)
	if err != nil {
		return err
	}
	return g.act(side, "respond_"+response, func(m *engine.MatchState) error {
		return m.Respond(side, resp)
	})
}

// ParseResponse maps a response name to the engine value.
func ParseResponse(s string) (engine.Response, error) {
	switch s {
	case "accept":
		return engine.ResponseAccept, nil
	case "run":
		return engine.ResponseRun, nil
	case "raise":
		return engine.ResponseRaise, nil
	}
	return 0, fmt.Errorf("%w: unknown response %q", engine.ErrIllegalAction, s)
}
