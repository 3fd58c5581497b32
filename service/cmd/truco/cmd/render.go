package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/jason-s-yu/truco/service/internal/game"
	"github.com/jason-s-yu/truco/service/internal/models"
)

// FaceDown is how a hidden card is drawn.
const FaceDown = "🂠"

// cardString draws a card with its suit symbol, red suits in red.
func cardString(c *models.Card) string {
	if c == nil {
		return "  "
	}
	if c.Rank == "" {
		return FaceDown
	}
	var suit string
	switch c.Suit {
	case "ouros":
		suit = pterm.LightRed("♦")
	case "copas":
		suit = pterm.LightRed("♥")
	case "espadas":
		suit = pterm.White("♠")
	case "paus":
		suit = pterm.White("♣")
	default:
		suit = "?"
	}
	s := c.Rank + suit
	if c.Hidden {
		s += pterm.Gray("(hidden)")
	}
	return s
}

// renderTable prints the state seen from you's seat.
func renderTable(st game.TableState, you uuid.UUID) {
	pterm.DefaultSection.Printfln("Hand %d  stake %d", st.HandNumber, st.Stake)
	pterm.Printfln("vira %s  manilhas: %s", cardString(st.Vira), st.ManilhaRank)
	if len(st.Tricks) > 0 {
		pterm.Printfln("tricks: %s", strings.Join(st.Tricks, ", "))
	}
	for _, seat := range st.Seats {
		pterm.Printfln("%-8s %2d points  table: %s", seat.Name, seat.Score, cardString(seat.Table))
		if seat.PlayerID == you {
			var hand []string
			for i := range seat.Hand {
				hand = append(hand, fmt.Sprintf("[%d] %s", i+1, cardString(&seat.Hand[i])))
			}
			pterm.Printfln("your hand: %s", strings.Join(hand, "  "))
		}
	}
	if st.Pending != nil {
		pterm.Warning.Printfln("raise to %d waiting for your answer", st.Pending.Value)
	}
}

// eventPrinter narrates broadcast events for a terminal player.
type eventPrinter struct {
	names map[uuid.UUID]string
}

func (p *eventPrinter) name(ev game.GameEvent) string {
	if ev.User == nil {
		return ""
	}
	if n, ok := p.names[ev.User.ID]; ok {
		return n
	}
	return "nobody"
}

func (p *eventPrinter) onEvent(ev game.GameEvent) {
	switch ev.Type {
	case game.EventHandStart:
		pterm.Info.Printfln("hand %v dealt, %s leads", ev.Payload["hand"], p.name(ev))
	case game.EventTableState:
		if ev.State == nil {
			return
		}
		for _, seat := range ev.State.Seats {
			if seat.PlayerID == ev.User.ID {
				pterm.Printfln("%s plays %s", p.name(ev), cardString(seat.Table))
			}
		}
	case game.EventTrickResult:
		if ev.Payload["result"] == "draw" {
			pterm.Info.Printfln("trick %v drawn", ev.Payload["trick"])
		} else {
			pterm.Info.Printfln("trick %v to %s", ev.Payload["trick"], p.name(ev))
		}
	case game.EventBetProposed:
		pterm.Warning.Printfln("%s asks for %v!", p.name(ev), ev.Payload["value"])
	case game.EventBetAccepted:
		pterm.Info.Printfln("%s accepts, hand is worth %v", p.name(ev), ev.Payload["stake"])
	case game.EventBetRun:
		pterm.Info.Printfln("%s runs", p.name(ev))
	case game.EventHandResult:
		if ev.Payload["result"] == "draw" {
			pterm.Info.Println("hand drawn, nobody scores")
		} else {
			pterm.Success.Printfln("%s takes the hand for %v", p.name(ev), ev.Payload["points"])
		}
	case game.EventMatchEnd:
		if ev.Payload["reason"] == "score" {
			pterm.Success.Printfln("Match over: %s wins", p.name(ev))
		} else {
			pterm.Warning.Printfln("Match over: %v", ev.Payload["reason"])
		}
	}
}
