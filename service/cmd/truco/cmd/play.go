package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	engine "github.com/jason-s-yu/truco/engine"
	"github.com/jason-s-yu/truco/service/internal/cache"
	"github.com/jason-s-yu/truco/service/internal/game"
	"github.com/jason-s-yu/truco/service/internal/models"
)

const playHelp = `commands: 1-3 play a card, h2/h3 play it hidden, t raise (truco),
a accept, r run, q quit between hands`

func newPlayCmd(load loadFunc) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a match against the bot on this terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			g := game.NewTrucoGame(log)
			g.Rules = cfg.Rules()
			g.Policy = cfg.Policy()
			if cfg.RedisAddr != "" {
				h, err := cache.Connect(cmd.Context(), cfg.RedisAddr)
				if err != nil {
					return err
				}
				defer h.Close()
				defer g.WaitForHistory()
				g.Historian = h
			}

			you := models.NewPlayer(name, false)
			bot := models.NewPlayer("Bot", true)
			printer := &eventPrinter{names: map[uuid.UUID]string{you.ID: you.Name, bot.ID: bot.Name}}
			g.BroadcastFn = printer.onEvent
			if err := g.AddPlayer(you, engine.SidePlayer); err != nil {
				return err
			}
			if err := g.AddPlayer(bot, engine.SideOpponent); err != nil {
				return err
			}

			pterm.Println(playHelp)
			if err := g.Start(cfg.MatchSeed()); err != nil {
				return err
			}
			return playLoop(g, you.ID, bufio.NewScanner(cmd.InOrStdin()))
		},
	}
	cmd.Flags().StringVar(&name, "name", "You", "your name at the table")
	return cmd
}

// playLoop reads commands until the match ends, the player quits or input
// runs out.
func playLoop(g *game.TrucoGame, you uuid.UUID, in *bufio.Scanner) error {
	for !g.IsOver() {
		renderTable(g.Snapshot(you), you)
		pterm.Print("> ")
		if !in.Scan() {
			pterm.Println()
			return in.Err()
		}
		line := strings.ToLower(strings.TrimSpace(in.Text()))
		quit, err := runCommand(g, you, line)
		if quit {
			return nil
		}
		if err != nil {
			if errors.Is(err, engine.ErrIllegalAction) || errors.Is(err, game.ErrHandInPlay) {
				pterm.Warning.Println(err)
				continue
			}
			return err
		}
	}
	return nil
}

// runCommand applies one input line. quit is true once the player left.
func runCommand(g *game.TrucoGame, you uuid.UUID, line string) (quit bool, err error) {
	switch line {
	case "":
		return false, nil
	case "?", "help":
		pterm.Println(playHelp)
		return false, nil
	case "t", "truco", "raise":
		return false, g.ProposeRaise(you)
	case "a", "accept":
		return false, g.RespondToProposal(you, "accept")
	case "r", "run":
		return false, g.RespondToProposal(you, "run")
	case "q", "quit":
		if err := g.Abandon(); err != nil {
			return false, err
		}
		return true, nil
	}

	hidden := strings.HasPrefix(line, "h")
	n, convErr := strconv.Atoi(strings.TrimPrefix(line, "h"))
	if convErr != nil {
		return false, fmt.Errorf("%w: unknown command %q", engine.ErrIllegalAction, line)
	}
	hand, err := g.HandOf(you)
	if err != nil {
		return false, err
	}
	if n < 1 || n > len(hand) {
		return false, fmt.Errorf("%w: no card %d in your hand", engine.ErrIllegalAction, n)
	}
	return false, g.PlayCard(you, hand[n-1], hidden)
}
