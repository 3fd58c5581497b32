package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	engine "github.com/jason-s-yu/truco/engine"
	"github.com/jason-s-yu/truco/service/internal/config"
	"github.com/jason-s-yu/truco/service/internal/game"
	"github.com/jason-s-yu/truco/service/internal/models"
)

// matchResult is the outcome of one simulated match.
type matchResult struct {
	Seed   uint64
	Winner engine.Side
	Scores [2]uint8
	Stats  game.MatchStats
}

// summary aggregates simulated matches.
type summary struct {
	Matches    int
	Wins       [2]int
	Hands      int
	DrawnHands int
	Runs       int
	Raises     int
	Tricks     int
}

func summarize(results []matchResult) summary {
	s := summary{Matches: len(results)}
	for _, r := range results {
		s.Wins[r.Winner]++
		s.Hands += r.Stats.Hands
		s.DrawnHands += r.Stats.DrawnHands
		s.Runs += r.Stats.Runs
		s.Raises += r.Stats.Raises
		s.Tricks += r.Stats.Tricks
	}
	return s
}

func (s summary) tableData() pterm.TableData {
	avg := func(n int) string {
		if s.Matches == 0 {
			return "0"
		}
		return fmt.Sprintf("%.2f", float64(n)/float64(s.Matches))
	}
	return pterm.TableData{
		{"", "total", "per match"},
		{"matches", fmt.Sprint(s.Matches), ""},
		{"player wins", fmt.Sprint(s.Wins[engine.SidePlayer]), avg(s.Wins[engine.SidePlayer])},
		{"opponent wins", fmt.Sprint(s.Wins[engine.SideOpponent]), avg(s.Wins[engine.SideOpponent])},
		{"hands", fmt.Sprint(s.Hands), avg(s.Hands)},
		{"drawn hands", fmt.Sprint(s.DrawnHands), avg(s.DrawnHands)},
		{"runs", fmt.Sprint(s.Runs), avg(s.Runs)},
		{"raises", fmt.Sprint(s.Raises), avg(s.Raises)},
		{"tricks", fmt.Sprint(s.Tricks), avg(s.Tricks)},
	}
}

// simulateMatch plays one bot-against-bot match to the end.
func simulateMatch(cfg config.Config, log *logrus.Logger, seed uint64) (matchResult, error) {
	g := game.NewTrucoGame(log)
	g.Rules = cfg.Rules()
	g.Policy = cfg.Policy()
	if err := g.AddPlayer(models.NewPlayer("bot-player", true), engine.SidePlayer); err != nil {
		return matchResult{}, err
	}
	if err := g.AddPlayer(models.NewPlayer("bot-opponent", true), engine.SideOpponent); err != nil {
		return matchResult{}, err
	}
	if err := g.Start(seed); err != nil {
		return matchResult{}, err
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	winner, ok := g.Engine.Winner()
	if !ok {
		return matchResult{}, fmt.Errorf("seed %d: match ended without a winner", seed)
	}
	return matchResult{Seed: seed, Winner: winner, Scores: g.Engine.Scores, Stats: g.Stats}, nil
}

// runSimulations plays n matches with seeds base..base+n-1 on at most
// workers goroutines. Results are in seed order.
func runSimulations(ctx context.Context, cfg config.Config, log *logrus.Logger, n int, base uint64) ([]matchResult, error) {
	results := make([]matchResult, n)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.SimWorkers)
	for i := 0; i < n; i++ {
		seed := base + uint64(i)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := simulateMatch(cfg, log, seed)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newSimulateCmd(load loadFunc) *cobra.Command {
	var matches int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play bot against bot and report statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if matches < 1 {
				return fmt.Errorf("--matches must be at least 1, got %d", matches)
			}
			base := cfg.MatchSeed()
			log.WithFields(logrus.Fields{"matches": matches, "seed": base, "workers": cfg.SimWorkers}).Info("simulating")

			results, err := runSimulations(cmd.Context(), cfg, log, matches, base)
			if err != nil {
				return err
			}
			pterm.DefaultSection.Println("Simulation")
			return pterm.DefaultTable.WithHasHeader().WithData(summarize(results).tableData()).Render()
		},
	}
	cmd.Flags().IntVar(&matches, "matches", 100, "number of matches to play")
	return cmd
}
