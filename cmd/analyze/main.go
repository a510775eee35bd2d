// Command analyze prints quick, human-readable heuristics about seeded deals.
// For each deal it reports buried and stocked aces, which stock cards turn up
// during the first pass, and the legal opening moves. With --dump it also
// prints the full table, optionally after a number of draws.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/klondike/game/engine"
)

// DealAnalysis summarizes one deal.
type DealAnalysis struct {
	Seed      uint64
	Config    string
	DrawCount int
	// BuriedAces are aces lying face-down in the tableau
	BuriedAces int
	// AcesInStock are aces waiting in the stock
	AcesInStock int
	// FirstPass lists the waste tops seen while drawing through the stock once
	FirstPass []engine.Card
	// Moves are the legal moves before the first draw, draw excluded
	Moves []engine.Move
}

func analyzeDeal(config *engine.GameConfig, seed uint64) (*DealAnalysis, error) {
	eng, err := engine.NewEngine(config, engine.NewShuffler(seed))
	if err != nil {
		return nil, err
	}
	state := eng.GetState()

	analysis := &DealAnalysis{
		Seed:      seed,
		Config:    config.Name,
		DrawCount: state.DrawCount,
		Moves:     availableMoves(eng),
	}

	for i := range state.Tableau {
		cards := state.Tableau[i].Cards()
		for _, c := range cards[:engine.FaceUpIndex(cards)] {
			if c.Rank == engine.Ace {
				analysis.BuriedAces++
			}
		}
	}
	for _, c := range state.Stock.Cards() {
		if c.Rank == engine.Ace {
			analysis.AcesInStock++
		}
	}

	for len(eng.Stock()) > 0 {
		eng.DrawFromStock()
		waste := eng.Waste()
		analysis.FirstPass = append(analysis.FirstPass, waste[len(waste)-1])
	}

	return analysis, nil
}

// availableMoves lists every legal non-draw move on the current table. It is
// an offline report for this command; the engine and the server expose no such listing.
// Moving a whole pile onto an empty pile is skipped since it changes nothing.
func availableMoves(eng *engine.GameEngine) []engine.Move {
	var moves []engine.Move

	if waste := eng.Waste(); len(waste) > 0 {
		top := waste[len(waste)-1]
		for f := 0; f < engine.FoundationPiles; f++ {
			if eng.CanPlaceOnFoundation(top, f) {
				moves = append(moves, engine.Move{Action: engine.ActionWasteToFoundation, Target: f})
			}
		}
		for t := 0; t < engine.TableauPiles; t++ {
			if eng.CanPlaceOnTableau(top, t) {
				moves = append(moves, engine.Move{Action: engine.ActionWasteToTableau, Target: t})
			}
		}
	}

	for s := 0; s < engine.TableauPiles; s++ {
		cards, _ := eng.Tableau(s)
		if len(cards) == 0 {
			continue
		}
		top := cards[len(cards)-1]
		for f := 0; f < engine.FoundationPiles; f++ {
			if eng.CanPlaceOnFoundation(top, f) {
				moves = append(moves, engine.Move{Action: engine.ActionTableauToFoundation, Source: s, Target: f})
			}
		}
		for from := engine.FaceUpIndex(cards); from < len(cards); from++ {
			for t := 0; t < engine.TableauPiles; t++ {
				if t == s || !eng.CanPlaceOnTableau(cards[from], t) {
					continue
				}
				if target, _ := eng.Tableau(t); from == 0 && len(target) == 0 {
					continue
				}
				moves = append(moves, engine.Move{Action: engine.ActionTableauRun, Source: s, From: from, Target: t})
			}
		}
	}

	return moves
}

func printAnalysis(a *DealAnalysis) {
	fmt.Printf("Config: %s (draw %d)\n", a.Config, a.DrawCount)
	fmt.Printf("Buried aces: %d\n", a.BuriedAces)
	fmt.Printf("Aces in stock: %d\n", a.AcesInStock)

	fmt.Printf("First pass turns up %d card(s):", len(a.FirstPass))
	for _, c := range a.FirstPass {
		fmt.Printf(" %s", c)
	}
	fmt.Println()

	if len(a.Moves) == 0 {
		fmt.Println("⚠️  No opening moves, the first play must be a draw")
		return
	}
	fmt.Printf("✅ %d opening move(s):\n", len(a.Moves))
	for _, m := range a.Moves {
		fmt.Printf("   %s\n", m)
	}
}

func loadConfig(dir, name string) (*engine.GameConfig, error) {
	config, err := engine.LoadGameConfig(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", name, err)
	}
	return config, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return err
	}

	seed := cmd.Uint64("seed")
	if !cmd.IsSet("seed") {
		seed = engine.RandomSeed()
	}
	count := cmd.Int("count")
	if count < 1 {
		count = 1
	}

	for i := 0; i < int(count); i++ {
		dealSeed := seed + uint64(i)
		fmt.Printf("\n=== Deal %d ===\n", dealSeed)

		analysis, err := analyzeDeal(config, dealSeed)
		if err != nil {
			return err
		}
		printAnalysis(analysis)

		if cmd.Bool("dump") {
			eng, err := engine.NewEngine(config, engine.NewShuffler(dealSeed))
			if err != nil {
				return err
			}
			for d := 0; d < int(cmd.Int("draws")); d++ {
				eng.DrawFromStock()
			}
			fmt.Println()
			fmt.Print(eng.Dump())
		}
	}
	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Analyze seeded Klondike deals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory holding game configuration JSON files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "config",
				Value: "klondike",
				Usage: "configuration ID to deal with",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed of the first deal (random when unset)",
			},
			&cli.IntFlag{
				Name:  "count",
				Value: 1,
				Usage: "number of consecutive seeds to analyze",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print the full table after the analysis",
			},
			&cli.IntFlag{
				Name:  "draws",
				Usage: "draws to apply before dumping",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
