package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/rpc"
	"github.com/danielpatrickdp/wordle-solver/internal/simulate"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
)

// #region main
func main() {
	lang := flag.String("lang", envOr("WORDLE_LANG", "es"), "language code (sample mode)")
	n := flag.Int("n", 100, "number of secrets to sample; 0 plays the whole catalog")
	seed := flag.Uint64("seed", 1, "sampling seed")
	parallel := flag.Int("parallel", 4, "games in flight")
	fixturePath := flag.String("fixture", "", "replay a fixture JSON and compare every turn")
	exportPath := flag.String("export", "", "write the played games as a fixture JSON (sample mode)")
	remote := flag.String("remote", "", "play against a solver server at this address instead of in process")
	flag.Parse()

	g, closeFn, err := openGuesser(*remote)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open solver: %v\n", err)
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(g, *fixturePath)
	} else {
		exitCode = runSampleMode(g, *lang, *n, *seed, *parallel, *exportPath)
	}
	closeFn()
	os.Exit(exitCode)
}
// #endregion main

// #region guesser
func openGuesser(remote string) (simulate.Guesser, func(), error) {
	if remote != "" {
		c, err := rpc.NewClient(remote)
		if err != nil {
			return nil, nil, err
		}
		return remoteGuesser{c}, func() { c.Close() }, nil
	}
	s, store, err := solver.Open(solver.DefaultConfig(), nil)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { store.Close() }, nil
}

// remoteGuesser plays through a wordle.v1.Solver server.
type remoteGuesser struct {
	c *rpc.Client
}

func (r remoteGuesser) BestGuess(ctx context.Context, language string, steps []feedback.Step) (solver.Suggestion, error) {
	word, err := r.c.BestGuess(ctx, language, steps)
	return solver.Suggestion{Word: word}, err
}

func (r remoteGuesser) FilterWordsAccumulative(ctx context.Context, language string, steps []feedback.Step) ([]catalog.Word, error) {
	cands, err := r.c.PossibleWords(ctx, language, steps)
	if err != nil {
		return nil, err
	}
	words := make([]catalog.Word, len(cands))
	for i, c := range cands {
		words[i] = catalog.Word{ID: i + 1, Word: c.Word, Probability: c.Probability}
	}
	return words, nil
}
// #endregion guesser

// #region sample-mode
func runSampleMode(g simulate.Guesser, lang string, n int, seed uint64, parallel int, exportPath string) int {
	ctx := context.Background()
	words, err := g.FilterWordsAccumulative(ctx, lang, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", lang, err)
		return 2
	}
	secrets := simulate.Sample(words, n, seed)

	bar := progressbar.NewOptions(len(secrets),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("games"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	games, err := simulate.Run(ctx, g, lang, secrets, parallel, func(simulate.Game) { bar.Add(1) })
	bar.Finish()
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		return 2
	}

	printSummary(lang, simulate.Summarize(games))

	if exportPath != "" {
		desc := fmt.Sprintf("%d %s games, seed %d", len(games), lang, seed)
		if err := simulate.WriteFixture(exportPath, simulate.NewFixture(desc, lang, games)); err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			return 2
		}
		fmt.Printf("\nWrote %d games to %s\n", len(games), exportPath)
	}
	return 0
}

func printSummary(lang string, s simulate.Summary) {
	fmt.Printf("Language: %s | Games: %d | Solved: %d | Mean turns: %.3f\n\n", lang, s.Games, s.Solved, s.Mean)
	fmt.Printf("%-6s| %-8s| %s\n", "Turns", "Games", "Share")
	fmt.Printf("%-6s+%-9s+%s\n", "------", "---------", "--------")
	for _, b := range s.Buckets {
		fmt.Printf("%-6s| %-8d| %5.1f%% %s\n", b.Label, b.Count, b.Share*100, strings.Repeat("#", int(b.Share*40)))
	}
}
// #endregion sample-mode

// #region fixture-mode
func runFixtureMode(g simulate.Guesser, path string) int {
	f, err := simulate.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	results, err := simulate.Replay(context.Background(), g, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}
	return printComparison(results)
}

// printComparison outputs a comparison table and returns the exit code.
func printComparison(results []simulate.TurnResult) int {
	fmt.Printf("%-10s| %-4s| %-28s| %-28s| %s\n", "Secret", "Turn", "Expected", "Replayed", "Match")
	fmt.Printf("%-10s+%-5s+%-29s+%-29s+%s\n",
		"----------", "-----", "-----------------------------", "-----------------------------", "------")

	matches := 0
	for _, r := range results {
		match := "DIFF"
		if r.Match {
			match = "OK"
			matches++
		}
		fmt.Printf("%-10s| %-4d| %-28s| %-28s| %s\n", r.Secret, r.Turn, r.Expected, r.Replayed, match)
	}

	diverge := len(results) - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", len(results), matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}
// #endregion fixture-mode

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
