package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/filter"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
)

// MaxSteps is how many suggested guesses a game gets before it falls back
// to the first remaining candidate.
const MaxSteps = 6

// #region types
// Guesser is the part of the solver a simulated game uses.
type Guesser interface {
	BestGuess(ctx context.Context, language string, steps []feedback.Step) (solver.Suggestion, error)
	FilterWordsAccumulative(ctx context.Context, language string, steps []feedback.Step) ([]catalog.Word, error)
}

// Game is one simulated game.
type Game struct {
	ID       string          `json:"id"`
	Language string          `json:"language"`
	Secret   string          `json:"secret"`
	Steps    []feedback.Step `json:"steps"`
	Solved   bool            `json:"solved"`
}

// Turns is the number of guesses played.
func (g Game) Turns() int {
	return len(g.Steps)
}

// Bucket is one histogram row of a Summary.
type Bucket struct {
	Label string
	Count int
	Share float64
}

// Summary provides aggregate stats from a simulation run.
type Summary struct {
	Games   int
	Solved  int
	Mean    float64
	Buckets []Bucket
}
// #endregion types

// #region play
// Play lets the solver guess secret: suggested guesses while more than one
// candidate is left and fewer than MaxSteps were played, then the first
// remaining candidate.
func Play(ctx context.Context, g Guesser, language, secret string) (Game, error) {
	game := Game{ID: uuid.New().String(), Language: language, Secret: secret}
	possible, err := g.FilterWordsAccumulative(ctx, language, nil)
	if err != nil {
		return game, err
	}
	win := feedback.AllCorrect(feedback.Length(secret))

	for len(possible) > 1 && len(game.Steps) < MaxSteps {
		sug, err := g.BestGuess(ctx, language, game.Steps)
		if err != nil {
			return game, fmt.Errorf("play %s turn %d: %w", secret, len(game.Steps)+1, err)
		}
		answer := feedback.Evaluate(secret, sug.Word)
		game.Steps = append(game.Steps, feedback.Step{Guess: sug.Word, Answer: answer})
		if answer == win {
			game.Solved = true
			return game, nil
		}
		possible, err = g.FilterWordsAccumulative(ctx, language, game.Steps)
		if err != nil {
			return game, err
		}
	}
	if len(possible) == 0 {
		return game, fmt.Errorf("play %s: %w", secret, filter.ErrNoCandidates)
	}

	final := possible[0].Word
	answer := feedback.Evaluate(secret, final)
	game.Steps = append(game.Steps, feedback.Step{Guess: final, Answer: answer})
	game.Solved = answer == win
	return game, nil
}

// Run plays every secret with up to parallel games in flight. Games are
// returned in the order of secrets; onGame is called as each one finishes,
// never concurrently.
func Run(ctx context.Context, g Guesser, language string, secrets []string, parallel int, onGame func(Game)) ([]Game, error) {
	if parallel < 1 {
		parallel = 1
	}
	games := make([]Game, len(secrets))
	var mu sync.Mutex
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i, secret := range secrets {
		eg.Go(func() error {
			game, err := Play(egctx, g, language, secret)
			if err != nil {
				return err
			}
			games[i] = game
			if onGame != nil {
				mu.Lock()
				onGame(game)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return games, nil
}

// Sample picks n distinct secrets from words with a seeded generator.
func Sample(words []catalog.Word, n int, seed uint64) []string {
	if n > len(words) || n <= 0 {
		n = len(words)
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := r.Perm(len(words))
	out := make([]string, n)
	for i := range out {
		out[i] = words[perm[i]].Word
	}
	return out
}
// #endregion play

// #region summarize
// Summarize builds the turn histogram. Games longer than MaxSteps share
// the "6+" bucket.
func Summarize(games []Game) Summary {
	s := Summary{Games: len(games)}
	counts := map[int]int{}
	total := 0
	for _, g := range games {
		if g.Solved {
			s.Solved++
		}
		turns := g.Turns()
		total += turns
		if turns > MaxSteps {
			turns = MaxSteps + 1
		}
		counts[turns]++
	}
	if len(games) == 0 {
		return s
	}
	s.Mean = float64(total) / float64(len(games))

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		label := strconv.Itoa(k)
		if k > MaxSteps {
			label = strconv.Itoa(MaxSteps) + "+"
		}
		s.Buckets = append(s.Buckets, Bucket{
			Label: label,
			Count: counts[k],
			Share: float64(counts[k]) / float64(len(games)),
		})
	}
	return s
}
// #endregion summarize
