package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/filter"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// #region main
func main() {
	lang := flag.String("lang", envOr("WORDLE_LANG", "es"), "language code")
	weight := flag.Float64("weight", -1, "fixed entropy weight in [0,1]; negative uses the adaptive blend")
	showAt := flag.Int("show", 10, "list the candidates when at most this many remain")
	verbose := flag.Bool("v", false, "log cache and timing details")
	flag.Parse()

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	cfg := solver.DefaultConfig()
	s, store, err := solver.Open(cfg, logger)
	if err != nil {
		log.Fatalf("failed to open solver: %v", err)
	}
	defer store.Close()
	if logger != nil {
		s.Evaluator.Progress = os.Stderr
	}

	language, err := s.Registry.Lookup(*lang)
	if err != nil {
		log.Fatalf("%v (available: %s)", err, strings.Join(s.Registry.Codes(), ", "))
	}

	cat, err := s.Catalogs.Load(context.Background(), language)
	if err != nil {
		log.Fatalf("failed to load %s catalog: %v", language.Code, err)
	}

	fmt.Println("Wordle solver ready.")
	fmt.Printf("  Language: %s | Words: %d | Cache: %s\n", language, cat.Len(), cfg.CacheDB)
	fmt.Printf("Suggested first guess: %s\n", language.InitialSuggestion)
	fmt.Println("Enter each guess and its answer (0 correct, 1 misplaced, 2 absent), or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	var steps []feedback.Step
	win := feedback.AllCorrect(language.WordLength)

	for {
		guess, ok := prompt(scanner, "guess> ")
		if !ok {
			return
		}
		answer, ok := prompt(scanner, "answer> ")
		if !ok {
			return
		}

		next := append(append([]feedback.Step(nil), steps...), feedback.Step{
			Guess:  strings.ToLower(guess),
			Answer: feedback.Pattern(answer),
		})
		if next[len(next)-1].Answer == win {
			if err := validate.Steps(next[len(next)-1:], language.WordLength, cat, language.Code); err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			fmt.Printf("Solved in %d guesses.\n", len(next))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		sug, err := suggest(ctx, s, language.Code, next, *weight)
		if err != nil {
			cancel()
			switch {
			case validate.IsValidation(err):
				fmt.Printf("  %v\n", err)
				continue
			case errors.Is(err, filter.ErrNoCandidates):
				fmt.Println("  No word matches every answer so far; re-enter the last guess.")
				continue
			default:
				log.Fatalf("solver error: %v", err)
			}
		}
		steps = next

		if sug.Candidates <= *showAt {
			words, err := s.FilterWordsAccumulative(ctx, language.Code, steps)
			if err == nil {
				list := make([]string, len(words))
				for i, w := range words {
					list[i] = w.Word
				}
				fmt.Printf("  Candidates: %s\n", strings.Join(list, ", "))
			}
		}
		cancel()
		fmt.Printf("[turn %d] %d candidates left, suggested guess: %s\n", len(steps)+1, sug.Candidates, sug.Word)
	}
}
// #endregion main

// #region helpers
func suggest(ctx context.Context, s *solver.Solver, lang string, steps []feedback.Step, weight float64) (solver.Suggestion, error) {
	if weight < 0 {
		return s.BestGuess(ctx, lang, steps)
	}
	return s.BestGuessWeighted(ctx, lang, steps, weight)
}

func prompt(scanner *bufio.Scanner, label string) (string, bool) {
	for {
		fmt.Print(label)
		if !scanner.Scan() {
			return "", false
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			return "", false
		}
		return text, true
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
