package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/danielpatrickdp/wordle-solver/internal/cache"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/logging"
	"github.com/danielpatrickdp/wordle-solver/internal/rank"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
)

// #region main

func main() {
	lang := flag.String("lang", "", "filter to one language code")
	last := flag.Int("last", 20, "show N most recent entries")
	show := flag.String("show", "", "show the table for steps \"guess:answer,...\" (computed if missing)")
	top := flag.Int("top", 15, "rows to print with --show")
	suggestions := flag.Bool("suggestions", false, "list the suggestion log instead of cached tables")
	clearLang := flag.Bool("clear", false, "delete every cached table of --lang")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	cfg := solver.DefaultConfig()
	s, store, err := solver.Open(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open cache: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	switch {
	case *clearLang:
		if *lang == "" {
			fmt.Fprintln(os.Stderr, "usage: inspect --clear --lang es")
			os.Exit(2)
		}
		n, err := store.Clear(ctx, *lang)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("cleared %d %s tables\n", n, *lang)
	case *show != "":
		if *lang == "" {
			fmt.Fprintln(os.Stderr, "usage: inspect --show tares:12222 --lang en")
			os.Exit(2)
		}
		err = runShowMode(ctx, s, *lang, *show, *top, *jsonOut)
	case *suggestions:
		err = runSuggestionsMode(ctx, store.DB(), *lang, *last, *jsonOut)
	default:
		err = runListMode(ctx, store, *lang, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	Language    string `json:"language"`
	Key         string `json:"key"`
	Steps       string `json:"steps"`
	Rows        int    `json:"rows"`
	CatalogHash string `json:"catalog_hash"`
	CreatedAt   string `json:"created_at"`
}

func runListMode(ctx context.Context, store *cache.SQLiteStore, lang string, last int, jsonOut bool) error {
	entries, err := store.List(ctx, lang, last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no cached tables found")
		return nil
	}

	rows := make([]listRow, len(entries))
	for i, e := range entries {
		steps := feedback.FormatSteps(e.Steps)
		if steps == "" {
			steps = "(initial)"
		}
		rows[i] = listRow{
			Language:    e.Language,
			Key:         e.Key,
			Steps:       steps,
			Rows:        e.Rows,
			CatalogHash: e.CatalogHash,
			CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	fmt.Printf("%-4s  %-12s  %6s  %-20s  %s\n", "Lang", "Key", "Rows", "Time", "Steps")
	fmt.Printf("%-4s+-%-12s+-%6s+-%-20s+-%s\n", "----", "------------", "------", "--------------------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-4s  %-12s  %6d  %-20s  %s\n", r.Language, shortID(r.Key), r.Rows, r.CreatedAt, r.Steps)
	}
	return nil
}

// #endregion list-mode

// #region show-mode

func runShowMode(ctx context.Context, s *solver.Solver, lang, stepsText string, top int, jsonOut bool) error {
	steps, err := feedback.ParseSteps(stepsText)
	if err != nil {
		return err
	}
	table, err := s.GetEntropies(ctx, lang, steps, solver.Options{Parallel: true})
	if err != nil {
		return err
	}
	threshold, err := s.Threshold(ctx, lang)
	if err != nil {
		return err
	}
	possible, err := s.FilterWordsAccumulative(ctx, lang, steps)
	if err != nil {
		return err
	}
	res, err := rank.Rank(table.Rows, possible, threshold)
	if err != nil {
		return err
	}

	rows := append([]rank.Row(nil), res.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Guessability > rows[j].Guessability })
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	if jsonOut {
		return printJSON(map[string]any{
			"key":        table.Key,
			"cached":     table.Cached,
			"candidates": res.Candidates,
			"weight":     res.Weight,
			"best":       res.Best.Word,
			"rows":       rows,
		})
	}

	fmt.Printf("Key:        %s\n", table.Key)
	fmt.Printf("Cached:     %v\n", table.Cached)
	fmt.Printf("Candidates: %d (threshold %d)\n", res.Candidates, threshold)
	fmt.Printf("Weight:     %.4f\n", res.Weight)
	fmt.Printf("Best guess: %s\n\n", res.Best.Word)

	fmt.Printf("%-10s  %8s  %8s  %8s  %8s  %s\n", "Word", "Entropy", "Norm", "Prob", "Score", "Possible")
	fmt.Printf("%-10s+-%8s+-%8s+-%8s+-%8s+-%s\n", "----------", "--------", "--------", "--------", "--------", "--------")
	for _, r := range rows {
		fmt.Printf("%-10s  %8.4f  %8.4f  %8.4f  %8.4f  %v\n",
			r.Word, r.Entropy, r.EntropyNorm, r.Probability, r.Guessability, r.Possible)
	}
	return nil
}

// #endregion show-mode

// #region suggestions-mode

func runSuggestionsMode(ctx context.Context, db *sql.DB, lang string, last int, jsonOut bool) error {
	entries, err := logging.ListSuggestions(ctx, db, lang, last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no suggestions logged")
		return nil
	}
	fmt.Printf("%-20s  %-4s  %-8s  %-10s  %6s  %6s  %s\n", "Time", "Lang", "Mode", "Guess", "Cands", "Weight", "Steps")
	fmt.Printf("%-20s+-%-4s+-%-8s+-%-10s+-%6s+-%6s+-%s\n",
		"--------------------", "----", "--------", "----------", "------", "------", "--------------------")
	for _, e := range entries {
		fmt.Printf("%-20s  %-4s  %-8s  %-10s  %6d  %6.3f  %s\n",
			e.CreatedAt.Format("2006-01-02T15:04:05Z"), e.Language, e.Mode, e.Suggestion, e.Candidates, e.Weight, e.Steps)
	}
	return nil
}

// #endregion suggestions-mode

// #region helpers

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// #endregion helpers
