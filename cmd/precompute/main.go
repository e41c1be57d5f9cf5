package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
)

// #region main
func main() {
	langs := flag.String("lang", "", "comma-separated language codes; empty precomputes every registered language")
	verbose := flag.Bool("v", false, "log every computed table")
	flag.Parse()

	cfg := solver.DefaultConfig()
	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	s, store, err := solver.Open(cfg, logger)
	if err != nil {
		log.Fatalf("failed to open solver: %v", err)
	}
	defer store.Close()

	codes := s.Registry.Codes()
	if *langs != "" {
		codes = strings.Split(*langs, ",")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("=== Entropy Precompute ===")
	fmt.Printf("  Data: %s | Cache: %s | Workers: %d\n", cfg.DataDir, cfg.CacheDB, cfg.Workers)

	for _, code := range codes {
		code = strings.TrimSpace(code)
		lang, err := s.Registry.Lookup(code)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("\n--- %s ---\n", lang)

		start := time.Now()
		if _, err := s.GetEntropies(ctx, lang.Code, nil, solver.Options{Parallel: cfg.Parallel}); err != nil {
			log.Fatalf("initial table %s: %v", lang.Code, err)
		}
		fmt.Printf("  Initial table ready in %s\n", time.Since(start).Round(time.Millisecond))

		patterns := int(math.Pow(3, float64(lang.WordLength)))
		bar := progressbar.NewOptions(patterns,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(lang.InitialSuggestion),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionClearOnFinish(),
		)
		res, err := s.Prewarm(ctx, lang.Code, func(feedback.Pattern) { bar.Add(1) })
		bar.Finish()
		if err != nil {
			log.Fatalf("prewarm %s: %v", lang.Code, err)
		}

		threshold, err := s.Threshold(ctx, lang.Code)
		if err != nil {
			log.Fatalf("threshold %s: %v", lang.Code, err)
		}

		fmt.Printf("  Patterns: %d | Computed: %d | Already cached: %d | No candidates: %d\n",
			res.Patterns, res.Computed, res.Cached, res.Empty)
		fmt.Printf("  Threshold: %d (configured %d)\n", threshold, lang.Threshold)
		fmt.Printf("  Elapsed: %s\n", time.Since(start).Round(time.Millisecond))
	}

	fmt.Println("\n=== Precompute Complete ===")
}
// #endregion main
