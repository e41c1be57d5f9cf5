package solver

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/danielpatrickdp/wordle-solver/internal/cache"
	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/filter"
	"github.com/danielpatrickdp/wordle-solver/internal/logging"
	"github.com/danielpatrickdp/wordle-solver/internal/rank"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// #region types
// Solver answers guess and candidate queries for any registered language.
type Solver struct {
	Registry  *catalog.Registry
	Catalogs  catalog.Provider
	Store     cache.Store // nil disables caching
	Evaluator *entropy.Evaluator
	Logger    *log.Logger // nil is silent
	Parallel  bool

	// SuggestionDB receives a suggestion_log row per suggestion; nil disables it.
	SuggestionDB *sql.DB

	mu         sync.Mutex
	thresholds map[string]int
}

// Options tune a single GetEntropies call.
type Options struct {
	Parallel         bool
	ForceRecalculate bool
}

// Table is an entropy table joined with its catalog, one row per word.
type Table struct {
	Language catalog.Language
	Catalog  *catalog.Catalog
	Steps    []feedback.Step
	Key      string
	Rows     []rank.Row
	Cached   bool
}

// Suggestion is the result of a BestGuess call.
type Suggestion struct {
	Word       string  `json:"word"`
	Candidates int     `json:"candidates"`
	Weight     float64 `json:"weight"`
	Cached     bool    `json:"cached"`
}
// #endregion types

// New creates a solver. store may be nil.
func New(reg *catalog.Registry, catalogs catalog.Provider, store cache.Store, eval *entropy.Evaluator) *Solver {
	if eval == nil {
		eval = entropy.NewEvaluator()
	}
	return &Solver{
		Registry:   reg,
		Catalogs:   catalogs,
		Store:      store,
		Evaluator:  eval,
		Parallel:   true,
		thresholds: make(map[string]int),
	}
}

func (s *Solver) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// #region resolve
// resolve looks up the language, loads its catalog and validates steps.
func (s *Solver) resolve(ctx context.Context, language string, steps []feedback.Step) (catalog.Language, *catalog.Catalog, error) {
	lang, err := s.Registry.Lookup(language)
	if err != nil {
		return catalog.Language{}, nil, err
	}
	cat, err := s.Catalogs.Load(ctx, lang)
	if err != nil {
		return catalog.Language{}, nil, err
	}
	if err := validate.Steps(steps, lang.WordLength, cat, lang.Code); err != nil {
		return catalog.Language{}, nil, err
	}
	return lang, cat, nil
}
// #endregion resolve

// #region filter
// FilterWordsAccumulative returns the catalog words consistent with steps, in
// catalog order. No steps returns the whole catalog.
func (s *Solver) FilterWordsAccumulative(ctx context.Context, language string, steps []feedback.Step) ([]catalog.Word, error) {
	_, cat, err := s.resolve(ctx, language, steps)
	if err != nil {
		return nil, err
	}
	return filter.Accumulative(steps, cat.Words), nil
}
// #endregion filter

// #region get-entropies
// GetEntropies returns the entropy of every catalog word over the candidates
// left by steps. Tables are read from and written to the store; a write
// failure is logged and the computed table is still returned.
func (s *Solver) GetEntropies(ctx context.Context, language string, steps []feedback.Step, opts Options) (*Table, error) {
	lang, cat, err := s.resolve(ctx, language, steps)
	if err != nil {
		return nil, err
	}
	return s.entropies(ctx, lang, cat, steps, opts)
}

func (s *Solver) entropies(ctx context.Context, lang catalog.Language, cat *catalog.Catalog, steps []feedback.Step, opts Options) (*Table, error) {
	key := cache.Key(steps)
	table := &Table{Language: lang, Catalog: cat, Steps: steps, Key: key}

	if s.Store != nil {
		if opts.ForceRecalculate {
			if err := s.Store.Delete(ctx, lang.Code, key); err != nil {
				s.logf("solver: drop cached %s %q: %v", lang.Code, cache.Canonical(steps), err)
			}
		} else if rows, ok := s.lookup(ctx, lang, cat, key); ok {
			table.Rows = rows
			table.Cached = true
			return table, nil
		}
	}

	candidates, err := filter.Candidates(steps, cat.Words)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	scores, err := s.Evaluator.Compute(ctx, cat.Words, candidates, opts.Parallel)
	if err != nil {
		return nil, err
	}
	computeSeconds.WithLabelValues(lang.Code).Observe(time.Since(start).Seconds())

	rows, err := rank.Join(cat, scores)
	if err != nil {
		return nil, err
	}
	table.Rows = rows

	if s.Store != nil {
		err := s.Store.Put(ctx, cache.Entry{
			Language:    lang.Code,
			Key:         key,
			Steps:       steps,
			CatalogHash: cat.Hash(),
			Scores:      scores,
		})
		if err != nil {
			cacheWriteFailures.WithLabelValues(lang.Code).Inc()
			s.logf("solver: persist %s %q: %v", lang.Code, cache.Canonical(steps), err)
		}
	}
	return table, nil
}

// lookup returns cached rows when an entry exists for the current catalog.
func (s *Solver) lookup(ctx context.Context, lang catalog.Language, cat *catalog.Catalog, key string) ([]rank.Row, bool) {
	entry, ok, err := s.Store.Get(ctx, lang.Code, key)
	if err != nil {
		s.logf("solver: read cache %s/%s: %v", lang.Code, key, err)
		cacheLookups.WithLabelValues(lang.Code, "miss").Inc()
		return nil, false
	}
	if !ok {
		cacheLookups.WithLabelValues(lang.Code, "miss").Inc()
		return nil, false
	}
	if entry.CatalogHash != cat.Hash() {
		cacheLookups.WithLabelValues(lang.Code, "stale").Inc()
		s.logf("solver: cached %s table %s was built for another catalog, recomputing", lang.Code, key)
		return nil, false
	}
	rows, err := rank.Join(cat, entry.Scores)
	if err != nil {
		cacheLookups.WithLabelValues(lang.Code, "stale").Inc()
		s.logf("solver: cached %s table %s: %v", lang.Code, key, err)
		return nil, false
	}
	cacheLookups.WithLabelValues(lang.Code, "hit").Inc()
	return rows, true
}
// #endregion get-entropies

// #region best-guess
// BestGuess suggests the next guess using the candidate-adaptive blend of
// normalized entropy, prior probability and possibility.
func (s *Solver) BestGuess(ctx context.Context, language string, steps []feedback.Step) (Suggestion, error) {
	lang, cat, err := s.resolve(ctx, language, steps)
	if err != nil {
		return Suggestion{}, err
	}
	table, err := s.entropies(ctx, lang, cat, steps, Options{Parallel: s.Parallel})
	if err != nil {
		return Suggestion{}, err
	}
	candidates := filter.Accumulative(steps, cat.Words)
	threshold, err := s.threshold(lang, cat)
	if err != nil {
		return Suggestion{}, err
	}
	res, err := rank.Rank(table.Rows, candidates, threshold)
	if err != nil {
		return Suggestion{}, err
	}
	candidateCount.WithLabelValues(lang.Code).Observe(float64(res.Candidates))

	sug := Suggestion{Word: res.Best.Word, Candidates: res.Candidates, Weight: res.Weight, Cached: table.Cached}
	s.record(ctx, lang, table, logging.ModeAdaptive, sug)
	return sug, nil
}

// BestGuessWeighted suggests the word maximizing
// weight*entropy + (1-weight)*probability over the table for steps.
func (s *Solver) BestGuessWeighted(ctx context.Context, language string, steps []feedback.Step, weight float64) (Suggestion, error) {
	if err := validate.Weight(weight); err != nil {
		return Suggestion{}, err
	}
	table, err := s.GetEntropies(ctx, language, steps, Options{Parallel: s.Parallel})
	if err != nil {
		return Suggestion{}, err
	}
	best, err := rank.Weighted(table.Rows, weight)
	if err != nil {
		return Suggestion{}, err
	}
	candidates := filter.Accumulative(steps, table.Catalog.Words)
	sug := Suggestion{Word: best.Word, Candidates: len(candidates), Weight: weight, Cached: table.Cached}
	s.record(ctx, table.Language, table, logging.ModeWeighted, sug)
	return sug, nil
}

func (s *Solver) record(ctx context.Context, lang catalog.Language, table *Table, mode string, sug Suggestion) {
	if s.SuggestionDB == nil {
		return
	}
	err := logging.LogSuggestion(ctx, s.SuggestionDB, logging.SuggestionEntry{
		Language:   lang.Code,
		CacheKey:   table.Key,
		Steps:      feedback.FormatSteps(table.Steps),
		Mode:       mode,
		Suggestion: sug.Word,
		Candidates: sug.Candidates,
		Weight:     sug.Weight,
	})
	if err != nil {
		s.logf("solver: %v", err)
	}
}
// #endregion best-guess

// #region threshold
// Threshold returns the language's configured threshold, or derives it as
// the largest candidate set left by the initial suggestion under any pattern.
func (s *Solver) Threshold(ctx context.Context, language string) (int, error) {
	lang, cat, err := s.resolve(ctx, language, nil)
	if err != nil {
		return 0, err
	}
	return s.threshold(lang, cat)
}

func (s *Solver) threshold(lang catalog.Language, cat *catalog.Catalog) (int, error) {
	if lang.Threshold > 0 {
		return lang.Threshold, nil
	}
	memo := lang.Code + "/" + cat.Hash()
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.thresholds[memo]; ok {
		return t, nil
	}
	if err := validate.Word(lang.InitialSuggestion, lang.WordLength, cat, lang.Code); err != nil {
		return 0, fmt.Errorf("derive threshold: initial suggestion: %w", err)
	}
	t := DeriveThreshold(cat, lang.InitialSuggestion)
	if s.thresholds == nil {
		s.thresholds = make(map[string]int)
	}
	s.thresholds[memo] = t
	s.logf("solver: derived %s threshold %d from %q", lang.Code, t, lang.InitialSuggestion)
	return t, nil
}

// DeriveThreshold is the size of the largest group of catalog words sharing
// one feedback pattern against opening.
func DeriveThreshold(cat *catalog.Catalog, opening string) int {
	guess := []rune(opening)
	groups := make(map[uint32]int)
	best := 0
	for _, w := range cat.Words {
		code := feedback.Code([]rune(w.Word), guess)
		groups[code]++
		if groups[code] > best {
			best = groups[code]
		}
	}
	return best
}
// #endregion threshold

// #region prewarm
// PrewarmResult counts what Prewarm did per feedback pattern.
type PrewarmResult struct {
	Patterns int
	Computed int
	Cached   int
	Empty    int
}

// Prewarm fills the cache with the tables that follow the initial suggestion,
// one per feedback pattern that leaves at least one candidate.
func (s *Solver) Prewarm(ctx context.Context, language string, onPattern func(feedback.Pattern)) (PrewarmResult, error) {
	lang, cat, err := s.resolve(ctx, language, nil)
	if err != nil {
		return PrewarmResult{}, err
	}
	if lang.WordLength > 10 {
		return PrewarmResult{}, fmt.Errorf("prewarm %s: %d-letter words have too many patterns", lang.Code, lang.WordLength)
	}
	if err := validate.Word(lang.InitialSuggestion, lang.WordLength, cat, lang.Code); err != nil {
		return PrewarmResult{}, fmt.Errorf("prewarm %s: %w", lang.Code, err)
	}

	var res PrewarmResult
	for _, p := range feedback.AllPatterns(lang.WordLength) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Patterns++
		steps := []feedback.Step{{Guess: lang.InitialSuggestion, Answer: p}}
		if len(filter.Accumulative(steps, cat.Words)) == 0 {
			res.Empty++
		} else {
			table, err := s.entropies(ctx, lang, cat, steps, Options{Parallel: s.Parallel})
			if err != nil {
				return res, fmt.Errorf("prewarm %s %s: %w", lang.Code, p, err)
			}
			if table.Cached {
				res.Cached++
			} else {
				res.Computed++
			}
		}
		if onPattern != nil {
			onPattern(p)
		}
	}
	return res, nil
}
// #endregion prewarm
