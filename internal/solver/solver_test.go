package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/danielpatrickdp/wordle-solver/internal/cache"
	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/filter"
	"github.com/danielpatrickdp/wordle-solver/internal/logging"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// #region helpers
var english = catalog.Language{Code: "en", WordLength: 5, InitialSuggestion: "tares"}

var englishWords = []string{
	"tares", "night", "smith", "moust", "sight", "fight", "light",
	"might", "right", "tight", "crane", "slate", "stare", "mount",
}

func testCatalog(lang catalog.Language, words []string) *catalog.Catalog {
	ws := make([]catalog.Word, len(words))
	for i, w := range words {
		ws[i] = catalog.Word{ID: i + 1, Word: w, Probability: 1 / float64(i+2)}
	}
	return catalog.New(lang, ws)
}

type countingStore struct {
	*cache.MemoryStore
	puts    int
	failPut bool
}

func (c *countingStore) Put(ctx context.Context, e cache.Entry) error {
	c.puts++
	if c.failPut {
		return errors.New("disk full")
	}
	return c.MemoryStore.Put(ctx, e)
}

func newTestSolver(t *testing.T, lang catalog.Language, words []string) (*Solver, *countingStore) {
	t.Helper()
	store := &countingStore{MemoryStore: cache.NewMemoryStore()}
	s := New(
		catalog.NewRegistry(lang),
		catalog.StaticProvider{lang.Code: testCatalog(lang, words)},
		store,
		&entropy.Evaluator{Workers: 3},
	)
	return s, store
}

func step(guess, secret string) feedback.Step {
	return feedback.Step{Guess: guess, Answer: feedback.Evaluate(secret, guess)}
}
// #endregion helpers

func TestFilterWordsAccumulativeNoSteps(t *testing.T) {
	s, _ := newTestSolver(t, english, englishWords)
	got, err := s.FilterWordsAccumulative(context.Background(), "en", nil)
	if err != nil {
		t.Fatalf("FilterWordsAccumulative: %v", err)
	}
	if len(got) != len(englishWords) {
		t.Fatalf("expected the whole catalog, got %d words", len(got))
	}
	for i, w := range got {
		if w.Word != englishWords[i] {
			t.Fatalf("row %d: expected %s, got %s", i, englishWords[i], w.Word)
		}
	}
}

func TestAbsentLettersScenario(t *testing.T) {
	lang := catalog.Language{Code: "xx", WordLength: 5, InitialSuggestion: "aaaaa"}
	s, _ := newTestSolver(t, lang, []string{"aaaaa", "bbbbb", "abcde", "ccccc", "dbcef"})
	steps := []feedback.Step{{Guess: "aaaaa", Answer: "22222"}}

	got, err := s.FilterWordsAccumulative(context.Background(), "xx", steps)
	if err != nil {
		t.Fatalf("FilterWordsAccumulative: %v", err)
	}
	var names []string
	for _, w := range got {
		if strings.ContainsRune(w.Word, 'a') {
			t.Fatalf("%s contains an absent letter", w.Word)
		}
		names = append(names, w.Word)
	}
	if strings.Join(names, ",") != "bbbbb,ccccc,dbcef" {
		t.Fatalf("unexpected candidates %v", names)
	}

	sug, err := s.BestGuess(context.Background(), "xx", steps)
	if err != nil {
		t.Fatalf("BestGuess: %v", err)
	}
	if sug.Candidates != 3 || sug.Word == "" {
		t.Fatalf("unexpected suggestion %+v", sug)
	}
}

func TestGetEntropiesCachesResult(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	ctx := context.Background()
	steps := []feedback.Step{step("tares", "night")}

	first, err := s.GetEntropies(ctx, "en", steps, Options{Parallel: true})
	if err != nil {
		t.Fatalf("GetEntropies: %v", err)
	}
	second, err := s.GetEntropies(ctx, "en", steps, Options{Parallel: true})
	if err != nil {
		t.Fatalf("GetEntropies: %v", err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("expected miss then hit, got %v then %v", first.Cached, second.Cached)
	}
	if store.puts != 1 {
		t.Fatalf("expected one computation, got %d", store.puts)
	}
	if len(first.Rows) != len(englishWords) {
		t.Fatalf("expected one row per catalog word, got %d", len(first.Rows))
	}
	for i := range first.Rows {
		if first.Rows[i] != second.Rows[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, first.Rows[i], second.Rows[i])
		}
	}
}

func TestGetEntropiesParallelMatchesSerial(t *testing.T) {
	ctx := context.Background()
	steps := []feedback.Step{step("tares", "light")}

	serial, _ := newTestSolver(t, english, englishWords)
	want, err := serial.GetEntropies(ctx, "en", steps, Options{Parallel: false})
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	for _, workers := range []int{2, 5, 32} {
		s, _ := newTestSolver(t, english, englishWords)
		s.Evaluator.Workers = workers
		got, err := s.GetEntropies(ctx, "en", steps, Options{Parallel: true})
		if err != nil {
			t.Fatalf("parallel(%d): %v", workers, err)
		}
		for i := range want.Rows {
			if want.Rows[i].ID != got.Rows[i].ID || want.Rows[i].Entropy != got.Rows[i].Entropy {
				t.Fatalf("workers=%d row %d: %+v vs %+v", workers, i, want.Rows[i], got.Rows[i])
			}
		}
	}
}

func TestGetEntropiesForceRecalculate(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	ctx := context.Background()
	if _, err := s.GetEntropies(ctx, "en", nil, Options{}); err != nil {
		t.Fatalf("GetEntropies: %v", err)
	}
	table, err := s.GetEntropies(ctx, "en", nil, Options{ForceRecalculate: true})
	if err != nil {
		t.Fatalf("GetEntropies: %v", err)
	}
	if table.Cached || store.puts != 2 {
		t.Fatalf("expected recomputation, cached=%v puts=%d", table.Cached, store.puts)
	}
}

func TestGetEntropiesStaleCatalog(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	ctx := context.Background()
	err := store.MemoryStore.Put(ctx, cache.Entry{
		Language:    "en",
		Key:         cache.Key(nil),
		CatalogHash: "some-older-catalog",
		Scores:      []entropy.Score{{ID: 1, Entropy: 42}},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	table, err := s.GetEntropies(ctx, "en", nil, Options{})
	if err != nil {
		t.Fatalf("GetEntropies: %v", err)
	}
	if table.Cached || table.Rows[0].Entropy == 42 {
		t.Fatalf("expected stale entry to be recomputed, got %+v", table.Rows[0])
	}
}

func TestGetEntropiesWriteFailure(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	store.failPut = true
	table, err := s.GetEntropies(context.Background(), "en", nil, Options{})
	if err != nil {
		t.Fatalf("write failure must not fail the call: %v", err)
	}
	if len(table.Rows) != len(englishWords) {
		t.Fatalf("expected full table, got %d rows", len(table.Rows))
	}
}

func TestGetEntropiesValidatesFirst(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	ctx := context.Background()
	cases := []struct {
		steps  []feedback.Step
		target any
	}{
		{[]feedback.Step{{Guess: "code", Answer: "00000"}}, new(*validate.InvalidWordLengthError)},
		{[]feedback.Step{{Guess: "aaaaa", Answer: "00000"}}, new(*validate.WordNotFoundError)},
		{[]feedback.Step{{Guess: "tares", Answer: "00003"}}, new(*validate.InvalidAnswerError)},
	}
	for _, tc := range cases {
		_, err := s.GetEntropies(ctx, "en", tc.steps, Options{})
		if !errors.As(err, tc.target) {
			t.Fatalf("steps %v: unexpected error %v", tc.steps, err)
		}
	}
	var lang *validate.InvalidLanguageError
	if _, err := s.GetEntropies(ctx, "xx", nil, Options{}); !errors.As(err, &lang) {
		t.Fatalf("expected InvalidLanguageError, got %v", err)
	}
	if store.puts != 0 {
		t.Fatalf("expected no computation, got %d", store.puts)
	}
}

func TestGetEntropiesInconsistentSteps(t *testing.T) {
	s, _ := newTestSolver(t, english, englishWords)
	steps := []feedback.Step{{Guess: "tares", Answer: "00000"}, {Guess: "night", Answer: "00000"}}
	if _, err := s.GetEntropies(context.Background(), "en", steps, Options{}); !errors.Is(err, filter.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestBestGuessSingleCandidate(t *testing.T) {
	s, _ := newTestSolver(t, english, englishWords)
	steps := []feedback.Step{step("tares", "mount"), step("smith", "mount")}
	left, err := s.FilterWordsAccumulative(context.Background(), "en", steps)
	if err != nil {
		t.Fatalf("FilterWordsAccumulative: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("expected one candidate, got %v", left)
	}
	sug, err := s.BestGuess(context.Background(), "en", steps)
	if err != nil {
		t.Fatalf("BestGuess: %v", err)
	}
	if sug.Word != left[0].Word {
		t.Fatalf("expected %s, got %s", left[0].Word, sug.Word)
	}
}

func TestBestGuessInCatalog(t *testing.T) {
	s, _ := newTestSolver(t, english, englishWords)
	sug, err := s.BestGuess(context.Background(), "en", []feedback.Step{step("tares", "fight")})
	if err != nil {
		t.Fatalf("BestGuess: %v", err)
	}
	found := false
	for _, w := range englishWords {
		found = found || w == sug.Word
	}
	if !found {
		t.Fatalf("suggestion %s is not in the catalog", sug.Word)
	}
}

func TestBestGuessWeighted(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	var target *validate.InvalidWeightError
	if _, err := s.BestGuessWeighted(context.Background(), "en", nil, 1.5); !errors.As(err, &target) {
		t.Fatalf("expected InvalidWeightError, got %v", err)
	}
	if store.puts != 0 {
		t.Fatal("weight must be validated before any computation")
	}
	sug, err := s.BestGuessWeighted(context.Background(), "en", nil, 0)
	if err != nil {
		t.Fatalf("BestGuessWeighted: %v", err)
	}
	if sug.Word != "tares" {
		t.Fatalf("weight 0 should pick the most probable word, got %s", sug.Word)
	}
}

func TestThreshold(t *testing.T) {
	s, _ := newTestSolver(t, english, englishWords)
	got, err := s.Threshold(context.Background(), "en")
	if err != nil {
		t.Fatalf("Threshold: %v", err)
	}
	cat := testCatalog(english, englishWords)
	want := 0
	for _, p := range feedback.AllPatterns(5) {
		if n := len(filter.Filter(cat.Words, "tares", p)); n > want {
			want = n
		}
	}
	if got != want {
		t.Fatalf("expected derived threshold %d, got %d", want, got)
	}

	fixed := english
	fixed.Threshold = 168
	s2, _ := newTestSolver(t, fixed, englishWords)
	if got, _ := s2.Threshold(context.Background(), "en"); got != 168 {
		t.Fatalf("expected configured threshold, got %d", got)
	}
}

func TestThresholdUnknownOpening(t *testing.T) {
	lang := english
	lang.InitialSuggestion = "zzzzz"
	s, _ := newTestSolver(t, lang, englishWords)
	if _, err := s.Threshold(context.Background(), "en"); err == nil {
		t.Fatal("expected error for an opening outside the catalog")
	}
}

func TestPrewarm(t *testing.T) {
	s, store := newTestSolver(t, english, englishWords)
	var seen int
	res, err := s.Prewarm(context.Background(), "en", func(feedback.Pattern) { seen++ })
	if err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	if res.Patterns != 243 || seen != 243 {
		t.Fatalf("expected 243 patterns, got %d (callback %d)", res.Patterns, seen)
	}
	if res.Computed+res.Empty != 243 || res.Computed != store.Len("en") {
		t.Fatalf("unexpected result %+v with %d stored", res, store.Len("en"))
	}
	again, err := s.Prewarm(context.Background(), "en", nil)
	if err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	if again.Computed != 0 || again.Cached != res.Computed {
		t.Fatalf("expected every table cached on the second run, got %+v", again)
	}
}

func TestOpenWiresSQLite(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("id,word,probability\n")
	for i, w := range englishWords {
		b.WriteString(strings.Join([]string{strconv.Itoa(i + 1), w, "0.5"}, ","))
		b.WriteByte('\n')
	}
	if err := os.MkdirAll(filepath.Join(dir, "en"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "en", "words.csv"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := Config{
		DataDir:      dir,
		CacheDB:      filepath.Join(dir, "cache.db"),
		RegistryPath: filepath.Join(dir, "languages.yaml"),
		Workers:      2,
		Parallel:     true,
	}
	s, store, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := s.BestGuess(ctx, "en", []feedback.Step{step("tares", "sight")}); err != nil {
		t.Fatalf("BestGuess: %v", err)
	}
	entries, err := store.List(ctx, "en", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Rows != len(englishWords) {
		t.Fatalf("expected one cached table, got %+v", entries)
	}
	logged, err := logging.ListSuggestions(ctx, store.DB(), "en", 10)
	if err != nil {
		t.Fatalf("ListSuggestions: %v", err)
	}
	if len(logged) != 1 || logged[0].Steps != "tares:"+string(feedback.Evaluate("sight", "tares")) {
		t.Fatalf("unexpected suggestion log %+v", logged)
	}
}

func TestDefaultConfigEnv(t *testing.T) {
	t.Setenv("WORDLE_DATA_DIR", "/tmp/wordle")
	t.Setenv("WORDLE_WORKERS", "3")
	t.Setenv("WORDLE_PARALLEL", "false")
	cfg := DefaultConfig()
	if cfg.DataDir != "/tmp/wordle" || cfg.CacheDB != filepath.Join("/tmp/wordle", "cache.db") {
		t.Fatalf("unexpected paths %+v", cfg)
	}
	if cfg.Workers != 3 || cfg.Parallel {
		t.Fatalf("unexpected evaluation settings %+v", cfg)
	}
}
