package rank

import (
	"errors"
	"math"
	"testing"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

var lang = catalog.Language{Code: "en", WordLength: 5, InitialSuggestion: "tares", Threshold: 4}

func sampleCatalog() *catalog.Catalog {
	return catalog.New(lang, []catalog.Word{
		{ID: 1, Word: "tares", Probability: 0.9},
		{ID: 2, Word: "night", Probability: 0.5},
		{ID: 3, Word: "smith", Probability: 0.3},
		{ID: 4, Word: "moust", Probability: 0.1},
	})
}

func sampleRows(t *testing.T) []Row {
	t.Helper()
	rows, err := Join(sampleCatalog(), []entropy.Score{
		{ID: 4, Entropy: 0.5},
		{ID: 3, Entropy: 1.0},
		{ID: 2, Entropy: 2.0},
		{ID: 1, Entropy: 3.0},
	})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return rows
}

func TestJoinFollowsCatalogOrder(t *testing.T) {
	rows := sampleRows(t)
	for i, want := range []string{"tares", "night", "smith", "moust"} {
		if rows[i].Word != want {
			t.Fatalf("row %d: expected %s, got %s", i, want, rows[i].Word)
		}
	}
	if rows[0].Entropy != 3.0 {
		t.Fatalf("expected entropy joined by id, got %v", rows[0].Entropy)
	}
}

func TestJoinMissingScore(t *testing.T) {
	if _, err := Join(sampleCatalog(), []entropy.Score{{ID: 1, Entropy: 1}}); err == nil {
		t.Fatal("expected error for missing scores")
	}
}

func TestBlendWeight(t *testing.T) {
	if w := BlendWeight(4, 4); math.Abs(w-MaxWeight) > 1e-12 {
		t.Fatalf("expected %v at threshold, got %v", MaxWeight, w)
	}
	if w := BlendWeight(8, 4); math.Abs(w-1.4) > 1e-12 {
		t.Fatalf("expected unclamped 1.4, got %v", w)
	}
	if w := BlendWeight(0, 4); w != MinWeight {
		t.Fatalf("expected %v, got %v", MinWeight, w)
	}
}

func TestRankSingleCandidate(t *testing.T) {
	rows := sampleRows(t)
	cat := sampleCatalog()
	res, err := Rank(rows, cat.Words[3:], lang.Threshold)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if res.Best.Word != "moust" {
		t.Fatalf("expected the only candidate, got %s", res.Best.Word)
	}
	if !res.Best.Possible || res.Candidates != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRankNormalization(t *testing.T) {
	res, err := Rank(sampleRows(t), sampleCatalog().Words, lang.Threshold)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if res.Rows[0].EntropyNorm != 1 || res.Rows[3].EntropyNorm != 0 {
		t.Fatalf("unexpected normalization %+v", res.Rows)
	}
	if math.Abs(res.Weight-MaxWeight) > 1e-12 {
		t.Fatalf("expected weight %v, got %v", MaxWeight, res.Weight)
	}
	want := MaxWeight*1 + (1-MaxWeight)*0.9 + 0.25
	if math.Abs(res.Best.Guessability-want) > 1e-12 || res.Best.Word != "tares" {
		t.Fatalf("expected tares with %v, got %+v", want, res.Best)
	}
}

func TestRankFlatEntropy(t *testing.T) {
	rows := sampleRows(t)
	for i := range rows {
		rows[i].Entropy = 1.5
	}
	res, err := Rank(rows, sampleCatalog().Words[1:3], lang.Threshold)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, r := range res.Rows {
		if r.EntropyNorm != 0 {
			t.Fatalf("expected zero normalized entropy, got %+v", r)
		}
	}
	if res.Best.Word != "night" {
		t.Fatalf("expected night, got %s", res.Best.Word)
	}
}

func TestRankTieKeepsFirst(t *testing.T) {
	rows := []Row{
		{ID: 1, Word: "aaaaa", Probability: 0.5, Entropy: 1},
		{ID: 2, Word: "bbbbb", Probability: 0.5, Entropy: 1},
	}
	cands := []catalog.Word{{ID: 1, Word: "aaaaa"}, {ID: 2, Word: "bbbbb"}}
	res, err := Rank(rows, cands, 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if res.Best.Word != "aaaaa" {
		t.Fatalf("expected first maximum, got %s", res.Best.Word)
	}
}

func TestRankNoCandidates(t *testing.T) {
	if _, err := Rank(sampleRows(t), nil, 4); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if _, err := Rank(sampleRows(t), sampleCatalog().Words, 0); err == nil {
		t.Fatal("expected error for zero threshold")
	}
}

func TestWeighted(t *testing.T) {
	rows := sampleRows(t)
	rows[0].Entropy = 0
	best, err := Weighted(rows, 1)
	if err != nil {
		t.Fatalf("Weighted: %v", err)
	}
	if best.Word != "night" {
		t.Fatalf("weight 1 should pick max entropy, got %s", best.Word)
	}
	best, err = Weighted(rows, 0)
	if err != nil {
		t.Fatalf("Weighted: %v", err)
	}
	if best.Word != "tares" {
		t.Fatalf("weight 0 should pick max probability, got %s", best.Word)
	}
	var target *validate.InvalidWeightError
	if _, err := Weighted(rows, 1.5); !errors.As(err, &target) {
		t.Fatalf("expected InvalidWeightError, got %v", err)
	}
}
