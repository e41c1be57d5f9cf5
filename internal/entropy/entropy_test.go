package entropy

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

func words(ws ...string) []catalog.Word {
	out := make([]catalog.Word, len(ws))
	for i, w := range ws {
		out[i] = catalog.Word{ID: 10 * (i + 1), Word: w, Probability: 0.5}
	}
	return out
}

var sample = words("tares", "night", "smith", "moust", "sight", "fight", "light", "carta", "cargo", "pluma", "sobre", "serbo")

func TestEntropySinglePool(t *testing.T) {
	h := Of("tares", words("night"))
	if h != 0 || math.Signbit(h) {
		t.Fatalf("expected +0 for a single-word pool, got %v", h)
	}
}

func TestEntropySingleGroup(t *testing.T) {
	// Neither night nor light shares a letter with "aaaaa".
	if h := Of("aaaaa", words("night", "light")); h != 0 {
		t.Fatalf("expected 0 for one pattern group, got %v", h)
	}
}

func TestEntropyUniform(t *testing.T) {
	pool := words("night", "sight")
	// "night" separates the two words into distinct groups: 1 bit.
	if h := Of("night", pool); math.Abs(h-1) > 1e-12 {
		t.Fatalf("expected 1 bit, got %v", h)
	}
}

func TestEntropyBounds(t *testing.T) {
	max := math.Log2(float64(len(sample)))
	for _, w := range sample {
		h := Of(w.Word, sample)
		if h < 0 || h > max+1e-12 {
			t.Fatalf("entropy(%s) = %v out of [0, %v]", w.Word, h, max)
		}
	}
}

func TestEntropySparseCounter(t *testing.T) {
	long := words("abcdefghijkl", "abcdefghijkm", "mbcdefghijka")
	dense := 0.0
	for _, w := range long {
		dense += Of(w.Word, long)
	}
	if dense <= 0 {
		t.Fatalf("expected positive entropy with the sparse counter, got %v", dense)
	}
}

// naiveEntropy groups pool by the feedback each member gets against word as
// the secret and sums -p*log2(p) over the groups.
func naiveEntropy(word string, pool []catalog.Word) float64 {
	groups := map[feedback.Pattern]int{}
	for _, w := range pool {
		groups[feedback.Evaluate(word, w.Word)]++
	}
	if len(groups) <= 1 {
		return 0
	}
	h := 0.0
	for _, n := range groups {
		p := float64(n) / float64(len(pool))
		h -= p * math.Log2(p)
	}
	return h
}

func TestEntropyWordIsSecret(t *testing.T) {
	// With repeated letters the two argument orders split this pool
	// differently: 4 groups with aacbb as the secret, 3 the other way.
	pool := words("baaac", "baaca", "baabb", "bacbb")
	if h := Of("aacbb", pool); math.Abs(h-2) > 1e-12 {
		t.Fatalf("expected 2 bits, got %v", h)
	}
}

func TestEntropyRepeatedLettersMatchesNaive(t *testing.T) {
	cases := []struct {
		name string
		pool []catalog.Word
	}{
		{"dense", words("aacbb", "baaac", "baaca", "baabb", "bacbb", "abbba", "ccaab", "aabbc", "cabba", "bbbaa")},
		{"sparse", words(
			"aabbccaabbcc", "abcabcabcabc", "aaaaaabbbbbb", "ccbbaaccbbaa",
			"abababababab", "bbccaabbccaa", "cacacacacaca", "aabbaabbccaa",
		)},
	}
	for _, tc := range cases {
		for _, w := range tc.pool {
			got := Of(w.Word, tc.pool)
			want := naiveEntropy(w.Word, tc.pool)
			if math.Abs(got-want) > 1e-12 {
				t.Fatalf("%s: entropy(%s) = %v, want %v", tc.name, w.Word, got, want)
			}
		}
	}
}

func TestPartition(t *testing.T) {
	spans := Partition(10, 3)
	want := []Span{{0, 4}, {4, 7}, {7, 10}}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %d", len(want), len(spans))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d: expected %v, got %v", i, want[i], spans[i])
		}
	}
	if got := Partition(2, 8); len(got) != 2 {
		t.Fatalf("expected spans capped at n, got %v", got)
	}
	if got := Partition(0, 4); len(got) != 0 {
		t.Fatalf("expected no spans for empty input, got %v", got)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	pool := sample[2:7]
	serial, err := (&Evaluator{Workers: 1}).Compute(context.Background(), sample, pool, false)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	for _, workers := range []int{2, 3, 5, 64} {
		parallel, err := (&Evaluator{Workers: workers}).Compute(context.Background(), sample, pool, true)
		if err != nil {
			t.Fatalf("parallel(%d): %v", workers, err)
		}
		for i := range serial {
			if serial[i] != parallel[i] {
				t.Fatalf("workers=%d row %d: serial %+v parallel %+v", workers, i, serial[i], parallel[i])
			}
		}
	}
	for i, s := range serial {
		if s.ID != sample[i].ID {
			t.Fatalf("row %d: expected id %d, got %d", i, sample[i].ID, s.ID)
		}
	}
}

func TestComputeEmptyPool(t *testing.T) {
	if _, err := NewEvaluator().Compute(context.Background(), sample, nil, true); err == nil {
		t.Fatal("expected error for empty pool")
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEvaluator().Compute(ctx, sample, sample, true); err == nil {
		t.Fatal("expected context error")
	}
}

func TestComputeProgress(t *testing.T) {
	var buf bytes.Buffer
	e := &Evaluator{Workers: 2, Progress: &buf}
	if _, err := e.Compute(context.Background(), sample, sample, true); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected progress output")
	}
}
