package rank

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
	"github.com/danielpatrickdp/wordle-solver/internal/filter"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// Blend weight bounds for entropy against prior probability.
const (
	MinWeight = 0.2
	MaxWeight = 0.8
)

// ErrNoCandidates is filter.ErrNoCandidates.
var ErrNoCandidates = filter.ErrNoCandidates

// #region row

// Row is one catalog word joined with its entropy. The remaining fields
// are filled in by Rank.
type Row struct {
	ID           int     `json:"id"`
	Word         string  `json:"word"`
	Probability  float64 `json:"probability"`
	Entropy      float64 `json:"entropy"`
	EntropyNorm  float64 `json:"entropy_norm"`
	Possible     bool    `json:"possible"`
	Guessability float64 `json:"guessability"`
}

// Join pairs every catalog word with its score, in catalog order.
// It fails if any catalog word has no score.
func Join(cat *catalog.Catalog, scores []entropy.Score) ([]Row, error) {
	byID := make(map[int]float64, len(scores))
	for _, s := range scores {
		byID[s.ID] = s.Entropy
	}
	rows := make([]Row, len(cat.Words))
	for i, w := range cat.Words {
		h, ok := byID[w.ID]
		if !ok {
			return nil, fmt.Errorf("join entropies: no score for word %d %q", w.ID, w.Word)
		}
		rows[i] = Row{ID: w.ID, Word: w.Word, Probability: w.Probability, Entropy: h}
	}
	return rows, nil
}
// #endregion row

// #region rank

// Result is the outcome of Rank.
type Result struct {
	Best       Row
	Rows       []Row
	Weight     float64
	Candidates int
}

// BlendWeight scales the entropy weight with the candidate count. The ratio
// against threshold is not clamped, so counts above threshold exceed MaxWeight.
func BlendWeight(candidates, threshold int) float64 {
	ratio := float64(candidates) / float64(threshold)
	return MinWeight + (MaxWeight-MinWeight)*ratio
}

// Rank scores every row and returns the one with the highest guessability:
//
//	weight*entropy_norm + (1-weight)*probability + possible/len(candidates)
//
// Entropy is min-max normalized over all rows. Ties go to the earliest row.
func Rank(rows []Row, candidates []catalog.Word, threshold int) (Result, error) {
	n := len(candidates)
	if n == 0 || len(rows) == 0 {
		return Result{}, ErrNoCandidates
	}
	if threshold <= 0 {
		return Result{}, fmt.Errorf("rank: threshold must be positive, got %d", threshold)
	}

	pos := make(map[int]uint, len(rows))
	for i, r := range rows {
		pos[r.ID] = uint(i)
	}
	possible := bitset.New(uint(len(rows)))
	for _, c := range candidates {
		if i, ok := pos[c.ID]; ok {
			possible.Set(i)
		}
	}

	entropies := make([]float64, len(rows))
	for i, r := range rows {
		entropies[i] = r.Entropy
	}
	lo, hi := minMax(entropies)
	span := hi - lo

	weight := BlendWeight(n, threshold)
	bonus := 1 / float64(n)

	out := make([]Row, len(rows))
	best := 0
	for i, r := range rows {
		r.EntropyNorm = 0
		if span != 0 {
			r.EntropyNorm = (r.Entropy - lo) / span
		}
		r.Possible = possible.Test(uint(i))
		r.Guessability = weight*r.EntropyNorm + (1-weight)*r.Probability
		if r.Possible {
			r.Guessability += bonus
		}
		out[i] = r
		if r.Guessability > out[best].Guessability {
			best = i
		}
	}
	return Result{Best: out[best], Rows: out, Weight: weight, Candidates: n}, nil
}
// #endregion rank

// #region weighted

// Weighted ranks rows by weight*entropy + (1-weight)*probability with no
// normalization or possibility bonus.
func Weighted(rows []Row, weight float64) (Row, error) {
	if err := validate.Weight(weight); err != nil {
		return Row{}, err
	}
	if len(rows) == 0 {
		return Row{}, ErrNoCandidates
	}
	best := rows[0]
	best.Guessability = weight*best.Entropy + (1-weight)*best.Probability
	for _, r := range rows[1:] {
		r.Guessability = weight*r.Entropy + (1-weight)*r.Probability
		if r.Guessability > best.Guessability {
			best = r
		}
	}
	return best, nil
}
// #endregion weighted

func minMax[T constraints.Ordered](xs []T) (lo, hi T) {
	if len(xs) == 0 {
		return lo, hi
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
