package entropy

import (
	"math"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// Score is the entropy of one catalog word over a candidate pool.
type Score struct {
	ID      int     `json:"id"`
	Entropy float64 `json:"entropy"`
}

// denseLimit bounds the pattern space counted with a flat slice.
const denseLimit = 1 << 16

// Entropy returns the Shannon entropy, in bits, of the pool grouped by the
// feedback each member gets as a guess when word is the secret. pool must
// not be empty.
func Entropy(word []rune, pool [][]rune) float64 {
	c := newCounter(len(word))
	return c.entropy(word, pool)
}

// Of is Entropy over catalog words, with word as the secret.
func Of(word string, pool []catalog.Word) float64 {
	return Entropy([]rune(word), Runes(pool))
}

// Runes pre-splits words for repeated evaluation.
func Runes(words []catalog.Word) [][]rune {
	out := make([][]rune, len(words))
	for i, w := range words {
		out[i] = []rune(w.Word)
	}
	return out
}

// #region counter

// counter tallies pattern codes; it is reused across words by one goroutine.
type counter struct {
	dense   []int
	touched []uint32
	sparse  map[uint32]int
}

func newCounter(length int) *counter {
	total := 1
	for i := 0; i < length && total <= denseLimit; i++ {
		total *= 3
	}
	if total <= denseLimit {
		return &counter{dense: make([]int, total)}
	}
	return &counter{sparse: make(map[uint32]int)}
}

func (c *counter) entropy(word []rune, pool [][]rune) float64 {
	if c.dense != nil {
		c.touched = c.touched[:0]
		for _, w := range pool {
			code := feedback.Code(word, w)
			if c.dense[code] == 0 {
				c.touched = append(c.touched, code)
			}
			c.dense[code]++
		}
		if len(c.touched) <= 1 {
			for _, code := range c.touched {
				c.dense[code] = 0
			}
			return 0
		}
		n := float64(len(pool))
		h := 0.0
		for _, code := range c.touched {
			p := float64(c.dense[code]) / n
			h -= p * math.Log2(p)
			c.dense[code] = 0
		}
		return h
	}

	clear(c.sparse)
	for _, w := range pool {
		c.sparse[feedback.Code(word, w)]++
	}
	if len(c.sparse) <= 1 {
		return 0
	}
	n := float64(len(pool))
	h := 0.0
	for _, count := range c.sparse {
		p := float64(count) / n
		h -= p * math.Log2(p)
	}
	return h
}

// #endregion counter
