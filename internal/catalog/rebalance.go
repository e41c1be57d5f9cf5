package catalog

import (
	"math"

	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// RemoveWord returns a copy of c without word. Remaining words keep their
// ids and order; probabilities are reassigned by Rebalance.
func RemoveWord(c *Catalog, word string) (*Catalog, error) {
	i, ok := c.index[word]
	if !ok {
		return nil, &validate.WordNotFoundError{Word: word, Language: c.Language.Code}
	}
	words := make([]Word, 0, len(c.Words)-1)
	words = append(words, c.Words[:i]...)
	words = append(words, c.Words[i+1:]...)
	Rebalance(words)
	return New(c.Language, words), nil
}

// Rebalance assigns logistic probabilities over row order: the first row
// gets the top of a sigmoid sampled evenly on [-10, 10], the last the bottom.
func Rebalance(words []Word) {
	n := len(words)
	for i := range words {
		words[i].Probability = sigmoid(linspace(-10, 10, n, n-1-i))
	}
}

// linspace returns the k-th of n evenly spaced samples on [lo, hi].
func linspace(lo, hi float64, n, k int) float64 {
	if n < 2 {
		return lo
	}
	return lo + (hi-lo)*float64(k)/float64(n-1)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
