package filter

import (
	"errors"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// ErrNoCandidates is returned when the feedback history rules out every word.
var ErrNoCandidates = errors.New("no candidate words are consistent with the feedback")

// Filter keeps the words that, if they were the secret, would have produced
// pattern for guess. Order is preserved and words is not modified.
func Filter(words []catalog.Word, guess string, pattern feedback.Pattern) []catalog.Word {
	g := []rune(guess)
	want := pattern.Code()
	out := make([]catalog.Word, 0, len(words)/4+1)
	for _, w := range words {
		if feedback.Code([]rune(w.Word), g) == want {
			out = append(out, w)
		}
	}
	return out
}

// Accumulative applies Filter for every step in order. With no steps it
// returns a copy of words.
func Accumulative(steps []feedback.Step, words []catalog.Word) []catalog.Word {
	out := append([]catalog.Word(nil), words...)
	for _, st := range steps {
		out = Filter(out, st.Guess, st.Answer)
		if len(out) == 0 {
			break
		}
	}
	return out
}

// Candidates is Accumulative that reports ErrNoCandidates for an empty result.
func Candidates(steps []feedback.Step, words []catalog.Word) ([]catalog.Word, error) {
	out := Accumulative(steps, words)
	if len(out) == 0 {
		return nil, ErrNoCandidates
	}
	return out, nil
}
