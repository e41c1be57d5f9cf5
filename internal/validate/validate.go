package validate

import (
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// Lexicon is the word-membership view of a catalog.
type Lexicon interface {
	Contains(word string) bool
}

// #region validators

// Word checks the length of word first, then its membership in lex.
func Word(word string, length int, lex Lexicon, language string) error {
	if n := feedback.Length(word); n != length {
		return &InvalidWordLengthError{Word: word, Length: n, Want: length}
	}
	if !lex.Contains(word) {
		return &WordNotFoundError{Word: word, Language: language}
	}
	return nil
}

// Answer checks that answer is exactly length status digits.
func Answer(answer string, length int) error {
	if !feedback.Pattern(answer).Valid(length) {
		return &InvalidAnswerError{Answer: answer, Length: length}
	}
	return nil
}

// Steps validates every guess and answer in order and stops at the first failure.
func Steps(steps []feedback.Step, length int, lex Lexicon, language string) error {
	for _, st := range steps {
		if err := Word(st.Guess, length, lex, language); err != nil {
			return err
		}
		if err := Answer(string(st.Answer), length); err != nil {
			return err
		}
	}
	return nil
}

// Weight checks that w lies in [0, 1].
func Weight(w float64) error {
	if !(w >= 0 && w <= 1) {
		return &InvalidWeightError{Weight: w}
	}
	return nil
}

// #endregion validators
