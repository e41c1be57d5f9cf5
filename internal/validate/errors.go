package validate

import (
	"errors"
	"fmt"
)

// #region errors

// InvalidWordLengthError reports a guess that is not the language's word length.
type InvalidWordLengthError struct {
	Word   string
	Length int
	Want   int
}

func (e *InvalidWordLengthError) Error() string {
	return fmt.Sprintf("the word %q is %d characters long, it must be exactly %d characters long", e.Word, e.Length, e.Want)
}

// WordNotFoundError reports a guess missing from the language's catalog.
type WordNotFoundError struct {
	Word     string
	Language string
}

func (e *WordNotFoundError) Error() string {
	return fmt.Sprintf("the word %q does not exist in the %s word list", e.Word, e.Language)
}

// InvalidAnswerError reports a feedback string that is not a well-formed pattern.
type InvalidAnswerError struct {
	Answer string
	Length int
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("the answer %q is not valid, it must be exactly %d characters, each one of '0', '1' or '2'", e.Answer, e.Length)
}

// InvalidWeightError reports a blend weight outside [0, 1].
type InvalidWeightError struct {
	Weight float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("the value %v is not a valid guess weight, it must be between 0 and 1", e.Weight)
}

// InvalidLanguageError reports an unknown language code.
type InvalidLanguageError struct {
	Code string
}

func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("the language %q is not supported", e.Code)
}

// IsValidation reports whether err carries any of the input validation errors.
func IsValidation(err error) bool {
	var (
		wl *InvalidWordLengthError
		nf *WordNotFoundError
		an *InvalidAnswerError
		wt *InvalidWeightError
		lg *InvalidLanguageError
	)
	return errors.As(err, &wl) || errors.As(err, &nf) || errors.As(err, &an) ||
		errors.As(err, &wt) || errors.As(err, &lg)
}

// #endregion errors
