package feedback

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest word a packed pattern code can represent.
const MaxLength = 20

// #region status

// Status is the outcome of a single guessed letter.
type Status uint8

const (
	Correct Status = iota
	Misplaced
	Absent
)

// Symbol returns the wire digit for the status: '0', '1' or '2'.
func (s Status) Symbol() byte {
	return '0' + byte(s)
}

func (s Status) String() string {
	switch s {
	case Correct:
		return "correct"
	case Misplaced:
		return "misplaced"
	case Absent:
		return "absent"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// #endregion status

// #region pattern

// Pattern is the feedback for a whole guess, one digit per letter:
// '0' correct, '1' misplaced, '2' absent.
type Pattern string

// AllCorrect returns the winning pattern for words of length n.
func AllCorrect(n int) Pattern {
	return Pattern(strings.Repeat(string(Correct.Symbol()), n))
}

// Valid reports whether p has exactly n symbols, each a known status digit.
func (p Pattern) Valid(n int) bool {
	if len(p) != n {
		return false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '2' {
			return false
		}
	}
	return true
}

// Statuses expands the pattern into per-letter statuses.
func (p Pattern) Statuses() []Status {
	out := make([]Status, len(p))
	for i := 0; i < len(p); i++ {
		out[i] = Status(p[i] - '0')
	}
	return out
}

// Code packs the pattern base 3, first letter most significant.
// The pattern must be valid.
func (p Pattern) Code() uint32 {
	var code uint32
	for i := 0; i < len(p); i++ {
		code = code*3 + uint32(p[i]-'0')
	}
	return code
}

// Decode unpacks a base-3 code into a pattern of length n.
func Decode(code uint32, n int) Pattern {
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = Status(code % 3).Symbol()
		code /= 3
	}
	return Pattern(b)
}

// AllPatterns lists every pattern of length n in ascending order.
func AllPatterns(n int) []Pattern {
	total := 1
	for i := 0; i < n; i++ {
		total *= 3
	}
	out := make([]Pattern, total)
	for c := 0; c < total; c++ {
		out[c] = Decode(uint32(c), n)
	}
	return out
}

// #endregion pattern

// #region evaluate

// Evaluate compares guess against secret and returns the feedback pattern.
// Both words must have the same number of letters.
func Evaluate(secret, guess string) Pattern {
	g := []rune(guess)
	return Decode(Code([]rune(secret), g), len(g))
}

// Code is Evaluate on pre-split words, returning the packed pattern.
// Exact matches are consumed first so that repeated letters are never
// reported as misplaced when their copies are already placed.
func Code(secret, guess []rune) uint32 {
	n := len(guess)
	var masked [MaxLength]rune
	var status [MaxLength]Status
	copy(masked[:n], secret)

	for i := 0; i < n; i++ {
		status[i] = Absent
		if guess[i] == masked[i] {
			status[i] = Correct
			masked[i] = 0
		}
	}

	for i := 0; i < n; i++ {
		if status[i] == Correct {
			continue
		}
		for j := 0; j < n; j++ {
			if masked[j] == guess[i] {
				status[i] = Misplaced
				masked[j] = 0
				break
			}
		}
	}

	var code uint32
	for i := 0; i < n; i++ {
		code = code*3 + uint32(status[i])
	}
	return code
}

// Length counts the letters of a word.
func Length(word string) int {
	return utf8.RuneCountInString(word)
}

// #endregion evaluate
