package feedback

import (
	"fmt"
	"strings"
)

// Step is one round of a game: the word guessed and the feedback received.
type Step struct {
	Guess  string  `json:"guess"`
	Answer Pattern `json:"answer"`
}

func (s Step) String() string {
	return s.Guess + ":" + string(s.Answer)
}

// ParseSteps reads the compact "guess:answer,guess:answer" form.
// An empty string is an empty game.
func ParseSteps(s string) ([]Step, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	steps := make([]Step, 0, len(parts))
	for i, part := range parts {
		guess, answer, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("parse step %d %q: expected guess:answer", i+1, part)
		}
		steps = append(steps, Step{
			Guess:  strings.ToLower(strings.TrimSpace(guess)),
			Answer: Pattern(strings.TrimSpace(answer)),
		})
	}
	return steps, nil
}

// FormatSteps is the inverse of ParseSteps.
func FormatSteps(steps []Step) string {
	parts := make([]string, len(steps))
	for i, st := range steps {
		parts[i] = st.String()
	}
	return strings.Join(parts, ",")
}
