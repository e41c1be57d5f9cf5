package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// #region fixture-types
// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Language    string        `json:"language"`
	Games       []FixtureGame `json:"games"`
}

// FixtureGame is a secret and the steps the solver is expected to play.
type FixtureGame struct {
	Secret        string          `json:"secret"`
	ExpectedSteps []feedback.Step `json:"expected_steps"`
}

// TurnResult compares one expected turn with the replayed one.
type TurnResult struct {
	Secret   string
	Turn     int
	Expected string
	Replayed string
	Match    bool
}
// #endregion fixture-types

// #region fixture-loader
// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// NewFixture records played games as a fixture.
func NewFixture(description, language string, games []Game) *Fixture {
	f := &Fixture{Description: description, Language: language}
	for _, g := range games {
		f.Games = append(f.Games, FixtureGame{Secret: g.Secret, ExpectedSteps: g.Steps})
	}
	return f
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}
// #endregion fixture-loader

// #region replay
// Replay plays every fixture secret again and compares the guesses turn by turn.
func Replay(ctx context.Context, g Guesser, f *Fixture) ([]TurnResult, error) {
	secrets := make([]string, len(f.Games))
	for i, fg := range f.Games {
		secrets[i] = fg.Secret
	}
	games, err := Run(ctx, g, f.Language, secrets, 1, nil)
	if err != nil {
		return nil, err
	}
	return Compare(f, games), nil
}

// Compare lines up expected and played steps. A turn present on only one
// side is a mismatch with "-" on the other.
func Compare(f *Fixture, games []Game) []TurnResult {
	var out []TurnResult
	for i, fg := range f.Games {
		var played []feedback.Step
		if i < len(games) {
			played = games[i].Steps
		}
		n := max(len(fg.ExpectedSteps), len(played))
		for t := 0; t < n; t++ {
			exp, got := "-", "-"
			if t < len(fg.ExpectedSteps) {
				exp = fg.ExpectedSteps[t].String()
			}
			if t < len(played) {
				got = played[t].String()
			}
			out = append(out, TurnResult{
				Secret:   fg.Secret,
				Turn:     t + 1,
				Expected: exp,
				Replayed: got,
				Match:    exp == got,
			})
		}
	}
	return out
}
// #endregion replay
