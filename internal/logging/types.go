package logging

import "time"

// #region suggestion-entry
// SuggestionEntry is a single row in the suggestion_log table.
type SuggestionEntry struct {
	ID         string
	Language   string
	CacheKey   string
	Steps      string // "guess:answer,guess:answer"
	Mode       string // "adaptive" | "weighted"
	Suggestion string
	Candidates int
	Weight     float64
	CreatedAt  time.Time
}
// #endregion suggestion-entry

// Suggestion modes.
const (
	ModeAdaptive = "adaptive"
	ModeWeighted = "weighted"
)
