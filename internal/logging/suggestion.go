package logging

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region log-suggestion
// LogSuggestion writes a suggestion entry to the suggestion_log table.
func LogSuggestion(ctx context.Context, db *sql.DB, entry SuggestionEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Mode == "" {
		entry.Mode = ModeAdaptive
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO suggestion_log (id, language, cache_key, steps, mode, suggestion, candidates, weight, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Language,
		entry.CacheKey,
		entry.Steps,
		entry.Mode,
		entry.Suggestion,
		entry.Candidates,
		entry.Weight,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log suggestion: %w", err)
	}
	return nil
}
// #endregion log-suggestion

// #region list-suggestions
// ListSuggestions returns the most recent suggestions, newest first.
// An empty language lists every language.
func ListSuggestions(ctx context.Context, db *sql.DB, language string, limit int) ([]SuggestionEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, language, cache_key, steps, mode, suggestion, candidates, weight, created_at
		 FROM suggestion_log WHERE (? = '' OR language = ?)
		 ORDER BY created_at DESC LIMIT ?`, language, language, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var entries []SuggestionEntry
	for rows.Next() {
		var e SuggestionEntry
		var createdStr string
		if err := rows.Scan(&e.ID, &e.Language, &e.CacheKey, &e.Steps, &e.Mode,
			&e.Suggestion, &e.Candidates, &e.Weight, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion list-suggestions
