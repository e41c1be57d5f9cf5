package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// #region entry
// Entry is one persisted entropy table.
type Entry struct {
	ID          string
	Language    string
	Key         string
	Steps       []feedback.Step
	CatalogHash string
	Scores      []entropy.Score
	Rows        int
	CreatedAt   time.Time
}
// #endregion entry

// #region store
// Store persists entropy tables per language and key. A missing key is
// reported with ok=false, never as an error.
type Store interface {
	Get(ctx context.Context, language, key string) (Entry, bool, error)
	Put(ctx context.Context, e Entry) error
	Delete(ctx context.Context, language, key string) error
	Clear(ctx context.Context, language string) (int, error)
}
// #endregion store

// #region key
// Canonical serializes steps as "guess=<g>/answer=<a>/" segments in order.
// The empty game serializes to "".
func Canonical(steps []feedback.Step) string {
	var b strings.Builder
	for _, st := range steps {
		b.WriteString("guess=")
		b.WriteString(st.Guess)
		b.WriteString("/answer=")
		b.WriteString(string(st.Answer))
		b.WriteByte('/')
	}
	return b.String()
}

// Key is the fixed-width cache key of a step sequence.
func Key(steps []feedback.Step) string {
	sum := sha256.Sum256([]byte(Canonical(steps)))
	return hex.EncodeToString(sum[:])
}
// #endregion key
