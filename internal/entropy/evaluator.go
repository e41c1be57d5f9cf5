package entropy

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
)

// #region partition

// Span is a half-open range [Start, End) of catalog rows.
type Span struct {
	Start, End int
}

// Partition splits n rows into at most chunks contiguous spans. When n does
// not divide evenly the first n%chunks spans get one extra row.
func Partition(n, chunks int) []Span {
	if chunks < 1 {
		chunks = 1
	}
	if chunks > n {
		chunks = n
	}
	if n == 0 {
		return nil
	}
	size, remainder := n/chunks, n%chunks
	spans := make([]Span, chunks)
	start := 0
	for i := range spans {
		end := start + size
		if i < remainder {
			end++
		}
		spans[i] = Span{Start: start, End: end}
		start = end
	}
	return spans
}

// DefaultWorkers is half the logical CPUs, at least one.
func DefaultWorkers() int {
	if n := runtime.NumCPU() / 2; n > 1 {
		return n
	}
	return 1
}

// #endregion partition

// #region evaluator

// Evaluator scores every catalog word against a candidate pool.
type Evaluator struct {
	Workers  int       // parallel chunks; <=0 means DefaultWorkers
	Progress io.Writer // progress bar destination; nil disables it
	Logger   *log.Logger
}

// NewEvaluator returns an evaluator with the default worker count.
func NewEvaluator() *Evaluator {
	return &Evaluator{Workers: DefaultWorkers()}
}

func (e *Evaluator) workers() int {
	if e == nil || e.Workers <= 0 {
		return DefaultWorkers()
	}
	return e.Workers
}

// Compute returns one Score per word in words, in the same order.
// With parallel set, words is partitioned across workers and the results
// are joined after every chunk completes.
func (e *Evaluator) Compute(ctx context.Context, words, pool []catalog.Word, parallel bool) ([]Score, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("compute entropies: empty candidate pool")
	}
	start := time.Now()
	poolRunes := Runes(pool)
	length := catalogLength(words)
	scores := make([]Score, len(words))
	bar := e.newBar(len(words))

	chunks := 1
	if parallel {
		chunks = e.workers()
	}
	spans := Partition(len(words), chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chunks)
	for _, sp := range spans {
		g.Go(func() error {
			c := newCounter(length)
			for i := sp.Start; i < sp.End; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				w := words[i]
				scores[i] = Score{ID: w.ID, Entropy: c.entropy([]rune(w.Word), poolRunes)}
				bar.add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute entropies: %w", err)
	}
	bar.finish()

	if e != nil && e.Logger != nil {
		e.Logger.Printf("entropy: %d words over %d candidates in %d chunks, %s",
			len(words), len(pool), len(spans), time.Since(start).Round(time.Millisecond))
	}
	return scores, nil
}

func catalogLength(words []catalog.Word) int {
	if len(words) == 0 {
		return 0
	}
	return len([]rune(words[0].Word))
}

// #endregion evaluator

// #region progress

type progress struct {
	bar *progressbar.ProgressBar
}

func (e *Evaluator) newBar(total int) progress {
	if e == nil || e.Progress == nil {
		return progress{}
	}
	return progress{bar: progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(e.Progress),
		progressbar.OptionSetDescription("entropy"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p progress) add(n int) {
	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

func (p progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// #endregion progress
