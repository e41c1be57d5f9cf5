package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// Provider loads the catalog of a language.
type Provider interface {
	Load(ctx context.Context, lang Language) (*Catalog, error)
}

// #region csv

var csvHeader = []string{"id", "word", "probability"}

// ReadCSV parses an id,word,probability table. Columns are matched by header name.
func ReadCSV(r io.Reader, lang Language) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("read header: missing column %q", name)
		}
	}

	var words []Word
	seen := map[string]bool{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		field := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		id, err := strconv.Atoi(field("id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: id: %w", line, err)
		}
		prob, err := strconv.ParseFloat(field("probability"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: probability: %w", line, err)
		}
		w := strings.ToLower(field("word"))
		if n := feedback.Length(w); n != lang.WordLength {
			return nil, fmt.Errorf("line %d: word %q has %d letters, want %d", line, w, n, lang.WordLength)
		}
		if seen[w] {
			return nil, fmt.Errorf("line %d: duplicate word %q", line, w)
		}
		seen[w] = true
		words = append(words, Word{ID: id, Word: w, Probability: prob})
	}
	return New(lang, words), nil
}

// WriteCSV writes c in the format ReadCSV accepts.
func WriteCSV(w io.Writer, c *Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, word := range c.Words {
		rec := []string{
			strconv.Itoa(word.ID),
			word.Word,
			strconv.FormatFloat(word.Probability, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// #endregion csv

// #region file-provider

// FileProvider reads <Dir>/<code>/words.csv and keeps each parsed catalog in memory.
type FileProvider struct {
	Dir string

	mu     sync.Mutex
	loaded map[string]*Catalog
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Dir: dir, loaded: make(map[string]*Catalog)}
}

// Path returns the catalog file for a language code.
func (p *FileProvider) Path(code string) string {
	return filepath.Join(p.Dir, code, "words.csv")
}

// Load returns the memoized catalog, reading it from disk on first use.
func (p *FileProvider) Load(ctx context.Context, lang Language) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.loaded[lang.Code]; ok {
		return c, nil
	}
	path := p.Path(lang.Code)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := ReadCSV(f, lang)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	if p.loaded == nil {
		p.loaded = make(map[string]*Catalog)
	}
	p.loaded[lang.Code] = c
	return c, nil
}

// Invalidate drops the memoized catalog of a language.
func (p *FileProvider) Invalidate(code string) {
	p.mu.Lock()
	delete(p.loaded, code)
	p.mu.Unlock()
}

// Save atomically replaces the catalog file of c's language.
func (p *FileProvider) Save(c *Catalog) error {
	path := p.Path(c.Language.Code)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "words-*.csv")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	if err := WriteCSV(tmp, c); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace catalog: %w", err)
	}
	p.Invalidate(c.Language.Code)
	return nil
}

// Remove deletes word from the language's catalog file, rebalancing the
// remaining probabilities.
func (p *FileProvider) Remove(ctx context.Context, lang Language, word string) (*Catalog, error) {
	c, err := p.Load(ctx, lang)
	if err != nil {
		return nil, err
	}
	next, err := RemoveWord(c, word)
	if err != nil {
		return nil, err
	}
	if err := p.Save(next); err != nil {
		return nil, err
	}
	return next, nil
}

// #endregion file-provider

// #region static-provider

// StaticProvider serves catalogs already held in memory, keyed by language code.
type StaticProvider map[string]*Catalog

func (s StaticProvider) Load(ctx context.Context, lang Language) (*Catalog, error) {
	c, ok := s[lang.Code]
	if !ok {
		return nil, fmt.Errorf("no catalog for language %s", lang.Code)
	}
	return c, nil
}

// #endregion static-provider
