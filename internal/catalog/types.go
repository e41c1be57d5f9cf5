package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
)

// #region word

// Word is one catalog entry. ID is stable across catalog edits.
type Word struct {
	ID          int     `json:"id"`
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}

// #endregion word

// #region catalog

// Catalog is the ordered, immutable word list of one language.
type Catalog struct {
	Language Language
	Words    []Word

	index map[string]int

	hashOnce sync.Once
	hash     string
}

// New builds a catalog over words. The slice is owned by the catalog afterwards.
func New(lang Language, words []Word) *Catalog {
	c := &Catalog{
		Language: lang,
		Words:    words,
		index:    make(map[string]int, len(words)),
	}
	for i, w := range words {
		c.index[w.Word] = i
	}
	return c
}

// Len returns the number of words.
func (c *Catalog) Len() int {
	return len(c.Words)
}

// Contains reports whether word is in the catalog.
func (c *Catalog) Contains(word string) bool {
	_, ok := c.index[word]
	return ok
}

// Index returns the row position of word.
func (c *Catalog) Index(word string) (int, bool) {
	i, ok := c.index[word]
	return i, ok
}

// Lookup returns the entry for word.
func (c *Catalog) Lookup(word string) (Word, bool) {
	i, ok := c.index[word]
	if !ok {
		return Word{}, false
	}
	return c.Words[i], true
}

// Hash fingerprints the ordered rows. Any edit to ids, words or
// probabilities changes it.
func (c *Catalog) Hash() string {
	c.hashOnce.Do(func() {
		h := sha256.New()
		buf := make([]byte, 0, 64)
		for _, w := range c.Words {
			buf = buf[:0]
			buf = strconv.AppendInt(buf, int64(w.ID), 10)
			buf = append(buf, ',')
			buf = append(buf, w.Word...)
			buf = append(buf, ',')
			buf = strconv.AppendFloat(buf, w.Probability, 'g', -1, 64)
			buf = append(buf, '\n')
			h.Write(buf)
		}
		sum := h.Sum(nil)
		c.hash = hex.EncodeToString(sum[:16])
	})
	return c.hash
}

// #endregion catalog
