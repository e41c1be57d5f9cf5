package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// #region language

// Language is the per-language configuration record.
// A zero Threshold means it is derived from the catalog on first use.
type Language struct {
	Code              string `yaml:"code"`
	WordLength        int    `yaml:"word_length"`
	InitialSuggestion string `yaml:"initial_suggestion"`
	Threshold         int    `yaml:"threshold"`
}

func (l Language) String() string {
	return strings.ToUpper(l.Code)
}

// #endregion language

// #region registry

// Registry maps language codes to their configuration.
type Registry struct {
	languages map[string]Language
}

// NewRegistry builds a registry from explicit records.
func NewRegistry(langs ...Language) *Registry {
	r := &Registry{languages: make(map[string]Language, len(langs))}
	for _, l := range langs {
		r.languages[strings.ToLower(l.Code)] = l
	}
	return r
}

// DefaultRegistry returns the built-in Spanish and English records.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Language{Code: "es", WordLength: 5, InitialSuggestion: "careo"},
		Language{Code: "en", WordLength: 5, InitialSuggestion: "tares"},
	)
}

type registryFile struct {
	Languages []Language `yaml:"languages"`
}

// LoadRegistry reads a YAML file with a top-level "languages" list.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	for i := range f.Languages {
		l := &f.Languages[i]
		if l.Code == "" {
			return nil, fmt.Errorf("parse registry %s: language %d has no code", path, i+1)
		}
		if l.WordLength == 0 {
			l.WordLength = 5
		}
		if l.WordLength < 1 || l.WordLength > feedback.MaxLength {
			return nil, fmt.Errorf("parse registry %s: %s word_length %d out of range 1..%d",
				path, l.Code, l.WordLength, feedback.MaxLength)
		}
		if l.Threshold < 0 {
			return nil, fmt.Errorf("parse registry %s: %s threshold must not be negative", path, l.Code)
		}
	}
	return NewRegistry(f.Languages...), nil
}

// LoadRegistryOrDefault falls back to DefaultRegistry when path does not exist.
func LoadRegistryOrDefault(path string) (*Registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultRegistry(), nil
	}
	return LoadRegistry(path)
}

// Lookup resolves a language code.
func (r *Registry) Lookup(code string) (Language, error) {
	l, ok := r.languages[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Language{}, &validate.InvalidLanguageError{Code: code}
	}
	return l, nil
}

// Codes lists the registered codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.languages))
	for c := range r.languages {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// #endregion registry
