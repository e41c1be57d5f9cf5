package solver

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/danielpatrickdp/wordle-solver/internal/cache"
	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
)

// #region config
// Config holds the on-disk layout and evaluation settings.
type Config struct {
	DataDir      string // per-language catalogs live in <DataDir>/<code>/words.csv
	CacheDB      string // SQLite file for entropy tables and the suggestion log
	RegistryPath string // languages.yaml; built-in languages when missing
	Workers      int
	Parallel     bool
}

// DefaultConfig returns the defaults with environment overrides applied.
func DefaultConfig() Config {
	cfg := Config{
		DataDir:  "data",
		Workers:  entropy.DefaultWorkers(),
		Parallel: true,
	}
	if v := os.Getenv("WORDLE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	cfg.CacheDB = filepath.Join(cfg.DataDir, "cache.db")
	cfg.RegistryPath = filepath.Join(cfg.DataDir, "languages.yaml")
	if v := os.Getenv("WORDLE_CACHE_DB"); v != "" {
		cfg.CacheDB = v
	}
	if v := os.Getenv("WORDLE_REGISTRY"); v != "" {
		cfg.RegistryPath = v
	}
	if v := os.Getenv("WORDLE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("WORDLE_PARALLEL"); v != "" {
		cfg.Parallel = v == "true" || v == "1"
	}
	return cfg
}
// #endregion config

// #region open
// Open wires a Solver from cfg: registry, CSV catalogs, SQLite cache and
// suggestion log. The returned Store must be closed by the caller.
func Open(cfg Config, logger *log.Logger) (*Solver, *cache.SQLiteStore, error) {
	reg, err := catalog.LoadRegistryOrDefault(cfg.RegistryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load languages: %w", err)
	}
	if dir := filepath.Dir(cfg.CacheDB); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	store, err := cache.NewSQLiteStore(cfg.CacheDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	eval := &entropy.Evaluator{Workers: cfg.Workers, Logger: logger}
	s := New(reg, catalog.NewFileProvider(cfg.DataDir), store, eval)
	s.Logger = logger
	s.Parallel = cfg.Parallel
	s.SuggestionDB = store.DB()
	return s, store, nil
}
// #endregion open
