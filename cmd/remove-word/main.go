package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/wordle-solver/internal/cache"
	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
)

// #region main
func main() {
	lang := flag.String("lang", "", "language code")
	keep := flag.Bool("keep-cache", false, "do not clear the language's entropy tables")
	flag.Parse()

	if *lang == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: remove-word --lang es word [word ...]")
		os.Exit(2)
	}

	cfg := solver.DefaultConfig()
	reg, err := catalog.LoadRegistryOrDefault(cfg.RegistryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load languages: %v\n", err)
		os.Exit(1)
	}
	language, err := reg.Lookup(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	provider := catalog.NewFileProvider(cfg.DataDir)
	var c *catalog.Catalog
	for _, word := range flag.Args() {
		c, err = provider.Remove(ctx, language, strings.ToLower(strings.TrimSpace(word)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "remove %s: %v\n", word, err)
			os.Exit(1)
		}
		fmt.Printf("removed %q from %s\n", word, provider.Path(language.Code))
	}
	fmt.Printf("%d words left, catalog hash %s\n", c.Len(), c.Hash())

	if *keep {
		return
	}
	store, err := cache.NewSQLiteStore(cfg.CacheDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open cache: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	n, err := store.Clear(ctx, language.Code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clear cache: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("cleared %d cached %s tables\n", n, language.Code)
}
// #endregion main
