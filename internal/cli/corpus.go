package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/corpus"
	"github.com/gcbaptista/go-retrieval-engine/internal/engine"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// loadCorpus reads every file matched by patterns, drawing a progress bar on out
// when out is non-nil.
func loadCorpus(ctx context.Context, patterns []string, out io.Writer) ([]model.Document, error) {
	var (
		bar   *progressbar.ProgressBar
		barMu sync.Mutex
	)
	opts := []corpus.Option{}
	if out != nil {
		opts = append(opts, corpus.WithProgress(func(processed, total int, _ string) {
			barMu.Lock()
			defer barMu.Unlock()
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(out),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowBytes(false),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("[cyan]Loading corpus[reset]"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionOnCompletion(func() {
						fmt.Fprintln(out)
					}),
				)
			}
			_ = bar.Set(processed)
		}))
	}

	docs, err := corpus.NewLoader(opts...).Load(ctx, patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	return docs, nil
}

// corpusPatterns prefers the command line over the config file.
func corpusPatterns(flagPatterns []string, cfg *config.Config) []string {
	if len(flagPatterns) > 0 {
		return flagPatterns
	}
	return cfg.Corpus.Paths
}

// populate loads the corpus matched by patterns into eng.
func populate(ctx context.Context, eng *engine.Engine, patterns []string, progress io.Writer) error {
	if len(patterns) == 0 {
		slog.Warn("no corpus configured, starting with an empty index")
		return nil
	}

	docs, err := loadCorpus(ctx, patterns, progress)
	if err != nil {
		return err
	}
	if err := eng.AddDocuments(docs); err != nil {
		return fmt.Errorf("failed to index corpus: %w", err)
	}
	return nil
}
