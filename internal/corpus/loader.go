// Package corpus loads documents from JSON and YAML files matched by glob patterns.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

// ProgressFunc is called after each file is parsed. Calls are serialized.
type ProgressFunc func(processed, total int, path string)

// Loader reads corpus files concurrently.
type Loader struct {
	workers  int
	progress ProgressFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithWorkers caps the number of files read in parallel.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithProgress reports per-file progress.
func WithProgress(fn ProgressFunc) Option {
	return func(l *Loader) { l.progress = fn }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Expand resolves patterns to a sorted, deduplicated list of files.
// A pattern without matches is an error.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid corpus pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no corpus files match %q", pattern)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load expands patterns and parses every file. Documents are returned in file
// order, then in the order they appear within each file.
func (l *Loader) Load(ctx context.Context, patterns []string) ([]model.Document, error) {
	files, err := Expand(patterns)
	if err != nil {
		return nil, err
	}

	parsed := make([][]model.Document, len(files))
	var (
		mu        sync.Mutex
		processed int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs, err := ReadFile(path)
			if err != nil {
				return err
			}
			parsed[i] = docs

			if l.progress != nil {
				mu.Lock()
				processed++
				l.progress(processed, len(files), path)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var docs []model.Document
	for _, batch := range parsed {
		docs = append(docs, batch...)
	}
	return docs, nil
}

// ReadFile parses one corpus file. The extension selects the format; the file
// may hold a list of documents or a single document.
func ReadFile(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
	}

	var docs []model.Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		docs, err = parseJSON(data)
	case ".yaml", ".yml":
		docs, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported corpus file %s: extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing corpus file %s: %w", path, err)
	}
	return docs, nil
}

func parseJSON(data []byte) ([]model.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var docs []model.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var doc model.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return []model.Document{doc}, nil
}

func parseYAML(data []byte) ([]model.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var docs []model.Document
		if err := node.Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var doc model.Document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	return []model.Document{doc}, nil
}
