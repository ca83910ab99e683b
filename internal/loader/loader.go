// Package loader reads DDL files from disk and parses them into schemas.
//
// Files are read concurrently but always parsed one at a time, in the order
// the paths were given, because a schema.Schema is not safe for concurrent
// mutation and ignored spans must stay in document order.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/sqlschema/pkg/parser"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// DefaultInclude is used when Options.Include is empty.
var DefaultInclude = []string{"*.sql"}

// Options controls how documents are found, read and parsed.
type Options struct {
	// Include holds file name patterns used when walking a directory.
	// Files named explicitly are always read.
	Include []string
	// Concurrency bounds the number of files read at once.
	Concurrency int
	// Resolve binds foreign keys to their tables once all documents are parsed.
	Resolve bool
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Document is the text of one input file.
type Document struct {
	Path string
	Text string
}

// Result is a schema built from several documents.
type Result struct {
	Schema    *schema.Schema
	Documents []Document
}

// Load expands paths, reads every file and parses them, in order, into one
// schema.
func Load(ctx context.Context, paths []string, opts Options) (*Result, error) {
	logger := opts.logger()
	start := time.Now()

	files, err := Expand(paths, opts.Include)
	if err != nil {
		return nil, err
	}

	docs, err := Read(ctx, files, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	s := schema.New()
	for _, doc := range docs {
		if err := parser.Parse(doc.Path, doc.Text, s); err != nil {
			return nil, err
		}
		logger.Debug("parsed document", "file", doc.Path, "tables", len(s.Tables))
	}

	if opts.Resolve {
		if err := s.Resolve(); err != nil {
			return nil, err
		}
	}

	logger.Debug("schema loaded",
		"files", len(docs),
		"tables", len(s.Tables),
		"ignored", len(s.Ignored),
		"duration", time.Since(start))

	return &Result{Schema: s, Documents: docs}, nil
}

// ParseDocument parses one document into a fresh schema.
func ParseDocument(doc Document, resolve bool) (*schema.Schema, error) {
	s := schema.New()
	if err := parser.Parse(doc.Path, doc.Text, s); err != nil {
		return nil, err
	}
	if resolve {
		if err := s.Resolve(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Expand replaces each directory in paths by the files below it whose names
// match one of the include patterns, in lexical order. Hidden files and
// directories are skipped. Other paths are kept as given.
func Expand(paths []string, include []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != path && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ok, err := Match(include, d.Name())
			if err != nil {
				return err
			}
			if ok {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
	}
	return files, nil
}

// Match reports whether name matches one of the patterns.
func Match(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Read reads files with at most concurrency reads in flight. The documents
// are returned in the order of files. The first failure cancels the
// remaining reads.
func Read(ctx context.Context, files []string, concurrency int) ([]Document, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	docs := make([]Document, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			docs[i] = Document{Path: file, Text: string(data)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
