// Package catalog loads grammar descriptions from a directory and keeps compiled parsers in a cache.
//
// A grammar named "calc" is read from file "calc.meta" in the catalog directory.
// Compiled parsers are cached by the hash of the description text, so identical descriptions
// share one parser and an edited file never hits a stale entry.
package catalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/metrics"
	"github.com/ava12/meta/langdef"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/source"
)

// Ext is the extension of grammar description files.
const Ext = ".meta"

// Error codes used by catalog:
const (
	InvalidNameError = meta.ConfigErrors + 10 + iota
	UnknownGrammarError
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Grammar is a compiled grammar description.
type Grammar struct {
	Name   string
	Source *source.Source
	Parser *parser.Parser
}

// CompileError is returned when a grammar description is malformed.
// Source is kept to render the diagnostic.
type CompileError struct {
	Name   string
	Source *source.Source
	Err    error
}

func (e *CompileError) Error() string {
	return "grammar " + e.Name + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Option configures Catalog.
type Option func(*Catalog)

// WithLogger sets logger, the default one discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Catalog) {
		c.log = log
	}
}

// WithMetrics sets metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// WithParserOptions sets options for every compiled parser.
func WithParserOptions(opts ...parser.Option) Option {
	return func(c *Catalog) {
		c.parserOpts = opts
	}
}

// Catalog is safe for concurrent use.
type Catalog struct {
	dir        string
	cache      *lru.Cache[uint64, *Grammar]
	log        logrus.FieldLogger
	metrics    *metrics.Collector
	parserOpts []parser.Option

	readFile func(name string) ([]byte, error)

	mu          sync.Mutex
	files       map[string]uint64
	generations map[string]uint64
}

// New creates catalog for directory dir holding up to size compiled grammars.
func New(dir string, size int, opts ...Option) (*Catalog, error) {
	cache, e := lru.New[uint64, *Grammar](size)
	if e != nil {
		return nil, errors.Wrap(e, "failed to create grammar cache")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)
	c := &Catalog{
		dir:   dir,
		cache: cache,
		log:   discard,
		files:       make(map[string]uint64),
		generations: make(map[string]uint64),
		readFile:    os.ReadFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns catalog directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Names returns sorted names of all grammar files in catalog directory.
func (c *Catalog) Names() ([]string, error) {
	entries, e := os.ReadDir(c.dir)
	if e != nil {
		return nil, errors.Wrapf(e, "failed to list grammar directory %q", c.dir)
	}

	var names []string
	for _, entry := range entries {
		name, found := strings.CutSuffix(entry.Name(), Ext)
		if found && !entry.IsDir() && namePattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Get returns compiled grammar by name. The file is read on the first call and after Invalidate.
func (c *Catalog) Get(name string) (*Grammar, error) {
	if !namePattern.MatchString(name) {
		return nil, meta.FormatError(InvalidNameError, "invalid grammar name %q", name)
	}

	c.mu.Lock()
	key, known := c.files[name]
	generation := c.generations[name]
	c.mu.Unlock()
	if known {
		if g, hit := c.cache.Get(key); hit {
			c.metrics.RecordCacheLookup(true)
			return g, nil
		}
	}

	content, e := c.readFile(filepath.Join(c.dir, name+Ext))
	if errors.Is(e, os.ErrNotExist) {
		return nil, meta.FormatError(UnknownGrammarError, "unknown grammar %q", name)
	}
	if e != nil {
		return nil, errors.Wrapf(e, "failed to read grammar %q", name)
	}

	g, e := c.Compile(name, content)
	if e != nil {
		return nil, e
	}

	// file content is remembered only if the file was not invalidated while compiling
	c.mu.Lock()
	if c.generations[name] == generation {
		c.files[name] = xxhash.Sum64(content)
	}
	c.mu.Unlock()
	return g, nil
}

// Compile returns parser for grammar description content, compiling it unless it is cached.
func (c *Catalog) Compile(name string, content []byte) (*Grammar, error) {
	key := xxhash.Sum64(content)
	if g, hit := c.cache.Get(key); hit {
		c.metrics.RecordCacheLookup(true)
		if g.Name == name {
			return g, nil
		}
		return &Grammar{Name: name, Source: source.New(name+Ext, content), Parser: g.Parser}, nil
	}

	c.metrics.RecordCacheLookup(false)
	src := source.New(name+Ext, content)
	syntax, e := langdef.Parse(src)
	if e == nil {
		var p *parser.Parser
		p, e = parser.New(syntax, c.parserOpts...)
		if e == nil {
			c.metrics.RecordCompile(nil)
			g := &Grammar{Name: name, Source: src, Parser: p}
			c.cache.Add(key, g)
			c.log.WithFields(logrus.Fields{"grammar": name, "rules": syntax.Len()}).Debug("grammar compiled")
			return g, nil
		}
	}

	c.metrics.RecordCompile(e)
	c.log.WithField("grammar", name).WithError(e).Warn("grammar compilation failed")
	return nil, &CompileError{Name: name, Source: src, Err: e}
}

// Invalidate forgets file state of grammar name, the next Get rereads the file.
func (c *Catalog) Invalidate(name string) {
	c.mu.Lock()
	_, known := c.files[name]
	delete(c.files, name)
	c.generations[name]++
	c.mu.Unlock()

	if known {
		c.metrics.RecordReload()
		c.log.WithField("grammar", name).Info("grammar invalidated")
	}
}

// Watch invalidates grammars when their files change. Blocks until ctx is done.
// ready, if not nil, is closed once the watcher is set up.
func (c *Catalog) Watch(ctx context.Context, ready chan<- struct{}) error {
	w, e := fsnotify.NewWatcher()
	if e != nil {
		return errors.Wrap(e, "failed to create file watcher")
	}
	defer w.Close()

	if e = w.Add(c.dir); e != nil {
		return errors.Wrapf(e, "failed to watch grammar directory %q", c.dir)
	}

	c.log.WithField("dir", c.dir).Info("watching grammar directory")
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			name, found := strings.CutSuffix(filepath.Base(event.Name), Ext)
			if !found || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}

			c.Invalidate(name)

		case e, ok := <-w.Errors:
			if !ok {
				return nil
			}

			c.log.WithError(e).Error("file watcher error")
		}
	}
}
