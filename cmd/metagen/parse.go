package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/config"
	"github.com/ava12/meta/internal/output"
	"github.com/ava12/meta/internal/queue"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/source"
)

type parseFlags struct {
	grammarFile string
	format      string
	concurrency int
	ext         string
	trace       bool
	stats       bool
}

type parseResult struct {
	src      *source.Source
	events   []meta.Event
	err      error
	duration time.Duration
}

func (a *app) parseCmd() *cobra.Command {
	flags := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse -g <grammar> [<file or dir>...]",
		Short: "Parse documents and print events",
		Long: `Parse documents with a grammar and print resulting events.

Documents are read from files listed in arguments, directories are searched recursively
for files with given extension. Standard input is parsed if no arguments are given.
Documents are parsed concurrently, results are printed in argument order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.parse(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.grammarFile, "grammar", "g", "", "grammar description file")
	f.StringVarP(&flags.format, "format", "f", "", "output format: text, json, yaml, tree (default from configuration)")
	f.IntVarP(&flags.concurrency, "jobs", "j", 0, "number of documents parsed at once (default from configuration)")
	f.StringVar(&flags.ext, "ext", ".txt", "extension of files searched in directories")
	f.BoolVar(&flags.trace, "trace", false, "log every rule evaluation at trace level")
	f.BoolVar(&flags.stats, "stats", false, "print summary to the error stream")
	_ = cmd.MarkFlagRequired("grammar")
	return cmd
}

// collectFiles expands directories breadth first, files keep argument order.
func collectFiles(args []string, ext string) ([]string, error) {
	var files []string
	dirs := queue.New[string]()
	for _, arg := range args {
		info, e := os.Stat(arg)
		if e != nil {
			return nil, errors.Wrapf(e, "cannot read %q", arg)
		}
		if info.IsDir() {
			dirs.Append(arg)
		} else {
			files = append(files, arg)
		}
	}

	for dir, ok := dirs.Pop(); ok; dir, ok = dirs.Pop() {
		entries, e := os.ReadDir(dir)
		if e != nil {
			return nil, errors.Wrapf(e, "cannot read directory %q", dir)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch {
			case entry.IsDir():
				dirs.Append(path)
			case entry.Type()&fs.ModeType == 0 && strings.HasSuffix(entry.Name(), ext):
				files = append(files, path)
			}
		}
	}
	return files, nil
}

func (a *app) parse(cmd *cobra.Command, flags *parseFlags, args []string) error {
	format := a.cfg.Parse.Format
	if flags.format != "" {
		format = flags.format
	}
	concurrency := a.cfg.Parse.Concurrency
	if flags.concurrency > 0 {
		concurrency = flags.concurrency
	}

	syntax, e := a.loadGrammar(cmd, flags.grammarFile)
	if e != nil {
		return e
	}

	opts := []parser.Option{parser.WithMaxDepth(a.cfg.Parse.MaxDepth)}
	if flags.trace {
		a.log.SetLevel(logrus.TraceLevel)
		opts = append(opts, parser.WithTrace(a.log))
	}
	p, e := parser.New(syntax, opts...)
	if e != nil {
		return e
	}

	var sources []*source.Source
	if len(args) == 0 {
		content, e := io.ReadAll(cmd.InOrStdin())
		if e != nil {
			return errors.Wrap(e, "failed to read standard input")
		}
		sources = append(sources, source.New("<stdin>", content))
	} else {
		files, e := collectFiles(args, flags.ext)
		if e != nil {
			return e
		}
		for _, file := range files {
			content, e := os.ReadFile(file)
			if e != nil {
				return errors.Wrapf(e, "failed to read %q", file)
			}
			sources = append(sources, source.New(file, content))
		}
	}

	started := time.Now()
	results := make([]parseResult, len(sources))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, src := range sources {
		g.Go(func() error {
			t := time.Now()
			events, e := p.Parse(src)
			results[i] = parseResult{src: src, events: events, err: e, duration: time.Since(t)}
			return nil
		})
	}
	_ = g.Wait()

	return a.printResults(cmd, format, flags.stats, results, time.Since(started))
}

func (a *app) printResults(cmd *cobra.Command, format string, stats bool, results []parseResult, elapsed time.Duration) error {
	out := cmd.OutOrStdout()
	failed, size, events := 0, 0, 0
	for i, r := range results {
		size += len(r.src.Text())
		if r.err != nil {
			failed++
			_ = a.reporter(r.src).Write(cmd.ErrOrStderr(), r.err)
			a.log.WithFields(logrus.Fields{"file": r.src.Name(), "duration": r.duration}).Debug("document failed")
			continue
		}

		events += len(r.events)
		a.log.WithFields(logrus.Fields{"file": r.src.Name(), "events": len(r.events), "duration": r.duration}).Debug("document parsed")

		buf := &bytes.Buffer{}
		if len(results) > 1 {
			switch format {
			case config.FormatText, config.FormatTree:
				fmt.Fprintf(buf, "# %s\n", r.src.Name())
			case config.FormatYAML:
				if i > 0 {
					buf.WriteString("---\n")
				}
			}
		}
		if e := output.Write(buf, format, r.events); e != nil {
			return e
		}
		if _, e := out.Write(buf.Bytes()); e != nil {
			return e
		}
	}

	if stats {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d documents parsed, %s, %s events in %s\n",
			len(results)-failed, len(results), humanize.Bytes(uint64(size)), humanize.Comma(int64(events)), elapsed.Round(time.Millisecond))
	}

	if failed > 0 {
		return errReported
	}
	return nil
}
