package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/meta/internal/catalog"
	"github.com/ava12/meta/internal/metrics"
	"github.com/ava12/meta/internal/server"
	"github.com/ava12/meta/parser"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	grammarDir string
	addr       string
}

func (a *app) serveCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve grammars from a directory over HTTP",
		Long: `Serve grammars from a directory over HTTP.

A grammar named <name> is read from <dir>/<name>.meta and applied with
	POST /parse/<name>
Changed grammar files are reloaded unless server.no_watch is set in configuration.
Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.grammarDir != "" {
				a.cfg.Server.GrammarDir = flags.grammarDir
			}
			if flags.addr != "" {
				a.cfg.Server.Addr = flags.addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&flags.grammarDir, "grammars", "g", "", "grammar directory (default from configuration)")
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from configuration)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	sc := a.cfg.Server
	m := metrics.New(nil)
	c, e := catalog.New(sc.GrammarDir, sc.CacheSize,
		catalog.WithLogger(a.log),
		catalog.WithMetrics(m),
		catalog.WithParserOptions(parser.WithMaxDepth(a.cfg.Parse.MaxDepth)),
	)
	if e != nil {
		return e
	}

	httpServer := &http.Server{
		Addr:        sc.Addr,
		Handler:     server.New(c, m, a.log, sc.MaxBodySize),
		ReadTimeout: sc.ReadTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", sc.Addr).Info("listening")
		if e := httpServer.ListenAndServe(); !errors.Is(e, http.ErrServerClosed) {
			return errors.Wrap(e, "server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if !sc.NoWatch {
		g.Go(func() error {
			return c.Watch(ctx, nil)
		})
	}

	return g.Wait()
}
