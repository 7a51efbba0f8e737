package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ava12/meta/grammar"
	"github.com/ava12/meta/internal/config"
	"github.com/ava12/meta/langdef"
	"github.com/ava12/meta/report"
	"github.com/ava12/meta/source"
)

type app struct {
	configPath string
	logLevel   string
	color      string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "metagen",
		Short:         "Check, translate, and apply meta grammar descriptions",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: error, warn, info, debug, trace")
	flags.StringVar(&a.color, "color", "", "colored diagnostics: auto, always, never")

	root.AddCommand(a.checkCmd(), a.genCmd(), a.parseCmd(), a.serveCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, e := config.Load(a.configPath)
	if e != nil {
		return e
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.color != "" {
		cfg.Color = a.color
	}
	if e = cfg.Validate(); e != nil {
		return e
	}

	a.cfg = cfg
	a.log = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

func (a *app) reporter(src *source.Source) *report.Handler {
	return report.New(src, report.WithColor(a.cfg.UseColor()))
}

// loadGrammar compiles grammar description file.
// Diagnostics are printed to the command error stream and errReported is returned.
func (a *app) loadGrammar(cmd *cobra.Command, path string) (*grammar.Syntax, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, errors.Wrapf(e, "failed to read grammar %q", path)
	}

	src := source.New(path, content)
	syntax, e := langdef.Parse(src)
	if e != nil {
		_ = a.reporter(src).Write(cmd.ErrOrStderr(), e)
		return nil, errReported
	}

	a.log.WithFields(logrus.Fields{"grammar": path, "rules": syntax.Len()}).Debug("grammar compiled")
	return syntax, nil
}
