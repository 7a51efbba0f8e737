package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Compile grammar descriptions and report errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				syntax, e := a.loadGrammar(cmd, path)
				if e != nil {
					failed = true
					if !errors.Is(e, errReported) {
						_ = a.reporter(nil).Write(cmd.ErrOrStderr(), e)
					}
					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d rules, root %q\n", path, syntax.Len(), syntax.Name(syntax.Len()-1))
			}

			if failed {
				return errReported
			}
			return nil
		},
	}
}
