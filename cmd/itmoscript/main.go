// Command itmoscript runs a single ITMOScript source file to
// completion and exits 0 on success or 1 on any failure: a missing
// file, a wrong extension, or a scan/parse/runtime error.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nikitos212/itmoscript/interp"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "itmoscript <path>.is",
		Short:         "Run an ITMOScript program",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], cmd.OutOrStdout(), log)
		},
	}
	return cmd
}

func run(path string, out io.Writer, log *logrus.Logger) error {
	if filepath.Ext(path) != ".is" {
		log.WithField("path", path).Error("input file must end in .is")
		return fmt.Errorf("itmoscript: %s: input file must end in .is", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("cannot read source file")
		return fmt.Errorf("itmoscript: %w", err)
	}
	it := interp.New(interp.Options{Stdout: out, Logger: log})
	if _, err := it.Eval(string(src)); err != nil {
		return fmt.Errorf("itmoscript: execution failed")
	}
	return nil
}
