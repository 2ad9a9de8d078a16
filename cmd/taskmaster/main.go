// Package main implements the taskmaster CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/amonks/taskmaster/internal/config"
	"github.com/amonks/taskmaster/internal/paths"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "taskmaster",
	Short:         "TaskMaster - book an errand and watch it happen",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// loadConfig loads the merged configuration for the current directory.
func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	return e.code
}

func newExitError(code int, format string, args ...any) error {
	return exitError{code: code, err: fmt.Errorf(format, args...)}
}
