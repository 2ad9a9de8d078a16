package main

import (
	"errors"
	"testing"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "taskmaster" {
		t.Fatalf("expected root command name taskmaster, got %q", rootCmd.Use)
	}
}

func TestExitErrorCarriesCode(t *testing.T) {
	err := newExitError(2, "task %s", "cancelled")
	var exitErr interface{ ExitCode() int }
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
	if err.Error() != "task cancelled" {
		t.Fatalf("expected message, got %q", err.Error())
	}
}
