package main

import (
	"testing"

	"github.com/amonks/taskmaster/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestRosterScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/roster",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
	})
}
