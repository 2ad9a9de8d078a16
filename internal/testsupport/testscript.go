package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/taskmaster/task"
	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce      sync.Once
	taskmasterPath string
	buildErr       error
)

// BuildTaskmaster builds the taskmaster binary once and returns its path.
func BuildTaskmaster(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "taskmaster-bin-")
		if err != nil {
			buildErr = err
			return
		}

		taskmasterPath = filepath.Join(binDir, "taskmaster")
		cmd := exec.Command("go", "build", "-o", taskmasterPath, "./cmd/taskmaster")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build taskmaster: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return taskmasterPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TASKMASTER", BuildTaskmaster(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskStatus checks the status of a task printed as JSON.
func CmdTaskStatus(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: taskstatus FILE STATUS")
	}

	var current task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &current); err != nil {
		ts.Fatalf("parse task: %v", err)
	}

	matches := string(current.Status) == args[1]
	if matches == neg {
		ts.Fatalf("task status is %s", current.Status)
	}
}

// CmdTaskID stores the ID of a task printed as JSON in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: taskid FILE VAR")
	}

	var current task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &current); err != nil {
		ts.Fatalf("parse task: %v", err)
	}
	if current.ID == "" {
		ts.Fatalf("task has no id")
	}
	ts.Setenv(args[1], current.ID)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
