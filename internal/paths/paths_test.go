package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigDirUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := DefaultConfigDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := filepath.Join(home, ".config", "taskmaster"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDefaultEventsDirUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := DefaultEventsDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := filepath.Join(home, ".local", "state", "taskmaster", "events"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestWorkingDirReturnsCurrentDir(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	resolved, err := WorkingDir()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want, _ := filepath.EvalSymlinks(workDir)
	got, _ := filepath.EvalSymlinks(resolved)
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveWithDefault(t *testing.T) {
	t.Run("returns override when provided", func(t *testing.T) {
		result, err := ResolveWithDefault("/custom/path", DefaultEventsDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != "/custom/path" {
			t.Fatalf("expected /custom/path, got %s", result)
		}
	})

	t.Run("propagates error from default function", func(t *testing.T) {
		errorFn := func() (string, error) {
			return "", os.ErrNotExist
		}

		if _, err := ResolveWithDefault("", errorFn); err != os.ErrNotExist {
			t.Fatalf("expected os.ErrNotExist, got %v", err)
		}
	})
}
