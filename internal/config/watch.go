package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration when either config file changes.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	targets map[string]bool
}

// Watch starts watching the global config file and the project file in dir.
// Directories that do not exist are skipped.
func Watch(dir string) (*Watcher, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}
	projectPath := filepath.Join(dir, FileName)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	for _, watched := range []string{filepath.Dir(globalPath), dir} {
		if err := watcher.Add(watched); err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", watched, err)
		}
	}

	return &Watcher{
		dir:     dir,
		watcher: watcher,
		targets: map[string]bool{
			filepath.Clean(globalPath):  true,
			filepath.Clean(projectPath): true,
		},
	}, nil
}

// Run calls onChange with the reloaded configuration, or the load error,
// after every change to a config file. It returns when ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(*Config, error)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			onChange(Load(w.dir))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watch config: %w", err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
