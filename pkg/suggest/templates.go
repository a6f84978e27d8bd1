package suggest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/papercomputeco/wayfarer/pkg/chain"
	"github.com/papercomputeco/wayfarer/pkg/logger"
)

// TemplateExt is the extension of template override files.
const TemplateExt = ".tmpl"

// TemplateSet holds prompt template overrides read from <name>.tmpl files
// in a directory.
type TemplateSet struct {
	dir    string
	logger *slog.Logger

	mu        sync.RWMutex
	overrides map[string]*chain.Template
}

// NewTemplateSet loads the overrides in dir. An empty or missing dir
// yields an empty set.
func NewTemplateSet(dir string, l *slog.Logger) (*TemplateSet, error) {
	if l == nil {
		l = logger.Nop()
	}
	ts := &TemplateSet{
		dir:       dir,
		logger:    l,
		overrides: map[string]*chain.Template{},
	}
	if err := ts.Reload(); err != nil {
		return nil, err
	}
	return ts, nil
}

// Lookup returns the override for name.
func (ts *TemplateSet) Lookup(name string) (*chain.Template, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.overrides[name]
	return t, ok
}

// Names returns the names that currently have an override.
func (ts *TemplateSet) Names() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	names := make([]string, 0, len(ts.overrides))
	for n := range ts.overrides {
		names = append(names, n)
	}
	return names
}

// Reload re-reads the override directory.
func (ts *TemplateSet) Reload() error {
	overrides := map[string]*chain.Template{}

	if ts.dir != "" {
		entries, err := os.ReadDir(ts.dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("reading templates dir: %w", err)
		default:
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != TemplateExt {
					continue
				}
				data, err := os.ReadFile(filepath.Join(ts.dir, e.Name()))
				if err != nil {
					return fmt.Errorf("reading template %s: %w", e.Name(), err)
				}
				overrides[strings.TrimSuffix(e.Name(), TemplateExt)] = chain.NewTemplate(string(data))
			}
		}
	}

	ts.mu.Lock()
	ts.overrides = overrides
	ts.mu.Unlock()

	ts.logger.Debug("loaded prompt templates", "dir", ts.dir, "overrides", len(overrides))
	return nil
}

// Watch reloads the set whenever a template file changes. It blocks
// until ctx is done. A missing dir is not watched.
func (ts *TemplateSet) Watch(ctx context.Context) error {
	if ts.dir == "" {
		return nil
	}
	if _, err := os.Stat(ts.dir); errors.Is(err, fs.ErrNotExist) {
		ts.logger.Debug("templates dir does not exist, not watching", "dir", ts.dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating template watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ts.dir); err != nil {
		return fmt.Errorf("watching templates dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != TemplateExt {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := ts.Reload(); err != nil {
				ts.logger.Error("reloading prompt templates", "error", err)
				continue
			}
			ts.logger.Info("prompt templates reloaded", "file", filepath.Base(event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("template watcher error: %w", err)
		}
	}
}
