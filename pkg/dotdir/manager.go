// Package dotdir resolves the .wayfarer/ directory that holds config.toml,
// the SQLite database and prompt template overrides.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the wayfarer directory.
	DirName = ".wayfarer"

	// PromptsDirName is the sub-directory scanned for prompt template overrides.
	PromptsDirName = "prompts"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to a .wayfarer/ directory, creating it if needed.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.wayfarer/ dir
//  3. Home ~/.wayfarer/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, DirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, DirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating wayfarer directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// PromptsDir returns <target>/prompts without creating it. Template overrides
// are optional, so a missing directory is not an error for callers.
func (m *Manager) PromptsDir(overrideDir string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(target, PromptsDirName), nil
}

func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, DirName))
	return err == nil && info.IsDir()
}
