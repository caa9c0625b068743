// Package workspace lays out a fraudlens project directory and, optionally,
// versions it with git so report history can be committed run by run.
package workspace

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/fraudlens/internal/config"
)

// Directories created by Init, relative to the project root.
const (
	DataDir    = "data"
	ReportsDir = "reports"
)

// HistoryFile is the default report history path, relative to the project root.
var HistoryFile = filepath.Join(ReportsDir, "history.csv")

const gitignore = "*.tmp\n.DS_Store\n"

// Options controls Init.
type Options struct {
	Git         bool
	AuthorName  string
	AuthorEmail string
	Out         io.Writer // git output; nil discards it
}

// Init creates the project layout and a default fraudlens.yaml in dir.
// An existing config file is left untouched. With opts.Git the directory
// is initialized as a repository and the layout committed; the returned
// string is the short commit hash.
func Init(dir string, opts Options) (string, error) {
	for _, d := range []string{DataDir, ReportsDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), nil, 0o644); err != nil {
			return "", fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.Default()
		cfg.Dataset.DefaultPath = filepath.Join(DataDir, cfg.Dataset.DefaultPath)
		if err := config.Save(cfgPath, cfg); err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	if !opts.Git {
		return "", nil
	}
	if !IsRepo(dir) {
		if err := gitInit(dir, opts.Out); err != nil {
			return "", err
		}
	}
	return Commit(dir, "init: fraudlens workspace", opts.AuthorName, opts.AuthorEmail)
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func gitInit(dir string, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// Commit stages everything in dir and commits it with the given identity,
// returning the short hash. The identity is passed per command so a machine
// without a global git identity can still commit.
func Commit(dir, message, name, email string) (string, error) {
	if name == "" {
		name = "fraudlens"
	}
	if email == "" {
		email = "fraudlens@localhost"
	}
	identity := []string{"-c", "user.name=" + name, "-c", "user.email=" + email}

	if out, err := git(dir, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}
	args := append(identity, "commit", "--allow-empty", "-m", message)
	if out, err := git(dir, args...); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}
	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}
