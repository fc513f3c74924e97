// Package repos runs operations against the locally cloned repositories.
package repos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/config"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/shell"
)

var (
	// ErrMissingArg is returned when a required argument is empty.
	ErrMissingArg = errors.New("missing arg")
	// ErrNotCloned is returned when a repository has no local directory.
	ErrNotCloned = errors.New("repository not cloned")
	// ErrCommandFailed is returned when a command exits non-zero.
	ErrCommandFailed = errors.New("command failed")
)

// Runner executes a shell command.
type Runner interface {
	Execute(ctx context.Context, command string) (shell.Output, error)
}

// Manager runs commands in repositories under Settings.Directory.
type Manager struct {
	Settings *config.Settings
	Fs       afero.Fs
	// NewRunner returns a Runner working in dir.
	NewRunner func(dir string) Runner
	Logger    *log.Logger
}

// New creates a Manager that runs commands through the embedded shell.
func New(settings *config.Settings, fsys afero.Fs, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		Settings: settings,
		Fs:       fsys,
		NewRunner: func(dir string) Runner {
			return shell.New(dir, logger)
		},
		Logger: logger,
	}
}

// Result is the outcome of running a command in one repository.
type Result struct {
	Repository string
	Output     shell.Output
	Err        error
}

// Path returns the local directory of repository.
func (m *Manager) Path(repository string) string {
	return filepath.Join(m.Settings.Directory, repository)
}

// Exists reports whether repository has been cloned locally.
func (m *Manager) Exists(repository string) bool {
	if repository == "" {
		return false
	}
	ok, err := afero.DirExists(m.Fs, m.Path(repository))
	return err == nil && ok
}

// Exec runs command inside repository.
func (m *Manager) Exec(ctx context.Context, repository, command string) (shell.Output, error) {
	if err := requireArgs("repository", repository, "command", command); err != nil {
		return shell.Output{}, err
	}
	if !m.Exists(repository) {
		return shell.Output{}, fmt.Errorf("%w: %s", ErrNotCloned, repository)
	}
	out, err := m.NewRunner(m.Path(repository)).Execute(ctx, command)
	if err != nil {
		return out, fmt.Errorf("%s: %w", repository, err)
	}
	if out.Code != 0 {
		return out, fmt.Errorf("%w: %s exited with code %d", ErrCommandFailed, repository, out.Code)
	}
	return out, nil
}

// ExecAll runs command in every configured repository, in order. Each
// repository's failure is recorded in its Result and does not stop the rest.
// Only cancellation of ctx ends the run early.
func (m *Manager) ExecAll(ctx context.Context, command string) ([]Result, error) {
	if err := requireArgs("command", command); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(m.Settings.Repositories))
	for _, repo := range m.Settings.Repositories {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		out, err := m.Exec(ctx, repo, command)
		if err != nil {
			m.Logger.Warn("command failed", "repository", repo, "err", err)
		}
		results = append(results, Result{Repository: repo, Output: out, Err: err})
	}
	return results, nil
}

// Clone clones repository into Settings.Directory from fork, or from the
// configured organization when fork is empty.
func (m *Manager) Clone(ctx context.Context, repository, fork string) (shell.Output, error) {
	if err := requireArgs("repository", repository); err != nil {
		return shell.Output{}, err
	}
	owner := fork
	if owner == "" {
		owner = m.Settings.Organization
	}

	command := fmt.Sprintf("git clone https://github.com/%s/%s", owner, repository)
	m.Logger.Info("cloning", "repository", repository, "owner", owner)

	out, err := m.NewRunner(m.Settings.Directory).Execute(ctx, command)
	if err != nil {
		return out, fmt.Errorf("cloning %s: %w", repository, err)
	}
	if out.Code != 0 {
		return out, fmt.Errorf("%w: git clone exited with code %d", ErrCommandFailed, out.Code)
	}
	return out, nil
}

// requireArgs takes name/value pairs and reports every empty value.
func requireArgs(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w %s", ErrMissingArg, missing[0])
	default:
		return fmt.Errorf("%ws %s", ErrMissingArg, strings.Join(missing, " "))
	}
}
