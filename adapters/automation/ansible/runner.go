// Package ansible runs provisioning playbooks with ansible-playbook.
package ansible

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/logging"
	"github.com/yaegashi/octops/internal/terminal"
)

const defaultBinary = "ansible-playbook"

// Options configures a Runner.
type Options struct {
	Binary      string // ansible-playbook executable, looked up in PATH
	PlaybookDir string // root of the playbook tree
	Inventory   string // inventory passed with -i, optional
	Stdout      io.Writer
	Stderr      io.Writer
	Env         []string // extra environment entries
}

// Runner is an AutomationPort backed by the ansible-playbook CLI.
type Runner struct {
	opts Options
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Binary == "" {
		opts.Binary = defaultBinary
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Runner{opts: opts}
}

// PlaybookPath resolves a playbook reference such as "provision/vagrant-up".
func (r *Runner) PlaybookPath(playbook string) string {
	p := filepath.FromSlash(playbook)
	if !strings.HasSuffix(p, ".yml") && !strings.HasSuffix(p, ".yaml") {
		p += ".yml"
	}
	return filepath.Join(r.opts.PlaybookDir, p)
}

// Args returns the ansible-playbook arguments for one run.
func (r *Runner) Args(playbookPath, varsFile string, opts model.RunOptions) []string {
	args := []string{playbookPath}
	if r.opts.Inventory != "" {
		args = append(args, "-i", r.opts.Inventory)
	}
	if varsFile != "" {
		args = append(args, "--extra-vars", "@"+varsFile)
	}
	if opts.Verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", min(opts.Verbosity, 5)))
	}
	if opts.DryRun {
		args = append(args, "--check")
	}
	return args
}

// Environ returns the child process environment for one run.
func (r *Runner) Environ(opts model.RunOptions) []string {
	env := append(os.Environ(), r.opts.Env...)
	env = append(env, terminal.ColorEnv(r.opts.Stdout, "ANSIBLE_FORCE_COLOR")...)
	if opts.Debug {
		env = append(env, "ANSIBLE_STRATEGY=debug")
	}
	return env
}

// Run executes playbook with vars as extra variables.
func (r *Runner) Run(ctx context.Context, playbook string, vars model.ParameterSet, opts model.RunOptions) error {
	logger := logging.FromContext(ctx)
	op := "ansible-playbook " + playbook

	path := r.PlaybookPath(playbook)
	if _, err := os.Stat(path); err != nil {
		return &model.ExternalError{Op: op, Err: fmt.Errorf("playbook not found: %w", err)}
	}

	varsFile, cleanup, err := writeVarsFile(vars)
	if err != nil {
		return &model.ExternalError{Op: op, Err: err}
	}
	defer cleanup()

	args := r.Args(path, varsFile, opts)
	logger.Info(ctx, "running playbook", "playbook", playbook, "check", opts.DryRun)
	logger.Debug(ctx, "exec", "cmd", r.opts.Binary, "args", args)

	cmd := exec.CommandContext(ctx, r.opts.Binary, args...)
	cmd.Env = r.Environ(opts)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.opts.Stdout
	cmd.Stderr = r.opts.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return &model.ExternalError{Op: op, ExitCode: exitErr.ExitCode(), Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &model.ExternalError{Op: op, Err: ctxErr}
		}
		return &model.ExternalError{Op: op, Err: err}
	}
	return nil
}

func writeVarsFile(vars model.ParameterSet) (string, func(), error) {
	b, err := json.Marshal(vars)
	if err != nil {
		return "", nil, fmt.Errorf("encode extra vars: %w", err)
	}
	f, err := os.CreateTemp("", "octops-vars-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("create extra vars file: %w", err)
	}
	name := f.Name()
	cleanup := func() { _ = os.Remove(name) }
	if _, err := f.Write(b); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write extra vars file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return name, cleanup, nil
}

var _ model.AutomationPort = (*Runner)(nil)
