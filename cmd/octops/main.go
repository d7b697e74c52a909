package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/config/octcfg"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/logging"
	"github.com/yaegashi/octops/internal/metrics"
	"github.com/yaegashi/octops/internal/terminal"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// ExitCodeError propagates a specific process exit code without being
// reported as a command failure.
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// envOr returns the environment variable key or def when it is unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "octops",
		Short:   "Provision CI hosts with Vagrant, Duffy or remote machines",
		Long:    "octops provisions and tears down hosts for CI workloads and keeps an Ansible inventory of them.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	dir := octcfg.ResolveDir("")
	pf := cmd.PersistentFlags()
	pf.String("config", octcfg.DefaultConfigPath(dir), "Path to config.yml (env OCTOPS_CONFIG)")
	pf.String("db-url", envOr("OCTOPS_DB_URL", octcfg.DefaultDBURL(dir)), "State store URL (env OCTOPS_DB_URL) (file:/path/state.yml | sqlite:/path/to.db | mem:)")
	pf.String("log-format", envOr("OCTOPS_LOG_FORMAT", "human"), "Log format (human|text|json) (env OCTOPS_LOG_FORMAT)")
	pf.String("log-level", envOr("OCTOPS_LOG_LEVEL", "INFO"), "Log level (DEBUG|INFO|WARN|ERROR) (env OCTOPS_LOG_LEVEL)")
	pf.String("metrics-textfile", os.Getenv("OCTOPS_METRICS_TEXTFILE"), "Write command metrics in Prometheus textfile format on exit (env OCTOPS_METRICS_TEXTFILE)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		level, _ := c.Flags().GetString("log-level")

		opts := logging.Options{Format: format, Level: level}
		// The log file settings come from config.yml; a broken config is
		// reported by the command itself.
		if cfg, err := loadConfig(c); err == nil {
			opts.Dir = cfg.Logging.Dir
			opts.RetentionDays = cfg.Logging.RetentionDays
		}
		l, lf, err := logging.Setup(opts, c.ErrOrStderr())
		if err != nil {
			return err
		}
		l = l.With("runId", uuid.NewString())

		ctx := logging.WithLogger(c.Context(), l)
		ctx = withLogFile(ctx, lf)
		ctx = withRecorder(ctx, metrics.NewRecorder())
		c.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdProvision())
	cmd.AddCommand(newCmdInventory())
	return cmd
}

// exitCode maps a command error to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ece ExitCodeError
	if errors.As(err, &ece) {
		return ece.Code
	}
	var ue *model.UsageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitError
}

// run executes the root command with args and returns the exit status.
func run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	root.SetContext(ctx)
	executed, err := root.ExecuteC()

	ctx = root.Context()
	if executed != nil && executed.Context() != nil {
		ctx = executed.Context()
	}
	if err != nil {
		var ece ExitCodeError
		if !errors.As(err, &ece) {
			logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		}
	}
	if executed != nil {
		if path := flagString(executed, "metrics-textfile"); path != "" {
			if werr := recorderFrom(ctx).WriteTextfile(path); werr != nil {
				logging.FromContext(ctx).Warn(ctx, "failed to write metrics textfile", "path", path, "error", werr)
			}
		}
	}
	_ = logFileFrom(ctx).Close()
	return exitCode(err)
}

func main() {
	ctx, stop := terminal.NotifyContext(context.Background())
	code := run(ctx, newRootCmd(), os.Args[1:])
	stop()
	os.Exit(code)
}
