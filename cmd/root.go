package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/kebairia/wslsnap/internal/config"
	"github.com/kebairia/wslsnap/internal/logger"
	"github.com/kebairia/wslsnap/internal/menu"
	"github.com/kebairia/wslsnap/internal/operations"
	"github.com/kebairia/wslsnap/internal/spinner"
	"github.com/kebairia/wslsnap/internal/wsl"
)

// NewRootCmd returns the wslsnap command. It takes no arguments and goes
// straight into the interactive menu.
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wslsnap",
		Short: "Export and import compressed WSL distro snapshots",
		Long: `wslsnap lists the WSL distros registered on this machine, exports them
to gzip-compressed archives in a backup directory and imports those
archives back as new distros.

Environment:
  WSLSNAP_TOOL       management binary to run (default "wsl")
  WSLSNAP_CONFIG     config file (default ~/.wsl_snapshot_config.json)
  WSLSNAP_LOG_LEVEL  debug, info, warn or error (default "warn")`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// Execute runs the root command and exits non-zero if start-up fails.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	rt, err := config.LoadRuntime()
	if err != nil {
		return errors.Wrap(err, "read environment")
	}

	log, err := logger.Init(rt.LogLevel)
	if err != nil {
		return errors.Wrap(err, "logger init failed")
	}
	defer logger.Cleanup()

	cfg, err := config.Load(rt.ConfigPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	client := wsl.NewClient(
		wsl.WithTool(rt.Tool),
		wsl.WithRunner(wsl.ExecRunner{Echo: errOut}),
		wsl.WithLogger(log),
	)
	log.Debug("config loaded", "path", rt.ConfigPath, "backup_dir", cfg.BackupDir, "tool", client.Tool())

	om := operations.NewOperationManager(client,
		operations.WithLogger(log),
		operations.WithProgress(func() operations.Indicator { return spinner.Start(out) }),
	)

	return menu.New(in, out, om, cfg, rt.ConfigPath, log).Run(ctx)
}
