package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stateful/launchpad/internal/log"
)

var (
	fChdir string
	fDebug bool
)

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "launchpad",
		Short:         "Build landing pages from reusable blocks",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if fDebug {
				log.Set(true)
			}
			if fChdir != "" && fChdir != "." {
				return errors.Wrap(os.Chdir(fChdir), "failed to change working directory")
			}
			return nil
		},
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVar(&fChdir, "chdir", ".", "Switch to a different working directory before executing the command.")
	pflags.BoolVar(&fDebug, "debug", false, "Log debug messages to stderr when logging is not configured.")
	_ = pflags.MarkHidden("debug")

	cmd.AddCommand(blocksCmd())
	cmd.AddCommand(presetsCmd())
	cmd.AddCommand(buildCmd())
	cmd.AddCommand(serveCmd())

	return &cmd
}
