package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stateful/launchpad/internal/config/autoconfig"
	"github.com/stateful/launchpad/pkg/block"
)

func presetsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "presets",
		Short: "List page templates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return autoconfig.NewBuilder().Invoke(func(registry *block.Registry) error {
				table := newTable(cmd.OutOrStdout(), "NAME", "BLOCKS")

				for _, name := range registry.Presets() {
					kinds, err := registry.ExpandPreset(name)
					if err != nil {
						return err
					}
					table.AddField(name)
					table.AddField(strings.Join(kinds, ", "))
					table.EndRow()
				}

				return errors.Wrap(table.Render(), "failed to render")
			})
		},
	}

	return &cmd
}
