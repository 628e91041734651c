package cmd

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stateful/launchpad/internal/config/autoconfig"
	"github.com/stateful/launchpad/pkg/block"
)

type blockKindJSON struct {
	Kind   string        `json:"kind"`
	Label  string        `json:"label"`
	Fields []block.Field `json:"fields"`
}

func blocksCmd() *cobra.Command {
	var format string

	cmd := cobra.Command{
		Use:     "blocks [pattern1 pattern2 ...]",
		Aliases: []string{"ls"},
		Short:   "List block kinds.",
		Long: `List block kinds and their fields by optionally providing patterns delimited by space.
The patterns are interpreted as glob patterns matched against kinds.`,
		Example: `List all blocks:
  launchpad blocks

List blocks whose kind starts with "c":
  launchpad blocks "c*"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return autoconfig.NewBuilder().Invoke(func(registry *block.Registry) error {
				globs, err := parseGlobs(args)
				if err != nil {
					return err
				}

				var templates []*block.Template
				for _, kind := range registry.Kinds() {
					if !matchAny(globs, kind) {
						continue
					}
					tmpl, err := registry.Resolve(kind)
					if err != nil {
						return err
					}
					templates = append(templates, tmpl)
				}

				switch format {
				case "json":
					return renderBlocksAsJSON(cmd, templates)
				case "table":
					return renderBlocksAsTable(cmd, templates)
				default:
					return errors.Errorf("invalid format: %s", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json)")

	return &cmd
}

func renderBlocksAsTable(cmd *cobra.Command, templates []*block.Template) error {
	table := newTable(cmd.OutOrStdout(), "KIND", "LABEL", "FIELDS")

	for _, tmpl := range templates {
		var names []string
		for _, f := range tmpl.Fields() {
			names = append(names, f.Name)
		}
		table.AddField(tmpl.Kind())
		table.AddField(tmpl.Label())
		table.AddField(strings.Join(names, ", "))
		table.EndRow()
	}

	return errors.Wrap(table.Render(), "failed to render")
}

func renderBlocksAsJSON(cmd *cobra.Command, templates []*block.Template) error {
	items := make([]blockKindJSON, 0, len(templates))
	for _, tmpl := range templates {
		items = append(items, blockKindJSON{
			Kind:   tmpl.Kind(),
			Label:  tmpl.Label(),
			Fields: tmpl.Fields(),
		})
	}

	data, err := json.Marshal(items)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.Wrap(
		jsonpretty.Format(cmd.OutOrStdout(), bytes.NewReader(data), "  ", isTerminal(cmd.OutOrStdout())),
		"failed to format json",
	)
}

func parseGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, item := range patterns {
		g, err := glob.Compile(item)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", item)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, s string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
