package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/stateful/launchpad/internal/config"
	"github.com/stateful/launchpad/internal/config/autoconfig"
	"github.com/stateful/launchpad/pkg/session"
)

const stdoutPath = "-"

func buildCmd() *cobra.Command {
	var flags buildFlags

	cmd := cobra.Command{
		Use:   "build [script.yaml]",
		Short: "Build a page and write the export.",
		Long: `Build a page by loading an optional template and replaying an optional
script of intents, then write the clean page.

Blocks are filtered by the export filters from launchpad.yaml and by every
--where condition. Conditions are expressions over "id", "kind" and "fields".`,
		Example: `Export the startup template:
  launchpad build --preset startup

Replay a script and print Markdown without the contact form:
  launchpad build page.yaml --format markdown --output - --where "kind != 'contact'"
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return autoconfig.NewBuilder().Invoke(
				func(
					cfg *config.Config,
					sess *session.Session,
					logger *zap.Logger,
				) error {
					defer logger.Sync()

					if flags.preset != "" && !sess.LoadTemplate(flags.preset) {
						return errors.Errorf("unknown preset %q", flags.preset)
					}

					if len(args) > 0 {
						result, err := applyScript(sess, args[0])
						if err != nil {
							return err
						}
						logger.Info("applied script", zap.Int("applied", result.Applied), zap.Int("ignored", result.Ignored))
						if result.Ignored > 0 {
							_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d steps had no effect\n", result.Ignored, result.Applied+result.Ignored)
						}
					}

					format := flags.format
					if !cmd.Flags().Changed("format") {
						format = cfg.Export.Format
					}

					filters := slices.Clone(cfg.Export.Filters)
					for _, condition := range flags.where {
						filters = append(filters, &config.Filter{Condition: condition})
					}
					keep := config.BlockFilter(filters)

					var content []byte
					switch format {
					case config.FormatHTML:
						artifact, err := sess.ExportWhere(keep)
						if err != nil {
							return err
						}
						content = artifact.Content
					case config.FormatMarkdown:
						markdown, err := sess.MarkdownWhere(keep)
						if err != nil {
							return err
						}
						content = []byte(markdown)
					default:
						return errors.Errorf("invalid format: %s", format)
					}

					if flags.clipboard {
						if err := clipboard.WriteAll(string(content)); err != nil {
							return errors.Wrap(err, "failed to copy to clipboard")
						}
					}

					output := flags.output
					if output == "" {
						output = cfg.Export.Filename
						if format == config.FormatMarkdown {
							output = strings.TrimSuffix(output, filepath.Ext(output)) + ".md"
						}
					}

					if output == stdoutPath {
						_, err := cmd.OutOrStdout().Write(content)
						return errors.Wrap(err, "failed to write to stdout")
					}

					if err := os.WriteFile(output, content, 0o644); err != nil {
						return errors.Wrapf(err, "failed to write %s", output)
					}
					logger.Info("exported page", zap.String("path", output), zap.Int("bytes", len(content)))
					return nil
				},
			)
		},
	}

	flags.register(cmd.Flags())

	return &cmd
}

type buildFlags struct {
	preset    string
	output    string
	format    string
	where     []string
	clipboard bool
}

func (f *buildFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.preset, "preset", "", "Template to start from.")
	flags.StringVarP(&f.output, "output", "o", "", `Output file; "-" writes to stdout. Defaults to export.filename from the config.`)
	flags.StringVar(&f.format, "format", config.FormatHTML, "Output format (html, markdown)")
	flags.StringArrayVar(&f.where, "where", nil, "Keep only blocks matching the condition. Can be repeated.")
	flags.BoolVar(&f.clipboard, "clipboard", false, "Also copy the result to the clipboard.")
}

func applyScript(sess *session.Session, path string) (session.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Result{}, errors.Wrapf(err, "failed to read script %s", path)
	}

	script, err := session.ParseScript(data)
	if err != nil {
		return session.Result{}, errors.Wrapf(err, "invalid script %s", path)
	}

	return sess.Apply(script), nil
}
