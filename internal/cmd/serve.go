package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stateful/launchpad/internal/config"
	"github.com/stateful/launchpad/internal/config/autoconfig"
	"github.com/stateful/launchpad/internal/server"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var (
		address string
		open    bool
	)

	cmd := cobra.Command{
		Use:   "serve",
		Short: "Run the editor in the browser.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := autoconfig.NewBuilder()

			if address != "" {
				err := builder.Decorate(func(c *config.Config) *config.Config {
					c.Server.Address = address
					return c
				})
				if err != nil {
					return err
				}
			}

			return builder.Invoke(func(s *server.Server, logger *zap.Logger) error {
				defer logger.Sync()

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				g, ctx := errgroup.WithContext(ctx)

				g.Go(s.Serve)

				g.Go(func() error {
					<-ctx.Done()

					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					return s.Shutdown(shutdownCtx)
				})

				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Editor running at %s\n", s.URL())

				if open {
					if err := browser.OpenURL(s.URL()); err != nil {
						logger.Info("failed to open browser", zap.Error(err))
					}
				}

				return g.Wait()
			})
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Address to listen on. Defaults to server.address from the config.")
	cmd.Flags().BoolVar(&open, "open", false, "Open the editor in the default browser.")

	return &cmd
}
