// autoconfig provides a way to create various instances from the [config.Config] like
// [session.Session], [render.Renderer], [server.Server], [zap.Logger].
//
// For example, to instantiate [session.Session], you can write:
//
//	autoconfig.NewBuilder().Invoke(func(s *session.Session) error {
//	    ...
//	})
//
// Treat it as a dependency injection mechanism.
package autoconfig

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/stateful/launchpad/internal/config"
	"github.com/stateful/launchpad/internal/log"
	"github.com/stateful/launchpad/internal/server"
	"github.com/stateful/launchpad/pkg/block"
	"github.com/stateful/launchpad/pkg/document"
	"github.com/stateful/launchpad/pkg/render"
	"github.com/stateful/launchpad/pkg/session"
)

const (
	configName = "launchpad"
	configType = "yaml"
)

// BlockFilter keeps the blocks passing every configured export filter.
type BlockFilter func(document.Block) (bool, error)

type Builder struct {
	container *dig.Container
}

func NewBuilder() *Builder {
	b := &Builder{container: dig.New()}

	mustProvide(b.container.Provide(getLoader))
	mustProvide(b.container.Provide(getConfig))
	mustProvide(b.container.Provide(getLogger))
	mustProvide(b.container.Provide(getRegistry))
	mustProvide(b.container.Provide(getRenderer))
	mustProvide(b.container.Provide(getSession))
	mustProvide(b.container.Provide(getBlockFilter))
	mustProvide(b.container.Provide(getServer))

	return b
}

func mustProvide(err error) {
	if err != nil {
		panic("failed to provide: " + err.Error())
	}
}

// Decorate replaces a provided value, for example the [config.Loader] in tests.
func (b *Builder) Decorate(decorator interface{}, opts ...dig.DecorateOption) error {
	return dig.RootCause(b.container.Decorate(decorator, opts...))
}

// Invoke is used to invoke the function with the given dependencies.
// The builder will automatically figure out how to instantiate them
// using the available configuration.
func (b *Builder) Invoke(function interface{}, opts ...dig.InvokeOption) error {
	err := b.container.Invoke(function, opts...)
	return dig.RootCause(err)
}

func getLoader() (*config.Loader, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return config.NewLoader(configName, configType, os.DirFS(cwd)), nil
}

func getConfig(loader *config.Loader) (*config.Config, error) {
	return loader.Load()
}

func getLogger(c *config.Config) (*zap.Logger, error) {
	if c == nil || !c.Log.Enabled {
		return log.Get(), nil
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if c.Log.Verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zapConfig.Development = true
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if c.Log.Path != "" {
		zapConfig.OutputPaths = []string{c.Log.Path}
		zapConfig.ErrorOutputPaths = []string{c.Log.Path}
	}

	l, err := zapConfig.Build()
	return l, errors.WithStack(err)
}

func getRegistry() *block.Registry {
	return block.Default()
}

func getRenderer(c *config.Config, registry *block.Registry, logger *zap.Logger) *render.Renderer {
	return render.New(
		registry,
		render.WithTitle(c.Page.Title),
		render.WithLang(c.Page.Lang),
		render.WithLogger(logger),
	)
}

func getSession(registry *block.Registry, renderer *render.Renderer, logger *zap.Logger) *session.Session {
	return session.New(
		session.WithRegistry(registry),
		session.WithRenderer(renderer),
		session.WithLogger(logger),
	)
}

func getBlockFilter(c *config.Config) BlockFilter {
	return BlockFilter(config.BlockFilter(c.Export.Filters))
}

func getServer(c *config.Config, sess *session.Session, filter BlockFilter, logger *zap.Logger) (*server.Server, error) {
	return server.New(
		&server.Config{
			Address:      c.Server.Address,
			ExportName:   c.Export.Filename,
			ExportFilter: filter,
		},
		sess,
		logger,
	)
}
