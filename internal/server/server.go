// Package server exposes an editing session to a browser over HTTP.
//
// All intents are serialized; each one completes, including its history
// commit, before the next one is handled.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/launchpad/pkg/document"
	"github.com/stateful/launchpad/pkg/session"
)

const readHeaderTimeout = 10 * time.Second

type Config struct {
	Address string
	// ExportName is the file name suggested for downloads.
	ExportName string
	// ExportFilter selects the blocks included in downloads. Nil keeps all.
	ExportFilter func(document.Block) (bool, error)
}

type Server struct {
	httpServer *http.Server
	lis        net.Listener
	logger     *zap.Logger

	mu           sync.Mutex
	session      *session.Session
	exportName   string
	exportFilter func(document.Block) (bool, error)
}

func New(c *Config, sess *session.Session, logger *zap.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", c.Address)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	s := newServer(c, sess, logger)
	s.lis = lis
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.Info("server listening", zap.String("address", s.Addr()))

	return s, nil
}

func newServer(c *Config, sess *session.Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	exportName := c.ExportName
	if exportName == "" {
		exportName = session.ExportName
	}

	return &Server{
		logger:       logger,
		session:      sess,
		exportName:   exportName,
		exportFilter: c.ExportFilter,
	}
}

// Handler returns the routes of the editor.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logRequests(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleEditor)
	r.Get("/canvas", s.handleCanvas)
	r.Get("/preview", s.handlePreview)
	r.Get("/export", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Put("/state", s.handleLoadState)
		r.Get("/blocks/kinds", s.handleKinds)
		r.Post("/blocks", s.handleAddBlock)
		r.Put("/blocks/{id}/fields/{field}", s.handleUpdateField)
		r.Delete("/blocks/{id}", s.handleRemoveBlock)
		r.Post("/blocks/{id}/select", s.handleSelectBlock)
		r.Post("/clear", s.handleClear)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Post("/presets/{name}", s.handleLoadPreset)
	})

	return r
}

func (s *Server) Addr() string {
	return s.lis.Addr().String()
}

func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Serve blocks until the server is shut down.
func (s *Server) Serve() error {
	err := s.httpServer.Serve(s.lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.WithStack(err)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return errors.WithStack(s.httpServer.Shutdown(ctx))
}

func logRequests(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Debug(
					"handled request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
