package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vacciprofile/internal/adapters/httpapi"
	"vacciprofile/internal/app"
	"vacciprofile/internal/dataset"
	"vacciprofile/internal/observability"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue and browsing sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// server is the assembled HTTP surface and the state behind it.
type server struct {
	handler http.Handler
	holder  *dataset.Holder
	loader  *dataset.Loader
	dataset app.Dataset
}

func (c *cli) newServer(ctx context.Context) (*server, error) {
	reg := observability.NewRegistry()
	rec, err := observability.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, err
	}
	cat, d, loader, err := c.loadCatalog(ctx, rec)
	if err != nil {
		return nil, err
	}
	holder := dataset.NewHolder(cat)
	sessions := httpapi.NewRegistry(c.cfg.Server.MaxSessions, c.cfg.Server.SessionTTL, c.logger, rec)
	h := httpapi.NewHandler(holder, sessions, httpapi.WithLogger(c.logger))
	return &server{handler: httpapi.Routes(h, reg), holder: holder, loader: loader, dataset: d}, nil
}

func (c *cli) serve(ctx context.Context) error {
	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Endpoint:    c.cfg.Tracing.Endpoint,
		ServiceName: c.cfg.Tracing.ServiceName,
		Disabled:    c.cfg.Tracing.Disabled,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	srv, err := c.newServer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = srv.dataset.Close() }()

	httpSrv := &http.Server{
		Addr:              c.cfg.Server.Addr,
		Handler:           srv.handler,
		ReadTimeout:       c.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: c.cfg.Server.ReadTimeout,
		WriteTimeout:      c.cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("http server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), c.cfg.Server.ShutdownTimeout)
		defer cancel()
		c.logger.Info("http server shutting down")
		return httpSrv.Shutdown(sctx)
	})
	if c.cfg.Dataset.Watch {
		g.Go(func() error {
			err := app.Watch(gctx, srv.dataset, c.cfg.Dataset, srv.loader, srv.holder, c.logger)
			if err != nil {
				c.logger.Warn("dataset reloading disabled", zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}
