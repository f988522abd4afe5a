package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/san-kum/rhythms/internal/api"
	"github.com/san-kum/rhythms/internal/mcp"
	"github.com/san-kum/rhythms/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	listen := e.cfg.Server.Addr
	if addr != "" {
		listen = addr
	}

	handler := api.NewHandler(e.disp, e.cfg.Server.CORSOrigins, e.logger)
	srv := &http.Server{
		Addr:              listen,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("rhythms listening", zap.String("addr", listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	e.logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	s := mcp.NewServer(&mcp.Config{Name: "rhythms", Version: version}, e.disp, e.logger)
	return s.Run(cmd.Context())
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	if frameRate > 0 {
		e.cfg.Driver.FPS = frameRate
	}
	return viz.Run(e.disp, e.cfg.FrameDelta(), theme)
}
