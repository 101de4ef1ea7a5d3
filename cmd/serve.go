package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/server"
	"github.com/desertthunder/sangeet/internal/shared"
)

// Serve runs the media server for the local storage directory until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.Config()
	if config.Storage.Backend != shared.StorageLocal {
		return fmt.Errorf("%w: serve only works with the local storage backend", shared.ErrInvalidConfig)
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	router := server.NewMediaRouter(config.Storage.Dir, r.logger)
	httpServer := server.New(addr, router)

	r.logger.Info("serving media", "addr", addr, "dir", config.Storage.Dir, "routes", router.Patterns())
	errs := server.Start(httpServer, r.logger)
	r.writePlain("→ Serving %s at http://%s/media/\n", config.Storage.Dir, addr)

	select {
	case err, ok := <-errs:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := server.Stop(httpServer); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	r.logger.Info("media server stopped")
	return nil
}
