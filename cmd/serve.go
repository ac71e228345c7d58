package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/server"
	"github.com/crosspub/crosspub/internal/shared"
)

// Serve runs the local HTTP publish API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	if app.orch == nil {
		return shared.ErrChromeNotFound
	}

	host := r.config.Server.Host
	if flag := cmd.String("host"); flag != "" {
		host = flag
	}
	port := r.config.Server.Port
	if flag := cmd.Int("port"); flag != 0 {
		port = flag
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.LogRequests(r.logger))
	router.Handler(server.NewAPI(app.orch, app.accounts, app.tasks, r.logger))

	return server.Serve(ctx, fmt.Sprintf("%s:%d", host, port), router, r.logger)
}
