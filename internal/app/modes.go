package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/polyboard/internal/leaderboard"
	"github.com/alanyoungcy/polyboard/internal/server"
	"github.com/alanyoungcy/polyboard/internal/server/handler"
	"github.com/alanyoungcy/polyboard/internal/server/ws"
	"github.com/alanyoungcy/polyboard/internal/service"
)

// newService builds the leaderboard service from config and wired deps.
func (a *App) newService(deps *Dependencies) *service.LeaderboardService {
	opts := leaderboard.Options{
		Scale:       a.cfg.Leaderboard.Scale,
		TopN:        a.cfg.Leaderboard.TopN,
		Parallelism: a.cfg.Leaderboard.Parallelism,
	}
	return service.NewLeaderboardService(
		deps.Source,
		deps.Cache,
		deps.Bus,
		opts,
		a.cfg.Subgraph.MaxPositions,
		a.logger,
	)
}

// ComputeMode runs the pipeline once and writes the resulting leaderboard as
// JSON to stdout.
func (a *App) ComputeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting compute mode")

	svc := a.newService(deps)

	lb, err := svc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("compute mode: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lb); err != nil {
		return fmt.Errorf("compute mode: encode leaderboard: %w", err)
	}
	return nil
}

// ServeMode starts the periodic refresh loop, the WebSocket hub, and the HTTP
// API server, and blocks until the context is cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	svc := a.newService(deps)

	g.Go(func() error {
		return svc.RunLoop(ctx, a.cfg.Leaderboard.RefreshInterval.Duration)
	})

	var hub *ws.Hub
	if deps.Bus != nil {
		hub = ws.NewHub(deps.Bus, service.RefreshChannel, a.logger)
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	if a.cfg.Server.Enabled {
		srv := server.NewServer(
			server.Config{
				Port:        a.cfg.Server.Port,
				CORSOrigins: a.cfg.Server.CORSOrigins,
			},
			server.Handlers{
				Health:      handler.NewHealthHandler(a.logger),
				Leaderboard: handler.NewLeaderboardHandler(svc, a.logger),
			},
			hub,
			a.logger,
		)

		g.Go(func() error {
			return srv.Start()
		})

		// Graceful shutdown when the context is cancelled.
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
