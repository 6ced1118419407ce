package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TradeMind/internal/scheduler"
	"TradeMind/internal/server"
	"TradeMind/internal/stream"
	"TradeMind/internal/terminal"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket API and the market tick",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Config.Server.Addr
			}
			return app.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}

func (a *App) serve(parent context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	advisor, err := a.newAdvisor()
	if err != nil {
		return err
	}
	defer advisor.Close()

	lib, kv := a.openLibrary()
	defer kv.Close()

	session, err := terminal.NewSession(ctx, a.Config.Market.Symbol, a.chartOptions(), terminal.Deps{
		Feed:    a.newFeed(),
		Advisor: advisor,
		Library: lib,
	})
	if err != nil {
		return err
	}
	defer session.Wait()

	hub := stream.NewHub(func() any { return session.Snapshot() })
	session.SetListener(hub.Broadcast)

	sched := scheduler.NewScheduler(session, hub)
	if err := sched.RegisterAll(a.Config.Schedule.TickCron, a.Config.Schedule.TrendCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		a.Logger.Info().Msg("RUN_ON_START enabled, requesting trend analysis now")
		session.RequestTrendAnalysis()
	}

	a.Logger.Info().Str("symbol", session.Symbol()).Msg("TradeMind is running. Press Ctrl+C to stop.")
	err = server.New(session, hub).ListenAndServe(ctx, addr)
	a.Logger.Info().Msg("TradeMind stopped")
	return err
}
