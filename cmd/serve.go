package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"f1dashboard/pkg/api"
	"f1dashboard/pkg/config"
	"f1dashboard/pkg/favorites"
	"f1dashboard/pkg/pubsub"
	"f1dashboard/pkg/scheduler"
	"f1dashboard/pkg/webserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the HTTP API and the standings websocket",
	PreRunE: commandSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := newBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
		go b.purgeLoop(ctx, logger)

		favs, err := favorites.NewManager(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer favs.Close()

		ps := pubsub.NewPubSub[string]()
		refresher := scheduler.NewRefresher(b.service, ps, cfg.FetchTimeout*4, logger)
		if err := refresher.Setup(ctx, cfg.RefreshCron); err != nil {
			return err
		}
		refresher.Start()
		defer refresher.Stop()

		ws := webserver.NewManager(cfg.ListenAddress, logger)
		api.NewHandler(api.Deps{
			Upstream:  b.client,
			Service:   b.service,
			Favorites: favs,
			PubSub:    ps,
			Stream:    refresher,
			Policy:    b.policy,
			ProxyTTL:  cfg.ProxyTTL,
			Logger:    logger,
		}).Register(ws.Router())
		ws.Debug()

		err = ws.Serve(ctx)
		logger.Info("serve stopped", zap.Error(err))
		return err
	},
}

func init() {
	serveCmd.Flags().String("listen-address", config.DefaultListenAddress, "HTTP listen address")
	serveCmd.Flags().Duration("proxy-ttl", config.DefaultProxyTTL, "cache ttl of proxied upstream responses")
	serveCmd.Flags().String("refresh-cron", config.DefaultRefreshCron, "cron expression (with seconds) of the standings refresh")
	rootCmd.AddCommand(serveCmd)
}
