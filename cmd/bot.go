package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"f1dashboard/pkg/apps"
	"f1dashboard/pkg/config"
	"f1dashboard/pkg/favorites"
	"f1dashboard/pkg/filter"
	"f1dashboard/pkg/notification"
	"f1dashboard/pkg/pubsub"
	"f1dashboard/pkg/scheduler"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:     "bot",
	Short:   "Run the Telegram bot and notify followers of standings changes",
	PreRunE: commandSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.TelegramToken == "" {
			return errors.New("telegram-token is required (F1DASH_TELEGRAM_TOKEN)")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			return errors.Wrap(err, "connecting to telegram")
		}
		logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

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

		notifier := notification.NewManager(ps, favs, notification.TelegramNotifier(bot), logger)
		go notifier.Start(ctx, time.Now().Year())

		refresher.Start()
		defer refresher.Stop()

		mainApp := apps.NewMainApp(bot, b.service, favs, filter.NewStore(), logger)
		runner := apps.NewRunner(bot, mainApp, logger)

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := bot.GetUpdatesChan(u)
		logger.Info("listening for telegram updates")
		runner.Run(ctx, updates)

		bot.StopReceivingUpdates()
		logger.Info("bot stopped")
		return nil
	},
}

func init() {
	botCmd.Flags().String("telegram-token", "", "Telegram bot token")
	botCmd.Flags().String("refresh-cron", config.DefaultRefreshCron, "cron expression (with seconds) of the standings refresh")
	rootCmd.AddCommand(botCmd)
}
