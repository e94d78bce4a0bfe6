package apps

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Runner dispatches Telegram updates to an Accepter tree.
type Runner struct {
	bot    Sender
	root   Accepter
	logger *zap.Logger
}

func NewRunner(bot Sender, root Accepter, logger *zap.Logger) *Runner {
	return &Runner{bot: bot, root: root, logger: logger}
}

// Run handles updates until ctx is cancelled or the channel is closed.
func (r *Runner) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			r.HandleUpdate(ctx, update)
		}
	}
}

func (r *Runner) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		r.handleMessage(WithUpdate(ctx, update.Message.From, update.Message.Chat), update.Message)
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		var chat *tgbotapi.Chat
		if query.Message != nil {
			chat = query.Message.Chat
		}
		r.handleCallback(WithUpdate(ctx, query.From, chat), query)
	}
}

func (r *Runner) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatId := msg.Chat.ID
	var accepted bool
	var handler func(ctx context.Context, chatId int64) error
	if msg.IsCommand() {
		accepted, handler = r.root.AcceptCommand("/" + msg.Command())
	} else {
		accepted, handler = r.root.AcceptButton(msg.Text)
	}
	if !accepted {
		r.logger.Debug("unhandled message", zap.Int64("chat_id", chatId), zap.String("text", msg.Text))
		_, err := r.bot.Send(tgbotapi.NewMessage(chatId, "No te he entendido. Usa "+menuMenu))
		if err != nil {
			r.logger.Warn("sending reply", zap.Error(err))
		}
		return
	}
	if err := handler(ctx, chatId); err != nil {
		r.logger.Warn("handling message", zap.Int64("chat_id", chatId), zap.String("text", msg.Text), zap.Error(err))
	}
}

func (r *Runner) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	accepted, handler := r.root.AcceptCallback(query)
	if accepted {
		if err := handler(ctx, query); err != nil {
			r.logger.Warn("handling callback", zap.String("data", query.Data), zap.Error(err))
		}
	} else {
		r.logger.Debug("unhandled callback", zap.String("data", query.Data))
	}
	if _, err := r.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		r.logger.Debug("answering callback", zap.Error(err))
	}
}
