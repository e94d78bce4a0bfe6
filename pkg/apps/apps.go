// Package apps implements the Telegram bot: a tree of applications that
// each accept the commands, keyboard buttons and inline callbacks they own.
package apps

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ContextUser string
type ContextChatID string

const (
	UserContextKey ContextUser   = "user"
	ChatContextKey ContextChatID = "chat"
)

type Accepter interface {
	AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error)
}

// Sender is the part of *tgbotapi.BotAPI the applications use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// WithUpdate stores the user and chat of an update in ctx.
func WithUpdate(ctx context.Context, user *tgbotapi.User, chat *tgbotapi.Chat) context.Context {
	if user != nil {
		ctx = context.WithValue(ctx, UserContextKey, user)
	}
	if chat != nil {
		ctx = context.WithValue(ctx, ChatContextKey, chat)
	}
	return ctx
}

func userIDFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(UserContextKey).(*tgbotapi.User)
	if !ok || user == nil {
		return "", false
	}
	return strconv.FormatInt(user.ID, 10), true
}
