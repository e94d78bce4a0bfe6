package apps

import (
	"context"
	"fmt"

	"f1dashboard/pkg/filter"
	"f1dashboard/pkg/menus"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	menuStart       = "/start"
	menuMenu        = "/menu"
	buttonFavorites = "Favoritos"
	appName         = "menú"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonDrivers),
			tgbotapi.NewKeyboardButton(buttonConstructors),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonSeason),
			tgbotapi.NewKeyboardButton(buttonFavorites),
		),
	)
)

type menuer struct{}

func (m menuer) Menu() tgbotapi.ReplyKeyboardMarkup {
	return menuKeyboard
}

type MainApp struct {
	bot       Sender
	accepters []Accepter
}

func NewMainApp(bot Sender, service StandingsService, favs FavoritesStore, filters *filter.Store, logger *zap.Logger) *MainApp {
	standingsApp := NewStandingsApp(bot, service, filters, logger)

	favoritesAppMenu := menus.NewApplicationMenu(buttonFavorites, appName, menuer{})
	favoritesApp := NewFavoritesApp(bot, favoritesAppMenu, favs, service, filters, logger)

	return &MainApp{
		bot:       bot,
		accepters: []Accepter{standingsApp, favoritesApp},
	}
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if command == menuStart {
		return true, m.renderStart()
	} else if command == menuMenu {
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Hola, soy el bot del campeonato de F1. Te enseño la clasificación de pilotos y constructores de cada temporada.\n\n"
		message += "Puedes usar los siguientes comandos:\n\n"
		message += fmt.Sprintf("%s - Muestra el menú del bot\n", menuMenu)
		message += "/fav_<número> - Sigue o deja de seguir a un piloto\n"
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Menú del bot.\n\n"
		msg := tgbotapi.NewMessage(chatId, message)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}
