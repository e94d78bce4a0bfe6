package apps

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"f1dashboard/pkg/filter"
	"f1dashboard/pkg/helper"
	"f1dashboard/pkg/menus"
	"f1dashboard/pkg/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	buttonMyFavorites = "Mis pilotos"
	buttonFollow      = "Seguir piloto"

	subcommandFavorite = "fav"
	symbolFollowed     = "⭐"
	driversPerRow      = 4
)

var commandFavoriteRegexp = regexp.MustCompile(`^/fav_(\d+)$`)

type FavoritesStore interface {
	List(userID string) ([]int, error)
	Toggle(userID string, chatID int64, driverNumber int) (bool, error)
}

type FavoritesApp struct {
	bot          Sender
	appMenu      menus.ApplicationMenu
	menuKeyboard tgbotapi.ReplyKeyboardMarkup
	store        FavoritesStore
	service      StandingsService
	filters      *filter.Store
	logger       *zap.Logger
}

func NewFavoritesApp(bot Sender, appMenu menus.ApplicationMenu, store FavoritesStore, service StandingsService, filters *filter.Store, logger *zap.Logger) *FavoritesApp {
	menuKeyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonMyFavorites),
			tgbotapi.NewKeyboardButton(buttonFollow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
		),
	)
	return &FavoritesApp{
		bot:          bot,
		appMenu:      appMenu,
		menuKeyboard: menuKeyboard,
		store:        store,
		service:      service,
		filters:      filters,
		logger:       logger,
	}
}

func (fa *FavoritesApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if m := commandFavoriteRegexp.FindStringSubmatch(command); m != nil {
		driverNumber, _ := strconv.Atoi(m[1])
		return true, func(ctx context.Context, chatId int64) error {
			followed, err := fa.toggle(ctx, chatId, driverNumber)
			if err != nil {
				return fa.sendText(chatId, "No se pudo actualizar tus favoritos")
			}
			if followed {
				return fa.sendText(chatId, fmt.Sprintf("%s Ahora sigues al piloto #%d", symbolFollowed, driverNumber))
			}
			return fa.sendText(chatId, fmt.Sprintf("Ya no sigues al piloto #%d", driverNumber))
		}
	}
	return false, nil
}

func (fa *FavoritesApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	switch button {
	case fa.appMenu.Name:
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "Pilotos favoritos. Recibirás un aviso cuando cambien de posición en el campeonato.")
			msg.ReplyMarkup = fa.menuKeyboard
			_, err := fa.bot.Send(msg)
			return err
		}
	case fa.appMenu.ButtonBackTo():
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = fa.appMenu.PrevMenu()
			_, err := fa.bot.Send(msg)
			return err
		}
	case buttonMyFavorites:
		return true, fa.renderFavorites()
	case buttonFollow:
		return true, func(ctx context.Context, chatId int64) error {
			return fa.renderDriverPicker(ctx, chatId, nil)
		}
	}
	return false, nil
}

func (fa *FavoritesApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] != subcommandFavorite || len(data) != 2 {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		driverNumber, err := strconv.Atoi(data[1])
		if err != nil {
			return err
		}
		chatId := query.Message.Chat.ID
		if _, err := fa.toggle(ctx, chatId, driverNumber); err != nil {
			return fa.sendText(chatId, "No se pudo actualizar tus favoritos")
		}
		messageId := query.Message.MessageID
		return fa.renderDriverPicker(ctx, chatId, &messageId)
	}
}

func (fa *FavoritesApp) toggle(ctx context.Context, chatId int64, driverNumber int) (bool, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		userID = strconv.FormatInt(chatId, 10)
	}
	followed, err := fa.store.Toggle(userID, chatId, driverNumber)
	if err != nil {
		fa.logger.Error("toggling favorite", zap.String("user_id", userID), zap.Int("driver_number", driverNumber), zap.Error(err))
	}
	return followed, err
}

func (fa *FavoritesApp) list(ctx context.Context, chatId int64) ([]int, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		userID = strconv.FormatInt(chatId, 10)
	}
	return fa.store.List(userID)
}

func (fa *FavoritesApp) renderFavorites() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		numbers, err := fa.list(ctx, chatId)
		if err != nil {
			fa.logger.Error("listing favorites", zap.Error(err))
			return fa.sendText(chatId, "No se pudieron leer tus favoritos")
		}
		if len(numbers) == 0 {
			return fa.sendText(chatId, "No sigues a ningún piloto. Usa /fav_<número> o \""+buttonFollow+"\"")
		}

		year := fa.filters.Get(chatId).Year
		byNumber := map[int]model.DriverStandingEntry{}
		if season, err := fa.service.Standings(ctx, year); err != nil {
			fa.logger.Warn("standings unavailable for favorites", zap.Int("year", year), zap.Error(err))
		} else {
			for _, d := range season.Drivers {
				byNumber[d.DriverNumber] = d
			}
		}

		lines := []string{fmt.Sprintf("Tus pilotos en %d:", year), ""}
		for _, n := range numbers {
			d, ok := byNumber[n]
			if !ok {
				lines = append(lines, fmt.Sprintf("#%d - sin resultados (/fav_%d para dejar de seguir)", n, n))
				continue
			}
			name := d.DisplayName()
			if name == "" {
				name = fmt.Sprintf("#%d", n)
			}
			lines = append(lines, fmt.Sprintf("P%d %s - %s pts (/fav_%d para dejar de seguir)", d.Position, name, helper.FormatPoints(d.Points), n))
		}
		return fa.sendText(chatId, strings.Join(lines, "\n"))
	}
}

// renderDriverPicker shows the drivers of the selected season as toggles.
func (fa *FavoritesApp) renderDriverPicker(ctx context.Context, chatId int64, messageId *int) error {
	year := fa.filters.Get(chatId).Year
	season, err := fa.service.Standings(ctx, year)
	if err != nil {
		fa.logger.Warn("standings unavailable for picker", zap.Int("year", year), zap.Error(err))
		return fa.sendText(chatId, fmt.Sprintf("No se pudo cargar la temporada %d", year))
	}
	if len(season.Drivers) == 0 {
		return fa.sendText(chatId, fmt.Sprintf("No hay pilotos para %d", year))
	}
	numbers, err := fa.list(ctx, chatId)
	if err != nil {
		fa.logger.Error("listing favorites", zap.Error(err))
		return fa.sendText(chatId, "No se pudieron leer tus favoritos")
	}
	followed := map[int]bool{}
	for _, n := range numbers {
		followed[n] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range season.Drivers {
		label := helper.DriverCode(d.NameAcronym, d.DisplayName())
		if label == "" {
			label = fmt.Sprintf("#%d", d.DriverNumber)
		}
		if followed[d.DriverNumber] {
			label = symbolFollowed + " " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%d", subcommandFavorite, d.DriverNumber)))
		if len(row) == driversPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	text := fmt.Sprintf("Pulsa un piloto de %d para seguirlo o dejar de seguirlo:", year)

	var cfg tgbotapi.Chattable
	if messageId == nil {
		msg := tgbotapi.NewMessage(chatId, text)
		msg.ReplyMarkup = keyboard
		cfg = msg
	} else {
		msg := tgbotapi.NewEditMessageText(chatId, *messageId, text)
		msg.ReplyMarkup = &keyboard
		cfg = msg
	}
	_, err = fa.bot.Send(cfg)
	return err
}

func (fa *FavoritesApp) sendText(chatId int64, text string) error {
	_, err := fa.bot.Send(tgbotapi.NewMessage(chatId, text))
	return err
}
