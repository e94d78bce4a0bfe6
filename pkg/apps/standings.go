package apps

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"f1dashboard/pkg/filter"
	"f1dashboard/pkg/helper"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	buttonDrivers      = "Pilotos"
	buttonConstructors = "Constructores"
	buttonSeason       = "Temporada"

	subcommandSeasons = "seasons"
	subcommandPick    = "pick"
	commandRace       = "/carrera_"

	// first season with complete session results upstream
	firstSeason    = 2023
	seasonsPerPage = 4
)

var commandRaceRegexp = regexp.MustCompile(`^/carrera_(\d+)$`)

type StandingsService interface {
	Standings(ctx context.Context, year int) (model.Season, error)
	Classification(ctx context.Context, sessionKey int) (model.Classification, error)
}

type StandingsApp struct {
	bot     Sender
	service StandingsService
	filters *filter.Store
	logger  *zap.Logger
	now     func() time.Time
}

func NewStandingsApp(bot Sender, service StandingsService, filters *filter.Store, logger *zap.Logger) *StandingsApp {
	return &StandingsApp{
		bot:     bot,
		service: service,
		filters: filters,
		logger:  logger,
		now:     time.Now,
	}
}

func (sa *StandingsApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if m := commandRaceRegexp.FindStringSubmatch(command); m != nil {
		sessionKey, _ := strconv.Atoi(m[1])
		return true, sa.renderClassification(sessionKey)
	}
	return false, nil
}

func (sa *StandingsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	switch button {
	case buttonDrivers:
		return true, sa.renderDrivers()
	case buttonConstructors:
		return true, sa.renderConstructors()
	case buttonSeason:
		return true, func(ctx context.Context, chatId int64) error {
			return sa.sendSeasons(chatId, 0, nil)
		}
	}
	return false, nil
}

func (sa *StandingsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if data[0] != subcommandSeasons || len(data) != 3 {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		chatId := query.Message.Chat.ID
		messageId := query.Message.MessageID
		if data[1] == subcommandPick {
			year, err := strconv.Atoi(data[2])
			if err != nil {
				return err
			}
			sa.filters.SelectYear(chatId, year)
			return sa.renderSeasonPicked(ctx, chatId, messageId, year)
		}
		page, ok := nextPage(data[1], data[2], helper.PageCount(len(sa.seasons()), seasonsPerPage))
		if !ok {
			return nil
		}
		return sa.sendSeasons(chatId, page, &messageId)
	}
}

// seasons lists selectable years, most recent first.
func (sa *StandingsApp) seasons() []int {
	years := []int{}
	for y := sa.now().Year(); y >= firstSeason; y-- {
		years = append(years, y)
	}
	return years
}

func (sa *StandingsApp) sendSeasons(chatId int64, page int, messageId *int) error {
	years := sa.seasons()
	maxPages := helper.PageCount(len(years), seasonsPerPage)
	from := page * seasonsPerPage
	to := from + seasonsPerPage
	if to > len(years) {
		to = len(years)
	}

	var buttons []tgbotapi.InlineKeyboardButton
	for _, y := range years[from:to] {
		label := strconv.Itoa(y)
		if y == sa.filters.Get(chatId).Year {
			label = "✅ " + label
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%s:%d", subcommandSeasons, subcommandPick, y)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(buttons, pagerRow(subcommandSeasons, page))
	text := fmt.Sprintf("Elige la temporada (%d/%d):", page+1, maxPages)

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
	_, err := sa.bot.Send(cfg)
	return err
}

func (sa *StandingsApp) renderSeasonPicked(ctx context.Context, chatId int64, messageId int, year int) error {
	season, err := sa.service.Standings(ctx, year)
	if err != nil {
		sa.logger.Warn("season unavailable", zap.Int("year", year), zap.Error(err))
		return sa.sendText(chatId, fmt.Sprintf("No se pudo cargar la temporada %d", year))
	}

	lines := []string{fmt.Sprintf("Temporada %d seleccionada.", year)}
	if len(season.Sessions) == 0 {
		lines = append(lines, "", "No hay carreras registradas")
	} else {
		lines = append(lines, "", "Carreras:")
		for _, s := range season.Sessions {
			lines = append(lines, fmt.Sprintf("%s%d %s (%s)", commandRace, s.SessionKey, s.Location, s.DateStart.Format("02/01")))
		}
	}
	_, err = sa.bot.Send(tgbotapi.NewEditMessageText(chatId, messageId, strings.Join(lines, "\n")))
	return err
}

func (sa *StandingsApp) renderDrivers() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		year := sa.filters.Get(chatId).Year
		season, err := sa.service.Standings(ctx, year)
		if err != nil {
			sa.logger.Warn("driver standings unavailable", zap.Int("year", year), zap.Error(err))
			return sa.sendText(chatId, fmt.Sprintf("No se pudo calcular la clasificación de %d", year))
		}
		if len(season.Drivers) == 0 {
			return sa.sendText(chatId, fmt.Sprintf("No hay resultados para %d", year))
		}
		title := fmt.Sprintf("Pilotos %d", year)
		return sa.sendTable(chatId, title, render.Drivers(season.Drivers, true)+render.Omitted(season.Omitted))
	}
}

func (sa *StandingsApp) renderConstructors() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		year := sa.filters.Get(chatId).Year
		season, err := sa.service.Standings(ctx, year)
		if err != nil {
			sa.logger.Warn("constructor standings unavailable", zap.Int("year", year), zap.Error(err))
			return sa.sendText(chatId, fmt.Sprintf("No se pudo calcular la clasificación de %d", year))
		}
		if len(season.Constructors) == 0 {
			return sa.sendText(chatId, fmt.Sprintf("No hay resultados para %d", year))
		}
		title := fmt.Sprintf("Constructores %d", year)
		return sa.sendTable(chatId, title, render.Constructors(season.Constructors)+render.Omitted(season.Omitted))
	}
}

func (sa *StandingsApp) renderClassification(sessionKey int) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		c, err := sa.service.Classification(ctx, sessionKey)
		if err != nil {
			sa.logger.Warn("classification unavailable", zap.Int("session_key", sessionKey), zap.Error(err))
			return sa.sendText(chatId, "No se ha encontrado la carrera")
		}
		sa.filters.SelectSession(chatId, sessionKey)
		title := model.Match(c,
			func([]model.GridEntry) string { return "Parrilla de salida" },
			func([]model.SessionResult) string { return "Resultado" },
		)
		return sa.sendTable(chatId, title, render.Classification(c))
	}
}

func (sa *StandingsApp) sendTable(chatId int64, title, table string) error {
	msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("```\n%s\n\n%s```", escapeCode(title), escapeCode(table)))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := sa.bot.Send(msg)
	return err
}

func (sa *StandingsApp) sendText(chatId int64, text string) error {
	_, err := sa.bot.Send(tgbotapi.NewMessage(chatId, text))
	return err
}

// escapeCode escapes what MarkdownV2 forbids inside a code block.
func escapeCode(s string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(s)
}
