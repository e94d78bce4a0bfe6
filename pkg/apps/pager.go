package apps

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	symbolInit = "⏮"
	symbolPrev = "◀️"
	symbolNext = "▶️"
	symbolEnd  = "⏭"

	pagerInit = "init"
	pagerPrev = "prev"
	pagerNext = "next"
	pagerEnd  = "end"
)

// pagerRow builds the navigation row; callback data is
// "<subcommand>:<action>:<currentPage>".
func pagerRow(subcommand string, currentPage int) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(symbolInit, fmt.Sprintf("%s:%s:%d", subcommand, pagerInit, currentPage)))
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(symbolPrev, fmt.Sprintf("%s:%s:%d", subcommand, pagerPrev, currentPage)))
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(symbolNext, fmt.Sprintf("%s:%s:%d", subcommand, pagerNext, currentPage)))
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(symbolEnd, fmt.Sprintf("%s:%s:%d", subcommand, pagerEnd, currentPage)))
	return row
}

// nextPage resolves a pager action. ok is false when the page would not
// change, so no edit is sent.
func nextPage(action, current string, maxPages int) (int, bool) {
	currentPage, err := strconv.Atoi(current)
	if err != nil {
		return 0, false
	}
	page := currentPage
	switch action {
	case pagerNext:
		page++
	case pagerPrev:
		page--
	case pagerInit:
		page = 0
	case pagerEnd:
		page = maxPages - 1
	default:
		return 0, false
	}
	if page < 0 || page >= maxPages || page == currentPage {
		return currentPage, false
	}
	return page, true
}
