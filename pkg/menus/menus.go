package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	buttonBackTo = "Volver a"
)

// Menuer returns the keyboard of the menu an application was opened from.
type Menuer interface {
	Menu() tgbotapi.ReplyKeyboardMarkup
}

type ApplicationMenu struct {
	Name   string
	From   string
	parent Menuer
}

func NewApplicationMenu(name, from string, parent Menuer) ApplicationMenu {
	return ApplicationMenu{
		Name:   name,
		From:   from,
		parent: parent,
	}
}

func (am ApplicationMenu) ButtonBackTo() string {
	return buttonBackTo + " " + am.From
}

func (am ApplicationMenu) PrevMenu() tgbotapi.ReplyKeyboardMarkup {
	return am.parent.Menu()
}
