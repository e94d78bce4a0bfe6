// Package notification tells users when a driver they follow moves in the
// championship.
package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"f1dashboard/pkg/caster"
	"f1dashboard/pkg/favorites"
	"f1dashboard/pkg/helper"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/pubsub"
	"github.com/nikoksr/notify"
	"go.uber.org/zap"
)

type Lister interface {
	Followers(driverNumber int) ([]favorites.Follower, error)
}

// NotifierFactory builds a notifier that delivers to the given chats.
type NotifierFactory func(chatIDs ...int64) notify.Notifier

// TelegramNotifier sends through the bot's own client.
func TelegramNotifier(bot BotSender) NotifierFactory {
	return func(chatIDs ...int64) notify.Notifier {
		tg := &Telegram{}
		tg.SetClient(bot)
		tg.AddReceivers(chatIDs...)
		return notify.NewWithServices(tg)
	}
}

// Movement is a position change of one driver between two snapshots.
type Movement struct {
	Driver model.DriverStandingEntry
	From   int
	To     int
}

func (m Movement) String() string {
	arrow := "🔼"
	if m.To > m.From {
		arrow = "🔽"
	}
	name := m.Driver.DisplayName()
	if name == "" {
		name = fmt.Sprintf("#%d", m.Driver.DriverNumber)
	}
	return fmt.Sprintf("%s %s: P%d → P%d (%s pts)", arrow, name, m.From, m.To, helper.FormatPoints(m.Driver.Points))
}

type Manager struct {
	ps       *pubsub.PubSub[string]
	caster   caster.ChannelCaster[model.Season]
	lister   Lister
	notifier NotifierFactory
	logger   *zap.Logger

	mu       sync.Mutex
	previous map[int]map[int]int
}

func NewManager(ps *pubsub.PubSub[string], lister Lister, notifier NotifierFactory, logger *zap.Logger) *Manager {
	return &Manager{
		ps:       ps,
		caster:   caster.JSONChannelCaster[model.Season]{},
		lister:   lister,
		notifier: notifier,
		logger:   logger,
		previous: map[int]map[int]int{},
	}
}

// Start listens to the standings of year until ctx is done.
func (m *Manager) Start(ctx context.Context, year int) {
	topic := pubsub.StandingsTopic(year)
	ch := m.ps.Subscribe(topic)
	defer m.ps.Unsubscribe(topic, ch)

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			season, err := m.caster.From(payload)
			if err != nil {
				m.logger.Error("undecodable standings payload", zap.String("topic", topic), zap.Error(err))
				continue
			}
			m.Handle(ctx, season)
		}
	}
}

// Handle compares season with the previous snapshot of the same year and
// notifies followers of every driver that changed position. The first
// snapshot of a year only sets the baseline.
func (m *Manager) Handle(ctx context.Context, season model.Season) []Movement {
	current := make(map[int]int, len(season.Drivers))
	for _, d := range season.Drivers {
		current[d.DriverNumber] = d.Position
	}

	m.mu.Lock()
	prev, seen := m.previous[season.Year]
	m.previous[season.Year] = current
	m.mu.Unlock()
	if !seen {
		return nil
	}

	movements := []Movement{}
	for _, d := range season.Drivers {
		from, ok := prev[d.DriverNumber]
		if !ok || from == d.Position {
			continue
		}
		movements = append(movements, Movement{Driver: d, From: from, To: d.Position})
	}
	if len(movements) == 0 {
		return movements
	}

	byChat := map[int64][]string{}
	for _, mv := range movements {
		followers, err := m.lister.Followers(mv.Driver.DriverNumber)
		if err != nil {
			m.logger.Error("listing followers", zap.Int("driver_number", mv.Driver.DriverNumber), zap.Error(err))
			continue
		}
		for _, f := range followers {
			if f.ChatID == 0 {
				continue
			}
			byChat[f.ChatID] = append(byChat[f.ChatID], mv.String())
		}
	}

	chats := make([]int64, 0, len(byChat))
	for chatID := range byChat {
		chats = append(chats, chatID)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })

	subject := fmt.Sprintf("Cambios en el campeonato %d:", season.Year)
	for _, chatID := range chats {
		err := m.notifier(chatID).Send(ctx, subject, strings.Join(byChat[chatID], "\n"))
		if err != nil {
			m.logger.Error("notifying chat", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
	m.logger.Info("standings movements notified",
		zap.Int("year", season.Year),
		zap.Int("movements", len(movements)),
		zap.Int("chats", len(chats)))
	return movements
}
