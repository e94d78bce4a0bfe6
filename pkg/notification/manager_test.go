package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"f1dashboard/pkg/caster"
	"f1dashboard/pkg/favorites"
	"f1dashboard/pkg/model"
	"f1dashboard/pkg/pubsub"
	"github.com/nikoksr/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type sent struct {
	chatIDs []int64
	subject string
	message string
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

type recordingNotifier struct {
	r       *recorder
	chatIDs []int64
}

func (n recordingNotifier) Send(_ context.Context, subject, message string) error {
	n.r.mu.Lock()
	defer n.r.mu.Unlock()
	n.r.sent = append(n.r.sent, sent{chatIDs: n.chatIDs, subject: subject, message: message})
	return nil
}

func (r *recorder) factory() NotifierFactory {
	return func(chatIDs ...int64) notify.Notifier {
		return recordingNotifier{r: r, chatIDs: chatIDs}
	}
}

func (r *recorder) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

type fakeLister map[int][]favorites.Follower

func (f fakeLister) Followers(driverNumber int) ([]favorites.Follower, error) {
	return f[driverNumber], nil
}

func standings(year int, order ...int) model.Season {
	s := model.Season{Year: year}
	for i, n := range order {
		s.Drivers = append(s.Drivers, model.DriverStandingEntry{
			DriverNumber: n,
			Position:     i + 1,
			Points:       float64(100 - 10*i),
			FirstName:    "Driver",
			LastName:     string(rune('A' + i)),
		})
	}
	return s
}

func TestHandleNotifiesFollowers(t *testing.T) {
	rec := &recorder{}
	lister := fakeLister{
		1:  {{UserID: "a", ChatID: 10}, {UserID: "web"}},
		16: {{UserID: "a", ChatID: 10}, {UserID: "b", ChatID: 20}},
	}
	m := NewManager(pubsub.NewPubSub[string](), lister, rec.factory(), zaptest.NewLogger(t))

	assert.Nil(t, m.Handle(context.Background(), standings(2024, 1, 16, 4)))
	assert.Empty(t, rec.all())

	movements := m.Handle(context.Background(), standings(2024, 16, 1, 4))
	require.Len(t, movements, 2)
	assert.Equal(t, 16, movements[0].Driver.DriverNumber)
	assert.Equal(t, 2, movements[0].From)
	assert.Equal(t, 1, movements[0].To)

	msgs := rec.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, []int64{10}, msgs[0].chatIDs)
	assert.Equal(t, "Cambios en el campeonato 2024:", msgs[0].subject)
	assert.Contains(t, msgs[0].message, "🔼 Driver A: P2 → P1 (100 pts)")
	assert.Contains(t, msgs[0].message, "🔽 Driver B: P1 → P2 (90 pts)")
	assert.Equal(t, []int64{20}, msgs[1].chatIDs)
	assert.NotContains(t, msgs[1].message, "P1 → P2")
}

func TestHandleKeepsYearsApart(t *testing.T) {
	rec := &recorder{}
	m := NewManager(pubsub.NewPubSub[string](), fakeLister{1: {{UserID: "a", ChatID: 1}}}, rec.factory(), zaptest.NewLogger(t))

	m.Handle(context.Background(), standings(2023, 1, 2))
	m.Handle(context.Background(), standings(2024, 2, 1))
	assert.Empty(t, rec.all())
}

func TestStartConsumesTopic(t *testing.T) {
	rec := &recorder{}
	ps := pubsub.NewPubSub[string]()
	m := NewManager(ps, fakeLister{44: {{UserID: "a", ChatID: 3}}}, rec.factory(), zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx, 2024)
		close(done)
	}()
	require.Eventually(t, func() bool { return ps.Subscribers(pubsub.StandingsTopic(2024)) == 1 }, time.Second, 5*time.Millisecond)

	c := caster.JSONChannelCaster[model.Season]{}
	first, err := c.To(standings(2024, 44, 1))
	require.NoError(t, err)
	second, err := c.To(standings(2024, 1, 44))
	require.NoError(t, err)

	ps.Publish(pubsub.StandingsTopic(2024), first)
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		_, ok := m.previous[2024]
		return ok
	}, time.Second, 5*time.Millisecond)
	ps.Publish(pubsub.StandingsTopic(2024), second)
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 0, ps.Subscribers(pubsub.StandingsTopic(2024)))
}
