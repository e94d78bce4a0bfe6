package cache

import (
	"context"
	"testing"
	"time"

	"f1dashboard/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "forever", []byte("a"), 0))
	require.NoError(t, m.Set(ctx, "live", []byte("b"), 30*time.Second))

	v, ok, err := m.Get(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("b"), v)

	now = now.Add(31 * time.Second)
	_, ok, _ = m.Get(ctx, "live")
	assert.False(t, ok, "live entry must expire")

	v, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), v)
}

func TestMemoryStorePurge(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, m.Set(ctx, "c", []byte("3"), 0))

	now = now.Add(2 * time.Second)
	assert.Equal(t, 1, m.Purge())
	assert.Equal(t, 2, m.Len())
}

func TestPolicyTTLFor(t *testing.T) {
	now := time.Date(2024, 7, 7, 18, 0, 0, 0, time.UTC)
	p := Policy{LiveTTL: 30 * time.Second, SettleWindow: 24 * time.Hour, Now: func() time.Time { return now }}

	tests := []struct {
		name    string
		session model.Session
		want    time.Duration
	}{
		{name: "previous season", session: model.Session{Year: 2023, DateEnd: time.Date(2023, 11, 26, 15, 0, 0, 0, time.UTC)}, want: 0},
		{name: "settled race", session: model.Session{Year: 2024, DateEnd: now.Add(-48 * time.Hour)}, want: 0},
		{name: "just finished", session: model.Session{Year: 2024, DateEnd: now.Add(-time.Hour)}, want: 30 * time.Second},
		{name: "in progress", session: model.Session{Year: 2024, DateEnd: now.Add(time.Hour)}, want: 30 * time.Second},
		{name: "unknown end", session: model.Session{Year: 2024}, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.TTLFor(tt.session))
		})
	}

	assert.Equal(t, time.Duration(0), p.TTLForYear(2023))
	assert.Equal(t, 30*time.Second, p.TTLForYear(2024))
}
