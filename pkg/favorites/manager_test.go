package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	m, err := NewManager(filepath.Join(t.TempDir(), "favorites.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestToggle(t *testing.T) {
	m := newTestManager(t)

	followed, err := m.Toggle("u1", 100, 44)
	require.NoError(t, err)
	assert.True(t, followed)

	followed, err = m.Toggle("u1", 100, 1)
	require.NoError(t, err)
	assert.True(t, followed)

	drivers, err := m.List("u1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 44}, drivers)

	followed, err = m.Toggle("u1", 100, 44)
	require.NoError(t, err)
	assert.False(t, followed)

	drivers, err = m.List("u1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, drivers)
}

func TestListUnknownUser(t *testing.T) {
	m := newTestManager(t)

	drivers, err := m.List("nobody")
	require.NoError(t, err)
	assert.Empty(t, drivers)
}

func TestFollowers(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Toggle("b", 2, 16)
	require.NoError(t, err)
	_, err = m.Toggle("a", 1, 16)
	require.NoError(t, err)
	_, err = m.Toggle("a", 1, 55)
	require.NoError(t, err)

	followers, err := m.Followers(16)
	require.NoError(t, err)
	assert.Equal(t, []Follower{{UserID: "a", ChatID: 1}, {UserID: "b", ChatID: 2}}, followers)

	followers, err = m.Followers(99)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestUserIDIsNotInterpolated(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Toggle("x' OR '1'='1", 1, 44)
	require.NoError(t, err)
	_, err = m.Toggle("y", 2, 81)
	require.NoError(t, err)

	drivers, err := m.List("x' OR '1'='1")
	require.NoError(t, err)
	assert.Equal(t, []int{44}, drivers)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")
	m, err := NewManager(path, zap.NewNop())
	require.NoError(t, err)
	_, err = m.Toggle("u", 5, 4)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	m, err = NewManager(path, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()
	drivers, err := m.List("u")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, drivers)
}
