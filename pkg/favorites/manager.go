// Package favorites stores which drivers each user follows.
package favorites

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Follower is a user to notify about a driver. ChatID is zero for users
// that only ever used the HTTP API.
type Follower struct {
	UserID string
	ChatID int64
}

type Manager struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

func NewManager(path string, logger *zap.Logger) (*Manager, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", path)
	}

	if _, err = db.Exec(buildCreateFavoritesTable()); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating favorites table")
	}
	logger.Debug("favorites database ready", zap.String("path", path))

	return &Manager{
		db:     db,
		logger: logger,
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// Toggle adds the driver to the user's favourites, or removes it when it was
// already there. It reports whether the driver is followed afterwards.
func (m *Manager) Toggle(userID string, chatID int64, driverNumber int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drivers, err := m.list(userID)
	if err != nil {
		return false, err
	}
	for _, d := range drivers {
		if d == driverNumber {
			if _, err := m.db.Exec(buildDeleteFavoriteCommand(), userID, driverNumber); err != nil {
				return false, errors.Wrapf(err, "removing driver %d for user %s", driverNumber, userID)
			}
			m.logger.Debug("favorite removed", zap.String("user_id", userID), zap.Int("driver_number", driverNumber))
			return false, nil
		}
	}

	if _, err := m.db.Exec(buildInsertFavoriteCommand(), userID, chatID, driverNumber); err != nil {
		return false, errors.Wrapf(err, "adding driver %d for user %s", driverNumber, userID)
	}
	m.logger.Debug("favorite added", zap.String("user_id", userID), zap.Int("driver_number", driverNumber))
	return true, nil
}

// List returns the user's favourite drivers ordered by racing number.
func (m *Manager) List(userID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.list(userID)
}

// Followers returns every user following driverNumber.
func (m *Manager) Followers(driverNumber int) ([]Follower, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, read := buildSelectFollowersCommand()
	rows, err := m.db.Query(query, driverNumber)
	if err != nil {
		return []Follower{}, errors.Wrapf(err, "followers of driver %d", driverNumber)
	}
	return read(rows)
}

func (m *Manager) list(userID string) ([]int, error) {
	query, read := buildSelectUserCommand()
	rows, err := m.db.Query(query, userID)
	if err != nil {
		return []int{}, errors.Wrapf(err, "favorites of user %s", userID)
	}
	return read(rows)
}
