package favorites

import (
	"database/sql"
)

func buildCreateFavoritesTable() string {
	return `CREATE TABLE IF NOT EXISTS favorites (
		userid TEXT NOT NULL,
		chatid INTEGER NOT NULL,
		driver_number INTEGER NOT NULL,
		PRIMARY KEY (userid, driver_number));`
}

func buildSelectUserCommand() (string, func(*sql.Rows) ([]int, error)) {
	return `SELECT driver_number FROM favorites WHERE userid = ? ORDER BY driver_number`, processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) ([]int, error) {
	defer rows.Close()

	drivers := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return drivers, err
		}
		drivers = append(drivers, n)
	}
	return drivers, rows.Err()
}

func buildSelectFollowersCommand() (string, func(*sql.Rows) ([]Follower, error)) {
	return `SELECT userid, chatid FROM favorites WHERE driver_number = ? ORDER BY userid`, processSelectFollowersRows
}

func processSelectFollowersRows(rows *sql.Rows) ([]Follower, error) {
	defer rows.Close()

	followers := []Follower{}
	for rows.Next() {
		var f Follower
		if err := rows.Scan(&f.UserID, &f.ChatID); err != nil {
			return followers, err
		}
		followers = append(followers, f)
	}
	return followers, rows.Err()
}

func buildInsertFavoriteCommand() string {
	return `INSERT OR REPLACE INTO favorites (userid, chatid, driver_number) VALUES (?, ?, ?)`
}

func buildDeleteFavoriteCommand() string {
	return `DELETE FROM favorites WHERE userid = ? AND driver_number = ?`
}
