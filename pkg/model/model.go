package model

import "time"

// SessionResult is one driver's final classification in one session.
type SessionResult struct {
	SessionKey   int     `json:"session_key"`
	MeetingKey   int     `json:"meeting_key,omitempty"`
	DriverNumber int     `json:"driver_number"`
	Position     int     `json:"position"`
	Points       float64 `json:"points"`
	GapToLeader  Gap     `json:"gap_to_leader"`
	NumberOfLaps int     `json:"number_of_laps,omitempty"`
	DNF          bool    `json:"dnf"`
	DNS          bool    `json:"dns"`
	DSQ          bool    `json:"dsq"`
}

// Classified reports whether the driver finished the session.
func (r SessionResult) Classified() bool {
	return !r.DNF && !r.DNS && !r.DSQ
}

// DriverIdentity is the display metadata of a driver for one session appearance.
type DriverIdentity struct {
	SessionKey   int    `json:"session_key,omitempty"`
	DriverNumber int    `json:"driver_number"`
	TeamName     string `json:"team_name"`
	TeamColour   string `json:"team_colour"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name,omitempty"`
	NameAcronym  string `json:"name_acronym,omitempty"`
	HeadshotURL  string `json:"headshot_url"`
	CountryCode  string `json:"country_code"`
}

type DriverStandingEntry struct {
	DriverNumber         int     `json:"driver_number"`
	Points               float64 `json:"points"`
	Position             int     `json:"position"`
	LastPointsReachedIdx int     `json:"lastPointsReachedIdx"`
	TeamName             string  `json:"team_name"`
	TeamColour           string  `json:"team_colour"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	NameAcronym          string  `json:"name_acronym,omitempty"`
	HeadshotURL          string  `json:"headshot_url"`
	CountryCode          string  `json:"country_code"`
}

// DisplayName joins the first and last name. It is empty when no identity
// was seen; callers show the racing number instead.
func (e DriverStandingEntry) DisplayName() string {
	switch {
	case e.FirstName != "" && e.LastName != "":
		return e.FirstName + " " + e.LastName
	case e.LastName != "":
		return e.LastName
	case e.FirstName != "":
		return e.FirstName
	}
	return ""
}

type ConstructorStandingEntry struct {
	TeamName   string  `json:"team_name"`
	TeamColour string  `json:"team_colour"`
	Points     float64 `json:"points"`
	Position   int     `json:"position"`
}

// OmittedSession is a race session whose results could not be fetched and
// therefore did not contribute to a season aggregate.
type OmittedSession struct {
	SessionKey int    `json:"session_key"`
	Name       string `json:"session_name"`
	Location   string `json:"location"`
	Reason     string `json:"reason"`
}

// Season is the materialised standings snapshot for one year.
type Season struct {
	Year         int                        `json:"year"`
	Sessions     []Session                  `json:"sessions"`
	Results      []SessionResult            `json:"-"`
	Identities   []DriverIdentity           `json:"-"`
	Drivers      []DriverStandingEntry      `json:"drivers"`
	Constructors []ConstructorStandingEntry `json:"constructors"`
	Omitted      []OmittedSession           `json:"omitted"`
	ComputedAt   time.Time                  `json:"computed_at"`
}
