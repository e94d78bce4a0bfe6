package model

import "time"

const (
	SessionTypeRace       = "Race"
	SessionTypeQualifying = "Qualifying"
	SessionTypePractice   = "Practice"
)

type Session struct {
	SessionKey       int       `json:"session_key"`
	MeetingKey       int       `json:"meeting_key"`
	SessionName      string    `json:"session_name"`
	SessionType      string    `json:"session_type"`
	DateStart        time.Time `json:"date_start"`
	DateEnd          time.Time `json:"date_end"`
	Year             int       `json:"year"`
	CircuitShortName string    `json:"circuit_short_name"`
	CountryName      string    `json:"country_name"`
	CountryCode      string    `json:"country_code"`
	Location         string    `json:"location"`
}

type Meeting struct {
	MeetingKey          int       `json:"meeting_key"`
	MeetingName         string    `json:"meeting_name"`
	MeetingOfficialName string    `json:"meeting_official_name"`
	Location            string    `json:"location"`
	CountryName         string    `json:"country_name"`
	CircuitShortName    string    `json:"circuit_short_name"`
	DateStart           time.Time `json:"date_start"`
	Year                int       `json:"year"`
}

type Lap struct {
	SessionKey      int       `json:"session_key"`
	DriverNumber    int       `json:"driver_number"`
	LapNumber       int       `json:"lap_number"`
	LapDuration     *float64  `json:"lap_duration"`
	DurationSector1 *float64  `json:"duration_sector_1"`
	DurationSector2 *float64  `json:"duration_sector_2"`
	DurationSector3 *float64  `json:"duration_sector_3"`
	IsPitOutLap     bool      `json:"is_pit_out_lap"`
	DateStart       time.Time `json:"date_start"`
}

type Stint struct {
	SessionKey     int    `json:"session_key"`
	DriverNumber   int    `json:"driver_number"`
	StintNumber    int    `json:"stint_number"`
	Compound       string `json:"compound"`
	LapStart       int    `json:"lap_start"`
	LapEnd         int    `json:"lap_end"`
	TyreAgeAtStart int    `json:"tyre_age_at_start"`
}

type Weather struct {
	SessionKey       int       `json:"session_key"`
	Date             time.Time `json:"date"`
	AirTemperature   float64   `json:"air_temperature"`
	TrackTemperature float64   `json:"track_temperature"`
	Humidity         float64   `json:"humidity"`
	Pressure         float64   `json:"pressure"`
	Rainfall         float64   `json:"rainfall"`
	WindDirection    float64   `json:"wind_direction"`
	WindSpeed        float64   `json:"wind_speed"`
}

type GridEntry struct {
	SessionKey   int     `json:"session_key"`
	DriverNumber int     `json:"driver_number"`
	Position     int     `json:"position"`
	LapDuration  float64 `json:"lap_duration"`
}

// SessionFilterState is the year/track/session selection of one client.
// Zero values mean "not selected".
type SessionFilterState struct {
	Year       int `json:"year"`
	MeetingKey int `json:"meeting_key"`
	SessionKey int `json:"session_key"`
}

// WithYear selects a season and clears the narrower selections.
func (f SessionFilterState) WithYear(year int) SessionFilterState {
	return SessionFilterState{Year: year}
}

// WithMeeting selects a track within the current season.
func (f SessionFilterState) WithMeeting(meetingKey int) SessionFilterState {
	return SessionFilterState{Year: f.Year, MeetingKey: meetingKey}
}

func (f SessionFilterState) WithSession(sessionKey int) SessionFilterState {
	f.SessionKey = sessionKey
	return f
}
