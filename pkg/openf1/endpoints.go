package openf1

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"f1dashboard/pkg/model"
	"go.uber.org/zap"
)

func sessionQuery(sessionKey int) url.Values {
	return url.Values{"session_key": []string{strconv.Itoa(sessionKey)}}
}

func (c *Client) Sessions(ctx context.Context, query url.Values, ttl time.Duration) ([]model.Session, error) {
	body, err := c.get(ctx, ResourceSessions, query, ttl)
	if err != nil {
		return nil, err
	}
	return decode[model.Session](body, ResourceSessions)
}

// RaceSessionsForYear returns the race-type sessions (grands prix and sprints)
// of a season in upstream order.
func (c *Client) RaceSessionsForYear(ctx context.Context, year int, ttl time.Duration) ([]model.Session, error) {
	return c.Sessions(ctx, url.Values{
		"year":         []string{strconv.Itoa(year)},
		"session_type": []string{model.SessionTypeRace},
	}, ttl)
}

func (c *Client) Meetings(ctx context.Context, year int, ttl time.Duration) ([]model.Meeting, error) {
	body, err := c.get(ctx, ResourceMeetings, url.Values{"year": []string{strconv.Itoa(year)}}, ttl)
	if err != nil {
		return nil, err
	}
	return decode[model.Meeting](body, ResourceMeetings)
}

type resultRecord struct {
	SessionKey   int       `json:"session_key"`
	MeetingKey   int       `json:"meeting_key"`
	DriverNumber *int      `json:"driver_number"`
	Position     *int      `json:"position"`
	Points       *float64  `json:"points"`
	GapToLeader  model.Gap `json:"gap_to_leader"`
	NumberOfLaps *int      `json:"number_of_laps"`
	DNF          bool      `json:"dnf"`
	DNS          bool      `json:"dns"`
	DSQ          bool      `json:"dsq"`
}

// SessionResults returns the final classification of a session. Records
// without a driver number or points are dropped.
func (c *Client) SessionResults(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.SessionResult, error) {
	body, err := c.get(ctx, ResourceResults, sessionQuery(sessionKey), ttl)
	if err != nil {
		return nil, err
	}
	records, err := decode[resultRecord](body, ResourceResults)
	if err != nil {
		return nil, err
	}

	results := make([]model.SessionResult, 0, len(records))
	for _, r := range records {
		if r.DriverNumber == nil || r.Points == nil {
			continue
		}
		res := model.SessionResult{
			SessionKey:   r.SessionKey,
			MeetingKey:   r.MeetingKey,
			DriverNumber: *r.DriverNumber,
			Points:       *r.Points,
			GapToLeader:  r.GapToLeader,
			DNF:          r.DNF,
			DNS:          r.DNS,
			DSQ:          r.DSQ,
		}
		if res.SessionKey == 0 {
			res.SessionKey = sessionKey
		}
		if r.Position != nil {
			res.Position = *r.Position
		}
		if r.NumberOfLaps != nil {
			res.NumberOfLaps = *r.NumberOfLaps
		}
		results = append(results, res)
	}
	if skipped := len(records) - len(results); skipped > 0 {
		c.logger.Debug("skipped malformed session results",
			zap.Int("session_key", sessionKey),
			zap.Int("skipped", skipped))
	}
	return results, nil
}

type driverRecord struct {
	SessionKey   int    `json:"session_key"`
	DriverNumber *int   `json:"driver_number"`
	TeamName     string `json:"team_name"`
	TeamColour   string `json:"team_colour"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	NameAcronym  string `json:"name_acronym"`
	HeadshotURL  string `json:"headshot_url"`
	CountryCode  string `json:"country_code"`
}

func (c *Client) Drivers(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.DriverIdentity, error) {
	body, err := c.get(ctx, ResourceDrivers, sessionQuery(sessionKey), ttl)
	if err != nil {
		return nil, err
	}
	records, err := decode[driverRecord](body, ResourceDrivers)
	if err != nil {
		return nil, err
	}

	identities := make([]model.DriverIdentity, 0, len(records))
	for _, r := range records {
		if r.DriverNumber == nil {
			continue
		}
		identities = append(identities, model.DriverIdentity{
			SessionKey:   sessionKey,
			DriverNumber: *r.DriverNumber,
			TeamName:     r.TeamName,
			TeamColour:   r.TeamColour,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			FullName:     r.FullName,
			NameAcronym:  r.NameAcronym,
			HeadshotURL:  r.HeadshotURL,
			CountryCode:  r.CountryCode,
		})
	}
	return identities, nil
}

func (c *Client) StartingGrid(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.GridEntry, error) {
	body, err := c.get(ctx, ResourceStartingGrid, sessionQuery(sessionKey), ttl)
	if err != nil {
		return nil, err
	}
	return decode[model.GridEntry](body, ResourceStartingGrid)
}

func (c *Client) Laps(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.Lap, error) {
	body, err := c.get(ctx, ResourceLaps, sessionQuery(sessionKey), ttl)
	if err != nil {
		return nil, err
	}
	return decode[model.Lap](body, ResourceLaps)
}

func (c *Client) Stints(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.Stint, error) {
	body, err := c.get(ctx, ResourceStints, sessionQuery(sessionKey), ttl)
	if err != nil {
		return nil, err
	}
	return decode[model.Stint](body, ResourceStints)
}

func (c *Client) Weather(ctx context.Context, sessionKey int, ttl time.Duration) ([]model.Weather, error) {
	body, err := c.get(ctx, ResourceWeather, sessionQuery(sessionKey), ttl)
	if err != nil {
		return nil, err
	}
	return decode[model.Weather](body, ResourceWeather)
}

// Session looks a single session up by key.
func (c *Client) Session(ctx context.Context, sessionKey int, ttl time.Duration) (model.Session, bool, error) {
	ss, err := c.Sessions(ctx, sessionQuery(sessionKey), ttl)
	if err != nil || len(ss) == 0 {
		return model.Session{}, false, err
	}
	return ss[0], true, nil
}
