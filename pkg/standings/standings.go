// Package standings derives championship tables from chronologically ordered
// race results. Everything here is pure: no I/O, no shared state.
package standings

import (
	"sort"

	"f1dashboard/pkg/model"
)

// NoPointsReached marks drivers that only appear in identity records.
const NoPointsReached = -1

// ComputeDriverStandings ranks every driver seen in results by total points.
// results must already be in chronological session order; ties are broken in
// favour of the driver who reached their final total later in the sequence.
func ComputeDriverStandings(results []model.SessionResult, identities []model.DriverIdentity) []model.DriverStandingEntry {
	if len(results) == 0 {
		return []model.DriverStandingEntry{}
	}

	totals := map[int]float64{}
	order := []int{}
	for _, r := range results {
		if _, seen := totals[r.DriverNumber]; !seen {
			order = append(order, r.DriverNumber)
		}
		totals[r.DriverNumber] += r.Points
	}

	running := make(map[int]float64, len(totals))
	lastSeenIdx := make(map[int]int, len(totals))
	for i, r := range results {
		running[r.DriverNumber] += r.Points
		if running[r.DriverNumber] == totals[r.DriverNumber] {
			lastSeenIdx[r.DriverNumber] = i
		}
	}

	// last-seen-wins: later identity records overwrite earlier ones
	latest := make(map[int]model.DriverIdentity, len(identities))
	for _, id := range identities {
		if _, seen := totals[id.DriverNumber]; !seen {
			if _, known := latest[id.DriverNumber]; !known {
				order = append(order, id.DriverNumber)
			}
		}
		latest[id.DriverNumber] = id
	}

	entries := make([]model.DriverStandingEntry, 0, len(order))
	for _, number := range order {
		entry := model.DriverStandingEntry{
			DriverNumber:         number,
			Points:               totals[number],
			LastPointsReachedIdx: NoPointsReached,
		}
		if idx, ok := lastSeenIdx[number]; ok {
			entry.LastPointsReachedIdx = idx
		}
		if id, ok := latest[number]; ok {
			entry.TeamName = id.TeamName
			entry.TeamColour = id.TeamColour
			entry.FirstName = id.FirstName
			entry.LastName = id.LastName
			entry.NameAcronym = id.NameAcronym
			entry.HeadshotURL = id.HeadshotURL
			entry.CountryCode = id.CountryCode
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].LastPointsReachedIdx > entries[j].LastPointsReachedIdx
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// ComputeConstructorStandings rolls driver standings up per team. Drivers
// without a team name are left out of the constructor table.
func ComputeConstructorStandings(drivers []model.DriverStandingEntry) []model.ConstructorStandingEntry {
	byTeam := map[string]int{}
	entries := []model.ConstructorStandingEntry{}
	for _, d := range drivers {
		if d.TeamName == "" {
			continue
		}
		idx, ok := byTeam[d.TeamName]
		if !ok {
			idx = len(entries)
			byTeam[d.TeamName] = idx
			entries = append(entries, model.ConstructorStandingEntry{
				TeamName:   d.TeamName,
				TeamColour: d.TeamColour,
			})
		}
		entries[idx].Points += d.Points
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].TeamName < entries[j].TeamName
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
