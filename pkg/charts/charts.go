// Package charts reshapes raw session telemetry into series a frontend can
// plot without further processing.
package charts

import (
	"sort"
	"time"

	"f1dashboard/pkg/model"
)

type LapPoint struct {
	Lap     int     `json:"lap"`
	Seconds float64 `json:"seconds"`
	PitOut  bool    `json:"pit_out"`
}

type DriverLaps struct {
	DriverNumber int        `json:"driver_number"`
	Laps         []LapPoint `json:"laps"`
	Best         float64    `json:"best"`
}

// LapSeries groups laps per driver ordered by lap number. Laps without a
// recorded duration (usually the first lap and red flags) are dropped. Pit-out
// laps are kept but never count as the driver's best lap.
func LapSeries(laps []model.Lap) []DriverLaps {
	byDriver := map[int]*DriverLaps{}
	order := []int{}
	for _, l := range laps {
		if l.LapDuration == nil || *l.LapDuration <= 0 {
			continue
		}
		d, ok := byDriver[l.DriverNumber]
		if !ok {
			d = &DriverLaps{DriverNumber: l.DriverNumber, Laps: []LapPoint{}}
			byDriver[l.DriverNumber] = d
			order = append(order, l.DriverNumber)
		}
		d.Laps = append(d.Laps, LapPoint{Lap: l.LapNumber, Seconds: *l.LapDuration, PitOut: l.IsPitOutLap})
		if !l.IsPitOutLap && (d.Best == 0 || *l.LapDuration < d.Best) {
			d.Best = *l.LapDuration
		}
	}

	sort.Ints(order)
	out := make([]DriverLaps, 0, len(order))
	for _, n := range order {
		d := byDriver[n]
		sort.SliceStable(d.Laps, func(i, j int) bool { return d.Laps[i].Lap < d.Laps[j].Lap })
		out = append(out, *d)
	}
	return out
}

type StintBar struct {
	Stint    int    `json:"stint"`
	Compound string `json:"compound"`
	LapStart int    `json:"lap_start"`
	LapEnd   int    `json:"lap_end"`
	Laps     int    `json:"laps"`
	TyreAge  int    `json:"tyre_age_at_start"`
}

type DriverStints struct {
	DriverNumber int        `json:"driver_number"`
	Stints       []StintBar `json:"stints"`
}

// StintBars groups stints per driver in stint order. An open stint (lap_end
// still unknown while the session runs) ends at the latest lap seen so far.
func StintBars(stints []model.Stint) []DriverStints {
	lastLap := 0
	for _, s := range stints {
		if s.LapEnd > lastLap {
			lastLap = s.LapEnd
		}
		if s.LapStart > lastLap {
			lastLap = s.LapStart
		}
	}

	byDriver := map[int]*DriverStints{}
	order := []int{}
	for _, s := range stints {
		d, ok := byDriver[s.DriverNumber]
		if !ok {
			d = &DriverStints{DriverNumber: s.DriverNumber, Stints: []StintBar{}}
			byDriver[s.DriverNumber] = d
			order = append(order, s.DriverNumber)
		}
		end := s.LapEnd
		if end == 0 {
			end = lastLap
		}
		compound := s.Compound
		if compound == "" {
			compound = "UNKNOWN"
		}
		laps := 0
		if end >= s.LapStart && s.LapStart > 0 {
			laps = end - s.LapStart + 1
		}
		d.Stints = append(d.Stints, StintBar{
			Stint:    s.StintNumber,
			Compound: compound,
			LapStart: s.LapStart,
			LapEnd:   end,
			Laps:     laps,
			TyreAge:  s.TyreAgeAtStart,
		})
	}

	sort.Ints(order)
	out := make([]DriverStints, 0, len(order))
	for _, n := range order {
		d := byDriver[n]
		sort.SliceStable(d.Stints, func(i, j int) bool { return d.Stints[i].Stint < d.Stints[j].Stint })
		out = append(out, *d)
	}
	return out
}

// Weather holds parallel arrays; index i of every slice is the same sample.
type Weather struct {
	Time             []time.Time `json:"time"`
	AirTemperature   []float64   `json:"air_temperature"`
	TrackTemperature []float64   `json:"track_temperature"`
	Humidity         []float64   `json:"humidity"`
	Rainfall         []bool      `json:"rainfall"`
	WindSpeed        []float64   `json:"wind_speed"`
}

func WeatherSeries(samples []model.Weather) Weather {
	sorted := make([]model.Weather, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	w := Weather{
		Time:             make([]time.Time, 0, len(sorted)),
		AirTemperature:   make([]float64, 0, len(sorted)),
		TrackTemperature: make([]float64, 0, len(sorted)),
		Humidity:         make([]float64, 0, len(sorted)),
		Rainfall:         make([]bool, 0, len(sorted)),
		WindSpeed:        make([]float64, 0, len(sorted)),
	}
	for _, s := range sorted {
		w.Time = append(w.Time, s.Date)
		w.AirTemperature = append(w.AirTemperature, s.AirTemperature)
		w.TrackTemperature = append(w.TrackTemperature, s.TrackTemperature)
		w.Humidity = append(w.Humidity, s.Humidity)
		w.Rainfall = append(w.Rainfall, s.Rainfall > 0)
		w.WindSpeed = append(w.WindSpeed, s.WindSpeed)
	}
	return w
}
