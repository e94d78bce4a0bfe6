package charts

import (
	"testing"
	"time"

	"f1dashboard/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secs(v float64) *float64 { return &v }

func TestLapSeries(t *testing.T) {
	laps := []model.Lap{
		{DriverNumber: 44, LapNumber: 2, LapDuration: secs(92.1)},
		{DriverNumber: 1, LapNumber: 1},
		{DriverNumber: 1, LapNumber: 3, LapDuration: secs(95.0), IsPitOutLap: true},
		{DriverNumber: 1, LapNumber: 2, LapDuration: secs(91.4)},
		{DriverNumber: 44, LapNumber: 3, LapDuration: secs(90.9)},
	}

	series := LapSeries(laps)
	require.Len(t, series, 2)

	assert.Equal(t, 1, series[0].DriverNumber)
	assert.Equal(t, []LapPoint{{Lap: 2, Seconds: 91.4}, {Lap: 3, Seconds: 95.0, PitOut: true}}, series[0].Laps)
	assert.Equal(t, 91.4, series[0].Best)

	assert.Equal(t, 44, series[1].DriverNumber)
	assert.Equal(t, 90.9, series[1].Best)
}

func TestLapSeriesEmpty(t *testing.T) {
	assert.Empty(t, LapSeries(nil))
	assert.NotNil(t, LapSeries(nil))
}

func TestStintBars(t *testing.T) {
	stints := []model.Stint{
		{DriverNumber: 16, StintNumber: 2, Compound: "HARD", LapStart: 20},
		{DriverNumber: 16, StintNumber: 1, Compound: "MEDIUM", LapStart: 1, LapEnd: 19},
		{DriverNumber: 4, StintNumber: 1, LapStart: 1, LapEnd: 31, TyreAgeAtStart: 3},
	}

	bars := StintBars(stints)
	require.Len(t, bars, 2)

	assert.Equal(t, 4, bars[0].DriverNumber)
	assert.Equal(t, StintBar{Stint: 1, Compound: "UNKNOWN", LapStart: 1, LapEnd: 31, Laps: 31, TyreAge: 3}, bars[0].Stints[0])

	require.Len(t, bars[1].Stints, 2)
	assert.Equal(t, "MEDIUM", bars[1].Stints[0].Compound)
	assert.Equal(t, 19, bars[1].Stints[0].Laps)
	// open stint runs up to the latest lap known in the session
	assert.Equal(t, 31, bars[1].Stints[1].LapEnd)
	assert.Equal(t, 12, bars[1].Stints[1].Laps)
}

func TestWeatherSeries(t *testing.T) {
	t0 := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	samples := []model.Weather{
		{Date: t0.Add(time.Minute), AirTemperature: 18.5, TrackTemperature: 25, Rainfall: 1},
		{Date: t0, AirTemperature: 18.1, TrackTemperature: 26.2},
	}

	w := WeatherSeries(samples)
	assert.Equal(t, []time.Time{t0, t0.Add(time.Minute)}, w.Time)
	assert.Equal(t, []float64{18.1, 18.5}, w.AirTemperature)
	assert.Equal(t, []float64{26.2, 25}, w.TrackTemperature)
	assert.Equal(t, []bool{false, true}, w.Rainfall)
	assert.Equal(t, t0.Add(time.Minute), samples[0].Date)
}
