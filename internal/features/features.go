// Package features derives calendar, lag, rolling and delta features
// from a daily observation series. Engineering is side-effect free: the
// input series is never mutated and the output frame is freshly built
// on every call.
package features

import (
	"math"
	"sort"
	"time"

	"github.com/atlasmet/extremecast/internal/models"
)

const dateFormat = "2006-01-02"

// Engineer builds the full feature frame for a daily observation series.
// Observations are sorted chronologically first (on a copy). Lag and
// diff columns are NaN until enough trailing history exists; rolling
// windows use a minimum of one sample, so they are defined from day one.
func Engineer(obs []models.Observation) *Frame {
	sorted := make([]models.Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	n := len(sorted)
	dates := make([]string, n)
	meanTemp := make([]float64, n)
	maxTemp := make([]float64, n)
	minTemp := make([]float64, n)
	precip := make([]float64, n)
	wind := make([]float64, n)
	dew := make([]float64, n)
	vis := make([]float64, n)
	for i, o := range sorted {
		dates[i] = o.Date
		meanTemp[i] = o.MeanTemp
		maxTemp[i] = o.MaxTemp
		minTemp[i] = o.MinTemp
		precip[i] = o.Precipitation
		wind[i] = o.WindSpeed
		dew[i] = o.DewPoint
		vis[i] = o.Visibility
	}

	f := newFrame(dates)
	f.set("mean_temperature", meanTemp)
	f.set("max_temperature", maxTemp)
	f.set("min_temperature", minTemp)
	f.set("total_precipitation", precip)
	f.set("mean_windSpeed", wind)
	f.set("mean_dewPoint", dew)
	f.set("mean_visibility", vis)

	// Temporal encodings: day-of-week period 7, day-of-year period 365.
	dow := make([]float64, n)
	dowSin := make([]float64, n)
	dowCos := make([]float64, n)
	doy := make([]float64, n)
	doySin := make([]float64, n)
	doyCos := make([]float64, n)
	for i, date := range dates {
		t, err := time.Parse(dateFormat, date)
		if err != nil {
			dow[i], doy[i] = math.NaN(), math.NaN()
			dowSin[i], dowCos[i] = math.NaN(), math.NaN()
			doySin[i], doyCos[i] = math.NaN(), math.NaN()
			continue
		}
		// Monday = 0, matching the training features.
		d := float64((int(t.Weekday()) + 6) % 7)
		y := float64(t.YearDay())
		dow[i] = d
		dowSin[i] = math.Sin(2 * math.Pi * d / 7)
		dowCos[i] = math.Cos(2 * math.Pi * d / 7)
		doy[i] = y
		doySin[i] = math.Sin(2 * math.Pi * y / 365)
		doyCos[i] = math.Cos(2 * math.Pi * y / 365)
	}
	f.set("dow", dow)
	f.set("dow_sin", dowSin)
	f.set("dow_cos", dowCos)
	f.set("doy", doy)
	f.set("doy_sin", doySin)
	f.set("doy_cos", doyCos)

	f.set("mean_temperature_lag_1", shift(meanTemp, 1))
	f.set("mean_temperature_lag_3", shift(meanTemp, 3))
	f.set("mean_temperature_lag_7", shift(meanTemp, 7))

	f.set("mean_temperature_roll_mean_3", rollingMean(meanTemp, 3))
	f.set("total_precipitation_roll_sum_3", rollingSum(precip, 3))
	f.set("mean_temperature_roll_mean_7", rollingMean(meanTemp, 7))
	f.set("total_precipitation_roll_sum_7", rollingSum(precip, 7))

	f.set("delta_temp_1d", diff(meanTemp, 1))
	f.set("delta_temp_3d", diff(meanTemp, 3))
	f.set("wind_increase_1d", diff(wind, 1))
	f.set("precip_increase_1d", diff(precip, 1))

	return f
}

// shift returns the series lagged by k days; the first k values are NaN.
func shift(vals []float64, k int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		if i < k {
			out[i] = math.NaN()
			continue
		}
		out[i] = vals[i-k]
	}
	return out
}

// diff returns the k-day first difference; the first k values are NaN.
func diff(vals []float64, k int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		if i < k {
			out[i] = math.NaN()
			continue
		}
		out[i] = vals[i] - vals[i-k]
	}
	return out
}

// rollingMean computes a trailing w-day mean with min one sample, so
// partial windows at the series start stay defined.
func rollingMean(vals []float64, w int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		start := i - w + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}

// rollingSum computes a trailing w-day sum with min one sample.
func rollingSum(vals []float64, w int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		start := i - w + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += vals[j]
		}
		out[i] = sum
	}
	return out
}
