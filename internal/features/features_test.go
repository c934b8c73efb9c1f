package features

import (
	"math"
	"testing"

	"github.com/atlasmet/extremecast/internal/models"
)

func makeObs(dates []string, meanTemps []float64) []models.Observation {
	obs := make([]models.Observation, len(dates))
	for i := range dates {
		obs[i] = models.Observation{
			Date:          dates[i],
			MeanTemp:      meanTemps[i],
			MaxTemp:       meanTemps[i] + 5,
			MinTemp:       meanTemps[i] - 5,
			Precipitation: float64(i),
			WindSpeed:     10,
			DewPoint:      5,
			Visibility:    10,
		}
	}
	return obs
}

func column(t *testing.T, f *Frame, name string) []float64 {
	t.Helper()
	c, ok := f.Column(name)
	if !ok {
		t.Fatalf("column %q not engineered", name)
	}
	return c
}

func TestEngineerTemporalEncodings(t *testing.T) {
	// 2024-01-01 is a Monday: dow = 0.
	obs := makeObs([]string{"2024-01-01", "2024-01-02"}, []float64{10, 12})
	f := Engineer(obs)

	dow := column(t, f, "dow")
	if dow[0] != 0 || dow[1] != 1 {
		t.Errorf("dow = %v, want [0 1]", dow)
	}

	dowSin := column(t, f, "dow_sin")
	dowCos := column(t, f, "dow_cos")
	if math.Abs(dowSin[0]) > 1e-12 {
		t.Errorf("dow_sin[0] = %v, want 0", dowSin[0])
	}
	if math.Abs(dowCos[0]-1) > 1e-12 {
		t.Errorf("dow_cos[0] = %v, want 1", dowCos[0])
	}

	doy := column(t, f, "doy")
	if doy[0] != 1 || doy[1] != 2 {
		t.Errorf("doy = %v, want [1 2]", doy)
	}
	doySin := column(t, f, "doy_sin")
	want := math.Sin(2 * math.Pi * 1 / 365)
	if math.Abs(doySin[0]-want) > 1e-12 {
		t.Errorf("doy_sin[0] = %v, want %v", doySin[0], want)
	}
}

func TestEngineerLagsUndefinedAtStart(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	f := Engineer(makeObs(dates, []float64{10, 11, 12, 13}))

	lag1 := column(t, f, "mean_temperature_lag_1")
	if !math.IsNaN(lag1[0]) {
		t.Errorf("lag_1[0] = %v, want NaN", lag1[0])
	}
	if lag1[1] != 10 || lag1[3] != 12 {
		t.Errorf("lag_1 = %v, want [NaN 10 11 12]", lag1)
	}

	lag3 := column(t, f, "mean_temperature_lag_3")
	for i := 0; i < 3; i++ {
		if !math.IsNaN(lag3[i]) {
			t.Errorf("lag_3[%d] = %v, want NaN", i, lag3[i])
		}
	}
	if lag3[3] != 10 {
		t.Errorf("lag_3[3] = %v, want 10", lag3[3])
	}
}

func TestEngineerRollingPartialWindows(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	f := Engineer(makeObs(dates, []float64{10, 20, 30, 40}))

	// Rolling stats use min one sample: no NaN at the series start.
	rollMean := column(t, f, "mean_temperature_roll_mean_3")
	wantMean := []float64{10, 15, 20, 30}
	for i, want := range wantMean {
		if math.Abs(rollMean[i]-want) > 1e-12 {
			t.Errorf("roll_mean_3[%d] = %v, want %v", i, rollMean[i], want)
		}
	}

	// Precipitation in makeObs is the row index: 0,1,2,3.
	rollSum := column(t, f, "total_precipitation_roll_sum_3")
	wantSum := []float64{0, 1, 3, 6}
	for i, want := range wantSum {
		if math.Abs(rollSum[i]-want) > 1e-12 {
			t.Errorf("roll_sum_3[%d] = %v, want %v", i, rollSum[i], want)
		}
	}
}

func TestEngineerDiffs(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	f := Engineer(makeObs(dates, []float64{10, 14, 13, 20}))

	delta1 := column(t, f, "delta_temp_1d")
	if !math.IsNaN(delta1[0]) {
		t.Errorf("delta_temp_1d[0] = %v, want NaN", delta1[0])
	}
	if delta1[1] != 4 || delta1[2] != -1 || delta1[3] != 7 {
		t.Errorf("delta_temp_1d = %v, want [NaN 4 -1 7]", delta1)
	}

	delta3 := column(t, f, "delta_temp_3d")
	if !math.IsNaN(delta3[2]) {
		t.Errorf("delta_temp_3d[2] = %v, want NaN", delta3[2])
	}
	if delta3[3] != 10 {
		t.Errorf("delta_temp_3d[3] = %v, want 10", delta3[3])
	}

	precipDelta := column(t, f, "precip_increase_1d")
	if precipDelta[1] != 1 {
		t.Errorf("precip_increase_1d[1] = %v, want 1", precipDelta[1])
	}
}

func TestEngineerSortsWithoutMutatingInput(t *testing.T) {
	obs := []models.Observation{
		{Date: "2024-01-03", MeanTemp: 30},
		{Date: "2024-01-01", MeanTemp: 10},
		{Date: "2024-01-02", MeanTemp: 20},
	}
	f := Engineer(obs)

	if f.Dates[0] != "2024-01-01" || f.Dates[2] != "2024-01-03" {
		t.Errorf("frame dates = %v, want chronological", f.Dates)
	}
	mean := column(t, f, "mean_temperature")
	if mean[0] != 10 || mean[2] != 30 {
		t.Errorf("mean_temperature = %v, want sorted [10 20 30]", mean)
	}

	if obs[0].Date != "2024-01-03" {
		t.Errorf("input mutated: obs[0].Date = %s", obs[0].Date)
	}
}

func TestFrameRowMissingColumnIsNaN(t *testing.T) {
	f := Engineer(makeObs([]string{"2024-01-01"}, []float64{10}))
	row := f.Row(0, []string{"mean_temperature", "no_such_feature"})
	if row[0] != 10 {
		t.Errorf("row[0] = %v, want 10", row[0])
	}
	if !math.IsNaN(row[1]) {
		t.Errorf("row[1] = %v, want NaN", row[1])
	}
}
