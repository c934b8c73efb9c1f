package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/atlasmet/extremecast/internal/artifact"
	"github.com/atlasmet/extremecast/internal/models"
)

const dateFormat = "2006-01-02"

// Assemble turns the model's flat scaled output into dated per-variable
// forecast records. Each target's Horizon-length slice is denormalized
// with that target's own scaler, values are rounded to 2 decimals and
// floored at zero uniformly across all variables, and dates run from
// the day after the last observed date with no gaps.
func Assemble(flat []float64, scalers map[string]*artifact.Scaler, lastDate string) ([]models.ForecastDay, error) {
	want := models.Horizon * len(models.TargetCols)
	if len(flat) != want {
		return nil, fmt.Errorf("assemble: model output has %d values, want %d", len(flat), want)
	}

	real := make([]float64, len(flat))
	for i, name := range models.TargetCols {
		scaler := scalers[name]
		if scaler == nil {
			return nil, fmt.Errorf("assemble: no scaler for target %q", name)
		}
		inv, err := scaler.InverseValues(flat[i*models.Horizon : (i+1)*models.Horizon])
		if err != nil {
			return nil, fmt.Errorf("assemble: inverse scale %s: %w", name, err)
		}
		copy(real[i*models.Horizon:(i+1)*models.Horizon], inv)
	}

	start, err := time.Parse(dateFormat, lastDate)
	if err != nil {
		return nil, fmt.Errorf("assemble: bad last history date %q: %w", lastDate, err)
	}

	days := make([]models.ForecastDay, models.Horizon)
	for d := 0; d < models.Horizon; d++ {
		values := make(map[string]models.Measurement, len(models.TargetCols))
		for j, name := range models.TargetCols {
			v := round2(real[d*len(models.TargetCols)+j])
			if v < 0 {
				v = 0
			}
			values[name] = models.Measurement{Value: v, Unit: models.TargetUnits[name]}
		}
		days[d] = models.ForecastDay{
			Date:   start.AddDate(0, 0, d+1).Format(dateFormat),
			Values: values,
		}
	}
	return days, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
