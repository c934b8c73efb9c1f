package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/atlasmet/extremecast/internal/artifact"
	"github.com/atlasmet/extremecast/internal/models"
)

// historyDays builds n consecutive daily observations starting
// 2024-01-01 with mean temperature 10+i and no rain.
func historyDays(n int) []models.Observation {
	obs := make([]models.Observation, n)
	for i := range obs {
		obs[i] = models.Observation{
			Date:          fmt.Sprintf("2024-01-%02d", i+1),
			MeanTemp:      10 + float64(i),
			MaxTemp:       15 + float64(i),
			MinTemp:       5 + float64(i),
			Precipitation: 0,
			WindSpeed:     10,
			DewPoint:      5,
			Visibility:    10,
		}
	}
	return obs
}

func identityScaler(width int) *artifact.Scaler {
	s := &artifact.Scaler{Kind: artifact.KindStandard}
	for i := 0; i < width; i++ {
		s.Mean = append(s.Mean, 0)
		s.Scale = append(s.Scale, 1)
	}
	return s
}

func TestBuildWindow(t *testing.T) {
	cols := []string{"mean_temperature", "mean_temperature_lag_7"}

	window, err := BuildWindow(historyDays(21), cols, identityScaler(2))
	if err != nil {
		t.Fatalf("BuildWindow: %v", err)
	}
	if len(window) != models.Lookback {
		t.Fatalf("window rows = %d, want %d", len(window), models.Lookback)
	}

	// The window covers the last 14 of 21 rows: first row is day 8
	// (mean 17) and its 7-day lag is day 1 (mean 10).
	if window[0][0] != 17 || window[0][1] != 10 {
		t.Errorf("window[0] = %v, want [17 10]", window[0])
	}
	last := window[models.Lookback-1]
	if last[0] != 30 || last[1] != 23 {
		t.Errorf("window[13] = %v, want [30 23]", last)
	}
}

func TestBuildWindowInsufficientHistory(t *testing.T) {
	cols := []string{"mean_temperature", "mean_temperature_lag_7"}

	// 14 rows engineer fine, but the lag is NaN over the window head.
	_, err := BuildWindow(historyDays(14), cols, identityScaler(2))
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("14 rows: err = %v, want ErrInsufficientHistory", err)
	}

	// Fewer rows than the lookback fails before the NaN scan.
	_, err = BuildWindow(historyDays(10), cols, identityScaler(2))
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("10 rows: err = %v, want ErrInsufficientHistory", err)
	}
}

func TestBuildWindowUnknownFeature(t *testing.T) {
	_, err := BuildWindow(historyDays(21), []string{"no_such_feature"}, identityScaler(1))
	if err == nil {
		t.Fatal("BuildWindow succeeded with unknown feature column")
	}
	if errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("unknown feature misreported as insufficient history: %v", err)
	}
}
