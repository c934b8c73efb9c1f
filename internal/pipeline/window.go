// Package pipeline bridges raw observations and the frozen model:
// window construction, denormalization of model output, forecast
// assembly and the end-to-end runner. One invocation is a pure,
// synchronous transform of one artifact bundle.
package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/atlasmet/extremecast/internal/artifact"
	"github.com/atlasmet/extremecast/internal/features"
	"github.com/atlasmet/extremecast/internal/models"
)

// ErrInsufficientHistory reports NaNs in the inference window after
// feature engineering. The caller needs at least Lookback plus the
// longest lag of clean trailing history.
var ErrInsufficientHistory = errors.New("insufficient history")

// BuildWindow engineers features over the history, takes the last
// Lookback rows restricted to featureCols and normalizes them. This is
// the single validation gate protecting the model from malformed input.
func BuildWindow(history []models.Observation, featureCols []string, scaler *artifact.Scaler) ([][]float64, error) {
	frame := features.Engineer(history)

	if frame.Len() < models.Lookback {
		return nil, fmt.Errorf("%w: %d rows after feature engineering, need %d", ErrInsufficientHistory, frame.Len(), models.Lookback)
	}
	for _, name := range featureCols {
		if _, ok := frame.Column(name); !ok {
			return nil, fmt.Errorf("feature column %q not produced by feature engineering", name)
		}
	}

	start := frame.Len() - models.Lookback
	raw := make([][]float64, models.Lookback)
	for i := 0; i < models.Lookback; i++ {
		row := frame.Row(start+i, featureCols)
		for j, v := range row {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%w: %s undefined on %s", ErrInsufficientHistory, featureCols[j], frame.Dates[start+i])
			}
		}
		raw[i] = row
	}

	return scaler.Transform(raw)
}
