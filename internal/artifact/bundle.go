// Package artifact loads the frozen per-city artifact bundle: fitted
// feature and target scalers, the model readout and the daily
// observation history. Everything loaded here is read-only for the life
// of the process.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlasmet/extremecast/internal/models"
)

// ErrMissing reports a required artifact file that does not exist. The
// HTTP boundary maps it to a not-found response.
var ErrMissing = errors.New("artifact missing")

const (
	featureScalerFile = "feature_scaler.json"
	targetScalersFile = "target_scalers.json"
	historyFile       = "weather.csv"

	// ModelFile is the local model readout; consumed by the model
	// package but resolved against the same bundle directory.
	ModelFile = "model.json"
)

// Bundle is one city's immutable artifact set.
type Bundle struct {
	Dir           string
	FeatureCols   []string
	FeatureScaler *Scaler
	TargetScalers map[string]*Scaler
	History       []models.Observation
}

type featureScalerBundle struct {
	FeatureCols []string `json:"feature_cols"`
	Scaler      *Scaler  `json:"scaler"`
}

// Load reads the scaler bundle, target scalers and observation history
// from dir. Any absent file fails with ErrMissing before computation.
func Load(dir string) (*Bundle, error) {
	var fb featureScalerBundle
	if err := readJSON(filepath.Join(dir, featureScalerFile), &fb); err != nil {
		return nil, err
	}
	if len(fb.FeatureCols) == 0 || fb.Scaler == nil {
		return nil, fmt.Errorf("feature scaler bundle in %s: missing feature_cols or scaler", dir)
	}

	targets := make(map[string]*Scaler)
	if err := readJSON(filepath.Join(dir, targetScalersFile), &targets); err != nil {
		return nil, err
	}
	for _, name := range models.TargetCols {
		if targets[name] == nil {
			return nil, fmt.Errorf("target scalers in %s: missing %q", dir, name)
		}
	}

	history, err := LoadHistory(filepath.Join(dir, historyFile))
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Dir:           dir,
		FeatureCols:   fb.FeatureCols,
		FeatureScaler: fb.Scaler,
		TargetScalers: targets,
		History:       history,
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
