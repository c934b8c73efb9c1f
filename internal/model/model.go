// Package model defines the frozen forecast model contract: a
// normalized [Lookback x F] window in, a flat [Horizon x targets]
// scaled vector out. The network itself is external; this package
// provides a local affine readout loaded from the artifact bundle and a
// client for a remote inference server.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlasmet/extremecast/internal/artifact"
	"github.com/atlasmet/extremecast/internal/models"
)

// Model is the inference contract consumed by the pipeline.
type Model interface {
	Name() string
	Predict(window [][]float64) ([]float64, error)
}

// Affine is a frozen linear readout over the flattened window. It
// stands in for the trained network when inference runs in-process.
type Affine struct {
	name      string
	lookback  int
	inputSize int
	weights   [][]float64 // [output][lookback*inputSize]
	bias      []float64
}

type affineFile struct {
	Name       string      `json:"name"`
	Lookback   int         `json:"lookback"`
	InputSize  int         `json:"input_size"`
	OutputSize int         `json:"output_size"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

// LoadAffine reads the model readout from an artifact directory.
func LoadAffine(dir string) (*Affine, error) {
	path := filepath.Join(dir, artifact.ModelFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", artifact.ErrMissing, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	var f affineFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}

	outputSize := models.Horizon * len(models.TargetCols)
	if f.OutputSize != outputSize {
		return nil, fmt.Errorf("model %s: output_size %d, want %d", path, f.OutputSize, outputSize)
	}
	if f.Lookback != models.Lookback {
		return nil, fmt.Errorf("model %s: lookback %d, want %d", path, f.Lookback, models.Lookback)
	}
	if len(f.Weights) != outputSize || len(f.Bias) != outputSize {
		return nil, fmt.Errorf("model %s: %d weight rows / %d biases, want %d", path, len(f.Weights), len(f.Bias), outputSize)
	}
	flat := f.Lookback * f.InputSize
	for i, row := range f.Weights {
		if len(row) != flat {
			return nil, fmt.Errorf("model %s: weight row %d has %d values, want %d", path, i, len(row), flat)
		}
	}

	name := f.Name
	if name == "" {
		name = "WeatherLSTM"
	}
	return &Affine{
		name:      name,
		lookback:  f.Lookback,
		inputSize: f.InputSize,
		weights:   f.Weights,
		bias:      f.Bias,
	}, nil
}

func (m *Affine) Name() string { return m.name }

// Predict computes the flat scaled output for one normalized window.
func (m *Affine) Predict(window [][]float64) ([]float64, error) {
	if len(window) != m.lookback {
		return nil, fmt.Errorf("predict: window has %d rows, want %d", len(window), m.lookback)
	}
	for i, row := range window {
		if len(row) != m.inputSize {
			return nil, fmt.Errorf("predict: window row %d has %d features, want %d", i, len(row), m.inputSize)
		}
	}

	out := make([]float64, len(m.bias))
	for o := range out {
		sum := m.bias[o]
		w := m.weights[o]
		for t, row := range window {
			base := t * m.inputSize
			for j, v := range row {
				sum += w[base+j] * v
			}
		}
		out[o] = sum
	}
	return out, nil
}
