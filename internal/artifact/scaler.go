package artifact

import "fmt"

// Scaler kinds supported by the artifact format.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

// Scaler holds fitted, immutable normalization parameters. Standard
// scalers transform (x-mean)/scale; minmax scalers transform
// x*scale+min with inverse (x-min)/scale, matching how the parameters
// were exported from training.
type Scaler struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale"`
	Min   []float64 `json:"min,omitempty"`
}

func (s *Scaler) validate(features int) error {
	switch s.Kind {
	case KindStandard:
		if len(s.Mean) != features || len(s.Scale) != features {
			return fmt.Errorf("standard scaler: have %d/%d params, want %d features", len(s.Mean), len(s.Scale), features)
		}
	case KindMinMax:
		if len(s.Min) != features || len(s.Scale) != features {
			return fmt.Errorf("minmax scaler: have %d/%d params, want %d features", len(s.Min), len(s.Scale), features)
		}
	default:
		return fmt.Errorf("unknown scaler kind %q", s.Kind)
	}
	return nil
}

// Transform normalizes a [rows][features] matrix into a new matrix.
func (s *Scaler) Transform(x [][]float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("transform: empty matrix")
	}
	if err := s.validate(len(x[0])); err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			switch s.Kind {
			case KindStandard:
				out[i][j] = (v - s.Mean[j]) / s.Scale[j]
			case KindMinMax:
				out[i][j] = v*s.Scale[j] + s.Min[j]
			}
		}
	}
	return out, nil
}

// InverseValues denormalizes a slice belonging to a single-feature
// scaler, applying the first parameter elementwise. Used for per-target
// scalers over one target's horizon slice.
func (s *Scaler) InverseValues(vals []float64) ([]float64, error) {
	if err := s.validate(1); err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		switch s.Kind {
		case KindStandard:
			out[i] = v*s.Scale[0] + s.Mean[0]
		case KindMinMax:
			out[i] = (v - s.Min[0]) / s.Scale[0]
		}
	}
	return out, nil
}
