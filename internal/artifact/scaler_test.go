package artifact

import (
	"math"
	"testing"
)

func TestStandardScalerTransform(t *testing.T) {
	s := &Scaler{Kind: KindStandard, Mean: []float64{10, 0}, Scale: []float64{2, 1}}

	out, err := s.Transform([][]float64{{14, 3}, {10, -1}})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := [][]float64{{2, 3}, {0, -1}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(out[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("out[%d][%d] = %v, want %v", i, j, out[i][j], want[i][j])
			}
		}
	}
}

func TestMinMaxScalerRoundTrip(t *testing.T) {
	s := &Scaler{Kind: KindMinMax, Scale: []float64{0.1}, Min: []float64{-0.5}}

	out, err := s.Transform([][]float64{{20}})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if math.Abs(out[0][0]-1.5) > 1e-12 {
		t.Errorf("transform = %v, want 1.5", out[0][0])
	}

	back, err := s.InverseValues([]float64{out[0][0]})
	if err != nil {
		t.Fatalf("InverseValues: %v", err)
	}
	if math.Abs(back[0]-20) > 1e-12 {
		t.Errorf("inverse = %v, want 20", back[0])
	}
}

func TestStandardScalerInverseValues(t *testing.T) {
	s := &Scaler{Kind: KindStandard, Mean: []float64{10}, Scale: []float64{2}}

	out, err := s.InverseValues([]float64{0, 1, -0.5})
	if err != nil {
		t.Fatalf("InverseValues: %v", err)
	}
	want := []float64{10, 12, 9}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestScalerValidation(t *testing.T) {
	tests := []struct {
		name   string
		scaler *Scaler
	}{
		{"unknown kind", &Scaler{Kind: "robust", Scale: []float64{1}}},
		{"standard missing mean", &Scaler{Kind: KindStandard, Scale: []float64{1, 1}}},
		{"minmax wrong width", &Scaler{Kind: KindMinMax, Scale: []float64{1}, Min: []float64{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.scaler.Transform([][]float64{{1, 2}}); err == nil {
				t.Error("Transform succeeded, want error")
			}
		})
	}
}
