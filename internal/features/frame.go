package features

import "math"

// Frame is a date-indexed column table of engineered features. Columns
// are aligned to the same row count; missing leading values (lags,
// diffs) are NaN.
type Frame struct {
	Dates []string
	cols  map[string][]float64
	order []string
}

func newFrame(dates []string) *Frame {
	return &Frame{
		Dates: dates,
		cols:  make(map[string][]float64),
	}
}

func (f *Frame) set(name string, vals []float64) {
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = vals
}

// Column returns the named column, or false if it was never engineered.
func (f *Frame) Column(name string) ([]float64, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Columns returns all column names in engineering order.
func (f *Frame) Columns() []string {
	return f.order
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Dates)
}

// Row extracts the given row restricted to cols, in order. Columns not
// present in the frame yield NaN.
func (f *Frame) Row(i int, cols []string) []float64 {
	row := make([]float64, len(cols))
	for j, name := range cols {
		c, ok := f.cols[name]
		if !ok || i >= len(c) {
			row[j] = math.NaN()
			continue
		}
		row[j] = c[i]
	}
	return row
}
