// Package histogram accumulates sampled voxel values into fixed bins and
// derives the grayscale backdrop row the transfer function panel renders
// behind the opacity plot. It also suggests data-driven windows from the
// empirical distribution.
package histogram

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"volshade/pkg/scalar"
)

// ErrDegenerateWindow is returned when the suggested window would collapse
// onto a single value.
var ErrDegenerateWindow = errors.New("histogram: suggested window is degenerate")

// Histogram counts samples across fixed bins spanning [Lo, Hi). Samples
// outside the span clamp into the edge bins so outliers stay visible at the
// borders, matching how the panel clamps out-of-window values.
type Histogram struct {
	lo, hi   float64
	dividers []float64
	counts   []float64
}

// New returns an empty histogram with the given number of bins across
// [lo, hi).
func New(lo, hi float64, bins int) (*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("histogram: bins must be positive, got %d", bins)
	}
	if !(lo < hi) {
		return nil, fmt.Errorf("histogram: bounds [%v, %v] are not ascending", lo, hi)
	}
	return &Histogram{
		lo:       lo,
		hi:       hi,
		dividers: floats.Span(make([]float64, bins+1), lo, hi),
		counts:   make([]float64, bins),
	}, nil
}

// FromInterval builds a histogram across iv.
func FromInterval(iv scalar.Interval, bins int) (*Histogram, error) {
	return New(iv.Lo.Float64(), iv.Hi.Float64(), bins)
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int { return len(h.counts) }

// Counts returns the per-bin totals. The slice aliases the histogram.
func (h *Histogram) Counts() []float64 { return h.counts }

// Total returns the number of accumulated samples.
func (h *Histogram) Total() float64 { return floats.Sum(h.counts) }

// Add accumulates samples into the bins. NaN samples are dropped; values
// outside the span clamp into the edge bins.
func (h *Histogram) Add(samples []float64) {
	if len(samples) == 0 {
		return
	}
	top := math.Nextafter(h.hi, h.lo)
	clamped := make([]float64, 0, len(samples))
	for _, v := range samples {
		switch {
		case math.IsNaN(v):
			continue
		case v < h.lo:
			v = h.lo
		case v > top:
			v = top
		}
		clamped = append(clamped, v)
	}
	if len(clamped) == 0 {
		return
	}
	sort.Float64s(clamped)
	floats.Add(h.counts, stat.Histogram(nil, h.dividers, clamped, nil))
}

// CDF returns the cumulative distribution at each bin's upper divider,
// normalized to end at 1. An empty histogram yields all zeros.
func (h *Histogram) CDF() []float64 {
	cum := make([]float64, len(h.counts))
	floats.CumSum(cum, h.counts)
	if total := cum[len(cum)-1]; total > 0 {
		floats.Scale(1/total, cum)
	}
	return cum
}

// BackdropRow resamples the CDF onto width grayscale bytes, the row the
// panel uploads behind the opacity plot. The row is monotone nondecreasing
// and reaches 255 whenever any sample was accumulated.
func (h *Histogram) BackdropRow(width int) ([]byte, error) {
	if width < 2 {
		return nil, fmt.Errorf("histogram: backdrop width must be at least 2, got %d", width)
	}
	row := make([]byte, width)
	if h.Total() == 0 {
		return row, nil
	}

	cdf := h.CDF()
	span := h.hi - h.lo
	xs := make([]float64, len(cdf)+1)
	ys := make([]float64, len(cdf)+1)
	for i, v := range cdf {
		xs[i+1] = (h.dividers[i+1] - h.lo) / span
		ys[i+1] = v
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("histogram: fit backdrop curve: %w", err)
	}
	for i := range row {
		v := pl.Predict(float64(i) / float64(width-1))
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		row[i] = uint8(v*255 + 0.5)
	}
	return row, nil
}

// DefaultBins is the bin count used when callers do not manage a histogram
// themselves.
const DefaultBins = 256

// Compute bins samples across the window in one call.
func Compute(samples []float64, bins int, window scalar.Interval) (*Histogram, error) {
	h, err := FromInterval(window, bins)
	if err != nil {
		return nil, err
	}
	h.Add(samples)
	return h, nil
}

// CDFRow bins samples across the window and returns the width-entry
// grayscale backdrop row.
func CDFRow(samples []float64, width int, window scalar.Interval) ([]byte, error) {
	h, err := Compute(samples, DefaultBins, window)
	if err != nil {
		return nil, err
	}
	return h.BackdropRow(width)
}

// SuggestWindow returns the interval covering the central probability mass
// of samples, trimming the given tail fraction from each side. This is how
// a window is picked from the data distribution instead of the type's full
// range.
func SuggestWindow(dt scalar.DataType, samples []float64, tail float64) (scalar.Interval, error) {
	if len(samples) == 0 {
		return scalar.Interval{}, errors.New("histogram: no samples to suggest a window from")
	}
	if tail < 0 || tail >= 0.5 {
		return scalar.Interval{}, fmt.Errorf("histogram: tail fraction %v outside [0, 0.5)", tail)
	}
	sorted := make([]float64, 0, len(samples))
	for _, v := range samples {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return scalar.Interval{}, errors.New("histogram: no samples to suggest a window from")
	}
	sort.Float64s(sorted)

	lo := stat.Quantile(tail, stat.Empirical, sorted, nil)
	hi := stat.Quantile(1-tail, stat.Empirical, sorted, nil)
	if dt.Integer() {
		lo = math.Round(lo)
		hi = math.Round(hi)
	}
	iv := scalar.NewInterval(
		scalar.ClampToRange(dt, scalar.FromFloat64(lo)),
		scalar.ClampToRange(dt, scalar.FromFloat64(hi)),
	)
	if !iv.Valid() {
		return scalar.Interval{}, ErrDegenerateWindow
	}
	return iv, nil
}
