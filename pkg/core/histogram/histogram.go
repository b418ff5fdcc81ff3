package histogram

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
)

// Histogram is an m×m grid of point counts with the bin edges of both axes.
// Counts[i][j] holds the points in x-bin i and y-bin j.
type Histogram struct {
	M      int       `json:"m"`
	Counts [][]int   `json:"counts"`
	XEdges []float64 `json:"x_edges"`
	YEdges []float64 `json:"y_edges"`
}

// ValidRange returns the inclusive lower and exclusive upper bound for m
// given num points. The upper bound is √num, returned as a float.
func ValidRange(num int) (lo int, hi float64) {
	return max(1, num/100), math.Sqrt(float64(num))
}

// CheckM reports an InvalidArgument error unless num/100 <= m < √num and m >= 1.
// m*m < num is checked as m <= (num-1)/m, which cannot overflow.
func CheckM(num, m int) error {
	lo, hi := ValidRange(num)
	if m < lo || m > (num-1)/m {
		return errors.New(errors.ErrCodeInvalidArgument,
			"invalid value for 'm' %d: must satisfy %d <= m < sqrt(%d) = %.4g", m, lo, num, hi)
	}
	return nil
}

// Discretise bins points into an m×m histogram over their bounding box.
// It fails with InvalidArgument before touching the points when m is out of
// range.
func Discretise(points []ifs.Point, m int) (*Histogram, error) {
	if err := CheckM(len(points), m); err != nil {
		return nil, err
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	h := &Histogram{
		M:      m,
		Counts: make([][]int, m),
		XEdges: edges(xs, m),
		YEdges: edges(ys, m),
	}
	for i := range h.Counts {
		h.Counts[i] = make([]int, m)
	}
	for k := range points {
		h.Counts[bin(h.XEdges, xs[k])][bin(h.YEdges, ys[k])]++
	}
	return h, nil
}

// edges returns m+1 evenly spaced bin edges covering vals.
func edges(vals []float64, m int) []float64 {
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	e := floats.Span(make([]float64, m+1), lo, hi)
	// Pin the outer edge to the exact maximum so it is always counted.
	e[m] = hi
	return e
}

// bin locates v in edges using left-closed bins with a closed last bin.
func bin(e []float64, v float64) int {
	m := len(e) - 1
	width := (e[m] - e[0]) / float64(m)
	i := int((v - e[0]) / width)
	i = min(max(i, 0), m-1)
	// Correct for rounding in the division against the stored edges.
	for i > 0 && v < e[i] {
		i--
	}
	for i < m-1 && v >= e[i+1] {
		i++
	}
	return i
}

// Total returns the sum of all counts.
func (h *Histogram) Total() int {
	n := 0
	for _, row := range h.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// Max returns the largest single cell count.
func (h *Histogram) Max() int {
	best := 0
	for _, row := range h.Counts {
		for _, c := range row {
			best = max(best, c)
		}
	}
	return best
}

// Occupied returns the number of non-empty cells.
func (h *Histogram) Occupied() int {
	n := 0
	for _, row := range h.Counts {
		for _, c := range row {
			if c > 0 {
				n++
			}
		}
	}
	return n
}
