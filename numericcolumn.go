package ecs

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NumericColumn is a dense, D-wide matrix of float64 rows that grows by
// amortized doubling and exposes a stable row handle: once a row index is
// assigned to an entity it keeps referring to the same logical slot across
// growth, since EnsureCapacity copies existing rows into the new backing
// matrix rather than reassigning them. Rows with no assigned owner hold the
// sentinel fill value (NaN by default, see Config.SetSentinel), and the
// growth factor and sentinel are fixed at construction, not re-read from
// the package-level Config on every growth.
type NumericColumn struct {
	dense *mat.Dense
	cols  int

	growthFactor float64
	sentinel     float64
}

// NewNumericColumn allocates a column with room for at least initialRows
// rows of cols dimensions each, filled with the sentinel value, using the
// package-level Config's current growth factor and sentinel.
func NewNumericColumn(initialRows, cols int) *NumericColumn {
	return newNumericColumnWithConfig(initialRows, cols, Config.growthFactor, Config.sentinel)
}

func newNumericColumnWithConfig(initialRows, cols int, growthFactor, sentinel float64) *NumericColumn {
	if initialRows < 1 {
		initialRows = 1
	}
	n := &NumericColumn{cols: cols, growthFactor: growthFactor, sentinel: sentinel}
	data := make([]float64, initialRows*cols)
	n.fill(data)
	n.dense = mat.NewDense(initialRows, cols, data)
	return n
}

func (n *NumericColumn) fill(data []float64) {
	for i := range data {
		data[i] = n.sentinel
	}
}

// Capacity returns the number of rows currently allocated, not the number
// in use.
func (n *NumericColumn) Capacity() int {
	r, _ := n.dense.Dims()
	return r
}

// Cols returns the column's fixed dimensionality.
func (n *NumericColumn) Cols() int { return n.cols }

// Read copies out row's values.
func (n *NumericColumn) Read(row int) ([]float64, error) {
	cap := n.Capacity()
	if row < 0 || row >= cap {
		return nil, &RowOutOfRangeError{Row: row, Capacity: cap}
	}
	out := make([]float64, n.cols)
	mat.Row(out, row, n.dense)
	return out, nil
}

// ReadRange copies out rows [lo, hi) as a fresh matrix, leaving the column
// untouched.
func (n *NumericColumn) ReadRange(lo, hi int) (*mat.Dense, error) {
	cap := n.Capacity()
	if lo < 0 || hi > cap || lo > hi {
		return nil, &RowOutOfRangeError{Row: lo, Capacity: cap}
	}
	out := mat.NewDense(hi-lo, n.cols, nil)
	out.Copy(n.dense.Slice(lo, hi, 0, n.cols))
	return out, nil
}

// Write overwrites row's values in place.
func (n *NumericColumn) Write(row int, values []float64) error {
	cap := n.Capacity()
	if row < 0 || row >= cap {
		return &RowOutOfRangeError{Row: row, Capacity: cap}
	}
	if len(values) != n.cols {
		return &DimensionMismatchError{Expected: n.cols, Got: len(values)}
	}
	n.dense.SetRow(row, values)
	return nil
}

// clearRow writes the sentinel across every lane of row, marking it absent.
func (n *NumericColumn) clearRow(row int) {
	for j := 0; j < n.cols; j++ {
		n.dense.Set(row, j, n.sentinel)
	}
}

// EnsureCapacity grows the column so it holds at least minRows rows,
// scaling the current capacity by this column's growth factor (amortized
// doubling) when that alone would satisfy minRows, and to exactly minRows
// otherwise. Existing rows are copied into the new backing matrix at the
// same index, so row handles already handed out stay valid.
func (n *NumericColumn) EnsureCapacity(minRows int) {
	current := n.Capacity()
	if minRows <= current {
		return
	}
	newRows := minRows
	if scaled := int(math.Ceil(float64(current) * n.growthFactor)); scaled > newRows {
		newRows = scaled
	}
	data := make([]float64, newRows*n.cols)
	n.fill(data)
	grown := mat.NewDense(newRows, n.cols, data)
	if current > 0 {
		dst := grown.Slice(0, current, 0, n.cols).(*mat.Dense)
		dst.Copy(n.dense)
	}
	n.dense = grown
}

// ShrinkTo reallocates the column down to exactly newRows rows, discarding
// anything beyond it. Callers are responsible for ensuring no live entity
// still owns a row at or beyond newRows.
func (n *NumericColumn) ShrinkTo(newRows int) {
	current := n.Capacity()
	if newRows >= current || newRows < 0 {
		return
	}
	data := make([]float64, newRows*n.cols)
	shrunk := mat.NewDense(newRows, n.cols, data)
	if newRows > 0 {
		shrunk.Copy(n.dense.Slice(0, newRows, 0, n.cols))
	}
	n.dense = shrunk
}

// The following ufunc-style operations read through the column's current
// backing matrix rather than caching it, so they stay correct across a
// resize. Each returns a freshly allocated matrix; none mutate the
// receiver or its operand.

// Add returns the elementwise sum of n and other over their full capacity.
// Both columns must share the same shape.
func (n *NumericColumn) Add(other *NumericColumn) (*mat.Dense, error) {
	if err := n.checkSameShape(other); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Add(n.dense, other.dense)
	return &out, nil
}

// Sub returns the elementwise difference n - other.
func (n *NumericColumn) Sub(other *NumericColumn) (*mat.Dense, error) {
	if err := n.checkSameShape(other); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Sub(n.dense, other.dense)
	return &out, nil
}

// MulElem returns the elementwise (Hadamard) product of n and other.
func (n *NumericColumn) MulElem(other *NumericColumn) (*mat.Dense, error) {
	if err := n.checkSameShape(other); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.MulElem(n.dense, other.dense)
	return &out, nil
}

// Scale returns n's backing matrix multiplied elementwise by factor.
func (n *NumericColumn) Scale(factor float64) *mat.Dense {
	var out mat.Dense
	out.Scale(factor, n.dense)
	return &out
}

// Apply returns the result of applying fn to every element of n.
func (n *NumericColumn) Apply(fn func(i, j int, v float64) float64) *mat.Dense {
	var out mat.Dense
	out.Apply(fn, n.dense)
	return &out
}

// Eq returns a mask matrix holding 1 where n and other are elementwise
// equal and 0 elsewhere. NaN compares unequal to everything, including
// itself, so sentinel rows never read as equal.
func (n *NumericColumn) Eq(other *NumericColumn) (*mat.Dense, error) {
	return n.compare(other, func(a, b float64) bool { return a == b })
}

// Less returns a mask matrix holding 1 where n's element is strictly less
// than other's and 0 elsewhere.
func (n *NumericColumn) Less(other *NumericColumn) (*mat.Dense, error) {
	return n.compare(other, func(a, b float64) bool { return a < b })
}

func (n *NumericColumn) compare(other *NumericColumn, pred func(a, b float64) bool) (*mat.Dense, error) {
	if err := n.checkSameShape(other); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Apply(func(i, j int, v float64) float64 {
		if pred(v, other.dense.At(i, j)) {
			return 1
		}
		return 0
	}, n.dense)
	return &out, nil
}

// AndBits, OrBits, and XorBits combine n and other over the raw IEEE-754
// bit patterns of their elements. Only meaningful for columns used to carry
// flag words; arithmetic values round-trip through Float64bits unchanged
// but rarely combine usefully.
func (n *NumericColumn) AndBits(other *NumericColumn) (*mat.Dense, error) {
	return n.bitwise(other, func(a, b uint64) uint64 { return a & b })
}

// OrBits is the bitwise-or counterpart of AndBits.
func (n *NumericColumn) OrBits(other *NumericColumn) (*mat.Dense, error) {
	return n.bitwise(other, func(a, b uint64) uint64 { return a | b })
}

// XorBits is the bitwise-xor counterpart of AndBits.
func (n *NumericColumn) XorBits(other *NumericColumn) (*mat.Dense, error) {
	return n.bitwise(other, func(a, b uint64) uint64 { return a ^ b })
}

func (n *NumericColumn) bitwise(other *NumericColumn, op func(a, b uint64) uint64) (*mat.Dense, error) {
	if err := n.checkSameShape(other); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Apply(func(i, j int, v float64) float64 {
		return math.Float64frombits(op(math.Float64bits(v), math.Float64bits(other.dense.At(i, j))))
	}, n.dense)
	return &out, nil
}

func (n *NumericColumn) checkSameShape(other *NumericColumn) error {
	r1, c1 := n.dense.Dims()
	r2, c2 := other.dense.Dims()
	if r1 != r2 || c1 != c2 {
		return &ShapeMismatchError{Expected: [2]int{r1, c1}, Got: [2]int{r2, c2}}
	}
	return nil
}
