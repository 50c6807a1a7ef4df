// Package matrix converts between raw row-major numeric buffers and gonum
// dense matrices at the boundary where frame metadata meets inference
// tensors. Buffers are little endian.
package matrix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/swdee/go-framemeta/geometry"
)

var (
	// ErrUnsupportedElementSize is returned for element widths other than
	// the supported float sizes
	ErrUnsupportedElementSize = errors.New("unsupported element size")
	// ErrShapeMismatch is returned when a buffer or matrix does not fit
	// the requested shape
	ErrShapeMismatch = errors.New("shape mismatch")
)

// FromBytes interprets data as a row-major rows by cols matrix of little
// endian floats and returns it as a dense matrix. elemSize selects the
// element width, 4 for float32 and 8 for float64.
func FromBytes(data []byte, rows, cols, elemSize int) (*mat.Dense, error) {

	if elemSize != 4 && elemSize != 8 {
		return nil, fmt.Errorf("%w: %d byte elements", ErrUnsupportedElementSize,
			elemSize)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrShapeMismatch, rows, cols)
	}

	if len(data) != rows*cols*elemSize {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d elements of %d bytes",
			ErrShapeMismatch, len(data), rows, cols, elemSize)
	}

	values := make([]float64, rows*cols)

	switch elemSize {
	case 4:
		for i := range values {
			bits := binary.LittleEndian.Uint32(data[i*4:])
			values[i] = float64(math.Float32frombits(bits))
		}
	case 8:
		for i := range values {
			bits := binary.LittleEndian.Uint64(data[i*8:])
			values[i] = math.Float64frombits(bits)
		}
	}

	return mat.NewDense(rows, cols, values), nil
}

// ToBytes serializes the matrix to row-major little endian bytes. elemSize
// selects the element width, 4 for float32 and 8 for float64. Writing
// float32 narrows the values.
func ToBytes(m mat.Matrix, elemSize int) ([]byte, error) {

	if elemSize != 4 && elemSize != 8 {
		return nil, fmt.Errorf("%w: %d byte elements", ErrUnsupportedElementSize,
			elemSize)
	}

	rows, cols := m.Dims()
	out := make([]byte, rows*cols*elemSize)
	i := 0

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			switch elemSize {
			case 4:
				bits := math.Float32bits(float32(m.At(r, c)))
				binary.LittleEndian.PutUint32(out[i:], bits)
			case 8:
				bits := math.Float64bits(m.At(r, c))
				binary.LittleEndian.PutUint64(out[i:], bits)
			}

			i += elemSize
		}
	}

	return out, nil
}

// FromRBBoxes packs the boxes into an n by 5 dense matrix with one row of
// xc, yc, width, height, angle per box. Boxes without an angle store 0.
// At least one box is required.
func FromRBBoxes(boxes []geometry.RBBox) (*mat.Dense, error) {

	if len(boxes) == 0 {
		return nil, fmt.Errorf("%w: no boxes", ErrShapeMismatch)
	}

	values := make([]float64, 0, len(boxes)*5)

	for _, b := range boxes {
		values = append(values, b.XCenter(), b.YCenter(), b.Width(),
			b.Height(), b.AngleOrZero())
	}

	return mat.NewDense(len(boxes), 5, values), nil
}

// ToRBBoxes unpacks an n by 5 matrix of xc, yc, width, height, angle rows
// into boxes. Boxes built from a matrix always carry a defined angle.
func ToRBBoxes(m mat.Matrix) ([]geometry.RBBox, error) {

	rows, cols := m.Dims()

	if cols != 5 {
		return nil, fmt.Errorf("%w: %d columns, want 5", ErrShapeMismatch, cols)
	}

	boxes := make([]geometry.RBBox, rows)

	for r := 0; r < rows; r++ {
		boxes[r] = geometry.NewRBBoxWithAngle(m.At(r, 0), m.At(r, 1),
			m.At(r, 2), m.At(r, 3), m.At(r, 4))
	}

	return boxes, nil
}
