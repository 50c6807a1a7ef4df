package matrix

import (
	"encoding/binary"
	"fmt"

	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// FromFloat16Bytes interprets data as a row-major rows by cols matrix of
// little endian half precision floats and widens it into a dense matrix
func FromFloat16Bytes(data []byte, rows, cols int) (*mat.Dense, error) {

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrShapeMismatch, rows, cols)
	}

	if len(data) != rows*cols*2 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d half floats",
			ErrShapeMismatch, len(data), rows, cols)
	}

	values := make([]float64, rows*cols)

	for i := range values {
		bits := binary.LittleEndian.Uint16(data[i*2:])
		values[i] = float64(f16LookupTable[bits])
	}

	return mat.NewDense(rows, cols, values), nil
}

// ToFloat16Bytes narrows the matrix values to half precision and returns
// them as row-major little endian bytes
func ToFloat16Bytes(m mat.Matrix) []byte {

	rows, cols := m.Dims()
	out := make([]byte, rows*cols*2)
	i := 0

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			bits := float16.Fromfloat32(float32(m.At(r, c))).Bits()
			binary.LittleEndian.PutUint16(out[i:], bits)
			i += 2
		}
	}

	return out
}
