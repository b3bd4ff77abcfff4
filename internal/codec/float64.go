// Package codec converts between the byte windows the pipeline moves
// around and the float64 slices the collective ops reduce over.
package codec

import (
	"encoding/binary"
	"math"
)

// Float64SliceToBytes packs floats little-endian, 8 bytes each.
func Float64SliceToBytes(floats []float64) []byte {
	out := make([]byte, len(floats)*8)
	for i, f := range floats {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(f))
	}
	return out
}

// BytesToFloat64Slice is the inverse of Float64SliceToBytes. len(data) must
// be a multiple of 8.
func BytesToFloat64Slice(data []byte) []float64 {
	out := make([]float64, len(data)/8)
	for i := range out {
		bits := binary.LittleEndian.Uint64(data[i*8:])
		out[i] = math.Float64frombits(bits)
	}
	return out
}
