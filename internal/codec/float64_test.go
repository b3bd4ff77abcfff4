package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	in := []float64{1, -2.5, 3.125, 0, 1e300}
	got := BytesToFloat64Slice(Float64SliceToBytes(in))
	assert.Equal(t, in, got)
}

func TestFloat64SliceToBytesLength(t *testing.T) {
	b := Float64SliceToBytes([]float64{1, 2, 3})
	assert.Len(t, b, 24)
}

func TestBytesToFloat64SliceEmpty(t *testing.T) {
	assert.Empty(t, BytesToFloat64Slice(nil))
}
