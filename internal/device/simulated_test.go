package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedCopyRoundTrip(t *testing.T) {
	d := NewSimulated(16)
	ctx := context.Background()

	require.NoError(t, d.CopyH2D(ctx, 4, []byte{1, 2, 3, 4}))

	got := make([]byte, 4)
	require.NoError(t, d.CopyD2H(ctx, got, 4, 4))
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestSimulatedCopyH2DOutOfBounds(t *testing.T) {
	d := NewSimulated(8)
	err := d.CopyH2D(context.Background(), 4, []byte{1, 2, 3, 4, 5})
	assert.Error(t, err)
}

func TestSimulatedCopyD2HOutOfBounds(t *testing.T) {
	d := NewSimulated(8)
	dst := make([]byte, 4)
	err := d.CopyD2H(context.Background(), dst, 6, 4)
	assert.Error(t, err)
}

func TestSimulatedCopyD2HDestinationTooSmall(t *testing.T) {
	d := NewSimulated(8)
	dst := make([]byte, 2)
	err := d.CopyD2H(context.Background(), dst, 0, 4)
	assert.Error(t, err)
}

func TestSimulatedSize(t *testing.T) {
	d := NewSimulated(1024)
	assert.Equal(t, uint64(1024), d.Size())
}

func TestTensorWrapsDeviceMemory(t *testing.T) {
	d := NewSimulated(32)
	require.NoError(t, d.CopyH2D(context.Background(), 0, []byte{9, 9, 9, 9}))

	tensor := NewTensor(d, 4, 0)
	assert.Equal(t, uint64(32), tensor.Size())
	assert.Equal(t, uint64(4), tensor.NumElements())
	assert.Equal(t, []byte{9, 9, 9, 9}, tensor.Data()[:4])
}
