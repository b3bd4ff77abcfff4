package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Light-Reflection/byteps/internal/workitem"
)

type fakeTensor struct {
	buf []byte
}

func (f *fakeTensor) Data() []byte        { return f.buf }
func (f *fakeTensor) Size() uint64        { return uint64(len(f.buf)) }
func (f *fakeTensor) NumElements() uint64 { return uint64(len(f.buf)) / 8 }
func (f *fakeTensor) DType() int32        { return 0 }

func TestSplitExactMultiple(t *testing.T) {
	// S10: size == k*bound produces exactly k partitions of len==bound.
	const bound = 1024
	tensor := &fakeTensor{buf: make([]byte, bound*3)}
	items := Split(Spec{TensorName: "t", Tensor: tensor}, bound)

	require.Len(t, items, 3)
	var total uint64
	for _, it := range items {
		assert.Equal(t, uint64(bound), it.Len)
		total += it.Len
	}
	assert.Equal(t, tensor.Size(), total)
	assert.Equal(t, int64(3), items[0].TotalPartNum)
}

func TestSplitBelowBound(t *testing.T) {
	// S9: size <= bound produces exactly one partition.
	tensor := &fakeTensor{buf: make([]byte, 17)}
	items := Split(Spec{TensorName: "t", Tensor: tensor}, 1024)

	require.Len(t, items, 1)
	assert.Equal(t, uint64(17), items[0].Len)
	assert.Equal(t, uint64(0), items[0].Offset)
}

func TestSplitRemainder(t *testing.T) {
	// S3: 3*B+17 with bound B produces 4 partitions: B, B, B, 17.
	const bound = 64
	tensor := &fakeTensor{buf: make([]byte, 3*bound+17)}
	items := Split(Spec{TensorName: "grad", Tensor: tensor}, bound)

	require.Len(t, items, 4)
	assert.Equal(t, []uint64{bound, bound, bound, 17}, []uint64{items[0].Len, items[1].Len, items[2].Len, items[3].Len})

	var total uint64
	for _, it := range items {
		total += it.Len
		assert.Equal(t, int64(4), it.TotalPartNum)
		assert.Same(t, items[0].CounterPtr, it.CounterPtr)
	}
	assert.Equal(t, tensor.Size(), total)

	for i, it := range items {
		assert.Equal(t, "grad_"+[]string{"0", "1", "2", "3"}[i], it.TensorName)
	}
}

func TestSplitOffsetsContiguous(t *testing.T) {
	const bound = 10
	tensor := &fakeTensor{buf: make([]byte, 25)}
	items := Split(Spec{TensorName: "t", Tensor: tensor}, bound)

	require.Len(t, items, 3)
	assert.Equal(t, uint64(0), items[0].Offset)
	assert.Equal(t, uint64(10), items[1].Offset)
	assert.Equal(t, uint64(20), items[2].Offset)
	assert.Equal(t, uint64(5), items[2].Len)
}

func TestSplitNilTensorUsesOutputSize(t *testing.T) {
	// Broadcast-only enqueue: input is nil, output carries the size.
	output := &fakeTensor{buf: make([]byte, 30)}
	items := Split(Spec{TensorName: "t", Output: output}, 10)

	require.Len(t, items, 3)
	for _, it := range items {
		assert.Nil(t, it.Tensor)
		assert.Same(t, output, it.Output)
	}
}

func TestSplitZeroSize(t *testing.T) {
	tensor := &fakeTensor{buf: nil}
	items := Split(Spec{TensorName: "t", Tensor: tensor}, 1024)
	assert.Nil(t, items)
}

func TestSplitCopiesQueueListPerItem(t *testing.T) {
	tensor := &fakeTensor{buf: make([]byte, 20)}
	queueList := []workitem.QueueType{workitem.CoordinateReduce, workitem.Reduce}
	items := Split(Spec{TensorName: "t", Tensor: tensor, QueueList: queueList}, 10)

	require.Len(t, items, 2)
	items[0].PopStage()
	assert.Equal(t, []workitem.QueueType{workitem.CoordinateReduce, workitem.Reduce}, items[1].QueueList)
}
