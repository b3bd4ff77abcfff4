package workitem

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopStageNextStage(t *testing.T) {
	it := &Item{QueueList: []QueueType{CoordinateReduce, Reduce, CoordinateBroadcast, Broadcast}}

	next, ok := it.NextStage()
	require.True(t, ok)
	assert.Equal(t, CoordinateReduce, next)

	q, ok := it.PopStage()
	require.True(t, ok)
	assert.Equal(t, CoordinateReduce, q)
	assert.Equal(t, []QueueType{Reduce, CoordinateBroadcast, Broadcast}, it.QueueList)

	it.PopStage()
	it.PopStage()
	q, ok = it.PopStage()
	require.True(t, ok)
	assert.Equal(t, Broadcast, q)

	_, ok = it.PopStage()
	assert.False(t, ok)
	_, ok = it.NextStage()
	assert.False(t, ok)
}

func TestHostTensor(t *testing.T) {
	ht := &HostTensor{Buf: []byte{1, 2, 3, 4}, NumElem: 1, Dtype: 7}
	assert.Equal(t, uint64(4), ht.Size())
	assert.Equal(t, uint64(1), ht.NumElements())
	assert.Equal(t, int32(7), ht.DType())
	assert.Equal(t, []byte{1, 2, 3, 4}, ht.Data())
}

func TestQueueTypeString(t *testing.T) {
	assert.Equal(t, "COORDINATE_REDUCE", CoordinateReduce.String())
	assert.Equal(t, "BROADCAST", Broadcast.String())
	assert.Equal(t, "UNKNOWN", QueueType(99).String())
}

func TestCounterSharedAcrossPartitions(t *testing.T) {
	counter := new(atomic.Int64)
	a := &Item{CounterPtr: counter, TotalPartNum: 2}
	b := &Item{CounterPtr: counter, TotalPartNum: 2}

	assert.Equal(t, int64(0), a.CounterPtr.Add(1)-1)
	assert.Equal(t, int64(1), b.CounterPtr.Add(1)-1)
}
