package pipeline

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Light-Reflection/byteps/internal/collective"
	"github.com/Light-Reflection/byteps/internal/device"
	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

func newTestRegistry() *registry.Registry {
	cfg := registry.Config{Rank: 0, LocalRank: 0, Size: 1, LocalSize: 1, RootRank: 0}
	return registry.New(cfg, signalbus.New(1), collective.NewLocal(1), nil, device.NewSimulated(64), nil)
}

func TestFinishOrProceedAdvancesToNextStage(t *testing.T) {
	r := newTestRegistry()
	var counter atomic.Int64
	item := &workitem.Item{
		QueueList:    []workitem.QueueType{workitem.CopyD2H, workitem.Push},
		CounterPtr:   &counter,
		TotalPartNum: 1,
	}

	FinishOrProceed(r, item)

	assert.Equal(t, 1, r.Queue(workitem.Push).Len())
	assert.Equal(t, int64(0), counter.Load(), "counter must not advance until the last stage finishes")
}

func TestFinishOrProceedFiresCallbackOnLastPartition(t *testing.T) {
	r := newTestRegistry()
	var counter atomic.Int64
	var fired int
	cb := func(err error) { fired++ }

	first := &workitem.Item{QueueList: []workitem.QueueType{workitem.Push}, CounterPtr: &counter, TotalPartNum: 2, Callback: cb}
	second := &workitem.Item{QueueList: []workitem.QueueType{workitem.Push}, CounterPtr: &counter, TotalPartNum: 2, Callback: cb}

	FinishOrProceed(r, first)
	assert.Equal(t, 0, fired, "callback must wait for every partition")

	FinishOrProceed(r, second)
	assert.Equal(t, 1, fired)
}

func TestFinishOrProceedEmptyQueueListFinalizesImmediately(t *testing.T) {
	r := newTestRegistry()
	var counter atomic.Int64
	var gotErr error
	called := false

	item := &workitem.Item{
		CounterPtr:   &counter,
		TotalPartNum: 1,
		Callback: func(err error) {
			called = true
			gotErr = err
		},
	}

	FinishOrProceed(r, item)

	assert.True(t, called)
	assert.NoError(t, gotErr)
}
