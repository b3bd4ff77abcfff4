// Package partition splits a full tensor enqueue into fixed-bounded
// partitions that share one completion counter, one callback, and one
// queue list.
package partition

import (
	"fmt"
	"sync/atomic"

	"github.com/Light-Reflection/byteps/internal/workitem"
)

// Spec describes the full tensor an Item partitions.
type Spec struct {
	TensorName string
	Device     int
	Priority   int
	Version    int
	Tensor     workitem.Tensor // may be nil on a broadcast-only enqueue
	Output     workitem.Tensor
	ReadyEvent workitem.ReadyEvent
	CPUBuff    []byte
	QueueList  []workitem.QueueType
	Callback   workitem.StatusCallback
}

func (s Spec) size() uint64 {
	if s.Tensor != nil {
		return s.Tensor.Size()
	}
	return s.Output.Size()
}

// Split divides spec's tensor into partitions of at most bound bytes each.
// The i-th partition starts at i*bound, has length min(bound, size-i*bound), and is
// named tensorName + "_" + i. Every partition shares one *atomic.Int64
// completion counter and the same total partition count, satisfying the
// invariant that a tensor's callback fires exactly once regardless of how
// many partitions it was split into.
//
// Keys are left at their zero value; EnqueueTensor assigns them from the
// owning context's key list once the caller knows the final partition
// count matches len(key_list).
func Split(spec Spec, bound uint64) []*workitem.Item {
	size := spec.size()
	if size == 0 {
		return nil
	}
	n := (size + bound - 1) / bound

	counter := new(atomic.Int64)
	items := make([]*workitem.Item, 0, n)

	var offset uint64
	for i := uint64(0); offset < size; i++ {
		length := bound
		if size-offset < bound {
			length = size - offset
		}
		items = append(items, &workitem.Item{
			TensorName:   fmt.Sprintf("%s_%d", spec.TensorName, i),
			Device:       spec.Device,
			Priority:     spec.Priority,
			Version:      spec.Version,
			Tensor:       spec.Tensor,
			Output:       spec.Output,
			ReadyEvent:   spec.ReadyEvent,
			Offset:       offset,
			Len:          length,
			CPUBuff:      spec.CPUBuff,
			QueueList:    append([]workitem.QueueType(nil), spec.QueueList...),
			CounterPtr:   counter,
			TotalPartNum: int64(n),
			Callback:     spec.Callback,
		})
		offset += length
	}
	return items
}
