// Package workitem defines the immutable-after-enqueue descriptor of one
// partition's journey through the pipeline, modeled on BytePS's
// TensorTableEntry.
package workitem

import "sync/atomic"

// Tensor is the narrow surface the engine needs from a framework tensor
// handle: a raw byte view plus enough shape/type metadata to drive a
// collective call.
type Tensor interface {
	Data() []byte
	Size() uint64
	NumElements() uint64
	DType() int32
}

// QueueType names one pipeline stage. Values double as the stage's queue
// key in the registry.
type QueueType int

const (
	CoordinateReduce QueueType = iota
	Reduce
	CoordinateBroadcast
	Broadcast
	CopyD2H
	Push
	Pull
	CopyH2D
)

// Collective synchronization is deliberately not a QueueType: it is
// driven by the NCCL group hand-off once every item in a group reaches
// the collective stage, not by appearing in any item's QueueList.

func (q QueueType) String() string {
	switch q {
	case CoordinateReduce:
		return "COORDINATE_REDUCE"
	case Reduce:
		return "REDUCE"
	case CoordinateBroadcast:
		return "COORDINATE_BROADCAST"
	case Broadcast:
		return "BROADCAST"
	case CopyD2H:
		return "COPY_D2H"
	case Push:
		return "PUSH"
	case Pull:
		return "PULL"
	case CopyH2D:
		return "COPY_H2D"
	default:
		return "UNKNOWN"
	}
}

// CPUDeviceID is the sentinel device id meaning "already on host memory",
// mirroring BytePS's CPU_DEVICE_ID.
const CPUDeviceID = -1

// StatusCallback is invoked exactly once per enqueued tensor, on the last
// partition to finish.
type StatusCallback func(err error)

// ReadyEvent is an opaque readiness token a front end may attach to an
// enqueued tensor, mirroring a framework-side CUDA/stream event the engine
// has no business understanding. Ready is polled non-blockingly rather
// than waited on, so a stage loop never stalls behind a front end that is
// slow to fire it.
type ReadyEvent interface {
	Ready() bool
}

// Item is one partition's traversal descriptor. Multiple queues and
// in-flight continuations may reference the same *Item concurrently
// (e.g. a Push completion racing SyncNccl on a sibling partition); the
// fields below are written once at construction and never mutated except
// for QueueList, which only the owning stage goroutine pops from, and
// ReadyEvent, which the queue that dispatches the item clears exactly once.
type Item struct {
	TensorName string
	Key        uint64
	Device     int
	Priority   int
	Version    int

	Tensor Tensor // input, nil on the broadcast-only path when reusing output
	Output Tensor

	// ReadyEvent gates dispatch out of the first queue this item sits on.
	// Nil means no gating. GetTask clears it once consumed, so it is
	// checked at most once per item regardless of how many stages follow.
	ReadyEvent ReadyEvent

	Offset uint64
	Len    uint64

	CPUBuff []byte // pinned host staging buffer owned by the BPSContext

	QueueList []QueueType

	CounterPtr   *atomic.Int64
	TotalPartNum int64
	Callback     StatusCallback
}

// PopStage removes and returns the current (first) stage, reporting
// whether any stage remained to pop.
func (it *Item) PopStage() (QueueType, bool) {
	if len(it.QueueList) == 0 {
		return 0, false
	}
	q := it.QueueList[0]
	it.QueueList = it.QueueList[1:]
	return q, true
}

// NextStage reports the stage that would be popped by PopStage, without
// mutating the item. Returns ok=false when the list is empty.
func (it *Item) NextStage() (QueueType, bool) {
	if len(it.QueueList) == 0 {
		return 0, false
	}
	return it.QueueList[0], true
}

// HostTensor is the plain host-memory Tensor implementation used whenever
// a partition's Device equals CPUDeviceID — no accelerator is involved, so
// Data() is just the backing slice.
type HostTensor struct {
	Buf         []byte
	NumElem     uint64
	Dtype       int32
}

func (t *HostTensor) Data() []byte        { return t.Buf }
func (t *HostTensor) Size() uint64        { return uint64(len(t.Buf)) }
func (t *HostTensor) NumElements() uint64 { return t.NumElem }
func (t *HostTensor) DType() int32        { return t.Dtype }
