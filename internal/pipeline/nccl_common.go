package pipeline

import (
	"context"

	"github.com/Light-Reflection/byteps/internal/codec"
	"github.com/Light-Reflection/byteps/internal/collective"
	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// runCollective decodes item's tensor window into float64s, rendezvouses
// with every other local rank through the collective, and writes the
// combined result back into the same window. Reduce operates on item's
// input tensor; Broadcast operates on item's output tensor, matching the
// fact that a broadcast's destination is the tensor the caller reads the
// result from.
func runCollective(r *registry.Registry, item *workitem.Item, isBcast bool) error {
	tensor := item.Tensor
	if isBcast {
		tensor = item.Output
	}
	window := tensor.Data()[item.Offset : item.Offset+item.Len]
	buf := codec.BytesToFloat64Slice(window)

	var err error
	if isBcast {
		err = r.Collective.Broadcast(context.Background(), item.Key, r.LocalRank, buf, r.RootRank)
	} else {
		err = r.Collective.Reduce(context.Background(), item.Key, r.LocalRank, buf, collective.Sum, r.RootRank)
	}
	if err != nil {
		return err
	}
	copy(window, codec.Float64SliceToBytes(buf))
	return nil
}

// ncclOp pairs a queue_list stage with whether it is the broadcast leg;
// RootNcclLoop derives the readiness and DO_* signal kinds from isBcast.
type ncclOp struct {
	qt      workitem.QueueType
	isBcast bool
}

var ncclOps = []ncclOp{
	{workitem.Reduce, false},
	{workitem.Broadcast, true},
}

// awaitReady blocks until want readiness signals of the given kind have
// arrived on the root's own inbox. The root's inbox only ever carries
// ReduceReady/BcastReady (every other signal kind flows root-to-non-root,
// which skips the source on a broadcast), so the root can drain exactly
// want of them without a per-key bucket: every rank enqueues the same
// tensors in the same order, so the i-th readiness signal for an op
// always corresponds to the i-th item the root itself just popped.
//
// ReduceReady and BcastReady share that one inbox, and a non-root's
// CoordinateReduceLoop/CoordinateBroadcastLoop run as independent
// goroutines, so with two tensors pipelined a BcastReady from one
// tensor's trailing broadcast phase can arrive interleaved with the
// ReduceReady signals for the next tensor's reduce phase. awaitReady
// only consumes signals of the kind it was asked for and stashes any
// other kind on the registry for a later awaitReady call of that kind
// to pick up, rather than miscounting across kinds.
func awaitReady(r *registry.Registry, kind signalbus.Kind, want int) error {
	got := 0
	for got < want {
		if msg, ok := r.TakeReadySignal(kind); ok {
			_ = msg
			got++
			continue
		}
		msg, err := r.Bus.RecvSignal(r.LocalRank)
		if err != nil {
			return err
		}
		if msg.Kind == kind {
			got++
			continue
		}
		r.StashReadySignal(msg.Kind, msg)
	}
	return nil
}
