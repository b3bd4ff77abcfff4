package pipeline

import (
	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// CoordinateReduceLoop runs on non-root ranks only.
func CoordinateReduceLoop(r *registry.Registry) {
	coordinateOnce(r, workitem.CoordinateReduce, signalbus.ReduceReady)
}

// CoordinateBroadcastLoop runs on non-root ranks only.
func CoordinateBroadcastLoop(r *registry.Registry) {
	coordinateOnce(r, workitem.CoordinateBroadcast, signalbus.BcastReady)
}

// coordinateOnce advances the item to its next queue *before* signaling
// the root, so that the root's resulting DO_REDUCE/DO_BROADCAST is never
// observed before the keyed item is visible on this rank's Nccl queue.
func coordinateOnce(r *registry.Registry, stage workitem.QueueType, kind signalbus.Kind) {
	q := r.Queue(stage)
	item := q.GetTask()
	if item == nil {
		idle()
		return
	}

	key := item.Key
	length := item.Len
	FinishOrProceed(r, item)

	msg := signalbus.Message{SrcLocalRank: r.LocalRank, Kind: kind, Key: key}
	if err := r.Bus.SendSignal(r.RootRank, msg); err != nil {
		fail(r, "coordinate", err)
		return
	}
	q.ReportFinish(length)
}
