package pipeline

import (
	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/signalbus"
)

// RootNcclLoop runs on the root rank only. Within one
// GroupStart/GroupEnd pair it drains up to NcclGroupSize items from the
// REDUCE queue, then the BROADCAST queue; for each item it first waits
// for every local non-root to report that item's key ready on its own
// coordinate stage, then tells every local non-root which key to process
// next before issuing the same collective call itself. Once the group
// closes it broadcasts DO_GROUP and hands the whole batch to SyncNccl.
func RootNcclLoop(r *registry.Registry) {
	r.Collective.GroupStart()

	entry := &registry.NcclGroupEntry{}

	for _, op := range ncclOps {
		q := r.Queue(op.qt)
		for i := 0; i < r.NcclGroupSize; i++ {
			item := q.GetTask()
			if item == nil {
				break
			}
			entry.Items = append(entry.Items, item)
			entry.Queues = append(entry.Queues, q)

			if r.LocalSize > 1 {
				readyKind := signalbus.ReduceReady
				doKind := signalbus.DoReduce
				if op.isBcast {
					readyKind = signalbus.BcastReady
					doKind = signalbus.DoBroadcast
				}
				if err := awaitReady(r, readyKind, r.LocalSize-1); err != nil {
					fail(r, "root_nccl", err)
					return
				}

				msg := signalbus.Message{SrcLocalRank: r.LocalRank, Kind: doKind, Key: item.Key}
				if err := r.Bus.BroadcastSignal(r.LocalRank, msg); err != nil {
					fail(r, "root_nccl", err)
					return
				}
			}

			if err := runCollective(r, item, op.isBcast); err != nil {
				fail(r, "root_nccl", err)
				return
			}
		}
	}

	if len(entry.Items) == 0 {
		r.Collective.GroupEnd()
		idle()
		return
	}

	r.Collective.GroupEnd()
	done := signalbus.Message{SrcLocalRank: r.LocalRank, Kind: signalbus.DoGroup}
	if err := r.Bus.BroadcastSignal(r.LocalRank, done); err != nil {
		fail(r, "root_nccl", err)
		return
	}
	r.EnqueueNcclGroup(entry)
}
