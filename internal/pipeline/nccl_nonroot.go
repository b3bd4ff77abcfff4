package pipeline

import (
	"fmt"

	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// NonRootNcclLoop runs on non-root ranks only. It opens a group, then
// blocks draining signals from the root until DO_GROUP closes it; it
// never initiates a group boundary on its own, only following the root.
func NonRootNcclLoop(r *registry.Registry) {
	r.Collective.GroupStart()

	entry := &registry.NcclGroupEntry{}

	for {
		msg, err := r.Bus.RecvSignal(r.LocalRank)
		if err != nil {
			fail(r, "nonroot_nccl", err)
			return
		}
		if msg.Kind == signalbus.DoGroup {
			break
		}

		isBcast := msg.Kind == signalbus.DoBroadcast
		qt := workitem.Reduce
		if isBcast {
			qt = workitem.Broadcast
		}

		q := r.Queue(qt)
		item := q.GetTaskByKey(msg.Key)
		if item == nil {
			fail(r, "nonroot_nccl", fmt.Errorf("no item for key %d on queue %s", msg.Key, qt))
			return
		}
		entry.Items = append(entry.Items, item)
		entry.Queues = append(entry.Queues, q)

		if err := runCollective(r, item, isBcast); err != nil {
			fail(r, "nonroot_nccl", err)
			return
		}
	}

	r.Collective.GroupEnd()
	r.EnqueueNcclGroup(entry)
}
