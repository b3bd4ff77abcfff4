package pipeline

import "github.com/Light-Reflection/byteps/internal/registry"

// SyncNcclLoop runs on every rank. It dequeues one completed group batch
// and advances every item in it. This engine's collectives already block
// until every local rank's rendezvous completes, so there is no separate
// accelerator event to wait on here — the group is synchronized by the
// time it reaches this queue.
func SyncNcclLoop(r *registry.Registry) {
	entry := r.DequeueNcclGroup()
	if entry == nil {
		idle()
		return
	}
	for i, item := range entry.Items {
		length := item.Len
		FinishOrProceed(r, item)
		if i < len(entry.Queues) {
			entry.Queues[i].ReportFinish(length)
		}
	}
}
