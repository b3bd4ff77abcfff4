// Package pipeline implements the stage loops that move a partition
// through its queue list, plus the shared FinishOrProceed advancement
// contract every stage calls after performing its own work.
package pipeline

import (
	"time"

	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// idleBackoff is how long a stage loop sleeps after finding its queue
// empty, before polling again.
const idleBackoff = time.Microsecond

func idle() { time.Sleep(idleBackoff) }

// FinishOrProceed pops the stage an item just completed off its queue
// list. If stages remain, it enqueues the item on the next one. Otherwise
// it atomically advances the item's shared completion counter and, on
// the partition that brings the counter to the tensor's total partition
// count, fires the callback exactly once.
func FinishOrProceed(r *registry.Registry, item *workitem.Item) {
	if _, ok := item.PopStage(); !ok {
		finalize(item)
		return
	}
	if next, ok := item.NextStage(); ok {
		r.Queue(next).AddTask(item)
		return
	}
	finalize(item)
}

func finalize(item *workitem.Item) {
	pre := item.CounterPtr.Add(1) - 1
	if pre == item.TotalPartNum-1 && item.Callback != nil {
		item.Callback(nil)
	}
}

// fail logs an infrastructure error and requests that the whole registry
// shut down: collective, copy, and parameter-server errors are fatal to
// the run, with no retry.
func fail(r *registry.Registry, stage string, err error) {
	r.Logger.Errorw("stage failed, shutting down", "stage", stage, "error", err)
	r.RequestShutdown()
}
