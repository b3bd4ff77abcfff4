// Package queue implements the per-stage Scheduled Queue: a priority FIFO
// with a side lookup by key and a finished-bytes credit counter. The queue
// has no shutdown gate of its own: AddTask and GetTask keep working after
// shutdown, and stage loops stop polling through the registry's shutdown
// flag instead.
// No library in the retrieved pack offers this shape (priority + keyed
// dequeue + credit counter) as a ready-made type, and the contract is a
// thin wrapper over container/heap, so it is built on the standard library
// rather than pulled in as a dependency.
package queue

import (
	"container/heap"
	"sync"

	"github.com/Light-Reflection/byteps/internal/workitem"
)

// entry is one heap slot. seq breaks priority ties in enqueue order:
// lower priority value dequeues first, and among equal priorities, the
// item enqueued earlier dequeues first.
type entry struct {
	item *workitem.Item
	seq  uint64
}

type byPriority []*entry

func (h byPriority) Len() int { return len(h) }
func (h byPriority) Less(i, j int) bool {
	if h[i].item.Priority != h[j].item.Priority {
		return h[i].item.Priority < h[j].item.Priority
	}
	return h[i].seq < h[j].seq
}
func (h byPriority) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *byPriority) Push(x any)        { *h = append(*h, x.(*entry)) }
func (h *byPriority) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Queue is one pipeline stage's Scheduled Queue.
type Queue struct {
	mu      sync.Mutex
	heap    byPriority
	byKey   map[uint64]*workitem.Item
	nextSeq uint64
	credit  int64 // bytes reported finished, for backpressure/observability
	name    workitem.QueueType
}

// New creates an empty Scheduled Queue for the given stage.
func New(name workitem.QueueType) *Queue {
	return &Queue{
		byKey: make(map[uint64]*workitem.Item),
		name:  name,
	}
}

// Name reports which stage this queue serves.
func (q *Queue) Name() workitem.QueueType { return q.name }

// AddTask enqueues an item. It is always ready to be added; ReadyEvent
// gating happens at GetTask time. The credit counter does not throttle
// dispatch.
func (q *Queue) AddTask(item *workitem.Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	heap.Push(&q.heap, &entry{item: item, seq: q.nextSeq})
	q.nextSeq++
	q.byKey[item.Key] = item
}

// GetTask non-blockingly returns the highest-priority ready item, skipping
// over items whose ReadyEvent has not fired yet, or nil if no item in the
// queue is currently ready. Skipped items are pushed back in their
// original relative order, so a not-yet-ready high-priority item never
// starves the items behind it. The returned item's ReadyEvent is cleared,
// since it gates only the stage it was dispatched out of.
func (q *Queue) GetTask() *workitem.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	var skipped []*entry
	var found *entry
	for q.heap.Len() > 0 {
		e := heap.Pop(&q.heap).(*entry)
		if e.item.ReadyEvent != nil && !e.item.ReadyEvent.Ready() {
			skipped = append(skipped, e)
			continue
		}
		found = e
		break
	}
	for _, e := range skipped {
		heap.Push(&q.heap, e)
	}
	if found == nil {
		return nil
	}
	delete(q.byKey, found.item.Key)
	found.item.ReadyEvent = nil
	return found.item
}

// GetTaskByKey non-blockingly removes and returns the item enqueued under
// key, or nil if absent. Used only by stages that await a specific
// signal (NonRootNccl); absence is treated by the caller as a bug, since
// the coordinating stage always enqueues the item before sending the
// corresponding signal.
func (q *Queue) GetTaskByKey(key uint64) *workitem.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.byKey[key]
	if !ok {
		return nil
	}
	delete(q.byKey, key)
	q.removeFromHeap(key)
	return item
}

// removeFromHeap drops the heap slot holding key. O(n) in queue depth;
// GetTaskByKey is only used by the non-root NCCL path.
func (q *Queue) removeFromHeap(key uint64) {
	for i, e := range q.heap {
		if e.item.Key == key {
			heap.Remove(&q.heap, i)
			return
		}
	}
}

// ReportFinish records bytes processed, for backpressure and observability.
func (q *Queue) ReportFinish(bytes uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.credit += int64(bytes)
}

// Credit returns the cumulative bytes reported finished on this queue.
func (q *Queue) Credit() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.credit
}

// Len reports the number of items currently waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}
