// Package engine implements the public entry points: init/shutdown,
// enqueue-tensor, init-tensor, and the rank/role queries a front end
// drives the whole pipeline through.
package engine

import (
	"context"
	"fmt"

	"github.com/Light-Reflection/byteps/internal/collective"
	"github.com/Light-Reflection/byteps/internal/device"
	"github.com/Light-Reflection/byteps/internal/logging"
	"github.com/Light-Reflection/byteps/internal/partition"
	"github.com/Light-Reflection/byteps/internal/pipeline"
	"github.com/Light-Reflection/byteps/internal/psclient"
	"github.com/Light-Reflection/byteps/internal/registry"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// Engine is one rank's entry point into the pipeline. cmd/worker and the
// tests construct several in one process, one per local rank.
type Engine struct {
	r *registry.Registry
}

// New constructs an Engine around a freshly built Registry. It does not
// start any stage loops; call Init for that.
func New(cfg registry.Config, bus signalbus.Bus, coll collective.Collective, ps psclient.Client, dev device.Device, logger *logging.Logger) *Engine {
	return &Engine{r: registry.New(cfg, bus, coll, ps, dev, logger)}
}

// Init starts the role-appropriate set of stage loops: the root drives
// the device-facing and inter-node stages, non-roots drive the
// coordinate and non-root Nccl stages, and SyncNccl runs on every rank.
func (e *Engine) Init() {
	var loops []registry.LoopFunc
	if e.r.IsRoot() {
		loops = append(loops, pipeline.RootNcclLoop, pipeline.SyncNcclLoop)
		if e.r.IsDistributed {
			loops = append(loops,
				pipeline.CopyD2HLoop,
				pipeline.PushLoop,
				pipeline.PullLoop,
				pipeline.CopyH2DLoop,
			)
		}
	} else {
		loops = append(loops,
			pipeline.CoordinateReduceLoop,
			pipeline.NonRootNcclLoop,
			pipeline.SyncNcclLoop,
			pipeline.CoordinateBroadcastLoop,
		)
	}
	e.r.Start(loops)
}

// Shutdown sets the shutdown flag and blocks until every stage loop this
// rank started has exited. It does not touch the Bus passed into New: a
// node running several ranks as goroutines of one process shares one Bus
// across them, and any rank's loop may be parked in RecvSignal (a
// non-root's NonRootNcclLoop, or the root's RootNcclLoop waiting for
// readiness signals), so Shutdown on one rank can block until the Bus
// is closed. A caller shutting down several ranks that share
// a Bus must use RequestShutdown/Wait instead, so it can close the
// shared Bus once, after every rank has been told to stop and before
// waiting for any of them to join — see cmd/worker.
func (e *Engine) Shutdown() { e.r.Shutdown() }

// RequestShutdown flips the shutdown flag without blocking.
func (e *Engine) RequestShutdown() { e.r.RequestShutdown() }

// Wait blocks until every stage loop this rank started has exited.
func (e *Engine) Wait() { e.r.Wait() }

func (e *Engine) Rank() int      { return e.r.Rank }
func (e *Engine) LocalRank() int { return e.r.LocalRank }
func (e *Engine) Size() int      { return e.r.Size }
func (e *Engine) LocalSize() int { return e.r.LocalSize }

// DefaultQueueList returns the queue list a partition on this rank, in
// this deployment mode, normally travels:
//
//	single-node, non-root:  CoordinateReduce, Reduce, CoordinateBroadcast, Broadcast
//	single-node, root:      Reduce, Broadcast
//	distributed, non-root:  CoordinateReduce, Reduce, CoordinateBroadcast, Broadcast
//	distributed, root:      Reduce, CopyD2H, Push, Pull, CopyH2D, Broadcast
func (e *Engine) DefaultQueueList() []workitem.QueueType {
	if !e.r.IsRoot() {
		return []workitem.QueueType{
			workitem.CoordinateReduce, workitem.Reduce,
			workitem.CoordinateBroadcast, workitem.Broadcast,
		}
	}
	if e.r.IsDistributed {
		return []workitem.QueueType{
			workitem.Reduce, workitem.CopyD2H, workitem.Push,
			workitem.Pull, workitem.CopyH2D, workitem.Broadcast,
		}
	}
	return []workitem.QueueType{workitem.Reduce, workitem.Broadcast}
}

// Context returns the BPSContext for a tensor of the given byte size,
// creating it and allocating its key list on first sight.
func (e *Engine) Context(name string, size uint64) *registry.BPSContext {
	return e.r.GetOrCreateContext(name, size)
}

// IsTensorInitialized reports whether InitTensor has completed for name
// at the given byte size.
func (e *Engine) IsTensorInitialized(name string, size uint64) bool {
	ctx, ok := e.r.LookupContext(name)
	if !ok {
		return false
	}
	ctx.Lock()
	defer ctx.Unlock()
	return ctx.Initialized && ctx.BuffLen == size
}

// EnqueueTensor validates input/output sizes, splits the tensor into
// partitions bounded by the registry's partition bound, assigns each
// partition a key from ctx's key list, and enqueues every partition on
// the head of its queue list. An empty queueList fires callback
// synchronously with success and enqueues nothing. readyEvent may be nil;
// when set, every partition carries it and the first stage's GetTask
// holds that partition back until the event fires.
func (e *Engine) EnqueueTensor(
	ctx *registry.BPSContext,
	name string,
	input, output workitem.Tensor,
	readyEvent workitem.ReadyEvent,
	device, priority, version int,
	callback workitem.StatusCallback,
	queueList []workitem.QueueType,
) error {
	if input != nil && output != nil && input.Size() != output.Size() {
		err := fmt.Errorf("engine: %s input/output size mismatch: %d != %d", name, input.Size(), output.Size())
		if callback != nil {
			callback(err)
		}
		return err
	}

	ctx.Lock()
	cpuBuff := ctx.CPUBuff
	keyList := append([]uint64(nil), ctx.KeyList...)
	ctx.Unlock()

	items := partition.Split(partition.Spec{
		TensorName: name,
		Device:     device,
		Priority:   priority,
		Version:    version,
		Tensor:     input,
		Output:     output,
		ReadyEvent: readyEvent,
		CPUBuff:    cpuBuff,
		QueueList:  queueList,
		Callback:   callback,
	}, e.r.PartitionBound)

	if len(items) != len(keyList) {
		err := fmt.Errorf("engine: %s partition count %d does not match key list length %d",
			name, len(items), len(keyList))
		if callback != nil {
			callback(err)
		}
		return err
	}

	if len(queueList) == 0 {
		if callback != nil {
			callback(nil)
		}
		return nil
	}

	size := output.Size()
	if input != nil {
		size = input.Size()
	}

	var accumulated uint64
	for i, item := range items {
		item.Key = keyList[i]
		e.r.Queue(item.QueueList[0]).AddTask(item)
		accumulated += item.Len
	}
	if accumulated != size {
		return fmt.Errorf("engine: %s accumulated partition size %d != tensor size %d", name, accumulated, size)
	}
	return nil
}

// InitTensor allocates ctx's pinned host buffer (only on the root of a
// node; non-roots never touch cpubuff), then, in a distributed job,
// pushes the tensor's initial values to the parameter server from
// worker 0's root only, and has every root participate in a global
// barrier once per partition.
func (e *Engine) InitTensor(ctx *registry.BPSContext, name string, hostBuffer []byte) error {
	ctx.Lock()
	size := ctx.BuffLen
	keyList := append([]uint64(nil), ctx.KeyList...)
	if e.r.IsRoot() {
		if hostBuffer != nil {
			ctx.CPUBuff = hostBuffer
			ctx.ReuseBuff = true
		} else {
			ctx.CPUBuff = make([]byte, size)
			ctx.ReuseBuff = false
		}
	}
	cpuBuff := ctx.CPUBuff
	ctx.Unlock()

	bound := e.r.PartitionBound
	if len(keyList) == 0 {
		return fmt.Errorf("engine: %s key list is empty", name)
	}
	expected := (size + bound - 1) / bound
	if uint64(len(keyList)) != expected {
		return fmt.Errorf("engine: %s key list length %d does not match expected partition count %d",
			name, len(keyList), expected)
	}

	var accumulated uint64
	for i := 0; accumulated < size; i++ {
		key := keyList[i]
		length := bound
		if size-accumulated < bound {
			length = size - accumulated
		}

		if e.r.IsDistributed && e.r.IsRoot() && e.r.WorkerID == 0 {
			val := cpuBuff[accumulated : accumulated+length]
			h := e.r.PS.ZPush(context.Background(), key, val, nil)
			if err := e.r.PS.Wait(context.Background(), h); err != nil {
				return fmt.Errorf("engine: %s init push key %d: %w", name, key, err)
			}
		}

		if e.r.IsDistributed && e.r.IsRoot() {
			if err := e.r.PS.Barrier(context.Background(), 0, psclient.RoleWorkerGroup); err != nil {
				return fmt.Errorf("engine: %s init barrier key %d: %w", name, key, err)
			}
		}

		accumulated += length
	}

	if accumulated != size || uint64(len(keyList)) != expected {
		return fmt.Errorf("engine: %s init did not cover the full buffer", name)
	}

	ctx.Lock()
	ctx.Initialized = true
	ctx.Unlock()
	return nil
}
