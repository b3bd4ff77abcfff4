// Package registry implements the global registry: the process-wide
// holder of rank/role, queues, the collective communicator, the PS
// client, the signal channel, the partition bound, and the shutdown
// flag.
//
// A real deployment runs one process per accelerator, so there is
// exactly one registry per process. This package keeps the struct itself
// plain and dependency-injected (Registry is a constructed value, not a
// package var) so that tests can run several simulated ranks — several
// Registries — inside one Go test binary. cmd/worker likewise builds one
// Registry per local rank (through engine.New) inside a single process;
// no package-level Registry exists.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Light-Reflection/byteps/internal/collective"
	"github.com/Light-Reflection/byteps/internal/device"
	"github.com/Light-Reflection/byteps/internal/logging"
	"github.com/Light-Reflection/byteps/internal/psclient"
	"github.com/Light-Reflection/byteps/internal/queue"
	"github.com/Light-Reflection/byteps/internal/signalbus"
	"github.com/Light-Reflection/byteps/internal/workitem"
)

// Config carries the configuration external to the registry.
type Config struct {
	Rank           int
	LocalRank      int
	Size           int
	LocalSize      int
	RootRank       int // local rank of the root device on this node
	IsDistributed  bool
	WorkerID       int // which worker process this rank belongs to
	PartitionBound uint64
	NcclGroupSize  int
}

// BPSContext is the per-tensor persistent metadata kept for the process
// lifetime once a tensor name is first seen.
type BPSContext struct {
	mu          sync.Mutex
	CPUBuff     []byte
	BuffLen     uint64
	KeyList     []uint64
	Initialized bool
	ReuseBuff   bool
}

// Lock/Unlock let callers serialize InitTensor against itself per context,
// matching the "created on first sight, kept for the process lifetime"
// lifecycle without exposing the mutex field directly.
func (c *BPSContext) Lock()   { c.mu.Lock() }
func (c *BPSContext) Unlock() { c.mu.Unlock() }

// Registry is one rank's Global Registry.
type Registry struct {
	Config

	shutdown atomic.Bool
	doneCh   chan struct{}

	Bus        signalbus.Bus
	Collective collective.Collective
	PS         psclient.Client
	Dev        device.Device
	Logger     *logging.Logger

	queuesMu sync.RWMutex
	queues   map[workitem.QueueType]*queue.Queue

	groups chan *NcclGroupEntry

	ctxMu    sync.Mutex
	contexts map[string]*BPSContext

	nextKeyMu sync.Mutex
	nextKey   uint64

	readyMu  sync.Mutex
	readyBuf map[signalbus.Kind][]signalbus.Message

	wg sync.WaitGroup
}

// NcclGroupEntry is one batch of items whose collective calls were issued
// under one GroupStart/GroupEnd pair.
type NcclGroupEntry struct {
	Items  []*workitem.Item
	Queues []*queue.Queue
}

// New constructs a Registry. It does not start any stage loops; call
// Start for that. logger may be nil, in which case logging is a no-op.
func New(cfg Config, bus signalbus.Bus, coll collective.Collective, ps psclient.Client, dev device.Device, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop()
	}
	r := &Registry{
		Config:     cfg,
		doneCh:     make(chan struct{}),
		Bus:        bus,
		Collective: coll,
		PS:         ps,
		Dev:        dev,
		Logger:     logger,
		queues:     make(map[workitem.QueueType]*queue.Queue),
		groups:     make(chan *NcclGroupEntry, 1024),
		contexts:   make(map[string]*BPSContext),
		nextKey:    1,
		readyBuf:   make(map[signalbus.Kind][]signalbus.Message),
	}
	for _, qt := range []workitem.QueueType{
		workitem.CoordinateReduce,
		workitem.Reduce,
		workitem.CoordinateBroadcast,
		workitem.Broadcast,
		workitem.CopyD2H,
		workitem.Push,
		workitem.Pull,
		workitem.CopyH2D,
	} {
		r.queues[qt] = queue.New(qt)
	}
	return r
}

// Queue returns the Scheduled Queue for the given stage.
func (r *Registry) Queue(qt workitem.QueueType) *queue.Queue {
	r.queuesMu.RLock()
	defer r.queuesMu.RUnlock()
	return r.queues[qt]
}

// IsRoot reports whether this rank drives collectives/inter-node traffic
// for its node.
func (r *Registry) IsRoot() bool { return r.LocalRank == r.RootRank }

// ShouldShutdown reports whether Shutdown has been called.
func (r *Registry) ShouldShutdown() bool { return r.shutdown.Load() }

// Done returns a channel closed exactly once, when Shutdown is called.
func (r *Registry) Done() <-chan struct{} { return r.doneCh }

// EnqueueNcclGroup hands a completed NCCL group batch to SyncNccl.
func (r *Registry) EnqueueNcclGroup(g *NcclGroupEntry) {
	r.groups <- g
}

// DequeueNcclGroup non-blockingly returns the next completed group batch,
// or nil if none is ready.
func (r *Registry) DequeueNcclGroup() *NcclGroupEntry {
	select {
	case g := <-r.groups:
		return g
	default:
		return nil
	}
}

// StashReadySignal holds a readiness signal the root's inbox delivered out
// of order with respect to what the caller was waiting for, so a later
// TakeReadySignal of the same kind can consume it instead of the signal
// being lost. Needed because ReduceReady and BcastReady share one inbox:
// a non-root's CoordinateReduceLoop and CoordinateBroadcastLoop run as
// independent goroutines, so their signals can interleave across two
// pipelined tensors even though each kind is itself FIFO per-sender.
func (r *Registry) StashReadySignal(kind signalbus.Kind, msg signalbus.Message) {
	r.readyMu.Lock()
	defer r.readyMu.Unlock()
	r.readyBuf[kind] = append(r.readyBuf[kind], msg)
}

// TakeReadySignal pops a previously stashed signal of kind, if any.
func (r *Registry) TakeReadySignal(kind signalbus.Kind) (signalbus.Message, bool) {
	r.readyMu.Lock()
	defer r.readyMu.Unlock()
	buf := r.readyBuf[kind]
	if len(buf) == 0 {
		return signalbus.Message{}, false
	}
	msg := buf[0]
	r.readyBuf[kind] = buf[1:]
	return msg, true
}

// AllocateKeys reserves n fresh, process-unique 64-bit keys: two tensors
// enqueued back-to-back never collide on key, even if their names
// overlap.
func (r *Registry) AllocateKeys(n int) []uint64 {
	r.nextKeyMu.Lock()
	defer r.nextKeyMu.Unlock()
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = r.nextKey
		r.nextKey++
	}
	return keys
}

// ContextFor returns the BPSContext for name, creating one on first sight.
func (r *Registry) ContextFor(name string) *BPSContext {
	r.ctxMu.Lock()
	defer r.ctxMu.Unlock()
	ctx, ok := r.contexts[name]
	if !ok {
		ctx = &BPSContext{}
		r.contexts[name] = ctx
	}
	return ctx
}

// LookupContext returns the BPSContext for name without creating one,
// reporting whether it exists yet.
func (r *Registry) LookupContext(name string) (*BPSContext, bool) {
	r.ctxMu.Lock()
	defer r.ctxMu.Unlock()
	ctx, ok := r.contexts[name]
	return ctx, ok
}

// GetOrCreateContext returns the BPSContext for name, creating it and
// allocating its key list on first sight of a tensor of the given byte
// size. The key list length is ceil(size / PartitionBound), matching the
// partition count Split(bound) will produce for a tensor this size.
func (r *Registry) GetOrCreateContext(name string, size uint64) *BPSContext {
	ctx := r.ContextFor(name)
	ctx.Lock()
	defer ctx.Unlock()
	if ctx.KeyList == nil {
		ctx.BuffLen = size
		n := int((size + r.PartitionBound - 1) / r.PartitionBound)
		ctx.KeyList = r.AllocateKeys(n)
	}
	return ctx
}

// LoopFunc is one stage loop body, run once per call; Start calls it
// repeatedly until ShouldShutdown reports true.
type LoopFunc func(r *Registry)

// Start launches one goroutine per loop, each running
// `for !r.ShouldShutdown() { loop(r) }`. It returns immediately; call Wait
// to block until every loop has exited.
func (r *Registry) Start(loops []LoopFunc) {
	for _, loop := range loops {
		r.wg.Add(1)
		go func(fn LoopFunc) {
			defer r.wg.Done()
			for !r.ShouldShutdown() {
				fn(r)
			}
		}(loop)
	}
}

// Wait blocks until every loop started by Start has returned.
func (r *Registry) Wait() { r.wg.Wait() }

// RequestShutdown flips the shutdown flag and closes Done without waiting
// for loops to exit. Stage loops call this on an unrecoverable error from
// one of their adapters so they can unwind without deadlocking on their
// own wg entry. External callers that share a Bus across ranks pair it
// with Wait (see Engine.RequestShutdown); others can use Shutdown.
func (r *Registry) RequestShutdown() {
	if r.shutdown.CompareAndSwap(false, true) {
		close(r.doneCh)
	}
}

// Shutdown flips the shutdown flag, closes Done, and blocks until every
// loop started by Start has exited. Items already queued are abandoned;
// an item mid-flight in a stage loop is allowed to finish that stage
// before the loop observes shutdown and exits.
//
// Shutdown does not close Bus: a node running several local ranks as
// goroutines of one process shares a single Bus across their registries,
// so closing it is the node's decision once every rank on it has joined,
// not any one rank's to make as a side effect of its own shutdown.
func (r *Registry) Shutdown() {
	r.RequestShutdown()
	r.wg.Wait()
}

// CheckInit returns an error if the registry looks unconfigured, mirroring
// BytePS's CheckInitialized/CheckInit guard used by the public entry
// points.
func (r *Registry) CheckInit() error {
	if r.LocalSize <= 0 {
		return fmt.Errorf("registry: not initialized (local_size=%d)", r.LocalSize)
	}
	return nil
}
