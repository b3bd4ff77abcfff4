// Package collective implements a narrow intra-node collective interface
// (groupStart/groupEnd/reduce/broadcast) standing in for NCCL. The shipped
// implementation, Local, performs real sum/prod/min/max arithmetic over
// goroutine-visible buffers rather than talking to an actual collective
// library.
package collective

import "context"

// ReduceOp names the elementwise combine applied across ranks. Sum drives
// gradient reduction; Prod/Min/Max generalize the same rendezvous to other
// elementwise combines.
type ReduceOp int

const (
	Sum ReduceOp = iota
	Prod
	Min
	Max
)

// Collective is the interface the Root/NonRoot NCCL pipeline stages
// consume. Every call is scoped to one communicator (one node's set of
// local ranks) and one partition key; GroupStart/GroupEnd bracket a batch
// of Reduce/Broadcast calls the way ncclGroupStart/ncclGroupEnd do.
type Collective interface {
	GroupStart()
	GroupEnd()

	// Reduce combines buf across all localSize ranks of the
	// communicator using op, leaving the combined result in root's buf
	// only (non-root buffers are left untouched, matching ncclReduce's
	// destination-only-on-root semantics). Every rank of the
	// communicator must call Reduce with the same key before any of
	// them returns — it is a rendezvous, not a one-sided call.
	Reduce(ctx context.Context, key uint64, selfLocalRank int, buf []float64, op ReduceOp, root int) error

	// Broadcast copies root's buf into every other rank's buf. Like
	// Reduce, it is a rendezvous: every rank must call Broadcast with
	// the same key before any of them returns.
	Broadcast(ctx context.Context, key uint64, selfLocalRank int, buf []float64, root int) error
}
