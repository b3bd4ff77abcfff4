// Package psclient implements a narrow parameter-server client interface
// (ZPush/ZPull/Wait/Barrier), standing in for the PS key/value client a
// production deployment would link against.
package psclient

import "context"

// Role masks passed to Barrier, mirroring the scheduler/server/worker
// group bitmask a real parameter-server control plane uses to scope a
// barrier round to one class of node.
const (
	RoleScheduler   = 1
	RoleServerGroup = 2
	RoleWorkerGroup = 4
)

// Handle identifies an in-flight push or pull, returned whether or not a
// completion callback was given, for the Wait-based synchronous path
// InitTensor uses
// (operations.cc's InitTensor calls GetPS()->Wait(GetPS()->ZPush(...))).
type Handle interface{}

// Client is the interface the Push/Pull pipeline stages and InitTensor
// consume.
type Client interface {
	// ZPush asynchronously pushes val under key, invoking cb on
	// completion. Returns a Handle usable with Wait for callers that
	// want to block instead.
	ZPush(ctx context.Context, key uint64, val []byte, cb func(error)) Handle

	// ZPull asynchronously pulls the value stored under key into a
	// freshly allocated buffer, invoking cb with it on completion.
	ZPull(ctx context.Context, key uint64, cb func([]byte, error)) Handle

	// Wait blocks until the push/pull identified by h has completed.
	Wait(ctx context.Context, h Handle) error

	// Barrier blocks every caller passing the same groupID and roleMask
	// until all of them have arrived, mirroring
	// ps::Postoffice::Get()->Barrier(group_id, role_mask).
	Barrier(ctx context.Context, groupID int, roleMask int) error
}
