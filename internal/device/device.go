// Package device implements a narrow accelerator-runtime interface:
// synchronous device<->host byte copy (no separate stream synchronize
// call) and set-current-device.
// Two implementations are provided: Simulated (in-process byte slice, for
// tests and single-process runs) and Remote (gRPC client to a device
// process).
package device

import "context"

// Device is one rank's accelerator memory, addressed by byte offset.
// Implementations are responsible for their own internal synchronization;
// callers never need to hold a lock across a Device call, because the
// pipeline's queue_list ordering already serializes access to a
// partition's window (D->H writes, then Push reads, then Pull writes,
// then H->D reads — never two stages touching the same window at once).
type Device interface {
	// SetCurrent selects this device as current for the calling
	// goroutine's subsequent stream operations. Simulated is a no-op;
	// Remote is also a no-op (there is no process-global "current
	// device" to select over gRPC). No stage loop currently calls it.
	SetCurrent(ctx context.Context) error

	// CopyD2H synchronously copies n bytes starting at srcOffset from
	// device memory into dst. dst must have length >= n. The copy and
	// its stream synchronize are one call here because there is no
	// asynchronous accelerator to overlap with; CopyD2H simply blocks
	// until the bytes have landed.
	CopyD2H(ctx context.Context, dst []byte, srcOffset uint64, n uint64) error

	// CopyH2D synchronously copies src into device memory starting at
	// dstOffset.
	CopyH2D(ctx context.Context, dstOffset uint64, src []byte) error

	// Size reports the device memory region's total byte length.
	Size() uint64
}
