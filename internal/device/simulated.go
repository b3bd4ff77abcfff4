package device

import (
	"context"
	"fmt"
	"sync"
)

// Simulated stands in for one rank's accelerator memory with a plain,
// bounds-checked byte slice.
type Simulated struct {
	mu  sync.Mutex
	mem []byte
}

// NewSimulated allocates a simulated device with sizeBytes of memory.
func NewSimulated(sizeBytes uint64) *Simulated {
	return &Simulated{mem: make([]byte, sizeBytes)}
}

func (s *Simulated) SetCurrent(ctx context.Context) error { return nil }

func (s *Simulated) Size() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.mem))
}

func (s *Simulated) CopyD2H(ctx context.Context, dst []byte, srcOffset uint64, n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if srcOffset+n > uint64(len(s.mem)) {
		return fmt.Errorf("device: CopyD2H read out of bounds: offset=%d n=%d size=%d", srcOffset, n, len(s.mem))
	}
	if uint64(len(dst)) < n {
		return fmt.Errorf("device: CopyD2H destination too small: have %d need %d", len(dst), n)
	}
	copy(dst[:n], s.mem[srcOffset:srcOffset+n])
	return nil
}

func (s *Simulated) CopyH2D(ctx context.Context, dstOffset uint64, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := uint64(len(src))
	if dstOffset+n > uint64(len(s.mem)) {
		return fmt.Errorf("device: CopyH2D write out of bounds: offset=%d n=%d size=%d", dstOffset, n, len(s.mem))
	}
	copy(s.mem[dstOffset:dstOffset+n], src)
	return nil
}

// Tensor exposes a Simulated device's full memory region as a
// workitem.Tensor, so the same memory backs both the accelerator-copy path
// (CopyD2H/CopyH2D) and the collective-reduce path that operates on
// Tensor.Data() directly: a device tensor handle's data pointer already is
// device memory, with no separate host mirror.
type Tensor struct {
	dev         *Simulated
	numElements uint64
	dtype       int32
}

// NewTensor wraps dev's entire memory region as a Tensor with the given
// element count and dtype code.
func NewTensor(dev *Simulated, numElements uint64, dtype int32) *Tensor {
	return &Tensor{dev: dev, numElements: numElements, dtype: dtype}
}

func (t *Tensor) Data() []byte {
	t.dev.mu.Lock()
	defer t.dev.mu.Unlock()
	return t.dev.mem
}

func (t *Tensor) Size() uint64        { return t.dev.Size() }
func (t *Tensor) NumElements() uint64 { return t.numElements }
func (t *Tensor) DType() int32        { return t.dtype }
