package psclient

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
	recipe "go.etcd.io/etcd/client/v3/experimental/recipes"

	"github.com/Light-Reflection/byteps/internal/codec"
)

// EtcdClient backs Client with etcd's KV store for push/pull and etcd's
// Barrier recipe (go.etcd.io/etcd/client/v3/experimental/recipes) for the
// Barrier primitive.
type EtcdClient struct {
	cli *clientv3.Client

	// BarrierSize is the number of callers Barrier expects to arrive
	// for a given (groupID, roleMask) before releasing them. A real
	// cluster-wide coordinator would learn this from its own process
	// rendezvous/bootstrap; this adapter is handed the count directly
	// by its caller instead of rediscovering it.
	BarrierSize int

	keyPrefix string

	mu      sync.Mutex
	waiters map[Handle]chan error
}

// NewEtcdClient wraps an existing etcd client. keyPrefix namespaces all
// keys this adapter writes (e.g. "byteps/").
func NewEtcdClient(cli *clientv3.Client, keyPrefix string, barrierSize int) *EtcdClient {
	return &EtcdClient{
		cli:         cli,
		BarrierSize: barrierSize,
		keyPrefix:   keyPrefix,
		waiters:     make(map[Handle]chan error),
	}
}

func (c *EtcdClient) valueKey(key uint64) string {
	return fmt.Sprintf("%svalues/%d", c.keyPrefix, key)
}

func (c *EtcdClient) barrierKey(groupID, roleMask int) string {
	return fmt.Sprintf("%sbarrier/%d/%d", c.keyPrefix, groupID, roleMask)
}

type pushHandle struct{ done chan error }
type pullHandle struct{ done chan error }

// ZPush tags each call with a request id (github.com/google/uuid, the
// same per-RPC correlation-id pattern a Raft client uses to match a
// reply to its outstanding request) so a failed push can be traced back
// to one call site in the etcd cluster's own logs.
//
// A push accumulates into the server's existing value rather than
// overwriting it: ps-lite's default server handler sums concurrent
// worker pushes to the same key, which is what lets several workers
// allreduce a tensor by each pushing its own partial gradient and then
// pulling back the combined total. A key with no prior value behaves
// as all-zero, so the first push to a key is equivalent to a plain set.
func (c *EtcdClient) ZPush(ctx context.Context, key uint64, val []byte, cb func(error)) Handle {
	reqID := uuid.NewString()
	h := &pushHandle{done: make(chan error, 1)}
	go func() {
		incoming := codec.BytesToFloat64Slice(val)

		_, err := concurrency.NewSTM(c.cli, func(s concurrency.STM) error {
			merged := make([]float64, len(incoming))
			copy(merged, incoming)
			if existing := s.Get(c.valueKey(key)); existing != "" {
				prev := codec.BytesToFloat64Slice([]byte(existing))
				for i := range merged {
					if i < len(prev) {
						merged[i] += prev[i]
					}
				}
			}
			s.Put(c.valueKey(key), string(codec.Float64SliceToBytes(merged)))
			return nil
		})
		if err != nil {
			err = fmt.Errorf("psclient: push %s key %d: %w", reqID, key, err)
		}
		if cb != nil {
			cb(err)
		}
		h.done <- err
	}()
	return h
}

func (c *EtcdClient) ZPull(ctx context.Context, key uint64, cb func([]byte, error)) Handle {
	reqID := uuid.NewString()
	h := &pullHandle{done: make(chan error, 1)}
	go func() {
		resp, err := c.cli.Get(ctx, c.valueKey(key))
		var val []byte
		if err == nil {
			if len(resp.Kvs) == 0 {
				err = fmt.Errorf("psclient: pull %s: key %d not found", reqID, key)
			} else {
				val = resp.Kvs[0].Value
			}
		} else {
			err = fmt.Errorf("psclient: pull %s key %d: %w", reqID, key, err)
		}
		if cb != nil {
			cb(val, err)
		}
		h.done <- err
	}()
	return h
}

func (c *EtcdClient) Wait(ctx context.Context, h Handle) error {
	switch w := h.(type) {
	case *pushHandle:
		select {
		case err := <-w.done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case *pullHandle:
		select {
		case err := <-w.done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return fmt.Errorf("psclient: unknown handle type %T", h)
	}
}

// Barrier implements an N-of-N rendezvous over etcd's Barrier recipe: the
// first arrival holds the barrier, every arrival atomically increments a
// shared counter via an STM transaction, and the arrival that completes
// the count releases it; everyone else blocks in Wait until released.
func (c *EtcdClient) Barrier(ctx context.Context, groupID int, roleMask int) error {
	key := c.barrierKey(groupID, roleMask)
	counterKey := key + "/count"
	b := recipe.NewBarrier(c.cli, key)

	var arrived int
	_, err := concurrency.NewSTM(c.cli, func(s concurrency.STM) error {
		n := 0
		if v := s.Get(counterKey); v != "" {
			n, _ = strconv.Atoi(v)
		}
		n++
		s.Put(counterKey, strconv.Itoa(n))
		arrived = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("psclient: barrier arrival count: %w", err)
	}

	if arrived == 1 {
		if err := b.Hold(); err != nil {
			return fmt.Errorf("psclient: barrier hold: %w", err)
		}
	}

	if arrived >= c.BarrierSize {
		if _, err := c.cli.Delete(ctx, counterKey); err != nil {
			return fmt.Errorf("psclient: barrier counter reset: %w", err)
		}
		return b.Release()
	}

	return b.Wait()
}
