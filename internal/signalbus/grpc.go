package signalbus

import (
	"context"
	"fmt"
	"io"
	"sync"

	pb "github.com/Light-Reflection/byteps/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Broker is the cross-process counterpart of InProcessBus's per-rank
// channel array, hosted by one well-known address every rank's process
// dials into; every rank talks to it through a GRPCBus. cmd/worker does
// not run a Broker (it uses InProcessBus); this package's tests do.
type Broker struct {
	pb.UnimplementedSignalServiceServer
	inboxes []chan *pb.SignalEnvelope
}

// NewBroker allocates a Broker serving localSize local ranks.
func NewBroker(localSize int) *Broker {
	b := &Broker{inboxes: make([]chan *pb.SignalEnvelope, localSize)}
	for i := range b.inboxes {
		b.inboxes[i] = make(chan *pb.SignalEnvelope, 4096)
	}
	return b
}

func (b *Broker) Send(ctx context.Context, env *pb.SignalEnvelope) (*pb.SendAck, error) {
	dest := int(env.DestLocalRank)
	if dest < 0 || dest >= len(b.inboxes) {
		return nil, fmt.Errorf("signalbus: broker: no such local rank %d", dest)
	}
	select {
	case b.inboxes[dest] <- env:
		return &pb.SendAck{Success: true}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Broker) Subscribe(req *pb.SubscribeRequest, stream pb.SignalService_SubscribeServer) error {
	rank := int(req.LocalRank)
	if rank < 0 || rank >= len(b.inboxes) {
		return fmt.Errorf("signalbus: broker: no such local rank %d", rank)
	}
	inbox := b.inboxes[rank]
	for {
		select {
		case env := <-inbox:
			if err := stream.Send(env); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

// GRPCBus is a Bus backed by a Broker dialed over gRPC, for deployments
// where local ranks are separate OS processes rather than goroutines of
// one process.
type GRPCBus struct {
	localSize int
	conn      *grpc.ClientConn
	client    pb.SignalServiceClient

	mu      sync.Mutex
	streams map[int]pb.SignalService_SubscribeClient
	closed  chan struct{}
}

// DialGRPCBus connects to a Broker at addr serving localSize local ranks.
func DialGRPCBus(addr string, localSize int) (*GRPCBus, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("signalbus: dial %s: %w", addr, err)
	}
	return &GRPCBus{
		localSize: localSize,
		conn:      conn,
		client:    pb.NewSignalServiceClient(conn),
		streams:   make(map[int]pb.SignalService_SubscribeClient),
		closed:    make(chan struct{}),
	}, nil
}

func (b *GRPCBus) SendSignal(destLocalRank int, msg Message) error {
	_, err := b.client.Send(context.Background(), &pb.SignalEnvelope{
		SrcLocalRank:  int32(msg.SrcLocalRank),
		Kind:          int32(msg.Kind),
		Key:           msg.Key,
		DestLocalRank: int32(destLocalRank),
	})
	if err != nil {
		return fmt.Errorf("signalbus: send to rank %d: %w", destLocalRank, err)
	}
	return nil
}

func (b *GRPCBus) BroadcastSignal(srcLocalRank int, msg Message) error {
	for rank := 0; rank < b.localSize; rank++ {
		if rank == srcLocalRank {
			continue
		}
		if err := b.SendSignal(rank, msg); err != nil {
			return err
		}
	}
	return nil
}

// subscriptionFor lazily opens the long-lived Subscribe stream draining
// selfLocalRank's inbox, reused across every RecvSignal call from that
// rank.
func (b *GRPCBus) subscriptionFor(selfLocalRank int) (pb.SignalService_SubscribeClient, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.streams[selfLocalRank]; ok {
		return s, nil
	}
	stream, err := b.client.Subscribe(context.Background(), &pb.SubscribeRequest{LocalRank: int32(selfLocalRank)})
	if err != nil {
		return nil, fmt.Errorf("signalbus: subscribe rank %d: %w", selfLocalRank, err)
	}
	b.streams[selfLocalRank] = stream
	return stream, nil
}

func (b *GRPCBus) RecvSignal(selfLocalRank int) (Message, error) {
	stream, err := b.subscriptionFor(selfLocalRank)
	if err != nil {
		return Message{}, err
	}
	env, err := stream.Recv()
	if err == io.EOF {
		return Message{}, fmt.Errorf("signalbus: subscription closed")
	}
	if err != nil {
		return Message{}, fmt.Errorf("signalbus: recv rank %d: %w", selfLocalRank, err)
	}
	return Message{SrcLocalRank: int(env.SrcLocalRank), Kind: Kind(env.Kind), Key: env.Key}, nil
}

func (b *GRPCBus) Close() {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
	b.conn.Close()
}
