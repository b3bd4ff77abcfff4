package device

import (
	"context"
	"fmt"
	"io"

	pb "github.com/Light-Reflection/byteps/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Remote is a Device backed by a DeviceService gRPC server running in
// another process, dialed by address and driven through streaming
// Write/Read RPCs. Used when a rank's accelerator is hosted by cmd/device
// rather than simulated in-process.
type Remote struct {
	addr       string
	size       uint64
	conn       *grpc.ClientConn
	client     pb.DeviceServiceClient
}

// DialRemote connects to a DeviceService server at addr. sizeBytes must
// match the server's configured memory size.
func DialRemote(addr string, sizeBytes uint64) (*Remote, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("device: dial %s: %w", addr, err)
	}
	return &Remote{
		addr:   addr,
		size:   sizeBytes,
		conn:   conn,
		client: pb.NewDeviceServiceClient(conn),
	}, nil
}

func (r *Remote) Close() error { return r.conn.Close() }

func (r *Remote) SetCurrent(ctx context.Context) error { return nil }

func (r *Remote) Size() uint64 { return r.size }

func (r *Remote) CopyD2H(ctx context.Context, dst []byte, srcOffset uint64, n uint64) error {
	stream, err := r.client.Read(ctx, &pb.ReadRequest{SrcOffset: srcOffset, NumBytes: n})
	if err != nil {
		return fmt.Errorf("device: Read RPC: %w", err)
	}
	got := uint64(0)
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("device: Read stream: %w", err)
		}
		copy(dst[got:], chunk.Data)
		got += uint64(len(chunk.Data))
	}
	if got != n {
		return fmt.Errorf("device: CopyD2H expected %d bytes, got %d", n, got)
	}
	return nil
}

func (r *Remote) CopyH2D(ctx context.Context, dstOffset uint64, src []byte) error {
	stream, err := r.client.Write(ctx)
	if err != nil {
		return fmt.Errorf("device: Write RPC: %w", err)
	}
	// The destination offset travels as a tiny 8-byte header chunk sent
	// ahead of the payload chunk; the server decodes it before touching
	// device memory.
	if err := stream.Send(&pb.DataChunk{Data: encodeOffset(dstOffset)}); err != nil {
		return fmt.Errorf("device: Write send header: %w", err)
	}
	if err := stream.Send(&pb.DataChunk{Data: src}); err != nil {
		return fmt.Errorf("device: Write send payload: %w", err)
	}
	resp, err := stream.CloseAndRecv()
	if err != nil {
		return fmt.Errorf("device: Write CloseAndRecv: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("device: CopyH2D reported failure")
	}
	return nil
}

func encodeOffset(off uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(off >> (8 * i))
	}
	return b
}

func decodeOffset(b []byte) uint64 {
	var off uint64
	for i := 0; i < 8 && i < len(b); i++ {
		off |= uint64(b[i]) << (8 * i)
	}
	return off
}
