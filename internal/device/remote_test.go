package device

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	pb "github.com/Light-Reflection/byteps/proto"
)

// startDeviceServer runs a Server over a loopback TCP listener backed by a
// sizeBytes-sized Simulated device, and returns its address plus a cleanup
// func.
func startDeviceServer(t *testing.T, sizeBytes uint64) (string, func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	pb.RegisterDeviceServiceServer(srv, NewServer(NewSimulated(sizeBytes)))

	go srv.Serve(lis)

	return lis.Addr().String(), func() {
		srv.Stop()
		lis.Close()
	}
}

func TestRemoteCopyRoundTrip(t *testing.T) {
	addr, cleanup := startDeviceServer(t, 32)
	defer cleanup()

	r, err := DialRemote(addr, 32)
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.CopyH2D(ctx, 8, []byte{1, 2, 3, 4, 5, 6}))

	got := make([]byte, 6)
	require.NoError(t, r.CopyD2H(ctx, got, 8, 6))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestRemoteSize(t *testing.T) {
	addr, cleanup := startDeviceServer(t, 64)
	defer cleanup()

	r, err := DialRemote(addr, 64)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint64(64), r.Size())
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, off := range []uint64{0, 1, 255, 1 << 40} {
		assert.Equal(t, off, decodeOffset(encodeOffset(off)))
	}
}
