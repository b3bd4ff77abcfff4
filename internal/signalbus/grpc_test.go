package signalbus

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	pb "github.com/Light-Reflection/byteps/proto"
)

// startBroker runs a Broker on a loopback TCP listener and returns its
// address plus a cleanup func.
func startBroker(t *testing.T, localSize int) (string, func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	pb.RegisterSignalServiceServer(srv, NewBroker(localSize))

	go srv.Serve(lis)

	return lis.Addr().String(), func() {
		srv.Stop()
		lis.Close()
	}
}

func TestGRPCBusSendRecv(t *testing.T) {
	addr, cleanup := startBroker(t, 2)
	defer cleanup()

	sender, err := DialGRPCBus(addr, 2)
	require.NoError(t, err)
	defer sender.Close()

	receiver, err := DialGRPCBus(addr, 2)
	require.NoError(t, err)
	defer receiver.Close()

	require.NoError(t, sender.SendSignal(1, Message{SrcLocalRank: 0, Kind: DoBroadcast, Key: 99}))

	msg, err := receiver.RecvSignal(1)
	require.NoError(t, err)
	assert.Equal(t, Message{SrcLocalRank: 0, Kind: DoBroadcast, Key: 99}, msg)
}

func TestGRPCBusBroadcast(t *testing.T) {
	addr, cleanup := startBroker(t, 3)
	defer cleanup()

	sender, err := DialGRPCBus(addr, 3)
	require.NoError(t, err)
	defer sender.Close()

	r1, err := DialGRPCBus(addr, 3)
	require.NoError(t, err)
	defer r1.Close()
	r2, err := DialGRPCBus(addr, 3)
	require.NoError(t, err)
	defer r2.Close()

	require.NoError(t, sender.BroadcastSignal(0, Message{Kind: DoGroup}))

	msg1, err := r1.RecvSignal(1)
	require.NoError(t, err)
	assert.Equal(t, DoGroup, msg1.Kind)

	msg2, err := r2.RecvSignal(2)
	require.NoError(t, err)
	assert.Equal(t, DoGroup, msg2.Kind)
}

func TestDialGRPCBusUnreachableTarget(t *testing.T) {
	// grpc.NewClient lazily dials, so construction itself should not
	// fail for a syntactically valid but unreachable target.
	_, err := DialGRPCBus("127.0.0.1:0", 1)
	require.NoError(t, err)
}
